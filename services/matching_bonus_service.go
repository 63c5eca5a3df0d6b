// services/matching_bonus_service.go
package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/astrixglobal/astrix_backend/models"
	"github.com/astrixglobal/astrix_backend/utils"
)

// effectiveVolume caps a leg's raw purchase-volume sum.
func effectiveVolume(raw float64) float64 {
	if raw > SideVolumeCap {
		return SideVolumeCap
	}
	return raw
}

// qualifiesForMatching requires both effective leg volumes to reach the cap.
func qualifiesForMatching(leftRaw, rightRaw float64) bool {
	return effectiveVolume(leftRaw) >= SideVolumeCap && effectiveVolume(rightRaw) >= SideVolumeCap
}

// MatchingBonusService runs the matching bonus pass over all active tree
// nodes for one half-day window.
type MatchingBonusService struct {
	db      *mongo.Database
	payouts *PayoutService
	ranks   *RankService
	clubs   *ClubService
}

// NewMatchingBonusService creates a new matching bonus service
func NewMatchingBonusService(db *mongo.Database, payouts *PayoutService, ranks *RankService, clubs *ClubService) *MatchingBonusService {
	return &MatchingBonusService{db: db, payouts: payouts, ranks: ranks, clubs: clubs}
}

// Run walks every active node, pays the qualifying ones and consumes the
// contributing ledger entries. Per-node failures are logged and skipped;
// only pass-level failures (tree or cursor reads) propagate.
func (s *MatchingBonusService) Run(ctx context.Context, window utils.BonusWindow) (int, error) {
	arena, err := utils.LoadTreeArena(ctx, s.db)
	if err != nil {
		return 0, err
	}

	cursor, err := s.db.Collection("binarytree").Find(ctx, bson.M{"status": models.NodeStatusActive})
	if err != nil {
		return 0, fmt.Errorf("failed to load active tree nodes: %w", err)
	}
	defer cursor.Close(ctx)

	created := 0
	for cursor.Next(ctx) {
		var node models.BinaryTreeNode
		if err := cursor.Decode(&node); err != nil {
			return created, fmt.Errorf("failed to decode tree node: %w", err)
		}

		paid, err := s.processNode(ctx, arena, node, window)
		if err != nil {
			log.Printf("Matching bonus: error processing node %s: %v", node.UserID.Hex(), err)
			continue
		}
		if paid {
			created++
		}
	}
	if err := cursor.Err(); err != nil {
		return created, fmt.Errorf("tree node cursor error: %w", err)
	}

	if created > 0 {
		summary := fmt.Sprintf("Matching bonus pass created %d payout(s) for window %s - %s",
			created, window.Start.Format(time.RFC3339), window.End.Format(time.RFC3339))
		if err := utils.SaveRoleNotification(s.db, "admin", "Matching Bonus Summary", summary, "bonus_summary", nil); err != nil {
			log.Printf("Failed to save matching bonus admin notification: %v", err)
		}
		utils.SendAdminSummaryEmail("Matching Bonus Summary", summary)
	}
	return created, nil
}

// sideVolume sums the windowed, unconsumed first-order purchase volume of
// one leg's team and returns the contributing ledger entry ids.
func (s *MatchingBonusService) sideVolume(ctx context.Context, team []primitive.ObjectID, window utils.BonusWindow) ([]primitive.ObjectID, float64, error) {
	if len(team) == 0 {
		return nil, 0, nil
	}

	cursor, err := s.db.Collection("reward_history").Find(ctx, bson.M{
		"userId":       bson.M{"$in": team},
		"isFirstOrder": true,
		"isChecked":    false,
		"createdAt":    bson.M{"$gte": window.Start, "$lte": window.End},
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load windowed histories: %w", err)
	}
	defer cursor.Close(ctx)

	var ids []primitive.ObjectID
	var sum float64
	for cursor.Next(ctx) {
		var history models.RewardHistory
		if err := cursor.Decode(&history); err != nil {
			return nil, 0, fmt.Errorf("failed to decode history entry: %w", err)
		}
		if history.OrderID == nil {
			continue
		}

		var order models.Order
		err := s.db.Collection("orders").FindOne(ctx, bson.M{"_id": *history.OrderID}).Decode(&order)
		if err == mongo.ErrNoDocuments {
			log.Printf("Matching bonus: history %s references missing order %s", history.ID.Hex(), history.OrderID.Hex())
			continue
		}
		if err != nil {
			return nil, 0, fmt.Errorf("failed to load order for history %s: %w", history.ID.Hex(), err)
		}

		ids = append(ids, history.ID)
		sum += order.PurchaseVolume
	}
	return ids, sum, cursor.Err()
}

// claimHistories flips the consumed flag on every listed entry in one
// conditional update and reports how many this pass won.
func (s *MatchingBonusService) claimHistories(ctx context.Context, ids []primitive.ObjectID) (int64, error) {
	res, err := s.db.Collection("reward_history").UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": ids}, "isChecked": false},
		bson.M{"$set": bson.M{"isChecked": true}},
	)
	if err != nil {
		return 0, fmt.Errorf("failed to claim history entries: %w", err)
	}
	return res.ModifiedCount, nil
}

// processNode evaluates one node and, on dual-side qualification, claims
// the contributing entries and pays the fixed bonus.
func (s *MatchingBonusService) processNode(ctx context.Context, arena utils.TreeArena, node models.BinaryTreeNode, window utils.BonusWindow) (bool, error) {
	leftTeam := utils.TeamMembers(arena, node.UserID, utils.LeftSide)
	rightTeam := utils.TeamMembers(arena, node.UserID, utils.RightSide)

	leftIDs, leftRaw, err := s.sideVolume(ctx, leftTeam, window)
	if err != nil {
		return false, err
	}
	rightIDs, rightRaw, err := s.sideVolume(ctx, rightTeam, window)
	if err != nil {
		return false, err
	}

	if !qualifiesForMatching(leftRaw, rightRaw) {
		return false, nil
	}

	// Claim every contributing entry in one conditional update. A partial
	// claim means an overlapping pass got there first; skip the node and
	// leave the claimed entries consumed.
	contributing := append(append([]primitive.ObjectID{}, leftIDs...), rightIDs...)
	modified, err := s.claimHistories(ctx, contributing)
	if err != nil {
		return false, err
	}
	if modified != int64(len(contributing)) {
		log.Printf("Matching bonus: node %s claim was partial (%d of %d), skipping",
			node.UserID.Hex(), modified, len(contributing))
		return false, nil
	}

	amount := MatchingBonusAmount

	wallet, err := s.payouts.Wallet(ctx, node.UserID)
	if err != nil {
		return false, err
	}
	panVerified := wallet != nil && wallet.PANVerified

	status, err := s.payouts.ResolveStatus(ctx, node.UserID, amount)
	if err != nil {
		return false, err
	}
	txID, err := s.payouts.NewTransactionID(ctx, "MB")
	if err != nil {
		return false, err
	}

	split := matchingSplit(amount, panVerified)
	payout := &models.Payout{
		TransactionID:  txID,
		UserID:         node.UserID,
		Name:           models.PayoutMatchingBonus,
		Status:         status,
		TotalAmount:    amount,
		WithdrawAmount: split.Withdraw,
		RewardAmount:   split.Reward,
		TDSAmount:      split.TDS,
		AdminCharge:    split.Admin,
		SourceRefs:     contributing,
		IsChecked:      false,
	}
	if err := s.payouts.CreatePayout(ctx, payout, false); err != nil {
		return false, err
	}

	credits := []models.RewardScore{
		{UserID: node.UserID, Points: split.Withdraw, Source: "matching", ReferenceID: txID, Category: "matching bonus", Remarks: "Matching bonus withdraw share"},
		{UserID: node.UserID, Points: split.Reward, Source: "reward", ReferenceID: txID, Category: "matching bonus", Remarks: "Matching bonus reward share"},
	}
	for _, credit := range credits {
		if err := s.payouts.CreditRewardScore(ctx, credit); err != nil {
			log.Printf("Matching bonus: failed to credit reward score for %s: %v", node.UserID.Hex(), err)
		}
	}

	if _, _, err := s.ranks.Evaluate(ctx, arena, node.UserID); err != nil {
		log.Printf("Matching bonus: rank evaluation failed for %s: %v", node.UserID.Hex(), err)
	}
	if club, changed, err := s.clubs.PromoteClub(ctx, node.UserID); err != nil {
		log.Printf("Matching bonus: club evaluation failed for %s: %v", node.UserID.Hex(), err)
	} else if changed {
		message := fmt.Sprintf("Congratulations! You have been promoted to the %s club.", club)
		if err := utils.SaveNotification(s.db, node.UserID, "Club Promotion", message, "club_promotion", "high", "/club", nil); err != nil {
			log.Printf("Failed to save club notification: %v", err)
		}
	}

	message := fmt.Sprintf("You earned a matching bonus of %.2f (transaction %s).", amount, txID)
	if err := utils.SaveNotification(s.db, node.UserID, "Matching Bonus Earned", message, "matching_bonus", "normal", "/payouts", map[string]interface{}{"transactionId": txID}); err != nil {
		log.Printf("Failed to save matching bonus notification: %v", err)
	}
	if err := utils.SendFCMNotificationToUser(s.db, node.UserID, "Matching Bonus Earned", message, map[string]string{"transactionId": txID}); err != nil {
		log.Printf("Failed to push matching bonus notification: %v", err)
	}

	return true, nil
}
