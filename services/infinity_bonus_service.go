// services/infinity_bonus_service.go
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

// infinityLookback is how far back the propagator scans for unforwarded
// payouts.
const infinityLookback = 15 * 24 * time.Hour

// tierPercentage maps a sponsor's star rank to the share of a downline
// payout they receive. Unknown tiers get nothing.
func tierPercentage(rank int) float64 {
	switch rank {
	case 1:
		return 0.25
	case 2:
		return 0.35
	case 3:
		return 0.40
	case 4:
		return 0.45
	case 5:
		return 0.50
	default:
		return 0
	}
}

// infinityPayoutName maps a source payout name to the propagated payout
// name.
func infinityPayoutName(sourceName string) string {
	if sourceName == models.PayoutMatchingBonus {
		return models.PayoutInfinityMatching
	}
	return models.PayoutInfinitySalesBonus
}

// infinitySourceFilter selects unforwarded matching and direct sales
// payouts in the trailing lookback ending at asOf. The upper bound keeps a
// backdated pass from picking up payouts created after its cutoff.
func infinitySourceFilter(asOf time.Time) bson.M {
	return bson.M{
		"name":      bson.M{"$in": []string{models.PayoutMatchingBonus, models.PayoutDirectSalesBonus}},
		"isChecked": false,
		"date":      bson.M{"$gte": asOf.Add(-infinityLookback), "$lte": asOf},
	}
}

// InfinityBonusService forwards a rank-tier share of recent matching and
// direct sales payouts to each earner's infinity sponsor.
type InfinityBonusService struct {
	db      *mongo.Database
	payouts *PayoutService
	ranks   *RankService
	clubs   *ClubService
}

// NewInfinityBonusService creates a new infinity bonus service
func NewInfinityBonusService(db *mongo.Database, payouts *PayoutService, ranks *RankService, clubs *ClubService) *InfinityBonusService {
	return &InfinityBonusService{db: db, payouts: payouts, ranks: ranks, clubs: clubs}
}

// Run scans the trailing lookback for unforwarded source payouts. Sources
// without a payable sponsor are left unflagged for a later pass; everything
// else is claimed exactly once.
func (s *InfinityBonusService) Run(ctx context.Context, asOf time.Time) (int, error) {
	arena, err := utils.LoadTreeArena(ctx, s.db)
	if err != nil {
		return 0, err
	}

	cursor, err := s.db.Collection("payouts").Find(ctx, infinitySourceFilter(asOf))
	if err != nil {
		return 0, fmt.Errorf("failed to load source payouts: %w", err)
	}
	defer cursor.Close(ctx)

	created := 0
	for cursor.Next(ctx) {
		var source models.Payout
		if err := cursor.Decode(&source); err != nil {
			return created, fmt.Errorf("failed to decode source payout: %w", err)
		}

		forwarded, err := s.propagate(ctx, arena, source)
		if err != nil {
			log.Printf("Infinity bonus: error propagating payout %s: %v", source.TransactionID, err)
			continue
		}
		if forwarded {
			created++
		}
	}
	if err := cursor.Err(); err != nil {
		return created, fmt.Errorf("source payout cursor error: %w", err)
	}

	if created > 0 {
		summary := fmt.Sprintf("Infinity bonus pass propagated %d payout(s) as of %s", created, asOf.Format(time.RFC3339))
		if err := utils.SaveRoleNotification(s.db, "admin", "Infinity Bonus Summary", summary, "bonus_summary", nil); err != nil {
			log.Printf("Failed to save infinity bonus admin notification: %v", err)
		}
		utils.SendAdminSummaryEmail("Infinity Bonus Summary", summary)
	}
	return created, nil
}

// claimSource flips the source payout's forwarded flag. False means an
// overlapping pass already forwarded it.
func (s *InfinityBonusService) claimSource(ctx context.Context, payoutID primitive.ObjectID) (bool, error) {
	res, err := s.db.Collection("payouts").UpdateOne(ctx,
		bson.M{"_id": payoutID, "isChecked": false},
		bson.M{"$set": bson.M{"isChecked": true}},
	)
	if err != nil {
		return false, fmt.Errorf("failed to claim source payout: %w", err)
	}
	return res.ModifiedCount > 0, nil
}

// resolveSponsor finds the earner's infinity sponsor. The direct
// assignment on the earner is authoritative; the reverse roster scan is a
// best-effort fallback and requires an active sponsor.
func (s *InfinityBonusService) resolveSponsor(ctx context.Context, earnerID primitive.ObjectID) (*models.User, error) {
	var earner models.User
	err := s.db.Collection("users").FindOne(ctx, bson.M{"_id": earnerID}).Decode(&earner)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load earner: %w", err)
	}

	if earner.InfinitySponsorID != nil {
		var sponsor models.User
		err := s.db.Collection("users").FindOne(ctx, bson.M{"_id": *earner.InfinitySponsorID}).Decode(&sponsor)
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load sponsor: %w", err)
		}
		if sponsor.Status != "active" {
			return nil, nil
		}
		return &sponsor, nil
	}

	var sponsor models.User
	err = s.db.Collection("users").FindOne(ctx, bson.M{
		"infinityUsers": earnerID,
		"status":        "active",
	}).Decode(&sponsor)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to reverse-lookup sponsor: %w", err)
	}
	return &sponsor, nil
}

// propagate forwards one source payout. The source is claimed only after a
// payable sponsor and tier are known; sponsorless sources keep their flag
// so a later pass can retry once the sponsor's state changes.
func (s *InfinityBonusService) propagate(ctx context.Context, arena utils.TreeArena, source models.Payout) (bool, error) {
	sponsor, err := s.resolveSponsor(ctx, source.UserID)
	if err != nil {
		return false, err
	}
	if sponsor == nil {
		return false, nil
	}

	pct := tierPercentage(sponsor.Rank)
	if pct == 0 {
		return false, nil
	}

	// Claim the source payout; this is the sole guard against forwarding
	// it twice.
	claimed, err := s.claimSource(ctx, source.ID)
	if err != nil {
		return false, err
	}
	if !claimed {
		return false, nil
	}

	amount := utils.Round2(source.TotalAmount * pct)

	wallet, err := s.payouts.Wallet(ctx, sponsor.ID)
	if err != nil {
		return false, err
	}
	panVerified := wallet != nil && wallet.PANVerified

	status, err := s.payouts.ResolveStatus(ctx, sponsor.ID, amount)
	if err != nil {
		return false, err
	}
	txID, err := s.payouts.NewTransactionID(ctx, "IB")
	if err != nil {
		return false, err
	}

	split := matchingSplit(amount, panVerified)
	payout := &models.Payout{
		TransactionID:  txID,
		UserID:         sponsor.ID,
		Name:           infinityPayoutName(source.Name),
		Status:         status,
		TotalAmount:    amount,
		WithdrawAmount: split.Withdraw,
		RewardAmount:   split.Reward,
		TDSAmount:      split.TDS,
		AdminCharge:    split.Admin,
		SourceRefs:     []primitive.ObjectID{source.ID},
		IsChecked:      true, // terminal hop, never a propagation source
	}
	if err := s.payouts.CreatePayout(ctx, payout, true); err != nil {
		return false, err
	}

	credit := models.RewardScore{
		UserID:      sponsor.ID,
		Points:      split.Reward,
		Source:      "infinity",
		ReferenceID: txID,
		Category:    "infinity bonus",
		Remarks:     fmt.Sprintf("Infinity bonus from %s", source.TransactionID),
	}
	if err := s.payouts.CreditRewardScore(ctx, credit); err != nil {
		log.Printf("Infinity bonus: failed to credit reward score for %s: %v", sponsor.ID.Hex(), err)
	}

	if _, _, err := s.ranks.Evaluate(ctx, arena, sponsor.ID); err != nil {
		log.Printf("Infinity bonus: rank evaluation failed for %s: %v", sponsor.ID.Hex(), err)
	}
	if club, changed, err := s.clubs.PromoteClub(ctx, sponsor.ID); err != nil {
		log.Printf("Infinity bonus: club evaluation failed for %s: %v", sponsor.ID.Hex(), err)
	} else if changed {
		message := fmt.Sprintf("Congratulations! You have been promoted to the %s club.", club)
		if err := utils.SaveNotification(s.db, sponsor.ID, "Club Promotion", message, "club_promotion", "high", "/club", nil); err != nil {
			log.Printf("Failed to save club notification: %v", err)
		}
	}

	message := fmt.Sprintf("You earned an infinity bonus of %.2f (transaction %s).", amount, txID)
	if err := utils.SaveNotification(s.db, sponsor.ID, "Infinity Bonus Earned", message, "infinity_bonus", "normal", "/payouts", map[string]interface{}{"transactionId": txID}); err != nil {
		log.Printf("Failed to save infinity bonus notification: %v", err)
	}
	if err := utils.SendFCMNotificationToUser(s.db, sponsor.ID, "Infinity Bonus Earned", message, map[string]string{"transactionId": txID}); err != nil {
		log.Printf("Failed to push infinity bonus notification: %v", err)
	}

	return true, nil
}
