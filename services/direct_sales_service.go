// services/direct_sales_service.go
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

// DirectSalesService runs the direct sales bonus pass over the windowed,
// unconsumed orders.
type DirectSalesService struct {
	db      *mongo.Database
	payouts *PayoutService
}

// NewDirectSalesService creates a new direct sales bonus service
func NewDirectSalesService(db *mongo.Database, payouts *PayoutService) *DirectSalesService {
	return &DirectSalesService{db: db, payouts: payouts}
}

// Run claims and processes every order in the window whose bonus has not
// been checked yet. The claim happens first: every order this pass touches
// ends up bonusChecked regardless of eligibility or per-order failures, so
// no order is ever visited twice.
func (s *DirectSalesService) Run(ctx context.Context, window utils.BonusWindow) (int, error) {
	cursor, err := s.db.Collection("orders").Find(ctx, bson.M{
		"bonusChecked": false,
		"paymentDate":  bson.M{"$gte": window.Start, "$lte": window.End},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to load windowed orders: %w", err)
	}
	defer cursor.Close(ctx)

	created := 0
	for cursor.Next(ctx) {
		var order models.Order
		if err := cursor.Decode(&order); err != nil {
			return created, fmt.Errorf("failed to decode order: %w", err)
		}

		// Claim the order before anything else. Losing the claim means an
		// overlapping pass owns it.
		claimed, err := s.claimOrder(ctx, order.ID)
		if err != nil {
			log.Printf("Direct sales bonus: failed to claim order %s: %v", order.ID.Hex(), err)
			continue
		}
		if !claimed {
			continue
		}

		paid, err := s.processOrder(ctx, order)
		if err != nil {
			// The order stays claimed; one bad order never loops forever.
			log.Printf("Direct sales bonus: error processing order %s: %v", order.ID.Hex(), err)
			continue
		}
		if paid {
			created++
		}
	}
	if err := cursor.Err(); err != nil {
		return created, fmt.Errorf("order cursor error: %w", err)
	}

	if created > 0 {
		summary := fmt.Sprintf("Direct sales bonus pass created %d payout(s) for window %s - %s",
			created, window.Start.Format(time.RFC3339), window.End.Format(time.RFC3339))
		if err := utils.SaveRoleNotification(s.db, "admin", "Direct Sales Bonus Summary", summary, "bonus_summary", nil); err != nil {
			log.Printf("Failed to save direct sales admin notification: %v", err)
		}
		utils.SendAdminSummaryEmail("Direct Sales Bonus Summary", summary)
	}
	return created, nil
}

// claimOrder marks the order's bonus as checked if no other pass has.
// False means the claim was lost.
func (s *DirectSalesService) claimOrder(ctx context.Context, orderID primitive.ObjectID) (bool, error) {
	res, err := s.db.Collection("orders").UpdateOne(ctx,
		bson.M{"_id": orderID, "bonusChecked": false},
		bson.M{"$set": bson.M{"bonusChecked": true}},
	)
	if err != nil {
		return false, fmt.Errorf("failed to claim order: %w", err)
	}
	return res.ModifiedCount > 0, nil
}

// referrerEligible requires an advance-payment ledger entry for the
// referrer.
func (s *DirectSalesService) referrerEligible(ctx context.Context, referrerID primitive.ObjectID) (bool, error) {
	count, err := s.db.Collection("reward_history").CountDocuments(ctx, bson.M{
		"userId":    referrerID,
		"isAdvance": true,
		"amount":    bson.M{"$gte": AdvanceThreshold},
	})
	if err != nil {
		return false, fmt.Errorf("failed to check referrer eligibility: %w", err)
	}
	return count > 0, nil
}

// processOrder pays the order's referrer when eligible. The order is
// already claimed, so every skip path can simply return.
func (s *DirectSalesService) processOrder(ctx context.Context, order models.Order) (bool, error) {
	if order.ReferrerID == nil {
		return false, nil
	}
	referrerID := *order.ReferrerID

	var node models.BinaryTreeNode
	err := s.db.Collection("binarytree").FindOne(ctx, bson.M{"userId": referrerID}).Decode(&node)
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to load referrer node: %w", err)
	}
	if node.Status != models.NodeStatusActive {
		return false, nil
	}

	eligible, err := s.referrerEligible(ctx, referrerID)
	if err != nil {
		return false, err
	}
	if !eligible {
		return false, nil
	}

	// The order's business volume is the bonus base, taken verbatim.
	amount := utils.Round2(order.BusinessVolume)
	if amount <= 0 {
		return false, nil
	}

	status, err := s.payouts.ResolveStatus(ctx, referrerID, amount)
	if err != nil {
		return false, err
	}
	txID, err := s.payouts.NewTransactionID(ctx, "DSB")
	if err != nil {
		return false, err
	}

	split := directSalesSplit(amount)
	payout := &models.Payout{
		TransactionID:  txID,
		UserID:         referrerID,
		Name:           models.PayoutDirectSalesBonus,
		Status:         status,
		TotalAmount:    amount,
		WithdrawAmount: split.Withdraw,
		RewardAmount:   split.Reward,
		TDSAmount:      split.TDS,
		AdminCharge:    split.Admin,
		SourceRefs:     []primitive.ObjectID{order.ID},
		IsChecked:      false,
	}
	if err := s.payouts.CreatePayout(ctx, payout, false); err != nil {
		return false, err
	}

	credit := models.RewardScore{
		UserID:      referrerID,
		Points:      split.Reward,
		Source:      "direct",
		ReferenceID: txID,
		Category:    "direct sales bonus",
		Remarks:     fmt.Sprintf("Direct sales bonus for order %s", order.OrderNo),
	}
	if err := s.payouts.CreditRewardScore(ctx, credit); err != nil {
		log.Printf("Direct sales bonus: failed to credit reward score for %s: %v", referrerID.Hex(), err)
	}

	// Consume the ledger entry the order produced at purchase time.
	_, err = s.db.Collection("reward_history").UpdateOne(ctx,
		bson.M{"orderId": order.ID, "isChecked": false},
		bson.M{"$set": bson.M{"isChecked": true}},
	)
	if err != nil {
		log.Printf("Direct sales bonus: failed to consume history for order %s: %v", order.ID.Hex(), err)
	}

	message := fmt.Sprintf("You earned a direct sales bonus of %.2f for order %s (transaction %s).", amount, order.OrderNo, txID)
	if err := utils.SaveNotification(s.db, referrerID, "Direct Sales Bonus Earned", message, "direct_sales_bonus", "normal", "/payouts", map[string]interface{}{"transactionId": txID, "orderNo": order.OrderNo}); err != nil {
		log.Printf("Failed to save direct sales notification: %v", err)
	}
	if err := utils.SendFCMNotificationToUser(s.db, referrerID, "Direct Sales Bonus Earned", message, map[string]string{"transactionId": txID}); err != nil {
		log.Printf("Failed to push direct sales notification: %v", err)
	}

	return true, nil
}
