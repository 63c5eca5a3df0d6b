// services/payout_service.go
package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/astrixglobal/astrix_backend/models"
	"github.com/astrixglobal/astrix_backend/utils"
)

// Thresholds used across the bonus passes.
const (
	// MatchingBonusAmount is the fixed payout on dual-side qualification.
	MatchingBonusAmount = 5000.0
	// SideVolumeCap caps the effective purchase volume counted per leg.
	SideVolumeCap = 100.0
	// AdvanceThreshold is the minimum ledger amount that makes a history
	// entry an advance-payment qualifier ("paid direct").
	AdvanceThreshold = 10000.0
	// holdMultiple: a payout goes on hold once cumulative payouts would
	// exceed this multiple of the user's own purchase volume.
	holdMultiple = 10.0
)

// matchingSplit divides a matching or infinity bonus. PAN-verified wallets
// pay 2% TDS, unverified 20%; the difference comes out of the withdrawable
// share.
func matchingSplit(amount float64, panVerified bool) models.PayoutSplit {
	if panVerified {
		return models.PayoutSplit{
			Withdraw: utils.Round2(amount * 0.80),
			Reward:   utils.Round2(amount * 0.08),
			TDS:      utils.Round2(amount * 0.02),
			Admin:    utils.Round2(amount * 0.10),
		}
	}
	return models.PayoutSplit{
		Withdraw: utils.Round2(amount * 0.62),
		Reward:   utils.Round2(amount * 0.08),
		TDS:      utils.Round2(amount * 0.20),
		Admin:    utils.Round2(amount * 0.10),
	}
}

// directSalesSplit divides a direct sales bonus; PAN status does not change
// this one.
func directSalesSplit(amount float64) models.PayoutSplit {
	return models.PayoutSplit{
		Withdraw: utils.Round2(amount * 0.80),
		Reward:   utils.Round2(amount * 0.10),
		TDS:      utils.Round2(amount * 0.05),
		Admin:    utils.Round2(amount * 0.05),
	}
}

// shouldHold is the cumulative-payout hold rule: earnings beyond
// holdMultiple times the user's own purchase volume are held. A user with
// no purchase volume holds everything.
func shouldHold(candidateTotal, purchaseVolume float64) bool {
	return candidateTotal > purchaseVolume*holdMultiple
}

// PayoutService owns payout persistence and the status/hold rules shared by
// all three bonus passes.
type PayoutService struct {
	db *mongo.Database
}

// NewPayoutService creates a new payout service
func NewPayoutService(db *mongo.Database) *PayoutService {
	return &PayoutService{db: db}
}

// TotalPayout returns the cumulative payout amount already created for a
// user, regardless of status.
func (s *PayoutService) TotalPayout(ctx context.Context, userID primitive.ObjectID) (float64, error) {
	cursor, err := s.db.Collection("payouts").Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"userId": userID}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$totalAmount"}}}},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to aggregate payouts: %w", err)
	}
	defer cursor.Close(ctx)

	var result struct {
		Total float64 `bson:"total"`
	}
	if cursor.Next(ctx) {
		if err := cursor.Decode(&result); err != nil {
			return 0, fmt.Errorf("failed to decode payout total: %w", err)
		}
	}
	return result.Total, nil
}

// UserPurchaseVolume returns the user's lifetime purchase volume.
func (s *PayoutService) UserPurchaseVolume(ctx context.Context, userID primitive.ObjectID) (float64, error) {
	cursor, err := s.db.Collection("orders").Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"userId": userID}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$purchaseVolume"}}}},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to aggregate purchase volume: %w", err)
	}
	defer cursor.Close(ctx)

	var result struct {
		Total float64 `bson:"total"`
	}
	if cursor.Next(ctx) {
		if err := cursor.Decode(&result); err != nil {
			return 0, fmt.Errorf("failed to decode purchase volume: %w", err)
		}
	}
	return result.Total, nil
}

// Wallet returns the user's wallet, or nil when none exists.
func (s *PayoutService) Wallet(ctx context.Context, userID primitive.ObjectID) (*models.Wallet, error) {
	var wallet models.Wallet
	err := s.db.Collection("wallets").FindOne(ctx, bson.M{"userId": userID}).Decode(&wallet)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load wallet: %w", err)
	}
	return &wallet, nil
}

// ResolveStatus decides whether a new payout starts out pending or on hold.
// "completed" is never assigned here; disbursement owns that transition.
func (s *PayoutService) ResolveStatus(ctx context.Context, userID primitive.ObjectID, amount float64) (string, error) {
	wallet, err := s.Wallet(ctx, userID)
	if err != nil {
		return "", err
	}
	if wallet == nil || wallet.BankAccountNumber == "" {
		return models.PayoutStatusOnHold, nil
	}

	previous, err := s.TotalPayout(ctx, userID)
	if err != nil {
		return "", err
	}
	volume, err := s.UserPurchaseVolume(ctx, userID)
	if err != nil {
		return "", err
	}
	if shouldHold(previous+amount, volume) {
		return models.PayoutStatusOnHold, nil
	}
	return models.PayoutStatusPending, nil
}

// NewTransactionID hands out a collision-checked payout transaction id.
func (s *PayoutService) NewTransactionID(ctx context.Context, prefix string) (string, error) {
	return utils.NewUniqueID(ctx, s.db.Collection("payouts"), prefix, 8, 12)
}

// CreatePayout inserts the payout together with its mirrored ledger entry.
// mirrorChecked marks the mirror consumed on creation; the infinity pass
// uses that since its payouts are the terminal hop and must never feed a
// further propagation through the ledger.
func (s *PayoutService) CreatePayout(ctx context.Context, payout *models.Payout, mirrorChecked bool) error {
	now := time.Now()
	if payout.ID.IsZero() {
		payout.ID = primitive.NewObjectID()
	}
	if payout.Date.IsZero() {
		payout.Date = now
	}
	payout.CreatedAt = now

	if _, err := s.db.Collection("payouts").InsertOne(ctx, payout); err != nil {
		return fmt.Errorf("failed to insert payout: %w", err)
	}

	mirror := models.RewardHistory{
		ID:            primitive.NewObjectID(),
		TransactionID: payout.TransactionID,
		UserID:        payout.UserID,
		Amount:        payout.TotalAmount,
		Remarks:       payout.Name,
		IsFirstOrder:  false,
		IsChecked:     mirrorChecked,
		IsAdvance:     false,
		CreatedAt:     now,
	}
	if _, err := s.db.Collection("reward_history").InsertOne(ctx, mirror); err != nil {
		return fmt.Errorf("failed to insert payout ledger entry: %w", err)
	}
	return nil
}

// CreditRewardScore appends a reward_score ledger entry and bumps the
// user's denormalized score.
func (s *PayoutService) CreditRewardScore(ctx context.Context, entry models.RewardScore) error {
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	entry.CreatedAt = time.Now()

	if _, err := s.db.Collection("reward_score").InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("failed to insert reward score entry: %w", err)
	}
	_, err := s.db.Collection("users").UpdateOne(ctx,
		bson.M{"_id": entry.UserID},
		bson.M{"$inc": bson.M{"rewardScore": entry.Points}},
	)
	if err != nil {
		return fmt.Errorf("failed to update user reward score: %w", err)
	}
	return nil
}
