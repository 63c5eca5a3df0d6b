// services/rank_service.go
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

// TopRank is the highest star rank; there is no promotion beyond it.
const TopRank = 5

// nextRank decides a single promotion step from the current rank given the
// paid-direct counts per leg. Rank never decreases and never jumps more
// than one level per evaluation.
func nextRank(current, leftPaid, rightPaid int) (int, bool) {
	switch {
	case current < 0 || current >= TopRank:
		return current, false
	case current == 0:
		if leftPaid >= 1 && rightPaid >= 1 {
			return 1, true
		}
		return current, false
	default:
		// Rank N -> N+1 needs 2*(N+1) paid directs in total.
		if leftPaid+rightPaid >= 2*(current+1) {
			return current + 1, true
		}
		return current, false
	}
}

// RankService evaluates star-rank promotions from paid direct referrals.
type RankService struct {
	db *mongo.Database
}

// NewRankService creates a new rank service
func NewRankService(db *mongo.Database) *RankService {
	return &RankService{db: db}
}

// paidDirects returns the direct referrals of userID that hold an
// advance-payment ledger entry, split by tree side.
func (s *RankService) paidDirects(ctx context.Context, arena utils.TreeArena, userID primitive.ObjectID) (left, right, unplaced []primitive.ObjectID, err error) {
	cursor, err := s.db.Collection("users").Find(ctx, bson.M{"referrerId": userID})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load direct referrals: %w", err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var direct models.User
		if err := cursor.Decode(&direct); err != nil {
			return nil, nil, nil, fmt.Errorf("failed to decode direct referral: %w", err)
		}

		count, err := s.db.Collection("reward_history").CountDocuments(ctx, bson.M{
			"userId":    direct.ID,
			"isAdvance": true,
			"amount":    bson.M{"$gte": AdvanceThreshold},
		})
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to check advance payment: %w", err)
		}
		if count == 0 {
			continue
		}

		switch utils.ClassifySide(arena, userID, direct.ID) {
		case utils.LeftSide:
			left = append(left, direct.ID)
		case utils.RightSide:
			right = append(right, direct.ID)
		default:
			// Paid but not placed under this node; counts for audit only.
			unplaced = append(unplaced, direct.ID)
		}
	}
	return left, right, unplaced, cursor.Err()
}

// Evaluate records the node's paid directs and applies at most one rank
// promotion. Rank 5 users only accumulate audit records.
func (s *RankService) Evaluate(ctx context.Context, arena utils.TreeArena, userID primitive.ObjectID) (promoted bool, newRank int, err error) {
	var user models.User
	err = s.db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return false, 0, nil
	}
	if err != nil {
		return false, 0, fmt.Errorf("failed to load user for rank evaluation: %w", err)
	}

	left, right, unplaced, err := s.paidDirects(ctx, arena, userID)
	if err != nil {
		return false, user.Rank, err
	}

	// Record paid directs (deduplicated append) even when no promotion
	// happens; partial progress toward rank 1 lives here.
	allPaid := append(append(append([]primitive.ObjectID{}, left...), right...), unplaced...)
	if len(allPaid) > 0 {
		_, err = s.db.Collection("users").UpdateOne(ctx,
			bson.M{"_id": userID},
			bson.M{"$addToSet": bson.M{"paidDirects": bson.M{"$each": allPaid}}},
		)
		if err != nil {
			return false, user.Rank, fmt.Errorf("failed to record paid directs: %w", err)
		}
	}

	rank, ok := nextRank(user.Rank, len(left), len(right))
	if !ok {
		if user.Rank >= TopRank && len(allPaid) > 2*TopRank {
			log.Printf("User %s at top rank with %d paid directs (extra recorded for audit)", userID.Hex(), len(allPaid))
		}
		return false, user.Rank, nil
	}

	if err := s.PropagateRank(ctx, userID, rank); err != nil {
		return false, user.Rank, err
	}
	log.Printf("User %s promoted to star rank %d", userID.Hex(), rank)
	return true, rank, nil
}

// PropagateRank writes a new rank to the user record and every
// denormalized copy (wallet, tree node, session projection) in one place.
// The guard on the current rank keeps the field monotonic even if two
// passes race.
func (s *RankService) PropagateRank(ctx context.Context, userID primitive.ObjectID, rank int) error {
	now := time.Now()

	res, err := s.db.Collection("users").UpdateOne(ctx,
		bson.M{"_id": userID, "rank": bson.M{"$lt": rank}},
		bson.M{"$set": bson.M{"rank": rank, "updatedAt": now}},
	)
	if err != nil {
		return fmt.Errorf("failed to update user rank: %w", err)
	}
	if res.ModifiedCount == 0 {
		return nil
	}

	copies := []struct {
		coll   string
		filter bson.M
	}{
		{"wallets", bson.M{"userId": userID, "rank": bson.M{"$lt": rank}}},
		{"binarytree", bson.M{"userId": userID, "rank": bson.M{"$lt": rank}}},
		{"sessions", bson.M{"userId": userID, "rank": bson.M{"$lt": rank}}},
	}
	for _, c := range copies {
		if _, err := s.db.Collection(c.coll).UpdateMany(ctx, c.filter,
			bson.M{"$set": bson.M{"rank": rank, "updatedAt": now}}); err != nil {
			return fmt.Errorf("failed to propagate rank to %s: %w", c.coll, err)
		}
	}
	return nil
}
