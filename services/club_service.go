// services/club_service.go
package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/astrixglobal/astrix_backend/models"
)

// Club tiers by cumulative payout. Platinum additionally requires the top
// star rank.
const (
	ClubSilver   = "silver"
	ClubGold     = "gold"
	ClubPlatinum = "platinum"
)

// clubFor maps cumulative payout and top-rank status to a club tier;
// returns "" below the first threshold.
func clubFor(totalPayout float64, isTopRank bool) string {
	switch {
	case totalPayout >= 1000000 && isTopRank:
		return ClubPlatinum
	case totalPayout >= 500000:
		return ClubGold
	case totalPayout >= 100000:
		return ClubSilver
	default:
		return ""
	}
}

// clubOrder gives tiers a rank so membership never regresses.
func clubOrder(club string) int {
	switch club {
	case ClubSilver:
		return 1
	case ClubGold:
		return 2
	case ClubPlatinum:
		return 3
	default:
		return 0
	}
}

// ClubService evaluates club-tier membership after payouts.
type ClubService struct {
	db      *mongo.Database
	payouts *PayoutService
}

// NewClubService creates a new club service
func NewClubService(db *mongo.Database, payouts *PayoutService) *ClubService {
	return &ClubService{db: db, payouts: payouts}
}

// IsTopRank reports whether the user holds the highest star rank.
func (s *ClubService) IsTopRank(ctx context.Context, userID primitive.ObjectID) (bool, error) {
	var user models.User
	err := s.db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to load user: %w", err)
	}
	return user.Rank >= TopRank, nil
}

// PromoteClub re-evaluates the user's club tier from their cumulative
// payout. Returns the new tier and true when membership changed.
func (s *ClubService) PromoteClub(ctx context.Context, userID primitive.ObjectID) (string, bool, error) {
	var user models.User
	err := s.db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to load user: %w", err)
	}

	total, err := s.payouts.TotalPayout(ctx, userID)
	if err != nil {
		return "", false, err
	}

	club := clubFor(total, user.Rank >= TopRank)
	if clubOrder(club) <= clubOrder(user.Club) {
		return user.Club, false, nil
	}

	now := time.Now()
	_, err = s.db.Collection("users").UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{"club": club, "updatedAt": now}},
	)
	if err != nil {
		return "", false, fmt.Errorf("failed to update club: %w", err)
	}
	_, err = s.db.Collection("sessions").UpdateMany(ctx,
		bson.M{"userId": userID},
		bson.M{"$set": bson.M{"club": club}},
	)
	if err != nil {
		return "", false, fmt.Errorf("failed to propagate club to sessions: %w", err)
	}
	return club, true, nil
}
