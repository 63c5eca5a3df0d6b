package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RewardScore is one credit in the reward_score ledger. Source tags which
// part of a payout the points came from ("matching", "reward", "direct",
// "infinity"); ReferenceID points back to the payout transaction.
type RewardScore struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID      primitive.ObjectID `json:"userId" bson:"userId"`
	Points      float64            `json:"points" bson:"points"`
	Source      string             `json:"source" bson:"source"`
	ReferenceID string             `json:"referenceId,omitempty" bson:"referenceId,omitempty"`
	Remarks     string             `json:"remarks,omitempty" bson:"remarks,omitempty"`
	Category    string             `json:"category,omitempty" bson:"category,omitempty"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
}
