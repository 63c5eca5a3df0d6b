package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RewardHistory is one ledger entry in the reward_history collection.
// Entries with IsFirstOrder set feed the matching bonus window; entries with
// IsAdvance set (amount >= the advance threshold) qualify a user as a "paid
// direct" of their referrer. IsChecked flips false -> true once when the
// entry is consumed by a bonus pass.
type RewardHistory struct {
	ID            primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	TransactionID string              `json:"transactionId" bson:"transactionId"`
	UserID        primitive.ObjectID  `json:"userId" bson:"userId"`
	OrderID       *primitive.ObjectID `json:"orderId,omitempty" bson:"orderId,omitempty"`
	Amount        float64             `json:"amount" bson:"amount"`
	Remarks       string              `json:"remarks,omitempty" bson:"remarks,omitempty"`
	IsFirstOrder  bool                `json:"isFirstOrder" bson:"isFirstOrder"`
	IsChecked     bool                `json:"isChecked" bson:"isChecked"`
	IsAdvance     bool                `json:"isAdvance" bson:"isAdvance"`
	CreatedAt     time.Time           `json:"createdAt" bson:"createdAt"`
}
