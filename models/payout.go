package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payout status values. "completed" is set by the disbursement flow, never
// by the bonus engine.
const (
	PayoutStatusPending   = "pending"
	PayoutStatusOnHold    = "onhold"
	PayoutStatusCompleted = "completed"
)

// Payout names. The infinity pass selects matching/direct-sales payouts as
// its sources and writes the two infinity variants.
const (
	PayoutMatchingBonus      = "Matching Bonus"
	PayoutDirectSalesBonus   = "Direct Sales Bonus"
	PayoutInfinityMatching   = "Infinity Matching Bonus"
	PayoutInfinitySalesBonus = "Infinity Sales Bonus"
)

// Payout is one bonus payment. The four amount fields always sum to
// TotalAmount (2-decimal rounding). IsChecked is only meaningful on
// matching/direct-sales payouts: it flips false -> true once when the
// infinity pass forwards the payout upstream.
type Payout struct {
	ID             primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	TransactionID  string               `json:"transactionId" bson:"transactionId"`
	UserID         primitive.ObjectID   `json:"userId" bson:"userId"`
	Name           string               `json:"name" bson:"name"`
	Status         string               `json:"status" bson:"status"`
	TotalAmount    float64              `json:"totalAmount" bson:"totalAmount"`
	WithdrawAmount float64              `json:"withdrawAmount" bson:"withdrawAmount"`
	RewardAmount   float64              `json:"rewardAmount" bson:"rewardAmount"`
	TDSAmount      float64              `json:"tdsAmount" bson:"tdsAmount"`
	AdminCharge    float64              `json:"adminCharge" bson:"adminCharge"`
	SourceRefs     []primitive.ObjectID `json:"sourceRefs,omitempty" bson:"sourceRefs,omitempty"`
	IsChecked      bool                 `json:"isChecked" bson:"isChecked"`
	Date           time.Time            `json:"date" bson:"date"`
	CreatedAt      time.Time            `json:"createdAt" bson:"createdAt"`
}

// PayoutSplit is the four-way division of a bonus amount.
type PayoutSplit struct {
	Withdraw float64 `json:"withdraw"`
	Reward   float64 `json:"reward"`
	TDS      float64 `json:"tds"`
	Admin    float64 `json:"admin"`
}

// Total returns the sum of the four parts.
func (s PayoutSplit) Total() float64 {
	return s.Withdraw + s.Reward + s.TDS + s.Admin
}
