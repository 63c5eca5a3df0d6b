package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Wallet holds a user's bank details and balance. A payout can only be
// released when the bank account number is present; PANVerified selects the
// TDS split applied to matching and infinity bonuses.
type Wallet struct {
	ID                primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID            primitive.ObjectID `json:"userId" bson:"userId"`
	BankAccountNumber string             `json:"bankAccountNumber,omitempty" bson:"bankAccountNumber,omitempty"`
	IFSC              string             `json:"ifsc,omitempty" bson:"ifsc,omitempty"`
	PANNumber         string             `json:"panNumber,omitempty" bson:"panNumber,omitempty"`
	PANVerified       bool               `json:"panVerified" bson:"panVerified"`
	Balance           float64            `json:"balance" bson:"balance"`
	Rank              int                `json:"rank" bson:"rank"`
	CreatedAt         time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt         time.Time          `json:"updatedAt" bson:"updatedAt"`
}
