package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order is a purchase record created by the order-placement flow and
// consumed once by the direct sales bonus pass. BonusChecked flips
// false -> true exactly once; the pass claims it with a conditional update
// before doing anything else.
type Order struct {
	ID             primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	OrderNo        string              `json:"orderNo" bson:"orderNo"`
	UserID         primitive.ObjectID  `json:"userId" bson:"userId"`
	ReferrerID     *primitive.ObjectID `json:"referrerId,omitempty" bson:"referrerId,omitempty"`
	BusinessVolume float64             `json:"businessVolume" bson:"businessVolume"`
	PurchaseVolume float64             `json:"purchaseVolume" bson:"purchaseVolume"`
	PaymentDate    time.Time           `json:"paymentDate" bson:"paymentDate"`
	PaymentTime    string              `json:"paymentTime" bson:"paymentTime"` // "15:04:05", display only
	BonusChecked   bool                `json:"bonusChecked" bson:"bonusChecked"`
	CreatedAt      time.Time           `json:"createdAt" bson:"createdAt"`
}
