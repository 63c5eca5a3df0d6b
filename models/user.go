// models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User model
type User struct {
	ID                primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	Email             string               `json:"email" bson:"email"`
	FullName          string               `json:"fullName" bson:"fullName"`
	Phone             string               `json:"phone,omitempty" bson:"phone,omitempty"`
	Status            string               `json:"status" bson:"status"` // "active", "inactive"
	ReferrerID        *primitive.ObjectID  `json:"referrerId,omitempty" bson:"referrerId,omitempty"`
	InfinitySponsorID *primitive.ObjectID  `json:"infinitySponsorId,omitempty" bson:"infinitySponsorId,omitempty"`
	InfinityUsers     []primitive.ObjectID `json:"infinityUsers,omitempty" bson:"infinityUsers,omitempty"`
	Rank              int                  `json:"rank" bson:"rank"` // star rank 0..5, never decreases
	RewardScore       float64              `json:"rewardScore" bson:"rewardScore"`
	Club              string               `json:"club,omitempty" bson:"club,omitempty"`
	PaidDirects       []primitive.ObjectID `json:"paidDirects,omitempty" bson:"paidDirects,omitempty"`
	ReferralCode      string               `json:"referralCode,omitempty" bson:"referralCode,omitempty"`
	FCMToken          string               `json:"fcmToken,omitempty" bson:"fcmToken,omitempty"`
	CreatedAt         time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt         time.Time            `json:"updatedAt" bson:"updatedAt"`
}

// Session is the login projection kept for the mobile app; rank and club are
// denormalized here and must follow every rank update.
type Session struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID      primitive.ObjectID `json:"userId" bson:"userId"`
	Rank        int                `json:"rank" bson:"rank"`
	Club        string             `json:"club,omitempty" bson:"club,omitempty"`
	LastLoginAt time.Time          `json:"lastLoginAt" bson:"lastLoginAt"`
}

// Response is the standard API response envelope
type Response struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}
