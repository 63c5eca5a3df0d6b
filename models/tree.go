package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Node status values for the binary referral tree.
const (
	NodeStatusActive   = "active"
	NodeStatusInactive = "inactive"
)

// BinaryTreeNode is one position in the binary referral tree. Child fields
// name other nodes by user id; they are lookups into the binarytree
// collection, not owned documents.
type BinaryTreeNode struct {
	ID           primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	UserID       primitive.ObjectID  `json:"userId" bson:"userId"`
	LeftChildID  *primitive.ObjectID `json:"leftChildId,omitempty" bson:"leftChildId,omitempty"`
	RightChildID *primitive.ObjectID `json:"rightChildId,omitempty" bson:"rightChildId,omitempty"`
	Status       string              `json:"status" bson:"status"`
	Rank         int                 `json:"rank" bson:"rank"`
	CreatedAt    time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time           `json:"updatedAt" bson:"updatedAt"`
}
