package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification model. Either UserID or Role is set: user notifications are
// addressed to one user, role notifications (e.g. the admin pass summaries)
// to everyone holding the role.
type Notification struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID    primitive.ObjectID `json:"userId,omitempty" bson:"userId,omitempty"`
	Role      string             `json:"role,omitempty" bson:"role,omitempty"`
	Title     string             `json:"title" bson:"title"`
	Message   string             `json:"message" bson:"message"`
	Type      string             `json:"type" bson:"type"`
	Priority  string             `json:"priority,omitempty" bson:"priority,omitempty"`
	Link      string             `json:"link,omitempty" bson:"link,omitempty"`
	Data      interface{}        `json:"data,omitempty" bson:"data"`
	IsRead    bool               `json:"isRead" bson:"isRead"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}
