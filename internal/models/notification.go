package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification types. The set is closed: every fan-out site uses one of these.
const (
	NotificationNewFollowRequest = "NEW_FOLLOW_REQUEST"
	NotificationFollowApproved   = "FOLLOW_APPROVED"
	NotificationNewLike          = "NEW_LIKE"
	NotificationNewComment       = "NEW_COMMENT"
	NotificationNewBridgeShared  = "NEW_BRIDGE_SHARED"
	NotificationNewMessage       = "NEW_MESSAGE"
	NotificationGroupInvite      = "GROUP_INVITE"
)

// Notification is a denormalized fan-out record created as a side effect
// of an action that targets another user
type Notification struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Recipient primitive.ObjectID `json:"recipient" bson:"recipient"`
	Sender    primitive.ObjectID `json:"sender,omitempty" bson:"sender,omitempty"`
	Type      string             `json:"type" bson:"type"`
	Message   string             `json:"message" bson:"message"`
	Data      map[string]string  `json:"data,omitempty" bson:"data,omitempty"`
	IsRead    bool               `json:"is_read" bson:"is_read"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}
