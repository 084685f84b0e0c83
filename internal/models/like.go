package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Like represents a like on a bridge.
// At most one document exists per (user, bridge) pair.
type Like struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	User      primitive.ObjectID `json:"user" bson:"user"`
	Bridge    primitive.ObjectID `json:"bridge" bson:"bridge"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}
