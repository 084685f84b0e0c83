package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Follow statuses. A rejected request is deleted rather than stored, so
// only pending and accepted ever appear in the collection.
const (
	FollowStatusPending  = "pending"
	FollowStatusAccepted = "accepted"
)

// Follow represents a directed follow edge between two users.
// At most one document exists per (follower, following) pair.
type Follow struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Follower  primitive.ObjectID `json:"follower" bson:"follower"`
	Following primitive.ObjectID `json:"following" bson:"following"`
	Status    string             `json:"status" bson:"status"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}
