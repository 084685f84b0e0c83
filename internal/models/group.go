package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Group represents a user group. Member count is derived from len(Members)
// at read time; no stored counter exists.
type Group struct {
	ID          primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	Name        string               `json:"name" bson:"name"`
	Description string               `json:"description,omitempty" bson:"description,omitempty"`
	Creator     primitive.ObjectID   `json:"creator" bson:"creator"`
	Admins      []primitive.ObjectID `json:"admins" bson:"admins"`
	Members     []primitive.ObjectID `json:"members" bson:"members"`
	CreatedAt   time.Time            `json:"created_at" bson:"created_at"`
}

// MembersCount returns the derived member count
func (g *Group) MembersCount() int {
	return len(g.Members)
}

// IsAdmin reports whether the given user administers the group
func (g *Group) IsAdmin(userID primitive.ObjectID) bool {
	for _, id := range g.Admins {
		if id == userID {
			return true
		}
	}
	return false
}

// IsMember reports whether the given user belongs to the group
func (g *Group) IsMember(userID primitive.ObjectID) bool {
	for _, id := range g.Members {
		if id == userID {
			return true
		}
	}
	return false
}

// CreateGroupRequest defines the request body for creating a group
type CreateGroupRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Description string `json:"description,omitempty" validate:"omitempty,max=500"`
}

// InviteToGroupRequest defines the request body for inviting a user to a group
type InviteToGroupRequest struct {
	Username string `json:"username" validate:"required"`
}
