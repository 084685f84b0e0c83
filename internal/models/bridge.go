package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Bridge visibility values
const (
	VisibilityPublic    = "public"
	VisibilityFollowers = "followers"
)

// Bridge represents a user-authored post stored in MongoDB
type Bridge struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Author     primitive.ObjectID `json:"author" bson:"author"`
	Content    string             `json:"content" bson:"content"`
	ImageURLs  []string           `json:"image_urls,omitempty" bson:"image_urls,omitempty"`
	Visibility string             `json:"visibility" bson:"visibility"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at" bson:"updated_at"`
}

// CreateBridgeRequest defines the request body for creating a bridge
type CreateBridgeRequest struct {
	Content    string   `json:"content" validate:"required,min=1,max=2000"`
	ImageURLs  []string `json:"image_urls,omitempty" validate:"omitempty,dive,url"`
	Visibility string   `json:"visibility,omitempty" validate:"omitempty,oneof=public followers"`
}
