package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxMessageLength is the upper bound on message content after trimming.
const MaxMessageLength = 1000

// Message represents a directed message between two users
type Message struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Sender    primitive.ObjectID `json:"sender" bson:"sender"`
	Recipient primitive.ObjectID `json:"recipient" bson:"recipient"`
	Content   string             `json:"content" bson:"content"`
	MediaURL  string             `json:"media_url,omitempty" bson:"media_url,omitempty"`
	IsRead    bool               `json:"is_read" bson:"is_read"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

// SendMessageRequest defines the request body for sending a message
type SendMessageRequest struct {
	RecipientID string `json:"recipientId" validate:"required"`
	Content     string `json:"content" validate:"required"`
	Media       string `json:"media,omitempty" validate:"omitempty,url"`
}

// Conversation summarizes the latest exchange with one counterpart
type Conversation struct {
	User        UserCompact `json:"user"`
	LastMessage Message     `json:"last_message"`
	UnreadCount int64       `json:"unread_count"`
}
