package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a registered account stored in MongoDB
type User struct {
	ID           primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Email        string             `json:"email" bson:"email"`
	Username     string             `json:"username" bson:"username"`
	PasswordHash string             `json:"-" bson:"password_hash"`
	FirstName    string             `json:"first_name" bson:"first_name"`
	LastName     string             `json:"last_name" bson:"last_name"`
	Location     string             `json:"location" bson:"location"`
	Bio          string             `json:"bio,omitempty" bson:"bio,omitempty"`
	Website      string             `json:"website,omitempty" bson:"website,omitempty"`
	AvatarURL    string             `json:"avatar_url,omitempty" bson:"avatar_url,omitempty"`
	BannerURL    string             `json:"banner_url,omitempty" bson:"banner_url,omitempty"`
	IsPrivate    bool               `json:"is_private" bson:"is_private"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at" bson:"updated_at"`
}

// UserCompact is the trimmed user shape embedded in enriched responses
type UserCompact struct {
	ID        primitive.ObjectID `json:"id"`
	Username  string             `json:"username"`
	FirstName string             `json:"first_name"`
	LastName  string             `json:"last_name"`
	AvatarURL string             `json:"avatar_url,omitempty"`
	IsPrivate bool               `json:"is_private"`
}

// ToCompact converts a User to its compact representation
func (u *User) ToCompact() UserCompact {
	return UserCompact{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		AvatarURL: u.AvatarURL,
		IsPrivate: u.IsPrivate,
	}
}

// DisplayName returns the user's full name for notification messages
func (u *User) DisplayName() string {
	if u.FirstName == "" && u.LastName == "" {
		return u.Username
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// RegisterRequest defines the request body for user registration
type RegisterRequest struct {
	FirstName       string `json:"firstName" validate:"required,min=1,max=50"`
	LastName        string `json:"lastName" validate:"required,min=1,max=50"`
	Email           string `json:"email" validate:"required,email"`
	Username        string `json:"username" validate:"required,min=3,max=30,alphanum"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
	Location        string `json:"location" validate:"required,min=1,max=100"`
}

// LoginRequest defines the request body for login
type LoginRequest struct {
	EmailOrUsername string `json:"emailOrUsername" validate:"required"`
	Password        string `json:"password" validate:"required"`
}

// RefreshRequest defines the request body for token refresh
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// UpdateProfileRequest defines the request body for partial profile updates
type UpdateProfileRequest struct {
	FirstName *string `json:"firstName,omitempty" validate:"omitempty,min=1,max=50"`
	LastName  *string `json:"lastName,omitempty" validate:"omitempty,min=1,max=50"`
	Location  *string `json:"location,omitempty" validate:"omitempty,min=1,max=100"`
	Bio       *string `json:"bio,omitempty" validate:"omitempty,max=500"`
	Website   *string `json:"website,omitempty" validate:"omitempty,url"`
	AvatarURL *string `json:"avatarUrl,omitempty" validate:"omitempty,url"`
	BannerURL *string `json:"bannerUrl,omitempty" validate:"omitempty,url"`
	IsPrivate *bool   `json:"isPrivate,omitempty"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}
