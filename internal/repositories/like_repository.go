package repositories

import (
	"context"
	"time"

	"github.com/avdbp/bridgea-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// LikeRepository defines the interface for like edge operations
type LikeRepository interface {
	CreateLike(ctx context.Context, like *models.Like) error
	DeleteLike(ctx context.Context, user, bridge primitive.ObjectID) error
	HasUserLiked(ctx context.Context, user, bridge primitive.ObjectID) (bool, error)
	CountByBridge(ctx context.Context, bridge primitive.ObjectID) (int64, error)
	DeleteByBridge(ctx context.Context, bridge primitive.ObjectID) error
	EnsureIndexes(ctx context.Context) error
}

// MongoLikeRepository implements LikeRepository for MongoDB
type MongoLikeRepository struct {
	collection *mongo.Collection
}

// NewMongoLikeRepository creates a new MongoLikeRepository
func NewMongoLikeRepository(db *mongo.Database) *MongoLikeRepository {
	return &MongoLikeRepository{collection: db.Collection("likes")}
}

// EnsureIndexes creates the unique (user, bridge) compound index
func (r *MongoLikeRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user", Value: 1}, {Key: "bridge", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// CreateLike creates a like edge. Returns ErrDuplicate when the user has
// already liked the bridge, including the loser of a concurrent race.
func (r *MongoLikeRepository) CreateLike(ctx context.Context, like *models.Like) error {
	like.ID = primitive.NewObjectID()
	like.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, like)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

// DeleteLike removes the like edge for the pair
func (r *MongoLikeRepository) DeleteLike(ctx context.Context, user, bridge primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"user": user, "bridge": bridge})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// HasUserLiked reports whether the user has liked the bridge
func (r *MongoLikeRepository) HasUserLiked(ctx context.Context, user, bridge primitive.ObjectID) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"user": user, "bridge": bridge})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountByBridge counts likes on a bridge
func (r *MongoLikeRepository) CountByBridge(ctx context.Context, bridge primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"bridge": bridge})
}

// DeleteByBridge removes all likes on a bridge (cascade on bridge deletion)
func (r *MongoLikeRepository) DeleteByBridge(ctx context.Context, bridge primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"bridge": bridge})
	return err
}
