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

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetCommentByID(ctx context.Context, id primitive.ObjectID) (*models.Comment, error)
	GetByBridge(ctx context.Context, bridge primitive.ObjectID, skip, limit int64) ([]models.Comment, int64, error)
	CountByBridge(ctx context.Context, bridge primitive.ObjectID) (int64, error)
	DeleteComment(ctx context.Context, id primitive.ObjectID) error
	DeleteByBridge(ctx context.Context, bridge primitive.ObjectID) error
}

// MongoCommentRepository implements CommentRepository for MongoDB
type MongoCommentRepository struct {
	collection *mongo.Collection
}

// NewMongoCommentRepository creates a new MongoCommentRepository
func NewMongoCommentRepository(db *mongo.Database) *MongoCommentRepository {
	return &MongoCommentRepository{collection: db.Collection("comments")}
}

// CreateComment creates a new comment
func (r *MongoCommentRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	comment.ID = primitive.NewObjectID()
	comment.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, comment)
	return err
}

// GetCommentByID retrieves a comment by ID
func (r *MongoCommentRepository) GetCommentByID(ctx context.Context, id primitive.ObjectID) (*models.Comment, error) {
	var comment models.Comment
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&comment)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &comment, nil
}

// GetByBridge retrieves comments on a bridge, newest first
func (r *MongoCommentRepository) GetByBridge(ctx context.Context, bridge primitive.ObjectID, skip, limit int64) ([]models.Comment, int64, error) {
	filter := bson.M{"bridge": bridge}
	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	comments := []models.Comment{}
	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &comments); err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}

// CountByBridge counts comments on a bridge
func (r *MongoCommentRepository) CountByBridge(ctx context.Context, bridge primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"bridge": bridge})
}

// DeleteComment deletes a comment by ID
func (r *MongoCommentRepository) DeleteComment(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteByBridge removes all comments on a bridge (cascade on bridge deletion)
func (r *MongoCommentRepository) DeleteByBridge(ctx context.Context, bridge primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"bridge": bridge})
	return err
}
