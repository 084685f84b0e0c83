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

// BridgeRepository defines the interface for bridge data operations
type BridgeRepository interface {
	CreateBridge(ctx context.Context, bridge *models.Bridge) error
	GetBridgeByID(ctx context.Context, id primitive.ObjectID) (*models.Bridge, error)
	GetBridgesByAuthor(ctx context.Context, author primitive.ObjectID, publicOnly bool, skip, limit int64) ([]models.Bridge, int64, error)
	GetFeed(ctx context.Context, authors []primitive.ObjectID, skip, limit int64) ([]models.Bridge, int64, error)
	DeleteBridge(ctx context.Context, id primitive.ObjectID) error
}

// MongoBridgeRepository implements BridgeRepository for MongoDB
type MongoBridgeRepository struct {
	collection *mongo.Collection
}

// NewMongoBridgeRepository creates a new MongoBridgeRepository
func NewMongoBridgeRepository(db *mongo.Database) *MongoBridgeRepository {
	return &MongoBridgeRepository{collection: db.Collection("bridges")}
}

// CreateBridge creates a new bridge
func (r *MongoBridgeRepository) CreateBridge(ctx context.Context, bridge *models.Bridge) error {
	bridge.ID = primitive.NewObjectID()
	bridge.CreatedAt = time.Now()
	bridge.UpdatedAt = bridge.CreatedAt
	if bridge.Visibility == "" {
		bridge.Visibility = models.VisibilityPublic
	}
	_, err := r.collection.InsertOne(ctx, bridge)
	return err
}

// GetBridgeByID retrieves a bridge by ID
func (r *MongoBridgeRepository) GetBridgeByID(ctx context.Context, id primitive.ObjectID) (*models.Bridge, error) {
	var bridge models.Bridge
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&bridge)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &bridge, nil
}

// GetBridgesByAuthor retrieves bridges by a specific author, newest first.
// With publicOnly, followers-only bridges are excluded from both the page
// and the total count.
func (r *MongoBridgeRepository) GetBridgesByAuthor(ctx context.Context, author primitive.ObjectID, publicOnly bool, skip, limit int64) ([]models.Bridge, int64, error) {
	filter := bson.M{"author": author}
	if publicOnly {
		filter["visibility"] = models.VisibilityPublic
	}
	return r.findPage(ctx, filter, skip, limit)
}

// GetFeed retrieves bridges authored by any of the given users, newest first
func (r *MongoBridgeRepository) GetFeed(ctx context.Context, authors []primitive.ObjectID, skip, limit int64) ([]models.Bridge, int64, error) {
	if len(authors) == 0 {
		return []models.Bridge{}, 0, nil
	}
	return r.findPage(ctx, bson.M{"author": bson.M{"$in": authors}}, skip, limit)
}

// DeleteBridge deletes a bridge by ID
func (r *MongoBridgeRepository) DeleteBridge(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoBridgeRepository) findPage(ctx context.Context, filter bson.M, skip, limit int64) ([]models.Bridge, int64, error) {
	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	bridges := []models.Bridge{}
	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &bridges); err != nil {
		return nil, 0, err
	}
	return bridges, total, nil
}
