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

// FollowRepository defines the interface for follow edge operations
type FollowRepository interface {
	CreateFollow(ctx context.Context, follow *models.Follow) error
	GetFollow(ctx context.Context, follower, following primitive.ObjectID) (*models.Follow, error)
	ApproveRequest(ctx context.Context, follower, following primitive.ObjectID) error
	DeleteFollow(ctx context.Context, follower, following primitive.ObjectID) error
	DeletePendingRequest(ctx context.Context, follower, following primitive.ObjectID) error
	GetPendingRequests(ctx context.Context, following primitive.ObjectID) ([]models.Follow, error)
	GetFollowerIDs(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error)
	GetFollowingIDs(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error)
	CountFollowers(ctx context.Context, userID primitive.ObjectID) (int64, error)
	CountFollowing(ctx context.Context, userID primitive.ObjectID) (int64, error)
	EnsureIndexes(ctx context.Context) error
}

// MongoFollowRepository implements FollowRepository for MongoDB
type MongoFollowRepository struct {
	collection *mongo.Collection
}

// NewMongoFollowRepository creates a new MongoFollowRepository
func NewMongoFollowRepository(db *mongo.Database) *MongoFollowRepository {
	return &MongoFollowRepository{collection: db.Collection("follows")}
}

// EnsureIndexes creates the unique (follower, following) compound index
func (r *MongoFollowRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "follower", Value: 1}, {Key: "following", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// CreateFollow creates a follow edge. Returns ErrDuplicate when an edge
// already exists for the pair, including the loser of a concurrent race.
func (r *MongoFollowRepository) CreateFollow(ctx context.Context, follow *models.Follow) error {
	follow.ID = primitive.NewObjectID()
	follow.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, follow)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

// GetFollow retrieves the edge for an ordered pair
func (r *MongoFollowRepository) GetFollow(ctx context.Context, follower, following primitive.ObjectID) (*models.Follow, error) {
	var follow models.Follow
	err := r.collection.FindOne(ctx, bson.M{"follower": follower, "following": following}).Decode(&follow)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &follow, nil
}

// ApproveRequest transitions a pending edge to accepted.
// Returns ErrNotFound when no pending edge exists for the pair.
func (r *MongoFollowRepository) ApproveRequest(ctx context.Context, follower, following primitive.ObjectID) error {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"follower": follower, "following": following, "status": models.FollowStatusPending},
		bson.M{"$set": bson.M{"status": models.FollowStatusAccepted}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteFollow removes the edge in any state
func (r *MongoFollowRepository) DeleteFollow(ctx context.Context, follower, following primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"follower": follower, "following": following})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeletePendingRequest removes a pending edge only. A rejected request is
// deleted outright; no rejected document is kept.
func (r *MongoFollowRepository) DeletePendingRequest(ctx context.Context, follower, following primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx,
		bson.M{"follower": follower, "following": following, "status": models.FollowStatusPending})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// GetPendingRequests lists pending edges targeting the given user
func (r *MongoFollowRepository) GetPendingRequests(ctx context.Context, following primitive.ObjectID) ([]models.Follow, error) {
	return r.find(ctx, bson.M{"following": following, "status": models.FollowStatusPending})
}

// GetFollowerIDs returns the IDs of users with an accepted edge toward userID
func (r *MongoFollowRepository) GetFollowerIDs(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	follows, err := r.find(ctx, bson.M{"following": userID, "status": models.FollowStatusAccepted})
	if err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(follows))
	for _, f := range follows {
		ids = append(ids, f.Follower)
	}
	return ids, nil
}

// GetFollowingIDs returns the IDs of users userID follows (accepted only)
func (r *MongoFollowRepository) GetFollowingIDs(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	follows, err := r.find(ctx, bson.M{"follower": userID, "status": models.FollowStatusAccepted})
	if err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(follows))
	for _, f := range follows {
		ids = append(ids, f.Following)
	}
	return ids, nil
}

// CountFollowers counts accepted edges toward userID
func (r *MongoFollowRepository) CountFollowers(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"following": userID, "status": models.FollowStatusAccepted})
}

// CountFollowing counts accepted edges from userID
func (r *MongoFollowRepository) CountFollowing(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"follower": userID, "status": models.FollowStatusAccepted})
}

func (r *MongoFollowRepository) find(ctx context.Context, filter bson.M) ([]models.Follow, error) {
	follows := []models.Follow{}
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &follows); err != nil {
		return nil, err
	}
	return follows, nil
}
