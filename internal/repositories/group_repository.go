package repositories

import (
	"context"
	"time"

	"github.com/avdbp/bridgea-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// GroupRepository defines the interface for group data operations
type GroupRepository interface {
	CreateGroup(ctx context.Context, group *models.Group) error
	GetGroupByID(ctx context.Context, id primitive.ObjectID) (*models.Group, error)
	AddMember(ctx context.Context, groupID, userID primitive.ObjectID) error
	RemoveMember(ctx context.Context, groupID, userID primitive.ObjectID) error
}

// MongoGroupRepository implements GroupRepository for MongoDB
type MongoGroupRepository struct {
	collection *mongo.Collection
}

// NewMongoGroupRepository creates a new MongoGroupRepository
func NewMongoGroupRepository(db *mongo.Database) *MongoGroupRepository {
	return &MongoGroupRepository{collection: db.Collection("groups")}
}

// CreateGroup creates a new group with the creator as admin and member
func (r *MongoGroupRepository) CreateGroup(ctx context.Context, group *models.Group) error {
	group.ID = primitive.NewObjectID()
	group.CreatedAt = time.Now()
	if len(group.Admins) == 0 {
		group.Admins = []primitive.ObjectID{group.Creator}
	}
	if len(group.Members) == 0 {
		group.Members = []primitive.ObjectID{group.Creator}
	}
	_, err := r.collection.InsertOne(ctx, group)
	return err
}

// GetGroupByID retrieves a group by ID
func (r *MongoGroupRepository) GetGroupByID(ctx context.Context, id primitive.ObjectID) (*models.Group, error) {
	var group models.Group
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&group)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &group, nil
}

// AddMember adds a user to the member set in a single atomic write.
// $addToSet keeps the operation idempotent under concurrent joins; a no-op
// add (already a member) returns ErrDuplicate.
func (r *MongoGroupRepository) AddMember(ctx context.Context, groupID, userID primitive.ObjectID) error {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": groupID},
		bson.M{"$addToSet": bson.M{"members": userID}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	if res.ModifiedCount == 0 {
		return ErrDuplicate
	}
	return nil
}

// RemoveMember removes a user from the member set in a single atomic write.
// Returns ErrNotFound when the group doesn't exist or the user is not a member.
func (r *MongoGroupRepository) RemoveMember(ctx context.Context, groupID, userID primitive.ObjectID) error {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": groupID},
		bson.M{"$pull": bson.M{"members": userID, "admins": userID}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 || res.ModifiedCount == 0 {
		return ErrNotFound
	}
	return nil
}
