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

// MessageRepository defines the interface for message data operations
type MessageRepository interface {
	CreateMessage(ctx context.Context, message *models.Message) error
	GetConversation(ctx context.Context, a, b primitive.ObjectID, skip, limit int64) ([]models.Message, int64, error)
	MarkConversationRead(ctx context.Context, recipient, sender primitive.ObjectID) (int64, error)
	CountUnread(ctx context.Context, recipient primitive.ObjectID) (int64, error)
	CountUnreadFrom(ctx context.Context, recipient, sender primitive.ObjectID) (int64, error)
	GetLatestPerCounterpart(ctx context.Context, userID primitive.ObjectID) ([]models.Message, error)
	EnsureIndexes(ctx context.Context) error
}

// MongoMessageRepository implements MessageRepository for MongoDB
type MongoMessageRepository struct {
	collection *mongo.Collection
}

// NewMongoMessageRepository creates a new MongoMessageRepository
func NewMongoMessageRepository(db *mongo.Database) *MongoMessageRepository {
	return &MongoMessageRepository{collection: db.Collection("messages")}
}

// EnsureIndexes creates the conversation and unread-count indexes
func (r *MongoMessageRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "sender", Value: 1}, {Key: "recipient", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "recipient", Value: 1}, {Key: "is_read", Value: 1}}},
	})
	return err
}

// CreateMessage creates a new message
func (r *MongoMessageRepository) CreateMessage(ctx context.Context, message *models.Message) error {
	message.ID = primitive.NewObjectID()
	message.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, message)
	return err
}

// GetConversation retrieves messages exchanged between two users, newest first
func (r *MongoMessageRepository) GetConversation(ctx context.Context, a, b primitive.ObjectID, skip, limit int64) ([]models.Message, int64, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"sender": a, "recipient": b},
		bson.M{"sender": b, "recipient": a},
	}}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	messages := []models.Message{}
	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &messages); err != nil {
		return nil, 0, err
	}
	return messages, total, nil
}

// MarkConversationRead marks all unread messages from sender to recipient
// as read and returns the number updated
func (r *MongoMessageRepository) MarkConversationRead(ctx context.Context, recipient, sender primitive.ObjectID) (int64, error) {
	res, err := r.collection.UpdateMany(ctx,
		bson.M{"recipient": recipient, "sender": sender, "is_read": false},
		bson.M{"$set": bson.M{"is_read": true}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// CountUnread counts unread messages addressed to the recipient
func (r *MongoMessageRepository) CountUnread(ctx context.Context, recipient primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"recipient": recipient, "is_read": false})
}

// CountUnreadFrom counts unread messages from one specific sender
func (r *MongoMessageRepository) CountUnreadFrom(ctx context.Context, recipient, sender primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"recipient": recipient, "sender": sender, "is_read": false})
}

// GetLatestPerCounterpart returns the newest message for each user the given
// user has exchanged messages with
func (r *MongoMessageRepository) GetLatestPerCounterpart(ctx context.Context, userID primitive.ObjectID) ([]models.Message, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"$or": bson.A{
			bson.M{"sender": userID},
			bson.M{"recipient": userID},
		}}}},
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}}}},
		{{Key: "$addFields", Value: bson.M{"counterpart": bson.M{
			"$cond": bson.A{bson.M{"$eq": bson.A{"$sender", userID}}, "$recipient", "$sender"},
		}}}},
		{{Key: "$group", Value: bson.M{"_id": "$counterpart", "doc": bson.M{"$first": "$$ROOT"}}}},
		{{Key: "$replaceRoot", Value: bson.M{"newRoot": "$doc"}}},
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	messages := []models.Message{}
	if err = cursor.All(ctx, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}
