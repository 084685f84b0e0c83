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

// NotificationRepository defines the interface for notification operations
type NotificationRepository interface {
	CreateNotification(ctx context.Context, notification *models.Notification) error
	CreateNotifications(ctx context.Context, notifications []models.Notification) error
	GetNotificationByID(ctx context.Context, id primitive.ObjectID) (*models.Notification, error)
	GetByRecipient(ctx context.Context, recipient primitive.ObjectID, skip, limit int64) ([]models.Notification, int64, error)
	CountUnread(ctx context.Context, recipient primitive.ObjectID) (int64, error)
	MarkAsRead(ctx context.Context, id primitive.ObjectID) error
	MarkAllAsRead(ctx context.Context, recipient primitive.ObjectID) error
	EnsureIndexes(ctx context.Context) error
}

// MongoNotificationRepository implements NotificationRepository for MongoDB
type MongoNotificationRepository struct {
	collection *mongo.Collection
}

// NewMongoNotificationRepository creates a new MongoNotificationRepository
func NewMongoNotificationRepository(db *mongo.Database) *MongoNotificationRepository {
	return &MongoNotificationRepository{collection: db.Collection("notifications")}
}

// EnsureIndexes creates the recipient listing and unread-count indexes
func (r *MongoNotificationRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "recipient", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "recipient", Value: 1}, {Key: "is_read", Value: 1}}},
	})
	return err
}

// CreateNotification creates a single notification
func (r *MongoNotificationRepository) CreateNotification(ctx context.Context, notification *models.Notification) error {
	notification.ID = primitive.NewObjectID()
	notification.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, notification)
	return err
}

// CreateNotifications inserts a batch of notifications in one write
func (r *MongoNotificationRepository) CreateNotifications(ctx context.Context, notifications []models.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	docs := make([]interface{}, len(notifications))
	now := time.Now()
	for i := range notifications {
		notifications[i].ID = primitive.NewObjectID()
		notifications[i].CreatedAt = now
		docs[i] = notifications[i]
	}
	_, err := r.collection.InsertMany(ctx, docs)
	return err
}

// GetNotificationByID retrieves a notification by ID
func (r *MongoNotificationRepository) GetNotificationByID(ctx context.Context, id primitive.ObjectID) (*models.Notification, error) {
	var notification models.Notification
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&notification)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &notification, nil
}

// GetByRecipient retrieves notifications for a recipient, newest first
func (r *MongoNotificationRepository) GetByRecipient(ctx context.Context, recipient primitive.ObjectID, skip, limit int64) ([]models.Notification, int64, error) {
	filter := bson.M{"recipient": recipient}
	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	notifications := []models.Notification{}
	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &notifications); err != nil {
		return nil, 0, err
	}
	return notifications, total, nil
}

// CountUnread is a live count of unread notifications, never a cached counter
func (r *MongoNotificationRepository) CountUnread(ctx context.Context, recipient primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"recipient": recipient, "is_read": false})
}

// MarkAsRead marks a single notification as read
func (r *MongoNotificationRepository) MarkAsRead(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"is_read": true}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkAllAsRead marks every unread notification for the recipient as read
func (r *MongoNotificationRepository) MarkAllAsRead(ctx context.Context, recipient primitive.ObjectID) error {
	_, err := r.collection.UpdateMany(ctx,
		bson.M{"recipient": recipient, "is_read": false},
		bson.M{"$set": bson.M{"is_read": true}},
	)
	return err
}
