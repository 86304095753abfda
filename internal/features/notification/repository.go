package notification

import (
	"context"
	"fmt"
	"time"

	"opscrm/internal/common/models"
	"opscrm/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type NotificationRepository interface {
	CreateEvent(ctx context.Context, event *Event) error
	InsertInbox(ctx context.Context, rows []Notification) error
	ListRecent(ctx context.Context, userID string, limit int64) ([]Notification, error)
	UnreadCount(ctx context.Context, userID string) (int64, error)
	MarkRead(ctx context.Context, id string, userID string) error
	MarkAllRead(ctx context.Context, userID string) error
	Watch(ctx context.Context, userID string) (*mongo.ChangeStream, error)
	DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error)
	EnsureIndexes(ctx context.Context) error
}

type NotificationRepositoryImpl struct {
	Events *mongo.Collection
	Inbox  *mongo.Collection
}

func NewNotificationRepository(mongodb *database.MongodbDB) NotificationRepository {
	return &NotificationRepositoryImpl{
		Events: mongodb.DB.Collection("notification_events"),
		Inbox:  mongodb.DB.Collection("notifications"),
	}
}

func (r *NotificationRepositoryImpl) CreateEvent(ctx context.Context, event *Event) error {
	tenantID, ok := ctx.Value(models.TenantIDKey).(string)
	if ok && tenantID != "" {
		if oid, err := primitive.ObjectIDFromHex(tenantID); err == nil {
			event.TenantID = oid
		}
	}

	_, err := r.Events.InsertOne(ctx, event)
	return err
}

func (r *NotificationRepositoryImpl) InsertInbox(ctx context.Context, rows []Notification) error {
	if len(rows) == 0 {
		return nil
	}

	docs := make([]interface{}, len(rows))
	for i := range rows {
		docs[i] = rows[i]
	}

	_, err := r.Inbox.InsertMany(ctx, docs)
	return err
}

func (r *NotificationRepositoryImpl) ListRecent(ctx context.Context, userID string, limit int64) ([]Notification, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.Inbox.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var notifications []Notification
	if err = cursor.All(ctx, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *NotificationRepositoryImpl) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return r.Inbox.CountDocuments(ctx, bson.M{
		"user_id": userID,
		"is_read": false,
	})
}

// MarkRead is idempotent: marking an already-read row matches nothing
// and is a no-op, not an error.
func (r *NotificationRepositoryImpl) MarkRead(ctx context.Context, id string, userID string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid notification id: %w", err)
	}

	now := time.Now()
	_, err = r.Inbox.UpdateOne(ctx,
		bson.M{"_id": objectID, "user_id": userID, "is_read": false},
		bson.M{"$set": bson.M{"is_read": true, "read_at": now}},
	)
	return err
}

func (r *NotificationRepositoryImpl) MarkAllRead(ctx context.Context, userID string) error {
	now := time.Now()
	_, err := r.Inbox.UpdateMany(ctx,
		bson.M{"user_id": userID, "is_read": false},
		bson.M{"$set": bson.M{"is_read": true, "read_at": now}},
	)
	return err
}

// Watch opens a change stream over one user's inbox rows. The caller
// owns the stream and must close it when the session ends.
func (r *NotificationRepositoryImpl) Watch(ctx context.Context, userID string) (*mongo.ChangeStream, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{
			"operationType":        bson.M{"$in": bson.A{"insert", "update", "replace"}},
			"fullDocument.user_id": userID,
		}}},
	}

	opts := options.ChangeStream().SetFullDocument(options.UpdateLookup)
	return r.Inbox.Watch(ctx, pipeline, opts)
}

// DeleteReadBefore is used by the retention sweep. It runs outside any
// request, so it is deliberately not tenant-scoped.
func (r *NotificationRepositoryImpl) DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.Inbox.DeleteMany(ctx, bson.M{
		"is_read":    true,
		"created_at": bson.M{"$lt": cutoff},
	})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

func (r *NotificationRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.Inbox.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "user_id", Value: 1},
			{Key: "created_at", Value: -1},
		},
	})
	return err
}

type PushTokenRepository interface {
	Upsert(ctx context.Context, token *PushToken) error
	DeleteUnusedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type PushTokenRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewPushTokenRepository(mongodb *database.MongodbDB) PushTokenRepository {
	return &PushTokenRepositoryImpl{
		Collection: mongodb.DB.Collection("push_tokens"),
	}
}

func (r *PushTokenRepositoryImpl) Upsert(ctx context.Context, token *PushToken) error {
	now := time.Now()
	_, err := r.Collection.UpdateOne(ctx,
		bson.M{"token": token.Token},
		bson.M{
			"$set": bson.M{
				"user_id":      token.UserID,
				"tenant_id":    token.TenantID,
				"platform":     token.Platform,
				"last_seen_at": now,
			},
			"$setOnInsert": bson.M{"created_at": now},
		},
		options.Update().SetUpsert(true),
	)
	return err
}

func (r *PushTokenRepositoryImpl) DeleteUnusedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.Collection.DeleteMany(ctx, bson.M{
		"last_seen_at": bson.M{"$lt": cutoff},
	})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}
