package activity

import (
	"context"
	"fmt"

	"opscrm/internal/common/models"
	"opscrm/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ActivityRepository interface {
	Create(ctx context.Context, entry *Entry) error
	ListByEntity(ctx context.Context, entityType, entityID string, limit int64) ([]Entry, error)
	EnsureIndexes(ctx context.Context) error
}

type ActivityRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewActivityRepository(mongodb *database.MongodbDB) ActivityRepository {
	return &ActivityRepositoryImpl{
		Collection: mongodb.DB.Collection("activities"),
	}
}

func (r *ActivityRepositoryImpl) Create(ctx context.Context, entry *Entry) error {
	tenantID, ok := ctx.Value(models.TenantIDKey).(string)
	if !ok || tenantID == "" {
		return fmt.Errorf("tenant context missing")
	}
	oid, err := primitive.ObjectIDFromHex(tenantID)
	if err != nil {
		return err
	}
	entry.TenantID = oid

	_, err = r.Collection.InsertOne(ctx, entry)
	return err
}

func (r *ActivityRepositoryImpl) ListByEntity(ctx context.Context, entityType, entityID string, limit int64) ([]Entry, error) {
	tenantID, ok := ctx.Value(models.TenantIDKey).(string)
	if !ok || tenantID == "" {
		return nil, fmt.Errorf("tenant context missing")
	}
	oid, err := primitive.ObjectIDFromHex(tenantID)
	if err != nil {
		return nil, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.Collection.Find(ctx, bson.M{
		"tenant_id":   oid,
		"entity_type": entityType,
		"entity_id":   entityID,
	}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []Entry
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *ActivityRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "tenant_id", Value: 1},
			{Key: "entity_type", Value: 1},
			{Key: "entity_id", Value: 1},
			{Key: "date", Value: -1},
		},
	})
	return err
}
