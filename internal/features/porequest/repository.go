package porequest

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

type PORequestRepository interface {
	Create(ctx context.Context, request *PORequest) error
	FindByID(ctx context.Context, id string) (*PORequest, error)
	List(ctx context.Context, filter map[string]interface{}, limit, offset int64) ([]PORequest, int64, error)
	Update(ctx context.Context, id string, request *PORequest) error
	Decide(ctx context.Context, id string, status Status, decidedBy string) error
	Delete(ctx context.Context, id string) error
	EnsureIndexes(ctx context.Context) error
}

type PORequestRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewPORequestRepository(mongodb *database.MongodbDB) PORequestRepository {
	return &PORequestRepositoryImpl{
		Collection: mongodb.DB.Collection("po_requests"),
	}
}

func tenantOID(ctx context.Context) (primitive.ObjectID, error) {
	tenantID, ok := ctx.Value(models.TenantIDKey).(string)
	if !ok || tenantID == "" {
		return primitive.NilObjectID, fmt.Errorf("tenant context missing")
	}
	return primitive.ObjectIDFromHex(tenantID)
}

func (r *PORequestRepositoryImpl) Create(ctx context.Context, request *PORequest) error {
	oid, err := tenantOID(ctx)
	if err != nil {
		return err
	}
	request.TenantID = oid

	_, err = r.Collection.InsertOne(ctx, request)
	return err
}

func (r *PORequestRepositoryImpl) FindByID(ctx context.Context, id string) (*PORequest, error) {
	oid, err := tenantOID(ctx)
	if err != nil {
		return nil, err
	}

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	var request PORequest
	err = r.Collection.FindOne(ctx, bson.M{"_id": objectID, "tenant_id": oid}).Decode(&request)
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *PORequestRepositoryImpl) List(ctx context.Context, filter map[string]interface{}, limit, offset int64) ([]PORequest, int64, error) {
	oid, err := tenantOID(ctx)
	if err != nil {
		return nil, 0, err
	}
	if filter == nil {
		filter = map[string]interface{}{}
	}
	filter["tenant_id"] = oid

	opts := options.Find()
	if limit > 0 {
		opts.SetLimit(limit)
	}
	if offset > 0 {
		opts.SetSkip(offset)
	}
	opts.SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var requests []PORequest
	if err = cursor.All(ctx, &requests); err != nil {
		return nil, 0, err
	}

	total, err := r.Collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

func (r *PORequestRepositoryImpl) Update(ctx context.Context, id string, request *PORequest) error {
	oid, err := tenantOID(ctx)
	if err != nil {
		return err
	}

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	update := bson.M{
		"$set": bson.M{
			"description": request.Description,
			"vendor":      request.Vendor,
			"amount":      request.Amount,
			"updated_at":  request.UpdatedAt,
		},
	}

	_, err = r.Collection.UpdateOne(ctx, bson.M{"_id": objectID, "tenant_id": oid}, update)
	return err
}

// Decide flips a pending request to its final status. The filter on the
// pending status makes the decision first-writer-wins.
func (r *PORequestRepositoryImpl) Decide(ctx context.Context, id string, status Status, decidedBy string) error {
	oid, err := tenantOID(ctx)
	if err != nil {
		return err
	}

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	now := time.Now()
	result, err := r.Collection.UpdateOne(ctx,
		bson.M{"_id": objectID, "tenant_id": oid, "status": StatusPending},
		bson.M{"$set": bson.M{
			"status":     status,
			"decided_by": decidedBy,
			"decided_at": now,
			"updated_at": now,
		}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return models.ErrAlreadyDecided
	}
	return nil
}

func (r *PORequestRepositoryImpl) Delete(ctx context.Context, id string) error {
	oid, err := tenantOID(ctx)
	if err != nil {
		return err
	}

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = r.Collection.DeleteOne(ctx, bson.M{"_id": objectID, "tenant_id": oid})
	return err
}

func (r *PORequestRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "tenant_id", Value: 1}, {Key: "status", Value: 1}},
	})
	return err
}
