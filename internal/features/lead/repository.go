package lead

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

type LeadRepository interface {
	Create(ctx context.Context, lead *Lead) error
	FindByID(ctx context.Context, id string) (*Lead, error)
	List(ctx context.Context, filter map[string]interface{}, limit, offset int64) ([]Lead, int64, error)
	Update(ctx context.Context, id string, lead *Lead) error
	UpdateStatus(ctx context.Context, id string, status Status) error
	Delete(ctx context.Context, id string) error
	EnsureIndexes(ctx context.Context) error
}

type LeadRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewLeadRepository(mongodb *database.MongodbDB) LeadRepository {
	return &LeadRepositoryImpl{
		Collection: mongodb.DB.Collection("leads"),
	}
}

func tenantOID(ctx context.Context) (primitive.ObjectID, error) {
	tenantID, ok := ctx.Value(models.TenantIDKey).(string)
	if !ok || tenantID == "" {
		return primitive.NilObjectID, fmt.Errorf("tenant context missing")
	}
	return primitive.ObjectIDFromHex(tenantID)
}

func (r *LeadRepositoryImpl) Create(ctx context.Context, lead *Lead) error {
	oid, err := tenantOID(ctx)
	if err != nil {
		return err
	}
	lead.TenantID = oid

	_, err = r.Collection.InsertOne(ctx, lead)
	return err
}

func (r *LeadRepositoryImpl) FindByID(ctx context.Context, id string) (*Lead, error) {
	oid, err := tenantOID(ctx)
	if err != nil {
		return nil, err
	}

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	var lead Lead
	err = r.Collection.FindOne(ctx, bson.M{"_id": objectID, "tenant_id": oid}).Decode(&lead)
	if err != nil {
		return nil, err
	}
	return &lead, nil
}

func (r *LeadRepositoryImpl) List(ctx context.Context, filter map[string]interface{}, limit, offset int64) ([]Lead, int64, error) {
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

	var leads []Lead
	if err = cursor.All(ctx, &leads); err != nil {
		return nil, 0, err
	}

	total, err := r.Collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	return leads, total, nil
}

func (r *LeadRepositoryImpl) Update(ctx context.Context, id string, lead *Lead) error {
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
			"name":       lead.Name,
			"email":      lead.Email,
			"phone":      lead.Phone,
			"company":    lead.Company,
			"source":     lead.Source,
			"status":     lead.Status,
			"owner_id":   lead.OwnerID,
			"notes":      lead.Notes,
			"updated_at": lead.UpdatedAt,
		},
	}

	_, err = r.Collection.UpdateOne(ctx, bson.M{"_id": objectID, "tenant_id": oid}, update)
	return err
}

func (r *LeadRepositoryImpl) UpdateStatus(ctx context.Context, id string, status Status) error {
	oid, err := tenantOID(ctx)
	if err != nil {
		return err
	}

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	_, err = r.Collection.UpdateOne(ctx, bson.M{"_id": objectID, "tenant_id": oid}, bson.M{
		"$set":         bson.M{"status": status},
		"$currentDate": bson.M{"updated_at": true},
	})
	return err
}

func (r *LeadRepositoryImpl) Delete(ctx context.Context, id string) error {
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

func (r *LeadRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "tenant_id", Value: 1}, {Key: "status", Value: 1}},
	})
	return err
}
