package quotation

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

type QuotationRepository interface {
	Create(ctx context.Context, quotation *Quotation) error
	FindByID(ctx context.Context, id string) (*Quotation, error)
	List(ctx context.Context, filter map[string]interface{}, limit, offset int64) ([]Quotation, int64, error)
	Update(ctx context.Context, id string, quotation *Quotation) error
	Delete(ctx context.Context, id string) error
	EnsureIndexes(ctx context.Context) error
}

type QuotationRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewQuotationRepository(mongodb *database.MongodbDB) QuotationRepository {
	return &QuotationRepositoryImpl{
		Collection: mongodb.DB.Collection("quotations"),
	}
}

func tenantOID(ctx context.Context) (primitive.ObjectID, error) {
	tenantID, ok := ctx.Value(models.TenantIDKey).(string)
	if !ok || tenantID == "" {
		return primitive.NilObjectID, fmt.Errorf("tenant context missing")
	}
	return primitive.ObjectIDFromHex(tenantID)
}

func (r *QuotationRepositoryImpl) Create(ctx context.Context, quotation *Quotation) error {
	oid, err := tenantOID(ctx)
	if err != nil {
		return err
	}
	quotation.TenantID = oid

	_, err = r.Collection.InsertOne(ctx, quotation)
	return err
}

func (r *QuotationRepositoryImpl) FindByID(ctx context.Context, id string) (*Quotation, error) {
	oid, err := tenantOID(ctx)
	if err != nil {
		return nil, err
	}

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	var quotation Quotation
	err = r.Collection.FindOne(ctx, bson.M{"_id": objectID, "tenant_id": oid}).Decode(&quotation)
	if err != nil {
		return nil, err
	}
	return &quotation, nil
}

func (r *QuotationRepositoryImpl) List(ctx context.Context, filter map[string]interface{}, limit, offset int64) ([]Quotation, int64, error) {
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

	var quotations []Quotation
	if err = cursor.All(ctx, &quotations); err != nil {
		return nil, 0, err
	}

	total, err := r.Collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	return quotations, total, nil
}

func (r *QuotationRepositoryImpl) Update(ctx context.Context, id string, quotation *Quotation) error {
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
			"status":      quotation.Status,
			"items":       quotation.Items,
			"total":       quotation.Total,
			"owner_id":    quotation.OwnerID,
			"valid_until": quotation.ValidUntil,
			"updated_at":  quotation.UpdatedAt,
		},
	}

	_, err = r.Collection.UpdateOne(ctx, bson.M{"_id": objectID, "tenant_id": oid}, update)
	return err
}

func (r *QuotationRepositoryImpl) Delete(ctx context.Context, id string) error {
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

func (r *QuotationRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "tenant_id", Value: 1}, {Key: "number", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
