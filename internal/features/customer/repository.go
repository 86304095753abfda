package customer

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

type CustomerRepository interface {
	Create(ctx context.Context, customer *Customer) error
	FindByID(ctx context.Context, id string) (*Customer, error)
	FindByLeadID(ctx context.Context, leadID string) (*Customer, error)
	FindByEmail(ctx context.Context, email string) (*Customer, error)
	List(ctx context.Context, filter map[string]interface{}, limit, offset int64) ([]Customer, int64, error)
	Update(ctx context.Context, id string, customer *Customer) error
	Delete(ctx context.Context, id string) error
	EnsureIndexes(ctx context.Context) error
}

type CustomerRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewCustomerRepository(mongodb *database.MongodbDB) CustomerRepository {
	return &CustomerRepositoryImpl{
		Collection: mongodb.DB.Collection("customers"),
	}
}

func tenantOID(ctx context.Context) (primitive.ObjectID, error) {
	tenantID, ok := ctx.Value(models.TenantIDKey).(string)
	if !ok || tenantID == "" {
		return primitive.NilObjectID, fmt.Errorf("tenant context missing")
	}
	return primitive.ObjectIDFromHex(tenantID)
}

func (r *CustomerRepositoryImpl) Create(ctx context.Context, customer *Customer) error {
	oid, err := tenantOID(ctx)
	if err != nil {
		return err
	}
	customer.TenantID = oid

	_, err = r.Collection.InsertOne(ctx, customer)
	return err
}

func (r *CustomerRepositoryImpl) FindByID(ctx context.Context, id string) (*Customer, error) {
	oid, err := tenantOID(ctx)
	if err != nil {
		return nil, err
	}

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	var customer Customer
	err = r.Collection.FindOne(ctx, bson.M{"_id": objectID, "tenant_id": oid}).Decode(&customer)
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *CustomerRepositoryImpl) FindByLeadID(ctx context.Context, leadID string) (*Customer, error) {
	oid, err := tenantOID(ctx)
	if err != nil {
		return nil, err
	}

	leadOID, err := primitive.ObjectIDFromHex(leadID)
	if err != nil {
		return nil, err
	}

	var customer Customer
	err = r.Collection.FindOne(ctx, bson.M{"lead_id": leadOID, "tenant_id": oid}).Decode(&customer)
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *CustomerRepositoryImpl) FindByEmail(ctx context.Context, email string) (*Customer, error) {
	oid, err := tenantOID(ctx)
	if err != nil {
		return nil, err
	}

	var customer Customer
	err = r.Collection.FindOne(ctx, bson.M{"email": email, "tenant_id": oid}).Decode(&customer)
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *CustomerRepositoryImpl) List(ctx context.Context, filter map[string]interface{}, limit, offset int64) ([]Customer, int64, error) {
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

	var customers []Customer
	if err = cursor.All(ctx, &customers); err != nil {
		return nil, 0, err
	}

	total, err := r.Collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	return customers, total, nil
}

func (r *CustomerRepositoryImpl) Update(ctx context.Context, id string, customer *Customer) error {
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
			"name":       customer.Name,
			"email":      customer.Email,
			"phone":      customer.Phone,
			"company":    customer.Company,
			"address":    customer.Address,
			"owner_id":   customer.OwnerID,
			"updated_at": customer.UpdatedAt,
		},
	}

	_, err = r.Collection.UpdateOne(ctx, bson.M{"_id": objectID, "tenant_id": oid}, update)
	return err
}

func (r *CustomerRepositoryImpl) Delete(ctx context.Context, id string) error {
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

// EnsureIndexes creates the partial unique index backing the conversion
// guard: at most one customer per lead, enforced only where lead_id is
// present so directly created customers stay unconstrained.
func (r *CustomerRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "tenant_id", Value: 1}, {Key: "lead_id", Value: 1}},
		Options: options.Index().
			SetUnique(true).
			SetPartialFilterExpression(bson.M{"lead_id": bson.M{"$exists": true}}),
	})
	return err
}
