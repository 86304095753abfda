package project

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

type ProjectRepository interface {
	Create(ctx context.Context, project *Project) error
	FindByID(ctx context.Context, id string) (*Project, error)
	List(ctx context.Context, filter map[string]interface{}, limit, offset int64) ([]Project, int64, error)
	Update(ctx context.Context, id string, project *Project) error
	Delete(ctx context.Context, id string) error
	EnsureIndexes(ctx context.Context) error
}

type ProjectRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewProjectRepository(mongodb *database.MongodbDB) ProjectRepository {
	return &ProjectRepositoryImpl{
		Collection: mongodb.DB.Collection("projects"),
	}
}

func tenantOID(ctx context.Context) (primitive.ObjectID, error) {
	tenantID, ok := ctx.Value(models.TenantIDKey).(string)
	if !ok || tenantID == "" {
		return primitive.NilObjectID, fmt.Errorf("tenant context missing")
	}
	return primitive.ObjectIDFromHex(tenantID)
}

func (r *ProjectRepositoryImpl) Create(ctx context.Context, project *Project) error {
	oid, err := tenantOID(ctx)
	if err != nil {
		return err
	}
	project.TenantID = oid

	_, err = r.Collection.InsertOne(ctx, project)
	return err
}

func (r *ProjectRepositoryImpl) FindByID(ctx context.Context, id string) (*Project, error) {
	oid, err := tenantOID(ctx)
	if err != nil {
		return nil, err
	}

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	var project Project
	err = r.Collection.FindOne(ctx, bson.M{"_id": objectID, "tenant_id": oid}).Decode(&project)
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *ProjectRepositoryImpl) List(ctx context.Context, filter map[string]interface{}, limit, offset int64) ([]Project, int64, error) {
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

	var projects []Project
	if err = cursor.All(ctx, &projects); err != nil {
		return nil, 0, err
	}

	total, err := r.Collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	return projects, total, nil
}

func (r *ProjectRepositoryImpl) Update(ctx context.Context, id string, project *Project) error {
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
			"name":        project.Name,
			"description": project.Description,
			"status":      project.Status,
			"members":     project.Members,
			"start_date":  project.StartDate,
			"end_date":    project.EndDate,
			"updated_at":  project.UpdatedAt,
		},
	}

	_, err = r.Collection.UpdateOne(ctx, bson.M{"_id": objectID, "tenant_id": oid}, update)
	return err
}

func (r *ProjectRepositoryImpl) Delete(ctx context.Context, id string) error {
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

func (r *ProjectRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "tenant_id", Value: 1}, {Key: "status", Value: 1}},
	})
	return err
}
