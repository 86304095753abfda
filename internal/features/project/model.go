package project

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Status string

const (
	StatusPlanned   Status = "planned"
	StatusActive    Status = "active"
	StatusOnHold    Status = "on_hold"
	StatusCompleted Status = "completed"
)

type Project struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	TenantID    primitive.ObjectID  `bson:"tenant_id,omitempty" json:"tenant_id,omitempty"`
	CustomerID  *primitive.ObjectID `bson:"customer_id,omitempty" json:"customer_id,omitempty"`
	Name        string              `bson:"name" json:"name"`
	Description string              `bson:"description,omitempty" json:"description,omitempty"`
	Status      Status              `bson:"status" json:"status"`
	Members     []string            `bson:"members" json:"members"`
	CreatedBy   string              `bson:"created_by,omitempty" json:"created_by,omitempty"`
	StartDate   *time.Time          `bson:"start_date,omitempty" json:"start_date,omitempty"`
	EndDate     *time.Time          `bson:"end_date,omitempty" json:"end_date,omitempty"`
	CreatedAt   time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time           `bson:"updated_at" json:"updated_at"`
}
