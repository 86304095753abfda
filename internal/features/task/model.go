package task

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusBlocked    Status = "blocked"
	StatusDone       Status = "done"
)

type Task struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	TenantID       primitive.ObjectID  `bson:"tenant_id,omitempty" json:"tenant_id,omitempty"`
	ProjectID      *primitive.ObjectID `bson:"project_id,omitempty" json:"project_id,omitempty"`
	Title          string              `bson:"title" json:"title"`
	Description    string              `bson:"description,omitempty" json:"description,omitempty"`
	Status         Status              `bson:"status" json:"status"`
	Assignees      []string            `bson:"assignees" json:"assignees"`
	CreatedBy      string              `bson:"created_by,omitempty" json:"created_by,omitempty"`
	DueDate        *time.Time          `bson:"due_date,omitempty" json:"due_date,omitempty"`
	EstimateNumber string              `bson:"estimate_number,omitempty" json:"estimate_number,omitempty"`
	EstimateAmount float64             `bson:"estimate_amount,omitempty" json:"estimate_amount,omitempty"`
	CreatedAt      time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time           `bson:"updated_at" json:"updated_at"`
}
