package porequest

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// PORequest is a purchase-order request awaiting approval. RequestedBy
// is notified when the decision lands.
type PORequest struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	TenantID    primitive.ObjectID  `bson:"tenant_id,omitempty" json:"tenant_id,omitempty"`
	ProjectID   *primitive.ObjectID `bson:"project_id,omitempty" json:"project_id,omitempty"`
	Number      string              `bson:"number" json:"number"`
	Description string              `bson:"description,omitempty" json:"description,omitempty"`
	Vendor      string              `bson:"vendor,omitempty" json:"vendor,omitempty"`
	Amount      float64             `bson:"amount" json:"amount"`
	Status      Status              `bson:"status" json:"status"`
	RequestedBy string              `bson:"requested_by" json:"requested_by"`
	DecidedBy   string              `bson:"decided_by,omitempty" json:"decided_by,omitempty"`
	DecidedAt   *time.Time          `bson:"decided_at,omitempty" json:"decided_at,omitempty"`
	CreatedAt   time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time           `bson:"updated_at" json:"updated_at"`
}
