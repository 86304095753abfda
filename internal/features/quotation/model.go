package quotation

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Status string

const (
	StatusDraft    Status = "draft"
	StatusSent     Status = "sent"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

type LineItem struct {
	Description string  `bson:"description" json:"description"`
	Quantity    float64 `bson:"quantity" json:"quantity"`
	UnitPrice   float64 `bson:"unit_price" json:"unit_price"`
}

type Quotation struct {
	ID         primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	TenantID   primitive.ObjectID  `bson:"tenant_id,omitempty" json:"tenant_id,omitempty"`
	CustomerID *primitive.ObjectID `bson:"customer_id,omitempty" json:"customer_id,omitempty"`
	Number     string              `bson:"number" json:"number"`
	Status     Status              `bson:"status" json:"status"`
	Items      []LineItem          `bson:"items" json:"items"`
	Total      float64             `bson:"total" json:"total"`
	OwnerID    string              `bson:"owner_id,omitempty" json:"owner_id,omitempty"`
	CreatedBy  string              `bson:"created_by,omitempty" json:"created_by,omitempty"`
	ValidUntil *time.Time          `bson:"valid_until,omitempty" json:"valid_until,omitempty"`
	CreatedAt  time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time           `bson:"updated_at" json:"updated_at"`
}
