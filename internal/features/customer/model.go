package customer

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Customer is a converted or directly created account. LeadID is set only
// on customers produced by a lead conversion; a partial unique index on
// it guarantees a lead converts to at most one customer.
type Customer struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	TenantID  primitive.ObjectID  `bson:"tenant_id,omitempty" json:"tenant_id,omitempty"`
	LeadID    *primitive.ObjectID `bson:"lead_id,omitempty" json:"lead_id,omitempty"`
	Name      string              `bson:"name" json:"name"`
	Email     string              `bson:"email" json:"email"`
	Phone     string              `bson:"phone,omitempty" json:"phone,omitempty"`
	Company   string              `bson:"company,omitempty" json:"company,omitempty"`
	Address   string              `bson:"address,omitempty" json:"address,omitempty"`
	OwnerID   string              `bson:"owner_id,omitempty" json:"owner_id,omitempty"`
	CreatedBy string              `bson:"created_by,omitempty" json:"created_by,omitempty"`
	CreatedAt time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time           `bson:"updated_at" json:"updated_at"`
}
