package lead

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Status string

const (
	StatusNew       Status = "new"
	StatusContacted Status = "contacted"
	StatusQualified Status = "qualified"
	StatusConverted Status = "converted"
	StatusLost      Status = "lost"
)

type Lead struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TenantID  primitive.ObjectID `bson:"tenant_id,omitempty" json:"tenant_id,omitempty"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Phone     string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Company   string             `bson:"company,omitempty" json:"company,omitempty"`
	Source    string             `bson:"source,omitempty" json:"source,omitempty"`
	Status    Status             `bson:"status" json:"status"`
	OwnerID   string             `bson:"owner_id,omitempty" json:"owner_id,omitempty"`
	Notes     string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedBy string             `bson:"created_by,omitempty" json:"created_by,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}
