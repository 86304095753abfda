package role

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role is a named bundle of permission keys assignable to a user. Key is
// derived from Name via slugification and is unique per tenant. A role
// whose key is "admin" always resolves to the full catalog; its stored
// permission list is locked and ignored.
type Role struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	TenantID    primitive.ObjectID `json:"tenant_id" bson:"tenant_id,omitempty"`
	Key         string             `json:"key" bson:"key"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	Permissions []string           `json:"permissions" bson:"permissions"`
	IsSystem    bool               `json:"is_system" bson:"is_system"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}
