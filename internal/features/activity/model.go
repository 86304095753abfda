package activity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type EntryType string

const (
	EntryTypeUpdate     EntryType = "update"
	EntryTypeConversion EntryType = "conversion"
	EntryTypeSystem     EntryType = "system"
)

// Entry is one line on an entity's timeline. Entries are append-only:
// never mutated, never deleted.
type Entry struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TenantID   primitive.ObjectID `bson:"tenant_id,omitempty" json:"tenant_id,omitempty"`
	EntityType string             `bson:"entity_type" json:"entity_type"`
	EntityID   string             `bson:"entity_id" json:"entity_id"`
	Note       string             `bson:"note" json:"note"`
	Type       EntryType          `bson:"type,omitempty" json:"type,omitempty"`
	CreatedBy  string             `bson:"created_by" json:"created_by"`
	Date       time.Time          `bson:"date" json:"date"`
}
