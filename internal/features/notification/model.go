package notification

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type EventType string

const (
	EventTypeStatusChange EventType = "status_change"
	EventTypeAssignment   EventType = "assignment"
	EventTypeConversion   EventType = "conversion"
	EventTypeApproval     EventType = "approval"
	EventTypeSystem       EventType = "system"
)

// Event is the immutable record of something that happened. Recipients
// is the fully resolved, deduplicated, actor-excluded set; it is empty
// when Broadcast is true. Events are never updated or deleted.
type Event struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TenantID   primitive.ObjectID `bson:"tenant_id,omitempty" json:"tenant_id,omitempty"`
	Type       EventType          `bson:"type" json:"type"`
	Title      string             `bson:"title" json:"title"`
	Body       string             `bson:"body" json:"body"`
	ActorID    string             `bson:"actor_id" json:"actor_id"`
	Recipients []string           `bson:"recipients" json:"recipients"`
	Broadcast  bool               `bson:"broadcast" json:"broadcast"`
	EntityType string             `bson:"entity_type,omitempty" json:"entity_type,omitempty"`
	EntityID   string             `bson:"entity_id,omitempty" json:"entity_id,omitempty"`
	Meta       map[string]string  `bson:"meta,omitempty" json:"meta,omitempty"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}

// Notification is one recipient's inbox row, fanned out from an event.
// The only mutation it ever sees is being marked read.
type Notification struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TenantID   primitive.ObjectID `bson:"tenant_id,omitempty" json:"tenant_id,omitempty"`
	UserID     string             `bson:"user_id" json:"user_id"`
	Type       EventType          `bson:"type" json:"type"`
	Title      string             `bson:"title" json:"title"`
	Body       string             `bson:"body" json:"body"`
	EntityType string             `bson:"entity_type,omitempty" json:"entity_type,omitempty"`
	EntityID   string             `bson:"entity_id,omitempty" json:"entity_id,omitempty"`
	IsRead     bool               `bson:"is_read" json:"is_read"`
	ReadAt     *time.Time         `bson:"read_at,omitempty" json:"read_at,omitempty"`
	Meta       map[string]string  `bson:"meta,omitempty" json:"meta,omitempty"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}

// PushToken is a browser push registration. Registration is best effort;
// a missing or stale token never affects the feed.
type PushToken struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TenantID   primitive.ObjectID `bson:"tenant_id,omitempty" json:"tenant_id,omitempty"`
	UserID     string             `bson:"user_id" json:"user_id"`
	Token      string             `bson:"token" json:"token"`
	Platform   string             `bson:"platform,omitempty" json:"platform,omitempty"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
	LastSeenAt time.Time          `bson:"last_seen_at" json:"last_seen_at"`
}
