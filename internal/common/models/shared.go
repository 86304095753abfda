package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ContextKey string

const (
	TenantIDKey   ContextKey = "tenant_id"
	AuthedUserKey ContextKey = "authed_user"
)

// User is the stored directory record. RoleKey references a Role by its
// slug key; permissions are never stored on the user.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TenantID  primitive.ObjectID `bson:"tenant_id,omitempty" json:"tenant_id,omitempty"`
	Email     string             `bson:"email" json:"email"`
	Password  string             `bson:"password" json:"-"`
	FullName  string             `bson:"full_name" json:"full_name"`
	Active    bool               `bson:"active" json:"active"`
	RoleKey   string             `bson:"role_key" json:"role_key"`
	LastLogin *time.Time         `bson:"last_login,omitempty" json:"last_login,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// AuthedUser is the session-resolved identity. It is computed fresh on
// every authenticated request by resolving RoleKey through the role
// resolver and is never persisted.
type AuthedUser struct {
	ID          string   `json:"id"`
	FullName    string   `json:"full_name"`
	Active      bool     `json:"active"`
	RoleKey     string   `json:"role_key"`
	Permissions []string `json:"permissions"`
}

// Log is the record shape the zap DB core writes into the logs collection.
type Log struct {
	Message      string    `bson:"message" json:"message"`
	Caller       string    `bson:"caller" json:"caller"`
	LogLevelId   int       `bson:"log_level_id" json:"log_level_id"`
	CreatedOnUtc time.Time `bson:"created_on_utc" json:"created_on_utc"`
}
