package notification

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ActiveUserSource supplies recipients for broadcast events.
type ActiveUserSource interface {
	ListActiveUserIDs(ctx context.Context) ([]string, error)
}

type Emitter interface {
	// Emit appends the event record and fans it out to per-recipient
	// inbox rows. Events with no recipients and no broadcast flag are
	// skipped entirely; nobody would ever see them.
	Emit(ctx context.Context, event *Event) error

	// EmitSafe is the variant business workflows call after their own
	// mutation has committed: a failed emit is logged and discarded,
	// never surfaced to the caller.
	EmitSafe(ctx context.Context, event *Event)
}

type EmitterImpl struct {
	Repo   NotificationRepository
	Users  ActiveUserSource
	Logger *zap.Logger
}

func NewEmitter(repo NotificationRepository, users ActiveUserSource, logger *zap.Logger) Emitter {
	return &EmitterImpl{
		Repo:   repo,
		Users:  users,
		Logger: logger,
	}
}

func (e *EmitterImpl) Emit(ctx context.Context, event *Event) error {
	if !event.Broadcast && len(event.Recipients) == 0 {
		return nil
	}

	if event.ID.IsZero() {
		event.ID = primitive.NewObjectID()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	if err := e.Repo.CreateEvent(ctx, event); err != nil {
		return err
	}

	recipients := event.Recipients
	if event.Broadcast {
		active, err := e.Users.ListActiveUserIDs(ctx)
		if err != nil {
			return err
		}
		// The actor is excluded from broadcasts the same way the
		// recipient resolver excludes them from targeted events.
		recipients = BuildRecipientList("", active, event.ActorID)
	}

	rows := make([]Notification, 0, len(recipients))
	for _, userID := range recipients {
		rows = append(rows, Notification{
			ID:         primitive.NewObjectID(),
			TenantID:   event.TenantID,
			UserID:     userID,
			Type:       event.Type,
			Title:      event.Title,
			Body:       event.Body,
			EntityType: event.EntityType,
			EntityID:   event.EntityID,
			Meta:       event.Meta,
			IsRead:     false,
			CreatedAt:  event.CreatedAt,
		})
	}

	return e.Repo.InsertInbox(ctx, rows)
}

func (e *EmitterImpl) EmitSafe(ctx context.Context, event *Event) {
	if err := e.Emit(ctx, event); err != nil {
		e.Logger.Warn("notification emit failed",
			zap.String("type", string(event.Type)),
			zap.String("entity_type", event.EntityType),
			zap.String("entity_id", event.EntityID),
			zap.Error(err))
	}
}
