package activity

import (
	"context"
	"time"

	"opscrm/internal/common/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type ActivityService interface {
	Log(ctx context.Context, entityType, entityID, note string) error
	LogTyped(ctx context.Context, entityType, entityID, note string, entryType EntryType) error

	// LogSafe is the fire-and-forget variant used inside business
	// workflows: a failed write is logged and discarded, it never fails
	// the triggering mutation. LogTypedSafe is the same for entries that
	// carry a type other than update.
	LogSafe(ctx context.Context, entityType, entityID, note string)
	LogTypedSafe(ctx context.Context, entityType, entityID, note string, entryType EntryType)

	ListByEntity(ctx context.Context, entityType, entityID string, limit int64) ([]Entry, error)
}

type ActivityServiceImpl struct {
	Repo   ActivityRepository
	Logger *zap.Logger
}

func NewActivityService(repo ActivityRepository, logger *zap.Logger) ActivityService {
	return &ActivityServiceImpl{
		Repo:   repo,
		Logger: logger,
	}
}

func (s *ActivityServiceImpl) Log(ctx context.Context, entityType, entityID, note string) error {
	return s.LogTyped(ctx, entityType, entityID, note, EntryTypeUpdate)
}

func (s *ActivityServiceImpl) LogTyped(ctx context.Context, entityType, entityID, note string, entryType EntryType) error {
	actorID := "system"
	if user, ok := ctx.Value(models.AuthedUserKey).(*models.AuthedUser); ok {
		actorID = user.ID
	}

	entry := &Entry{
		ID:         primitive.NewObjectID(),
		EntityType: entityType,
		EntityID:   entityID,
		Note:       note,
		Type:       entryType,
		CreatedBy:  actorID,
		Date:       time.Now(),
	}

	return s.Repo.Create(ctx, entry)
}

func (s *ActivityServiceImpl) LogSafe(ctx context.Context, entityType, entityID, note string) {
	s.LogTypedSafe(ctx, entityType, entityID, note, EntryTypeUpdate)
}

func (s *ActivityServiceImpl) LogTypedSafe(ctx context.Context, entityType, entityID, note string, entryType EntryType) {
	if err := s.LogTyped(ctx, entityType, entityID, note, entryType); err != nil {
		s.Logger.Warn("activity log write failed",
			zap.String("entity_type", entityType),
			zap.String("entity_id", entityID),
			zap.Error(err))
	}
}

func (s *ActivityServiceImpl) ListByEntity(ctx context.Context, entityType, entityID string, limit int64) ([]Entry, error) {
	if limit < 1 || limit > 200 {
		limit = 50
	}
	return s.Repo.ListByEntity(ctx, entityType, entityID, limit)
}
