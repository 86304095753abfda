package quotation

import (
	"context"
	"fmt"
	"time"

	"opscrm/internal/common/models"
	"opscrm/internal/features/activity"
	"opscrm/internal/features/notification"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type QuotationService interface {
	ListQuotations(ctx context.Context, filter map[string]interface{}, page, limit int64) ([]Quotation, int64, error)
	GetQuotationByID(ctx context.Context, id string) (*Quotation, error)
	CreateQuotation(ctx context.Context, quotation *Quotation) error
	UpdateQuotation(ctx context.Context, id string, quotation *Quotation) error
	DeleteQuotation(ctx context.Context, id string) error
}

type QuotationServiceImpl struct {
	QuotationRepo   QuotationRepository
	ActivityService activity.ActivityService
	Emitter         notification.Emitter
}

func NewQuotationService(quotationRepo QuotationRepository, activityService activity.ActivityService, emitter notification.Emitter) QuotationService {
	return &QuotationServiceImpl{
		QuotationRepo:   quotationRepo,
		ActivityService: activityService,
		Emitter:         emitter,
	}
}

func actorID(ctx context.Context) string {
	if user, ok := ctx.Value(models.AuthedUserKey).(*models.AuthedUser); ok && user != nil {
		return user.ID
	}
	return ""
}

func total(items []LineItem) float64 {
	var sum float64
	for _, item := range items {
		sum += item.Quantity * item.UnitPrice
	}
	return sum
}

func (s *QuotationServiceImpl) ListQuotations(ctx context.Context, filter map[string]interface{}, page, limit int64) ([]Quotation, int64, error) {
	if filter == nil {
		filter = make(map[string]interface{})
	}

	offset := (page - 1) * limit
	return s.QuotationRepo.List(ctx, filter, limit, offset)
}

func (s *QuotationServiceImpl) GetQuotationByID(ctx context.Context, id string) (*Quotation, error) {
	quotation, err := s.QuotationRepo.FindByID(ctx, id)
	if err == mongo.ErrNoDocuments {
		return nil, models.ErrNotFound
	}
	return quotation, err
}

func (s *QuotationServiceImpl) CreateQuotation(ctx context.Context, quotation *Quotation) error {
	if quotation.Number == "" {
		return fmt.Errorf("number is required")
	}

	if quotation.ID.IsZero() {
		quotation.ID = primitive.NewObjectID()
	}
	if quotation.Status == "" {
		quotation.Status = StatusDraft
	}
	quotation.Total = total(quotation.Items)
	quotation.CreatedBy = actorID(ctx)
	quotation.CreatedAt = time.Now()
	quotation.UpdatedAt = time.Now()

	if err := s.QuotationRepo.Create(ctx, quotation); err != nil {
		return err
	}

	s.ActivityService.LogSafe(ctx, "quotation", quotation.ID.Hex(), fmt.Sprintf("Quotation %s created", quotation.Number))

	return nil
}

func (s *QuotationServiceImpl) UpdateQuotation(ctx context.Context, id string, incoming *Quotation) error {
	existing, err := s.QuotationRepo.FindByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.ErrNotFound
		}
		return err
	}

	changes := &activity.ChangeSet{}
	changes.Status(string(existing.Status), string(incoming.Status))

	incoming.Total = total(incoming.Items)
	if existing.Total != incoming.Total {
		changes.Field("Total", fmt.Sprintf("%.2f", existing.Total), fmt.Sprintf("%.2f", incoming.Total))
	}
	incoming.UpdatedAt = time.Now()

	if err := s.QuotationRepo.Update(ctx, id, incoming); err != nil {
		return err
	}

	if changes.Empty() {
		return nil
	}

	s.ActivityService.LogSafe(ctx, "quotation", id, changes.Note())

	if changes.ShouldNotify() {
		actor := actorID(ctx)
		s.Emitter.EmitSafe(ctx, &notification.Event{
			Type:       notification.EventTypeStatusChange,
			Title:      fmt.Sprintf("Quotation %s is now %s", existing.Number, incoming.Status),
			Body:       changes.Note(),
			ActorID:    actor,
			Recipients: notification.BuildRecipientList(existing.OwnerID, []string{existing.CreatedBy}, actor),
			EntityType: "quotation",
			EntityID:   id,
		})
	}

	return nil
}

func (s *QuotationServiceImpl) DeleteQuotation(ctx context.Context, id string) error {
	quotation, err := s.QuotationRepo.FindByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.ErrNotFound
		}
		return err
	}

	if err := s.QuotationRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.ActivityService.LogSafe(ctx, "quotation", id, fmt.Sprintf("Quotation %s deleted", quotation.Number))

	return nil
}
