package porequest

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

type PORequestService interface {
	ListRequests(ctx context.Context, filter map[string]interface{}, page, limit int64) ([]PORequest, int64, error)
	GetRequestByID(ctx context.Context, id string) (*PORequest, error)
	CreateRequest(ctx context.Context, request *PORequest) error
	UpdateRequest(ctx context.Context, id string, request *PORequest) error
	// Decide approves or rejects a pending request. A second decision on
	// the same request fails with ErrAlreadyDecided; the first one stands.
	Decide(ctx context.Context, id string, approve bool) (*PORequest, error)
	DeleteRequest(ctx context.Context, id string) error
}

type PORequestServiceImpl struct {
	PORequestRepo   PORequestRepository
	ActivityService activity.ActivityService
	Emitter         notification.Emitter
}

func NewPORequestService(poRequestRepo PORequestRepository, activityService activity.ActivityService, emitter notification.Emitter) PORequestService {
	return &PORequestServiceImpl{
		PORequestRepo:   poRequestRepo,
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

func (s *PORequestServiceImpl) ListRequests(ctx context.Context, filter map[string]interface{}, page, limit int64) ([]PORequest, int64, error) {
	if filter == nil {
		filter = make(map[string]interface{})
	}

	offset := (page - 1) * limit
	return s.PORequestRepo.List(ctx, filter, limit, offset)
}

func (s *PORequestServiceImpl) GetRequestByID(ctx context.Context, id string) (*PORequest, error) {
	request, err := s.PORequestRepo.FindByID(ctx, id)
	if err == mongo.ErrNoDocuments {
		return nil, models.ErrNotFound
	}
	return request, err
}

func (s *PORequestServiceImpl) CreateRequest(ctx context.Context, request *PORequest) error {
	if request.Number == "" {
		return fmt.Errorf("number is required")
	}
	if request.Amount <= 0 {
		return fmt.Errorf("amount must be positive")
	}

	if request.ID.IsZero() {
		request.ID = primitive.NewObjectID()
	}
	request.Status = StatusPending
	request.RequestedBy = actorID(ctx)
	request.CreatedAt = time.Now()
	request.UpdatedAt = time.Now()

	if err := s.PORequestRepo.Create(ctx, request); err != nil {
		return err
	}

	s.ActivityService.LogSafe(ctx, "porequest", request.ID.Hex(),
		fmt.Sprintf("PO request %s submitted for %.2f", request.Number, request.Amount))

	return nil
}

func (s *PORequestServiceImpl) UpdateRequest(ctx context.Context, id string, incoming *PORequest) error {
	existing, err := s.PORequestRepo.FindByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.ErrNotFound
		}
		return err
	}

	// Decided requests are immutable
	if existing.Status != StatusPending {
		return models.ErrAlreadyDecided
	}

	changes := &activity.ChangeSet{}
	changes.Field("Vendor", existing.Vendor, incoming.Vendor)
	if existing.Amount != incoming.Amount {
		changes.Field("Amount", fmt.Sprintf("%.2f", existing.Amount), fmt.Sprintf("%.2f", incoming.Amount))
	}

	incoming.UpdatedAt = time.Now()

	if err := s.PORequestRepo.Update(ctx, id, incoming); err != nil {
		return err
	}

	if !changes.Empty() {
		s.ActivityService.LogSafe(ctx, "porequest", id, changes.Note())
	}

	return nil
}

func (s *PORequestServiceImpl) Decide(ctx context.Context, id string, approve bool) (*PORequest, error) {
	existing, err := s.PORequestRepo.FindByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, models.ErrNotFound
		}
		return nil, err
	}

	status := StatusRejected
	if approve {
		status = StatusApproved
	}

	actor := actorID(ctx)
	if err := s.PORequestRepo.Decide(ctx, id, status, actor); err != nil {
		return nil, err
	}

	s.ActivityService.LogSafe(ctx, "porequest", id,
		fmt.Sprintf("PO request %s %s", existing.Number, status))

	// The requester hears about the decision; the deciding actor does not
	// get a self-notification.
	s.Emitter.EmitSafe(ctx, &notification.Event{
		Type:       notification.EventTypeApproval,
		Title:      fmt.Sprintf("PO request %s was %s", existing.Number, status),
		Body:       fmt.Sprintf("%.2f for %s", existing.Amount, existing.Vendor),
		ActorID:    actor,
		Recipients: notification.BuildRecipientList(existing.RequestedBy, nil, actor),
		EntityType: "porequest",
		EntityID:   id,
	})

	return s.GetRequestByID(ctx, id)
}

func (s *PORequestServiceImpl) DeleteRequest(ctx context.Context, id string) error {
	request, err := s.PORequestRepo.FindByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.ErrNotFound
		}
		return err
	}

	if request.Status != StatusPending {
		return models.ErrAlreadyDecided
	}

	if err := s.PORequestRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.ActivityService.LogSafe(ctx, "porequest", id, fmt.Sprintf("PO request %s withdrawn", request.Number))

	return nil
}
