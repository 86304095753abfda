package lead

import (
	"context"
	"fmt"
	"strings"
	"time"

	"opscrm/internal/common/models"
	"opscrm/internal/features/activity"
	"opscrm/internal/features/customer"
	"opscrm/internal/features/notification"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type LeadService interface {
	ListLeads(ctx context.Context, filter map[string]interface{}, page, limit int64) ([]Lead, int64, error)
	GetLeadByID(ctx context.Context, id string) (*Lead, error)
	CreateLead(ctx context.Context, lead *Lead) error
	UpdateLead(ctx context.Context, id string, lead *Lead) error
	DeleteLead(ctx context.Context, id string) error

	// ConvertToCustomer converts a lead into a customer exactly once.
	// Repeat calls, by any user, return the customer created by the
	// first call. Concurrent calls are resolved by the unique index on
	// the customer's lead back-reference.
	ConvertToCustomer(ctx context.Context, leadID string) (*customer.Customer, error)
}

type LeadServiceImpl struct {
	LeadRepo        LeadRepository
	CustomerRepo    customer.CustomerRepository
	ActivityService activity.ActivityService
	Emitter         notification.Emitter
}

func NewLeadService(leadRepo LeadRepository, customerRepo customer.CustomerRepository, activityService activity.ActivityService, emitter notification.Emitter) LeadService {
	return &LeadServiceImpl{
		LeadRepo:        leadRepo,
		CustomerRepo:    customerRepo,
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

func (s *LeadServiceImpl) ListLeads(ctx context.Context, filter map[string]interface{}, page, limit int64) ([]Lead, int64, error) {
	if filter == nil {
		filter = make(map[string]interface{})
	}

	offset := (page - 1) * limit
	return s.LeadRepo.List(ctx, filter, limit, offset)
}

func (s *LeadServiceImpl) GetLeadByID(ctx context.Context, id string) (*Lead, error) {
	lead, err := s.LeadRepo.FindByID(ctx, id)
	if err == mongo.ErrNoDocuments {
		return nil, models.ErrNotFound
	}
	return lead, err
}

func (s *LeadServiceImpl) CreateLead(ctx context.Context, lead *Lead) error {
	lead.Email = strings.ToLower(strings.TrimSpace(lead.Email))
	if lead.Name == "" {
		return fmt.Errorf("name is required")
	}

	if lead.ID.IsZero() {
		lead.ID = primitive.NewObjectID()
	}
	if lead.Status == "" {
		lead.Status = StatusNew
	}
	lead.CreatedBy = actorID(ctx)
	lead.CreatedAt = time.Now()
	lead.UpdatedAt = time.Now()

	if err := s.LeadRepo.Create(ctx, lead); err != nil {
		return err
	}

	s.ActivityService.LogSafe(ctx, "lead", lead.ID.Hex(), fmt.Sprintf("Lead %q created", lead.Name))

	return nil
}

func (s *LeadServiceImpl) UpdateLead(ctx context.Context, id string, incoming *Lead) error {
	existing, err := s.LeadRepo.FindByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.ErrNotFound
		}
		return err
	}

	// A converted lead is frozen; conversion is the terminal transition.
	if existing.Status == StatusConverted {
		return fmt.Errorf("lead is already converted")
	}

	changes := &activity.ChangeSet{}
	changes.Field("Name", existing.Name, incoming.Name)
	changes.Field("Email", existing.Email, strings.ToLower(strings.TrimSpace(incoming.Email)))
	changes.Field("Owner", existing.OwnerID, incoming.OwnerID)
	changes.Status(string(existing.Status), string(incoming.Status))

	incoming.Email = strings.ToLower(strings.TrimSpace(incoming.Email))
	incoming.UpdatedAt = time.Now()

	if err := s.LeadRepo.Update(ctx, id, incoming); err != nil {
		return err
	}

	if changes.Empty() {
		return nil
	}

	s.ActivityService.LogSafe(ctx, "lead", id, changes.Note())

	if changes.ShouldNotify() {
		actor := actorID(ctx)
		s.Emitter.EmitSafe(ctx, &notification.Event{
			Type:       notification.EventTypeStatusChange,
			Title:      fmt.Sprintf("Lead %q updated", existing.Name),
			Body:       changes.Note(),
			ActorID:    actor,
			Recipients: notification.BuildRecipientList(existing.OwnerID, nil, actor),
			EntityType: "lead",
			EntityID:   id,
		})
	}

	return nil
}

func (s *LeadServiceImpl) DeleteLead(ctx context.Context, id string) error {
	lead, err := s.LeadRepo.FindByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.ErrNotFound
		}
		return err
	}

	if err := s.LeadRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.ActivityService.LogSafe(ctx, "lead", id, fmt.Sprintf("Lead %q deleted", lead.Name))

	return nil
}

func (s *LeadServiceImpl) ConvertToCustomer(ctx context.Context, leadID string) (*customer.Customer, error) {
	lead, err := s.LeadRepo.FindByID(ctx, leadID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, models.ErrNotFound
		}
		return nil, err
	}

	// First guard: a customer already carrying the back-reference. Only
	// a definite miss falls through; a store failure must not be read as
	// "no customer yet" and go on to create one.
	existing, findErr := s.CustomerRepo.FindByLeadID(ctx, leadID)
	if findErr == nil {
		return existing, nil
	}
	if findErr != mongo.ErrNoDocuments {
		return nil, findErr
	}

	// Second guard: a customer already exists under the lead's email,
	// created directly or by an older conversion without a back-reference
	if lead.Email != "" {
		existing, findErr = s.CustomerRepo.FindByEmail(ctx, lead.Email)
		if findErr == nil {
			return existing, nil
		}
		if findErr != mongo.ErrNoDocuments {
			return nil, findErr
		}
	}

	created := &customer.Customer{
		ID:        primitive.NewObjectID(),
		LeadID:    &lead.ID,
		Name:      lead.Name,
		Email:     lead.Email,
		Phone:     lead.Phone,
		Company:   lead.Company,
		OwnerID:   lead.OwnerID,
		CreatedBy: actorID(ctx),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := s.CustomerRepo.Create(ctx, created); err != nil {
		// A concurrent conversion won the unique index race; the winner's
		// customer is the conversion result for everyone.
		if mongo.IsDuplicateKeyError(err) {
			return s.CustomerRepo.FindByLeadID(ctx, leadID)
		}
		return nil, err
	}

	s.ActivityService.LogTypedSafe(ctx, "lead", leadID,
		fmt.Sprintf("Lead %q converted to customer", lead.Name), activity.EntryTypeConversion)

	if err := s.LeadRepo.UpdateStatus(ctx, leadID, StatusConverted); err != nil {
		return nil, err
	}

	actor := actorID(ctx)
	s.Emitter.EmitSafe(ctx, &notification.Event{
		Type:       notification.EventTypeConversion,
		Title:      fmt.Sprintf("Lead %q was converted", lead.Name),
		Body:       fmt.Sprintf("Customer %q created from lead", created.Name),
		ActorID:    actor,
		Recipients: notification.BuildRecipientList(lead.OwnerID, nil, actor),
		EntityType: "customer",
		EntityID:   created.ID.Hex(),
	})

	return created, nil
}
