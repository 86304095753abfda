package customer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"opscrm/internal/common/models"
	"opscrm/internal/features/activity"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type CustomerService interface {
	ListCustomers(ctx context.Context, filter map[string]interface{}, page, limit int64) ([]Customer, int64, error)
	GetCustomerByID(ctx context.Context, id string) (*Customer, error)
	CreateCustomer(ctx context.Context, customer *Customer) error
	UpdateCustomer(ctx context.Context, id string, customer *Customer) error
	DeleteCustomer(ctx context.Context, id string) error
}

type CustomerServiceImpl struct {
	CustomerRepo    CustomerRepository
	ActivityService activity.ActivityService
}

func NewCustomerService(customerRepo CustomerRepository, activityService activity.ActivityService) CustomerService {
	return &CustomerServiceImpl{
		CustomerRepo:    customerRepo,
		ActivityService: activityService,
	}
}

func (s *CustomerServiceImpl) ListCustomers(ctx context.Context, filter map[string]interface{}, page, limit int64) ([]Customer, int64, error) {
	if filter == nil {
		filter = make(map[string]interface{})
	}

	offset := (page - 1) * limit
	return s.CustomerRepo.List(ctx, filter, limit, offset)
}

func (s *CustomerServiceImpl) GetCustomerByID(ctx context.Context, id string) (*Customer, error) {
	customer, err := s.CustomerRepo.FindByID(ctx, id)
	if err == mongo.ErrNoDocuments {
		return nil, models.ErrNotFound
	}
	return customer, err
}

func (s *CustomerServiceImpl) CreateCustomer(ctx context.Context, customer *Customer) error {
	customer.Email = strings.ToLower(strings.TrimSpace(customer.Email))
	if customer.Name == "" {
		return fmt.Errorf("name is required")
	}

	if customer.ID.IsZero() {
		customer.ID = primitive.NewObjectID()
	}
	customer.CreatedAt = time.Now()
	customer.UpdatedAt = time.Now()

	if err := s.CustomerRepo.Create(ctx, customer); err != nil {
		return err
	}

	s.ActivityService.LogSafe(ctx, "customer", customer.ID.Hex(), fmt.Sprintf("Customer %q created", customer.Name))

	return nil
}

func (s *CustomerServiceImpl) UpdateCustomer(ctx context.Context, id string, incoming *Customer) error {
	existing, err := s.CustomerRepo.FindByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.ErrNotFound
		}
		return err
	}

	changes := &activity.ChangeSet{}
	changes.Field("Name", existing.Name, incoming.Name)
	changes.Field("Email", existing.Email, strings.ToLower(strings.TrimSpace(incoming.Email)))
	changes.Field("Phone", existing.Phone, incoming.Phone)
	changes.Field("Company", existing.Company, incoming.Company)
	changes.Field("Owner", existing.OwnerID, incoming.OwnerID)

	incoming.Email = strings.ToLower(strings.TrimSpace(incoming.Email))
	incoming.UpdatedAt = time.Now()

	if err := s.CustomerRepo.Update(ctx, id, incoming); err != nil {
		return err
	}

	if !changes.Empty() {
		s.ActivityService.LogSafe(ctx, "customer", id, changes.Note())
	}

	return nil
}

func (s *CustomerServiceImpl) DeleteCustomer(ctx context.Context, id string) error {
	customer, err := s.CustomerRepo.FindByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.ErrNotFound
		}
		return err
	}

	if err := s.CustomerRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.ActivityService.LogSafe(ctx, "customer", id, fmt.Sprintf("Customer %q deleted", customer.Name))

	return nil
}
