package user

import (
	"context"
	"fmt"
	"strings"
	"time"

	"opscrm/internal/common/models"
	"opscrm/internal/features/activity"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

type UserService interface {
	ListUsers(ctx context.Context, filter map[string]interface{}, page, limit int64) ([]models.User, int64, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User, password string) error
	UpdateUser(ctx context.Context, id string, updates map[string]interface{}) error
	SetActive(ctx context.Context, id string, active bool) error
	DeleteUser(ctx context.Context, id string) error
}

type UserServiceImpl struct {
	UserRepo        UserRepository
	ActivityService activity.ActivityService
}

func NewUserService(userRepo UserRepository, activityService activity.ActivityService) UserService {
	return &UserServiceImpl{
		UserRepo:        userRepo,
		ActivityService: activityService,
	}
}

func (s *UserServiceImpl) ListUsers(ctx context.Context, filter map[string]interface{}, page, limit int64) ([]models.User, int64, error) {
	if filter == nil {
		filter = make(map[string]interface{})
	}

	offset := (page - 1) * limit
	return s.UserRepo.List(ctx, filter, limit, offset)
}

func (s *UserServiceImpl) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.UserRepo.FindByID(ctx, id)
	if err == mongo.ErrNoDocuments {
		return nil, models.ErrNotFound
	}
	return user, err
}

func (s *UserServiceImpl) CreateUser(ctx context.Context, user *models.User, password string) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if user.Email == "" {
		return fmt.Errorf("email is required")
	}
	if password == "" {
		return fmt.Errorf("password is required")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashed)

	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	user.RoleKey = strings.ToLower(strings.TrimSpace(user.RoleKey))
	user.Active = true
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()

	if err := s.UserRepo.Create(ctx, user); err != nil {
		return err
	}

	s.ActivityService.LogSafe(ctx, "user", user.ID.Hex(), fmt.Sprintf("User %q created with role %q", user.Email, user.RoleKey))

	return nil
}

func (s *UserServiceImpl) UpdateUser(ctx context.Context, id string, updates map[string]interface{}) error {
	user, err := s.UserRepo.FindByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.ErrNotFound
		}
		return err
	}

	changes := &activity.ChangeSet{}

	if email, ok := updates["email"].(string); ok {
		email = strings.ToLower(strings.TrimSpace(email))
		if email != "" && email != user.Email {
			changes.Field("Email", user.Email, email)
			user.Email = email
		}
	}
	if fullName, ok := updates["full_name"].(string); ok && fullName != user.FullName {
		changes.Field("Name", user.FullName, fullName)
		user.FullName = fullName
	}
	if roleKey, ok := updates["role_key"].(string); ok {
		roleKey = strings.ToLower(strings.TrimSpace(roleKey))
		if roleKey != user.RoleKey {
			changes.Field("Role", user.RoleKey, roleKey)
			user.RoleKey = roleKey
		}
	}
	if active, ok := updates["active"].(bool); ok && active != user.Active {
		changes.Field("Active", fmt.Sprintf("%t", user.Active), fmt.Sprintf("%t", active))
		user.Active = active
	}
	if password, ok := updates["password"].(string); ok && password != "" {
		hashed, hashErr := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if hashErr != nil {
			return hashErr
		}
		user.Password = string(hashed)
	} else {
		user.Password = ""
	}

	user.UpdatedAt = time.Now()

	if err := s.UserRepo.Update(ctx, id, user); err != nil {
		return err
	}

	if !changes.Empty() {
		s.ActivityService.LogSafe(ctx, "user", id, changes.Note())
	}

	return nil
}

func (s *UserServiceImpl) SetActive(ctx context.Context, id string, active bool) error {
	updates := map[string]interface{}{"active": active}
	return s.UpdateUser(ctx, id, updates)
}

func (s *UserServiceImpl) DeleteUser(ctx context.Context, id string) error {
	user, err := s.UserRepo.FindByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.ErrNotFound
		}
		return err
	}

	if err := s.UserRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.ActivityService.LogSafe(ctx, "user", id, fmt.Sprintf("User %q deleted", user.Email))

	return nil
}
