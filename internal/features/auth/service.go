package auth

import (
	"context"
	"errors"
	"strings"

	"opscrm/internal/common/models"
	"opscrm/internal/features/role"
	"opscrm/internal/features/user"
	"opscrm/pkg/utils"

	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

var errInvalidCredentials = errors.New("invalid credentials")

type SessionService interface {
	// Login verifies credentials and returns a signed token. Inactive
	// accounts fail with the same error as bad credentials.
	Login(ctx context.Context, email, password string) (string, *models.AuthedUser, error)

	// ResolveSession turns validated token claims into a request identity
	// with a freshly resolved permission set. Role edits therefore take
	// effect on the next request, not the next login.
	ResolveSession(ctx context.Context, claims *utils.UserClaims) (*models.AuthedUser, error)
}

type SessionServiceImpl struct {
	UserRepo    user.UserRepository
	RoleService role.RoleService
}

func NewSessionService(userRepo user.UserRepository, roleService role.RoleService) SessionService {
	return &SessionServiceImpl{
		UserRepo:    userRepo,
		RoleService: roleService,
	}
}

func (s *SessionServiceImpl) Login(ctx context.Context, email, password string) (string, *models.AuthedUser, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	// Global lookup: tenant context is not known until the record is found
	usr, err := s.UserRepo.FindByEmailGlobal(ctx, email)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return "", nil, errInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(usr.Password), []byte(password)) != nil {
		return "", nil, errInvalidCredentials
	}

	// Deactivated accounts keep their password but lose everything else.
	// The error is indistinguishable from bad credentials on purpose.
	if !usr.Active {
		return "", nil, errInvalidCredentials
	}

	token, err := utils.GenerateToken(usr.ID, usr.TenantID, usr.RoleKey)
	if err != nil {
		return "", nil, err
	}

	ctx = context.WithValue(ctx, models.TenantIDKey, usr.TenantID.Hex())
	authed, err := s.resolve(ctx, usr)
	if err != nil {
		return "", nil, err
	}

	_ = s.UserRepo.UpdateLastLogin(ctx, usr.ID.Hex())

	return token, authed, nil
}

func (s *SessionServiceImpl) ResolveSession(ctx context.Context, claims *utils.UserClaims) (*models.AuthedUser, error) {
	usr, err := s.UserRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, models.ErrForbidden
		}
		return nil, err
	}

	if !usr.Active {
		return nil, models.ErrInactiveAccount
	}

	return s.resolve(ctx, usr)
}

func (s *SessionServiceImpl) resolve(ctx context.Context, usr *models.User) (*models.AuthedUser, error) {
	permissions, err := s.RoleService.ResolvePermissions(ctx, usr.RoleKey, nil)
	if err != nil {
		return nil, err
	}

	return &models.AuthedUser{
		ID:          usr.ID.Hex(),
		FullName:    usr.FullName,
		Active:      usr.Active,
		RoleKey:     usr.RoleKey,
		Permissions: permissions,
	}, nil
}
