package role

import (
	"context"
	"fmt"
	"strings"
	"time"

	"opscrm/internal/common/models"
	"opscrm/internal/features/activity"
	"opscrm/internal/features/permission"
	"opscrm/pkg/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// PermissionCache is a request-scoped cache for resolved role
// permissions, keyed by normalized role key. It must never outlive one
// authorization pass (e.g. resolving many users in an admin listing).
type PermissionCache map[string][]string

type RoleService interface {
	CreateRole(ctx context.Context, role *Role) (*Role, error)
	GetRoleByID(ctx context.Context, id string) (*Role, error)
	ListRoles(ctx context.Context) ([]Role, error)
	UpdateRole(ctx context.Context, id string, role *Role) error
	DeleteRole(ctx context.Context, id string) error

	// ResolvePermissions maps a role key to its concrete permission set.
	// The admin key short-circuits to the full catalog without a lookup;
	// unknown keys resolve to the empty set (fails closed). cache may be
	// nil when the caller resolves a single role.
	ResolvePermissions(ctx context.Context, roleKey string, cache PermissionCache) ([]string, error)
}

type RoleServiceImpl struct {
	RoleRepo        RoleRepository
	ActivityService activity.ActivityService
}

func NewRoleService(roleRepo RoleRepository, activityService activity.ActivityService) RoleService {
	return &RoleServiceImpl{
		RoleRepo:        roleRepo,
		ActivityService: activityService,
	}
}

func (s *RoleServiceImpl) ResolvePermissions(ctx context.Context, roleKey string, cache PermissionCache) ([]string, error) {
	key := strings.ToLower(strings.TrimSpace(roleKey))
	if key == "" {
		return []string{}, nil
	}

	// Hard-coded bypass: admin access never depends on stored data
	if key == permission.KeyAdmin {
		return permission.Catalog(), nil
	}

	if cache != nil {
		if cached, ok := cache[key]; ok {
			return cached, nil
		}
	}

	stored, err := s.RoleRepo.FindByKey(ctx, key)
	if err == mongo.ErrNoDocuments {
		// Fallback: some callers hold the document id instead of the key
		if _, hexErr := primitive.ObjectIDFromHex(key); hexErr == nil {
			stored, err = s.RoleRepo.FindByID(ctx, key)
		}
	}

	var resolved []string
	switch {
	case err == mongo.ErrNoDocuments || (err == nil && stored == nil):
		// Unknown role resolves to no permissions, not an error
		resolved = []string{}
	case err != nil:
		return nil, err
	case strings.ToLower(strings.TrimSpace(stored.Key)) == permission.KeyAdmin:
		// An admin role looked up through an alias still gets the full
		// catalog, regardless of its stored permission list
		resolved = permission.Catalog()
	default:
		resolved = permission.Filter(stored.Permissions)
	}

	if cache != nil {
		cache[key] = resolved
	}
	return resolved, nil
}

func (s *RoleServiceImpl) CreateRole(ctx context.Context, role *Role) (*Role, error) {
	role.ID = primitive.NewObjectID()
	role.Key = utils.Slugify(role.Name)
	role.Permissions = permission.NormalizeAliases(role.Permissions)
	role.CreatedAt = time.Now()
	role.UpdatedAt = time.Now()

	if role.Key == "" {
		return nil, fmt.Errorf("role name produces an empty key")
	}

	if existing, err := s.RoleRepo.FindByKey(ctx, role.Key); err == nil && existing != nil {
		return nil, fmt.Errorf("role key %q already exists", role.Key)
	}

	if err := s.RoleRepo.Create(ctx, role); err != nil {
		return nil, err
	}

	s.ActivityService.LogSafe(ctx, "role", role.ID.Hex(), fmt.Sprintf("Role %q created", role.Name))

	return role, nil
}

func (s *RoleServiceImpl) GetRoleByID(ctx context.Context, id string) (*Role, error) {
	role, err := s.RoleRepo.FindByID(ctx, id)
	if err == mongo.ErrNoDocuments {
		return nil, models.ErrNotFound
	}
	return role, err
}

func (s *RoleServiceImpl) ListRoles(ctx context.Context) ([]Role, error) {
	return s.RoleRepo.List(ctx)
}

func (s *RoleServiceImpl) UpdateRole(ctx context.Context, id string, role *Role) error {
	existing, err := s.RoleRepo.FindByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.ErrNotFound
		}
		return err
	}

	// The admin role's permission list is locked; it resolves to the full
	// catalog regardless of what is stored.
	if existing.Key == permission.KeyAdmin {
		role.Permissions = existing.Permissions
	} else {
		role.Permissions = permission.NormalizeAliases(role.Permissions)
	}
	role.UpdatedAt = time.Now()

	if err := s.RoleRepo.Update(ctx, id, role); err != nil {
		return err
	}

	s.ActivityService.LogSafe(ctx, "role", id, fmt.Sprintf("Role %q updated", existing.Name))

	return nil
}

func (s *RoleServiceImpl) DeleteRole(ctx context.Context, id string) error {
	role, err := s.RoleRepo.FindByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.ErrNotFound
		}
		return err
	}

	if role.IsSystem {
		return fmt.Errorf("cannot delete system role")
	}

	if err := s.RoleRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.ActivityService.LogSafe(ctx, "role", id, fmt.Sprintf("Role %q deleted", role.Name))

	return nil
}
