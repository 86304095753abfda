package auth

import (
	"context"
	"testing"

	"opscrm/internal/common/models"
	"opscrm/internal/features/permission"
	"opscrm/internal/features/role"
	"opscrm/pkg/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

type mockUserRepo struct {
	usersByID    map[string]*models.User
	usersByEmail map[string]*models.User
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error { return nil }

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if user, ok := m.usersByID[id]; ok {
		return user, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.FindByEmailGlobal(ctx, email)
}

func (m *mockUserRepo) FindByEmailGlobal(ctx context.Context, email string) (*models.User, error) {
	if user, ok := m.usersByEmail[email]; ok {
		return user, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (m *mockUserRepo) FindByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	return nil, nil
}

func (m *mockUserRepo) List(ctx context.Context, filter map[string]interface{}, limit, offset int64) ([]models.User, int64, error) {
	return nil, 0, nil
}

func (m *mockUserRepo) ListActiveUserIDs(ctx context.Context) ([]string, error) { return nil, nil }
func (m *mockUserRepo) Update(ctx context.Context, id string, user *models.User) error {
	return nil
}
func (m *mockUserRepo) UpdateLastLogin(ctx context.Context, id string) error { return nil }
func (m *mockUserRepo) Delete(ctx context.Context, id string) error          { return nil }
func (m *mockUserRepo) EnsureIndexes(ctx context.Context) error              { return nil }

type stubRoleService struct{}

func (s *stubRoleService) CreateRole(ctx context.Context, r *role.Role) (*role.Role, error) {
	return nil, nil
}
func (s *stubRoleService) GetRoleByID(ctx context.Context, id string) (*role.Role, error) {
	return nil, nil
}
func (s *stubRoleService) ListRoles(ctx context.Context) ([]role.Role, error)         { return nil, nil }
func (s *stubRoleService) UpdateRole(ctx context.Context, id string, r *role.Role) error { return nil }
func (s *stubRoleService) DeleteRole(ctx context.Context, id string) error            { return nil }

func (s *stubRoleService) ResolvePermissions(ctx context.Context, roleKey string, cache role.PermissionCache) ([]string, error) {
	if roleKey == permission.KeyAdmin {
		return permission.Catalog(), nil
	}
	return []string{permission.KeyLeadsView}, nil
}

func seededRepo(t *testing.T, active bool, roleKey string) (*mockUserRepo, *models.User) {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}

	user := &models.User{
		ID:       primitive.NewObjectID(),
		TenantID: primitive.NewObjectID(),
		Email:    "dana@example.com",
		Password: string(hashed),
		FullName: "Dana",
		Active:   active,
		RoleKey:  roleKey,
	}

	repo := &mockUserRepo{
		usersByID:    map[string]*models.User{user.ID.Hex(): user},
		usersByEmail: map[string]*models.User{user.Email: user},
	}
	return repo, user
}

func TestLoginSucceedsForActiveUser(t *testing.T) {
	repo, _ := seededRepo(t, true, "sales")
	service := NewSessionService(repo, &stubRoleService{})

	token, authed, err := service.Login(context.Background(), "Dana@Example.com ", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" {
		t.Error("expected a signed token")
	}
	if authed == nil || authed.RoleKey != "sales" {
		t.Errorf("unexpected identity: %+v", authed)
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	repo, _ := seededRepo(t, true, "sales")
	service := NewSessionService(repo, &stubRoleService{})

	if _, _, err := service.Login(context.Background(), "dana@example.com", "wrong"); err == nil {
		t.Fatal("wrong password must fail")
	}
}

func TestLoginRejectsInactiveAccount(t *testing.T) {
	repo, _ := seededRepo(t, false, "sales")
	service := NewSessionService(repo, &stubRoleService{})

	_, _, badPass := service.Login(context.Background(), "dana@example.com", "wrong")
	_, _, inactive := service.Login(context.Background(), "dana@example.com", "s3cret")

	if inactive == nil {
		t.Fatal("inactive account must not log in")
	}
	// An attacker probing accounts must not be able to tell a disabled
	// account from a bad password.
	if inactive.Error() != badPass.Error() {
		t.Errorf("inactive error %q leaks account state (bad password: %q)", inactive, badPass)
	}
}

func TestResolveSessionRejectsInactiveAdmin(t *testing.T) {
	// Deactivation wins over every role, including admin.
	repo, user := seededRepo(t, false, "admin")
	service := NewSessionService(repo, &stubRoleService{})

	claims := &utils.UserClaims{UserID: user.ID.Hex(), TenantID: user.TenantID.Hex(), RoleKey: "admin"}
	if _, err := service.ResolveSession(context.Background(), claims); err != models.ErrInactiveAccount {
		t.Fatalf("inactive admin resolved with err = %v, want ErrInactiveAccount", err)
	}
}

func TestResolveSessionUnknownUser(t *testing.T) {
	service := NewSessionService(&mockUserRepo{}, &stubRoleService{})

	claims := &utils.UserClaims{UserID: primitive.NewObjectID().Hex()}
	if _, err := service.ResolveSession(context.Background(), claims); err != models.ErrForbidden {
		t.Fatalf("unknown user resolved with err = %v, want ErrForbidden", err)
	}
}

func TestResolveSessionResolvesPermissionsFresh(t *testing.T) {
	repo, user := seededRepo(t, true, "admin")
	service := NewSessionService(repo, &stubRoleService{})

	claims := &utils.UserClaims{UserID: user.ID.Hex(), TenantID: user.TenantID.Hex(), RoleKey: "admin"}
	authed, err := service.ResolveSession(context.Background(), claims)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if len(authed.Permissions) != len(permission.Catalog()) {
		t.Errorf("admin session resolved %d permissions, want the full catalog", len(authed.Permissions))
	}
}
