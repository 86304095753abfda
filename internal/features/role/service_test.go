package role

import (
	"context"
	"slices"
	"testing"

	"opscrm/internal/features/activity"
	"opscrm/internal/features/permission"

	"go.mongodb.org/mongo-driver/mongo"
)

type mockRoleRepo struct {
	rolesByKey map[string]*Role
	rolesByID  map[string]*Role
	keyLookups int
}

func (m *mockRoleRepo) Create(ctx context.Context, role *Role) error { return nil }

func (m *mockRoleRepo) FindByID(ctx context.Context, id string) (*Role, error) {
	if role, ok := m.rolesByID[id]; ok {
		return role, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (m *mockRoleRepo) FindByKey(ctx context.Context, key string) (*Role, error) {
	m.keyLookups++
	if role, ok := m.rolesByKey[key]; ok {
		return role, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (m *mockRoleRepo) List(ctx context.Context) ([]Role, error)                { return nil, nil }
func (m *mockRoleRepo) Update(ctx context.Context, id string, role *Role) error { return nil }
func (m *mockRoleRepo) Delete(ctx context.Context, id string) error             { return nil }
func (m *mockRoleRepo) EnsureIndexes(ctx context.Context) error                 { return nil }

type mockActivityService struct{}

func (m *mockActivityService) Log(ctx context.Context, entityType, entityID, note string) error {
	return nil
}

func (m *mockActivityService) LogTyped(ctx context.Context, entityType, entityID, note string, entryType activity.EntryType) error {
	return nil
}

func (m *mockActivityService) LogSafe(ctx context.Context, entityType, entityID, note string) {}

func (m *mockActivityService) LogTypedSafe(ctx context.Context, entityType, entityID, note string, entryType activity.EntryType) {
}

func (m *mockActivityService) ListByEntity(ctx context.Context, entityType, entityID string, limit int64) ([]activity.Entry, error) {
	return nil, nil
}

func newTestService(repo RoleRepository) RoleService {
	return NewRoleService(repo, &mockActivityService{})
}

func TestResolvePermissionsAdminFastPath(t *testing.T) {
	repo := &mockRoleRepo{}
	service := newTestService(repo)

	// Admin short-circuits without any lookup, whatever the casing
	for _, key := range []string{"admin", "Admin", "ADMIN", "  admin  "} {
		perms, err := service.ResolvePermissions(context.Background(), key, nil)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", key, err)
		}
		if !slices.Equal(perms, permission.Catalog()) {
			t.Errorf("ResolvePermissions(%q) must return the full catalog", key)
		}
	}

	if repo.keyLookups != 0 {
		t.Errorf("admin resolution performed %d lookups, want 0", repo.keyLookups)
	}
}

func TestResolvePermissionsAdminRoleWithEmptyStoredPermissions(t *testing.T) {
	// A stored admin role with an empty permissions field still resolves
	// to the full catalog; the stored value is ignored.
	repo := &mockRoleRepo{
		rolesByKey: map[string]*Role{
			"admin": {Key: "admin", Name: "Admin", Permissions: nil},
		},
	}
	service := newTestService(repo)

	perms, err := service.ResolvePermissions(context.Background(), "ADMIN ", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(perms, permission.Catalog()) {
		t.Error("stored admin role must resolve to the full catalog")
	}
}

func TestResolvePermissionsAdminAlias(t *testing.T) {
	// A role stored under a different key whose own key is "admin" still
	// gets the full catalog.
	repo := &mockRoleRepo{
		rolesByKey: map[string]*Role{
			"superuser": {Key: "Admin", Name: "Superuser", Permissions: []string{}},
		},
	}
	service := newTestService(repo)

	perms, err := service.ResolvePermissions(context.Background(), "superuser", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(perms, permission.Catalog()) {
		t.Error("an admin role under an alias must resolve to the full catalog")
	}
}

func TestResolvePermissionsUnknownRoleFailsClosed(t *testing.T) {
	service := newTestService(&mockRoleRepo{})

	perms, err := service.ResolvePermissions(context.Background(), "ghost", nil)
	if err != nil {
		t.Fatalf("unknown role must not error, got %v", err)
	}
	if len(perms) != 0 {
		t.Errorf("unknown role resolved to %v, want empty set", perms)
	}
}

func TestResolvePermissionsEmptyKey(t *testing.T) {
	repo := &mockRoleRepo{}
	service := newTestService(repo)

	perms, err := service.ResolvePermissions(context.Background(), "   ", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(perms) != 0 {
		t.Errorf("empty key resolved to %v, want empty set", perms)
	}
	if repo.keyLookups != 0 {
		t.Error("empty key must not hit the store")
	}
}

func TestResolvePermissionsFiltersCorruptedData(t *testing.T) {
	repo := &mockRoleRepo{
		rolesByKey: map[string]*Role{
			"sales": {Key: "sales", Permissions: []string{
				permission.KeyLeadsView, "backdoor.everything", permission.KeyLeadsEdit,
			}},
		},
	}
	service := newTestService(repo)

	perms, err := service.ResolvePermissions(context.Background(), "sales", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{permission.KeyLeadsView, permission.KeyLeadsEdit}
	if !slices.Equal(perms, want) {
		t.Errorf("ResolvePermissions = %v, want %v", perms, want)
	}
}

func TestResolvePermissionsUsesRequestScopedCache(t *testing.T) {
	repo := &mockRoleRepo{
		rolesByKey: map[string]*Role{
			"sales": {Key: "sales", Permissions: []string{permission.KeyLeadsView}},
		},
	}
	service := newTestService(repo)

	cache := make(PermissionCache)
	for i := 0; i < 5; i++ {
		if _, err := service.ResolvePermissions(context.Background(), "Sales", cache); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if repo.keyLookups != 1 {
		t.Errorf("resolver hit the store %d times with a cache, want 1", repo.keyLookups)
	}
}

func TestResolvePermissionsFallsBackToID(t *testing.T) {
	id := "65f000000000000000000009"
	repo := &mockRoleRepo{
		rolesByID: map[string]*Role{
			id: {Key: "sales", Permissions: []string{permission.KeyLeadsView}},
		},
	}
	service := newTestService(repo)

	perms, err := service.ResolvePermissions(context.Background(), id, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(perms, []string{permission.KeyLeadsView}) {
		t.Errorf("id fallback resolved %v", perms)
	}
}
