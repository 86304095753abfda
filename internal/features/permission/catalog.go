// Package permission holds the closed permission catalog and the
// authorization predicate. Every capability check in the app, client
// facing or not, goes through HasPermission; nothing else compares role
// strings.
package permission

// KeyAdmin is the super-permission. A granted set containing it satisfies
// every check.
const KeyAdmin = "admin"

// Catalog of permission keys. Closed set: anything not listed here cannot
// be granted, and values outside it are dropped when roles are stored.
const (
	KeyLeadsView    = "leads.view"
	KeyLeadsCreate  = "leads.create"
	KeyLeadsEdit    = "leads.edit"
	KeyLeadsDelete  = "leads.delete"
	KeyLeadsConvert = "leads.convert"

	KeyCustomersView   = "customers.view"
	KeyCustomersCreate = "customers.create"
	KeyCustomersEdit   = "customers.edit"
	KeyCustomersDelete = "customers.delete"

	KeyProjectsView   = "projects.view"
	KeyProjectsCreate = "projects.create"
	KeyProjectsEdit   = "projects.edit"
	KeyProjectsDelete = "projects.delete"

	KeyTasksView     = "tasks.view"
	KeyTasksCreate   = "tasks.create"
	KeyTasksEdit     = "tasks.edit"
	KeyTasksDelete   = "tasks.delete"
	KeyTasksReassign = "tasks.reassign"

	KeyQuotationsView   = "quotations.view"
	KeyQuotationsCreate = "quotations.create"
	KeyQuotationsEdit   = "quotations.edit"
	KeyQuotationsDelete = "quotations.delete"

	KeyPORequestsView    = "porequests.view"
	KeyPORequestsCreate  = "porequests.create"
	KeyPORequestsEdit    = "porequests.edit"
	KeyPORequestsApprove = "porequests.approve"

	KeyUsersView   = "users.view"
	KeyUsersManage = "users.manage"
	KeyRolesManage = "roles.manage"

	KeyReportsExport = "reports.export"
)

// catalog keeps a stable order for UI listings and the admin fast path.
var catalog = []string{
	KeyAdmin,
	KeyLeadsView, KeyLeadsCreate, KeyLeadsEdit, KeyLeadsDelete, KeyLeadsConvert,
	KeyCustomersView, KeyCustomersCreate, KeyCustomersEdit, KeyCustomersDelete,
	KeyProjectsView, KeyProjectsCreate, KeyProjectsEdit, KeyProjectsDelete,
	KeyTasksView, KeyTasksCreate, KeyTasksEdit, KeyTasksDelete, KeyTasksReassign,
	KeyQuotationsView, KeyQuotationsCreate, KeyQuotationsEdit, KeyQuotationsDelete,
	KeyPORequestsView, KeyPORequestsCreate, KeyPORequestsEdit, KeyPORequestsApprove,
	KeyUsersView, KeyUsersManage, KeyRolesManage,
	KeyReportsExport,
}

var catalogSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(catalog))
	for _, key := range catalog {
		set[key] = struct{}{}
	}
	return set
}()

// Catalog returns the full permission catalog in stable order. Callers
// own the returned slice.
func Catalog() []string {
	out := make([]string, len(catalog))
	copy(out, catalog)
	return out
}

// Known reports whether key is part of the closed catalog.
func Known(key string) bool {
	_, ok := catalogSet[key]
	return ok
}

// Filter drops every value that is not in the catalog, preserving order
// and removing duplicates. Corrupted or legacy stored data cannot grant
// an unrecognized capability.
func Filter(keys []string) []string {
	out := make([]string, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		if !Known(key) {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	return out
}
