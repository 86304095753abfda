package permission

import "testing"

func TestHasPermission(t *testing.T) {
	tests := []struct {
		name     string
		granted  []string
		required []string
		want     bool
	}{
		{
			name:     "No required permissions is public",
			granted:  nil,
			required: nil,
			want:     true,
		},
		{
			name:     "Empty granted with required fails",
			granted:  []string{},
			required: []string{KeyLeadsView},
			want:     false,
		},
		{
			name:     "Direct match",
			granted:  []string{KeyLeadsView},
			required: []string{KeyLeadsView},
			want:     true,
		},
		{
			name:     "Any-of semantics",
			granted:  []string{KeyLeadsEdit},
			required: []string{KeyAdmin, KeyLeadsEdit},
			want:     true,
		},
		{
			name:     "Admin satisfies everything",
			granted:  []string{KeyAdmin},
			required: []string{KeyTasksReassign},
			want:     true,
		},
		{
			name:     "Admin in required only matches granted admin",
			granted:  []string{KeyTasksEdit, KeyTasksReassign},
			required: []string{KeyAdmin},
			want:     false,
		},
		{
			name:     "No overlap",
			granted:  []string{KeyCustomersView},
			required: []string{KeyLeadsView, KeyLeadsEdit},
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasPermission(tt.granted, tt.required); got != tt.want {
				t.Errorf("HasPermission(%v, %v) = %v, want %v", tt.granted, tt.required, got, tt.want)
			}
		})
	}
}

func TestHasPermissionAdminRequired(t *testing.T) {
	// For any required set containing admin, only a granted admin passes
	requiredSets := [][]string{
		{KeyAdmin},
		{KeyAdmin, KeyLeadsView},
		{KeyTasksEdit, KeyAdmin, KeyReportsExport},
	}

	for _, required := range requiredSets {
		if !HasPermission([]string{KeyAdmin}, required) {
			t.Errorf("admin grant should satisfy required %v", required)
		}
	}

	// Granted admin always passes even with unrelated required keys
	if !HasPermission([]string{KeyAdmin}, []string{"something.unknown"}) {
		t.Error("admin grant should satisfy unknown required keys")
	}
}
