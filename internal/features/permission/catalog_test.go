package permission

import (
	"slices"
	"testing"
)

func TestCatalogContainsAdmin(t *testing.T) {
	if !slices.Contains(Catalog(), KeyAdmin) {
		t.Fatal("catalog must contain the admin super-permission")
	}
}

func TestCatalogReturnsCopy(t *testing.T) {
	first := Catalog()
	first[0] = "tampered"
	if Catalog()[0] != KeyAdmin {
		t.Error("mutating a returned catalog slice must not affect the catalog")
	}
}

func TestFilterDropsUnknownAndDuplicates(t *testing.T) {
	got := Filter([]string{KeyLeadsView, "bogus.key", KeyLeadsView, "", KeyTasksEdit})
	want := []string{KeyLeadsView, KeyTasksEdit}
	if !slices.Equal(got, want) {
		t.Errorf("Filter() = %v, want %v", got, want)
	}
}

func TestNormalizeAliases(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "Retired assign key expands",
			in:   []string{"tasks.assign"},
			want: []string{KeyTasksEdit, KeyTasksReassign},
		},
		{
			name: "Mixed current and legacy",
			in:   []string{KeyLeadsView, "export"},
			want: []string{KeyLeadsView, KeyReportsExport},
		},
		{
			name: "Alias expansion deduplicates against current keys",
			in:   []string{KeyTasksEdit, "tasks.assign"},
			want: []string{KeyTasksEdit, KeyTasksReassign},
		},
		{
			name: "Unknown keys still dropped",
			in:   []string{"manage_users", "totally.unknown"},
			want: []string{KeyUsersView, KeyUsersManage},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeAliases(tt.in)
			if !slices.Equal(got, tt.want) {
				t.Errorf("NormalizeAliases(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
