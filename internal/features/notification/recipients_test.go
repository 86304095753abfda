package notification

import (
	"slices"
	"testing"
)

func TestBuildRecipientList(t *testing.T) {
	tests := []struct {
		name    string
		owner   string
		others  []string
		exclude string
		want    []string
	}{
		{
			name:   "Owner plus others",
			owner:  "u1",
			others: []string{"u2", "u3"},
			want:   []string{"u1", "u2", "u3"},
		},
		{
			name:    "Actor removed even as owner",
			owner:   "u1",
			others:  []string{"u2"},
			exclude: "u1",
			want:    []string{"u2"},
		},
		{
			name:    "Actor removed from others",
			owner:   "u1",
			others:  []string{"u2", "u3", "u2"},
			exclude: "u2",
			want:    []string{"u1", "u3"},
		},
		{
			name:   "Duplicates collapse preserving insertion order",
			owner:  "u2",
			others: []string{"u1", "u2", "u1"},
			want:   []string{"u2", "u1"},
		},
		{
			name:   "Empty entries ignored",
			owner:  "",
			others: []string{"", "u1", ""},
			want:   []string{"u1"},
		},
		{
			name:    "Everything excluded",
			owner:   "u1",
			others:  []string{"u1"},
			exclude: "u1",
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildRecipientList(tt.owner, tt.others, tt.exclude)
			if !slices.Equal(got, tt.want) {
				t.Errorf("BuildRecipientList() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuildRecipientListProperties(t *testing.T) {
	// For arbitrary-ish inputs: no repeats, never contains the excluded id
	inputs := []struct {
		owner   string
		others  []string
		exclude string
	}{
		{"a", []string{"b", "a", "c", "b", ""}, "b"},
		{"", []string{"x", "x", "x"}, "x"},
		{"z", nil, ""},
		{"a", []string{"a", "a"}, ""},
	}

	for _, in := range inputs {
		got := BuildRecipientList(in.owner, in.others, in.exclude)

		seen := make(map[string]bool)
		for _, id := range got {
			if seen[id] {
				t.Errorf("duplicate %q in %v for input %+v", id, got, in)
			}
			seen[id] = true
			if in.exclude != "" && id == in.exclude {
				t.Errorf("excluded id %q present in %v", in.exclude, got)
			}
			if id == "" {
				t.Errorf("empty id present in %v", got)
			}
		}
	}
}

func TestAreSameRecipientSets(t *testing.T) {
	tests := []struct {
		name string
		a, b []string
		want bool
	}{
		{"Reordered is equal", []string{"a", "b"}, []string{"b", "a"}, true},
		{"Subset is not equal", []string{"a"}, []string{"a", "b"}, false},
		{"Duplicates ignored", []string{"a", "a", "b"}, []string{"b", "a"}, true},
		{"Both empty", nil, []string{}, true},
		{"Empty vs non-empty", nil, []string{"a"}, false},
		{"Blank entries ignored", []string{"a", ""}, []string{"a"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AreSameRecipientSets(tt.a, tt.b); got != tt.want {
				t.Errorf("AreSameRecipientSets(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}
