package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsLegacy(t *testing.T) {
	tests := []struct {
		name   string
		b      *Behavior
		family Family
		want   bool
	}{
		{"nil behavior", nil, FamilyAuth, false},
		{"helper name", &Behavior{CurrentHelper: "basicAuth"}, FamilyAuth, true},
		{"orphan attributes", &Behavior{HelperAttributes: map[string]any{"id": "basic"}}, FamilyAuth, false},
		{"structured only", &Behavior{Auth: &Auth{Type: "basic"}}, FamilyAuth, false},
		{"tests string", &Behavior{Tests: "x"}, FamilyEvent, true},
		{"event list only", &Behavior{Events: []Event{{Listen: "test"}}}, FamilyEvent, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsLegacy(tt.b, tt.family))
		})
	}
}

func TestValueText(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"abc", "abc"},
		{float64(5), "5"},
		{1.5, "1.5"},
		{true, "true"},
		{map[string]any{"a": float64(1)}, `{"a":1}`},
	}

	for _, tt := range tests {
		if got := ValueText(tt.in); got != tt.want {
			t.Errorf("ValueText(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
