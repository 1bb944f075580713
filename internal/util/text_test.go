package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		v, lo, hi int
		want      int
	}{
		{5, 0, 10, 5},
		{-3, 0, 10, 0},
		{12, 0, 10, 10},
		{4, 4, 4, 4},
	}

	for _, tt := range tests {
		if got := Clamp(tt.v, tt.lo, tt.hi); got != tt.want {
			t.Errorf("Clamp(%d, %d, %d) = %d, want %d", tt.v, tt.lo, tt.hi, got, tt.want)
		}
	}
}

func TestCollapseWhitespace(t *testing.T) {
	assert.Equal(t, "Ada Lovelace", CollapseWhitespace("  Ada \t\n  Lovelace "))
	assert.Equal(t, "", CollapseWhitespace(" \t "))
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "héllo", TruncateRunes("héllo wörld", 5))
	assert.Equal(t, "short", TruncateRunes("short", 32))
}

func TestSanitizeWorkspaceID(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"lowercases", "Design-Notes", "design-notes"},
		{"strips punctuation", "my workspace!", "myworkspace"},
		{"keeps underscore", "team_a", "team_a"},
		{"empty falls back", "", "main"},
		{"only invalid falls back", "!!!", "main"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeWorkspaceID(tt.raw, "main"))
		})
	}
}
