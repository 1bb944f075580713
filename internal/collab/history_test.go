package collab

import (
	"testing"

	"github.com/dafibh/collab/collab-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistory_AppendTruncates(t *testing.T) {
	h := NewHistory(3)
	for v := 1; v <= 5; v++ {
		h.Append(domain.Change{Version: v})
	}

	require.Equal(t, 3, h.Len())
	oldest, ok := h.Oldest()
	require.True(t, ok)
	assert.Equal(t, 3, oldest.Version)
	assert.Len(t, h.Since(3), 2)
}

func TestHistory_DefaultLimit(t *testing.T) {
	h := NewHistory(0)
	for v := 1; v <= DefaultHistoryLimit+20; v++ {
		h.Append(domain.Change{Version: v})
	}

	assert.Equal(t, DefaultHistoryLimit, h.Len())
}

func TestHistory_Rebase_FoldsLaterChanges(t *testing.T) {
	h := NewHistory(10)
	h.Append(domain.Change{Version: 2, Start: 1, OldEnd: 2, NewEnd: 3})
	h.Append(domain.Change{Version: 3, Start: 0, OldEnd: 0, NewEnd: 2})

	start, oldEnd, ok := h.Rebase(1, 3, 4)
	require.True(t, ok)
	assert.Equal(t, 6, start)
	assert.Equal(t, 7, oldEnd)

	// Only the change after version 2 applies
	start, oldEnd, ok = h.Rebase(2, 3, 4)
	require.True(t, ok)
	assert.Equal(t, 5, start)
	assert.Equal(t, 6, oldEnd)
}

func TestHistory_Rebase_EmptyHistoryKeepsAnchors(t *testing.T) {
	h := NewHistory(10)

	start, oldEnd, ok := h.Rebase(0, 3, 4)

	assert.True(t, ok)
	assert.Equal(t, 3, start)
	assert.Equal(t, 4, oldEnd)
}

func TestHistory_Rebase_BeyondRetainedHistory(t *testing.T) {
	h := NewHistory(2)
	for v := 1; v <= 4; v++ {
		h.Append(domain.Change{Version: v, Start: 0, OldEnd: 0, NewEnd: 1})
	}

	_, _, ok := h.Rebase(1, 0, 0)
	assert.False(t, ok, "version 2 was discarded")

	_, _, ok = h.Rebase(2, 0, 0)
	assert.True(t, ok, "version 3 is the oldest retained")
}
