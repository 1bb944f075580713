package collab

import "github.com/dafibh/collab/collab-backend/internal/domain"

// DefaultHistoryLimit is the number of changes retained per workspace
const DefaultHistoryLimit = 500

// History is a bounded log of applied changes, oldest first.
// It is not safe for concurrent use; Document guards it.
type History struct {
	changes []domain.Change
	limit   int
}

// NewHistory creates a History keeping at most limit changes
func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &History{limit: limit}
}

// Append records a change, discarding the oldest entries beyond the limit
func (h *History) Append(change domain.Change) {
	h.changes = append(h.changes, change)
	if over := len(h.changes) - h.limit; over > 0 {
		n := copy(h.changes, h.changes[over:])
		h.changes = h.changes[:n]
	}
}

// Len returns the number of retained changes
func (h *History) Len() int {
	return len(h.changes)
}

// Oldest returns the oldest retained change
func (h *History) Oldest() (domain.Change, bool) {
	if len(h.changes) == 0 {
		return domain.Change{}, false
	}
	return h.changes[0], true
}

// Since returns a copy of the retained changes with a version above version
func (h *History) Since(version int) []domain.Change {
	var out []domain.Change
	for _, c := range h.changes {
		if c.Version > version {
			out = append(out, c)
		}
	}
	return out
}

// Rebase folds the anchors start and oldEnd, proposed against baseVersion,
// forward through every later change. ok is false when changes after
// baseVersion have already been discarded and the anchors cannot be trusted.
func (h *History) Rebase(baseVersion, start, oldEnd int) (newStart, newOldEnd int, ok bool) {
	if oldest, exists := h.Oldest(); exists && baseVersion+1 < oldest.Version {
		return start, oldEnd, false
	}

	for _, c := range h.changes {
		if c.Version <= baseVersion {
			continue
		}
		start = MapPosition(start, c, false)
		oldEnd = MapPosition(oldEnd, c, true)
	}
	return start, oldEnd, true
}
