package collab

import "github.com/dafibh/collab/collab-backend/internal/domain"

// MapPosition maps pos, an offset in the text before change, to the matching
// offset after it. Offsets inside the replaced range collapse to the start of
// the change, or to the end of the replacement when asEnd is set.
func MapPosition(pos int, change domain.Change, asEnd bool) int {
	start := max(0, change.Start)
	oldEnd := max(change.OldEnd, start)
	newEnd := max(change.NewEnd, start)

	switch {
	case pos <= start:
		return pos
	case pos >= oldEnd:
		return pos + (newEnd - start) - (oldEnd - start)
	case asEnd:
		return newEnd
	default:
		return start
	}
}
