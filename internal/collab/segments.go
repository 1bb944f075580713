package collab

import (
	"github.com/dafibh/collab/collab-backend/internal/domain"
	"github.com/dafibh/collab/collab-backend/internal/util"
)

// TransformSegments returns a fresh overlay for the text after change.
// Segments before the change are kept, segments after it are shifted,
// segments inside it are dropped and partially overlapping ones are widened
// to cover the replaced range. A non-empty replacement gets its own segment
// in color. The input slice is never modified.
func TransformSegments(segments []domain.Segment, change domain.Change, color string) []domain.Segment {
	start, oldEnd, newEnd := change.Start, change.OldEnd, change.NewEnd
	shift := (newEnd - start) - (oldEnd - start)

	out := make([]domain.Segment, 0, len(segments)+1)
	for _, seg := range segments {
		switch {
		case seg.End <= start:
			out = append(out, seg)
		case seg.Start >= oldEnd:
			out = append(out, domain.Segment{Start: seg.Start + shift, End: seg.End + shift, Color: seg.Color})
		case seg.Start >= start && seg.End <= oldEnd:
			// swallowed by the edit
		default:
			merged := domain.Segment{
				Start: min(seg.Start, start),
				End:   max(seg.End, oldEnd) + shift,
				Color: seg.Color,
			}
			if merged.End > merged.Start {
				out = append(out, merged)
			}
		}
	}

	if newEnd > start {
		out = append(out, domain.Segment{Start: start, End: newEnd, Color: color})
	}
	return out
}

// ClampSegments returns a copy of segments restricted to [0, length],
// dropping any that become empty.
func ClampSegments(segments []domain.Segment, length int) []domain.Segment {
	out := make([]domain.Segment, 0, len(segments))
	for _, seg := range segments {
		s := util.Clamp(seg.Start, 0, length)
		e := util.Clamp(seg.End, 0, length)
		if e > s {
			out = append(out, domain.Segment{Start: s, End: e, Color: seg.Color})
		}
	}
	return out
}
