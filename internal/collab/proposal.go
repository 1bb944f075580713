package collab

import (
	"github.com/dafibh/collab/collab-backend/internal/domain"
	"github.com/dafibh/collab/collab-backend/internal/util"
)

// resolvedEdit is a proposal with every missing field defaulted. Anchors are
// still relative to the proposer's view and not yet clamped.
type resolvedEdit struct {
	start       int
	oldEnd      int
	delta       []rune
	incoming    []rune
	fullReplace bool
}

// resolveProposal applies the defaulting policy for inbound edits:
//
//   - text defaults to the current text
//   - without a start anchor the edit replaces the whole document with text
//   - new_end defaults to start; both are clamped into text
//   - delta defaults to text[start:new_end]
//   - old_end defaults to start plus the removed length implied by text
func resolveProposal(p domain.EditProposal, current []rune) resolvedEdit {
	incoming := current
	if p.Text.Valid {
		incoming = []rune(p.Text.Value)
	}

	rawStart := p.Range.StartAnchor()
	if !rawStart.Valid {
		return resolvedEdit{
			start:       0,
			oldEnd:      len(current),
			delta:       incoming,
			incoming:    incoming,
			fullReplace: true,
		}
	}

	n := len(incoming)
	sliceStart := util.Clamp(rawStart.Value, 0, n)
	sliceEnd := util.Clamp(p.Range.NewEndAnchor().Or(sliceStart), sliceStart, n)

	delta := incoming[sliceStart:sliceEnd]
	if p.Delta.Valid {
		delta = []rune(p.Delta.Value)
	}

	start := rawStart.Value
	inferred := start + max(0, len(current)-n+(sliceEnd-sliceStart))

	return resolvedEdit{
		start:    start,
		oldEnd:   p.Range.OldEnd.Or(inferred),
		delta:    delta,
		incoming: incoming,
	}
}
