package collab

import (
	"strings"
	"sync"

	"github.com/dafibh/collab/collab-backend/internal/domain"
	"github.com/dafibh/collab/collab-backend/internal/util"
)

// CommitFunc observes a committed change. It runs while the document is
// locked, so commits reach it in version order; it must not block or call
// back into the document.
type CommitFunc func(result domain.SyncResult)

// Document is the authoritative state of one workspace. Every mutation goes
// through Reconcile or Update, which serialize on the document's lock.
type Document struct {
	mu       sync.RWMutex
	id       string
	name     string
	text     []rune
	version  int
	segments []domain.Segment
	history  *History
}

// NewDocument creates a document at version 0 holding the default text
func NewDocument(id, name string, historyLimit int) *Document {
	return &Document{
		id:      id,
		name:    name,
		text:    []rune(domain.DefaultText),
		history: NewHistory(historyLimit),
	}
}

// NewDocumentFrom creates a document that starts with the text, segments and
// version of template. History is not carried over.
func NewDocumentFrom(id, name string, template domain.Snapshot, historyLimit int) *Document {
	text := []rune(template.Text)
	return &Document{
		id:       id,
		name:     name,
		text:     text,
		version:  max(0, template.Version),
		segments: ClampSegments(template.Segments, len(text)),
		history:  NewHistory(historyLimit),
	}
}

// ID returns the workspace id
func (d *Document) ID() string {
	return d.id
}

// Name returns the display name
func (d *Document) Name() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.name
}

// Version returns the current version
func (d *Document) Version() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.version
}

// Snapshot returns a consistent copy of the document
func (d *Document) Snapshot() domain.Snapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.snapshotLocked()
}

// Observe calls fn with a snapshot while holding the document's read lock, so
// no commit happens between the snapshot and whatever fn sets up.
func (d *Document) Observe(fn func(snapshot domain.Snapshot)) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	fn(d.snapshotLocked())
}

// Reconcile rebases p against the changes its author had not seen, applies
// it, attributes the replacement to color and records the change. Malformed
// proposals are defaulted, never rejected.
func (d *Document) Reconcile(p domain.EditProposal, color string, onCommit CommitFunc) domain.SyncResult {
	d.mu.Lock()
	defer d.mu.Unlock()

	edit := resolveProposal(p, d.text)
	start, oldEnd, delta := edit.start, edit.oldEnd, edit.delta

	if base := p.ObservedVersion(); !edit.fullReplace && base.Valid && base.Value < d.version {
		var ok bool
		start, oldEnd, ok = d.history.Rebase(base.Value, start, oldEnd)
		if !ok {
			start, oldEnd, delta = 0, len(d.text), edit.incoming
		}
	}

	start = util.Clamp(start, 0, len(d.text))
	oldEnd = util.Clamp(oldEnd, start, len(d.text))

	newText := make([]rune, 0, len(d.text)-(oldEnd-start)+len(delta))
	newText = append(newText, d.text[:start]...)
	newText = append(newText, delta...)
	newText = append(newText, d.text[oldEnd:]...)

	change := domain.Change{
		Version: d.version + 1,
		Start:   start,
		OldEnd:  oldEnd,
		NewEnd:  start + len(delta),
	}
	d.segments = TransformSegments(d.segments, change, color)

	return d.commitLocked(newText, change, onCommit)
}

// Update applies an administrative update. A non-blank name renames the
// document without a new version. A text replaces the whole document as one
// change and clears the overlay unless segments are given as well; segments
// alone are recorded as an identity change. changed reports whether a new
// version was committed.
func (d *Document) Update(u domain.WorkspaceUpdate, onCommit CommitFunc) (result domain.SyncResult, changed bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if u.Name != nil {
		if name := strings.TrimSpace(*u.Name); name != "" {
			d.name = name
		}
	}

	if u.Text == nil && !u.SegmentsSet {
		return d.resultLocked(domain.Change{}), false
	}

	newText := d.text
	change := domain.Change{Version: d.version + 1}
	if u.Text != nil {
		newText = []rune(*u.Text)
		change.OldEnd = len(d.text)
		change.NewEnd = len(newText)
		d.segments = nil
	}
	if u.SegmentsSet {
		d.segments = ClampSegments(u.Segments, len(newText))
	}

	return d.commitLocked(newText, change, onCommit), true
}

func (d *Document) commitLocked(text []rune, change domain.Change, onCommit CommitFunc) domain.SyncResult {
	d.text = text
	d.version = change.Version
	d.history.Append(change)

	result := d.resultLocked(change)
	if onCommit != nil {
		onCommit(result)
	}
	return result
}

func (d *Document) resultLocked(change domain.Change) domain.SyncResult {
	return domain.SyncResult{
		WorkspaceID: d.id,
		Text:        string(d.text),
		Segments:    copySegments(d.segments),
		Change:      change,
		Version:     d.version,
	}
}

func (d *Document) snapshotLocked() domain.Snapshot {
	return domain.Snapshot{
		ID:       d.id,
		Name:     d.name,
		Text:     string(d.text),
		Segments: copySegments(d.segments),
		Version:  d.version,
	}
}

// copySegments never returns nil so the wire form is always a list
func copySegments(segments []domain.Segment) []domain.Segment {
	out := make([]domain.Segment, len(segments))
	copy(out, segments)
	return out
}
