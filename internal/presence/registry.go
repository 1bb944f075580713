package presence

import (
	"fmt"
	"sort"
	"sync"

	"github.com/dafibh/collab/collab-backend/internal/domain"
	"github.com/dafibh/collab/collab-backend/internal/util"
)

// Palette is the fixed set of session colors, in assignment order
var Palette = []string{"#ef4444", "#3b82f6", "#10b981", "#f59e0b", "#8b5cf6", "#ec4899", "#06b6d4"}

type entry struct {
	session domain.Session
	seq     uint64
}

// Registry tracks connected sessions and their workspace membership.
// It is safe for concurrent use.
type Registry struct {
	sessions map[string]*entry
	nextSeq  uint64
	mu       sync.RWMutex
}

// NewRegistry creates an empty Registry
func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*entry),
	}
}

// Connect registers a session in workspaceID with a fresh color and guest name.
// Connecting an id twice returns the existing session.
func (r *Registry) Connect(id, workspaceID string) domain.Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.sessions[id]; ok {
		return e.session
	}

	session := domain.Session{
		ID:          id,
		Name:        fmt.Sprintf("Guest %d", len(r.sessions)+1),
		Color:       r.pickColorLocked(),
		WorkspaceID: workspaceID,
	}
	r.nextSeq++
	r.sessions[id] = &entry{session: session, seq: r.nextSeq}
	return session
}

// pickColorLocked returns the first palette color nobody uses, cycling by
// session count once all are taken.
func (r *Registry) pickColorLocked() string {
	used := make(map[string]bool, len(r.sessions))
	for _, e := range r.sessions {
		used[e.session.Color] = true
	}
	for _, c := range Palette {
		if !used[c] {
			return c
		}
	}
	return Palette[len(r.sessions)%len(Palette)]
}

// Disconnect removes a session and returns its last state
func (r *Registry) Disconnect(id string) (domain.Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.sessions[id]
	if !ok {
		return domain.Session{}, false
	}
	delete(r.sessions, id)
	return e.session, true
}

// Get returns a session by id
func (r *Registry) Get(id string) (domain.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.sessions[id]
	if !ok {
		return domain.Session{}, false
	}
	return e.session, true
}

// Rename sets a session's display name. Whitespace is collapsed and the name
// truncated; a blank name falls back to a guest label.
func (r *Registry) Rename(id, raw string) (domain.Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.sessions[id]
	if !ok {
		return domain.Session{}, false
	}

	name := util.TruncateRunes(util.CollapseWhitespace(raw), domain.MaxSessionNameLength)
	if name == "" {
		name = fmt.Sprintf("Guest %d", len(r.sessions))
	}
	e.session.Name = name
	return e.session, true
}

// MoveCursor records the last reported caret offset of a session
func (r *Registry) MoveCursor(id string, pos int) (domain.Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.sessions[id]
	if !ok {
		return domain.Session{}, false
	}
	e.session.Cursor = pos
	return e.session, true
}

// Switch moves a session to workspaceID and returns the workspace it left
func (r *Registry) Switch(id, workspaceID string) (previous string, session domain.Session, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.sessions[id]
	if !ok {
		return "", domain.Session{}, false
	}
	previous = e.session.WorkspaceID
	e.session.WorkspaceID = workspaceID
	return previous, e.session, true
}

// Members returns the presence of every session in workspaceID in connection order
func (r *Registry) Members(workspaceID string) []domain.Presence {
	type member struct {
		presence domain.Presence
		seq      uint64
	}

	r.mu.RLock()
	members := make([]member, 0, len(r.sessions))
	for _, e := range r.sessions {
		if e.session.WorkspaceID == workspaceID {
			members = append(members, member{presence: e.session.Presence(), seq: e.seq})
		}
	}
	r.mu.RUnlock()

	sort.Slice(members, func(i, j int) bool { return members[i].seq < members[j].seq })

	users := make([]domain.Presence, len(members))
	for i, m := range members {
		users[i] = m.presence
	}
	return users
}

// CountIn returns the number of sessions in workspaceID
func (r *Registry) CountIn(workspaceID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, e := range r.sessions {
		if e.session.WorkspaceID == workspaceID {
			count++
		}
	}
	return count
}

// Len returns the number of connected sessions
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
