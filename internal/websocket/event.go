package websocket

import (
	"encoding/json"
	"time"

	"github.com/dafibh/collab/collab-backend/internal/domain"
)

// EventType names a realtime message
type EventType string

// Events sent by the server
const (
	EventTypeInit              EventType = "init"
	EventTypePresence          EventType = "presence"
	EventTypeSync              EventType = "sync"
	EventTypeCursor            EventType = "cur"
	EventTypeBye               EventType = "bye"
	EventTypeWorkspaceSwitched EventType = "workspace_switched"
)

// Events sent by clients
const (
	EventTypeEdit            EventType = "edit"
	EventTypeSetName         EventType = "set_name"
	EventTypeSwitchWorkspace EventType = "switch_workspace"
)

// Event represents a WebSocket event message sent to clients
// Format: { type, payload, timestamp }
type Event struct {
	Type      EventType   `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewEvent creates a new event with the given type and payload
func NewEvent(eventType EventType, payload interface{}) Event {
	return Event{
		Type:      eventType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON serializes the event to JSON bytes
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// InitPayload is the first message a connection receives
type InitPayload struct {
	ID         string                    `json:"id"`
	Text       string                    `json:"text"`
	Color      string                    `json:"color"`
	Segments   []domain.Segment          `json:"segments"`
	Name       string                    `json:"name"`
	Users      []domain.Presence         `json:"users"`
	Workspaces []domain.WorkspaceSummary `json:"workspaces"`
	Workspace  domain.WorkspaceInfo      `json:"workspace"`
	Version    int                       `json:"version"`
}

// SyncPayload carries the authoritative document after a commit
type SyncPayload struct {
	Text     string            `json:"text"`
	Segments []domain.Segment  `json:"segments"`
	From     string            `json:"from"`
	Change   domain.ChangeSpan `json:"change"`
	Version  int               `json:"version"`
}

// PresencePayload lists the sessions of a workspace
type PresencePayload struct {
	Users []domain.Presence `json:"users"`
}

// CursorPayload is an advisory caret position of a peer
type CursorPayload struct {
	ID    string `json:"id"`
	Pos   int    `json:"pos"`
	Color string `json:"color"`
	Name  string `json:"name"`
}

// ByePayload announces a disconnected peer
type ByePayload struct {
	ID string `json:"id"`
}

// WorkspaceSwitchedPayload answers a switch_workspace request
type WorkspaceSwitchedPayload struct {
	Workspace  domain.WorkspaceInfo      `json:"workspace"`
	Text       string                    `json:"text"`
	Segments   []domain.Segment          `json:"segments"`
	Users      []domain.Presence         `json:"users"`
	Workspaces []domain.WorkspaceSummary `json:"workspaces"`
	Version    int                       `json:"version"`
}

// Init creates an init event
func Init(payload InitPayload) Event {
	return NewEvent(EventTypeInit, payload)
}

// Sync creates a sync event for a committed change made by from
func Sync(result domain.SyncResult, from string) Event {
	return NewEvent(EventTypeSync, SyncPayload{
		Text:     result.Text,
		Segments: result.Segments,
		From:     from,
		Change:   result.Change.Span(),
		Version:  result.Version,
	})
}

// Presence creates a presence event
func Presence(users []domain.Presence) Event {
	return NewEvent(EventTypePresence, PresencePayload{Users: users})
}

// Cursor creates a cur event for session
func Cursor(session domain.Session) Event {
	return NewEvent(EventTypeCursor, CursorPayload{
		ID:    session.ID,
		Pos:   session.Cursor,
		Color: session.Color,
		Name:  session.Name,
	})
}

// Bye creates a bye event
func Bye(sessionID string) Event {
	return NewEvent(EventTypeBye, ByePayload{ID: sessionID})
}

// WorkspaceSwitched creates a workspace_switched event
func WorkspaceSwitched(payload WorkspaceSwitchedPayload) Event {
	return NewEvent(EventTypeWorkspaceSwitched, payload)
}
