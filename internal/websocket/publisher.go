package websocket

import "github.com/rs/zerolog/log"

// EventPublisher defines the interface for publishing events to WebSocket clients
type EventPublisher interface {
	// Publish sends an event to all clients connected to the specified workspace
	Publish(workspaceID string, event Event, exclude ...string)
	// PublishTo sends an event to one client
	PublishTo(clientID string, event Event)
}

// Ensure Hub implements EventPublisher
var _ EventPublisher = (*Hub)(nil)

// Publish implements EventPublisher by broadcasting the event to the workspace
func (h *Hub) Publish(workspaceID string, event Event, exclude ...string) {
	h.Broadcast(workspaceID, event, exclude...)
}

// PublishTo implements EventPublisher; delivery failures are logged and dropped
func (h *Hub) PublishTo(clientID string, event Event) {
	if err := h.SendTo(clientID, event); err != nil {
		log.Warn().
			Err(err).
			Str("client_id", clientID).
			Str("event_type", string(event.Type)).
			Msg("Failed to send to client")
	}
}

// NoOpPublisher is a publisher that does nothing (for testing or when WebSocket is disabled)
type NoOpPublisher struct{}

// Publish does nothing
func (n *NoOpPublisher) Publish(workspaceID string, event Event, exclude ...string) {}

// PublishTo does nothing
func (n *NoOpPublisher) PublishTo(clientID string, event Event) {}
