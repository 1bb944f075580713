package websocket

import (
	"errors"
	"sync"

	"github.com/rs/zerolog/log"
)

// ErrClientClosed is returned when attempting to send to a closed client
var ErrClientClosed = errors.New("client is closed")

// ErrClientNotFound is returned when sending to a client the hub does not know
var ErrClientNotFound = errors.New("client not found")

// ClientInterface defines the interface that clients must implement
type ClientInterface interface {
	ID() string
	Send(data []byte) error
	Close() error
}

// Hub manages WebSocket connections organized by workspace.
// It is safe for concurrent use.
type Hub struct {
	// workspaces maps workspace ID to a map of client ID to client
	workspaces map[string]map[string]ClientInterface
	// memberOf maps client ID to the workspace it belongs to
	memberOf map[string]string
	mu       sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		workspaces: make(map[string]map[string]ClientInterface),
		memberOf:   make(map[string]string),
	}
}

// Register adds a client to the hub under workspaceID, moving it if it was
// already registered elsewhere
func (h *Hub) Register(client ClientInterface, workspaceID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.removeLocked(client.ID())
	h.addLocked(client, workspaceID)

	log.Debug().
		Str("workspace_id", workspaceID).
		Str("client_id", client.ID()).
		Msg("WebSocket client registered")
}

// Unregister removes a client from the hub and returns the workspace it left
func (h *Hub) Unregister(client ClientInterface) (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	workspaceID, ok := h.removeLocked(client.ID())
	if ok {
		log.Debug().
			Str("workspace_id", workspaceID).
			Str("client_id", client.ID()).
			Msg("WebSocket client unregistered")
	}
	return workspaceID, ok
}

// Move transfers a registered client to workspaceID and returns the
// workspace it left
func (h *Hub) Move(client ClientInterface, workspaceID string) (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	previous, ok := h.removeLocked(client.ID())
	if !ok {
		return "", false
	}
	h.addLocked(client, workspaceID)
	return previous, true
}

func (h *Hub) addLocked(client ClientInterface, workspaceID string) {
	if h.workspaces[workspaceID] == nil {
		h.workspaces[workspaceID] = make(map[string]ClientInterface)
	}
	h.workspaces[workspaceID][client.ID()] = client
	h.memberOf[client.ID()] = workspaceID
}

func (h *Hub) removeLocked(clientID string) (string, bool) {
	workspaceID, ok := h.memberOf[clientID]
	if !ok {
		return "", false
	}
	delete(h.memberOf, clientID)

	if clients, ok := h.workspaces[workspaceID]; ok {
		delete(clients, clientID)

		// Clean up empty workspace maps
		if len(clients) == 0 {
			delete(h.workspaces, workspaceID)
		}
	}
	return workspaceID, true
}

// Broadcast sends an event to all clients in a workspace except the excluded
// client IDs. Sends only enqueue, so events broadcast from one goroutine
// reach every client in the order they were broadcast, and a slow client
// never delays the others.
func (h *Hub) Broadcast(workspaceID string, event Event, exclude ...string) {
	data, err := event.ToJSON()
	if err != nil {
		log.Error().
			Err(err).
			Str("workspace_id", workspaceID).
			Str("event_type", string(event.Type)).
			Msg("Failed to serialize event")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	clients, ok := h.workspaces[workspaceID]
	if !ok || len(clients) == 0 {
		return
	}

	sent := 0
	for id, client := range clients {
		if contains(exclude, id) {
			continue
		}
		if err := client.Send(data); err != nil {
			log.Warn().
				Err(err).
				Str("workspace_id", workspaceID).
				Str("client_id", id).
				Msg("Failed to send to client")
			continue
		}
		sent++
	}

	log.Debug().
		Str("workspace_id", workspaceID).
		Str("event_type", string(event.Type)).
		Int("client_count", sent).
		Msg("Broadcast event")
}

// SendTo sends an event to a single registered client
func (h *Hub) SendTo(clientID string, event Event) error {
	data, err := event.ToJSON()
	if err != nil {
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	workspaceID, ok := h.memberOf[clientID]
	if !ok {
		return ErrClientNotFound
	}
	return h.workspaces[workspaceID][clientID].Send(data)
}

// WorkspaceOf returns the workspace a client is registered in
func (h *Hub) WorkspaceOf(clientID string) (string, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	workspaceID, ok := h.memberOf[clientID]
	return workspaceID, ok
}

// ClientCount returns the number of clients connected to a workspace
func (h *Hub) ClientCount(workspaceID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if clients, ok := h.workspaces[workspaceID]; ok {
		return len(clients)
	}
	return 0
}

// TotalClientCount returns the total number of connected clients across all workspaces
func (h *Hub) TotalClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.memberOf)
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
