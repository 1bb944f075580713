package testutil

import (
	"encoding/json"
	"sync"

	"github.com/dafibh/collab/collab-backend/internal/websocket"
)

// Frame is a decoded outbound event captured by MockClient
type Frame struct {
	Type    websocket.EventType `json:"type"`
	Payload json.RawMessage     `json:"payload"`
}

// Decode unmarshals the frame payload into v
func (f Frame) Decode(v interface{}) error {
	return json.Unmarshal(f.Payload, v)
}

// MockClient is a mock implementation of websocket.ClientInterface that
// records every frame it is sent
type MockClient struct {
	id     string
	frames [][]byte
	closed bool
	mu     sync.Mutex
}

// NewMockClient creates a new MockClient
func NewMockClient(id string) *MockClient {
	return &MockClient{id: id}
}

// ID returns the client ID
func (m *MockClient) ID() string {
	return m.id
}

// Send records data
func (m *MockClient) Send(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return websocket.ErrClientClosed
	}
	m.frames = append(m.frames, data)
	return nil
}

// Close marks the client closed
func (m *MockClient) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// IsClosed reports whether Close was called
func (m *MockClient) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Frames returns every decodable frame received so far
func (m *MockClient) Frames() []Frame {
	m.mu.Lock()
	raw := make([][]byte, len(m.frames))
	copy(raw, m.frames)
	m.mu.Unlock()

	frames := make([]Frame, 0, len(raw))
	for _, data := range raw {
		var f Frame
		if err := json.Unmarshal(data, &f); err == nil {
			frames = append(frames, f)
		}
	}
	return frames
}

// FramesOf returns the received frames of one type
func (m *MockClient) FramesOf(eventType websocket.EventType) []Frame {
	var frames []Frame
	for _, f := range m.Frames() {
		if f.Type == eventType {
			frames = append(frames, f)
		}
	}
	return frames
}

// Last returns the most recent frame of eventType
func (m *MockClient) Last(eventType websocket.EventType) (Frame, bool) {
	frames := m.FramesOf(eventType)
	if len(frames) == 0 {
		return Frame{}, false
	}
	return frames[len(frames)-1], true
}

// Types returns the event types received, in order
func (m *MockClient) Types() []websocket.EventType {
	frames := m.Frames()
	types := make([]websocket.EventType, len(frames))
	for i, f := range frames {
		types[i] = f.Type
	}
	return types
}

// Reset forgets every recorded frame
func (m *MockClient) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.frames = nil
}

// PublishedEvent is one call captured by MockPublisher
type PublishedEvent struct {
	WorkspaceID string
	ClientID    string
	Event       websocket.Event
	Exclude     []string
}

// MockPublisher is a mock implementation of websocket.EventPublisher
type MockPublisher struct {
	Published []PublishedEvent
	mu        sync.Mutex
}

// NewMockPublisher creates a new MockPublisher
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

// Publish records a workspace broadcast
func (m *MockPublisher) Publish(workspaceID string, event websocket.Event, exclude ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Published = append(m.Published, PublishedEvent{WorkspaceID: workspaceID, Event: event, Exclude: exclude})
}

// PublishTo records a direct send
func (m *MockPublisher) PublishTo(clientID string, event websocket.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Published = append(m.Published, PublishedEvent{ClientID: clientID, Event: event})
}

// Events returns a copy of the recorded calls
func (m *MockPublisher) Events() []PublishedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	events := make([]PublishedEvent, len(m.Published))
	copy(events, m.Published)
	return events
}

// MockSessionCounter returns fixed session counts per workspace
type MockSessionCounter struct {
	Counts map[string]int
}

// NewMockSessionCounter creates a new MockSessionCounter
func NewMockSessionCounter() *MockSessionCounter {
	return &MockSessionCounter{Counts: make(map[string]int)}
}

// CountIn returns the configured count for workspaceID
func (m *MockSessionCounter) CountIn(workspaceID string) int {
	return m.Counts[workspaceID]
}
