package websocket

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHub_Implements_EventPublisher(t *testing.T) {
	// Compile-time check that Hub implements EventPublisher
	var _ EventPublisher = (*Hub)(nil)
}

func TestHub_Publish(t *testing.T) {
	hub := NewHub()

	// Create mock client
	client := newMockClient("client-1")
	hub.Register(client, "main")

	// Publish event via EventPublisher interface
	var publisher EventPublisher = hub
	publisher.Publish("main", Bye("peer"))
	publisher.PublishTo("client-1", Bye("peer"))

	// Verify client received both events
	assert.Len(t, client.GetMessages(), 2)
}

func TestHub_PublishTo_UnknownClient(t *testing.T) {
	hub := NewHub()

	assert.NotPanics(t, func() {
		hub.PublishTo("missing", Bye("peer"))
	})
}

func TestNoOpPublisher_Publish(t *testing.T) {
	publisher := &NoOpPublisher{}

	// Should not panic
	assert.NotPanics(t, func() {
		publisher.Publish("main", Bye("peer"))
		publisher.PublishTo("client-1", Bye("peer"))
	})
}

func TestNoOpPublisher_Implements_EventPublisher(t *testing.T) {
	// Compile-time check that NoOpPublisher implements EventPublisher
	var _ EventPublisher = (*NoOpPublisher)(nil)
}
