package websocket

import (
	"encoding/json"

	"github.com/dafibh/collab/collab-backend/internal/domain"
)

// InboundMessage is a frame received from a client
type InboundMessage struct {
	Type    EventType       `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// ParseInbound decodes a client frame
func ParseInbound(data []byte) (InboundMessage, error) {
	var msg InboundMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return InboundMessage{}, err
	}
	return msg, nil
}

// Decode unmarshals the payload into v. A missing payload leaves v untouched.
func (m InboundMessage) Decode(v interface{}) error {
	if len(m.Payload) == 0 {
		return nil
	}
	return json.Unmarshal(m.Payload, v)
}

// CursorMessage is the payload of an inbound cur
type CursorMessage struct {
	Pos domain.OptionalInt `json:"pos"`
}

// SetNameMessage is the payload of set_name
type SetNameMessage struct {
	Name domain.OptionalString `json:"name"`
}

// SwitchWorkspaceMessage is the payload of switch_workspace
type SwitchWorkspaceMessage struct {
	Workspace domain.OptionalString `json:"workspace"`
}

// MessageHandler receives the traffic of every client
type MessageHandler interface {
	HandleMessage(client ClientInterface, msg InboundMessage)
	HandleDisconnect(client ClientInterface)
}
