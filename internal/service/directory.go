package service

import (
	"github.com/dafibh/collab/collab-backend/internal/collab"
	"github.com/dafibh/collab/collab-backend/internal/domain"
	"github.com/dafibh/collab/collab-backend/internal/websocket"
)

// WorkspaceDirectory stores the live documents, one per workspace id
type WorkspaceDirectory interface {
	GetOrCreate(id string) *collab.Document
	GetByID(id string) (*collab.Document, error)
	Exists(id string) bool
	Create(id, name string, template *domain.Snapshot) (*collab.Document, error)
	Delete(id string) error
	List() []domain.WorkspaceSummary
	Count() int
}

// SessionCounter reports how many sessions are members of a workspace
type SessionCounter interface {
	CountIn(workspaceID string) int
}

// Broadcaster delivers events to workspace broadcast groups and tracks membership
type Broadcaster interface {
	websocket.EventPublisher
	Register(client websocket.ClientInterface, workspaceID string)
	Unregister(client websocket.ClientInterface) (string, bool)
	Move(client websocket.ClientInterface, workspaceID string) (string, bool)
}
