package service

import (
	"strings"
	"sync"

	"github.com/dafibh/collab/collab-backend/internal/domain"
	"github.com/dafibh/collab/collab-backend/internal/util"
	"github.com/dafibh/collab/collab-backend/internal/websocket"
	"github.com/rs/zerolog/log"
)

// WorkspaceService handles workspace-related business logic
type WorkspaceService struct {
	workspaceRepo  WorkspaceDirectory
	sessions       SessionCounter
	eventPublisher websocket.EventPublisher
	// mu serializes directory writes so the delete checks see a stable directory
	mu sync.Mutex
}

// NewWorkspaceService creates a new WorkspaceService
func NewWorkspaceService(workspaceRepo WorkspaceDirectory, sessions SessionCounter) *WorkspaceService {
	return &WorkspaceService{
		workspaceRepo: workspaceRepo,
		sessions:      sessions,
	}
}

// SetEventPublisher sets the WebSocket event publisher
func (s *WorkspaceService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *WorkspaceService) publishEvent(workspaceID string, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(workspaceID, event)
	}
}

// CreateWorkspaceInput holds the input for creating a workspace
type CreateWorkspaceInput struct {
	ID       string
	Name     string
	CopyFrom string
}

// List returns every workspace sorted by id
func (s *WorkspaceService) List() []domain.WorkspaceSummary {
	return s.workspaceRepo.List()
}

// ResolveActive sanitizes a requested workspace id and makes sure it exists
func (s *WorkspaceService) ResolveActive(raw string) string {
	id := util.SanitizeWorkspaceID(raw, domain.MainWorkspaceID)
	s.workspaceRepo.GetOrCreate(id)
	return id
}

// Create adds a workspace. The id defaults to the name with spaces replaced by
// dashes; CopyFrom seeds the text, segments and version from another workspace.
func (s *WorkspaceService) Create(input CreateWorkspaceInput) (domain.WorkspaceSummary, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = domain.DefaultWorkspaceName
	}

	requested := input.ID
	if requested == "" {
		requested = strings.ReplaceAll(name, " ", "-")
	}
	id := util.SanitizeWorkspaceID(requested, domain.MainWorkspaceID)

	var template *domain.Snapshot
	if input.CopyFrom != "" {
		templateID := util.SanitizeWorkspaceID(input.CopyFrom, domain.MainWorkspaceID)
		if base, err := s.workspaceRepo.GetByID(templateID); err == nil {
			snap := base.Snapshot()
			template = &snap
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.workspaceRepo.Create(id, name, template)
	if err != nil {
		return domain.WorkspaceSummary{ID: id, Name: name}, err
	}

	log.Info().
		Str("workspace_id", id).
		Str("name", name).
		Bool("copied", template != nil).
		Msg("Workspace created")

	return domain.WorkspaceSummary{ID: doc.ID(), Name: doc.Name()}, nil
}

// Update renames a workspace and/or replaces its text and segments. Content
// changes are broadcast to the workspace as a sync.
func (s *WorkspaceService) Update(rawID string, update domain.WorkspaceUpdate) (domain.WorkspaceSummary, error) {
	id := util.SanitizeWorkspaceID(rawID, domain.MainWorkspaceID)
	doc, err := s.workspaceRepo.GetByID(id)
	if err != nil {
		return domain.WorkspaceSummary{}, err
	}

	result, changed := doc.Update(update, func(result domain.SyncResult) {
		s.publishEvent(id, websocket.Sync(result, ""))
	})
	if changed {
		log.Info().
			Str("workspace_id", id).
			Int("version", result.Version).
			Msg("Workspace content replaced")
	}

	return domain.WorkspaceSummary{ID: id, Name: doc.Name()}, nil
}

// Delete removes a workspace. The checks run in order: unknown workspace,
// the main workspace, the last remaining workspace, a workspace with members.
func (s *WorkspaceService) Delete(rawID string) error {
	id := util.SanitizeWorkspaceID(rawID, domain.MainWorkspaceID)

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.workspaceRepo.Exists(id) {
		return domain.ErrWorkspaceNotFound
	}
	if id == domain.MainWorkspaceID {
		return domain.ErrRootWorkspace
	}
	if s.workspaceRepo.Count() <= 1 {
		return domain.ErrLastWorkspace
	}
	if s.sessions.CountIn(id) > 0 {
		return domain.ErrWorkspaceInUse
	}

	if err := s.workspaceRepo.Delete(id); err != nil {
		return err
	}

	log.Info().Str("workspace_id", id).Msg("Workspace deleted")
	return nil
}

// Select validates that a workspace exists so it can become the caller's active one
func (s *WorkspaceService) Select(rawID string) (domain.WorkspaceSummary, error) {
	id := util.SanitizeWorkspaceID(rawID, domain.MainWorkspaceID)
	doc, err := s.workspaceRepo.GetByID(id)
	if err != nil {
		return domain.WorkspaceSummary{}, err
	}
	return domain.WorkspaceSummary{ID: id, Name: doc.Name()}, nil
}
