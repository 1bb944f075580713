package service

import (
	"github.com/dafibh/collab/collab-backend/internal/domain"
	"github.com/dafibh/collab/collab-backend/internal/presence"
	"github.com/dafibh/collab/collab-backend/internal/util"
	"github.com/dafibh/collab/collab-backend/internal/websocket"
	"github.com/rs/zerolog/log"
)

// CollabService handles the realtime session events of connected clients
type CollabService struct {
	workspaceRepo WorkspaceDirectory
	registry      *presence.Registry
	hub           Broadcaster
}

// NewCollabService creates a new CollabService
func NewCollabService(workspaceRepo WorkspaceDirectory, registry *presence.Registry, hub Broadcaster) *CollabService {
	return &CollabService{
		workspaceRepo: workspaceRepo,
		registry:      registry,
		hub:           hub,
	}
}

// Ensure CollabService implements websocket.MessageHandler
var _ websocket.MessageHandler = (*CollabService)(nil)

// Connect joins client to workspaceID and sends it the init snapshot. The
// snapshot and the broadcast group membership are taken atomically against
// commits, so the client neither misses nor repeats a sync.
func (s *CollabService) Connect(client websocket.ClientInterface, workspaceID string) domain.Session {
	doc := s.workspaceRepo.GetOrCreate(workspaceID)
	workspaces := s.workspaceRepo.List()

	var session domain.Session
	doc.Observe(func(snap domain.Snapshot) {
		session = s.registry.Connect(client.ID(), snap.ID)
		s.hub.Register(client, snap.ID)
		s.hub.PublishTo(client.ID(), websocket.Init(websocket.InitPayload{
			ID:         session.ID,
			Text:       snap.Text,
			Color:      session.Color,
			Segments:   snap.Segments,
			Name:       session.Name,
			Users:      s.registry.Members(snap.ID),
			Workspaces: workspaces,
			Workspace:  snap.Info(),
			Version:    snap.Version,
		}))
	})

	s.broadcastPresence(session.WorkspaceID)

	log.Info().
		Str("session_id", session.ID).
		Str("workspace_id", session.WorkspaceID).
		Str("color", session.Color).
		Msg("Session connected")

	return session
}

// HandleMessage dispatches one inbound frame. Unknown types and undecodable
// payloads are dropped.
func (s *CollabService) HandleMessage(client websocket.ClientInterface, msg websocket.InboundMessage) {
	var err error
	switch msg.Type {
	case websocket.EventTypeEdit:
		var p domain.EditProposal
		if err = msg.Decode(&p); err == nil {
			s.Edit(client.ID(), p)
		}
	case websocket.EventTypeCursor:
		var m websocket.CursorMessage
		if err = msg.Decode(&m); err == nil && m.Pos.Valid {
			s.MoveCursor(client.ID(), m.Pos.Value)
		}
	case websocket.EventTypeSetName:
		var m websocket.SetNameMessage
		if err = msg.Decode(&m); err == nil {
			s.Rename(client.ID(), m.Name.Value)
		}
	case websocket.EventTypeSwitchWorkspace:
		var m websocket.SwitchWorkspaceMessage
		if err = msg.Decode(&m); err == nil {
			s.SwitchWorkspace(client, m.Workspace.Value)
		}
	default:
		log.Debug().
			Str("session_id", client.ID()).
			Str("event_type", string(msg.Type)).
			Msg("Ignoring unknown message type")
		return
	}

	if err != nil {
		log.Debug().
			Err(err).
			Str("session_id", client.ID()).
			Str("event_type", string(msg.Type)).
			Msg("Dropping undecodable payload")
	}
}

// Edit reconciles a proposal from sessionID and broadcasts the committed
// state to the whole workspace. Unknown sessions are ignored.
func (s *CollabService) Edit(sessionID string, p domain.EditProposal) (domain.SyncResult, bool) {
	session, ok := s.registry.Get(sessionID)
	if !ok {
		return domain.SyncResult{}, false
	}

	doc := s.workspaceRepo.GetOrCreate(session.WorkspaceID)
	result := doc.Reconcile(p, session.Color, func(result domain.SyncResult) {
		s.hub.Publish(result.WorkspaceID, websocket.Sync(result, sessionID))
	})

	log.Debug().
		Str("session_id", sessionID).
		Str("workspace_id", result.WorkspaceID).
		Int("version", result.Version).
		Int("start", result.Change.Start).
		Int("old_end", result.Change.OldEnd).
		Int("new_end", result.Change.NewEnd).
		Msg("Edit committed")

	return result, true
}

// MoveCursor records the caret of sessionID and relays it to its peers
func (s *CollabService) MoveCursor(sessionID string, pos int) {
	session, ok := s.registry.MoveCursor(sessionID, pos)
	if !ok {
		return
	}
	s.hub.Publish(session.WorkspaceID, websocket.Cursor(session), sessionID)
}

// Rename sets the display name of sessionID and refreshes its workspace's presence
func (s *CollabService) Rename(sessionID, name string) {
	session, ok := s.registry.Rename(sessionID, name)
	if !ok {
		return
	}
	s.broadcastPresence(session.WorkspaceID)
}

// SwitchWorkspace moves the client to another workspace and sends it the
// target's snapshot. Switching to the current workspace only resends it.
func (s *CollabService) SwitchWorkspace(client websocket.ClientInterface, rawTarget string) {
	session, ok := s.registry.Get(client.ID())
	if !ok {
		return
	}

	target := util.SanitizeWorkspaceID(rawTarget, domain.MainWorkspaceID)
	doc := s.workspaceRepo.GetOrCreate(target)
	workspaces := s.workspaceRepo.List()

	if target == session.WorkspaceID {
		snap := doc.Snapshot()
		s.hub.PublishTo(client.ID(), s.switched(snap, workspaces))
		return
	}

	var previous string
	doc.Observe(func(snap domain.Snapshot) {
		s.hub.Move(client, target)
		previous, _, _ = s.registry.Switch(client.ID(), target)
		s.hub.PublishTo(client.ID(), s.switched(snap, workspaces))
	})

	s.broadcastPresence(previous)
	s.broadcastPresence(target)

	log.Info().
		Str("session_id", client.ID()).
		Str("from_workspace", previous).
		Str("workspace_id", target).
		Msg("Session switched workspace")
}

func (s *CollabService) switched(snap domain.Snapshot, workspaces []domain.WorkspaceSummary) websocket.Event {
	return websocket.WorkspaceSwitched(websocket.WorkspaceSwitchedPayload{
		Workspace:  snap.Info(),
		Text:       snap.Text,
		Segments:   snap.Segments,
		Users:      s.registry.Members(snap.ID),
		Workspaces: workspaces,
		Version:    snap.Version,
	})
}

// HandleDisconnect removes the client's session and tells its former peers
func (s *CollabService) HandleDisconnect(client websocket.ClientInterface) {
	s.hub.Unregister(client)
	session, ok := s.registry.Disconnect(client.ID())
	if !ok {
		return
	}

	s.hub.Publish(session.WorkspaceID, websocket.Bye(session.ID))
	s.broadcastPresence(session.WorkspaceID)

	log.Info().
		Str("session_id", session.ID).
		Str("workspace_id", session.WorkspaceID).
		Msg("Session disconnected")
}

func (s *CollabService) broadcastPresence(workspaceID string) {
	s.hub.Publish(workspaceID, websocket.Presence(s.registry.Members(workspaceID)))
}
