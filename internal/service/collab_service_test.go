package service

import (
	"encoding/json"
	"testing"

	"github.com/dafibh/collab/collab-backend/internal/collab"
	"github.com/dafibh/collab/collab-backend/internal/domain"
	"github.com/dafibh/collab/collab-backend/internal/presence"
	"github.com/dafibh/collab/collab-backend/internal/repository/memory"
	"github.com/dafibh/collab/collab-backend/internal/testutil"
	"github.com/dafibh/collab/collab-backend/internal/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type collabFixture struct {
	svc      *CollabService
	repo     *memory.WorkspaceRepository
	registry *presence.Registry
	hub      *websocket.Hub
}

func newCollabFixture() *collabFixture {
	repo := memory.NewWorkspaceRepository(collab.DefaultHistoryLimit)
	registry := presence.NewRegistry()
	hub := websocket.NewHub()
	return &collabFixture{
		svc:      NewCollabService(repo, registry, hub),
		repo:     repo,
		registry: registry,
		hub:      hub,
	}
}

func (f *collabFixture) connect(id, workspaceID string) *testutil.MockClient {
	client := testutil.NewMockClient(id)
	f.svc.Connect(client, workspaceID)
	return client
}

func inbound(t *testing.T, eventType websocket.EventType, payload interface{}) websocket.InboundMessage {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	return websocket.InboundMessage{Type: eventType, Payload: data}
}

func TestCollabService_Connect_SendsInitThenPresence(t *testing.T) {
	f := newCollabFixture()

	client := f.connect("a", "main")

	assert.Equal(t, []websocket.EventType{websocket.EventTypeInit, websocket.EventTypePresence}, client.Types())

	frame, ok := client.Last(websocket.EventTypeInit)
	require.True(t, ok)
	var init websocket.InitPayload
	require.NoError(t, frame.Decode(&init))
	assert.Equal(t, "a", init.ID)
	assert.Equal(t, presence.Palette[0], init.Color)
	assert.Equal(t, "Guest 1", init.Name)
	assert.Equal(t, domain.DefaultText, init.Text)
	assert.Equal(t, domain.WorkspaceInfo{ID: "main", Name: domain.MainWorkspaceName, Version: 0}, init.Workspace)
	assert.Equal(t, []domain.Presence{{ID: "a", Name: "Guest 1", Color: presence.Palette[0]}}, init.Users)
	assert.Equal(t, []domain.WorkspaceSummary{{ID: "main", Name: domain.MainWorkspaceName}}, init.Workspaces)
}

func TestCollabService_Connect_CreatesWorkspaceLazily(t *testing.T) {
	f := newCollabFixture()

	f.connect("a", "scratch")

	assert.True(t, f.repo.Exists("scratch"))
	assert.Equal(t, 1, f.hub.ClientCount("scratch"))
	assert.Equal(t, 1, f.registry.CountIn("scratch"))
}

func TestCollabService_Connect_NotifiesPeers(t *testing.T) {
	f := newCollabFixture()
	a := f.connect("a", "main")
	a.Reset()

	f.connect("b", "main")

	frame, ok := a.Last(websocket.EventTypePresence)
	require.True(t, ok)
	var p websocket.PresencePayload
	require.NoError(t, frame.Decode(&p))
	require.Len(t, p.Users, 2)
	assert.Equal(t, "a", p.Users[0].ID)
	assert.Equal(t, "b", p.Users[1].ID)
	assert.NotEqual(t, p.Users[0].Color, p.Users[1].Color)
}

func TestCollabService_Edit_BroadcastsSyncToEveryMember(t *testing.T) {
	f := newCollabFixture()
	a := f.connect("a", "main")
	b := f.connect("b", "main")
	other := f.connect("c", "elsewhere")

	f.svc.HandleMessage(a, inbound(t, websocket.EventTypeEdit, map[string]interface{}{
		"delta":   "Hi ",
		"range":   map[string]interface{}{"start": 0, "old_end": 0},
		"version": 0,
	}))

	for _, client := range []*testutil.MockClient{a, b} {
		frame, ok := client.Last(websocket.EventTypeSync)
		require.True(t, ok, "client %s receives the sync", client.ID())
		var sync websocket.SyncPayload
		require.NoError(t, frame.Decode(&sync))
		assert.Equal(t, "Hi "+domain.DefaultText, sync.Text)
		assert.Equal(t, "a", sync.From)
		assert.Equal(t, 1, sync.Version)
		assert.Equal(t, domain.ChangeSpan{Start: 0, OldEnd: 0, NewEnd: 3}, sync.Change)
		assert.Equal(t, []domain.Segment{{Start: 0, End: 3, Color: presence.Palette[0]}}, sync.Segments)
	}
	assert.Empty(t, other.FramesOf(websocket.EventTypeSync))
}

func TestCollabService_Edit_RebasesStaleProposal(t *testing.T) {
	f := newCollabFixture()
	_, err := f.repo.Create("doc", "Doc", &domain.Snapshot{Text: "abcdef", Version: 1})
	require.NoError(t, err)
	f.connect("a", "doc")
	b := f.connect("b", "doc")

	_, ok := f.svc.Edit("a", domain.EditProposal{
		Delta:   domain.NewOptionalString("XY"),
		Range:   domain.EditRange{Start: domain.NewOptionalInt(1), OldEnd: domain.NewOptionalInt(2)},
		Version: domain.NewOptionalInt(1),
	})
	require.True(t, ok)

	result, ok := f.svc.Edit("b", domain.EditProposal{
		Delta:   domain.NewOptionalString("Z"),
		Range:   domain.EditRange{Start: domain.NewOptionalInt(3), OldEnd: domain.NewOptionalInt(4)},
		Version: domain.NewOptionalInt(1),
	})
	require.True(t, ok)

	assert.Equal(t, "aXYcZef", result.Text)
	assert.Equal(t, 3, result.Version)

	syncs := b.FramesOf(websocket.EventTypeSync)
	require.Len(t, syncs, 2)
	var last websocket.SyncPayload
	require.NoError(t, syncs[1].Decode(&last))
	assert.Equal(t, "b", last.From)
	assert.Equal(t, 3, last.Version)
}

func TestCollabService_Edit_UnknownSessionIgnored(t *testing.T) {
	f := newCollabFixture()
	a := f.connect("a", "main")
	a.Reset()

	_, ok := f.svc.Edit("ghost", domain.EditProposal{Delta: domain.NewOptionalString("x")})

	assert.False(t, ok)
	assert.Empty(t, a.Frames())
	doc, _ := f.repo.GetByID("main")
	assert.Equal(t, 0, doc.Version())
}

func TestCollabService_Cursor_ExcludesSender(t *testing.T) {
	f := newCollabFixture()
	a := f.connect("a", "main")
	b := f.connect("b", "main")

	f.svc.HandleMessage(a, inbound(t, websocket.EventTypeCursor, map[string]interface{}{"pos": 5}))

	assert.Empty(t, a.FramesOf(websocket.EventTypeCursor))
	frame, ok := b.Last(websocket.EventTypeCursor)
	require.True(t, ok)
	var cur websocket.CursorPayload
	require.NoError(t, frame.Decode(&cur))
	assert.Equal(t, websocket.CursorPayload{ID: "a", Pos: 5, Color: presence.Palette[0], Name: "Guest 1"}, cur)
}

func TestCollabService_Cursor_MissingPosIgnored(t *testing.T) {
	f := newCollabFixture()
	a := f.connect("a", "main")
	b := f.connect("b", "main")

	f.svc.HandleMessage(a, inbound(t, websocket.EventTypeCursor, map[string]interface{}{"pos": "far"}))

	assert.Empty(t, b.FramesOf(websocket.EventTypeCursor))
}

func TestCollabService_SetName_BroadcastsPresence(t *testing.T) {
	f := newCollabFixture()
	a := f.connect("a", "main")
	a.Reset()

	f.svc.HandleMessage(a, inbound(t, websocket.EventTypeSetName, map[string]interface{}{"name": "  Ada   Lovelace "}))

	frame, ok := a.Last(websocket.EventTypePresence)
	require.True(t, ok)
	var p websocket.PresencePayload
	require.NoError(t, frame.Decode(&p))
	require.Len(t, p.Users, 1)
	assert.Equal(t, "Ada Lovelace", p.Users[0].Name)
}

func TestCollabService_SwitchWorkspace(t *testing.T) {
	f := newCollabFixture()
	a := f.connect("a", "main")
	stay := f.connect("b", "main")
	_, err := f.repo.Create("notes", "Notes", &domain.Snapshot{Text: "notes text", Version: 4})
	require.NoError(t, err)
	a.Reset()
	stay.Reset()

	f.svc.HandleMessage(a, inbound(t, websocket.EventTypeSwitchWorkspace, map[string]interface{}{"workspace": "Notes"}))

	frame, ok := a.Last(websocket.EventTypeWorkspaceSwitched)
	require.True(t, ok)
	var switched websocket.WorkspaceSwitchedPayload
	require.NoError(t, frame.Decode(&switched))
	assert.Equal(t, domain.WorkspaceInfo{ID: "notes", Name: "Notes", Version: 4}, switched.Workspace)
	assert.Equal(t, "notes text", switched.Text)
	assert.Equal(t, 4, switched.Version)
	require.Len(t, switched.Users, 1)
	assert.Equal(t, "a", switched.Users[0].ID)

	workspaceID, _ := f.hub.WorkspaceOf("a")
	assert.Equal(t, "notes", workspaceID)
	session, _ := f.registry.Get("a")
	assert.Equal(t, "notes", session.WorkspaceID)

	// The workspace left behind sees the session go
	left, ok := stay.Last(websocket.EventTypePresence)
	require.True(t, ok)
	var p websocket.PresencePayload
	require.NoError(t, left.Decode(&p))
	assert.Equal(t, []domain.Presence{{ID: "b", Name: "Guest 2", Color: presence.Palette[1]}}, p.Users)

	// Later edits in main no longer reach the switched session
	a.Reset()
	f.svc.Edit("b", domain.EditProposal{Delta: domain.NewOptionalString("x"), Range: domain.EditRange{Start: domain.NewOptionalInt(0)}})
	assert.Empty(t, a.FramesOf(websocket.EventTypeSync))
}

func TestCollabService_SwitchWorkspace_SameWorkspaceResendsSnapshot(t *testing.T) {
	f := newCollabFixture()
	a := f.connect("a", "main")
	b := f.connect("b", "main")
	b.Reset()

	f.svc.SwitchWorkspace(a, "main")

	frame, ok := a.Last(websocket.EventTypeWorkspaceSwitched)
	require.True(t, ok)
	var switched websocket.WorkspaceSwitchedPayload
	require.NoError(t, frame.Decode(&switched))
	assert.Equal(t, "main", switched.Workspace.ID)
	assert.Equal(t, domain.DefaultText, switched.Text)
	assert.Empty(t, b.Frames(), "membership is unchanged")
}

func TestCollabService_HandleDisconnect(t *testing.T) {
	f := newCollabFixture()
	a := f.connect("a", "main")
	b := f.connect("b", "main")
	b.Reset()

	f.svc.HandleDisconnect(a)

	assert.Equal(t, []websocket.EventType{websocket.EventTypeBye, websocket.EventTypePresence}, b.Types())
	frame, _ := b.Last(websocket.EventTypeBye)
	var bye websocket.ByePayload
	require.NoError(t, frame.Decode(&bye))
	assert.Equal(t, "a", bye.ID)

	assert.Equal(t, 1, f.registry.CountIn("main"))
	assert.Equal(t, 1, f.hub.ClientCount("main"))

	// A second disconnect is a no-op
	b.Reset()
	f.svc.HandleDisconnect(a)
	assert.Empty(t, b.Frames())
}

func TestCollabService_UnknownMessageIgnored(t *testing.T) {
	f := newCollabFixture()
	a := f.connect("a", "main")
	a.Reset()

	f.svc.HandleMessage(a, websocket.InboundMessage{Type: "shout", Payload: json.RawMessage(`{}`)})
	f.svc.HandleMessage(a, websocket.InboundMessage{Type: websocket.EventTypeEdit, Payload: json.RawMessage(`[1,2]`)})

	assert.Empty(t, a.Frames())
}
