package handler

import (
	"net/http"

	"github.com/dafibh/collab/collab-backend/internal/service"
	"github.com/dafibh/collab/collab-backend/internal/websocket"
	ws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// WebSocketHandler handles WebSocket connections
type WebSocketHandler struct {
	collabService    *service.CollabService
	workspaceService *service.WorkspaceService
	clientOptions    websocket.ClientOptions
	allowedOrigins   map[string]bool
	upgrader         ws.Upgrader
}

// NewWebSocketHandler creates a new WebSocketHandler
func NewWebSocketHandler(collabService *service.CollabService, workspaceService *service.WorkspaceService, clientOptions websocket.ClientOptions, allowedOrigins []string) *WebSocketHandler {
	// Build origin lookup map
	originMap := make(map[string]bool)
	for _, origin := range allowedOrigins {
		originMap[origin] = true
	}

	h := &WebSocketHandler{
		collabService:    collabService,
		workspaceService: workspaceService,
		clientOptions:    clientOptions,
		allowedOrigins:   originMap,
	}

	h.upgrader = ws.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}

	return h
}

// checkOrigin validates the request origin against allowed origins
func (h *WebSocketHandler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		// Allow requests with no Origin header (e.g., same-origin or non-browser clients)
		return true
	}

	if h.allowedOrigins[origin] {
		return true
	}

	log.Warn().
		Str("origin", origin).
		Msg("WebSocket connection rejected: origin not allowed")
	return false
}

// HandleWS handles WebSocket connection requests at GET /ws. The workspace
// comes from the workspace cookie, falling back to the workspace query parameter.
func (h *WebSocketHandler) HandleWS(c echo.Context) error {
	raw := cookieValue(c, WorkspaceCookieName)
	if raw == "" {
		raw = c.QueryParam("workspace")
	}
	workspaceID := h.workspaceService.ResolveActive(raw)

	// Upgrade HTTP connection to WebSocket
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Error().Err(err).Msg("WebSocket upgrade failed")
		return err
	}

	// Create client and join the workspace before any frame is read
	client := websocket.NewClient(conn, h.collabService, h.clientOptions)
	h.collabService.Connect(client, workspaceID)

	log.Info().
		Str("workspace_id", workspaceID).
		Str("client_id", client.ID()).
		Msg("WebSocket client connected")

	// Start read/write pumps in goroutines
	go client.WritePump()
	go client.ReadPump()

	return nil
}
