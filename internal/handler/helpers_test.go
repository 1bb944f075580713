package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dafibh/collab/collab-backend/internal/collab"
	"github.com/dafibh/collab/collab-backend/internal/presence"
	"github.com/dafibh/collab/collab-backend/internal/repository/memory"
	"github.com/dafibh/collab/collab-backend/internal/service"
	"github.com/dafibh/collab/collab-backend/internal/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

const testCookieMaxAge = 60 * 24 * time.Hour

type testApp struct {
	repo             *memory.WorkspaceRepository
	registry         *presence.Registry
	hub              *websocket.Hub
	workspaceService *service.WorkspaceService
	collabService    *service.CollabService
}

func newTestApp() *testApp {
	repo := memory.NewWorkspaceRepository(collab.DefaultHistoryLimit)
	registry := presence.NewRegistry()
	hub := websocket.NewHub()
	workspaceService := service.NewWorkspaceService(repo, registry)
	workspaceService.SetEventPublisher(hub)
	return &testApp{
		repo:             repo,
		registry:         registry,
		hub:              hub,
		workspaceService: workspaceService,
		collabService:    service.NewCollabService(repo, registry, hub),
	}
}

func newJSONContext(e *echo.Echo, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}
