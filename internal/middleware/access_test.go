package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessGuard_Valid(t *testing.T) {
	guard := NewAccessGuard([]string{"alpha", " beta ", ""})

	tests := []struct {
		code     string
		expected bool
	}{
		{"alpha", true},
		{"beta", true},
		{" alpha ", true},
		{"gamma", false},
		{"", false},
		{"   ", false},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, guard.Valid(tt.code))
		})
	}
}

func TestRequireAccess(t *testing.T) {
	e := echo.New()
	guard := NewAccessGuard([]string{"alpha"})
	handler := func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	}

	tests := []struct {
		name       string
		cookie     *http.Cookie
		wantStatus int
	}{
		{"no cookie", nil, http.StatusForbidden},
		{"wrong code", &http.Cookie{Name: ActivationCookieName, Value: "nope"}, http.StatusForbidden},
		{"valid code", &http.Cookie{Name: ActivationCookieName, Value: "alpha"}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/workspaces", nil)
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			err := guard.RequireAccess()(handler)(c)

			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusForbidden {
				var problem problemDetails
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
				assert.Equal(t, errorTypeForbidden, problem.Type)
				assert.Equal(t, "/api/workspaces", problem.Instance)
			}
		})
	}
}
