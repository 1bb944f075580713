package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// WorkspaceCookieName is the cookie remembering the caller's active workspace
const WorkspaceCookieName = "workspace_id"

func setCookie(c echo.Context, name, value string, maxAge time.Duration, httpOnly bool) {
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: httpOnly,
		Secure:   c.IsTLS(),
		SameSite: http.SameSiteLaxMode,
	})
}

func cookieValue(c echo.Context, name string) string {
	cookie, err := c.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}
