package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// ActivationCookieName is the cookie carrying a granted activation code
const ActivationCookieName = "activation_code"

// AccessGuard checks activation codes against the configured set
type AccessGuard struct {
	codes map[string]struct{}
}

// NewAccessGuard creates an AccessGuard accepting codes. Blank codes are ignored.
func NewAccessGuard(codes []string) *AccessGuard {
	g := &AccessGuard{codes: make(map[string]struct{}, len(codes))}
	for _, code := range codes {
		if code = strings.TrimSpace(code); code != "" {
			g.codes[code] = struct{}{}
		}
	}
	return g
}

// Valid reports whether code grants access
func (g *AccessGuard) Valid(code string) bool {
	code = strings.TrimSpace(code)
	if code == "" {
		return false
	}
	_, ok := g.codes[code]
	return ok
}

// HasAccess reports whether the request carries a valid activation cookie
func (g *AccessGuard) HasAccess(c echo.Context) bool {
	cookie, err := c.Cookie(ActivationCookieName)
	if err != nil {
		return false
	}
	return g.Valid(cookie.Value)
}

// RequireAccess returns middleware rejecting requests without a valid activation cookie
func (g *AccessGuard) RequireAccess() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !g.HasAccess(c) {
				log.Debug().
					Str("path", c.Request().URL.Path).
					Str("remote_ip", c.RealIP()).
					Msg("Request without activation")
				return forbiddenError(c, "A valid activation code is required")
			}
			return next(c)
		}
	}
}
