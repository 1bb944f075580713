package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/dafibh/collab/collab-backend/internal/middleware"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// AccessHandler handles activation-code HTTP requests
type AccessHandler struct {
	guard        *middleware.AccessGuard
	cookieMaxAge time.Duration
}

// NewAccessHandler creates a new AccessHandler
func NewAccessHandler(guard *middleware.AccessGuard, cookieMaxAge time.Duration) *AccessHandler {
	return &AccessHandler{
		guard:        guard,
		cookieMaxAge: cookieMaxAge,
	}
}

// ActivateRequest represents the activation request body
type ActivateRequest struct {
	Code string `json:"code" form:"code" validate:"max=128"`
}

// AccessResponse reports whether the caller holds a valid activation
type AccessResponse struct {
	Active bool `json:"active"`
}

// Activate godoc
// @Summary Activate access
// @Description Exchange an activation code for an access cookie
// @Tags access
// @Accept json
// @Produce json
// @Param request body ActivateRequest true "Activation code"
// @Success 200 {object} AccessResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Failure 429 {object} ProblemDetails
// @Router /activate [post]
func (h *AccessHandler) Activate(c echo.Context) error {
	var req ActivateRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	if err := validate.Struct(req); err != nil {
		return NewValidationError(c, "Invalid activation request", validationErrors(err))
	}

	code := strings.TrimSpace(req.Code)
	if !h.guard.Valid(code) {
		log.Info().Str("remote_ip", c.RealIP()).Msg("Rejected activation code")
		return NewUnauthorizedError(c, "Invalid activation code. Please try again.")
	}

	setCookie(c, middleware.ActivationCookieName, code, h.cookieMaxAge, true)

	log.Info().Str("remote_ip", c.RealIP()).Msg("Access activated")
	return c.JSON(http.StatusOK, AccessResponse{Active: true})
}

// Status godoc
// @Summary Get access status
// @Description Report whether the request carries a valid activation cookie
// @Tags access
// @Produce json
// @Success 200 {object} AccessResponse
// @Router /access [get]
func (h *AccessHandler) Status(c echo.Context) error {
	return c.JSON(http.StatusOK, AccessResponse{Active: h.guard.HasAccess(c)})
}
