package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/dafibh/collab/collab-backend/internal/domain"
	"github.com/dafibh/collab/collab-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// WorkspaceHandler handles workspace-related HTTP requests
type WorkspaceHandler struct {
	workspaceService *service.WorkspaceService
	cookieMaxAge     time.Duration
}

// NewWorkspaceHandler creates a new WorkspaceHandler
func NewWorkspaceHandler(workspaceService *service.WorkspaceService, cookieMaxAge time.Duration) *WorkspaceHandler {
	return &WorkspaceHandler{
		workspaceService: workspaceService,
		cookieMaxAge:     cookieMaxAge,
	}
}

// CreateWorkspaceRequest represents the create workspace request body
type CreateWorkspaceRequest struct {
	ID       string `json:"id" validate:"max=64"`
	Name     string `json:"name" validate:"max=100"`
	CopyFrom string `json:"copy_from" validate:"max=64"`
}

// UpdateWorkspaceRequest documents the update body. Fields of the wrong
// type are ignored rather than rejected.
type UpdateWorkspaceRequest struct {
	Name     *string          `json:"name,omitempty"`
	Text     *string          `json:"text,omitempty"`
	Segments []domain.Segment `json:"segments,omitempty"`
}

// SelectWorkspaceRequest represents the select workspace request body
type SelectWorkspaceRequest struct {
	Workspace string `json:"workspace" validate:"max=64"`
}

// WorkspaceListResponse lists workspaces and the caller's active one
type WorkspaceListResponse struct {
	Workspaces []domain.WorkspaceSummary `json:"workspaces"`
	Active     string                    `json:"active"`
}

// WorkspaceResponse wraps one workspace and the refreshed listing
type WorkspaceResponse struct {
	Workspace  domain.WorkspaceSummary   `json:"workspace"`
	Workspaces []domain.WorkspaceSummary `json:"workspaces,omitempty"`
}

// WorkspacesResponse wraps the workspace listing
type WorkspacesResponse struct {
	Workspaces []domain.WorkspaceSummary `json:"workspaces"`
}

// ListWorkspaces godoc
// @Summary List workspaces
// @Description List every workspace and the caller's active one
// @Tags workspaces
// @Produce json
// @Success 200 {object} WorkspaceListResponse
// @Failure 403 {object} ProblemDetails
// @Router /workspaces [get]
func (h *WorkspaceHandler) ListWorkspaces(c echo.Context) error {
	active := h.workspaceService.ResolveActive(cookieValue(c, WorkspaceCookieName))
	return c.JSON(http.StatusOK, WorkspaceListResponse{
		Workspaces: h.workspaceService.List(),
		Active:     active,
	})
}

// CreateWorkspace godoc
// @Summary Create a workspace
// @Description Create a workspace, optionally copying another workspace's content
// @Tags workspaces
// @Accept json
// @Produce json
// @Param request body CreateWorkspaceRequest true "Workspace creation request"
// @Success 201 {object} WorkspaceResponse
// @Failure 400 {object} ProblemDetails
// @Failure 403 {object} ProblemDetails
// @Failure 409 {object} ProblemDetails
// @Router /workspaces [post]
func (h *WorkspaceHandler) CreateWorkspace(c echo.Context) error {
	var req CreateWorkspaceRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	if err := validate.Struct(req); err != nil {
		return NewValidationError(c, "Invalid workspace request", validationErrors(err))
	}

	workspace, err := h.workspaceService.Create(service.CreateWorkspaceInput{
		ID:       req.ID,
		Name:     req.Name,
		CopyFrom: req.CopyFrom,
	})
	if err != nil {
		if errors.Is(err, domain.ErrWorkspaceExists) {
			return NewConflictError(c, "Workspace already exists.")
		}
		log.Error().Err(err).Str("workspace_id", workspace.ID).Msg("Failed to create workspace")
		return NewInternalError(c, "Failed to create workspace")
	}

	return c.JSON(http.StatusCreated, WorkspaceResponse{
		Workspace:  workspace,
		Workspaces: h.workspaceService.List(),
	})
}

// UpdateWorkspace godoc
// @Summary Update a workspace
// @Description Rename a workspace or replace its text and segments
// @Tags workspaces
// @Accept json
// @Produce json
// @Param id path string true "Workspace ID"
// @Param request body UpdateWorkspaceRequest true "Workspace update request"
// @Success 200 {object} WorkspaceResponse
// @Failure 403 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /workspaces/{id} [put]
func (h *WorkspaceHandler) UpdateWorkspace(c echo.Context) error {
	workspace, err := h.workspaceService.Update(c.Param("id"), decodeWorkspaceUpdate(c))
	if err != nil {
		if errors.Is(err, domain.ErrWorkspaceNotFound) {
			return NewNotFoundError(c, "Workspace not found")
		}
		log.Error().Err(err).Str("workspace_id", c.Param("id")).Msg("Failed to update workspace")
		return NewInternalError(c, "Failed to update workspace")
	}

	return c.JSON(http.StatusOK, WorkspaceResponse{
		Workspace:  workspace,
		Workspaces: h.workspaceService.List(),
	})
}

// decodeWorkspaceUpdate reads the update body field by field so a value of
// the wrong type drops only that field. A body that is not a JSON object
// updates nothing.
func decodeWorkspaceUpdate(c echo.Context) domain.WorkspaceUpdate {
	var update domain.WorkspaceUpdate

	var fields map[string]json.RawMessage
	if err := json.NewDecoder(c.Request().Body).Decode(&fields); err != nil {
		return update
	}

	if raw, ok := fields["name"]; ok {
		var name string
		if json.Unmarshal(raw, &name) == nil {
			update.Name = &name
		}
	}
	if raw, ok := fields["text"]; ok {
		var text *string
		if json.Unmarshal(raw, &text) == nil && text != nil {
			update.Text = text
		}
	}
	if raw, ok := fields["segments"]; ok {
		var segments []domain.Segment
		if json.Unmarshal(raw, &segments) == nil && segments != nil {
			update.Segments = segments
			update.SegmentsSet = true
		}
	}
	return update
}

// DeleteWorkspace godoc
// @Summary Delete a workspace
// @Description Delete an idle workspace other than main
// @Tags workspaces
// @Produce json
// @Param id path string true "Workspace ID"
// @Success 200 {object} WorkspacesResponse
// @Failure 400 {object} ProblemDetails
// @Failure 403 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Failure 409 {object} ProblemDetails
// @Router /workspaces/{id} [delete]
func (h *WorkspaceHandler) DeleteWorkspace(c echo.Context) error {
	err := h.workspaceService.Delete(c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrWorkspaceNotFound):
			return NewNotFoundError(c, "Workspace not found")
		case errors.Is(err, domain.ErrRootWorkspace):
			return NewBadRequestError(c, "The primary workspace cannot be removed.")
		case errors.Is(err, domain.ErrLastWorkspace):
			return NewBadRequestError(c, "At least one workspace must exist.")
		case errors.Is(err, domain.ErrWorkspaceInUse):
			return NewConflictError(c, "Workspace is currently in use by collaborators.")
		}
		log.Error().Err(err).Str("workspace_id", c.Param("id")).Msg("Failed to delete workspace")
		return NewInternalError(c, "Failed to delete workspace")
	}

	return c.JSON(http.StatusOK, WorkspacesResponse{Workspaces: h.workspaceService.List()})
}

// SelectWorkspace godoc
// @Summary Select the active workspace
// @Description Remember a workspace as the caller's active one
// @Tags workspaces
// @Accept json
// @Produce json
// @Param request body SelectWorkspaceRequest true "Workspace selection"
// @Success 200 {object} WorkspaceResponse
// @Failure 400 {object} ProblemDetails
// @Failure 403 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /workspaces/select [post]
func (h *WorkspaceHandler) SelectWorkspace(c echo.Context) error {
	var req SelectWorkspaceRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	if err := validate.Struct(req); err != nil {
		return NewValidationError(c, "Invalid workspace selection", validationErrors(err))
	}

	workspace, err := h.workspaceService.Select(req.Workspace)
	if err != nil {
		if errors.Is(err, domain.ErrWorkspaceNotFound) {
			return NewNotFoundError(c, "Workspace not found")
		}
		return NewInternalError(c, "Failed to select workspace")
	}

	setCookie(c, WorkspaceCookieName, workspace.ID, h.cookieMaxAge, false)
	return c.JSON(http.StatusOK, WorkspaceResponse{Workspace: workspace})
}
