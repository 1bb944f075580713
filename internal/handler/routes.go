package handler

import (
	"github.com/dafibh/collab/collab-backend/internal/middleware"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, guard *middleware.AccessGuard, activationLimiter *middleware.RateLimiter, accessHandler *AccessHandler, workspaceHandler *WorkspaceHandler, wsHandler *WebSocketHandler) {
	api := e.Group("/api")

	// Access routes (public)
	api.POST("/activate", accessHandler.Activate, middleware.RateLimitMiddleware(activationLimiter))
	api.GET("/access", accessHandler.Status)

	// Workspace routes (protected)
	workspaces := api.Group("/workspaces")
	workspaces.Use(guard.RequireAccess())
	workspaces.GET("", workspaceHandler.ListWorkspaces)
	workspaces.POST("", workspaceHandler.CreateWorkspace)
	workspaces.POST("/select", workspaceHandler.SelectWorkspace)
	workspaces.PUT("/:id", workspaceHandler.UpdateWorkspace)
	workspaces.DELETE("/:id", workspaceHandler.DeleteWorkspace)

	// Realtime route (protected)
	e.GET("/ws", wsHandler.HandleWS, guard.RequireAccess())

	// API documentation
	api.GET("/openapi.json", ServeOpenAPI3Spec)
	e.GET("/swagger/*", echoSwagger.WrapHandler)
}
