package main

import (
	"context"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/dafibh/collab/collab-backend/docs"
	"github.com/dafibh/collab/collab-backend/internal/config"
	"github.com/dafibh/collab/collab-backend/internal/handler"
	"github.com/dafibh/collab/collab-backend/internal/middleware"
	"github.com/dafibh/collab/collab-backend/internal/presence"
	"github.com/dafibh/collab/collab-backend/internal/repository/memory"
	"github.com/dafibh/collab/collab-backend/internal/service"
	"github.com/dafibh/collab/collab-backend/internal/websocket"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// @title Collab API
// @version 1.0
// @description Workspace directory and access API of the collaborative editor. Realtime editing runs over the /ws websocket.
// @host localhost:8080
// @BasePath /api
func main() {
	// Initialize zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Mirror logs into a rotating file when configured
	if cfg.Log.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   cfg.Log.File,
			MaxSize:    cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
			MaxAge:     cfg.Log.MaxAgeDays,
			Compress:   true,
		}
		defer rotator.Close()
		log.Logger = log.Output(zerolog.MultiLevelWriter(consoleWriter(cfg), rotator))
	}

	// Initialize in-memory state
	workspaceRepo := memory.NewWorkspaceRepository(cfg.HistoryLimit)
	registry := presence.NewRegistry()
	hub := websocket.NewHub()

	// Initialize services
	workspaceService := service.NewWorkspaceService(workspaceRepo, registry)
	workspaceService.SetEventPublisher(hub)
	collabService := service.NewCollabService(workspaceRepo, registry, hub)

	// Initialize access control
	guard := middleware.NewAccessGuard(cfg.ActivationCodes)
	activationLimiter := middleware.NewRateLimiterWithConfig(cfg.ActivationAttemptsPerMinute, cfg.ActivationAttemptsPerMinute)
	defer activationLimiter.Stop()

	// Initialize handlers
	accessHandler := handler.NewAccessHandler(guard, cfg.CookieMaxAge)
	workspaceHandler := handler.NewWorkspaceHandler(workspaceService, cfg.CookieMaxAge)
	wsHandler := handler.NewWebSocketHandler(collabService, workspaceService, websocket.ClientOptions{
		MaxMessageBytes:   cfg.WebSocket.MaxMessageBytes,
		MessagesPerSecond: cfg.WebSocket.MessagesPerSecond,
		MessageBurst:      cfg.WebSocket.MessageBurst,
	}, cfg.CORSOrigins)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Request ID middleware
	e.Use(echomiddleware.RequestID())

	// CORS middleware
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Security headers middleware (helmet-like)
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
		HSTSMaxAge:         31536000,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	}))

	// Request logging middleware with zerolog
	e.Use(zerologMiddleware())

	// Recovery middleware
	e.Use(echomiddleware.Recover())

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"status":     "ok",
			"workspaces": workspaceRepo.Count(),
			"sessions":   registry.Len(),
		})
	})

	// Register API routes
	handler.RegisterRoutes(e, guard, activationLimiter, accessHandler, workspaceHandler, wsHandler)

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// consoleWriter returns the stderr writer, human readable outside production
func consoleWriter(cfg *config.Config) io.Writer {
	if cfg.IsProduction() {
		return os.Stderr
	}
	return zerolog.ConsoleWriter{Out: os.Stderr}
}

// zerologMiddleware returns a middleware that logs requests using zerolog
func zerologMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			log.Info().
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Dur("latency", time.Since(start)).
				Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
				Msg("request")

			return nil
		}
	}
}
