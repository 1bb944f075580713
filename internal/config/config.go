package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server
	Port        string
	CORSOrigins []string
	Env         string

	// Access
	ActivationCodes             []string
	CookieMaxAge                time.Duration
	ActivationAttemptsPerMinute int

	// Realtime
	WebSocket WebSocketConfig

	// HistoryLimit bounds the per-workspace change log used for rebasing
	HistoryLimit int

	// Logging
	Log LogConfig
}

// LogConfig holds the optional rotating log file. An empty File logs to stderr only.
type LogConfig struct {
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// WebSocketConfig holds limits applied to every realtime connection
type WebSocketConfig struct {
	MaxMessageBytes   int64
	MessagesPerSecond float64
	MessageBurst      int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		Port:                        getEnv("PORT", "8080"),
		CORSOrigins:                 splitList(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		Env:                         getEnv("ENV", "development"),
		ActivationCodes:             splitList(getEnv("ACTIVATION_CODES", "collab-code")),
		CookieMaxAge:                time.Duration(getEnvInt("COOKIE_MAX_AGE_DAYS", 60)) * 24 * time.Hour,
		ActivationAttemptsPerMinute: getEnvInt("ACTIVATION_ATTEMPTS_PER_MINUTE", 10),
		WebSocket: WebSocketConfig{
			MaxMessageBytes:   int64(getEnvInt("WS_MAX_MESSAGE_BYTES", 1<<20)),
			MessagesPerSecond: getEnvFloat("WS_MESSAGES_PER_SECOND", 50),
			MessageBurst:      getEnvInt("WS_MESSAGE_BURST", 100),
		},
		HistoryLimit: getEnvInt("HISTORY_LIMIT", 500),
		Log: LogConfig{
			File:       getEnv("LOG_FILE", ""),
			MaxSizeMB:  getEnvInt("LOG_MAX_SIZE_MB", 10),
			MaxBackups: getEnvInt("LOG_MAX_BACKUPS", 5),
			MaxAgeDays: getEnvInt("LOG_MAX_AGE_DAYS", 30),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// IsProduction reports whether the service runs with ENV=production
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func (c *Config) validate() error {
	if len(c.ActivationCodes) == 0 {
		return fmt.Errorf("ACTIVATION_CODES must contain at least one code")
	}
	if c.HistoryLimit <= 0 {
		return fmt.Errorf("HISTORY_LIMIT must be positive")
	}
	if c.WebSocket.MaxMessageBytes <= 0 {
		return fmt.Errorf("WS_MAX_MESSAGE_BYTES must be positive")
	}
	if c.WebSocket.MessagesPerSecond <= 0 || c.WebSocket.MessageBurst <= 0 {
		return fmt.Errorf("WS_MESSAGES_PER_SECOND and WS_MESSAGE_BURST must be positive")
	}
	if c.ActivationAttemptsPerMinute <= 0 {
		return fmt.Errorf("ACTIVATION_ATTEMPTS_PER_MINUTE must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value, err := strconv.ParseFloat(getEnv(key, ""), 64)
	if err != nil {
		return defaultValue
	}
	return value
}

// splitList splits a comma separated value, dropping blank entries
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
