package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ACTIVATION_CODES", "")
	t.Setenv("PORT", "")
	t.Setenv("HISTORY_LIMIT", "")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, []string{"collab-code"}, cfg.ActivationCodes)
	assert.Equal(t, 500, cfg.HistoryLimit)
	assert.Equal(t, 60*24*time.Hour, cfg.CookieMaxAge)
	assert.Equal(t, int64(1<<20), cfg.WebSocket.MaxMessageBytes)
}

func TestLoad_LogFile(t *testing.T) {
	t.Setenv("LOG_FILE", "/var/log/collab/api.log")
	t.Setenv("LOG_MAX_SIZE_MB", "25")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, LogConfig{File: "/var/log/collab/api.log", MaxSizeMB: 25, MaxBackups: 5, MaxAgeDays: 30}, cfg.Log)
}

func TestLoad_ActivationCodesTrimmed(t *testing.T) {
	t.Setenv("ACTIVATION_CODES", " alpha , ,beta,")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta"}, cfg.ActivationCodes)
}

func TestLoad_InvalidHistoryLimit(t *testing.T) {
	t.Setenv("HISTORY_LIMIT", "-1")

	_, err := Load()

	assert.Error(t, err)
}

func TestLoad_UnparsableNumberFallsBack(t *testing.T) {
	t.Setenv("WS_MESSAGES_PER_SECOND", "fast")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, float64(50), cfg.WebSocket.MessagesPerSecond)
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"single", "a", []string{"a"}},
		{"multiple", "a,b", []string{"a", "b"}},
		{"blanks", " , ", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, splitList(tt.input))
		})
	}
}
