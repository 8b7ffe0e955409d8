package config

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.True(t, strings.HasSuffix(cfg.DBPath, "boardsync.db"))
	assert.Equal(t, "board-state-v2", cfg.StorageKey)
	assert.Equal(t, slog.LevelWarn, cfg.Level())
	assert.Empty(t, cfg.RedisURL)
	assert.Equal(t, "offer", cfg.PeerRole)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("BOARDSYNC_DB", "/tmp/board.db")
	t.Setenv("BOARDSYNC_REDIS_URL", "redis://localhost:6379/1")
	t.Setenv("BOARDSYNC_STORAGE_KEY", "board-state-v3")
	t.Setenv("BOARDSYNC_LOG_LEVEL", "DEBUG")
	t.Setenv("BOARDSYNC_LOG_FORMAT", "json")
	t.Setenv("BOARDSYNC_LOG_OPS", "true")
	t.Setenv("BOARDSYNC_ICE_SERVERS", "stun:a.example:3478, ,stun:b.example:3478")
	t.Setenv("BOARDSYNC_PEER_ROLE", "Answer")

	cfg := LoadConfig()

	assert.Equal(t, "/tmp/board.db", cfg.DBPath)
	assert.Equal(t, "redis://localhost:6379/1", cfg.RedisURL)
	assert.Equal(t, "board-state-v3", cfg.StorageKey)
	assert.Equal(t, slog.LevelDebug, cfg.Level())
	assert.Equal(t, "json", cfg.LogFormat)
	assert.True(t, cfg.LogOps)
	assert.Equal(t, []string{"stun:a.example:3478", "stun:b.example:3478"}, cfg.ICEServers)
	assert.Equal(t, "answer", cfg.PeerRole)
}

func TestLoadConfig_InvalidValuesIgnored(t *testing.T) {
	t.Setenv("BOARDSYNC_LOG_FORMAT", "xml")
	t.Setenv("BOARDSYNC_LOG_LEVEL", "loud")
	t.Setenv("BOARDSYNC_LOG_OPS", "maybe")

	cfg := LoadConfig()

	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, slog.LevelWarn, cfg.Level())
	assert.False(t, cfg.LogOps)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.LogFormat = "json"
	logger := NewLogger(cfg, &buf)

	logger.Info("hidden")
	logger.Warn("shown", "key", "value")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"key":"value"`)
}
