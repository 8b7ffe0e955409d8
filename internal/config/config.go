// Package config reads boardsync settings from the environment.
package config

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config holds all process-level settings.
type Config struct {
	DBPath     string
	RedisURL   string // selects the Redis repo when set
	StorageKey string
	LogLevel   string
	LogFormat  string // "text" or "json"
	LogOps     bool   // report every store operation through the logger
	ICEServers []string
	PeerRole   string
}

// DefaultConfig returns a Config with sensible defaults. The database lives
// under the user's home directory when it can be found.
func DefaultConfig() Config {
	dbPath := filepath.Join(".boardsync", "boardsync.db")
	if home, err := os.UserHomeDir(); err == nil {
		dbPath = filepath.Join(home, ".boardsync", "boardsync.db")
	}
	return Config{
		DBPath:     dbPath,
		StorageKey: "board-state-v2",
		LogLevel:   "warn",
		LogFormat:  "text",
		PeerRole:   "offer",
	}
}

// LoadConfig reads configuration from environment variables,
// falling back to defaults for any unset values.
func LoadConfig() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("BOARDSYNC_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("BOARDSYNC_REDIS_URL"); v != "" {
		cfg.RedisURL = v
	}
	if v := os.Getenv("BOARDSYNC_STORAGE_KEY"); v != "" {
		cfg.StorageKey = v
	}
	if v := os.Getenv("BOARDSYNC_LOG_LEVEL"); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v := os.Getenv("BOARDSYNC_LOG_FORMAT"); v == "json" || v == "text" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("BOARDSYNC_LOG_OPS"); v != "" {
		cfg.LogOps, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("BOARDSYNC_ICE_SERVERS"); v != "" {
		cfg.ICEServers = splitList(v)
	}
	if v := os.Getenv("BOARDSYNC_PEER_ROLE"); v != "" {
		cfg.PeerRole = strings.ToLower(v)
	}

	return cfg
}

// Level returns the configured slog level. Unknown names mean warn.
func (c Config) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelWarn
	}
	return level
}

// NewLogger builds the process logger writing to w.
func NewLogger(cfg Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.Level()}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
