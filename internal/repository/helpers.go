package repository

import (
	"fmt"
	"time"

	"github.com/alexanderramin/boardsync/internal/codec"
	"github.com/alexanderramin/boardsync/internal/domain"
)

// decodeSnapshot parses a stored payload, tagging failures with the key so
// the caller can tell which record is damaged.
func decodeSnapshot(key string, payload []byte) (*domain.Board, error) {
	b, err := codec.Decode(payload)
	if err != nil {
		return nil, fmt.Errorf("board snapshot %q: %w", key, err)
	}
	return b, nil
}

// keyOrDefault falls back to DefaultStorageKey for an empty key.
func keyOrDefault(key string) string {
	if key == "" {
		return DefaultStorageKey
	}
	return key
}

// nowUTC returns the current UTC time formatted as RFC3339.
func nowUTC() string {
	return time.Now().UTC().Format(time.RFC3339)
}
