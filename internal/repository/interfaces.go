package repository

import (
	"context"

	"github.com/alexanderramin/boardsync/internal/domain"
)

// DefaultStorageKey is the key the board snapshot lives under. Schema
// revisions move to a new suffix; records under older keys are abandoned
// rather than migrated.
const DefaultStorageKey = "board-state-v2"

// BoardRepo persists whole-board snapshots.
//
// Load returns domain.SeedBoard when nothing has been stored under the key.
// It fails only when stored data cannot be parsed, wrapping
// domain.ErrCorruptState. Save must be visible to the next Load in the same
// process.
type BoardRepo interface {
	Load(ctx context.Context) (*domain.Board, error)
	Save(ctx context.Context, b *domain.Board) error
}
