package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/boardsync/internal/codec"
	"github.com/alexanderramin/boardsync/internal/db"
	"github.com/alexanderramin/boardsync/internal/domain"
)

// SQLiteBoardRepo implements BoardRepo using a SQLite database. The board is
// stored as one JSON payload row per key.
type SQLiteBoardRepo struct {
	db  db.DBTX
	key string
}

// NewSQLiteBoardRepo creates a new SQLiteBoardRepo. An empty key selects
// DefaultStorageKey.
func NewSQLiteBoardRepo(conn db.DBTX, key string) *SQLiteBoardRepo {
	return &SQLiteBoardRepo{db: conn, key: keyOrDefault(key)}
}

func (r *SQLiteBoardRepo) Load(ctx context.Context) (*domain.Board, error) {
	var payload string
	err := r.db.QueryRowContext(ctx,
		`SELECT payload FROM board_snapshots WHERE key = ?`, r.key).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.SeedBoard(), nil
		}
		return nil, fmt.Errorf("loading board snapshot: %w", err)
	}
	return decodeSnapshot(r.key, []byte(payload))
}

func (r *SQLiteBoardRepo) Save(ctx context.Context, b *domain.Board) error {
	payload, err := codec.Encode(b)
	if err != nil {
		return err
	}
	query := `INSERT INTO board_snapshots (key, payload, updated_at, revision)
		VALUES (?, ?, ?, 1)
		ON CONFLICT(key) DO UPDATE SET
			payload = excluded.payload,
			updated_at = excluded.updated_at,
			revision = board_snapshots.revision + 1`
	if _, err := r.db.ExecContext(ctx, query, r.key, string(payload), nowUTC()); err != nil {
		return fmt.Errorf("saving board snapshot: %w", err)
	}
	return nil
}

// Revision returns how many times the board under this key has been saved.
// Zero means nothing has been stored yet.
func (r *SQLiteBoardRepo) Revision(ctx context.Context) (int, error) {
	var rev int
	err := r.db.QueryRowContext(ctx,
		`SELECT revision FROM board_snapshots WHERE key = ?`, r.key).Scan(&rev)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("reading board revision: %w", err)
	}
	return rev, nil
}
