package db

import (
	"database/sql"
	"fmt"
)

// Migrate runs all schema migrations. Statements are re-run on every open,
// so each one must be idempotent.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	// revision counts saves per key.
	`CREATE TABLE IF NOT EXISTS board_snapshots (
		key        TEXT PRIMARY KEY,
		payload    TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		revision   INTEGER NOT NULL DEFAULT 0
	)`,
}
