// Package importer reads and writes board export files. An export file is
// the same JSON document the peers exchange, indented for humans.
package importer

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/alexanderramin/boardsync/internal/codec"
	"github.com/alexanderramin/boardsync/internal/domain"
)

// LoadBoardFile reads and decodes an export file. Only the document shape is
// checked here; use ValidateBoard for the board invariants.
func LoadBoardFile(path string) (*domain.Board, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	b, err := codec.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("parsing board file %s: %w", path, err)
	}
	return b, nil
}

// WriteBoardFile writes b to path, creating parent directories as needed.
func WriteBoardFile(path string, b *domain.Board) error {
	data, err := codec.EncodeIndent(b)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating export directory: %w", err)
		}
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing board file: %w", err)
	}
	return nil
}
