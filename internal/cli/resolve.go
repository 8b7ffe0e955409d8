package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/boardsync/internal/domain"
)

// resolveColumnID resolves a column identifier which can be:
//   - An exact column ID
//   - A column title (case-insensitive)
//   - A unique ID prefix
func resolveColumnID(b *domain.Board, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("column is required")
	}
	if _, ok := b.Columns[input]; ok {
		return input, nil
	}

	var matches []string
	for _, col := range b.OrderedColumns() {
		if strings.EqualFold(col.Title, input) {
			matches = append(matches, col.ID)
		}
	}
	if len(matches) == 0 {
		for _, col := range b.OrderedColumns() {
			if strings.HasPrefix(col.ID, input) {
				matches = append(matches, col.ID)
			}
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("column %q: %w", input, domain.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("column %q is ambiguous (%d matches)", input, len(matches))
	}
}

// resolveTaskID resolves an exact task ID or a unique ID prefix.
func resolveTaskID(b *domain.Board, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("task ID is required")
	}
	if _, ok := b.Tasks[input]; ok {
		return input, nil
	}

	var matches []string
	for id := range b.Tasks {
		if strings.HasPrefix(id, input) {
			matches = append(matches, id)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("task %q: %w", input, domain.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("task ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}
