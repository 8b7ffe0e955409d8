// Package reorder implements drag-and-drop repositioning of columns and
// tasks on a board.
//
// Index semantics follow the remove-then-insert convention of common drag
// list libraries: the destination index is interpreted against the sequence
// after the dragged item has been removed from it. Moving the element at
// index 0 to index 2 of [a b c d] yields [b c a d], not [b c d a].
package reorder

import (
	"fmt"

	"github.com/alexanderramin/boardsync/internal/domain"
)

// Apply moves one item and returns the resulting board. The input board is
// never modified. A move whose source and destination name the same
// container and index returns a board deep-equal to the input.
func Apply(board *domain.Board, source, destination domain.Locator, kind domain.ItemKind) (*domain.Board, error) {
	if board == nil {
		return nil, fmt.Errorf("reorder: nil board")
	}
	if source == destination {
		return board.Clone(), nil
	}

	switch kind {
	case domain.KindColumn:
		return moveColumn(board, source.Index, destination.Index)
	case domain.KindTask:
		if source.ContainerID == destination.ContainerID {
			return moveWithinColumn(board, source.ContainerID, source.Index, destination.Index)
		}
		return moveAcrossColumns(board, source, destination)
	default:
		return nil, fmt.Errorf("reorder: unknown item kind %q", kind)
	}
}

func moveColumn(board *domain.Board, from, to int) (*domain.Board, error) {
	if from < 0 || from >= len(board.ColumnOrder) {
		return nil, fmt.Errorf("column at index %d: %w", from, domain.ErrNotFound)
	}
	next := board.Clone()
	next.ColumnOrder = Move(next.ColumnOrder, from, to)
	return next, nil
}

func moveWithinColumn(board *domain.Board, columnID string, from, to int) (*domain.Board, error) {
	col, ok := board.Columns[columnID]
	if !ok {
		return nil, fmt.Errorf("column %s: %w", columnID, domain.ErrNotFound)
	}
	if from < 0 || from >= len(col.TaskIDs) {
		return nil, fmt.Errorf("task at index %d of column %s: %w", from, columnID, domain.ErrNotFound)
	}
	next := board.Clone()
	col = next.Columns[columnID]
	col.TaskIDs = Move(col.TaskIDs, from, to)
	next.Columns[columnID] = col
	return next, nil
}

func moveAcrossColumns(board *domain.Board, source, destination domain.Locator) (*domain.Board, error) {
	src, ok := board.Columns[source.ContainerID]
	if !ok {
		return nil, fmt.Errorf("source column %s: %w", source.ContainerID, domain.ErrNotFound)
	}
	if _, ok := board.Columns[destination.ContainerID]; !ok {
		return nil, fmt.Errorf("destination column %s: %w", destination.ContainerID, domain.ErrNotFound)
	}
	if source.Index < 0 || source.Index >= len(src.TaskIDs) {
		return nil, fmt.Errorf("task at index %d of column %s: %w", source.Index, source.ContainerID, domain.ErrNotFound)
	}

	next := board.Clone()
	src = next.Columns[source.ContainerID]
	dst := next.Columns[destination.ContainerID]

	taskID := src.TaskIDs[source.Index]
	src.TaskIDs = removeAt(src.TaskIDs, source.Index)
	dst.TaskIDs = insertAt(dst.TaskIDs, destination.Index, taskID)

	next.Columns[source.ContainerID] = src
	next.Columns[destination.ContainerID] = dst
	return next, nil
}

// Move returns a new slice with the element at from relocated to index to of
// the shortened sequence. to is clamped into range. from must be valid.
func Move(ids []string, from, to int) []string {
	item := ids[from]
	return insertAt(removeAt(ids, from), to, item)
}

// removeAt returns a new slice without the element at i.
func removeAt(ids []string, i int) []string {
	out := make([]string, 0, len(ids)-1)
	out = append(out, ids[:i]...)
	return append(out, ids[i+1:]...)
}

// insertAt returns a new slice with id inserted at i, clamped to [0, len].
func insertAt(ids []string, i int, id string) []string {
	if i < 0 {
		i = 0
	}
	if i > len(ids) {
		i = len(ids)
	}
	out := make([]string, 0, len(ids)+1)
	out = append(out, ids[:i]...)
	out = append(out, id)
	return append(out, ids[i:]...)
}
