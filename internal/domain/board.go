package domain

import (
	"fmt"
	"sort"
)

// Board is the aggregate root: the task table, the column table, and the
// left-to-right column order. Boards are treated as values; every change
// produces a new Board via Clone.
type Board struct {
	Tasks       map[string]Task
	Columns     map[string]Column
	ColumnOrder []string
}

// Seed column ids. Stable so that two fresh peers start from the same board.
const (
	SeedColumnTodo       = "todo"
	SeedColumnInProgress = "in-progress"
	SeedColumnDone       = "done"
)

// NewBoard returns an empty board with non-nil tables.
func NewBoard() *Board {
	return &Board{
		Tasks:       map[string]Task{},
		Columns:     map[string]Column{},
		ColumnOrder: []string{},
	}
}

// SeedBoard returns the default board used when nothing has been persisted.
func SeedBoard() *Board {
	b := NewBoard()
	for _, c := range []Column{
		{ID: SeedColumnTodo, Title: "To Do"},
		{ID: SeedColumnInProgress, Title: "In Progress"},
		{ID: SeedColumnDone, Title: "Done"},
	} {
		c.TaskIDs = []string{}
		b.Columns[c.ID] = c
		b.ColumnOrder = append(b.ColumnOrder, c.ID)
	}
	return b
}

// Clone returns a deep copy of b. Nil tables stay nil so that a clone is
// deep-equal to its source.
func (b *Board) Clone() *Board {
	if b == nil {
		return nil
	}
	c := &Board{}
	if b.Tasks != nil {
		c.Tasks = make(map[string]Task, len(b.Tasks))
		for id, t := range b.Tasks {
			c.Tasks[id] = t.Clone()
		}
	}
	if b.Columns != nil {
		c.Columns = make(map[string]Column, len(b.Columns))
		for id, col := range b.Columns {
			if col.TaskIDs == nil {
				c.Columns[id] = col
				continue
			}
			c.Columns[id] = col.Clone()
		}
	}
	if b.ColumnOrder != nil {
		c.ColumnOrder = make([]string, len(b.ColumnOrder))
		copy(c.ColumnOrder, b.ColumnOrder)
	}
	return c
}

// ColumnOf returns the id of the column whose TaskIDs contain taskID.
func (b *Board) ColumnOf(taskID string) (string, bool) {
	for _, id := range b.ColumnOrder {
		if b.Columns[id].IndexOf(taskID) >= 0 {
			return id, true
		}
	}
	// Columns missing from the order are still searched so that an
	// inconsistent board is reported accurately.
	for id, col := range b.Columns {
		if col.IndexOf(taskID) >= 0 {
			return id, true
		}
	}
	return "", false
}

// OrderedColumns returns the columns in display order, skipping ids in
// ColumnOrder that have no column entry.
func (b *Board) OrderedColumns() []Column {
	cols := make([]Column, 0, len(b.ColumnOrder))
	for _, id := range b.ColumnOrder {
		if col, ok := b.Columns[id]; ok {
			cols = append(cols, col)
		}
	}
	return cols
}

// TaskCount returns the number of task records, placed or not.
func (b *Board) TaskCount() int {
	return len(b.Tasks)
}

// PlacedTaskIDs returns every task id referenced by any column, in column
// order. Duplicates are kept so the result can be compared as a multiset.
func (b *Board) PlacedTaskIDs() []string {
	var ids []string
	for _, id := range sortedKeys(b.Columns) {
		ids = append(ids, b.Columns[id].TaskIDs...)
	}
	return ids
}

// Validate reports every structural invariant the board violates: the column
// order must be a permutation of the column keys, each referenced task must
// exist, and a task may sit in at most one column.
func (b *Board) Validate() []error {
	var errs []error

	seenOrder := make(map[string]bool, len(b.ColumnOrder))
	for _, id := range b.ColumnOrder {
		if seenOrder[id] {
			errs = append(errs, fmt.Errorf("column order lists %q more than once", id))
			continue
		}
		seenOrder[id] = true
		if _, ok := b.Columns[id]; !ok {
			errs = append(errs, fmt.Errorf("column order lists unknown column %q", id))
		}
	}
	for _, id := range sortedKeys(b.Columns) {
		if !seenOrder[id] {
			errs = append(errs, fmt.Errorf("column %q is missing from column order", id))
		}
	}

	placement := make(map[string]string)
	for _, colID := range sortedKeys(b.Columns) {
		for _, taskID := range b.Columns[colID].TaskIDs {
			if _, ok := b.Tasks[taskID]; !ok {
				errs = append(errs, fmt.Errorf("column %q references unknown task %q", colID, taskID))
			}
			if prev, ok := placement[taskID]; ok {
				if prev == colID {
					errs = append(errs, fmt.Errorf("column %q lists task %q more than once", colID, taskID))
				} else {
					errs = append(errs, fmt.Errorf("task %q placed in both %q and %q", taskID, prev, colID))
				}
				continue
			}
			placement[taskID] = colID
		}
	}

	return errs
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
