package importer

import (
	"fmt"
	"sort"

	"github.com/alexanderramin/boardsync/internal/domain"
)

// ValidateBoard checks an imported board before it replaces the local one.
// Returns a slice of all validation errors found; an empty slice means the
// board satisfies every invariant.
func ValidateBoard(b *domain.Board) []error {
	if b == nil {
		return []error{fmt.Errorf("board is empty")}
	}
	var errs []error
	errs = append(errs, validateTasks(b.Tasks)...)
	errs = append(errs, validateColumns(b.Columns)...)
	errs = append(errs, b.Validate()...)
	return errs
}

func validateTasks(tasks map[string]domain.Task) []error {
	var errs []error

	for _, key := range sortedIDs(tasks) {
		t := tasks[key]
		prefix := fmt.Sprintf("tasks[%q]", key)

		if t.ID != key {
			errs = append(errs, fmt.Errorf("%s.id: %q does not match its key", prefix, t.ID))
		}
		if _, err := domain.ParsePriority(string(t.Priority)); err != nil {
			errs = append(errs, fmt.Errorf("%s.priority: %w", prefix, err))
		}
	}

	return errs
}

func validateColumns(columns map[string]domain.Column) []error {
	var errs []error

	for _, key := range sortedIDs(columns) {
		c := columns[key]
		prefix := fmt.Sprintf("columns[%q]", key)

		if c.ID != key {
			errs = append(errs, fmt.Errorf("%s.id: %q does not match its key", prefix, c.ID))
		}
	}

	return errs
}

func sortedIDs[V any](m map[string]V) []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
