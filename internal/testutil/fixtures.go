package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/boardsync/internal/domain"
)

var testIDCounter atomic.Int64

// SequentialIDs returns an id generator producing prefix-1, prefix-2, ...
// Each call returns an independent sequence.
func SequentialIDs(prefix string) func() string {
	var n atomic.Int64
	return func() string {
		return fmt.Sprintf("%s-%d", prefix, n.Add(1))
	}
}

// Board options
type BoardOption func(*domain.Board)

// WithColumn appends a column holding the given task ids. Tasks that are not
// yet on the board are created with a title equal to their id.
func WithColumn(id, title string, taskIDs ...string) BoardOption {
	return func(b *domain.Board) {
		ids := make([]string, 0, len(taskIDs))
		for _, taskID := range taskIDs {
			if _, ok := b.Tasks[taskID]; !ok {
				b.Tasks[taskID] = NewTestTask(taskID)
			}
			ids = append(ids, taskID)
		}
		b.Columns[id] = domain.Column{ID: id, Title: title, TaskIDs: ids}
		b.ColumnOrder = append(b.ColumnOrder, id)
	}
}

// WithTask puts t in the task table, replacing any task with the same id.
// It does not place the task in a column.
func WithTask(t domain.Task) BoardOption {
	return func(b *domain.Board) {
		b.Tasks[t.ID] = t
	}
}

// NewTestBoard builds a board from options, starting from an empty board.
func NewTestBoard(opts ...BoardOption) *domain.Board {
	b := domain.NewBoard()
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// ScenarioBoard returns the two-column board used throughout the tests:
// A holds [t1 t2], B holds [t3].
func ScenarioBoard() *domain.Board {
	return NewTestBoard(
		WithColumn("A", "Column A", "t1", "t2"),
		WithColumn("B", "Column B", "t3"),
	)
}

// Task options
type TaskOption func(*domain.Task)

func WithPriority(p domain.Priority) TaskOption {
	return func(t *domain.Task) {
		t.Priority = p
	}
}

func WithDueDate(d time.Time) TaskOption {
	return func(t *domain.Task) {
		t.DueDate = &d
	}
}

func WithStartDate(d time.Time) TaskOption {
	return func(t *domain.Task) {
		t.StartDate = &d
	}
}

func WithDescription(s string) TaskOption {
	return func(t *domain.Task) {
		t.Description = s
	}
}

// NewTestTask builds a task with priority none. An empty id gets a unique
// generated one.
func NewTestTask(id string, opts ...TaskOption) domain.Task {
	if id == "" {
		id = fmt.Sprintf("task-%d", testIDCounter.Add(1))
	}
	t := domain.Task{
		ID:       id,
		Title:    id,
		Priority: domain.PriorityNone,
	}
	for _, opt := range opts {
		opt(&t)
	}
	return t
}
