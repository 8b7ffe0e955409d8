// Package codec converts boards to and from the JSON document shared by the
// peer wire format, the persistence layer, and export files:
//
//	{"tasks": {...}, "columns": {...}, "columnOrder": [...]}
package codec

import (
	"fmt"
	"time"

	"github.com/bytedance/sonic"

	"github.com/alexanderramin/boardsync/internal/domain"
)

// api sorts map keys so identical boards always encode to identical bytes.
var api = sonic.ConfigStd

type wireTask struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Priority    string     `json:"priority"`
}

type wireColumn struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	TaskIDs []string `json:"taskIds"`
}

// wireBoard uses pointer fields so Decode can tell a missing field from an
// empty one.
type wireBoard struct {
	Tasks       *map[string]wireTask   `json:"tasks"`
	Columns     *map[string]wireColumn `json:"columns"`
	ColumnOrder *[]string              `json:"columnOrder"`
}

// Encode serializes b. Nil tables and nil task lists encode as empty objects
// and arrays; dates are written in UTC. Decode(Encode(b)) therefore equals b
// up to those two normalizations.
func Encode(b *domain.Board) ([]byte, error) {
	if b == nil {
		return nil, fmt.Errorf("encoding board: nil board")
	}
	data, err := api.Marshal(toWire(b))
	if err != nil {
		return nil, fmt.Errorf("encoding board: %w", err)
	}
	return data, nil
}

// EncodeIndent serializes b for human consumption (export files).
func EncodeIndent(b *domain.Board) ([]byte, error) {
	if b == nil {
		return nil, fmt.Errorf("encoding board: nil board")
	}
	data, err := api.MarshalIndent(toWire(b), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding board: %w", err)
	}
	return data, nil
}

// Decode parses a board document. Only a shallow structural check is made:
// tasks, columns and columnOrder must all be present. Referential integrity
// is not checked here; see domain.Board.Validate.
func Decode(data []byte) (*domain.Board, error) {
	var w wireBoard
	if err := api.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("decoding board: %v: %w", err, domain.ErrCorruptState)
	}
	var missing []string
	if w.Tasks == nil {
		missing = append(missing, "tasks")
	}
	if w.Columns == nil {
		missing = append(missing, "columns")
	}
	if w.ColumnOrder == nil {
		missing = append(missing, "columnOrder")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("decoding board: missing fields %v: %w", missing, domain.ErrCorruptState)
	}
	return fromWire(w), nil
}

func toWire(b *domain.Board) wireBoard {
	tasks := make(map[string]wireTask, len(b.Tasks))
	for id, t := range b.Tasks {
		tasks[id] = wireTask{
			ID:          t.ID,
			Title:       t.Title,
			Description: t.Description,
			StartDate:   utcDate(t.StartDate),
			DueDate:     utcDate(t.DueDate),
			Priority:    string(t.EffectivePriority()),
		}
	}
	columns := make(map[string]wireColumn, len(b.Columns))
	for id, c := range b.Columns {
		ids := c.TaskIDs
		if ids == nil {
			ids = []string{}
		}
		columns[id] = wireColumn{ID: c.ID, Title: c.Title, TaskIDs: ids}
	}
	order := b.ColumnOrder
	if order == nil {
		order = []string{}
	}
	return wireBoard{Tasks: &tasks, Columns: &columns, ColumnOrder: &order}
}

// utcDate returns d in UTC without a monotonic reading, so a decoded date
// compares equal to what was encoded regardless of the sender's zone.
func utcDate(d *time.Time) *time.Time {
	if d == nil {
		return nil
	}
	u := d.UTC().Round(0)
	return &u
}

func fromWire(w wireBoard) *domain.Board {
	b := domain.NewBoard()
	for id, t := range *w.Tasks {
		priority := domain.Priority(t.Priority)
		if priority == "" {
			priority = domain.PriorityNone
		}
		b.Tasks[id] = domain.Task{
			ID:          t.ID,
			Title:       t.Title,
			Description: t.Description,
			StartDate:   t.StartDate,
			DueDate:     t.DueDate,
			Priority:    priority,
		}
	}
	for id, c := range *w.Columns {
		ids := c.TaskIDs
		if ids == nil {
			ids = []string{}
		}
		b.Columns[id] = domain.Column{ID: c.ID, Title: c.Title, TaskIDs: ids}
	}
	b.ColumnOrder = append(b.ColumnOrder, *w.ColumnOrder...)
	return b
}
