package formatter

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/alexanderramin/boardsync/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

const columnWidth = 28

// FormatBoard renders the columns side by side in display order. Tasks that
// exist but sit in no column are listed underneath.
func FormatBoard(b *domain.Board, now time.Time) string {
	cols := b.OrderedColumns()
	if len(cols) == 0 {
		return Dim("Board has no columns.") + "\n"
	}

	boxes := make([]string, 0, len(cols))
	for _, col := range cols {
		boxes = append(boxes, formatColumn(b, col, now))
	}

	var out strings.Builder
	out.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, boxes...))
	out.WriteString("\n")

	if unplaced := unplacedTasks(b); len(unplaced) > 0 {
		out.WriteString("\n")
		out.WriteString(Header("Unplaced tasks"))
		out.WriteString("\n")
		for _, t := range unplaced {
			out.WriteString(formatTaskLine(t, now))
			out.WriteString("\n")
		}
	}
	return out.String()
}

func formatColumn(b *domain.Board, col domain.Column, now time.Time) string {
	title := fmt.Sprintf("%s %s", Truncate(col.Title, columnWidth-8), Dim(fmt.Sprintf("(%d)", len(col.TaskIDs))))

	if len(col.TaskIDs) == 0 {
		return RenderBox(title, Dim("empty"), columnWidth)
	}
	lines := make([]string, 0, len(col.TaskIDs))
	for _, id := range col.TaskIDs {
		t, ok := b.Tasks[id]
		if !ok {
			lines = append(lines, StyleRed.Render("? missing "+id))
			continue
		}
		lines = append(lines, formatTaskLine(t, now))
	}
	return RenderBox(title, strings.Join(lines, "\n"), columnWidth)
}

func formatTaskLine(t domain.Task, now time.Time) string {
	title := t.Title
	if title == "" {
		title = Dim("(untitled)")
	}
	parts := []string{PriorityStyle(t.EffectivePriority()).Render("•") + " " + Truncate(title, columnWidth-6)}
	var meta []string
	if ind := PriorityIndicator(t.EffectivePriority()); ind != "" {
		meta = append(meta, ind)
	}
	if t.DueDate != nil {
		meta = append(meta, DueLabel(*t.DueDate, now))
	}
	if len(meta) > 0 {
		parts = append(parts, "  "+strings.Join(meta, " "))
	}
	parts = append(parts, "  "+TruncID(t.ID))
	return strings.Join(parts, "\n")
}

// FormatTaskTable lists every task with its column, in board order.
func FormatTaskTable(b *domain.Board) string {
	headers := []string{"ID", "TITLE", "COLUMN", "PRIORITY", "START", "DUE"}
	var rows [][]string

	addRow := func(t domain.Task, column string) {
		rows = append(rows, []string{
			t.ID,
			Truncate(t.Title, 40),
			column,
			PriorityStyle(t.EffectivePriority()).Render(string(t.EffectivePriority())),
			formatDate(t.StartDate),
			formatDate(t.DueDate),
		})
	}
	for _, col := range b.OrderedColumns() {
		for _, id := range col.TaskIDs {
			if t, ok := b.Tasks[id]; ok {
				addRow(t, col.Title)
			}
		}
	}
	for _, t := range unplacedTasks(b) {
		addRow(t, Dim("--"))
	}

	if len(rows) == 0 {
		return Dim("No tasks.") + "\n"
	}
	return RenderTable(headers, rows)
}

// FormatViolations renders invariant violations as a warning list.
func FormatViolations(errs []error) string {
	if len(errs) == 0 {
		return StyleGreen.Render("✔ Board is consistent") + "\n"
	}
	var b strings.Builder
	b.WriteString(StyleYellow.Render(fmt.Sprintf("⚠ %d problem(s) found", len(errs))))
	b.WriteString("\n")
	for _, err := range errs {
		b.WriteString("  - ")
		b.WriteString(err.Error())
		b.WriteString("\n")
	}
	return b.String()
}

func formatDate(t *time.Time) string {
	if t == nil {
		return Dim("--")
	}
	return t.Format("2006-01-02")
}

func unplacedTasks(b *domain.Board) []domain.Task {
	var out []domain.Task
	for id, t := range b.Tasks {
		if _, placed := b.ColumnOf(id); !placed {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
