package domain

import "time"

type Task struct {
	ID          string
	Title       string
	Description string
	StartDate   *time.Time
	DueDate     *time.Time
	Priority    Priority
}

// TaskDraft carries the caller-supplied fields of a task that does not exist
// yet. Nil fields fall back to defaults when the task is built.
type TaskDraft struct {
	Title       *string
	Description *string
	StartDate   *time.Time
	DueDate     *time.Time
	Priority    *Priority
}

// Build merges the draft over the task defaults and assigns id.
func (d TaskDraft) Build(id string) Task {
	return Task{
		ID:          id,
		Title:       StrFromPtrWithDefault("", d.Title),
		Description: StrFromPtrWithDefault("", d.Description),
		StartDate:   cloneTime(d.StartDate),
		DueDate:     cloneTime(d.DueDate),
		Priority:    PriorityFromPtrWithDefault(PriorityNone, d.Priority),
	}
}

// Clone returns a copy of t that shares no pointers with it.
func (t Task) Clone() Task {
	c := t
	c.StartDate = cloneTime(t.StartDate)
	c.DueDate = cloneTime(t.DueDate)
	return c
}

// EffectivePriority treats an empty priority as none.
func (t Task) EffectivePriority() Priority {
	if t.Priority == "" {
		return PriorityNone
	}
	return t.Priority
}
