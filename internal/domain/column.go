package domain

type Column struct {
	ID      string
	Title   string
	TaskIDs []string
}

// Clone returns a copy of c with its own TaskIDs backing array.
func (c Column) Clone() Column {
	ids := make([]string, len(c.TaskIDs))
	copy(ids, c.TaskIDs)
	c.TaskIDs = ids
	return c
}

// IndexOf returns the position of taskID within the column, or -1.
func (c Column) IndexOf(taskID string) int {
	for i, id := range c.TaskIDs {
		if id == taskID {
			return i
		}
	}
	return -1
}
