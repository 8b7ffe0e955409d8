package domain

// Locator addresses a position inside a container: a column's task list for
// task moves, or the board's column order for column moves.
type Locator struct {
	ContainerID string
	Index       int
}

// BoardContainerID is the conventional container id for column moves. The
// reorder algorithm ignores the container of column locators.
const BoardContainerID = "board"
