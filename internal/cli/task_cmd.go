package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/boardsync/internal/domain"
	"github.com/spf13/cobra"
)

func newTaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks",
	}

	cmd.AddCommand(
		newTaskAddCmd(app),
		newTaskRemoveCmd(app),
		newTaskUpdateCmd(app),
		newTaskMoveCmd(app),
	)

	return cmd
}

func newTaskAddCmd(app *App) *cobra.Command {
	var column, title, desc, start, due string
	priority := newPriorityValue(domain.PriorityNone)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a task to the end of a column",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			colID, err := resolveColumnID(app.Store.Board(), column)
			if err != nil {
				return err
			}

			draft := domain.TaskDraft{Title: &title}
			if cmd.Flags().Changed("desc") {
				draft.Description = &desc
			}
			if draft.StartDate, err = parseDateFlag("start", start); err != nil {
				return err
			}
			if draft.DueDate, err = parseDateFlag("due", due); err != nil {
				return err
			}
			if cmd.Flags().Changed("priority") {
				p := priority.p
				draft.Priority = &p
			}

			task, err := app.Store.AddTask(cmd.Context(), colID, draft)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added task %s [%s]\n", task.Title, task.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&column, "column", "", "Column ID or title")
	cmd.Flags().StringVar(&title, "title", "", "Task title")
	cmd.Flags().StringVar(&desc, "desc", "", "Task description")
	cmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD)")
	cmd.Flags().Var(priority, "priority", "Priority: none, low, medium or high")
	_ = cmd.MarkFlagRequired("column")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newTaskRemoveCmd(app *App) *cobra.Command {
	var column string

	cmd := &cobra.Command{
		Use:     "rm <task>",
		Aliases: []string{"remove"},
		Short:   "Remove a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b := app.Store.Board()
			taskID, err := resolveTaskID(b, args[0])
			if err != nil {
				return err
			}
			colID := ""
			if column != "" {
				if colID, err = resolveColumnID(b, column); err != nil {
					return err
				}
			} else {
				colID, _ = b.ColumnOf(taskID)
			}
			if err := app.Store.RemoveTask(cmd.Context(), taskID, colID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed task %s\n", taskID)
			return nil
		},
	}

	cmd.Flags().StringVar(&column, "column", "", "Column holding the task (defaults to wherever it is placed)")
	return cmd
}

func newTaskUpdateCmd(app *App) *cobra.Command {
	var title, desc, start, due string
	priority := newPriorityValue(domain.PriorityNone)

	cmd := &cobra.Command{
		Use:   "update <task>",
		Short: "Replace task fields; an unknown ID creates an unplaced task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b := app.Store.Board()
			taskID, err := resolveTaskID(b, args[0])
			created := false
			if errors.Is(err, domain.ErrNotFound) {
				taskID, created = strings.TrimSpace(args[0]), true
			} else if err != nil {
				return err
			}

			task, ok := b.Tasks[taskID]
			if !ok {
				task = domain.Task{ID: taskID, Priority: domain.PriorityNone}
			}
			flags := cmd.Flags()
			if flags.Changed("title") {
				task.Title = title
			}
			if flags.Changed("desc") {
				task.Description = desc
			}
			if flags.Changed("start") {
				if task.StartDate, err = parseDateFlag("start", start); err != nil {
					return err
				}
			}
			if flags.Changed("due") {
				if task.DueDate, err = parseDateFlag("due", due); err != nil {
					return err
				}
			}
			if flags.Changed("priority") {
				task.Priority = priority.p
			}

			if err := app.Store.UpdateTask(cmd.Context(), task); err != nil {
				return err
			}
			if created {
				fmt.Fprintf(cmd.OutOrStdout(), "Created task %s (not placed in any column)\n", taskID)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated task %s\n", taskID)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Task title")
	cmd.Flags().StringVar(&desc, "desc", "", "Task description")
	cmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD, empty to clear)")
	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD, empty to clear)")
	cmd.Flags().Var(priority, "priority", "Priority: none, low, medium or high")
	return cmd
}

func newTaskMoveCmd(app *App) *cobra.Command {
	var to string
	var index int

	cmd := &cobra.Command{
		Use:   "move <task>",
		Short: "Move a task within or across columns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b := app.Store.Board()
			taskID, err := resolveTaskID(b, args[0])
			if err != nil {
				return err
			}
			fromCol, ok := b.ColumnOf(taskID)
			if !ok {
				return fmt.Errorf("task %s is not placed in any column", taskID)
			}
			toCol := fromCol
			if to != "" {
				if toCol, err = resolveColumnID(b, to); err != nil {
					return err
				}
			}
			dest := index
			if dest < 0 {
				dest = len(b.Columns[toCol].TaskIDs)
			}

			err = app.Store.Reorder(cmd.Context(),
				domain.Locator{ContainerID: fromCol, Index: b.Columns[fromCol].IndexOf(taskID)},
				domain.Locator{ContainerID: toCol, Index: dest},
				domain.KindTask)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Moved task %s to %s\n", taskID, b.Columns[toCol].Title)
			return nil
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "Destination column ID or title (defaults to the current column)")
	cmd.Flags().IntVar(&index, "index", -1, "Zero-based destination position (defaults to the end)")
	return cmd
}
