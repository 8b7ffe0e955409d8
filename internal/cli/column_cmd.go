package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/boardsync/internal/domain"
	"github.com/spf13/cobra"
)

func newColumnCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "column",
		Aliases: []string{"col"},
		Short:   "Manage columns",
	}

	cmd.AddCommand(
		newColumnAddCmd(app),
		newColumnRemoveCmd(app),
		newColumnMoveCmd(app),
	)

	return cmd
}

func newColumnAddCmd(app *App) *cobra.Command {
	var title string

	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Append a new column",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				title = args[0]
			}
			title = strings.TrimSpace(title)
			if title == "" {
				return fmt.Errorf("column title is required (use --title)")
			}
			col, err := app.Store.AddColumn(cmd.Context(), title)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added column %s [%s]\n", col.Title, col.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Column title")
	return cmd
}

func newColumnRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <column>",
		Aliases: []string{"remove"},
		Short:   "Remove a column and every task in it",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b := app.Store.Board()
			id, err := resolveColumnID(b, args[0])
			if err != nil {
				return err
			}
			removed := len(b.Columns[id].TaskIDs)
			if err := app.Store.RemoveColumn(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed column %s and %d task(s)\n", b.Columns[id].Title, removed)
			return nil
		},
	}
}

func newColumnMoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "move <column> <index>",
		Short: "Move a column to a zero-based position",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			b := app.Store.Board()
			id, err := resolveColumnID(b, args[0])
			if err != nil {
				return err
			}
			to, err := strconv.Atoi(args[1])
			if err != nil || to < 0 {
				return fmt.Errorf("invalid index %q", args[1])
			}
			from := indexOf(b.ColumnOrder, id)
			if from < 0 {
				return fmt.Errorf("column %q is not in the column order: %w", id, domain.ErrNotFound)
			}
			err = app.Store.Reorder(cmd.Context(),
				domain.Locator{ContainerID: domain.BoardContainerID, Index: from},
				domain.Locator{ContainerID: domain.BoardContainerID, Index: to},
				domain.KindColumn)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Moved column %s to position %d\n", b.Columns[id].Title, to)
			return nil
		},
	}
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}
