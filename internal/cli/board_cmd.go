package cli

import (
	"fmt"

	"github.com/alexanderramin/boardsync/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newBoardCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Inspect the board",
	}

	cmd.AddCommand(
		newBoardShowCmd(app),
		newBoardCheckCmd(app),
	)

	return cmd
}

func newBoardShowCmd(app *App) *cobra.Command {
	var table bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show columns and their tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b := app.Store.Board()
			if table {
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTaskTable(b))
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatBoard(b, app.now()))
			if app.Revisions != nil {
				rev, err := app.Revisions.Revision(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim(fmt.Sprintf("revision %d", rev)))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&table, "table", false, "List tasks as a table")
	return cmd
}

func newBoardCheckCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Report board invariant violations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			errs := app.Store.Board().Validate()
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatViolations(errs))
			if len(errs) > 0 {
				return fmt.Errorf("board has %d problem(s)", len(errs))
			}
			return nil
		},
	}
}
