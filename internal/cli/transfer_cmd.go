package cli

import (
	"fmt"

	"github.com/alexanderramin/boardsync/internal/cli/formatter"
	"github.com/alexanderramin/boardsync/internal/importer"
	"github.com/spf13/cobra"
)

func newExportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Write the board to a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b := app.Store.Board()
			if err := importer.WriteBoardFile(args[0], b); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d column(s) and %d task(s) to %s\n",
				len(b.Columns), b.TaskCount(), args[0])
			return nil
		},
	}
}

func newImportCmd(app *App) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the board with the contents of a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := importer.LoadBoardFile(args[0])
			if err != nil {
				return err
			}
			if errs := importer.ValidateBoard(b); len(errs) > 0 {
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatViolations(errs))
				if !force {
					return fmt.Errorf("import aborted: %d problem(s) (use --force to import anyway)", len(errs))
				}
			}
			if err := app.Store.Import(cmd.Context(), b); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d column(s) and %d task(s) from %s\n",
				len(b.Columns), b.TaskCount(), args[0])
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Import even when the board has problems")
	return cmd
}
