package cli

import (
	"context"
	"log/slog"
	"time"

	"github.com/alexanderramin/boardsync/internal/peer"
	"github.com/alexanderramin/boardsync/internal/store"
	"github.com/spf13/cobra"
)

// RevisionReader reports how many times the board has been saved.
type RevisionReader interface {
	Revision(ctx context.Context) (int, error)
}

// App holds the dependencies used by CLI commands.
type App struct {
	Store  *store.Store
	Logger *slog.Logger
	ICE    peer.ICEConfig

	// Revisions is optional; only some repos count saves.
	Revisions RevisionReader

	// DefaultRole is used by sync when --role is not given.
	DefaultRole string

	// Now is the clock used for relative dates. Defaults to time.Now.
	Now func() time.Time
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) logger() *slog.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return slog.Default()
}

// NewRootCmd creates the top-level "boardsync" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "boardsync",
		Short:         "Shared Kanban board kept in sync with one peer",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newBoardCmd(app),
		newColumnCmd(app),
		newTaskCmd(app),
		newExportCmd(app),
		newImportCmd(app),
		newSyncCmd(app),
	)

	return root
}
