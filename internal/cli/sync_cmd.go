package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alexanderramin/boardsync/internal/cli/formatter"
	"github.com/alexanderramin/boardsync/internal/domain"
	"github.com/alexanderramin/boardsync/internal/peer"
	"github.com/spf13/cobra"
)

const syncInstructions = `Manual signaling: copy the line printed below to the other peer and paste
the line it prints back here. Start "boardsync sync --role answer" on the
other side first when you are the offerer. Once connected, type board
commands (for example: task add --column todo --title "Write docs").`

func newSyncCmd(app *App) *cobra.Command {
	var role string

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Connect to a peer and keep the board in sync until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if role == "" {
				role = app.DefaultRole
			}
			r, err := peer.ParseRole(role)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			fmt.Fprintln(cmd.ErrOrStderr(), formatter.Dim(syncInstructions))
			lines := peer.NewLineReader(cmd.InOrStdin())
			sig := peer.NewStreamSignaler(lines, cmd.OutOrStdout())
			return runSync(ctx, app, sig, r, lines, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&role, "role", "", "Signaling role: offer or answer")
	return cmd
}

// runSync connects, attaches the channel to the store and then runs board
// commands read from in until ctx ends or "exit" is entered. Commands go
// through the same store, so their changes reach the peer. Remote changes
// are printed as they arrive. Only the offerer pushes its board after
// connecting, so the two sides start from the offerer's state.
func runSync(ctx context.Context, app *App, sig peer.Signaler, role peer.Role, in *peer.LineReader, out io.Writer) error {
	session, err := peer.Connect(ctx, sig, role, app.ICE, app.logger())
	if err != nil {
		return fmt.Errorf("connecting to peer: %w", err)
	}
	defer session.Close()

	if err := session.WaitOpen(ctx); err != nil {
		return err
	}

	app.Store.OnChange(func(b *domain.Board, origin domain.Origin) {
		if origin == domain.OriginRemote {
			fmt.Fprint(out, formatter.FormatBoard(b, app.now()))
		}
	})
	app.Store.Attach(session.Channel())

	if role == peer.RoleOffer {
		if err := app.Store.Announce(ctx); err != nil && !errors.Is(err, domain.ErrChannelUnavailable) {
			return err
		}
	}
	fmt.Fprintln(out, formatter.Bold(`Connected. Enter commands, "exit" or Ctrl+C to stop.`))

	for {
		line, err := in.ReadLine(ctx)
		if errors.Is(err, io.EOF) {
			// No more input; keep syncing remote changes.
			<-ctx.Done()
			return nil
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("reading command: %w", err)
		}
		if done := execSyncLine(ctx, app, line, out); done {
			return nil
		}
	}
}

// execSyncLine runs one command line against the full command tree. It
// reports whether the session should end.
func execSyncLine(ctx context.Context, app *App, line string, out io.Writer) bool {
	parts, err := splitCommandLine(line)
	if err != nil {
		fmt.Fprintln(out, formatter.StyleRed.Render(fmt.Sprintf("Error: %v", err)))
		return false
	}
	if len(parts) == 0 {
		return false
	}

	switch strings.ToLower(parts[0]) {
	case "exit", "quit":
		fmt.Fprintln(out, formatter.Dim("Disconnecting."))
		return true
	case "boardsync":
		parts = parts[1:]
	}
	if len(parts) > 0 && strings.EqualFold(parts[0], "sync") {
		fmt.Fprintln(out, formatter.StyleYellow.Render("Already syncing."))
		return false
	}

	root := NewRootCmd(app)
	root.SetArgs(parts)
	root.SetOut(out)
	root.SetErr(out)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(out, formatter.StyleRed.Render(fmt.Sprintf("Error: %v", err)))
	}
	return false
}

// splitCommandLine splits input into arguments, honoring single and double
// quotes and backslash escapes.
func splitCommandLine(input string) ([]string, error) {
	var parts []string
	var cur strings.Builder

	inSingle := false
	inDouble := false
	escaped := false
	started := false

	flush := func() {
		parts = append(parts, cur.String())
		cur.Reset()
		started = false
	}

	for _, r := range input {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case inSingle:
			if r == '\'' {
				inSingle = false
			} else {
				cur.WriteRune(r)
			}
		case inDouble:
			switch r {
			case '"':
				inDouble = false
			case '\\':
				escaped = true
			default:
				cur.WriteRune(r)
			}
		case r == '\\':
			escaped = true
		case r == '\'':
			inSingle = true
		case r == '"':
			inDouble = true
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			if started {
				flush()
			}
			continue
		default:
			cur.WriteRune(r)
		}
		started = true
	}

	if escaped {
		return nil, fmt.Errorf("unterminated escape sequence")
	}
	if inSingle || inDouble {
		return nil, fmt.Errorf("unterminated quoted string")
	}
	if started {
		flush()
	}
	return parts, nil
}
