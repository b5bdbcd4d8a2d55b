package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/johnquangdev/meeting-action-board/internal/usecase/board"
)

// Runtime is what the commands operate on
type Runtime struct {
	Controller *board.Controller
	Close      func()
}

// Loader opens the board for one command invocation
type Loader func(ctx context.Context) (*Runtime, error)

// NewRootCommand builds the boardctl command tree
func NewRootCommand(load Loader, version string) *cobra.Command {
	root := &cobra.Command{
		Use:           "boardctl",
		Short:         "Manage the meeting action board from the terminal",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(listCmd(load))
	root.AddCommand(addCmd(load))
	root.AddCommand(moveCmd(load))
	root.AddCommand(editCmd(load))
	root.AddCommand(deleteCmd(load))
	root.AddCommand(clearCmd(load))
	root.AddCommand(importCmd(load))
	root.AddCommand(exportCmd(load))
	root.AddCommand(extractCmd(load))
	root.AddCommand(meetingsCmd(load))

	return root
}

// withRuntime opens the board, runs fn and releases the board
func withRuntime(cmd *cobra.Command, load Loader, fn func(ctx context.Context, rt *Runtime) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	rt, err := load(ctx)
	if err != nil {
		return err
	}
	if rt.Close != nil {
		defer rt.Close()
	}
	return fn(ctx, rt)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printf(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
