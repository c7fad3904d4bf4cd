// Command blazesearch is the CLI front end over the preindex/build/query
// pipeline (spec §6's CLI table): preindex, fstindex, stats, and repl.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var verbose bool

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "blazesearch",
		Short: "Offline-built full-text search over a Finnish subtitle corpus",
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "emit diagnostic counters and debug logging")
	root.AddCommand(newPreindexCmd(), newFstindexCmd(), newStatsCmd(), newReplCmd())
	return root
}

// newLogger builds the one slog.Logger threaded through a subcommand,
// raised from Info to Debug under -v/--verbose (spec's ambient logging
// stance — no package-level global logger).
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}
