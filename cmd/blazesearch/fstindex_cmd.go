package main

import (
	"github.com/spf13/cobra"

	"github.com/wizenheimer/blazesearch/internal/build"
)

func newFstindexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fstindex PREINDEX FSTINDEX POSTINGS [stopwords]",
		Short: "Build the FST term dictionary and postings store from a preindex file",
		Args:  cobra.RangeArgs(3, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			// The optional fourth positional (a stopwords file) is accepted
			// for CLI-surface parity with the reference implementation but
			// unused here: stopword removal already happened at ingest time
			// (spec §4.1), and a term excluded from the preindex stream
			// never reaches this stage to begin with.
			opts := build.Options{
				PreindexPath: args[0],
				FSTPath:      args[1],
				PostingsPath: args[2],
			}
			return build.Run(opts)
		},
	}
	return cmd
}
