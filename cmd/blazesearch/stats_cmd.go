package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wizenheimer/blazesearch/internal/dict"
	"github.com/wizenheimer/blazesearch/internal/store"
)

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats FSTINDEX POSTINGS",
		Short: "Print term and postings counts for a built index",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := dict.Open(args[0])
			if err != nil {
				return err
			}
			defer d.Close()

			p, err := store.OpenPostings(args[1])
			if err != nil {
				return err
			}
			defer p.Close()

			var totalPostings int
			for id := uint64(0); id < uint64(d.Len()); id++ {
				list, err := p.Get(id)
				if err != nil {
					return fmt.Errorf("stats: reading postings for dict_id %d: %w", id, err)
				}
				totalPostings += len(list)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "terms: %d\n", d.Len())
			fmt.Fprintf(cmd.OutOrStdout(), "postings: %d\n", totalPostings)
			return nil
		},
	}
	return cmd
}
