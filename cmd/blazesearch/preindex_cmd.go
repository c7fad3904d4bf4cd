package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wizenheimer/blazesearch/internal/analyzer"
	"github.com/wizenheimer/blazesearch/internal/preindex"
)

func newPreindexCmd() *cobra.Command {
	var lower bool
	var stem bool
	cmd := &cobra.Command{
		Use:   "preindex COLLECTION PREINDEX TDF [NORM] [DOCS] [STOPWORDS]",
		Short: "Walk a subtitle collection and write the sorted preindex stream",
		Args:  cobra.RangeArgs(3, 6),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := analyzer.Config{Lowercase: lower, Stem: stem}
			opts := preindex.Options{
				CollectionRoot: args[0],
				PreindexPath:   args[1],
				TDFPath:        args[2],
				Logger:         newLogger(),
			}
			if len(args) > 3 {
				opts.NormPath = args[3]
			}
			if len(args) > 4 {
				opts.DocsPath = args[4]
			}
			if len(args) > 5 {
				f, err := os.Open(args[5])
				if err != nil {
					return fmt.Errorf("preindex: opening stopwords file %s: %w", args[5], err)
				}
				defer f.Close()
				set, err := analyzer.LoadStopwords(f)
				if err != nil {
					return fmt.Errorf("preindex: %w", err)
				}
				cfg.Stopwords = set
			}
			opts.Analyzer = cfg
			return preindex.Run(opts)
		},
	}
	cmd.Flags().BoolVarP(&lower, "lower", "l", false, "lowercase terms at ingest")
	cmd.Flags().BoolVar(&stem, "stem", false, "apply snowball stemming after stopword removal")
	return cmd
}
