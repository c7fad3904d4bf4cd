package main

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"

	prompt "github.com/c-bata/go-prompt"
	"github.com/spf13/cobra"

	"github.com/wizenheimer/blazesearch/internal/analyzer"
	"github.com/wizenheimer/blazesearch/internal/dict"
	"github.com/wizenheimer/blazesearch/internal/posting"
	"github.com/wizenheimer/blazesearch/internal/query"
	"github.com/wizenheimer/blazesearch/internal/store"
)

func newReplCmd() *cobra.Command {
	var (
		lower      bool
		stem       bool
		methodFlag string
		norerank   bool
		positions  bool
	)
	cmd := &cobra.Command{
		Use:   "repl FSTINDEX POSTINGS [TDF NORM DOCS STOPWORDS] [ERROR_MODEL] [DUMP_FILE]",
		Short: "Interactively query a built index",
		Args: func(cmd *cobra.Command, args []string) error {
			switch len(args) {
			case 2, 6, 7, 8:
				return nil
			default:
				return fmt.Errorf("repl: expected FSTINDEX POSTINGS [TDF NORM DOCS STOPWORDS] [ERROR_MODEL] [DUMP_FILE], got %d args", len(args))
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			method, ok := posting.ParseMethod(methodFlag)
			if !ok {
				return fmt.Errorf("repl: unknown method %q (want naive or ascending)", methodFlag)
			}
			return runRepl(args, lower, stem, method, !norerank, positions)
		},
	}
	cmd.Flags().BoolVarP(&lower, "lower", "l", false, "lowercase terms at query time")
	cmd.Flags().BoolVar(&stem, "stem", false, "apply snowball stemming after stopword removal")
	cmd.Flags().StringVarP(&methodFlag, "method", "m", "ascending", "intersection method: naive or ascending")
	cmd.Flags().BoolVarP(&norerank, "norerank", "r", false, "skip cosine TF-IDF rerank")
	cmd.Flags().BoolVarP(&positions, "positions", "p", false, "include (sent_id, word_id) in result lines")
	return cmd
}

// replSession owns every handle a repl invocation opened, so a single
// defer-chain in runRepl can close them all regardless of which optional
// positionals were supplied.
type replSession struct {
	engine    *query.Engine
	method    posting.Method
	rerank    bool
	positions bool
	log       *slog.Logger
	automaton query.AutomatonFactory
	dumpFile  *os.File
	closers   []func() error
}

func runRepl(args []string, lower, stem bool, method posting.Method, rerank, positions bool) error {
	log := newLogger()
	sess := &replSession{method: method, rerank: rerank, positions: positions, log: log}
	defer sess.close()

	d, err := dict.Open(args[0])
	if err != nil {
		return err
	}
	sess.closers = append(sess.closers, d.Close)

	p, err := store.OpenPostings(args[1])
	if err != nil {
		return err
	}
	sess.closers = append(sess.closers, p.Close)

	engine := &query.Engine{Dict: d, Postings: p, Analyzer: analyzer.Config{Lowercase: lower, Stem: stem}}

	if len(args) >= 6 {
		tdf, err := store.OpenTDF(args[2])
		if err != nil {
			return err
		}
		sess.closers = append(sess.closers, tdf.Close)
		engine.TDF = tdf

		norm, err := store.OpenNorm(args[3])
		if err != nil {
			return err
		}
		sess.closers = append(sess.closers, norm.Close)
		engine.Norm = norm

		if args[4] != "" {
			docs, err := store.OpenDocs(args[4])
			if err != nil {
				return err
			}
			sess.closers = append(sess.closers, docs.Close)
			engine.Docs = docs
		}

		if args[5] != "" {
			f, err := os.Open(args[5])
			if err != nil {
				return fmt.Errorf("repl: opening stopwords file %s: %w", args[5], err)
			}
			set, err := analyzer.LoadStopwords(f)
			f.Close()
			if err != nil {
				return fmt.Errorf("repl: %w", err)
			}
			engine.Analyzer.Stopwords = set
		}
	}
	if engine.Norm == nil && rerank {
		return fmt.Errorf("repl: rerank requires TDF and NORM stores; rerun with [TDF NORM DOCS STOPWORDS] or pass -r/--norerank")
	}
	sess.engine = engine

	if len(args) >= 7 && args[6] != "" {
		factory, err := parseErrorModel(args[6])
		if err != nil {
			return err
		}
		sess.automaton = factory
	}

	if len(args) >= 8 && args[7] != "" {
		f, err := os.OpenFile(args[7], os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("repl: opening dump file %s: %w", args[7], err)
		}
		sess.dumpFile = f
		sess.closers = append(sess.closers, f.Close)
	}

	prompt.New(sess.executor, sess.completer, prompt.OptionPrefix("blazesearch> ")).Run()
	return nil
}

func (s *replSession) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		_ = s.closers[i]()
	}
}

// parseErrorModel turns the ERROR_MODEL positional into an
// query.AutomatonFactory, per spec §9's {exact | levenshtein-k |
// transducer-file} configuration values.
func parseErrorModel(spec string) (query.AutomatonFactory, error) {
	if spec == "exact" {
		return nil, nil
	}
	if k, ok := strings.CutPrefix(spec, "levenshtein-"); ok {
		cap, err := strconv.ParseFloat(k, 64)
		if err != nil {
			return nil, fmt.Errorf("repl: parsing levenshtein bound %q: %w", k, err)
		}
		maxEdits := uint8(math.Floor(cap))
		return func(term string) (*dict.Automaton, error) {
			return dict.NewLevenshtein(term, maxEdits)
		}, nil
	}
	// Otherwise the value names a transducer-stack file: already-denoised
	// for a specific query by the external error-model collaborator (spec
	// §1), so every term resolved in this session replays the same loaded
	// acceptor.
	t, err := dict.LoadTransducer(spec)
	if err != nil {
		return nil, err
	}
	aut := dict.NewWeightedTransducer(t)
	return func(term string) (*dict.Automaton, error) { return aut, nil }, nil
}

func (s *replSession) completer(d prompt.Document) []prompt.Suggest {
	return nil
}

func (s *replSession) executor(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	if line == "exit" || line == "quit" {
		os.Exit(0)
	}

	opts := query.Options{Method: s.method, Rerank: s.rerank, Automaton: s.automaton}
	result, err := s.engine.Run(line, opts)
	if err != nil {
		fmt.Println(err)
		return
	}

	for _, doc := range result.Docs {
		fmt.Print(s.formatDoc(doc))
	}
	s.log.Debug("query diagnostics",
		slog.Int("sort_comparisons", result.Diagnostics.SortComparisons),
		slog.Int("intersect_comparisons", result.Diagnostics.IntersectComparisons))
	if s.dumpFile != nil {
		fmt.Fprintf(s.dumpFile, "%s\n", line)
		for _, doc := range result.Docs {
			fmt.Fprint(s.dumpFile, s.formatDoc(doc))
		}
	}
}

func (s *replSession) formatDoc(doc query.ScoredDoc) string {
	var b strings.Builder
	fmt.Fprintf(&b, "doc=%d", doc.DocID)
	if s.rerank {
		fmt.Fprintf(&b, " score=%.6f", doc.Score)
	}
	for _, c := range doc.Corrections {
		fmt.Fprintf(&b, " corrected(%s->%s,w=%.2f)", c.Query, c.Corrected, c.Weight)
	}
	b.WriteString("\n")
	if s.positions {
		for term, postings := range doc.Postings {
			for _, p := range postings {
				fmt.Fprintf(&b, "  %s@(sent=%d,word=%d)\n", term, p.SentID, p.WordID)
			}
		}
	}
	if doc.HasText {
		fmt.Fprintf(&b, "  %s\n", doc.Text)
	}
	return b.String()
}
