// Package query implements the query engine Q (spec §4.4): tokenizing a
// user line, resolving each term to a PostingsList (exact or approximate),
// intersecting per-term lists, and optionally reranking by cosine TF-IDF.
package query

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/wizenheimer/blazesearch/internal/analyzer"
	"github.com/wizenheimer/blazesearch/internal/dict"
	"github.com/wizenheimer/blazesearch/internal/posting"
	"github.com/wizenheimer/blazesearch/internal/store"
)

// Engine bundles the read-only handles a query needs: the FST dictionary,
// the postings store, and the auxiliary tdf/norm/docs tables.
type Engine struct {
	Dict     *dict.Dict
	Postings *store.Postings
	TDF      *store.TDF
	Norm     *store.Norm
	Docs     *store.Docs // optional
	Analyzer analyzer.Config
}

// AutomatonFactory builds an automaton for one query term, used in
// approximate mode (spec §4.3). A nil factory means exact-only lookup.
type AutomatonFactory func(term string) (*dict.Automaton, error)

// Options configures one query.
type Options struct {
	Method    posting.Method
	Rerank    bool
	Automaton AutomatonFactory // nil for exact lookup
}

// Correction records the automaton's choice for one query term in
// approximate mode, for diagnostic display.
type Correction struct {
	Query     string
	Corrected string
	Weight    float64
}

// ScoredDoc is one ranked result.
type ScoredDoc struct {
	DocID       uint64
	Score       float64
	Components  map[string]float64 // per-term score contribution, reranked mode only
	TermFreq    map[string]uint64
	Postings    map[string][]posting.Posting // raw matched postings per term, for positional output
	Text        string
	HasText     bool
	Corrections []Correction
}

// Result is the outcome of one query line.
type Result struct {
	Docs        []ScoredDoc
	Diagnostics posting.Diagnostics
}

// ErrEmptyQuery is returned for a blank or all-stopword query line (spec
// §4.4: "user-visible diagnostic", not an abort).
var ErrEmptyQuery = fmt.Errorf("query: empty query")

// ErrNoMatches is returned when every query term is out of the dictionary
// or the intersection is empty.
var ErrNoMatches = fmt.Errorf("query: no matching documents")

// Run executes one query line end to end.
func (e *Engine) Run(line string, opts Options) (Result, error) {
	rawTerms := strings.Split(line, " ")
	var terms []string
	for _, tok := range rawTerms {
		if tok == "" {
			continue
		}
		norm, ok := analyzer.Normalize(tok, e.Analyzer)
		if !ok {
			continue
		}
		terms = append(terms, norm)
	}
	if len(terms) == 0 {
		return Result{}, ErrEmptyQuery
	}

	termLists := make([]posting.TermList, 0, len(terms))
	corrections := make(map[string][]Correction)
	for _, term := range terms {
		list, corr, err := e.resolve(term, opts.Automaton)
		if err != nil {
			return Result{}, err
		}
		termLists = append(termLists, posting.TermList{Term: term, List: list})
		if len(corr) > 0 {
			corrections[term] = corr
		}
	}

	matches, diag := posting.Intersect(termLists, opts.Method)
	if len(matches) == 0 {
		return Result{Diagnostics: diag}, ErrNoMatches
	}

	// Corrections are query-term-scoped, not per-matched-doc: a doc surfaced
	// via an approximate term carries every correction recorded for that
	// term, not only the one dict_id that happened to contain it.
	docs := make([]ScoredDoc, 0, len(matches))
	for _, m := range matches {
		sd := ScoredDoc{DocID: m.DocID, TermFreq: m.TermFreq, Postings: m.Postings}
		for _, term := range terms {
			sd.Corrections = append(sd.Corrections, corrections[term]...)
		}
		docs = append(docs, sd)
	}

	if opts.Rerank {
		if err := e.rerank(docs, terms); err != nil {
			return Result{}, err
		}
		sort.Slice(docs, func(i, j int) bool {
			if docs[i].Score != docs[j].Score {
				return docs[i].Score > docs[j].Score
			}
			return docs[i].DocID < docs[j].DocID
		})
	} else {
		sort.Slice(docs, func(i, j int) bool { return docs[i].DocID < docs[j].DocID })
	}

	if e.Docs != nil {
		for i := range docs {
			text, ok, err := e.Docs.Get(docs[i].DocID)
			if err != nil {
				return Result{}, fmt.Errorf("query: fetching doc text: %w", err)
			}
			docs[i].Text, docs[i].HasText = text, ok
		}
	}

	return Result{Docs: docs, Diagnostics: diag}, nil
}

// resolve looks a single normalized term up, either exactly or by running
// an automaton against the dictionary and unioning postings from every
// matched dict_id (spec §4.4 step 2).
func (e *Engine) resolve(term string, factory AutomatonFactory) (posting.List, []Correction, error) {
	if factory == nil {
		id, ok, err := e.Dict.Get([]byte(term))
		if err != nil {
			return nil, nil, fmt.Errorf("query: looking up %q: %w", term, err)
		}
		if !ok {
			return nil, nil, nil
		}
		list, err := e.Postings.Get(id)
		if err != nil {
			return nil, nil, fmt.Errorf("query: %w", err)
		}
		return list, nil, nil
	}

	aut, err := factory(term)
	if err != nil {
		return nil, nil, fmt.Errorf("query: building automaton for %q: %w", term, err)
	}
	matches, err := e.Dict.Search(aut)
	if err != nil {
		return nil, nil, fmt.Errorf("query: automaton search for %q: %w", term, err)
	}

	var union posting.List
	corrections := make([]Correction, 0, len(matches))
	for _, m := range matches {
		list, err := e.Postings.Get(m.DictID)
		if err != nil {
			return nil, nil, fmt.Errorf("query: %w", err)
		}
		union = append(union, list...)
		corrections = append(corrections, Correction{Query: term, Corrected: m.Term, Weight: m.Weight})
	}
	sort.Slice(union, func(i, j int) bool { return union[i].Less(union[j]) })
	return union, corrections, nil
}

// rerank computes the cosine TF-IDF score for each surviving document (spec
// §4.4 step 4):
//
//	score(d) = (Σ_t (1+log10(tf_t,d)) * log10(N/df_t) * (1/sqrt(|Q|))) / sqrt(norm(d))
//
// df_t is read straight from the tdf table — per spec §9's open question,
// this repository stores total posting count there, not distinct document
// count, and the formula consumes it unmodified, end to end.
func (e *Engine) rerank(docs []ScoredDoc, terms []string) error {
	n, err := e.corpusSize()
	if err != nil {
		return err
	}
	termWeight := 1.0 / math.Sqrt(float64(len(terms)))

	idf := make(map[string]float64, len(terms))
	for _, term := range terms {
		df, ok, err := e.TDF.Get(term)
		if err != nil {
			return fmt.Errorf("query: reading tdf for %q: %w", term, err)
		}
		if !ok || df == 0 {
			idf[term] = 0
			continue
		}
		idf[term] = math.Log10(float64(n) / float64(df))
	}

	for i := range docs {
		norm, ok, err := e.Norm.Get(docs[i].DocID)
		if err != nil {
			return fmt.Errorf("query: reading norm for doc %d: %w", docs[i].DocID, err)
		}
		if !ok || norm == 0 {
			continue
		}
		components := make(map[string]float64, len(docs[i].TermFreq))
		var sum float64
		for term, tf := range docs[i].TermFreq {
			if tf == 0 {
				continue
			}
			component := (1 + math.Log10(float64(tf))) * idf[term] * termWeight
			components[term] = component
			sum += component
		}
		docs[i].Score = sum / math.Sqrt(float64(norm))
		docs[i].Components = components
	}
	return nil
}

// corpusSize returns N: the norm table's entry count, whether or not a docs
// store is open. The docs store's own entry count is not read.
func (e *Engine) corpusSize() (int, error) {
	if e.Docs != nil {
		// docs has no direct count accessor; norm is populated 1:1 with
		// docs during ingestion, so it is the persisted cardinality.
		return e.Norm.DocCount()
	}
	return e.Norm.DocCount()
}
