// Package analyzer turns raw text into the normalized term stream used by
// both ingestion and query time. The same Config must be used on both sides
// of the dictionary — spec §8 invariant 4 (round-trip lookup) depends on it.
package analyzer

import (
	"bufio"
	"io"
	"strings"

	"github.com/kljensen/snowball/english"
)

// Config controls term normalization. Unlike the teacher's AnalyzerConfig,
// tokenization itself is not configurable: spec §3 defines Term as "never
// containing the space character", so splitting is always on ASCII space,
// never on arbitrary non-letter runs.
type Config struct {
	Lowercase bool
	Stem      bool
	Stopwords map[string]struct{}
}

// DefaultConfig returns a Config that performs no normalization beyond
// tokenizing, matching an un-flagged preindex/repl invocation.
func DefaultConfig() Config {
	return Config{Stopwords: map[string]struct{}{}}
}

// Analyze tokenizes text on ASCII space and applies, in order: lowercasing,
// stopword removal, then optional stemming. Each stage is a no-op unless its
// Config field is set, mirroring the teacher's filter-pipeline shape.
func Analyze(text string, cfg Config) []string {
	raw := strings.Split(text, " ")
	out := make([]string, 0, len(raw))
	for _, tok := range raw {
		if tok == "" {
			continue
		}
		if cfg.Lowercase {
			tok = strings.ToLower(tok)
		}
		if len(cfg.Stopwords) > 0 {
			if _, stop := cfg.Stopwords[tok]; stop {
				continue
			}
		}
		if cfg.Stem {
			tok = english.Stem(tok, false)
		}
		out = append(out, tok)
	}
	return out
}

// Normalize applies Analyze's per-token transform to a single already-split
// token, used by the query engine to normalize a query term the same way a
// corpus term was normalized at ingest time, without re-tokenizing.
func Normalize(token string, cfg Config) (string, bool) {
	if cfg.Lowercase {
		token = strings.ToLower(token)
	}
	if len(cfg.Stopwords) > 0 {
		if _, stop := cfg.Stopwords[token]; stop {
			return "", false
		}
	}
	if cfg.Stem {
		token = english.Stem(token, false)
	}
	return token, true
}

// LoadStopwords reads a UTF-8 stopwords file, one term per line, trailing
// newline tolerated (spec §6).
func LoadStopwords(r io.Reader) (map[string]struct{}, error) {
	set := make(map[string]struct{})
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		set[line] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return set, nil
}
