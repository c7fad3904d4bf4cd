// Package build implements the dictionary/postings builder (spec §4.2):
// streaming the sorted preindex file, grouping consecutive records by term,
// and producing the FST term dictionary alongside the postings store.
package build

import (
	"fmt"
	"io"
	"os"

	"github.com/wizenheimer/blazesearch/internal/dict"
	"github.com/wizenheimer/blazesearch/internal/posting"
	"github.com/wizenheimer/blazesearch/internal/preindex"
	"github.com/wizenheimer/blazesearch/internal/store"
)

// Options configures one fstindex run.
type Options struct {
	PreindexPath string
	FSTPath      string
	PostingsPath string
}

// Run streams PreindexPath and writes FSTPath + PostingsPath. Because the
// input stream is sorted by (term, doc_id, sent_id, word_id), grouping by
// term only requires watching for a term change (spec §4.2).
func Run(opts Options) error {
	f, err := os.Open(opts.PreindexPath)
	if err != nil {
		return fmt.Errorf("build: opening %s: %w", opts.PreindexPath, err)
	}
	defer f.Close()
	reader := preindex.NewReader(f)

	fstBuilder, err := dict.NewBuilder(opts.FSTPath)
	if err != nil {
		return fmt.Errorf("build: %w", err)
	}
	postingsBuilder, err := store.NewPostingsBuilder(opts.PostingsPath)
	if err != nil {
		return fmt.Errorf("build: %w", err)
	}

	var (
		curTerm string
		curList posting.List
		dictID  uint64
		started bool
	)

	flush := func() error {
		if !started {
			return nil
		}
		if err := fstBuilder.Insert([]byte(curTerm), dictID); err != nil {
			return err
		}
		if err := postingsBuilder.Put(dictID, curList); err != nil {
			return err
		}
		dictID++
		return nil
	}

	for {
		rec, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			postingsBuilder.Abort()
			return fmt.Errorf("build: reading preindex stream: %w", err)
		}

		if !started || rec.Term != curTerm {
			if err := flush(); err != nil {
				postingsBuilder.Abort()
				return fmt.Errorf("build: %w", err)
			}
			curTerm, curList, started = rec.Term, nil, true
		}
		curList = append(curList, rec.Posting)
	}
	if err := flush(); err != nil {
		postingsBuilder.Abort()
		return fmt.Errorf("build: %w", err)
	}

	// The FST must finalize before the postings store commits — an
	// implementation must never publish an index whose FST finalization
	// has not succeeded (spec §5).
	if err := fstBuilder.Finish(); err != nil {
		postingsBuilder.Abort()
		return fmt.Errorf("build: %w", err)
	}
	if err := postingsBuilder.Commit(); err != nil {
		return fmt.Errorf("build: %w", err)
	}
	return nil
}
