// Package dict implements the compiled term dictionary D: a finite-state
// transducer mapping terms to dense dict_ids, queried either by exact
// lookup or by intersecting an automaton against the FST's byte-trie
// structure (spec §4.2, §4.3).
package dict

import (
	"bytes"
	"fmt"
	"os"

	"github.com/couchbase/vellum"
)

// Builder accumulates term -> dict_id pairs and finalizes them into an FST
// file. Keys must be inserted in strictly ascending order — guaranteed by
// the sorted preindex stream (spec §3, §4.2, §5).
type Builder struct {
	buf     bytes.Buffer
	inner   *vellum.Builder
	path    string
	nextID  uint64
	lastKey []byte
}

// NewBuilder starts a fresh FST build, writing to an in-memory buffer that
// is flushed to path on Finish (spec §5: never publish a partially built
// FST).
func NewBuilder(path string) (*Builder, error) {
	b := &Builder{path: path}
	inner, err := vellum.New(&b.buf, nil)
	if err != nil {
		return nil, fmt.Errorf("dict: starting FST builder: %w", err)
	}
	b.inner = inner
	return b, nil
}

// Insert adds term -> dict_id, using the caller-supplied dict_id. Insert
// does not assign ids itself, since the dictionary/postings builder must keep D and P's ids in lock
// step (spec §4.2 invariant: dict_id assignments are dense, contiguous, and
// match FST iteration order).
func (b *Builder) Insert(term []byte, dictID uint64) error {
	if b.lastKey != nil && bytes.Compare(term, b.lastKey) <= 0 {
		return fmt.Errorf("dict: term %q is not strictly greater than previous term %q", term, b.lastKey)
	}
	if err := b.inner.Insert(term, dictID); err != nil {
		return fmt.Errorf("dict: inserting %q: %w", term, err)
	}
	b.lastKey = append(b.lastKey[:0], term...)
	return nil
}

// Finish closes the FST builder and writes the finished bytes to disk. Only
// after Finish succeeds may the paired postings store transaction commit
// (spec §5).
func (b *Builder) Finish() error {
	if err := b.inner.Close(); err != nil {
		return fmt.Errorf("dict: finalizing FST: %w", err)
	}
	if err := os.WriteFile(b.path, b.buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("dict: writing %s: %w", b.path, err)
	}
	return nil
}

// Dict is a read-only, memory-mapped view over a finalized FST file.
type Dict struct {
	fst *vellum.FST
}

// Open memory-maps an FST file for exact and automaton-driven lookups. No
// locking is required for concurrent readers (spec §5).
func Open(path string) (*Dict, error) {
	fst, err := vellum.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dict: opening FST %s: %w", path, err)
	}
	return &Dict{fst: fst}, nil
}

// Close releases the mmap'd FST file.
func (d *Dict) Close() error { return d.fst.Close() }

// Get performs an exact lookup, returning the dict_id for term if present.
func (d *Dict) Get(term []byte) (uint64, bool, error) {
	id, exists, err := d.fst.Get(term)
	if err != nil {
		return 0, false, fmt.Errorf("dict: looking up %q: %w", term, err)
	}
	return id, exists, nil
}

// Len returns the number of distinct terms in the dictionary.
func (d *Dict) Len() int { return d.fst.Len() }
