package store

import (
	"fmt"

	"github.com/golang/snappy"
)

// DocsBuilder writes the optional doc_id -> raw text table (spec §2/§6),
// snappy-compressed since its values are the only ones read in bulk for
// REPL display.
type DocsBuilder struct{ *builder }

// NewDocsBuilder opens a fresh docs table for writing.
func NewDocsBuilder(path string) (*DocsBuilder, error) {
	b, err := newBuilder(path)
	if err != nil {
		return nil, err
	}
	return &DocsBuilder{b}, nil
}

// Put writes doc_id -> text.
func (d *DocsBuilder) Put(docID uint64, text string) error {
	return d.put(encodeU64(docID), snappy.Encode(nil, []byte(text)))
}

// Docs is a read-only view over a finalized docs table.
type Docs struct{ *reader }

// OpenDocs opens path read-only.
func OpenDocs(path string) (*Docs, error) {
	r, err := openReader(path)
	if err != nil {
		return nil, err
	}
	return &Docs{r}, nil
}

// Get returns the raw text for a document, if present.
func (d *Docs) Get(docID uint64) (string, bool, error) {
	v, err := d.get(encodeU64(docID))
	if err != nil || v == nil {
		return "", false, err
	}
	raw, err := snappy.Decode(nil, v)
	if err != nil {
		return "", false, fmt.Errorf("store: decompressing doc %d: %w", docID, err)
	}
	return string(raw), true, nil
}
