package store

import (
	"fmt"

	"github.com/wizenheimer/blazesearch/internal/posting"
)

// ErrCorruptBlob indicates a stored postings blob's size is not a multiple
// of posting.EncodedSize — index-structural corruption per spec §7.
var ErrCorruptBlob = fmt.Errorf("store: corrupt postings blob")

// PostingsBuilder writes the dict_id -> PostingsList blob table (P).
type PostingsBuilder struct{ *builder }

// NewPostingsBuilder opens a fresh postings store for writing.
func NewPostingsBuilder(path string) (*PostingsBuilder, error) {
	b, err := newBuilder(path)
	if err != nil {
		return nil, err
	}
	return &PostingsBuilder{b}, nil
}

// Put writes dict_id -> postings blob. Never publish a dict_id whose FST
// insertion has not also succeeded (spec §5).
func (p *PostingsBuilder) Put(dictID uint64, list posting.List) error {
	return p.put(encodeU64(dictID), posting.EncodeBlob(list))
}

// Postings is a read-only view over a finalized postings store.
type Postings struct{ *reader }

// OpenPostings opens path read-only.
func OpenPostings(path string) (*Postings, error) {
	r, err := openReader(path)
	if err != nil {
		return nil, err
	}
	return &Postings{r}, nil
}

// Get fetches and decodes the postings blob for dict_id.
func (p *Postings) Get(dictID uint64) (posting.List, error) {
	blob, err := p.get(encodeU64(dictID))
	if err != nil {
		return nil, err
	}
	if blob == nil {
		return nil, fmt.Errorf("store: dict_id %d: %w", dictID, ErrMissingBucket)
	}
	list, err := posting.DecodeBlob(blob)
	if err != nil {
		return nil, fmt.Errorf("%w: dict_id %d: %v", ErrCorruptBlob, dictID, err)
	}
	return list, nil
}
