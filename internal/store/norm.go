package store

// NormBuilder writes the doc_id -> sum-of-tf-squared table, the cosine
// rerank's denominator source (spec §4.4).
type NormBuilder struct{ *builder }

// NewNormBuilder opens a fresh norm table for writing.
func NewNormBuilder(path string) (*NormBuilder, error) {
	b, err := newBuilder(path)
	if err != nil {
		return nil, err
	}
	return &NormBuilder{b}, nil
}

// Put writes doc_id -> sum of per-term tf^2 within that document.
func (n *NormBuilder) Put(docID, sumSquares uint64) error {
	return n.put(encodeU64(docID), encodeU64(sumSquares))
}

// Norm is a read-only view over a finalized norm table.
type Norm struct{ *reader }

// OpenNorm opens path read-only.
func OpenNorm(path string) (*Norm, error) {
	r, err := openReader(path)
	if err != nil {
		return nil, err
	}
	return &Norm{r}, nil
}

// Get returns the stored norm for a document, if present.
func (n *Norm) Get(docID uint64) (uint64, bool, error) {
	v, err := n.get(encodeU64(docID))
	if err != nil || v == nil {
		return 0, false, err
	}
	return decodeU64(v), true, nil
}

// DocCount returns the number of documents this table has a norm for, used
// as the corpus cardinality N in the cosine rerank formula (spec §4.4).
func (n *Norm) DocCount() (int, error) {
	return n.keyCount()
}
