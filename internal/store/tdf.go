package store

// TDFBuilder writes the term -> frequency table. Spec §9's open question
// applies here: the caller decides whether the value is a distinct-document
// count or a total-posting count; this layer stores whatever it is given.
type TDFBuilder struct{ *builder }

// NewTDFBuilder opens a fresh tdf table for writing.
func NewTDFBuilder(path string) (*TDFBuilder, error) {
	b, err := newBuilder(path)
	if err != nil {
		return nil, err
	}
	return &TDFBuilder{b}, nil
}

// Put writes term -> frequency.
func (t *TDFBuilder) Put(term string, freq uint64) error {
	return t.put([]byte(term), encodeU64(freq))
}

// TDF is a read-only view over a finalized tdf table.
type TDF struct{ *reader }

// OpenTDF opens path read-only.
func OpenTDF(path string) (*TDF, error) {
	r, err := openReader(path)
	if err != nil {
		return nil, err
	}
	return &TDF{r}, nil
}

// Get returns the stored frequency for term, if present.
func (t *TDF) Get(term string) (uint64, bool, error) {
	v, err := t.get([]byte(term))
	if err != nil || v == nil {
		return 0, false, err
	}
	return decodeU64(v), true, nil
}
