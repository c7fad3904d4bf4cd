// Package posting defines the on-disk posting record and the ordered lists
// built from it.
//
// A Posting records one occurrence of a term: which document, which sentence
// within the document, and which word within the sentence. A PostingsList is
// the sorted sequence of every occurrence of a single term across the corpus.
package posting

import (
	"encoding/binary"
	"fmt"
)

// Posting is a single term occurrence: (doc_id, sent_id, word_id).
type Posting struct {
	DocID  uint64
	SentID uint64
	WordID uint64
}

// EncodedSize is the fixed wire size of one Posting: three big-endian u64s.
const EncodedSize = 24

// Less reports whether p sorts strictly before other under
// (doc_id, sent_id, word_id) lexicographic order.
func (p Posting) Less(other Posting) bool {
	if p.DocID != other.DocID {
		return p.DocID < other.DocID
	}
	if p.SentID != other.SentID {
		return p.SentID < other.SentID
	}
	return p.WordID < other.WordID
}

// Equal reports whether p and other are the same occurrence.
func (p Posting) Equal(other Posting) bool {
	return p.DocID == other.DocID && p.SentID == other.SentID && p.WordID == other.WordID
}

// Encode appends the big-endian wire representation of p to buf.
func (p Posting) Encode(buf []byte) []byte {
	var tmp [EncodedSize]byte
	binary.BigEndian.PutUint64(tmp[0:8], p.DocID)
	binary.BigEndian.PutUint64(tmp[8:16], p.SentID)
	binary.BigEndian.PutUint64(tmp[16:24], p.WordID)
	return append(buf, tmp[:]...)
}

// Decode reads one Posting from the front of buf.
func Decode(buf []byte) (Posting, error) {
	if len(buf) < EncodedSize {
		return Posting{}, fmt.Errorf("posting: short buffer (%d bytes, need %d)", len(buf), EncodedSize)
	}
	return Posting{
		DocID:  binary.BigEndian.Uint64(buf[0:8]),
		SentID: binary.BigEndian.Uint64(buf[8:16]),
		WordID: binary.BigEndian.Uint64(buf[16:24]),
	}, nil
}

// List is a PostingsList: Postings sorted strictly ascending with no
// duplicates, invariant required by spec §3 and §8.3.
type List []Posting

// EncodeBlob packs a List into the opaque blob format stored in P: a
// concatenation of fixed-layout Posting records, no header (spec §6).
func EncodeBlob(list List) []byte {
	buf := make([]byte, 0, len(list)*EncodedSize)
	for _, p := range list {
		buf = p.Encode(buf)
	}
	return buf
}

// DecodeBlob unpacks a postings blob into a List. The record count is
// derived from blob_size / EncodedSize; a size not a multiple of EncodedSize
// indicates index corruption.
func DecodeBlob(blob []byte) (List, error) {
	if len(blob)%EncodedSize != 0 {
		return nil, fmt.Errorf("posting: corrupt blob size %d (not a multiple of %d)", len(blob), EncodedSize)
	}
	n := len(blob) / EncodedSize
	list := make(List, n)
	for i := 0; i < n; i++ {
		p, err := Decode(blob[i*EncodedSize:])
		if err != nil {
			return nil, err
		}
		list[i] = p
	}
	return list, nil
}

// TermFreqByDoc returns, for this list, the per-document term frequency
// (occurrence count) map, keyed by doc_id. Used by intersection to derive
// the tf_{t,d} values the cosine rerank consumes.
func (l List) TermFreqByDoc() map[uint64]uint64 {
	freq := make(map[uint64]uint64)
	for _, p := range l {
		freq[p.DocID]++
	}
	return freq
}

// PostingsByDoc groups this list's postings by doc_id, preserving each
// group's ascending (sent_id, word_id) order. Used for positional repl
// output (spec §4.4 step 5).
func (l List) PostingsByDoc() map[uint64][]Posting {
	byDoc := make(map[uint64][]Posting)
	for _, p := range l {
		byDoc[p.DocID] = append(byDoc[p.DocID], p)
	}
	return byDoc
}
