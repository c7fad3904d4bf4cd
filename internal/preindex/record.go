package preindex

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/wizenheimer/blazesearch/internal/posting"
)

// Record is one line of the preindex stream: a term paired with one of its
// occurrences (spec §3's "Preindex record").
type Record struct {
	Term    string
	Posting posting.Posting
}

// WriteTo appends the big-endian wire encoding of r to w: u64 term_len ||
// term_bytes || u64 doc_id || u64 sent_id || u64 word_id (spec §3).
func (r Record) WriteTo(w io.Writer) error {
	var lenBuf [8]byte
	binary.BigEndian.PutUint64(lenBuf[:], uint64(len(r.Term)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return err
	}
	if _, err := io.WriteString(w, r.Term); err != nil {
		return err
	}
	_, err := w.Write(r.Posting.Encode(nil))
	return err
}

// Reader streams Records from a preindex file in the order they were
// written, mirroring the reference implementation's PreindexReader
// iterator.
type Reader struct {
	r *bufio.Reader
}

// NewReader wraps r as a preindex stream reader.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReaderSize(r, 64*1024)}
}

// Next returns the next Record, or io.EOF once the stream is exhausted.
func (pr *Reader) Next() (Record, error) {
	var lenBuf [8]byte
	if _, err := io.ReadFull(pr.r, lenBuf[:]); err != nil {
		if err == io.ErrUnexpectedEOF {
			return Record{}, fmt.Errorf("preindex: truncated record header: %w", err)
		}
		return Record{}, err
	}
	termLen := binary.BigEndian.Uint64(lenBuf[:])

	termBuf := make([]byte, termLen)
	if _, err := io.ReadFull(pr.r, termBuf); err != nil {
		return Record{}, fmt.Errorf("preindex: truncated term (wanted %d bytes): %w", termLen, err)
	}

	var postingBuf [posting.EncodedSize]byte
	if _, err := io.ReadFull(pr.r, postingBuf[:]); err != nil {
		return Record{}, fmt.Errorf("preindex: truncated posting: %w", err)
	}
	p, err := posting.Decode(postingBuf[:])
	if err != nil {
		return Record{}, err
	}
	return Record{Term: string(termBuf), Posting: p}, nil
}
