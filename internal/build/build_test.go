package build

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/wizenheimer/blazesearch/internal/dict"
	"github.com/wizenheimer/blazesearch/internal/posting"
	"github.com/wizenheimer/blazesearch/internal/preindex"
	"github.com/wizenheimer/blazesearch/internal/store"
)

func writePreindexFixture(t *testing.T, path string, records []preindex.Record) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer f.Close()
	for _, r := range records {
		if err := r.WriteTo(f); err != nil {
			t.Fatalf("WriteTo: %v", err)
		}
	}
}

func TestRunBuildsDenseContiguousDictIDs(t *testing.T) {
	dir := t.TempDir()
	preindexPath := filepath.Join(dir, "preindex.bin")

	// already sorted by (term, doc_id, sent_id, word_id), as the
	// preindexer guarantees.
	records := []preindex.Record{
		{Term: "bat", Posting: posting.Posting{DocID: 1, SentID: 0, WordID: 0}},
		{Term: "cat", Posting: posting.Posting{DocID: 1, SentID: 0, WordID: 1}},
		{Term: "cat", Posting: posting.Posting{DocID: 2, SentID: 0, WordID: 0}},
	}
	writePreindexFixture(t, preindexPath, records)

	opts := Options{
		PreindexPath: preindexPath,
		FSTPath:      filepath.Join(dir, "dict.fst"),
		PostingsPath: filepath.Join(dir, "postings.db"),
	}
	if err := Run(opts); err != nil {
		t.Fatalf("Run: %v", err)
	}

	d, err := dict.Open(opts.FSTPath)
	if err != nil {
		t.Fatalf("dict.Open: %v", err)
	}
	defer d.Close()
	if d.Len() != 2 {
		t.Fatalf("Len = %d, want 2", d.Len())
	}

	p, err := store.OpenPostings(opts.PostingsPath)
	if err != nil {
		t.Fatalf("OpenPostings: %v", err)
	}
	defer p.Close()

	batID, ok, err := d.Get([]byte("bat"))
	if err != nil || !ok || batID != 0 {
		t.Fatalf("Get(bat) = %v, %v, %v, want dict_id 0", batID, ok, err)
	}
	batPostings, err := p.Get(batID)
	if err != nil || len(batPostings) != 1 {
		t.Fatalf("postings(bat) = %+v, %v", batPostings, err)
	}

	catID, ok, err := d.Get([]byte("cat"))
	if err != nil || !ok || catID != 1 {
		t.Fatalf("Get(cat) = %v, %v, %v, want dict_id 1", catID, ok, err)
	}
	catPostings, err := p.Get(catID)
	if err != nil || len(catPostings) != 2 {
		t.Fatalf("postings(cat) = %+v, %v, want 2 entries", catPostings, err)
	}
}
