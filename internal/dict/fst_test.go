package dict

import (
	"path/filepath"
	"testing"
)

func TestBuildThenOpenExactLookup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dict.fst")
	b, err := NewBuilder(path)
	if err != nil {
		t.Fatalf("NewBuilder: %v", err)
	}
	terms := []string{"bat", "car", "cat"}
	for i, term := range terms {
		if err := b.Insert([]byte(term), uint64(i)); err != nil {
			t.Fatalf("Insert(%q): %v", term, err)
		}
	}
	if err := b.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}

	d, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer d.Close()

	if d.Len() != len(terms) {
		t.Fatalf("Len = %d, want %d", d.Len(), len(terms))
	}
	for i, term := range terms {
		id, ok, err := d.Get([]byte(term))
		if err != nil || !ok || id != uint64(i) {
			t.Fatalf("Get(%q) = %d, %v, %v; want %d, true, nil", term, id, ok, err, i)
		}
	}
	if _, ok, _ := d.Get([]byte("dog")); ok {
		t.Fatal("Get(dog) should miss")
	}
}

func TestInsertRequiresAscendingKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dict.fst")
	b, err := NewBuilder(path)
	if err != nil {
		t.Fatalf("NewBuilder: %v", err)
	}
	if err := b.Insert([]byte("cat"), 0); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := b.Insert([]byte("bat"), 1); err == nil {
		t.Fatal("expected error inserting out-of-order key")
	}
}
