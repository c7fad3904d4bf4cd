package preindex

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/wizenheimer/blazesearch/internal/analyzer"
	"github.com/wizenheimer/blazesearch/internal/store"
)

func writeSubtitleFile(t *testing.T, root string, docID int, language, body string) string {
	t.Helper()
	dir := filepath.Join(root, fmt.Sprintf("%d", docID), "sub")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	path := filepath.Join(dir, "a.xml.gz")

	var xmlBody bytes.Buffer
	xmlBody.WriteString(`<document>`)
	xmlBody.WriteString(fmt.Sprintf(`<meta field="source" name="original">%s</meta>`, language))
	xmlBody.WriteString(`<s id="1">`)
	for i, word := range splitWords(body) {
		xmlBody.WriteString(fmt.Sprintf(`<w id="%d">%s</w>`, i, word))
	}
	xmlBody.WriteString(`</s></document>`)

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer f.Close()
	gz := gzip.NewWriter(f)
	if _, err := gz.Write(xmlBody.Bytes()); err != nil {
		t.Fatalf("gzip write: %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}
	return path
}

func splitWords(s string) []string {
	var out []string
	cur := ""
	for _, r := range s {
		if r == ' ' {
			if cur != "" {
				out = append(out, cur)
				cur = ""
			}
			continue
		}
		cur += string(r)
	}
	if cur != "" {
		out = append(out, cur)
	}
	return out
}

func TestRunSingleDocExact(t *testing.T) {
	root := t.TempDir()
	writeSubtitleFile(t, root, 1, "Finnish Subtitles", "the quick brown fox")

	outDir := t.TempDir()
	opts := Options{
		CollectionRoot: root,
		PreindexPath:   filepath.Join(outDir, "preindex.bin"),
		TDFPath:        filepath.Join(outDir, "tdf.db"),
		NormPath:       filepath.Join(outDir, "norm.db"),
		Analyzer:       analyzer.Config{Lowercase: true},
	}
	if err := Run(opts); err != nil {
		t.Fatalf("Run: %v", err)
	}

	f, err := os.Open(opts.PreindexPath)
	if err != nil {
		t.Fatalf("Open preindex: %v", err)
	}
	defer f.Close()
	reader := NewReader(f)

	var terms []string
	for {
		rec, err := reader.Next()
		if err != nil {
			break
		}
		terms = append(terms, rec.Term)
	}
	if len(terms) != 4 {
		t.Fatalf("got %d records, want 4: %v", len(terms), terms)
	}

	tdf, err := store.OpenTDF(opts.TDFPath)
	if err != nil {
		t.Fatalf("OpenTDF: %v", err)
	}
	defer tdf.Close()
	if freq, ok, _ := tdf.Get("brown"); !ok || freq != 1 {
		t.Fatalf("tdf[brown] = %d, %v", freq, ok)
	}
}

func TestRunDedupByDocID(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "42")
	for _, name := range []string{"a", "b"} {
		sub := filepath.Join(dir, name)
		if err := os.MkdirAll(sub, 0o755); err != nil {
			t.Fatalf("MkdirAll: %v", err)
		}
		var xmlBody bytes.Buffer
		xmlBody.WriteString(`<document><meta field="source" name="original">Finnish</meta>`)
		xmlBody.WriteString(`<s id="1"><w id="0">sana</w></s></document>`)
		f, err := os.Create(filepath.Join(sub, "f.xml.gz"))
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		gz := gzip.NewWriter(f)
		gz.Write(xmlBody.Bytes())
		gz.Close()
		f.Close()
	}

	outDir := t.TempDir()
	opts := Options{
		CollectionRoot: root,
		PreindexPath:   filepath.Join(outDir, "preindex.bin"),
		TDFPath:        filepath.Join(outDir, "tdf.db"),
		NormPath:       filepath.Join(outDir, "norm.db"),
	}
	if err := Run(opts); err != nil {
		t.Fatalf("Run: %v", err)
	}

	norm, err := store.OpenNorm(opts.NormPath)
	if err != nil {
		t.Fatalf("OpenNorm: %v", err)
	}
	defer norm.Close()
	n, err := norm.DocCount()
	if err != nil {
		t.Fatalf("DocCount: %v", err)
	}
	if n != 1 {
		t.Fatalf("DocCount = %d, want 1 (dedup by doc_id)", n)
	}
}

func TestRunLanguageFilter(t *testing.T) {
	root := t.TempDir()
	writeSubtitleFile(t, root, 7, "English", "hello world")

	outDir := t.TempDir()
	opts := Options{
		CollectionRoot: root,
		PreindexPath:   filepath.Join(outDir, "preindex.bin"),
		TDFPath:        filepath.Join(outDir, "tdf.db"),
		NormPath:       filepath.Join(outDir, "norm.db"),
	}
	if err := Run(opts); err != nil {
		t.Fatalf("Run: %v", err)
	}

	f, err := os.Open(opts.PreindexPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()
	reader := NewReader(f)
	if _, err := reader.Next(); err == nil {
		t.Fatal("expected empty preindex stream for non-Finnish document")
	}
}

func TestDocIDFromPath(t *testing.T) {
	id, ok := docIDFromPath(filepath.Join("root", "42", "sub", "f.xml.gz"))
	if !ok || id != 42 {
		t.Fatalf("docIDFromPath = %d, %v, want 42, true", id, ok)
	}
	if _, ok := docIDFromPath(filepath.Join("root", "notanumber", "sub", "f.xml.gz")); ok {
		t.Fatal("expected failure for non-numeric grandparent directory")
	}
}
