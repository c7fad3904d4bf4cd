package preindex

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/RoaringBitmap/roaring/roaring64"

	"github.com/wizenheimer/blazesearch/internal/analyzer"
	"github.com/wizenheimer/blazesearch/internal/posting"
	"github.com/wizenheimer/blazesearch/internal/store"
)

// languageSubstring is the language filter applied to the first MetaBlock's
// (source, original) value (spec §4.1).
const languageSubstring = "Finnish"

// Options configures one preindex run.
type Options struct {
	CollectionRoot string
	PreindexPath   string
	TDFPath        string
	NormPath       string // optional; empty disables norm-table writes
	DocsPath       string // optional; empty disables raw-text retention
	Analyzer       analyzer.Config
	Logger         *slog.Logger
}

// tuple is one (term, doc_id, sent_id, word_id) token emitted while walking
// a single document, before the global sort (spec §4.1).
type tuple struct {
	term string
	p    posting.Posting
}

// Run walks Options.CollectionRoot, filters and tokenizes every retained
// subtitle, and writes the sorted preindex stream plus the tdf/norm/docs
// tables (spec §4.1).
func Run(opts Options) error {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	paths, err := collectCandidates(opts.CollectionRoot)
	if err != nil {
		return fmt.Errorf("preindex: walking %s: %w", opts.CollectionRoot, err)
	}

	// doc_id is a full u64 (spec §3); roaring64 (not the 32-bit roaring.Bitmap)
	// is required so two doc_ids sharing their low 32 bits don't falsely dedup.
	seen := roaring64.New()
	var (
		mu      sync.Mutex
		all     []tuple
		docText = make(map[uint64]string)
		wg      sync.WaitGroup
	)

	for _, p := range paths {
		docID, ok := docIDFromPath(p)
		if !ok {
			return fmt.Errorf("preindex: path %s does not match <root>/.../<doc_id>/<anything>/<file>.xml.gz", p)
		}

		mu.Lock()
		alreadySeen := seen.Contains(docID)
		if !alreadySeen {
			seen.Add(docID)
		}
		mu.Unlock()
		if alreadySeen {
			log.Debug("skipping duplicate doc_id", slog.Uint64("doc_id", docID), slog.String("path", p))
			continue
		}

		wg.Add(1)
		go func(path string, docID uint64) {
			defer wg.Done()
			tuples, text, err := processFile(path, docID, opts.Analyzer)
			if err != nil {
				log.Warn("skipping subtitle file", slog.String("path", path), slog.Any("error", err))
				return
			}
			if tuples == nil {
				return // filtered by language
			}
			mu.Lock()
			all = append(all, tuples...)
			if opts.DocsPath != "" {
				docText[docID] = text
			}
			mu.Unlock()
		}(p, docID)
	}
	wg.Wait()

	sort.Slice(all, func(i, j int) bool {
		if all[i].term != all[j].term {
			return all[i].term < all[j].term
		}
		return all[i].p.Less(all[j].p)
	})

	if err := writePreindex(opts.PreindexPath, all); err != nil {
		return err
	}
	if err := writeTDF(opts.TDFPath, all); err != nil {
		return err
	}
	if opts.NormPath != "" {
		if err := writeNorm(opts.NormPath, all, opts.Analyzer); err != nil {
			return err
		}
	}
	if opts.DocsPath != "" {
		if err := writeDocs(opts.DocsPath, docText); err != nil {
			return err
		}
	}
	return nil
}

// collectCandidates walks root recursively and returns every regular file
// whose name ends in .xml.gz (spec §4.1).
func collectCandidates(root string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(d.Name(), ".xml.gz") {
			out = append(out, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// docIDFromPath parses the grandparent directory of path as a u64 doc_id
// (spec §3, §6: "<ROOT>/.../<doc_id>/<anything>/<file>.xml.gz").
func docIDFromPath(path string) (uint64, bool) {
	grandparent := filepath.Base(filepath.Dir(filepath.Dir(path)))
	id, err := strconv.ParseUint(grandparent, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// processFile parses one subtitle file end to end: language filter, token
// extraction, and (if requested) raw-text reconstruction for the docs
// table. A nil tuple slice with a nil error means the file was filtered out
// by language, not an error.
func processFile(path string, docID uint64, cfg analyzer.Config) ([]tuple, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	parser, err := OpenXMLGz(f)
	if err != nil {
		return nil, "", err
	}

	var (
		tuples    []tuple
		textWords []string
		sentenceID uint64
		languageOK bool
		sawMeta    bool
	)
	for {
		event, err := parser.Next()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, "", err
		}
		switch event.Kind {
		case EventMeta:
			sawMeta = true
			value := event.Meta[[2]string{"source", "original"}]
			languageOK = strings.Contains(value, languageSubstring)
		case EventSentenceStart:
			sentenceID = event.SentenceID
		case EventWord:
			if !languageOK {
				continue
			}
			terms := analyzer.Analyze(event.Text, cfg)
			for _, term := range terms {
				tuples = append(tuples, tuple{term: term, p: posting.Posting{
					DocID:  docID,
					SentID: sentenceID,
					WordID: event.WordID,
				}})
			}
			textWords = append(textWords, event.Text)
		case EventEndOfStream:
		}
	}

	if !sawMeta || !languageOK {
		return nil, "", nil
	}
	return tuples, strings.Join(textWords, " "), nil
}

func writePreindex(path string, tuples []tuple) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("preindex: creating %s: %w", path, err)
	}
	defer f.Close()
	for _, t := range tuples {
		if err := (Record{Term: t.term, Posting: t.p}).WriteTo(f); err != nil {
			return fmt.Errorf("preindex: writing %s: %w", path, err)
		}
	}
	return nil
}

// writeTDF groups the sorted stream by term and writes term -> count(group)
// — a count of total postings, not distinct documents. Spec §9's open
// question: this is the reference implementation's own (likely buggy)
// statistic, preserved end-to-end rather than silently corrected.
func writeTDF(path string, tuples []tuple) error {
	b, err := store.NewTDFBuilder(path)
	if err != nil {
		return err
	}
	var (
		curTerm string
		curN    uint64
		started bool
	)
	flush := func() error {
		if !started {
			return nil
		}
		return b.Put(curTerm, curN)
	}
	for _, t := range tuples {
		if !started || t.term != curTerm {
			if err := flush(); err != nil {
				b.Abort()
				return err
			}
			curTerm, curN, started = t.term, 0, true
		}
		curN++
	}
	if err := flush(); err != nil {
		b.Abort()
		return err
	}
	return b.Commit()
}

// writeNorm accumulates, per document, the sum of per-term tf^2 (spec §3,
// §4.1).
func writeNorm(path string, tuples []tuple, cfg analyzer.Config) error {
	freqByDoc := make(map[uint64]map[string]uint64)
	for _, t := range tuples {
		m := freqByDoc[t.p.DocID]
		if m == nil {
			m = make(map[string]uint64)
			freqByDoc[t.p.DocID] = m
		}
		m[t.term]++
	}

	b, err := store.NewNormBuilder(path)
	if err != nil {
		return err
	}
	for docID, freqs := range freqByDoc {
		var sumSquares uint64
		for _, tf := range freqs {
			sumSquares += tf * tf
		}
		if err := b.Put(docID, sumSquares); err != nil {
			b.Abort()
			return err
		}
	}
	return b.Commit()
}

func writeDocs(path string, docText map[uint64]string) error {
	b, err := store.NewDocsBuilder(path)
	if err != nil {
		return err
	}
	for docID, text := range docText {
		if err := b.Put(docID, text); err != nil {
			b.Abort()
			return err
		}
	}
	return b.Commit()
}
