package posting

import "sort"

// Method selects the postings-intersection strategy (spec §4.4).
type Method int

const (
	// Naive folds term posting lists left to right in query order.
	Naive Method = iota
	// Ascending sorts lists by length before folding, galloping on the
	// shortest list first.
	Ascending
)

// ParseMethod maps the -m/--method flag value to a Method.
func ParseMethod(s string) (Method, bool) {
	switch s {
	case "naive":
		return Naive, true
	case "ascending", "":
		return Ascending, true
	default:
		return 0, false
	}
}

// TermList pairs a query term's resolved List with the term text used to
// label per-document term-frequency components during rerank.
type TermList struct {
	Term string
	List List
}

// Diagnostics reports comparison counts from an intersection pass, surfaced
// by -v/--verbose (spec §9's configuration table).
type Diagnostics struct {
	SortComparisons      int
	IntersectComparisons int
}

// DocMatch is one surviving document after intersecting every query term's
// postings: the per-term frequency of that term within the document, plus
// (for positional repl output) the raw postings each term matched in it.
type DocMatch struct {
	DocID    uint64
	TermFreq map[string]uint64
	Postings map[string][]Posting
}

// Intersect combines the postings lists of every query term into the set of
// documents containing all of them, with per-document per-term frequencies.
// Naive and Ascending produce identical result sets (spec §8 invariant 6);
// only the reported Diagnostics differ.
func Intersect(terms []TermList, method Method) ([]DocMatch, Diagnostics) {
	var diag Diagnostics
	if len(terms) == 0 {
		return nil, diag
	}
	ordered := terms
	if method == Ascending {
		ordered = make([]TermList, len(terms))
		copy(ordered, terms)
		sort.Slice(ordered, func(i, j int) bool {
			diag.SortComparisons++
			return len(ordered[i].List) < len(ordered[j].List)
		})
	}

	acc := seed(ordered[0])
	for _, next := range ordered[1:] {
		var cmp int
		if method == Ascending {
			acc, cmp = intersectTwoGalloping(acc, next)
		} else {
			acc, cmp = intersectTwo(acc, next)
		}
		diag.IntersectComparisons += cmp
		if len(acc) == 0 {
			break
		}
	}

	sort.Slice(acc, func(i, j int) bool { return acc[i].DocID < acc[j].DocID })
	return acc, diag
}

func seed(t TermList) []DocMatch {
	byDoc := t.List.TermFreqByDoc()
	postingsByDoc := t.List.PostingsByDoc()
	ids := make([]uint64, 0, len(byDoc))
	for id := range byDoc {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]DocMatch, 0, len(ids))
	for _, id := range ids {
		out = append(out, DocMatch{
			DocID:    id,
			TermFreq: map[string]uint64{t.Term: byDoc[id]},
			Postings: map[string][]Posting{t.Term: postingsByDoc[id]},
		})
	}
	return out
}

// intersectTwo merges a left-hand accumulator of already-matched documents
// against the next term's postings list by ascending doc_id, the standard
// two-way merge named in spec §4.4.
func intersectTwo(left []DocMatch, right TermList) ([]DocMatch, int) {
	rightFreq := right.List.TermFreqByDoc()
	rightPostings := right.List.PostingsByDoc()
	rightIDs := make([]uint64, 0, len(rightFreq))
	for id := range rightFreq {
		rightIDs = append(rightIDs, id)
	}
	sort.Slice(rightIDs, func(i, j int) bool { return rightIDs[i] < rightIDs[j] })

	out := make([]DocMatch, 0, min(len(left), len(rightIDs)))
	i, j, comparisons := 0, 0, 0
	for i < len(left) && j < len(rightIDs) {
		comparisons++
		switch {
		case left[i].DocID < rightIDs[j]:
			i++
		case left[i].DocID > rightIDs[j]:
			j++
		default:
			merged := left[i]
			merged.TermFreq[right.Term] = rightFreq[rightIDs[j]]
			merged.Postings[right.Term] = rightPostings[rightIDs[j]]
			out = append(out, merged)
			i++
			j++
		}
	}
	return out, comparisons
}

// intersectTwoGalloping is the Ascending-mode counterpart of intersectTwo:
// rather than a linear doc_id merge, it builds a skip list over the next
// term's postings and probes it once per already-matched document,
// skipping whole runs of non-matching postings (spec §4.4's "galloping on
// shortest first").
func intersectTwoGalloping(left []DocMatch, right TermList) ([]DocMatch, int) {
	sl := NewSkipList(right.List)
	rightFreq := right.List.TermFreqByDoc()
	rightPostings := right.List.PostingsByDoc()
	out := make([]DocMatch, 0, len(left))
	comparisons := 0
	for _, m := range left {
		probe := Posting{DocID: m.DocID, SentID: 0, WordID: 0}
		found, ok, cmp := sl.FindGreaterOrEqual(probe)
		comparisons += cmp
		if ok && found.DocID == m.DocID {
			merged := m
			merged.TermFreq[right.Term] = rightFreq[m.DocID]
			merged.Postings[right.Term] = rightPostings[m.DocID]
			out = append(out, merged)
		}
	}
	return out, comparisons
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
