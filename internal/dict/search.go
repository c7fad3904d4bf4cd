package dict

import (
	"fmt"
	"math"
	"sort"

	"github.com/couchbase/vellum"
)

// Match is one term accepted by an automaton search: the corrected term,
// its dense dict_id, and the automaton's weight for it.
type Match struct {
	Term   string
	DictID uint64
	Weight float64
}

// Search enumerates every term the automaton accepts, in FST order, pruned
// by the automaton's CanMatch/WillAlwaysMatch state so unreachable subtrees
// are never visited (spec §4.3: "classic FST-automaton intersection").
// Results are returned sorted by weight ascending, ties broken
// lexicographically, using a NaN-safe total order (spec §4.3, §7, §9).
func (d *Dict) Search(aut *Automaton) ([]Match, error) {
	itr, err := d.fst.Search(aut.Inner, nil, nil)
	var matches []Match
	for err == nil {
		key, dictID := itr.Current()
		term := string(key)
		matches = append(matches, Match{
			Term:   term,
			DictID: dictID,
			Weight: aut.Weight(term),
		})
		err = itr.Next()
	}
	if err != nil && err != vellum.ErrIteratorDone {
		return nil, fmt.Errorf("dict: automaton search: %w", err)
	}

	sort.Slice(matches, func(i, j int) bool {
		wi, wj := totalWeight(matches[i].Weight), totalWeight(matches[j].Weight)
		if wi != wj {
			return wi < wj
		}
		return matches[i].Term < matches[j].Term
	})
	return matches, nil
}

// totalWeight imposes a total order on weights by treating NaN as +Inf, so
// sort.Slice's comparator is never asked to compare an unordered pair (spec
// §7 NumericError, §9).
func totalWeight(w float64) float64 {
	if math.IsNaN(w) {
		return math.Inf(1)
	}
	return w
}
