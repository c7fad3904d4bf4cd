package dict

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/couchbase/vellum"
	"github.com/couchbase/vellum/levenshtein"
)

// stateBudget bounds the number of states a loaded weighted transducer may
// have (256). LoadTransducer enforces it; NewLevenshtein applies no state
// budget to the Levenshtein DFA it builds.
const stateBudget = 256

// weightCap bounds accumulated weight for the weighted-transducer family
// (30.0 in the reference implementation, spec §4.3).
const weightCap = 30.0

// Automaton pairs a vellum.Automaton (used to prune unreachable FST
// subtrees during intersection) with a Weight function recomputed per
// matched term — the same separation the reference implementation uses
// (get_levenshtein_weights/get_weights are computed independently of the
// automaton's internal DFA state, not read out of it).
type Automaton struct {
	Inner  vellum.Automaton
	Weight func(term string) float64
}

// NewLevenshtein builds a bounded-edit-distance automaton for query,
// accepting any term within maxEdits edits (spec §4.3 family 1).
func NewLevenshtein(query string, maxEdits uint8) (*Automaton, error) {
	lev, err := levenshtein.NewLevenshteinAutomatonBuilder(maxEdits, false)
	if err != nil {
		return nil, fmt.Errorf("dict: building levenshtein automaton builder: %w", err)
	}
	dfa, err := lev.BuildDfa(query, maxEdits)
	if err != nil {
		return nil, fmt.Errorf("dict: building levenshtein dfa for %q: %w", query, err)
	}
	return &Automaton{
		Inner:  dfa,
		Weight: func(term string) float64 { return float64(editDistance(query, term, int(maxEdits))) },
	}, nil
}

// editDistance computes the Levenshtein edit distance between a and b,
// capped at bound+1 (any distance beyond the automaton's own cap is
// reported as bound+1 and will never actually surface, since the automaton
// itself refuses to accept such terms).
func editDistance(a, b string, bound int) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			del := prev[j] + 1
			ins := curr[j-1] + 1
			sub := prev[j-1] + cost
			best := del
			if ins < best {
				best = ins
			}
			if sub < best {
				best = sub
			}
			curr[j] = best
		}
		prev, curr = curr, prev
	}
	d := prev[len(rb)]
	if d > bound+1 {
		return bound + 1
	}
	return d
}

// transition is one weighted edge of a loaded transducer stack.
type transition struct {
	next   int
	weight float64
}

// Transducer is a weighted finite-state acceptor loaded from an external
// error-model file (spec §4.3 family 2, "opaque to this spec"). It
// implements vellum.Automaton directly since no library in the corpus
// provides a weighted-transducer automaton (see DESIGN.md).
type Transducer struct {
	start    int
	accept   map[int]float64
	edges    map[int]map[byte]transition
	nStates  int
	capacity float64
}

// LoadTransducer reads a denoised weighted-acceptor description: one
// transition per line as "state byte next weight", blank-separated, plus a
// trailing section of accept states as "accept state weight". The file
// format is this implementation's own choice since the spec treats the
// error-model file as opaque to everything but the transducer library that
// produced it.
func LoadTransducer(path string) (*Transducer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dict: opening error model %s: %w", path, err)
	}
	defer f.Close()

	t := &Transducer{
		accept: make(map[int]float64),
		edges:  make(map[int]map[byte]transition),
	}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "start":
			t.start, err = strconv.Atoi(fields[1])
		case "accept":
			var state int
			var weight float64
			state, err = strconv.Atoi(fields[1])
			if err == nil {
				weight, err = strconv.ParseFloat(fields[2], 64)
			}
			if err == nil {
				t.accept[state] = weight
			}
		default:
			var state, next int
			var b int
			var weight float64
			state, err = strconv.Atoi(fields[0])
			if err == nil {
				b, err = strconv.Atoi(fields[1])
			}
			if err == nil {
				next, err = strconv.Atoi(fields[2])
			}
			if err == nil {
				weight, err = strconv.ParseFloat(fields[3], 64)
			}
			if err == nil {
				if t.edges[state] == nil {
					t.edges[state] = make(map[byte]transition)
				}
				t.edges[state][byte(b)] = transition{next: next, weight: weight}
				if state+1 > t.nStates {
					t.nStates = state + 1
				}
				if next+1 > t.nStates {
					t.nStates = next + 1
				}
			}
		}
		if err != nil {
			return nil, fmt.Errorf("dict: parsing error model %s: %w", path, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("dict: reading error model %s: %w", path, err)
	}
	if t.nStates > stateBudget {
		return nil, fmt.Errorf("dict: error model exceeds state budget (%d > %d)", t.nStates, stateBudget)
	}
	t.capacity = weightCap
	return t, nil
}

// Start implements vellum.Automaton.
func (t *Transducer) Start() int { return t.start }

// CanMatch implements vellum.Automaton: a negative state means the walk
// fell off the transducer and can never match.
func (t *Transducer) CanMatch(state int) bool { return state >= 0 }

// WillAlwaysMatch implements vellum.Automaton; this automaton family never
// trivially accepts an unbounded suffix.
func (t *Transducer) WillAlwaysMatch(int) bool { return false }

// IsMatch implements vellum.Automaton.
func (t *Transducer) IsMatch(state int) bool {
	_, ok := t.accept[state]
	return ok
}

// Accept implements vellum.Automaton, stepping on one input byte.
func (t *Transducer) Accept(state int, b byte) int {
	if state < 0 {
		return -1
	}
	edge, ok := t.edges[state][b]
	if !ok {
		return -1
	}
	return edge.next
}

// weight replays state transitions for term from the start state,
// accumulating edge weight and the final accept weight, returning +Inf if
// term is not accepted or the running total exceeds the configured weight
// cap (spec §4.3's "wrapped with a weight-cap").
func (t *Transducer) weight(term string) float64 {
	state := t.start
	total := 0.0
	for i := 0; i < len(term); i++ {
		edge, ok := t.edges[state][term[i]]
		if !ok {
			return math.Inf(1)
		}
		total += edge.weight
		if total > t.capacity {
			return math.Inf(1)
		}
		state = edge.next
	}
	acceptWeight, ok := t.accept[state]
	if !ok {
		return math.Inf(1)
	}
	return total + acceptWeight
}

// NewWeightedTransducer wraps a loaded Transducer as an Automaton usable by
// Search. The file at LoadTransducer's path is expected to already be the
// denoised acceptor for a specific query — composing a general error model
// with a fresh query string is the external transducer library's job (spec
// §1: "the weighted-transducer library used for error modeling" is an
// out-of-scope collaborator); this repo consumes its output, not its input.
func NewWeightedTransducer(t *Transducer) *Automaton {
	return &Automaton{Inner: t, Weight: t.weight}
}
