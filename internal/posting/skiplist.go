package posting

import (
	"math/rand"
)

// MaxHeight bounds a skip list tower; 32 levels comfortably covers corpora
// far larger than anything the ascending-intersection path will see.
const MaxHeight = 32

// node is one skip list entry carrying a Posting key and per-level forward
// pointers.
type node struct {
	key   Posting
	tower [MaxHeight]*node
}

// SkipList is an ordered structure over Postings, used as the "tall" side of
// a galloping merge: the shorter of two lists is walked linearly while the
// longer list is probed with FindGreaterOrEqual, skipping whole runs of
// non-matching postings instead of visiting each one.
type SkipList struct {
	head   *node
	height int
	length int
}

// NewSkipList builds a skip list from an already-sorted, duplicate-free
// List. Height is assigned per node via the standard coin-flip distribution.
func NewSkipList(list List) *SkipList {
	sl := &SkipList{head: &node{}, height: 1}
	rng := rand.New(rand.NewSource(int64(len(list)) + 1))
	var journey [MaxHeight]*node
	for i := range journey {
		journey[i] = sl.head
	}
	for _, p := range list {
		h := randomHeight(rng)
		n := &node{key: p}
		for level := 0; level < h; level++ {
			journey[level].tower[level] = n
			journey[level] = n
		}
		if h > sl.height {
			sl.height = h
		}
		sl.length++
	}
	return sl
}

func randomHeight(rng *rand.Rand) int {
	height := 1
	for rng.Float64() < 0.5 && height < MaxHeight {
		height++
	}
	return height
}

// Len returns the number of postings in the list. Intersect orders lists
// by the length of their List, not by this value.
func (sl *SkipList) Len() int { return sl.length }

// FindGreaterOrEqual returns the smallest posting with key >= target,
// galloping across levels instead of visiting every intermediate node; used
// to probe "does this doc_id appear" during ascending intersection.
func (sl *SkipList) FindGreaterOrEqual(target Posting) (result Posting, ok bool, comparisons int) {
	current := sl.head
	for level := sl.height - 1; level >= 0; level-- {
		for current.tower[level] != nil {
			comparisons++
			if !current.tower[level].key.Less(target) {
				break
			}
			current = current.tower[level]
		}
	}
	next := current.tower[0]
	if next == nil {
		return Posting{}, false, comparisons
	}
	return next.key, true, comparisons
}
