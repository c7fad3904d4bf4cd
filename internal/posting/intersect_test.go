package posting

import "testing"

// mirrors spec §8 scenario S5: term A docs {1,2,5,7}, term B docs {2,5,9}.
func TestIntersectEquivalence(t *testing.T) {
	a := TermList{Term: "a", List: List{
		{DocID: 1, SentID: 0, WordID: 0},
		{DocID: 2, SentID: 0, WordID: 0},
		{DocID: 5, SentID: 0, WordID: 0},
		{DocID: 7, SentID: 0, WordID: 0},
	}}
	b := TermList{Term: "b", List: List{
		{DocID: 2, SentID: 0, WordID: 1},
		{DocID: 5, SentID: 0, WordID: 1},
		{DocID: 9, SentID: 0, WordID: 1},
	}}

	for _, method := range []Method{Naive, Ascending} {
		got, _ := Intersect([]TermList{a, b}, method)
		if len(got) != 2 || got[0].DocID != 2 || got[1].DocID != 5 {
			t.Fatalf("method %v: got %+v, want docs {2,5}", method, got)
		}
	}
}

func TestIntersectEmptyTermYieldsEmpty(t *testing.T) {
	a := TermList{Term: "a", List: List{{DocID: 1, SentID: 0, WordID: 0}}}
	b := TermList{Term: "missing", List: nil}
	got, _ := Intersect([]TermList{a, b}, Ascending)
	if len(got) != 0 {
		t.Fatalf("got %+v, want empty", got)
	}
}

func TestIntersectSingleTerm(t *testing.T) {
	a := TermList{Term: "a", List: List{
		{DocID: 1, SentID: 0, WordID: 0},
		{DocID: 1, SentID: 0, WordID: 1},
	}}
	got, _ := Intersect([]TermList{a}, Naive)
	if len(got) != 1 || got[0].TermFreq["a"] != 2 {
		t.Fatalf("got %+v, want one doc with tf=2", got)
	}
}

func TestIntersectCarriesRawPostingsForPositionalOutput(t *testing.T) {
	a := TermList{Term: "a", List: List{{DocID: 1, SentID: 0, WordID: 0}}}
	b := TermList{Term: "b", List: List{{DocID: 1, SentID: 2, WordID: 3}}}
	got, _ := Intersect([]TermList{a, b}, Ascending)
	if len(got) != 1 {
		t.Fatalf("got %+v, want one doc", got)
	}
	bp := got[0].Postings["b"]
	if len(bp) != 1 || bp[0].SentID != 2 || bp[0].WordID != 3 {
		t.Fatalf("Postings[b] = %+v, want one posting at sent=2 word=3", bp)
	}
}

func TestParseMethod(t *testing.T) {
	if m, ok := ParseMethod("naive"); !ok || m != Naive {
		t.Fatalf("ParseMethod(naive) = %v, %v", m, ok)
	}
	if m, ok := ParseMethod("ascending"); !ok || m != Ascending {
		t.Fatalf("ParseMethod(ascending) = %v, %v", m, ok)
	}
	if _, ok := ParseMethod("bogus"); ok {
		t.Fatal("ParseMethod(bogus) should fail")
	}
}
