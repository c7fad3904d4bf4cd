package posting

import "testing"

func TestEncodeDecodeRoundTrip(t *testing.T) {
	p := Posting{DocID: 42, SentID: 7, WordID: 3}
	buf := p.Encode(nil)
	if len(buf) != EncodedSize {
		t.Fatalf("encoded size = %d, want %d", len(buf), EncodedSize)
	}
	got, err := Decode(buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got != p {
		t.Fatalf("Decode = %+v, want %+v", got, p)
	}
}

func TestEncodeBlobDecodeBlob(t *testing.T) {
	list := List{
		{DocID: 1, SentID: 0, WordID: 0},
		{DocID: 1, SentID: 0, WordID: 1},
		{DocID: 2, SentID: 0, WordID: 0},
	}
	blob := EncodeBlob(list)
	if len(blob) != len(list)*EncodedSize {
		t.Fatalf("blob size = %d, want %d", len(blob), len(list)*EncodedSize)
	}
	got, err := DecodeBlob(blob)
	if err != nil {
		t.Fatalf("DecodeBlob: %v", err)
	}
	if len(got) != len(list) {
		t.Fatalf("decoded %d postings, want %d", len(got), len(list))
	}
	for i := range list {
		if got[i] != list[i] {
			t.Fatalf("posting %d = %+v, want %+v", i, got[i], list[i])
		}
	}
}

func TestDecodeBlobCorruptSize(t *testing.T) {
	if _, err := DecodeBlob(make([]byte, EncodedSize-1)); err == nil {
		t.Fatal("expected error on non-multiple-of-24 blob")
	}
}

func TestLessOrdering(t *testing.T) {
	cases := []struct {
		a, b Posting
		want bool
	}{
		{Posting{1, 0, 0}, Posting{2, 0, 0}, true},
		{Posting{2, 0, 0}, Posting{1, 0, 0}, false},
		{Posting{1, 1, 0}, Posting{1, 2, 0}, true},
		{Posting{1, 1, 5}, Posting{1, 1, 5}, false},
		{Posting{1, 1, 4}, Posting{1, 1, 5}, true},
	}
	for _, c := range cases {
		if got := c.a.Less(c.b); got != c.want {
			t.Errorf("%+v.Less(%+v) = %v, want %v", c.a, c.b, got, c.want)
		}
	}
}

func TestTermFreqByDoc(t *testing.T) {
	list := List{
		{DocID: 1, SentID: 0, WordID: 0},
		{DocID: 1, SentID: 0, WordID: 3},
		{DocID: 2, SentID: 0, WordID: 0},
	}
	freq := list.TermFreqByDoc()
	if freq[1] != 2 || freq[2] != 1 {
		t.Fatalf("freq = %+v, want {1:2, 2:1}", freq)
	}
}
