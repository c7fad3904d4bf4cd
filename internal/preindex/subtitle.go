// Package preindex implements the ingestion stage: walking a collection of
// compressed subtitle XML files, filtering by source language, and
// externalising a sorted positional token stream plus the tdf/norm/docs
// auxiliary tables (spec §4.1).
package preindex

import (
	"compress/gzip"
	"encoding/xml"
	"fmt"
	"io"
)

// EventKind tags one token-stream event from a subtitle parser (spec §4.1:
// "the parser yields a sequence of events").
type EventKind int

const (
	EventMeta EventKind = iota
	EventSentenceStart
	EventSentenceEnd
	EventWord
	EventEndOfStream
)

// Event is one unit of the parser's token stream.
type Event struct {
	Kind       EventKind
	SentenceID uint64
	WordID     uint64
	Text       string
	// Meta holds the document's metadata block, keyed by (field, name) as
	// in the reference implementation's (\"source\",\"original\") lookup.
	Meta map[[2]string]string
}

// SubtitleReader pulls one Event at a time from a subtitle file, mirroring
// the teacher's pull-based Iterator shape (skiplist.go's HasNext/Next)
// rather than a push-based channel.
type SubtitleReader interface {
	// Next returns the next event, or io.EOF once EventEndOfStream has been
	// consumed. A malformed document is reported via a non-nil, non-EOF
	// error — the caller logs and skips the file (spec §4.1, non-fatal).
	Next() (Event, error)
}

// docXML is the minimal OpenSubtitles-style document shape this default
// parser understands: a metadata block followed by sentences of words. The
// real subtitle XML parser is an out-of-scope collaborator (spec §1); this
// is a concrete, sufficient implementation of the SubtitleReader interface
// so the preindexer is fully exercised end to end.
type docXML struct {
	XMLName   xml.Name    `xml:"document"`
	Meta      []metaEntry `xml:"meta"`
	Sentences []struct {
		ID    string `xml:"id,attr"`
		Words []struct {
			ID   string `xml:"id,attr"`
			Text string `xml:",chardata"`
		} `xml:"w"`
	} `xml:"s"`
}

type metaEntry struct {
	Field string `xml:"field,attr"`
	Name  string `xml:"name,attr"`
	Value string `xml:",chardata"`
}

// xmlReader is the default SubtitleReader: decompress with gzip, parse the
// whole document with encoding/xml, then replay it as an event stream.
type xmlReader struct {
	events []Event
	pos    int
}

// OpenXMLGz opens a `.xml.gz` subtitle file and returns a SubtitleReader
// over its contents.
func OpenXMLGz(r io.Reader) (SubtitleReader, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("preindex: opening gzip stream: %w", err)
	}
	defer gz.Close()

	var doc docXML
	if err := xml.NewDecoder(gz).Decode(&doc); err != nil {
		return nil, fmt.Errorf("preindex: parsing subtitle xml: %w", err)
	}

	meta := make(map[[2]string]string, len(doc.Meta))
	for _, e := range doc.Meta {
		meta[[2]string{e.Field, e.Name}] = e.Value
	}

	var events []Event
	events = append(events, Event{Kind: EventMeta, Meta: meta})
	for _, s := range doc.Sentences {
		sentID, err := parseUint(s.ID)
		if err != nil {
			return nil, fmt.Errorf("preindex: parsing sentence id %q: %w", s.ID, err)
		}
		events = append(events, Event{Kind: EventSentenceStart, SentenceID: sentID})
		for _, w := range s.Words {
			wordID, err := parseUint(w.ID)
			if err != nil {
				return nil, fmt.Errorf("preindex: parsing word id %q: %w", w.ID, err)
			}
			events = append(events, Event{Kind: EventWord, SentenceID: sentID, WordID: wordID, Text: w.Text})
		}
		events = append(events, Event{Kind: EventSentenceEnd, SentenceID: sentID})
	}
	events = append(events, Event{Kind: EventEndOfStream})

	return &xmlReader{events: events}, nil
}

func (x *xmlReader) Next() (Event, error) {
	if x.pos >= len(x.events) {
		return Event{}, io.EOF
	}
	e := x.events[x.pos]
	x.pos++
	return e, nil
}

func parseUint(s string) (uint64, error) {
	var v uint64
	_, err := fmt.Sscanf(s, "%d", &v)
	return v, err
}
