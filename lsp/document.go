package lsp

import (
	"sort"
	"sync"
	"unicode/utf8"

	"fortio.org/safecast"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dhamidi/typeorder/order"
)

// document is an open editor buffer and its latest analysis.
type document struct {
	uri     protocol.DocumentUri
	path    string
	version *protocol.UInteger
	text    []byte
	// lines holds the byte offset of every line start.
	lines []int
	diags []order.Diagnostic
}

func newDocument(uri protocol.DocumentUri, path string, text []byte) *document {
	doc := &document{uri: uri, path: path, text: text, lines: []int{0}}
	for i, c := range text {
		if c == '\n' {
			doc.lines = append(doc.lines, i+1)
		}
	}
	return doc
}

// position converts a byte offset into an LSP position. Characters are
// counted in UTF-16 code units.
func (d *document) position(offset int) protocol.Position {
	offset = max(0, min(offset, len(d.text)))
	line := sort.Search(len(d.lines), func(i int) bool { return d.lines[i] > offset }) - 1

	character := 0
	for rest := d.text[d.lines[line]:offset]; len(rest) > 0; {
		r, size := utf8.DecodeRune(rest)
		rest = rest[size:]
		character += utf16Len(r)
	}
	return protocol.Position{Line: toUInteger(line), Character: toUInteger(character)}
}

// offset converts an LSP position back into a byte offset. Positions past
// the end of a line clamp to the line end.
func (d *document) offset(pos protocol.Position) int {
	line := int(pos.Line)
	if line >= len(d.lines) {
		return len(d.text)
	}
	end := len(d.text)
	if line+1 < len(d.lines) {
		end = d.lines[line+1] - 1
		if end > d.lines[line] && d.text[end-1] == '\r' {
			end--
		}
	}

	at, units := d.lines[line], 0
	for at < end && units < int(pos.Character) {
		r, size := utf8.DecodeRune(d.text[at:end])
		at += size
		units += utf16Len(r)
	}
	return at
}

func (d *document) rangeOf(start, end int) protocol.Range {
	return protocol.Range{Start: d.position(start), End: d.position(end)}
}

// toUInteger maps n into the protocol's unsigned range; out of range
// values become 0.
func toUInteger(n int) protocol.UInteger {
	v, err := safecast.Conv[protocol.UInteger](n)
	if err != nil {
		return 0
	}
	return v
}

// versionOf converts a document version, or returns nil if it is negative.
func versionOf(v protocol.Integer) *protocol.UInteger {
	version, err := safecast.Conv[protocol.UInteger](v)
	if err != nil {
		return nil
	}
	return &version
}

func utf16Len(r rune) int {
	if r >= 0x10000 && r <= utf8.MaxRune {
		return 2
	}
	return 1
}

// documents is the set of open buffers, keyed by URI.
type documents struct {
	mu   sync.Mutex
	docs map[protocol.DocumentUri]*document
}

func newDocuments() *documents {
	return &documents{docs: make(map[protocol.DocumentUri]*document)}
}

func (s *documents) put(doc *document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[doc.uri] = doc
}

func (s *documents) get(uri protocol.DocumentUri) *document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.docs[uri]
}

func (s *documents) remove(uri protocol.DocumentUri) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, uri)
}
