package order

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/dhamidi/typeorder/java/parser"
)

// Span is a half-open byte range [Start, End) in the source buffer.
type Span struct {
	Start int
	End   int
}

func (s Span) Len() int {
	return s.End - s.Start
}

func (s Span) IsEmpty() bool {
	return s.End <= s.Start
}

func (s Span) Overlaps(o Span) bool {
	return s.Start < o.End && o.Start < s.End
}

func spanOf(n *parser.Node) Span {
	return Span{Start: n.Span.Start.Offset, End: n.Span.End.Offset}
}

// Member is one direct child declaration of a type body together with the
// comments it owns.
type Member struct {
	Classification

	Index int
	Name  string
	// Span covers the declaration itself, annotations included.
	Span Span
	// Leading are the comments directly above the declaration.
	Leading []Span
	// Dangling are stray semicolons and comments after the declaration
	// that travel with it.
	Dangling []Span

	unit Span
}

// Unit returns the member's relocation unit: its leading comments, the
// declaration and its dangling spans, widened to whole lines when the
// member sits on lines of its own.
func (m Member) Unit() Span {
	return m.unit
}

// Body is the lossless partition of one type body's interior into a fixed
// head, the members' relocation units, the whitespace separating them and
// a fixed tail.
type Body struct {
	src []byte

	// Interior is everything between the braces.
	Interior Span
	// Head runs from the opening brace to the first unit. It holds enum
	// constants and stray trivia that no member owns.
	Head    Span
	Members []Member
	// Seps[i] is the whitespace between unit i and unit i+1.
	Seps []Span
	// Tail runs from the last unit to the closing brace.
	Tail Span
	// Trailing are the dangling spans in the tail. They never move.
	Trailing []Span
	// Newline is the line ending used by the interior: "\r\n" if it
	// contains one, "\n" otherwise.
	Newline string
}

// NewBody partitions the body of a type declaration. The body must be
// well formed: present, closed, and free of unrecognised members.
func NewBody(src []byte, decl *parser.Node, cfg Config) (*Body, error) {
	node := decl.Body()
	if node == nil || node.Error != nil {
		return nil, errors.New("type has no well-formed body")
	}
	interior := Span{Start: node.Span.Start.Offset + 1, End: node.Span.End.Offset - 1}
	if interior.Start > interior.End || interior.End > len(src) {
		return nil, fmt.Errorf("body span %d-%d out of range", interior.Start, interior.End)
	}

	b := &Body{src: src, Interior: interior, Newline: lineEnding(src[interior.Start:interior.End])}
	scope := ScopeOf(decl)

	children := node.Children
	headLine := node.Span.Start.Line
	for i, child := range children {
		if child.Kind == parser.KindEnumConstants {
			children = node.Children[i+1:]
			headLine = child.Span.End.Line
		}
	}

	var gap []*parser.Node
	prevLine := headLine
	for _, child := range children {
		if child.Kind.IsTrivia() {
			gap = append(gap, child)
			continue
		}

		owned, leading := splitGap(gap, prevLine)
		if len(b.Members) > 0 {
			prev := &b.Members[len(b.Members)-1]
			prev.Dangling = spansOf(owned)
		}
		gap = nil

		m := Member{
			Classification: Classify(child, scope, cfg),
			Index:          len(b.Members),
			Name:           child.Name(),
			Span:           spanOf(child),
			Leading:        spansOf(leading),
		}
		b.Members = append(b.Members, m)
		prevLine = child.Span.End.Line
	}

	if len(b.Members) == 0 {
		b.Head = interior
		b.Tail = Span{Start: interior.End, End: interior.End}
		b.Trailing = spansOf(gap)
		return b, nil
	}

	owned, rest := sameLine(gap, prevLine)
	last := &b.Members[len(b.Members)-1]
	last.Dangling = spansOf(owned)
	b.Trailing = spansOf(rest)

	for i := range b.Members {
		b.Members[i].unit = b.lineUnit(b.Members[i].extent())
	}
	n := len(b.Members)
	b.Head = Span{Start: interior.Start, End: b.Members[0].unit.Start}
	b.Tail = Span{Start: b.Members[n-1].unit.End, End: interior.End}
	for i := 0; i < n-1; i++ {
		b.Seps = append(b.Seps, Span{Start: b.Members[i].unit.End, End: b.Members[i+1].unit.Start})
	}

	return b, nil
}

// splitGap divides the trivia between two members. Everything up to the
// last stray semicolon, and anything that continues on the line where the
// previous owner ends, belongs to the previous member (or to the head,
// before the first member). The rest leads the next member.
func splitGap(gap []*parser.Node, line int) (owned, leading []*parser.Node) {
	k := 0
	for i, n := range gap {
		if n.Kind == parser.KindEmptyDecl {
			k = i + 1
		}
	}
	if k > 0 {
		line = gap[k-1].Span.End.Line
	}
	owned, leading = sameLine(gap[k:], line)
	return gap[:k+len(owned)], leading
}

// sameLine returns the prefix of items chained on the given line: each item
// starts on the line where the one before it ends.
func sameLine(items []*parser.Node, line int) (chain, rest []*parser.Node) {
	k := 0
	for k < len(items) && items[k].Span.Start.Line == line {
		line = items[k].Span.End.Line
		k++
	}
	return items[:k], items[k:]
}

func spansOf(nodes []*parser.Node) []Span {
	if len(nodes) == 0 {
		return nil
	}
	spans := make([]Span, len(nodes))
	for i, n := range nodes {
		spans[i] = spanOf(n)
	}
	return spans
}

func (m Member) extent() Span {
	s := m.Span
	if len(m.Leading) > 0 {
		s.Start = m.Leading[0].Start
	}
	if len(m.Dangling) > 0 {
		s.End = m.Dangling[len(m.Dangling)-1].End
	}
	return s
}

// lineUnit widens s to whole lines when nothing but blanks shares its
// first and last line: leftwards to the start of the line, rightwards
// through the newline.
func (b *Body) lineUnit(s Span) Span {
	start := s.Start
	for start > b.Interior.Start && isBlank(b.src[start-1]) {
		start--
	}
	if start > b.Interior.Start && b.src[start-1] == '\n' {
		s.Start = start
	}

	end := s.End
	for end < b.Interior.End && (isBlank(b.src[end]) || b.src[end] == '\r') {
		end++
	}
	if end < b.Interior.End && b.src[end] == '\n' {
		s.End = end + 1
	}
	return s
}

func lineEnding(text []byte) string {
	if bytes.Contains(text, []byte("\r\n")) {
		return "\r\n"
	}
	return "\n"
}

func isBlank(c byte) bool {
	return c == ' ' || c == '\t'
}

func (b *Body) Text(s Span) []byte {
	return b.src[s.Start:s.End]
}

func (b *Body) UnitText(i int) []byte {
	return b.Text(b.Members[i].unit)
}

// Verify checks that the partition is lossless: the head, the units with
// their separators and the tail concatenate to the interior, and the
// separators hold nothing but whitespace.
func (b *Body) Verify() error {
	var buf bytes.Buffer
	buf.Write(b.Text(b.Head))
	pos := b.Head.End
	for i, m := range b.Members {
		if m.unit.Start != pos {
			return fmt.Errorf("member %d (%s): unit starts at %d, want %d", i, m.Name, m.unit.Start, pos)
		}
		if m.unit.Start > m.Span.Start || m.unit.End < m.Span.End {
			return fmt.Errorf("member %d (%s): unit %v does not cover declaration %v", i, m.Name, m.unit, m.Span)
		}
		buf.Write(b.UnitText(i))
		pos = m.unit.End
		if i < len(b.Seps) {
			sep := b.Seps[i]
			if sep.Start != pos || sep.End < sep.Start {
				return fmt.Errorf("separator %d: span %v does not follow unit ending at %d", i, sep, pos)
			}
			if len(bytes.TrimSpace(b.Text(sep))) != 0 {
				return fmt.Errorf("separator %d: non-whitespace text %q", i, b.Text(sep))
			}
			buf.Write(b.Text(sep))
			pos = sep.End
		}
	}
	if b.Tail.Start != pos {
		return fmt.Errorf("tail starts at %d, want %d", b.Tail.Start, pos)
	}
	buf.Write(b.Text(b.Tail))
	if !bytes.Equal(buf.Bytes(), b.Text(b.Interior)) {
		return errors.New("partition does not reproduce the body")
	}
	return nil
}
