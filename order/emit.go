package order

import (
	"bytes"
	"slices"
)

// Replacement replaces the bytes in Span with NewText.
type Replacement struct {
	Span    Span
	NewText string
}

// Edit is a list of non-overlapping replacements ordered by position.
type Edit []Replacement

func (e Edit) IsEmpty() bool {
	return len(e) == 0
}

// Apply returns a copy of src with the edit applied.
func (e Edit) Apply(src []byte) []byte {
	var out bytes.Buffer
	pos := 0
	for _, r := range e {
		out.Write(src[pos:r.Span.Start])
		out.WriteString(r.NewText)
		pos = r.Span.End
	}
	out.Write(src[pos:])
	return out.Bytes()
}

// Render reassembles the body interior with the units in target order.
func Render(b *Body, perm Permutation) []byte {
	var out bytes.Buffer
	out.Write(b.Text(b.Head))

	n := len(b.Members)
	for j := 0; j < n; j++ {
		i := perm.Source(j)
		out.Write(b.UnitText(i))
		if j < n-1 {
			out.Write(b.separator(i, perm.Source(j+1)))
		}
	}

	if n > 0 && endsLine(b.UnitText(n-1)) && !endsLine(b.UnitText(perm.Source(n-1))) {
		out.WriteString(b.Newline)
	}
	out.Write(b.Text(b.Tail))
	return out.Bytes()
}

// separator returns the whitespace placed between unit a and unit c when c
// directly follows a in the new order. A change of category always gets
// exactly one blank line. Otherwise a keeps the whitespace it was followed
// by, which for the last unit is a line break unless it already ends one.
func (b *Body) separator(a, c int) []byte {
	unit := b.UnitText(a)
	switch {
	case b.Members[a].EffectiveKind() != b.Members[c].EffectiveKind():
		if endsLine(unit) {
			return []byte(b.Newline)
		}
		return []byte(b.Newline + b.Newline)
	case a < len(b.Seps):
		return b.Text(b.Seps[a])
	case endsLine(unit):
		return nil
	}
	return []byte(b.Newline)
}

func endsLine(text []byte) bool {
	return len(text) > 0 && text[len(text)-1] == '\n'
}

// Emit computes the edit that moves the body into target order. The edit
// is a single replacement narrowed to the lines that actually change.
func Emit(b *Body, perm Permutation) Edit {
	if perm.IsIdentity() {
		return nil
	}
	old := b.Text(b.Interior)
	updated := Render(b, perm)
	if bytes.Equal(old, updated) {
		return nil
	}

	prefix := commonPrefix(old, updated)
	if nl := bytes.LastIndexByte(old[:prefix], '\n'); nl >= 0 {
		prefix = nl + 1
	} else {
		prefix = 0
	}

	suffix := commonSuffix(old[prefix:], updated[prefix:])
	for suffix > 0 {
		at := len(old) - suffix
		if at == prefix || old[at-1] == '\n' {
			break
		}
		suffix--
	}

	return Edit{{
		Span: Span{
			Start: b.Interior.Start + prefix,
			End:   b.Interior.End - suffix,
		},
		NewText: string(updated[prefix : len(updated)-suffix]),
	}}
}

func commonPrefix(a, b []byte) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}

func commonSuffix(a, b []byte) int {
	ra, rb := slices.Clone(a), slices.Clone(b)
	slices.Reverse(ra)
	slices.Reverse(rb)
	return commonPrefix(ra, rb)
}
