package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBody(t *testing.T, src string) *Body {
	t.Helper()
	b, err := NewBody([]byte(src), parseType(t, src), DefaultConfig())
	require.NoError(t, err)
	require.NoError(t, b.Verify())
	return b
}

func texts(b *Body, spans []Span) []string {
	var out []string
	for _, s := range spans {
		out = append(out, string(b.Text(s)))
	}
	return out
}

func TestNewBodyCommentOwnership(t *testing.T) {
	src := `class A {
  // lead
  int b; // same
  ;
  /** doc */
  static int a;
  // tail
}
`
	b := newBody(t, src)
	require.Len(t, b.Members, 2)

	first, second := b.Members[0], b.Members[1]
	assert.Equal(t, "b", first.Name)
	assert.Equal(t, []string{"// lead"}, texts(b, first.Leading))
	assert.Equal(t, []string{"// same", ";"}, texts(b, first.Dangling))
	assert.Equal(t, "int b;", string(b.Text(first.Span)))

	assert.Equal(t, "a", second.Name)
	assert.Equal(t, []string{"/** doc */"}, texts(b, second.Leading))
	assert.Empty(t, second.Dangling)

	assert.Equal(t, []string{"// tail"}, texts(b, b.Trailing))
	assert.Equal(t, "\n", string(b.Text(b.Head)))
	assert.Equal(t, "  // lead\n  int b; // same\n  ;\n", string(b.UnitText(0)))
	assert.Equal(t, "  /** doc */\n  static int a;\n", string(b.UnitText(1)))
	assert.Equal(t, []string{""}, texts(b, b.Seps))
	assert.Equal(t, "  // tail\n", string(b.Text(b.Tail)))
}

func TestNewBodyHeadOwnership(t *testing.T) {
	src := `class A { // about A
  ;
  // first
  int x;

  int y; // y
}`
	b := newBody(t, src)
	require.Len(t, b.Members, 2)

	assert.Equal(t, " // about A\n  ;\n", string(b.Text(b.Head)))
	assert.Equal(t, []string{"// first"}, texts(b, b.Members[0].Leading))
	assert.Equal(t, []string{"// y"}, texts(b, b.Members[1].Dangling))
	assert.Empty(t, b.Trailing)
	assert.Equal(t, "", string(b.Text(b.Tail)))
}

func TestNewBodyEnumConstantsStayInHead(t *testing.T) {
	src := `enum E {
  // constants
  A, B;

  int x;
  E() {}
}`
	b := newBody(t, src)
	require.Len(t, b.Members, 2)
	assert.Equal(t, "\n  // constants\n  A, B;\n\n", string(b.Text(b.Head)))
	assert.Empty(t, b.Members[0].Leading)
}

func TestNewBodySameLineMembers(t *testing.T) {
	src := "class A { int b; static int a; }"
	b := newBody(t, src)
	require.Len(t, b.Members, 2)

	assert.Equal(t, " ", string(b.Text(b.Head)))
	assert.Equal(t, "int b;", string(b.UnitText(0)))
	assert.Equal(t, "static int a;", string(b.UnitText(1)))
	assert.Equal(t, []string{" "}, texts(b, b.Seps))
	assert.Equal(t, " ", string(b.Text(b.Tail)))
}

func TestNewBodyEmpty(t *testing.T) {
	src := "class A {\n  // nothing here\n}"
	b := newBody(t, src)
	assert.Empty(t, b.Members)
	assert.Equal(t, "\n  // nothing here\n", string(b.Text(b.Head)))
	assert.Equal(t, []string{"// nothing here"}, texts(b, b.Trailing))
}

func TestNewBodyCRLF(t *testing.T) {
	src := "class A {\r\n  int b;\r\n  static int a;\r\n}\r\n"
	b := newBody(t, src)
	require.Len(t, b.Members, 2)
	assert.Equal(t, "  int b;\r\n", string(b.UnitText(0)))
	assert.Equal(t, "  static int a;\r\n", string(b.UnitText(1)))
	assert.Equal(t, "\r\n", b.Newline)

	assert.Equal(t, "\n", newBody(t, "class A { int b; }").Newline)
}

func TestNewBodyRejectsMalformed(t *testing.T) {
	src := "class A { int x;"
	_, err := NewBody([]byte(src), parseType(t, src), DefaultConfig())
	assert.Error(t, err)

	src = "interface I;"
	_, err = NewBody([]byte(src), parseType(t, src), DefaultConfig())
	assert.Error(t, err)
}

func TestBodyVerifyDetectsCorruption(t *testing.T) {
	b := newBody(t, "class A {\n  int b;\n  static int a;\n}\n")
	b.Seps[0] = Span{Start: b.Seps[0].Start, End: b.Seps[0].Start + 3}
	assert.Error(t, b.Verify())
}

func TestSpan(t *testing.T) {
	s := Span{Start: 2, End: 5}
	assert.Equal(t, 3, s.Len())
	assert.False(t, s.IsEmpty())
	assert.True(t, Span{Start: 4, End: 4}.IsEmpty())
	assert.True(t, s.Overlaps(Span{Start: 4, End: 9}))
	assert.False(t, s.Overlaps(Span{Start: 5, End: 9}))
}
