package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/typeorder/java/parser"
)

func parseType(t *testing.T, src string) *parser.Node {
	t.Helper()
	unit := parser.Parse([]byte(src), parser.WithFile("Test.java"))
	for _, child := range unit.Children {
		if child.Kind.IsTypeDecl() {
			return child
		}
	}
	t.Fatalf("no type declaration in %q", src)
	return nil
}

func classifyAll(t *testing.T, src string, cfg Config) []Classification {
	t.Helper()
	decl := parseType(t, src)
	var result []Classification
	for _, child := range decl.Body().Children {
		if child.Kind.IsTrivia() || child.Kind == parser.KindEnumConstants {
			continue
		}
		result = append(result, Classify(child, ScopeOf(decl), cfg))
	}
	return result
}

func kindsOf(cs []Classification) []Kind {
	kinds := make([]Kind, len(cs))
	for i, c := range cs {
		kinds[i] = c.Kind
	}
	return kinds
}

func TestClassifyKinds(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []Kind
	}{
		{
			name: "class",
			src: `class A {
  static int a;
  int b;
  static {}
  {}
  A() {}
  void m() {}
  abstract void n();
  class B {}
  enum C {}
  interface D {}
  record E() {}
  @interface F {}
}`,
			want: []Kind{
				StaticField, InstanceField, StaticInitializer, InstanceInitializer,
				Constructor, Method, Method,
				NestedType, NestedType, NestedType, NestedType, NestedType,
			},
		},
		{
			name: "interface fields are static",
			src:  "interface I { int X = 1; void m(); }",
			want: []Kind{StaticField, Method},
		},
		{
			name: "annotation elements",
			src:  `@interface Ann { String NAME = "n"; String value() default ""; }`,
			want: []Kind{StaticField, Method},
		},
		{
			name: "record",
			src:  "record R(int x) { static int y; R {} R(String s) { this(1); } int x() { return x; } }",
			want: []Kind{StaticField, Constructor, Constructor, Method},
		},
		{
			name: "enum",
			src:  "enum E { A, B; int x; E() {} }",
			want: []Kind{InstanceField, Constructor},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, kindsOf(classifyAll(t, tt.src, DefaultConfig())))
		})
	}
}

func TestClassifyDecls(t *testing.T) {
	cs := classifyAll(t, `interface I {
  int X = 1;
  static int Y = 2;
  void m();
  default void n() {}
}`, DefaultConfig())
	require.Len(t, cs, 4)

	assert.Equal(t, FieldDecl{Node: cs[0].Decl.Syntax(), Static: true, Implicit: true}, cs[0].Decl)
	assert.Equal(t, FieldDecl{Node: cs[1].Decl.Syntax(), Static: true}, cs[1].Decl)
	assert.True(t, cs[2].Decl.(MethodDecl).Abstract)
	assert.False(t, cs[3].Decl.(MethodDecl).Abstract)

	record := classifyAll(t, "record R(int x) { R {} class T {} }", DefaultConfig())
	require.Len(t, record, 2)
	assert.True(t, record[0].Decl.(ConstructorDecl).Compact)
	assert.Equal(t, "class", record[1].Decl.(TypeDecl).Keyword)
}

func TestClassifySuppression(t *testing.T) {
	cs := classifyAll(t, `class A {
  @SuppressWarnings("TypeMemberOrder") int a;
  @SuppressWarnings({"unchecked", "TypeMemberOrder"}) int b;
  @java.lang.SuppressWarnings(value = "TypeMemberOrder") int c;
  @SuppressWarnings("unchecked") int d;
  @SuppressWarnings("typemembersorder") int e;
  @Other("TypeMemberOrder") int f;
  int g;
}`, DefaultConfig())
	require.Len(t, cs, 7)

	var suppressed []bool
	for _, c := range cs {
		suppressed = append(suppressed, c.Suppressed)
	}
	assert.Equal(t, []bool{true, true, true, false, false, false, false}, suppressed)
}

func TestClassifyCustomConfig(t *testing.T) {
	cfg := Config{CheckName: "Order", SuppressionAnnotation: "Keep", LifecycleAnnotation: "Group"}
	cs := classifyAll(t, `class A {
  @Keep("Order") int a;
  @SuppressWarnings("TypeMemberOrder") int b;
  @Group class C {}
  @Nested class D {}
}`, cfg)
	require.Len(t, cs, 4)

	assert.True(t, cs[0].Suppressed)
	assert.False(t, cs[1].Suppressed)
	assert.True(t, cs[2].LifecycleOverride)
	assert.False(t, cs[3].LifecycleOverride)
}

func TestClassifyLifecycle(t *testing.T) {
	cs := classifyAll(t, `class A {
  @Nested class Group {}
  @org.junit.jupiter.api.Nested class Qualified {}
  class Plain {}
  @Nested void notAType() {}
  @Nested @SuppressWarnings("TypeMemberOrder") class Pinned {}
}`, DefaultConfig())
	require.Len(t, cs, 5)

	assert.True(t, cs[0].LifecycleOverride)
	assert.Equal(t, Method, cs[0].EffectiveKind())
	assert.Equal(t, NestedType, cs[0].Kind)

	assert.True(t, cs[1].LifecycleOverride)
	assert.False(t, cs[2].LifecycleOverride)
	assert.Equal(t, NestedType, cs[2].EffectiveKind())
	assert.False(t, cs[3].LifecycleOverride)

	assert.True(t, cs[4].Suppressed)
	assert.False(t, cs[4].LifecycleOverride)
}

func TestClassifyUnknownIsMethod(t *testing.T) {
	c := Classify(&parser.Node{Kind: parser.KindError}, ScopeClass, DefaultConfig())
	assert.Equal(t, Method, c.Kind)
	assert.IsType(t, UnknownDecl{}, c.Decl)
	assert.False(t, c.Suppressed)
}

func TestKindRank(t *testing.T) {
	kinds := Kinds()
	require.Len(t, kinds, 7)
	for i := 1; i < len(kinds); i++ {
		assert.Less(t, kinds[i-1].Rank(), kinds[i].Rank())
	}
	assert.Equal(t, "instance-initializer", InstanceInitializer.String())
	assert.Equal(t, "unknown", Kind(42).String())
}
