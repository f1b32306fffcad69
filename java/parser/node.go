package parser

import (
	"strconv"
	"strings"
)

type NodeKind int

const (
	KindError NodeKind = iota

	// Compilation unit level
	KindCompilationUnit
	KindPackageDecl
	KindImportDecl

	// Type declarations
	KindClassDecl
	KindInterfaceDecl
	KindEnumDecl
	KindRecordDecl
	KindAnnotationDecl

	// Bodies and members
	KindBody
	KindEnumConstants
	KindFieldDecl
	KindMethodDecl
	KindConstructorDecl
	KindInitializer
	KindParameters
	KindBlock
	KindEmptyDecl

	// Modifiers
	KindModifiers
	KindModifier
	KindAnnotation

	// Leaves
	KindIdentifier
	KindLiteral

	// Comments
	KindComment
	KindLineComment
)

var nodeKindNames = map[NodeKind]string{
	KindError:           "Error",
	KindCompilationUnit: "CompilationUnit",
	KindPackageDecl:     "PackageDecl",
	KindImportDecl:      "ImportDecl",
	KindClassDecl:       "ClassDecl",
	KindInterfaceDecl:   "InterfaceDecl",
	KindEnumDecl:        "EnumDecl",
	KindRecordDecl:      "RecordDecl",
	KindAnnotationDecl:  "AnnotationDecl",
	KindBody:            "Body",
	KindEnumConstants:   "EnumConstants",
	KindFieldDecl:       "FieldDecl",
	KindMethodDecl:      "MethodDecl",
	KindConstructorDecl: "ConstructorDecl",
	KindInitializer:     "Initializer",
	KindParameters:      "Parameters",
	KindBlock:           "Block",
	KindEmptyDecl:       "EmptyDecl",
	KindModifiers:       "Modifiers",
	KindModifier:        "Modifier",
	KindAnnotation:      "Annotation",
	KindIdentifier:      "Identifier",
	KindLiteral:         "Literal",
	KindComment:         "Comment",
	KindLineComment:     "LineComment",
}

func (k NodeKind) String() string {
	if name, ok := nodeKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// IsTypeDecl reports whether the kind declares a class-like type with a body.
func (k NodeKind) IsTypeDecl() bool {
	switch k {
	case KindClassDecl, KindInterfaceDecl, KindEnumDecl, KindRecordDecl, KindAnnotationDecl:
		return true
	}
	return false
}

// IsTrivia reports whether the kind is a comment or a stray semicolon
// sitting between body members.
func (k NodeKind) IsTrivia() bool {
	return k == KindComment || k == KindLineComment || k == KindEmptyDecl
}

type Error struct {
	Message string
	Got     *Token
}

type Node struct {
	Kind     NodeKind
	Span     Span
	Children []*Node
	Token    *Token
	Error    *Error
}

func (n *Node) AddChild(child *Node) {
	if child != nil {
		n.Children = append(n.Children, child)
	}
}

func (n *Node) IsError() bool {
	return n.Kind == KindError
}

func (n *Node) FirstChildOfKind(kind NodeKind) *Node {
	for _, child := range n.Children {
		if child.Kind == kind {
			return child
		}
	}
	return nil
}

func (n *Node) ChildrenOfKind(kind NodeKind) []*Node {
	var result []*Node
	for _, child := range n.Children {
		if child.Kind == kind {
			result = append(result, child)
		}
	}
	return result
}

func (n *Node) TokenLiteral() string {
	if n.Token != nil {
		return n.Token.Literal
	}
	return ""
}

// Name returns the declared name of a type or member, or "" if it has none.
func (n *Node) Name() string {
	if id := n.FirstChildOfKind(KindIdentifier); id != nil {
		return id.TokenLiteral()
	}
	return ""
}

// Body returns the body of a type declaration.
func (n *Node) Body() *Node {
	return n.FirstChildOfKind(KindBody)
}

func (n *Node) Modifiers() *Node {
	return n.FirstChildOfKind(KindModifiers)
}

// HasModifier reports whether the declaration carries the given modifier keyword.
func (n *Node) HasModifier(keyword string) bool {
	mods := n.Modifiers()
	if mods == nil {
		return false
	}
	for _, m := range mods.ChildrenOfKind(KindModifier) {
		if m.TokenLiteral() == keyword {
			return true
		}
	}
	return false
}

// Annotations returns the annotations in the declaration's modifier list.
func (n *Node) Annotations() []*Node {
	mods := n.Modifiers()
	if mods == nil {
		return nil
	}
	return mods.ChildrenOfKind(KindAnnotation)
}

// QualifiedName returns the annotation's name as written, e.g. "org.junit.jupiter.api.Nested".
func (n *Node) QualifiedName() string {
	var parts []string
	for _, id := range n.ChildrenOfKind(KindIdentifier) {
		parts = append(parts, id.TokenLiteral())
	}
	return strings.Join(parts, ".")
}

// AnnotationName returns the simple name of an annotation node.
func (n *Node) AnnotationName() string {
	ids := n.ChildrenOfKind(KindIdentifier)
	if len(ids) == 0 {
		return ""
	}
	return ids[len(ids)-1].TokenLiteral()
}

// StringArguments returns the unquoted string literals found in an
// annotation's argument list, in source order.
func (n *Node) StringArguments() []string {
	var args []string
	for _, lit := range n.ChildrenOfKind(KindLiteral) {
		raw := lit.TokenLiteral()
		if s, err := strconv.Unquote(raw); err == nil {
			args = append(args, s)
		} else if len(raw) >= 2 {
			args = append(args, raw[1:len(raw)-1])
		}
	}
	return args
}

func (n *Node) String() string {
	var b strings.Builder
	n.writeIndent(&b, 0, false)
	return b.String()
}

func (n *Node) StringWithPositions() string {
	var b strings.Builder
	n.writeIndent(&b, 0, true)
	return b.String()
}

func (n *Node) writeIndent(b *strings.Builder, indent int, showPositions bool) {
	b.WriteString(strings.Repeat("  ", indent))
	b.WriteString(n.Kind.String())
	if showPositions {
		b.WriteString(" [" + n.Span.Start.String() + "-" + n.Span.End.String() + "]")
	}
	if n.Token != nil {
		b.WriteString(" " + n.Token.Literal)
	}
	if n.Error != nil {
		b.WriteString(" ERROR: " + n.Error.Message)
	}
	b.WriteString("\n")

	for _, child := range n.Children {
		child.writeIndent(b, indent+1, showPositions)
	}
}

// Walk visits every type declaration below n in source order, outer types
// before the types nested in their bodies. Returning false from fn skips the
// declaration's nested types.
func Walk(n *Node, fn func(decl *Node) bool) {
	if n == nil {
		return
	}
	var children []*Node
	switch {
	case n.Kind == KindCompilationUnit:
		children = n.Children
	case n.Kind.IsTypeDecl():
		if !fn(n) {
			return
		}
		if body := n.Body(); body != nil {
			children = body.Children
		}
	default:
		return
	}
	for _, child := range children {
		if child.Kind.IsTypeDecl() {
			Walk(child, fn)
		}
	}
}
