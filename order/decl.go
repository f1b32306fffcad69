package order

import "github.com/dhamidi/typeorder/java/parser"

// Scope describes the kind of type body a member is declared in.
type Scope int

const (
	ScopeClass Scope = iota
	ScopeInterface
	ScopeEnum
	ScopeRecord
	ScopeAnnotation
)

// ScopeOf returns the scope established by the body of a type declaration.
func ScopeOf(decl *parser.Node) Scope {
	switch decl.Kind {
	case parser.KindInterfaceDecl:
		return ScopeInterface
	case parser.KindEnumDecl:
		return ScopeEnum
	case parser.KindRecordDecl:
		return ScopeRecord
	case parser.KindAnnotationDecl:
		return ScopeAnnotation
	}
	return ScopeClass
}

// implicitlyStatic reports whether every field declared in the scope is
// static whether or not it says so.
func (s Scope) implicitlyStatic() bool {
	return s == ScopeInterface || s == ScopeAnnotation || s == ScopeRecord
}

// Decl is one member declaration. Each syntactic category is its own
// variant carrying only the facts ordering needs; the set of variants is
// closed.
type Decl interface {
	Syntax() *parser.Node
	isDecl()
}

type FieldDecl struct {
	Node   *parser.Node
	Static bool
	// Implicit is set when the field is static only because of its scope.
	Implicit bool
}

type InitializerDecl struct {
	Node   *parser.Node
	Static bool
}

type ConstructorDecl struct {
	Node    *parser.Node
	Compact bool
}

type MethodDecl struct {
	Node     *parser.Node
	Abstract bool
}

type TypeDecl struct {
	Node    *parser.Node
	Keyword string
}

// UnknownDecl is a declaration the parser could not recognise.
type UnknownDecl struct {
	Node *parser.Node
}

func (d FieldDecl) Syntax() *parser.Node       { return d.Node }
func (d InitializerDecl) Syntax() *parser.Node { return d.Node }
func (d ConstructorDecl) Syntax() *parser.Node { return d.Node }
func (d MethodDecl) Syntax() *parser.Node      { return d.Node }
func (d TypeDecl) Syntax() *parser.Node        { return d.Node }
func (d UnknownDecl) Syntax() *parser.Node     { return d.Node }

func (FieldDecl) isDecl()       {}
func (InitializerDecl) isDecl() {}
func (ConstructorDecl) isDecl() {}
func (MethodDecl) isDecl()      {}
func (TypeDecl) isDecl()        {}
func (UnknownDecl) isDecl()     {}

var typeKeywords = map[parser.NodeKind]string{
	parser.KindClassDecl:      "class",
	parser.KindInterfaceDecl:  "interface",
	parser.KindEnumDecl:       "enum",
	parser.KindRecordDecl:     "record",
	parser.KindAnnotationDecl: "@interface",
}

// NewDecl wraps a body member node in its declaration variant.
func NewDecl(n *parser.Node, scope Scope) Decl {
	switch {
	case n.Kind == parser.KindFieldDecl:
		explicit := n.HasModifier("static")
		return FieldDecl{
			Node:     n,
			Static:   explicit || scope.implicitlyStatic(),
			Implicit: !explicit && scope.implicitlyStatic(),
		}
	case n.Kind == parser.KindInitializer:
		return InitializerDecl{Node: n, Static: n.HasModifier("static")}
	case n.Kind == parser.KindConstructorDecl:
		return ConstructorDecl{Node: n, Compact: n.FirstChildOfKind(parser.KindParameters) == nil}
	case n.Kind == parser.KindMethodDecl:
		return MethodDecl{Node: n, Abstract: n.FirstChildOfKind(parser.KindBlock) == nil}
	case n.Kind.IsTypeDecl():
		return TypeDecl{Node: n, Keyword: typeKeywords[n.Kind]}
	}
	return UnknownDecl{Node: n}
}
