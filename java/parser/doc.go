// Package parser provides an error-tolerant, declaration-level parser for
// Java source code.
//
// # Overview
//
// The parser produces a tree of type declarations and their members. Each
// node carries the exact byte span it was parsed from, so tools can cut
// and splice source text without reprinting it. Member bodies (methods,
// constructors, initializers, field initializers) are not parsed: they are
// skipped by matching brackets, with string, character and text-block
// literals and comments lexed properly so braces inside them never count.
//
// # Usage
//
//	p := parser.ParseCompilationUnit(r, parser.WithFile("Foo.java"))
//	unit, err := p.Finish()
//
//	parser.Walk(unit, func(decl *parser.Node) bool {
//	    fmt.Println(decl.Kind, decl.Name())
//	    return true
//	})
//
// # Tree shape
//
//	CompilationUnit
//	  PackageDecl, ImportDecl ...
//	  ClassDecl | InterfaceDecl | EnumDecl | RecordDecl | AnnotationDecl
//	    Modifiers (Modifier, Annotation ...)
//	    Identifier
//	    Body
//	      EnumConstants                  enum bodies only
//	      FieldDecl | MethodDecl | ConstructorDecl | Initializer | <type> | Error
//	      Comment | LineComment | EmptyDecl
//
// Comments that sit between members are attached to the body as trivia
// children in source order. Comments inside a member stay inside its span.
//
// # Error recovery
//
// A member that cannot be recognised becomes a KindError node spanning up
// to the next semicolon or the closing brace of the enclosing body. The
// parser always makes progress and never panics on malformed input.
package parser
