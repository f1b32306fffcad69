package parser

import (
	"encoding/json"
	"fmt"
)

// nodeJSON is the shape of a node in dump output. Declarations carry their
// name, leaves their literal, and every positioned node its byte range and
// line range as [start, end] pairs.
type nodeJSON struct {
	Kind     string      `json:"kind"`
	Name     string      `json:"name,omitempty"`
	Literal  string      `json:"literal,omitempty"`
	Bytes    *[2]int     `json:"bytes,omitempty"`
	Lines    *[2]int     `json:"lines,omitempty"`
	Trivia   bool        `json:"trivia,omitempty"`
	Error    string      `json:"error,omitempty"`
	Children []*nodeJSON `json:"children,omitempty"`
}

func (n *Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(encodeNode(n))
}

func encodeNode(n *Node) *nodeJSON {
	out := &nodeJSON{
		Kind:    n.Kind.String(),
		Literal: n.TokenLiteral(),
		Trivia:  n.Kind.IsTrivia(),
	}
	if n.Kind.IsTypeDecl() || isMemberDecl(n.Kind) {
		out.Name = n.Name()
	}
	if n.Span.End.Line > 0 {
		out.Bytes = &[2]int{n.Span.Start.Offset, n.Span.End.Offset}
		out.Lines = &[2]int{n.Span.Start.Line, n.Span.End.Line}
	}
	if n.Error != nil {
		out.Error = n.Error.Message
		if n.Error.Got != nil {
			out.Error = fmt.Sprintf("%s (got %q)", n.Error.Message, n.Error.Got.Literal)
		}
	}
	for _, child := range n.Children {
		out.Children = append(out.Children, encodeNode(child))
	}
	return out
}

func isMemberDecl(k NodeKind) bool {
	switch k {
	case KindFieldDecl, KindMethodDecl, KindConstructorDecl:
		return true
	}
	return false
}
