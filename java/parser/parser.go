package parser

import (
	"bytes"
	"fmt"
	"io"
	"sort"
)

type Option func(*Parser)

func WithFile(path string) Option {
	return func(p *Parser) {
		p.file = path
	}
}

// Parser is a declaration-level Java parser. It recognises type
// declarations and their members with exact source spans, but skips over
// method, constructor and initializer bodies and field initializers using
// bracket matching.
type Parser struct {
	file     string
	reader   io.Reader
	input    []byte
	tokens   []Token
	comments []Token
	pos      int
}

func ParseCompilationUnit(r io.Reader, opts ...Option) *Parser {
	p := &Parser{reader: r}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse parses src as a compilation unit. It never fails: malformed
// declarations come back as KindError nodes.
func Parse(src []byte, opts ...Option) *Node {
	p := ParseCompilationUnit(bytes.NewReader(src), opts...)
	node, _ := p.Finish()
	return node
}

func (p *Parser) Comments() []Token {
	return p.comments
}

func (p *Parser) Source() []byte {
	return p.input
}

func (p *Parser) readAll() error {
	if p.input != nil {
		return nil
	}
	data, err := io.ReadAll(p.reader)
	if err != nil {
		return err
	}
	p.input = data
	return nil
}

func (p *Parser) Finish() (*Node, error) {
	if err := p.readAll(); err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}
	p.tokenize()
	return p.parseCompilationUnit(), nil
}

func (p *Parser) tokenize() {
	p.tokens = nil
	p.comments = nil
	p.pos = 0
	lexer := NewLexer(p.input, p.file)
	for {
		tok := lexer.NextToken()
		switch tok.Kind {
		case TokenWhitespace:
			continue
		case TokenComment, TokenLineComment:
			p.comments = append(p.comments, tok)
			continue
		}
		p.tokens = append(p.tokens, tok)
		if tok.Kind == TokenEOF {
			break
		}
	}
}

func (p *Parser) peek() Token {
	return p.peekN(0)
}

func (p *Parser) peekN(n int) Token {
	if p.pos+n >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos+n]
}

func (p *Parser) advance() Token {
	tok := p.peek()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

func (p *Parser) check(kind TokenKind) bool {
	return p.peek().Kind == kind
}

func (p *Parser) expect(kind TokenKind) *Token {
	if p.check(kind) {
		tok := p.advance()
		return &tok
	}
	return nil
}

func (p *Parser) isOpenGroup() bool {
	switch p.peek().Kind {
	case TokenLParen, TokenLBrace, TokenLBracket:
		return true
	}
	return false
}

// mustProgress returns a function that checks if the parser has advanced.
// Call it at the start of a loop iteration, then call the returned function
// at the end to force progress if nothing was consumed.
func (p *Parser) mustProgress() func() bool {
	saved := p.pos
	return func() bool {
		if p.pos == saved {
			if !p.check(TokenEOF) {
				p.advance()
			}
			return false
		}
		return true
	}
}

func (p *Parser) startNode(kind NodeKind) *Node {
	return &Node{
		Kind: kind,
		Span: Span{Start: p.peek().Span.Start},
	}
}

func (p *Parser) finishNode(n *Node) *Node {
	if p.pos > 0 {
		n.Span.End = p.tokens[p.pos-1].Span.End
	}
	if n.Span.End.Offset < n.Span.Start.Offset {
		n.Span.End = n.Span.Start
	}
	return n
}

func leaf(kind NodeKind, tok Token) *Node {
	return &Node{Kind: kind, Token: &tok, Span: tok.Span}
}

// errorNode wraps everything from start up to the end of the broken
// declaration: the next semicolon, or the next closing brace of the
// enclosing body, whichever comes first.
func (p *Parser) errorNode(start Position, startIdx int, msg string) *Node {
	got := p.peek()
	node := &Node{
		Kind:  KindError,
		Span:  Span{Start: start},
		Error: &Error{Message: msg, Got: &got},
	}
	for !p.check(TokenEOF) && !p.check(TokenRBrace) {
		if p.isOpenGroup() {
			p.skipGroup()
			continue
		}
		if p.advance().Kind == TokenSemicolon {
			break
		}
	}
	if p.pos == startIdx && !p.check(TokenEOF) {
		p.advance()
	}
	return p.finishNode(node)
}

// skipGroup consumes a bracketed group starting at the current opening
// bracket, including everything nested inside it.
func (p *Parser) skipGroup() {
	depth := 0
	for !p.check(TokenEOF) {
		switch p.advance().Kind {
		case TokenLParen, TokenLBrace, TokenLBracket:
			depth++
		case TokenRParen, TokenRBrace, TokenRBracket:
			depth--
		}
		if depth <= 0 {
			return
		}
	}
}

func (p *Parser) skipAngles() {
	depth := 0
	for !p.check(TokenEOF) {
		if p.check(TokenAt) {
			p.parseAnnotation()
			continue
		}
		switch p.advance().Kind {
		case TokenLT:
			depth++
		case TokenGT:
			depth--
		case TokenLBrace, TokenRBrace, TokenSemicolon:
			return
		}
		if depth <= 0 {
			return
		}
	}
}

func (p *Parser) parseCompilationUnit() *Node {
	node := p.startNode(KindCompilationUnit)

	for !p.check(TokenEOF) {
		progress := p.mustProgress()
		switch {
		case p.check(TokenSemicolon):
			p.advance()
		case p.check(TokenPackage):
			node.AddChild(p.parseStatementLike(KindPackageDecl))
		case p.check(TokenImport):
			node.AddChild(p.parseStatementLike(KindImportDecl))
		default:
			node.AddChild(p.parseTopLevelDecl())
		}
		progress()
	}

	return p.finishNode(node)
}

func (p *Parser) parseStatementLike(kind NodeKind) *Node {
	node := p.startNode(kind)
	for !p.check(TokenEOF) {
		if p.advance().Kind == TokenSemicolon {
			break
		}
	}
	return p.finishNode(node)
}

func (p *Parser) parseTopLevelDecl() *Node {
	start, startIdx := p.peek().Span.Start, p.pos
	modifiers := p.parseModifiers()

	if p.isTypeDeclStart() {
		return p.parseTypeDecl(modifiers)
	}
	if p.check(TokenPackage) {
		node := p.parseStatementLike(KindPackageDecl)
		node.Span.Start = start
		return node
	}
	return p.errorNode(start, startIdx, "expected type declaration")
}

func (p *Parser) isTypeDeclStart() bool {
	switch p.peek().Kind {
	case TokenClass, TokenInterface, TokenEnum:
		return true
	case TokenAt:
		return p.peekN(1).Kind == TokenInterface
	case TokenIdent:
		if p.peek().Literal != "record" || p.peekN(1).Kind != TokenIdent {
			return false
		}
		next := p.peekN(2).Kind
		return next == TokenLParen || next == TokenLT
	}
	return false
}

func (p *Parser) parseModifiers() *Node {
	node := p.startNode(KindModifiers)

	for {
		tok := p.peek()
		switch {
		case tok.Kind == TokenAt && p.peekN(1).Kind != TokenInterface:
			node.AddChild(p.parseAnnotation())
		case tok.Kind.IsModifier():
			p.advance()
			node.AddChild(leaf(KindModifier, tok))
		case tok.Kind == TokenIdent && tok.Literal == "sealed" && p.modifierFollows():
			p.advance()
			node.AddChild(leaf(KindModifier, tok))
		default:
			if len(node.Children) == 0 {
				node.Span.End = node.Span.Start
				return node
			}
			return p.finishNode(node)
		}
	}
}

// modifierFollows reports whether the token after a contextual "sealed"
// continues a modifier list.
func (p *Parser) modifierFollows() bool {
	next := p.peekN(1)
	switch {
	case next.Kind.IsModifier():
		return true
	case next.Kind == TokenClass, next.Kind == TokenInterface, next.Kind == TokenAt:
		return true
	case next.Kind == TokenIdent:
		return next.Literal == "record" || next.Literal == "sealed"
	}
	return false
}

// parseAnnotation records the annotation's name and the string literals of
// its arguments; other argument forms are skipped.
func (p *Parser) parseAnnotation() *Node {
	node := p.startNode(KindAnnotation)
	p.expect(TokenAt)

	for {
		tok := p.expect(TokenIdent)
		if tok == nil {
			break
		}
		node.AddChild(leaf(KindIdentifier, *tok))
		if !p.check(TokenDot) || p.peekN(1).Kind != TokenIdent {
			break
		}
		p.advance()
	}

	if p.check(TokenLParen) {
		depth := 0
		for !p.check(TokenEOF) {
			tok := p.advance()
			switch tok.Kind {
			case TokenLParen, TokenLBrace, TokenLBracket:
				depth++
			case TokenRParen, TokenRBrace, TokenRBracket:
				depth--
			case TokenStringLiteral:
				node.AddChild(leaf(KindLiteral, tok))
			}
			if depth <= 0 {
				break
			}
		}
	}

	return p.finishNode(node)
}

func (p *Parser) parseTypeDecl(modifiers *Node) *Node {
	start := p.peek().Span.Start
	if len(modifiers.Children) > 0 {
		start = modifiers.Span.Start
	}

	var kind NodeKind
	switch p.peek().Kind {
	case TokenClass:
		kind = KindClassDecl
	case TokenInterface:
		kind = KindInterfaceDecl
	case TokenEnum:
		kind = KindEnumDecl
	case TokenAt:
		kind = KindAnnotationDecl
		p.advance()
	default:
		kind = KindRecordDecl
	}
	p.advance()

	node := &Node{Kind: kind, Span: Span{Start: start}}
	node.AddChild(modifiers)

	if tok := p.expect(TokenIdent); tok != nil {
		node.AddChild(leaf(KindIdentifier, *tok))
	}

	// Type parameters, record components and extends/implements/permits
	// clauses are skipped up to the opening brace of the body.
	for !p.check(TokenLBrace) && !p.check(TokenEOF) {
		if p.check(TokenSemicolon) || p.check(TokenRBrace) {
			break
		}
		switch {
		case p.check(TokenAt):
			p.parseAnnotation()
		case p.check(TokenLParen), p.check(TokenLBracket):
			p.skipGroup()
		default:
			p.advance()
		}
	}

	if p.check(TokenLBrace) {
		node.AddChild(p.parseBody(kind, node.Name()))
	} else {
		got := p.peek()
		node.Error = &Error{Message: "expected type body", Got: &got}
	}

	return p.finishNode(node)
}

func (p *Parser) parseBody(declKind NodeKind, typeName string) *Node {
	node := p.startNode(KindBody)
	p.expect(TokenLBrace)

	if declKind == KindEnumDecl {
		node.AddChild(p.parseEnumConstants())
	}

	for !p.check(TokenRBrace) && !p.check(TokenEOF) {
		progress := p.mustProgress()
		if p.check(TokenSemicolon) {
			node.AddChild(leaf(KindEmptyDecl, p.advance()))
		} else {
			node.AddChild(p.parseMember(declKind, typeName))
		}
		progress()
	}

	if p.expect(TokenRBrace) == nil {
		got := p.peek()
		node.Error = &Error{Message: "expected '}'", Got: &got}
	}

	node = p.finishNode(node)
	p.attachComments(node)
	return node
}

// parseEnumConstants consumes the constant list of an enum body up to and
// including the terminating semicolon, if any.
func (p *Parser) parseEnumConstants() *Node {
	if p.check(TokenRBrace) || p.check(TokenEOF) {
		return nil
	}
	node := p.startNode(KindEnumConstants)
	for !p.check(TokenEOF) && !p.check(TokenRBrace) {
		if p.isOpenGroup() {
			p.skipGroup()
			continue
		}
		if p.advance().Kind == TokenSemicolon {
			break
		}
	}
	return p.finishNode(node)
}

func (p *Parser) parseMember(declKind NodeKind, typeName string) *Node {
	start, startIdx := p.peek().Span.Start, p.pos
	modifiers := p.parseModifiers()

	if p.isTypeDeclStart() {
		return p.parseTypeDecl(modifiers)
	}

	if p.check(TokenLBrace) {
		node := &Node{Kind: KindInitializer, Span: Span{Start: start}}
		node.AddChild(modifiers)
		node.AddChild(p.parseBlock())
		return p.finishNode(node)
	}

	if p.check(TokenLT) {
		p.skipAngles()
	}

	if p.check(TokenIdent) && p.peekN(1).Kind == TokenLParen {
		return p.parseCallable(KindConstructorDecl, start, modifiers)
	}

	if declKind == KindRecordDecl && p.check(TokenIdent) &&
		p.peek().Literal == typeName && p.peekN(1).Kind == TokenLBrace {
		node := &Node{Kind: KindConstructorDecl, Span: Span{Start: start}}
		node.AddChild(modifiers)
		node.AddChild(leaf(KindIdentifier, p.advance()))
		node.AddChild(p.parseBlock())
		return p.finishNode(node)
	}

	return p.parseFieldOrMethod(start, startIdx, modifiers)
}

func (p *Parser) parseBlock() *Node {
	node := p.startNode(KindBlock)
	p.skipGroup()
	return p.finishNode(node)
}

// parseFieldOrMethod scans the declared type up to the member name. A name
// followed by '(' makes a method; '=', ';' or ',' after it makes a field.
func (p *Parser) parseFieldOrMethod(start Position, startIdx int, modifiers *Node) *Node {
	var name *Token
	angle := 0

	for {
		tok := p.peek()
		switch {
		case tok.Kind == TokenEOF || tok.Kind == TokenRBrace:
			return p.errorNode(start, startIdx, "unexpected end of member declaration")
		case tok.Kind == TokenAt:
			p.parseAnnotation()
		case tok.Kind == TokenLT:
			angle++
			p.advance()
		case tok.Kind == TokenGT:
			angle--
			p.advance()
		case angle <= 0 && tok.Kind == TokenIdent && p.peekN(1).Kind == TokenLParen:
			return p.parseCallable(KindMethodDecl, start, modifiers)
		case angle <= 0 && (tok.Kind == TokenAssign || tok.Kind == TokenSemicolon || tok.Kind == TokenComma):
			return p.parseFieldRest(start, modifiers, name)
		case tok.Kind == TokenLBracket:
			p.skipGroup()
		case tok.Kind == TokenLParen || tok.Kind == TokenLBrace:
			return p.errorNode(start, startIdx, "expected member declaration")
		default:
			if tok.Kind == TokenIdent && angle <= 0 {
				name = &tok
			}
			p.advance()
		}
	}
}

func (p *Parser) parseFieldRest(start Position, modifiers *Node, name *Token) *Node {
	node := &Node{Kind: KindFieldDecl, Span: Span{Start: start}}
	node.AddChild(modifiers)
	if name != nil {
		node.AddChild(leaf(KindIdentifier, *name))
	}
	for !p.check(TokenEOF) && !p.check(TokenRBrace) {
		if p.isOpenGroup() {
			p.skipGroup()
			continue
		}
		if p.advance().Kind == TokenSemicolon {
			break
		}
	}
	return p.finishNode(node)
}

// parseCallable parses a method or constructor from its name onwards. A
// declaration without a block (abstract, native, interface or annotation
// element) has no KindBlock child.
func (p *Parser) parseCallable(kind NodeKind, start Position, modifiers *Node) *Node {
	node := &Node{Kind: kind, Span: Span{Start: start}}
	node.AddChild(modifiers)
	node.AddChild(leaf(KindIdentifier, p.advance()))

	params := p.startNode(KindParameters)
	p.skipGroup()
	node.AddChild(p.finishNode(params))

	for !p.check(TokenEOF) && !p.check(TokenRBrace) {
		switch {
		case p.check(TokenLBrace):
			node.AddChild(p.parseBlock())
			return p.finishNode(node)
		case p.check(TokenSemicolon):
			p.advance()
			return p.finishNode(node)
		case p.check(TokenDefault):
			p.advance()
			for !p.check(TokenEOF) && !p.check(TokenRBrace) {
				if p.isOpenGroup() {
					p.skipGroup()
					continue
				}
				if p.advance().Kind == TokenSemicolon {
					return p.finishNode(node)
				}
			}
		case p.check(TokenAt):
			p.parseAnnotation()
		case p.isOpenGroup():
			p.skipGroup()
		default:
			p.advance()
		}
	}
	return p.finishNode(node)
}

// attachComments adds the comments that sit directly in a body, between
// its members, to the body's children in source order. Comments inside a
// member (including nested type bodies) stay with that member's span.
func (p *Parser) attachComments(body *Node) {
	start, end := body.Span.Start.Offset, body.Span.End.Offset
	i := sort.Search(len(p.comments), func(i int) bool {
		return p.comments[i].Span.Start.Offset > start
	})

	var trivia []*Node
	for ; i < len(p.comments) && p.comments[i].Span.Start.Offset < end; i++ {
		c := p.comments[i]
		if coveredByChild(body, c.Span.Start.Offset) {
			continue
		}
		kind := KindComment
		if c.Kind == TokenLineComment {
			kind = KindLineComment
		}
		trivia = append(trivia, leaf(kind, c))
	}
	if len(trivia) == 0 {
		return
	}

	merged := make([]*Node, 0, len(body.Children)+len(trivia))
	merged = append(merged, body.Children...)
	merged = append(merged, trivia...)
	sort.SliceStable(merged, func(a, b int) bool {
		return merged[a].Span.Start.Offset < merged[b].Span.Start.Offset
	})
	body.Children = merged
}

func coveredByChild(body *Node, offset int) bool {
	for _, child := range body.Children {
		if child.Span.Contains(offset) {
			return true
		}
	}
	return false
}
