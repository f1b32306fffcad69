package parser

import "fmt"

type Position struct {
	File   string
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

type Span struct {
	Start Position
	End   Position
}

// Contains reports whether offset lies in the half-open range [Start, End).
func (s Span) Contains(offset int) bool {
	return offset >= s.Start.Offset && offset < s.End.Offset
}

type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenError
	TokenWhitespace
	TokenComment
	TokenLineComment

	// Literals
	TokenIdent
	TokenNumber
	TokenCharLiteral
	TokenStringLiteral
	TokenTextBlock

	// Keywords that shape declarations. Keywords that only occur inside
	// bodies and initializers are lexed as identifiers.
	TokenAbstract
	TokenClass
	TokenDefault
	TokenEnum
	TokenFinal
	TokenImport
	TokenInterface
	TokenNative
	TokenPackage
	TokenPrivate
	TokenProtected
	TokenPublic
	TokenStatic
	TokenStrictfp
	TokenSynchronized
	TokenTransient
	TokenVolatile
	TokenNonSealed

	// Punctuation
	TokenLParen
	TokenRParen
	TokenLBrace
	TokenRBrace
	TokenLBracket
	TokenRBracket
	TokenSemicolon
	TokenComma
	TokenDot
	TokenAt
	TokenAssign
	TokenLT
	TokenGT
	TokenOperator
)

var tokenKindNames = map[TokenKind]string{
	TokenEOF:           "EOF",
	TokenError:         "Error",
	TokenWhitespace:    "Whitespace",
	TokenComment:       "Comment",
	TokenLineComment:   "LineComment",
	TokenIdent:         "Identifier",
	TokenNumber:        "Number",
	TokenCharLiteral:   "CharLiteral",
	TokenStringLiteral: "StringLiteral",
	TokenTextBlock:     "TextBlock",
	TokenAbstract:      "abstract",
	TokenClass:         "class",
	TokenDefault:       "default",
	TokenEnum:          "enum",
	TokenFinal:         "final",
	TokenImport:        "import",
	TokenInterface:     "interface",
	TokenNative:        "native",
	TokenPackage:       "package",
	TokenPrivate:       "private",
	TokenProtected:     "protected",
	TokenPublic:        "public",
	TokenStatic:        "static",
	TokenStrictfp:      "strictfp",
	TokenSynchronized:  "synchronized",
	TokenTransient:     "transient",
	TokenVolatile:      "volatile",
	TokenNonSealed:     "non-sealed",
	TokenLParen:        "(",
	TokenRParen:        ")",
	TokenLBrace:        "{",
	TokenRBrace:        "}",
	TokenLBracket:      "[",
	TokenRBracket:      "]",
	TokenSemicolon:     ";",
	TokenComma:         ",",
	TokenDot:           ".",
	TokenAt:            "@",
	TokenAssign:        "=",
	TokenLT:            "<",
	TokenGT:            ">",
	TokenOperator:      "Operator",
}

func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// IsModifier reports whether the token kind is a declaration modifier keyword.
func (k TokenKind) IsModifier() bool {
	switch k {
	case TokenAbstract, TokenDefault, TokenFinal, TokenNative,
		TokenPrivate, TokenProtected, TokenPublic, TokenStatic,
		TokenStrictfp, TokenSynchronized, TokenTransient, TokenVolatile,
		TokenNonSealed:
		return true
	}
	return false
}

type Token struct {
	Kind    TokenKind
	Span    Span
	Literal string
}

// IsDoc reports whether the token is a documentation comment.
func (t Token) IsDoc() bool {
	return t.Kind == TokenComment && len(t.Literal) > 4 && t.Literal[:3] == "/**"
}

var keywords = map[string]TokenKind{
	"abstract":     TokenAbstract,
	"class":        TokenClass,
	"default":      TokenDefault,
	"enum":         TokenEnum,
	"final":        TokenFinal,
	"import":       TokenImport,
	"interface":    TokenInterface,
	"native":       TokenNative,
	"package":      TokenPackage,
	"private":      TokenPrivate,
	"protected":    TokenProtected,
	"public":       TokenPublic,
	"static":       TokenStatic,
	"strictfp":     TokenStrictfp,
	"synchronized": TokenSynchronized,
	"transient":    TokenTransient,
	"volatile":     TokenVolatile,
}

func LookupKeyword(ident string) TokenKind {
	if kind, ok := keywords[ident]; ok {
		return kind
	}
	return TokenIdent
}
