package token

import "fmt"

// Type is the type of a token.
type Type string

// Position is a location in the source text.
type Position struct {
	Line   int // 1-based
	Column int // 1-based, counted in runes
	Offset int // 0-based byte offset
}

func (p Position) String() string {
	return fmt.Sprintf("line %d, column %d", p.Line, p.Column)
}

// Token represents a lexical token.
type Token struct {
	Type    Type
	Literal string
	Pos     Position
}

const (
	EOF Type = "EOF"

	// BAREWORD is an unquoted run of text. Keywords and numbers are
	// barewords too; they are classified when a value is built.
	BAREWORD Type = "BAREWORD"
	STRING   Type = "STRING" // "hello world", Literal holds the unescaped text
	COMMENT  Type = "COMMENT"

	// Delimiters
	LBRACE Type = "{"
	RBRACE Type = "}"
	LBRACK Type = "["
	RBRACK Type = "]"
	EQUALS Type = "="
	COLON  Type = ":"
	COMMA  Type = ","
)

// IsSeparator reports whether t may sit between a key and its value.
func (t Type) IsSeparator() bool {
	return t == EQUALS || t == COLON || t == COMMA
}

// Describe renders a token for error messages.
func (t Token) Describe() string {
	switch t.Type {
	case EOF:
		return "end of input"
	case BAREWORD:
		return fmt.Sprintf("bareword %q", t.Literal)
	case STRING:
		return fmt.Sprintf("string %q", t.Literal)
	case COMMENT:
		return "comment"
	default:
		return fmt.Sprintf("'%s'", t.Type)
	}
}
