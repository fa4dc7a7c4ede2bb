// Package errors defines the error values reported by the SPA-JSON engine.
//
// Every error carries a stable Kind. Kind itself implements error, so callers
// can test for a category with the standard library:
//
//	if errors.Is(err, spaerrors.NestingTooDeep) { ... }
package errors

import (
	"fmt"

	"github.com/KimNorgaard/go-spajson/token"
)

// Kind classifies an error.
type Kind string

// Lexical error kinds.
const (
	UnterminatedString  Kind = "unterminated string"
	UnterminatedComment Kind = "unterminated comment"
	InvalidEscape       Kind = "invalid escape"
	InvalidUTF8         Kind = "invalid utf-8"
)

// Syntax error kinds.
const (
	UnexpectedToken      Kind = "unexpected token"
	UnexpectedEndOfInput Kind = "unexpected end of input"
	TrailingContent      Kind = "trailing content"
	NestingTooDeep       Kind = "nesting too deep"
)

// Adapter error kinds, raised when bridging to a typed shape.
const (
	TypeMismatch   Kind = "type mismatch"
	MissingField   Kind = "missing field"
	UnknownVariant Kind = "unknown variant"
)

func (k Kind) Error() string { return string(k) }

// LexError is a failure to tokenize the input.
type LexError struct {
	Kind    Kind
	Message string
	Pos     token.Position
}

func (e *LexError) Error() string {
	return fmt.Sprintf("spajson: %s at line %d, column %d: %s", e.Kind, e.Pos.Line, e.Pos.Column, e.Message)
}

// Is reports whether target is the Kind of e.
func (e *LexError) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.Kind
}

// ParseError is a grammar violation found while building a value tree.
type ParseError struct {
	Kind     Kind
	Message  string
	Pos      token.Position
	Expected string // set for UnexpectedToken
	Found    string // set for UnexpectedToken
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("spajson: %s at line %d, column %d: %s", e.Kind, e.Pos.Line, e.Pos.Column, e.Message)
}

// Is reports whether target is the Kind of e.
func (e *ParseError) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.Kind
}

// Line returns the 1-based line of the error.
func (e *ParseError) Line() int { return e.Pos.Line }

// Column returns the 1-based column of the error.
func (e *ParseError) Column() int { return e.Pos.Column }

// AdapterError is a failure to map a value tree to or from a typed shape.
// Path locates the offending value, e.g. "$.nodes[2].name".
type AdapterError struct {
	Kind    Kind
	Path    string
	Type    string // Go type involved, if any
	Message string
}

func (e *AdapterError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("spajson: %s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("spajson: %s at %s: %s", e.Kind, e.Path, e.Message)
}

// Is reports whether target is the Kind of e.
func (e *AdapterError) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.Kind
}
