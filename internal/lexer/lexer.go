package lexer

import (
	"bytes"
	"fmt"
	"iter"
	"strings"
	"unicode"
	"unicode/utf8"

	spaerrors "github.com/KimNorgaard/go-spajson/errors"
	"github.com/KimNorgaard/go-spajson/token"
)

const eof = -1

var byteOrderMark = []byte{0xEF, 0xBB, 0xBF}

// Lexer holds the state for tokenizing SPA-JSON source. A Lexer is used for
// a single pass over one input.
type Lexer struct {
	input        []byte
	keepComments bool

	ch     rune // current rune, eof at end of input
	size   int  // byte width of ch
	offset int  // byte offset of ch
	line   int
	column int

	buf strings.Builder
	err error
}

// Option configures a Lexer.
type Option func(*Lexer)

// KeepComments makes the lexer emit COMMENT tokens instead of discarding
// them.
func KeepComments() Option {
	return func(l *Lexer) { l.keepComments = true }
}

// New creates and returns a new Lexer.
func New(input []byte, opts ...Option) *Lexer {
	l := &Lexer{input: input, line: 1, column: 1}
	for _, opt := range opts {
		opt(l)
	}
	if bytes.HasPrefix(input, byteOrderMark) {
		l.offset = len(byteOrderMark)
	}
	l.decode()
	return l
}

// All returns the remaining tokens. Iteration ends after the EOF token or
// after the first error.
func (l *Lexer) All() iter.Seq2[token.Token, error] {
	return func(yield func(token.Token, error) bool) {
		for {
			tok, err := l.Next()
			if !yield(tok, err) || err != nil || tok.Type == token.EOF {
				return
			}
		}
	}
}

// Next scans the input and returns the next token. Once an error has been
// returned every later call returns the same error.
func (l *Lexer) Next() (token.Token, error) {
	if l.err != nil {
		return token.Token{}, l.err
	}
	tok, err := l.next()
	if err != nil {
		l.err = err
	}
	return tok, err
}

func (l *Lexer) next() (token.Token, error) {
	for {
		if err := l.skipWhitespace(); err != nil {
			return token.Token{}, err
		}
		tok := token.Token{Pos: l.pos()}

		switch l.ch {
		case eof:
			tok.Type = token.EOF
			return tok, nil
		case '{', '}', '[', ']', '=', ':', ',':
			tok.Type = token.Type(l.ch)
			tok.Literal = string(l.ch)
			l.advance()
			return tok, nil
		case '"':
			lit, err := l.readString()
			if err != nil {
				return token.Token{}, err
			}
			tok.Type = token.STRING
			tok.Literal = lit
			return tok, nil
		case '#':
			tok.Type = token.COMMENT
			tok.Literal = l.readLineComment()
		case '/':
			switch l.peek() {
			case '/':
				tok.Type = token.COMMENT
				tok.Literal = l.readLineComment()
			case '*':
				lit, err := l.readBlockComment(tok.Pos)
				if err != nil {
					return token.Token{}, err
				}
				tok.Type = token.COMMENT
				tok.Literal = lit
			}
		}

		if tok.Type == token.COMMENT {
			if l.keepComments {
				return tok, nil
			}
			continue
		}

		lit, err := l.readBareword()
		if err != nil {
			return token.Token{}, err
		}
		tok.Type = token.BAREWORD
		tok.Literal = lit
		return tok, nil
	}
}

func (l *Lexer) pos() token.Position {
	return token.Position{Line: l.line, Column: l.column, Offset: l.offset}
}

// decode loads the rune at l.offset into l.ch.
func (l *Lexer) decode() {
	if l.offset >= len(l.input) {
		l.ch, l.size = eof, 0
		return
	}
	if c := l.input[l.offset]; c < utf8.RuneSelf {
		l.ch, l.size = rune(c), 1
		return
	}
	l.ch, l.size = utf8.DecodeRune(l.input[l.offset:])
}

func (l *Lexer) advance() {
	if l.ch == eof {
		return
	}
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}
	l.offset += l.size
	l.column++
	l.decode()
}

func (l *Lexer) peek() rune {
	next := l.offset + l.size
	if next >= len(l.input) {
		return eof
	}
	r, _ := utf8.DecodeRune(l.input[next:])
	return r
}

// invalidRune reports whether the current rune is a decoding error rather
// than a literal U+FFFD in the input.
func (l *Lexer) invalidRune() bool {
	return l.ch == utf8.RuneError && l.size == 1
}

func (l *Lexer) invalidUTF8() error {
	return &spaerrors.LexError{
		Kind:    spaerrors.InvalidUTF8,
		Message: fmt.Sprintf("invalid utf-8 byte 0x%02X", l.input[l.offset]),
		Pos:     l.pos(),
	}
}

func (l *Lexer) skipWhitespace() error {
	for l.ch != eof && unicode.IsSpace(l.ch) {
		l.advance()
	}
	if l.invalidRune() {
		return l.invalidUTF8()
	}
	return nil
}

func (l *Lexer) readLineComment() string {
	start := l.offset
	for l.ch != '\n' && l.ch != eof {
		l.advance()
	}
	return string(l.input[start:l.offset])
}

func (l *Lexer) readBlockComment(start token.Position) (string, error) {
	l.advance() // consume '/'
	l.advance() // consume '*'
	for {
		if l.ch == eof {
			return "", &spaerrors.LexError{
				Kind:    spaerrors.UnterminatedComment,
				Message: "block comment is not closed with */",
				Pos:     start,
			}
		}
		if l.ch == '*' && l.peek() == '/' {
			l.advance()
			l.advance()
			return string(l.input[start.Offset:l.offset]), nil
		}
		l.advance()
	}
}

func (l *Lexer) readBareword() (string, error) {
	start := l.offset
	for IsBarewordRune(l.ch) {
		if l.invalidRune() {
			return "", l.invalidUTF8()
		}
		if l.ch == '/' && (l.peek() == '/' || l.peek() == '*') {
			break
		}
		l.advance()
	}
	return string(l.input[start:l.offset]), nil
}

func (l *Lexer) readString() (string, error) {
	start := l.pos()
	l.advance() // consume opening quote
	l.buf.Reset()
	for {
		switch {
		case l.ch == eof:
			return "", &spaerrors.LexError{
				Kind:    spaerrors.UnterminatedString,
				Message: "string is not closed with a quote",
				Pos:     start,
			}
		case l.ch == '"':
			l.advance() // consume closing quote
			return l.buf.String(), nil
		case l.ch == '\\':
			if l.peek() == eof {
				return "", &spaerrors.LexError{
					Kind:    spaerrors.UnterminatedString,
					Message: "string is not closed with a quote",
					Pos:     start,
				}
			}
			r, err := l.readEscapeSequence()
			if err != nil {
				return "", err
			}
			l.buf.WriteRune(r)
		case l.invalidRune():
			return "", l.invalidUTF8()
		default:
			l.buf.WriteRune(l.ch)
			l.advance()
		}
	}
}

// readEscapeSequence is entered on the backslash and leaves the lexer on the
// rune after the sequence.
func (l *Lexer) readEscapeSequence() (rune, error) {
	start := l.pos()
	l.advance() // consume backslash
	switch l.ch {
	case 'b', 'f', 'n', 'r', 't', '"', '\\', '/':
		r := unescape(l.ch)
		l.advance()
		return r, nil
	case 'u':
		r, ok := l.readHex4()
		if !ok {
			return 0, invalidEscape(start, "invalid unicode escape")
		}
		if utf16IsHighSurrogate(r) {
			if l.ch != '\\' || l.peek() != 'u' {
				return 0, invalidEscape(start, "unpaired surrogate in unicode escape")
			}
			l.advance() // consume backslash
			lo, ok := l.readHex4()
			if !ok || !utf16IsLowSurrogate(lo) {
				return 0, invalidEscape(start, "unpaired surrogate in unicode escape")
			}
			return (r-0xD800)<<10 + (lo - 0xDC00) + 0x10000, nil
		}
		if utf16IsLowSurrogate(r) {
			return 0, invalidEscape(start, "unpaired surrogate in unicode escape")
		}
		return r, nil
	default:
		return 0, invalidEscape(start, fmt.Sprintf("invalid escape sequence \\%c", l.ch))
	}
}

// readHex4 is entered on the 'u' and consumes it plus four hex digits.
func (l *Lexer) readHex4() (rune, bool) {
	var val rune
	for range 4 {
		l.advance()
		var d rune
		switch {
		case '0' <= l.ch && l.ch <= '9':
			d = l.ch - '0'
		case 'a' <= l.ch && l.ch <= 'f':
			d = l.ch - 'a' + 10
		case 'A' <= l.ch && l.ch <= 'F':
			d = l.ch - 'A' + 10
		default:
			return 0, false
		}
		val = val*16 + d
	}
	l.advance()
	return val, true
}

func invalidEscape(pos token.Position, msg string) error {
	return &spaerrors.LexError{Kind: spaerrors.InvalidEscape, Message: msg, Pos: pos}
}

func utf16IsHighSurrogate(r rune) bool { return 0xD800 <= r && r < 0xDC00 }
func utf16IsLowSurrogate(r rune) bool  { return 0xDC00 <= r && r < 0xE000 }

// IsBarewordRune reports whether r may appear in a bareword.
func IsBarewordRune(r rune) bool {
	switch r {
	case eof, '{', '}', '[', ']', '=', ':', ',', '"':
		return false
	}
	return !unicode.IsSpace(r)
}

// IsBareword reports whether s would be read back as exactly one bareword
// token.
func IsBareword(s string) bool {
	if s == "" || s[0] == '#' {
		return false
	}
	if strings.Contains(s, "//") || strings.Contains(s, "/*") {
		return false
	}
	for _, r := range s {
		if r == utf8.RuneError || !IsBarewordRune(r) {
			return false
		}
	}
	return true
}

func unescape(ch rune) rune {
	switch ch {
	case 'b':
		return '\b'
	case 'f':
		return '\f'
	case 'n':
		return '\n'
	case 'r':
		return '\r'
	case 't':
		return '\t'
	case '"':
		return '"'
	case '\\':
		return '\\'
	case '/':
		return '/'
	}
	return 0
}
