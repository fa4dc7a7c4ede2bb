package parser

import (
	"fmt"

	spaerrors "github.com/KimNorgaard/go-spajson/errors"
	"github.com/KimNorgaard/go-spajson/internal/lexer"
	"github.com/KimNorgaard/go-spajson/token"
	"github.com/KimNorgaard/go-spajson/value"
)

// DefaultMaxDepth is the nesting limit used when none is configured.
const DefaultMaxDepth = 1000

// Parser holds the state of the parser.
type Parser struct {
	l        *lexer.Lexer
	maxDepth int
	depth    int

	curToken  token.Token
	peekToken token.Token
}

// New creates a new parser. A maxDepth of zero or less selects
// DefaultMaxDepth.
func New(l *lexer.Lexer, maxDepth int) *Parser {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Parser{l: l, maxDepth: maxDepth}
}

// Parse parses the whole input as a single document. On error no value is
// returned.
func (p *Parser) Parse() (value.Value, error) {
	// Read two tokens, so curToken and peekToken are both set.
	if err := p.nextToken(); err != nil {
		return value.Value{}, err
	}
	if err := p.nextToken(); err != nil {
		return value.Value{}, err
	}

	if p.curTokenIs(token.EOF) {
		return value.Value{}, p.errorf(spaerrors.UnexpectedEndOfInput, "document is empty")
	}

	var (
		v   value.Value
		err error
	)
	if p.startsBareObject() {
		v, err = p.parseBareObject()
	} else {
		v, err = p.parseValue()
	}
	if err != nil {
		return value.Value{}, err
	}

	if !p.curTokenIs(token.EOF) {
		return value.Value{}, p.errorf(spaerrors.TrailingContent,
			"unexpected %s after top-level value", p.curToken.Describe())
	}
	return v, nil
}

func (p *Parser) nextToken() error {
	tok, err := p.l.Next()
	if err != nil {
		return err
	}
	p.curToken = p.peekToken
	p.peekToken = tok
	return nil
}

// startsBareObject reports whether the document is a sequence of members
// without enclosing braces, as in WirePlumber configuration files.
func (p *Parser) startsBareObject() bool {
	isKey := p.curTokenIs(token.BAREWORD) || p.curTokenIs(token.STRING)
	return isKey && (p.peekTokenIs(token.EQUALS) || p.peekTokenIs(token.COLON))
}

// The contract for all parse functions is that they are entered with
// p.curToken being the first token of the construct, and they return with
// p.curToken pointing to the token after the construct.

func (p *Parser) parseValue() (value.Value, error) {
	switch p.curToken.Type {
	case token.LBRACE:
		return p.parseObject()
	case token.LBRACK:
		return p.parseArray()
	case token.STRING:
		v := value.String(p.curToken.Literal)
		return v, p.nextToken()
	case token.BAREWORD:
		v := value.FromBareword(p.curToken.Literal)
		return v, p.nextToken()
	case token.EOF:
		return value.Value{}, p.errorf(spaerrors.UnexpectedEndOfInput, "expected a value")
	default:
		return value.Value{}, p.unexpected("value")
	}
}

func (p *Parser) enter() error {
	p.depth++
	if p.depth > p.maxDepth {
		return p.errorf(spaerrors.NestingTooDeep, "nesting exceeds maximum depth of %d", p.maxDepth)
	}
	return nil
}

func (p *Parser) leave() { p.depth-- }

func (p *Parser) parseObject() (value.Value, error) {
	if err := p.enter(); err != nil {
		return value.Value{}, err
	}
	defer p.leave()

	if err := p.nextToken(); err != nil { // consume '{'
		return value.Value{}, err
	}
	obj, err := p.parseMembers(token.RBRACE)
	if err != nil {
		return value.Value{}, err
	}
	if err := p.nextToken(); err != nil { // consume '}'
		return value.Value{}, err
	}
	return value.ObjectValue(obj), nil
}

func (p *Parser) parseBareObject() (value.Value, error) {
	if err := p.enter(); err != nil {
		return value.Value{}, err
	}
	defer p.leave()

	obj, err := p.parseMembers(token.EOF)
	if err != nil {
		return value.Value{}, err
	}
	return value.ObjectValue(obj), nil
}

// parseMembers reads key/value pairs until end and leaves p.curToken on end.
func (p *Parser) parseMembers(end token.Type) (*value.Object, error) {
	obj := value.NewObject()
	for {
		if err := p.skip(token.COMMA); err != nil {
			return nil, err
		}
		if p.curTokenIs(end) {
			return obj, nil
		}

		var key string
		switch p.curToken.Type {
		case token.BAREWORD, token.STRING:
			key = p.curToken.Literal
		case token.EOF:
			return nil, p.errorf(spaerrors.UnexpectedEndOfInput, "expected a key or '%s'", end)
		case token.RBRACE, token.RBRACK:
			if end == token.EOF {
				return nil, p.errorf(spaerrors.TrailingContent,
					"unexpected %s after top-level value", p.curToken.Describe())
			}
			return nil, p.unexpected("key")
		default:
			return nil, p.unexpected("key")
		}
		if err := p.nextToken(); err != nil { // consume key
			return nil, err
		}

		if p.curToken.Type.IsSeparator() {
			if err := p.nextToken(); err != nil {
				return nil, err
			}
		}
		if p.curTokenIs(end) && end != token.EOF {
			return nil, p.unexpected(fmt.Sprintf("value for key %q", key))
		}

		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		obj.Set(key, v)
	}
}

func (p *Parser) parseArray() (value.Value, error) {
	if err := p.enter(); err != nil {
		return value.Value{}, err
	}
	defer p.leave()

	if err := p.nextToken(); err != nil { // consume '['
		return value.Value{}, err
	}
	elements := []value.Value{}
	for {
		if err := p.skip(token.COMMA); err != nil {
			return value.Value{}, err
		}
		switch p.curToken.Type {
		case token.RBRACK:
			if err := p.nextToken(); err != nil { // consume ']'
				return value.Value{}, err
			}
			return value.Array(elements...), nil
		case token.EOF:
			return value.Value{}, p.errorf(spaerrors.UnexpectedEndOfInput, "expected a value or ']'")
		}
		v, err := p.parseValue()
		if err != nil {
			return value.Value{}, err
		}
		elements = append(elements, v)
	}
}

func (p *Parser) skip(t token.Type) error {
	for p.curTokenIs(t) {
		if err := p.nextToken(); err != nil {
			return err
		}
	}
	return nil
}

func (p *Parser) curTokenIs(t token.Type) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t token.Type) bool {
	return p.peekToken.Type == t
}

func (p *Parser) errorf(kind spaerrors.Kind, format string, args ...any) error {
	return &spaerrors.ParseError{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Pos:     p.curToken.Pos,
	}
}

func (p *Parser) unexpected(expected string) error {
	found := p.curToken.Describe()
	return &spaerrors.ParseError{
		Kind:     spaerrors.UnexpectedToken,
		Message:  fmt.Sprintf("expected %s, found %s", expected, found),
		Pos:      p.curToken.Pos,
		Expected: expected,
		Found:    found,
	}
}
