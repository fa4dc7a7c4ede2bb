package spajson

import (
	"bytes"

	"github.com/KimNorgaard/go-spajson/internal/lexer"
	"github.com/KimNorgaard/go-spajson/internal/parser"
	"github.com/KimNorgaard/go-spajson/value"
)

// Marshaler is the interface implemented by types that
// can marshal themselves into valid SPA-JSON.
type Marshaler interface {
	MarshalSPAJSON() ([]byte, error)
}

// Unmarshaler is the interface implemented by types that can unmarshal a
// SPA-JSON rendering of themselves. The input is the compact, single line
// form of the value.
type Unmarshaler interface {
	UnmarshalSPAJSON([]byte) error
}

// Parse reads one SPA-JSON document. The whole input must form a single
// value; a sequence of members without enclosing braces is read as an
// object. On error no partial value is returned.
func Parse(data []byte, opts ...Option) (value.Value, error) {
	o, err := newOptions(opts)
	if err != nil {
		return value.Value{}, err
	}
	return parse(data, o)
}

func parse(data []byte, o *options) (value.Value, error) {
	return parser.New(lexer.New(data), o.maxDepth).Parse()
}

// ParseAs parses data and maps the result onto a new T.
func ParseAs[T any](data []byte, opts ...Option) (T, error) {
	var out T
	err := Unmarshal(data, &out, opts...)
	return out, err
}

// Unmarshal parses the SPA-JSON-encoded data and stores the result
// in the value pointed to by v.
func Unmarshal(data []byte, v any, opts ...Option) error {
	return NewDecoder(bytes.NewReader(data), opts...).Decode(v)
}

// Marshal returns the SPA-JSON encoding of v.
func Marshal(v any, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	if err := NewEncoder(&buf, opts...).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ToString renders v. It panics if an option is invalid; use NewPrinter to
// validate options ahead of time.
func ToString(v value.Value, opts ...Option) string {
	p, err := NewPrinter(opts...)
	if err != nil {
		panic(err)
	}
	return p.Print(v)
}
