// Package adapter bridges value trees and typed application data.
//
// Deserialization pulls from a Reader: the consumer asks for the shape of the
// current value and reads scalars, sequence elements or map entries, each
// child carrying its path for error reporting. Serialization pushes into a
// Visitor; Builder is the Visitor that accumulates a value.Value, and Walk
// replays an existing tree into any Visitor.
package adapter

import (
	"fmt"
	"iter"
	"strconv"

	spaerrors "github.com/KimNorgaard/go-spajson/errors"
	"github.com/KimNorgaard/go-spajson/value"
)

// Shape is the coarse structure of a value as seen by a typed consumer.
type Shape int

const (
	ShapeNull Shape = iota
	ShapeScalar
	ShapeSeq
	ShapeMap
)

func (s Shape) String() string {
	switch s {
	case ShapeNull:
		return "null"
	case ShapeScalar:
		return "scalar"
	case ShapeSeq:
		return "sequence"
	case ShapeMap:
		return "map"
	}
	return "shape(" + strconv.Itoa(int(s)) + ")"
}

// RootPath is the path of the value a Reader is created on.
const RootPath = "$"

// Reader gives pull access to a value and its children.
type Reader struct {
	v    value.Value
	path string
}

// NewReader returns a Reader positioned at the root of v.
func NewReader(v value.Value) Reader {
	return Reader{v: v, path: RootPath}
}

// Value returns the underlying value.
func (r Reader) Value() value.Value { return r.v }

// Path locates the value within the document, e.g. `$.nodes[2]["media.class"]`.
func (r Reader) Path() string { return r.path }

// Kind returns the kind of the underlying value.
func (r Reader) Kind() value.Kind { return r.v.Kind() }

// Shape reports whether the value is null, a scalar, a sequence or a map.
func (r Reader) Shape() Shape {
	switch r.v.Kind() {
	case value.KindNull:
		return ShapeNull
	case value.KindArray:
		return ShapeSeq
	case value.KindObject:
		return ShapeMap
	default:
		return ShapeScalar
	}
}

// ReadBool returns the value as a bool.
func (r Reader) ReadBool() (bool, error) {
	if b, ok := r.v.AsBool(); ok {
		return b, nil
	}
	return false, r.Mismatch("bool")
}

// ReadInt returns the value as an int64.
func (r Reader) ReadInt() (int64, error) {
	if i, ok := r.v.AsInt(); ok {
		return i, nil
	}
	return 0, r.Mismatch("integer")
}

// ReadFloat returns the value as a float64. An Int widens to Float, the
// reverse never happens.
func (r Reader) ReadFloat() (float64, error) {
	switch r.v.Kind() {
	case value.KindFloat:
		f, _ := r.v.AsFloat()
		return f, nil
	case value.KindInt:
		i, _ := r.v.AsInt()
		return float64(i), nil
	}
	return 0, r.Mismatch("float")
}

// ReadString returns the value as a string.
func (r Reader) ReadString() (string, error) {
	if s, ok := r.v.AsString(); ok {
		return s, nil
	}
	return "", r.Mismatch("string")
}

// Len returns the number of elements or entries, or 0 for scalars.
func (r Reader) Len() int { return r.v.Len() }

// Elements yields the elements of a sequence in order. It yields nothing
// for other shapes.
func (r Reader) Elements() iter.Seq2[int, Reader] {
	return func(yield func(int, Reader) bool) {
		for i, e := range r.v.Items() {
			if !yield(i, Reader{v: e, path: IndexPath(r.path, i)}) {
				return
			}
		}
	}
}

// Entries yields the entries of a map in stored order. It yields nothing
// for other shapes.
func (r Reader) Entries() iter.Seq2[string, Reader] {
	return func(yield func(string, Reader) bool) {
		for k, v := range r.v.Object().All() {
			if !yield(k, Reader{v: v, path: KeyPath(r.path, k)}) {
				return
			}
		}
	}
}

// Field returns the entry stored under key.
func (r Reader) Field(key string) (Reader, bool) {
	v, ok := r.v.Get(key)
	if !ok {
		return Reader{}, false
	}
	return Reader{v: v, path: KeyPath(r.path, key)}, true
}

// Mismatch returns a TypeMismatch error for this position.
func (r Reader) Mismatch(want string) error {
	return &spaerrors.AdapterError{
		Kind:    spaerrors.TypeMismatch,
		Path:    r.path,
		Message: fmt.Sprintf("expected %s, found %s", want, r.v.Kind()),
	}
}

// Errorf returns an AdapterError of the given kind for this position.
func (r Reader) Errorf(kind spaerrors.Kind, format string, args ...any) error {
	return &spaerrors.AdapterError{
		Kind:    kind,
		Path:    r.path,
		Message: fmt.Sprintf(format, args...),
	}
}
