package spajson

import (
	"cmp"
	"encoding"
	"fmt"
	"io"
	"reflect"
	"slices"
	"strconv"

	"github.com/KimNorgaard/go-spajson/adapter"
	spaerrors "github.com/KimNorgaard/go-spajson/errors"
	"github.com/KimNorgaard/go-spajson/internal/mapper"
	"github.com/KimNorgaard/go-spajson/value"
)

// Encoder writes SPA-JSON values to an output stream.
type Encoder struct {
	w    io.Writer
	opts []Option
}

// NewEncoder returns a new encoder that writes to w.
func NewEncoder(w io.Writer, opts ...Option) *Encoder {
	return &Encoder{w: w, opts: opts}
}

// Encode writes the SPA-JSON encoding of v to the stream.
//
// Structs encode as objects with fields in declaration order; maps encode
// with their keys sorted. Nil pointers, slices, maps and interfaces encode
// as null.
func (e *Encoder) Encode(v any) error {
	o, err := newOptions(e.opts)
	if err != nil {
		return err
	}
	tree, err := toValue(v, o)
	if err != nil {
		return err
	}
	_, err = io.WriteString(e.w, (&Printer{opts: o}).Print(tree))
	return err
}

// ToValue converts v to a value tree using the same rules as Marshal.
func ToValue(v any, opts ...Option) (value.Value, error) {
	o, err := newOptions(opts)
	if err != nil {
		return value.Value{}, err
	}
	return toValue(v, o)
}

func toValue(v any, o *options) (value.Value, error) {
	b := adapter.NewBuilder()
	es := &encodeState{vis: b, opts: o, depth: o.maxDepth}
	if err := es.marshalValue(reflect.ValueOf(v), adapter.RootPath); err != nil {
		return value.Value{}, err
	}
	return b.Value(), nil
}

// encodeState pushes a Go value into a visitor.
type encodeState struct {
	vis   adapter.Visitor
	opts  *options
	depth int
}

func (e *encodeState) marshalCustom(v reflect.Value, u Marshaler) error {
	b, err := u.MarshalSPAJSON()
	if err != nil {
		return &MarshalerError{Type: v.Type(), Err: err}
	}

	// The output must be parsed back to be spliced into the tree.
	tree, err := parse(b, e.opts)
	if err != nil {
		return &MarshalerError{Type: v.Type(), Err: fmt.Errorf("invalid SPA-JSON output: %w", err)}
	}
	adapter.Walk(tree, e.vis)
	return nil
}

func (e *encodeState) marshalValue(v reflect.Value, path string) error { //nolint:gocyclo
	// Handle nil interfaces explicitly to avoid panics.
	if !v.IsValid() || (v.Kind() == reflect.Interface && v.IsNil()) {
		e.vis.VisitNull()
		return nil
	}

	e.depth--
	if e.depth < 0 {
		return &spaerrors.AdapterError{
			Kind:    spaerrors.NestingTooDeep,
			Path:    path,
			Message: "reached max encoding depth",
		}
	}
	defer func() { e.depth++ }()

	switch v.Type() {
	case valueType:
		adapter.Walk(v.Interface().(value.Value), e.vis)
		return nil
	case objectPtrType:
		if v.IsNil() {
			e.vis.VisitNull()
			return nil
		}
		adapter.Walk(value.ObjectValue(v.Interface().(*value.Object)), e.vis)
		return nil
	}

	// Check for custom Marshaler implementation.
	// We must check the value itself and a pointer to the value,
	// to handle both value and pointer receivers.
	if handled, err := e.tryCustomMarshal(v); handled || err != nil {
		return err
	}

	// Follow pointers and interfaces to find the concrete value.
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			e.vis.VisitNull()
			return nil
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.String:
		e.vis.VisitString(v.String())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		e.vis.VisitInt(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := v.Uint()
		if u > 1<<63-1 {
			return &spaerrors.AdapterError{
				Kind:    spaerrors.TypeMismatch,
				Path:    path,
				Type:    v.Type().String(),
				Message: fmt.Sprintf("%d overflows int64", u),
			}
		}
		e.vis.VisitInt(int64(u))
	case reflect.Float32:
		// Keep the shortest float32 text rather than the widened binary value.
		f, _ := strconv.ParseFloat(strconv.FormatFloat(v.Float(), 'g', -1, 32), 64)
		e.vis.VisitFloat(f)
	case reflect.Float64:
		e.vis.VisitFloat(v.Float())
	case reflect.Bool:
		e.vis.VisitBool(v.Bool())
	case reflect.Slice, reflect.Array:
		if v.Kind() == reflect.Slice && v.IsNil() {
			e.vis.VisitNull()
			return nil
		}
		e.vis.BeginSeq(v.Len())
		for i := 0; i < v.Len(); i++ {
			if err := e.marshalValue(v.Index(i), adapter.IndexPath(path, i)); err != nil {
				return err
			}
		}
		e.vis.EndSeq()
	case reflect.Map:
		return e.marshalMap(v, path)
	case reflect.Struct:
		e.vis.BeginMap(-1)
		for _, f := range mapper.Cached(v.Type()).List {
			fv, ok := mapper.FieldByIndex(v, f.Index, false)
			if !ok || f.OmitEmpty && mapper.IsEmptyValue(fv) {
				continue
			}
			e.vis.VisitKey(f.Name)
			if err := e.marshalValue(fv, adapter.KeyPath(path, f.Name)); err != nil {
				return err
			}
		}
		e.vis.EndMap()
	default:
		return &spaerrors.AdapterError{
			Kind:    spaerrors.TypeMismatch,
			Path:    path,
			Type:    v.Type().String(),
			Message: "unsupported type " + v.Type().String(),
		}
	}
	return nil
}

func (e *encodeState) tryCustomMarshal(v reflect.Value) (bool, error) {
	if !v.CanInterface() {
		return false, nil
	}
	if v.Kind() == reflect.Pointer && v.IsNil() {
		return false, nil
	}
	candidates := []reflect.Value{v}
	if v.Kind() != reflect.Pointer {
		if v.CanAddr() {
			candidates = append(candidates, v.Addr())
		} else {
			// For non-addressable values (like struct literals),
			// create a pointer to a copy to check for the interface.
			pv := reflect.New(v.Type())
			pv.Elem().Set(v)
			candidates = append(candidates, pv)
		}
	}
	for _, c := range candidates {
		switch u := c.Interface().(type) {
		case Marshaler:
			return true, e.marshalCustom(c, u)
		case encoding.TextMarshaler:
			text, err := u.MarshalText()
			if err != nil {
				return true, &MarshalerError{Type: c.Type(), Err: err}
			}
			e.vis.VisitString(string(text))
			return true, nil
		}
	}
	return false, nil
}

func (e *encodeState) marshalMap(v reflect.Value, path string) error {
	if v.IsNil() {
		e.vis.VisitNull()
		return nil
	}
	if v.Type().Key().Kind() != reflect.String {
		return &spaerrors.AdapterError{
			Kind:    spaerrors.TypeMismatch,
			Path:    path,
			Type:    v.Type().String(),
			Message: "map key type must be a string, got " + v.Type().Key().String(),
		}
	}

	keys := v.MapKeys()
	slices.SortFunc(keys, func(a, b reflect.Value) int {
		return cmp.Compare(a.String(), b.String())
	})
	e.vis.BeginMap(len(keys))
	for _, k := range keys {
		e.vis.VisitKey(k.String())
		if err := e.marshalValue(v.MapIndex(k), adapter.KeyPath(path, k.String())); err != nil {
			return err
		}
	}
	e.vis.EndMap()
	return nil
}
