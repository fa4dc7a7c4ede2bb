package spajson

import (
	"context"
	"encoding"
	"fmt"
	"io"
	"log/slog"
	"math"
	"reflect"
	"strings"

	"github.com/KimNorgaard/go-spajson/adapter"
	spaerrors "github.com/KimNorgaard/go-spajson/errors"
	"github.com/KimNorgaard/go-spajson/internal/mapper"
	"github.com/KimNorgaard/go-spajson/value"
)

// Decoder reads and decodes SPA-JSON values from an input stream.
type Decoder struct {
	r    io.Reader
	opts []Option
}

// NewDecoder returns a new decoder that reads from r.
//
// The decoder may buffer data from r as necessary. It is the caller's
// responsibility to call Close on r if required.
func NewDecoder(r io.Reader, opts ...Option) *Decoder {
	return &Decoder{r: r, opts: opts}
}

// Decode reads the SPA-JSON document from its input and stores it in the
// value pointed to by v. If v is nil or not a pointer, Decode returns an
// error.
//
// Objects decode into structs, maps with string keys, value.Value,
// *value.Object or interface{}. Struct fields are matched by their
// `spa:"name"` tag or field name, falling back to a case-insensitive match.
// The tag options are:
//
//	omitempty  skip the field when encoding its zero value
//	required   fail with MissingField when the key is absent
//	oneof=a|b  fail with UnknownVariant unless the string is listed
//
// Note: This is a non-streaming implementation. It reads the entire
// reader into memory first before parsing.
func (d *Decoder) Decode(v any) error {
	if d.r == nil {
		return fmt.Errorf("spajson: Decode(nil reader)")
	}
	o, err := newOptions(d.opts)
	if err != nil {
		return err
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("spajson: Unmarshal(non-pointer %T or nil)", v)
	}
	data, err := io.ReadAll(d.r)
	if err != nil {
		return err
	}
	tree, err := parse(data, o)
	if err != nil {
		return err
	}
	ds := &decodeState{opts: o, depth: o.maxDepth}
	return ds.mapValue(adapter.NewReader(tree), rv.Elem())
}

// FromValue maps an already parsed tree onto the value pointed to by v.
func FromValue(tree value.Value, v any, opts ...Option) error {
	o, err := newOptions(opts)
	if err != nil {
		return err
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("spajson: FromValue(non-pointer %T or nil)", v)
	}
	ds := &decodeState{opts: o, depth: o.maxDepth}
	return ds.mapValue(adapter.NewReader(tree), rv.Elem())
}

var (
	valueType     = reflect.TypeFor[value.Value]()
	objectPtrType = reflect.TypeFor[*value.Object]()
)

type decodeState struct {
	opts  *options
	depth int
}

func (ds *decodeState) mapValue(r adapter.Reader, rv reflect.Value) error { //nolint:gocyclo
	if s := r.Shape(); s == adapter.ShapeSeq || s == adapter.ShapeMap {
		ds.depth--
		defer func() { ds.depth++ }()
		if ds.depth < 0 {
			return r.Errorf(spaerrors.NestingTooDeep, "reached max decoding depth")
		}
	}

	switch rv.Type() {
	case valueType:
		rv.Set(reflect.ValueOf(r.Value()))
		return nil
	case objectPtrType:
		switch r.Shape() {
		case adapter.ShapeNull:
			rv.Set(reflect.Zero(rv.Type()))
			return nil
		case adapter.ShapeMap:
			rv.Set(reflect.ValueOf(r.Value().Object()))
			return nil
		}
		return r.Mismatch("object")
	}

	if r.Shape() == adapter.ShapeNull {
		rv.Set(reflect.Zero(rv.Type()))
		return nil
	}

	// Attempt to use a custom unmarshaler if available.
	handled, err := ds.tryCustomUnmarshal(r, rv)
	if err != nil || handled {
		return err
	}

	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			rv.Set(reflect.New(rv.Type().Elem()))
		}
		rv = rv.Elem()
		if handled, err := ds.tryCustomUnmarshal(r, rv); err != nil || handled {
			return err
		}
	}

	switch rv.Kind() {
	case reflect.Interface:
		return ds.mapInterface(r, rv)
	case reflect.Bool:
		b, err := r.ReadBool()
		if err != nil {
			return err
		}
		rv.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := r.ReadInt()
		if err != nil {
			return err
		}
		if rv.OverflowInt(i) {
			return r.Errorf(spaerrors.TypeMismatch, "integer %d overflows %s", i, rv.Type())
		}
		rv.SetInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		i, err := r.ReadInt()
		if err != nil {
			return err
		}
		if i < 0 || rv.OverflowUint(uint64(i)) {
			return r.Errorf(spaerrors.TypeMismatch, "integer %d overflows %s", i, rv.Type())
		}
		rv.SetUint(uint64(i))
	case reflect.Float32, reflect.Float64:
		f, err := r.ReadFloat()
		if err != nil {
			return err
		}
		if !math.IsInf(f, 0) && rv.OverflowFloat(f) {
			return r.Errorf(spaerrors.TypeMismatch, "float %s overflows %s", value.FormatFloat(f), rv.Type())
		}
		rv.SetFloat(f)
	case reflect.String:
		s, err := r.ReadString()
		if err != nil {
			return err
		}
		rv.SetString(s)
	case reflect.Slice:
		return ds.mapSlice(r, rv)
	case reflect.Array:
		return ds.mapArray(r, rv)
	case reflect.Map:
		return ds.mapMap(r, rv)
	case reflect.Struct:
		return ds.mapStruct(r, rv)
	default:
		return r.Errorf(spaerrors.TypeMismatch, "cannot decode into Go value of type %s", rv.Type())
	}
	return nil
}

// tryCustomUnmarshal attempts to use a custom unmarshaler (Unmarshaler or
// encoding.TextUnmarshaler) on the given reflect.Value. It returns true if a
// custom unmarshaler was found and used, in which case the caller should not
// proceed with default unmarshaling.
func (ds *decodeState) tryCustomUnmarshal(r adapter.Reader, rv reflect.Value) (bool, error) {
	if !rv.CanAddr() {
		return false, nil
	}
	pv := rv.Addr()
	if !pv.CanInterface() {
		return false, nil
	}

	if u, ok := pv.Interface().(Unmarshaler); ok {
		text := ToString(r.Value(), Indent(0))
		if err := u.UnmarshalSPAJSON([]byte(text)); err != nil {
			return true, &UnmarshalerError{Type: pv.Type(), Err: err}
		}
		return true, nil
	}

	if u, ok := pv.Interface().(encoding.TextUnmarshaler); ok {
		s, err := r.ReadString()
		if err != nil {
			// TextUnmarshaler can only be used on string values.
			return false, nil
		}
		if err := u.UnmarshalText([]byte(s)); err != nil {
			return true, &UnmarshalerError{Type: pv.Type(), Err: err}
		}
		return true, nil
	}

	return false, nil
}

func (ds *decodeState) mapSlice(r adapter.Reader, rv reflect.Value) error {
	if r.Shape() != adapter.ShapeSeq {
		return r.Mismatch("array")
	}
	newSlice := reflect.MakeSlice(rv.Type(), r.Len(), r.Len())
	for i, elem := range r.Elements() {
		if err := ds.mapValue(elem, newSlice.Index(i)); err != nil {
			return err
		}
	}
	rv.Set(newSlice)
	return nil
}

func (ds *decodeState) mapArray(r adapter.Reader, rv reflect.Value) error {
	if r.Shape() != adapter.ShapeSeq {
		return r.Mismatch("array")
	}
	if rv.Len() != r.Len() {
		return r.Errorf(spaerrors.TypeMismatch,
			"cannot decode array of length %d into Go array of length %d", r.Len(), rv.Len())
	}
	for i, elem := range r.Elements() {
		if err := ds.mapValue(elem, rv.Index(i)); err != nil {
			return err
		}
	}
	return nil
}

func (ds *decodeState) mapMap(r adapter.Reader, rv reflect.Value) error {
	if r.Shape() != adapter.ShapeMap {
		return r.Mismatch("object")
	}
	mapType := rv.Type()
	if mapType.Key().Kind() != reflect.String {
		return r.Errorf(spaerrors.TypeMismatch,
			"cannot decode object into map with non-string key type %s", mapType.Key())
	}
	if rv.IsNil() {
		rv.Set(reflect.MakeMapWithSize(mapType, r.Len()))
	} else {
		rv.Clear()
	}
	elemType := mapType.Elem()
	for k, entry := range r.Entries() {
		newVal := reflect.New(elemType).Elem()
		if err := ds.mapValue(entry, newVal); err != nil {
			return err
		}
		rv.SetMapIndex(reflect.ValueOf(k).Convert(mapType.Key()), newVal)
	}
	return nil
}

func (ds *decodeState) mapStruct(r adapter.Reader, rv reflect.Value) error {
	if r.Shape() != adapter.ShapeMap {
		return r.Mismatch("object")
	}
	fields := mapper.Cached(rv.Type())
	seen := make(map[string]bool, len(fields.List))
	for k, entry := range r.Entries() {
		f, ok := fields.Lookup(k)
		if !ok {
			if ds.opts.strict {
				return entry.Errorf(spaerrors.UnknownVariant, "unknown field %q in %s", k, rv.Type())
			}
			if l := ds.opts.logger; l != nil {
				l.LogAttrs(context.Background(), slog.LevelDebug, "skipping unknown key",
					slog.String("path", entry.Path()),
					slog.String("type", rv.Type().String()))
			}
			continue
		}
		seen[f.Name] = true
		if len(f.OneOf) > 0 && entry.Shape() != adapter.ShapeNull {
			s, err := entry.ReadString()
			if err != nil {
				return err
			}
			if !f.Allows(s) {
				return entry.Errorf(spaerrors.UnknownVariant,
					"unknown variant %q, expected one of %s", s, strings.Join(f.OneOf, ", "))
			}
		}
		fv, ok := mapper.FieldByIndex(rv, f.Index, true)
		if !ok {
			return entry.Errorf(spaerrors.TypeMismatch,
				"cannot set embedded pointer to unexported struct in %s", rv.Type())
		}
		if err := ds.mapValue(entry, fv); err != nil {
			return err
		}
	}
	for _, f := range fields.List {
		if f.Required && !seen[f.Name] {
			return r.Errorf(spaerrors.MissingField, "missing field %q", f.Name)
		}
	}
	return nil
}

func (ds *decodeState) mapInterface(r adapter.Reader, rv reflect.Value) error {
	if rv.NumMethod() != 0 {
		return r.Errorf(spaerrors.TypeMismatch, "cannot decode into non-empty interface %s", rv.Type())
	}
	rv.Set(reflect.ValueOf(r.Value().Interface()))
	return nil
}
