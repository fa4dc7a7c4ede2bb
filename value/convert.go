package value

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"math"
	"reflect"
	"slices"
	"strconv"

	spaerrors "github.com/KimNorgaard/go-spajson/errors"
)

// Interface converts v to plain Go values: nil, bool, int64, float64,
// string, []any and map[string]any. Object order is lost.
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindString:
		return v.s
	case KindArray:
		out := make([]any, len(v.arr))
		for i, e := range v.arr {
			out[i] = e.Interface()
		}
		return out
	case KindObject:
		out := make(map[string]any, v.obj.Len())
		for k, e := range v.obj.All() {
			out[k] = e.Interface()
		}
		return out
	}
	return nil
}

// FromInterface builds a Value from plain Go data as produced by decoders
// such as encoding/json or expression evaluators. Maps are emitted in sorted
// key order.
func FromInterface(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Null(), nil
	case Value:
		return t, nil
	case *Object:
		return ObjectValue(t), nil
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case json.Number:
		return FromBareword(t.String()), nil
	}
	return fromReflect(reflect.ValueOf(x), "$")
}

func fromReflect(rv reflect.Value, path string) (Value, error) {
	switch rv.Kind() {
	case reflect.Invalid:
		return Null(), nil
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Null(), nil
		}
		return FromInterface(rv.Elem().Interface())
	case reflect.Bool:
		return Bool(rv.Bool()), nil
	case reflect.String:
		return String(rv.String()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return Value{}, &spaerrors.AdapterError{
				Kind:    spaerrors.TypeMismatch,
				Path:    path,
				Type:    rv.Type().String(),
				Message: fmt.Sprintf("unsigned value %d overflows int64", u),
			}
		}
		return Int(int64(u)), nil
	case reflect.Float32, reflect.Float64:
		return Float(rv.Float()), nil
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return Null(), nil
		}
		out := make([]Value, rv.Len())
		for i := range rv.Len() {
			e, err := fromReflect(rv.Index(i), path+"["+strconv.Itoa(i)+"]")
			if err != nil {
				return Value{}, err
			}
			out[i] = e
		}
		return Array(out...), nil
	case reflect.Map:
		if rv.IsNil() {
			return Null(), nil
		}
		if rv.Type().Key().Kind() != reflect.String {
			return Value{}, &spaerrors.AdapterError{
				Kind:    spaerrors.TypeMismatch,
				Path:    path,
				Type:    rv.Type().String(),
				Message: "map keys must be strings",
			}
		}
		byKey := make(map[string]reflect.Value, rv.Len())
		for iter := rv.MapRange(); iter.Next(); {
			byKey[iter.Key().String()] = iter.Value()
		}
		obj := NewObject()
		for _, k := range slices.Sorted(maps.Keys(byKey)) {
			e, err := fromReflect(byKey[k], path+"."+k)
			if err != nil {
				return Value{}, err
			}
			obj.Set(k, e)
		}
		return ObjectValue(obj), nil
	}
	return Value{}, &spaerrors.AdapterError{
		Kind:    spaerrors.TypeMismatch,
		Path:    path,
		Type:    rv.Type().String(),
		Message: "unsupported type " + rv.Type().String(),
	}
}

// MarshalJSON renders v as JSON, keeping object order. Non-finite floats
// become null.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.writeJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v Value) writeJSON(buf *bytes.Buffer) error {
	switch v.kind {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		buf.WriteString(strconv.FormatBool(v.b))
	case KindInt:
		buf.WriteString(strconv.FormatInt(v.i, 10))
	case KindFloat:
		if math.IsNaN(v.f) || math.IsInf(v.f, 0) {
			buf.WriteString("null")
			return nil
		}
		buf.WriteString(FormatFloat(v.f))
	case KindString:
		return writeJSONString(buf, v.s)
	case KindArray:
		buf.WriteByte('[')
		for i, e := range v.arr {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := e.writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindObject:
		buf.WriteByte('{')
		i := 0
		for k, e := range v.obj.All() {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSONString(buf, k); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := e.writeJSON(buf); err != nil {
				return err
			}
			i++
		}
		buf.WriteByte('}')
	}
	return nil
}

func writeJSONString(buf *bytes.Buffer, s string) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}
