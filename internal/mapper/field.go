// Package mapper caches the struct field layout used by Marshal and
// Unmarshal.
package mapper

import (
	"reflect"
	"slices"
	"strings"
	"sync"
)

// TagName is the struct tag key read by the mapper.
const TagName = "spa"

// Field represents a cached struct field.
type Field struct {
	Name      string
	Index     []int
	Tagged    bool
	OmitEmpty bool
	Required  bool
	OneOf     []string // allowed string values, empty means any
}

// Allows reports whether s is an accepted value for a oneof field.
func (f *Field) Allows(s string) bool {
	return len(f.OneOf) == 0 || slices.Contains(f.OneOf, s)
}

// Fields is the field layout of one struct type.
type Fields struct {
	List   []Field // declaration order, embedded fields inlined
	byName map[string]int
	byFold map[string]int
}

// Lookup finds the field for an object key. It first attempts a
// case-sensitive match, then falls back to a case-insensitive one.
func (fs *Fields) Lookup(key string) (*Field, bool) {
	if i, ok := fs.byName[key]; ok {
		return &fs.List[i], true
	}
	if i, ok := fs.byFold[strings.ToLower(key)]; ok {
		return &fs.List[i], true
	}
	return nil, false
}

// fieldCache caches a *Fields for each struct type.
var fieldCache sync.Map // map[reflect.Type]*Fields

// Cached returns the field layout of struct type t. The result is cached to
// avoid repeated reflection work. Unexported fields and fields tagged
// `spa:"-"` are skipped. Fields of embedded structs and struct pointers are
// promoted unless a shallower field has the same name.
func Cached(t reflect.Type) *Fields {
	if f, ok := fieldCache.Load(t); ok {
		return f.(*Fields)
	}

	type candidate struct {
		Field
		depth int
	}
	var found []candidate
	visited := map[reflect.Type]bool{}
	var walk func(t reflect.Type, idx []int)
	walk = func(t reflect.Type, idx []int) {
		if visited[t] {
			return
		}
		visited[t] = true
		defer delete(visited, t)
		for i := 0; i < t.NumField(); i++ {
			sf := t.Field(i)
			tag := sf.Tag.Get(TagName)
			if tag == "-" {
				continue
			}
			index := append(slices.Clone(idx), i)
			if ft := indirect(sf.Type); sf.Anonymous && ft.Kind() == reflect.Struct && tag == "" {
				walk(ft, index)
				continue
			}
			if !sf.IsExported() {
				continue
			}
			f := parseTag(tag)
			if f.Name == "" {
				f.Name = sf.Name
			} else {
				f.Tagged = true
			}
			f.Index = index
			found = append(found, candidate{Field: f, depth: len(idx)})
		}
	}
	walk(t, nil)

	fs := &Fields{byName: map[string]int{}, byFold: map[string]int{}}
	depth := map[string]int{}
	for _, c := range found {
		if i, ok := fs.byName[c.Name]; ok {
			if c.depth < depth[c.Name] {
				fs.List[i] = c.Field
				depth[c.Name] = c.depth
			}
			continue
		}
		fs.byName[c.Name] = len(fs.List)
		depth[c.Name] = c.depth
		fs.List = append(fs.List, c.Field)
	}
	for i, f := range fs.List {
		lower := strings.ToLower(f.Name)
		if _, ok := fs.byFold[lower]; !ok {
			fs.byFold[lower] = i
		}
	}

	actual, _ := fieldCache.LoadOrStore(t, fs)
	return actual.(*Fields)
}

// FieldByIndex returns the nested field of struct v at index. Nil embedded
// pointers are allocated when alloc is set; otherwise, and when allocation
// is impossible, ok is false.
func FieldByIndex(v reflect.Value, index []int, alloc bool) (f reflect.Value, ok bool) {
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				if !alloc || !v.CanSet() {
					return reflect.Value{}, false
				}
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}
	return v, true
}

func indirect(t reflect.Type) reflect.Type {
	if t.Kind() == reflect.Pointer {
		return t.Elem()
	}
	return t
}

// parseTag splits a spa struct tag into its name and options.
func parseTag(tag string) Field {
	name, opts, _ := strings.Cut(tag, ",")
	f := Field{Name: name}
	for opts != "" {
		var opt string
		opt, opts, _ = strings.Cut(opts, ",")
		opt = strings.TrimSpace(opt)
		switch {
		case opt == "omitempty":
			f.OmitEmpty = true
		case opt == "required":
			f.Required = true
		case strings.HasPrefix(opt, "oneof="):
			f.OneOf = strings.Split(strings.TrimPrefix(opt, "oneof="), "|")
		}
	}
	return f
}

// IsEmptyValue reports whether the value v is empty.
func IsEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Interface, reflect.Pointer:
		return v.IsNil()
	}
	return false
}
