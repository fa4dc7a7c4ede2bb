package value

import (
	"iter"
	"slices"
)

// Entry is a single key/value pair of an Object.
type Entry struct {
	Key   string
	Value Value
}

// Object is an ordered collection of uniquely keyed entries.
//
// Set on an existing key replaces the value and moves the entry to the end,
// so iteration order reflects the position of the last write. A nil *Object
// behaves as an empty object for reading.
type Object struct {
	entries []Entry
	index   map[string]int
}

// NewObject returns an object holding entries, applied in order with Set.
func NewObject(entries ...Entry) *Object {
	o := &Object{
		entries: make([]Entry, 0, len(entries)),
		index:   make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		o.Set(e.Key, e.Value)
	}
	return o
}

// Len returns the number of entries.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.entries)
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (Value, bool) {
	if o == nil {
		return Value{}, false
	}
	i, ok := o.index[key]
	if !ok {
		return Value{}, false
	}
	return o.entries[i].Value, true
}

// Has reports whether key is present.
func (o *Object) Has(key string) bool {
	_, ok := o.Get(key)
	return ok
}

// Set stores v under key. A previous entry for key is removed first.
func (o *Object) Set(key string, v Value) {
	if o.index == nil {
		o.index = make(map[string]int)
	}
	if i, ok := o.index[key]; ok {
		if i == len(o.entries)-1 {
			o.entries[i].Value = v
			return
		}
		o.remove(i)
	}
	o.index[key] = len(o.entries)
	o.entries = append(o.entries, Entry{Key: key, Value: v})
}

// Delete removes key and reports whether it was present.
func (o *Object) Delete(key string) bool {
	if o == nil {
		return false
	}
	i, ok := o.index[key]
	if !ok {
		return false
	}
	o.remove(i)
	return true
}

func (o *Object) remove(i int) {
	delete(o.index, o.entries[i].Key)
	o.entries = slices.Delete(o.entries, i, i+1)
	for j := i; j < len(o.entries); j++ {
		o.index[o.entries[j].Key] = j
	}
}

// Keys returns the keys in order.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	keys := make([]string, len(o.entries))
	for i, e := range o.entries {
		keys[i] = e.Key
	}
	return keys
}

// Entries returns a copy of the entries in order.
func (o *Object) Entries() []Entry {
	if o == nil {
		return nil
	}
	return slices.Clone(o.entries)
}

// All iterates over the entries in order.
func (o *Object) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		if o == nil {
			return
		}
		for _, e := range o.entries {
			if !yield(e.Key, e.Value) {
				return
			}
		}
	}
}

// Equal reports whether o and p hold equal entries in the same order.
func (o *Object) Equal(p *Object) bool {
	if o.Len() != p.Len() {
		return false
	}
	for i := range o.Len() {
		a, b := o.entries[i], p.entries[i]
		if a.Key != b.Key || !Equal(a.Value, b.Value) {
			return false
		}
	}
	return true
}
