package adapter

import "github.com/KimNorgaard/go-spajson/value"

type frame struct {
	isMap  bool
	elems  []value.Value
	obj    *value.Object
	key    string
	hasKey bool
}

// Builder is a Visitor that assembles exactly one value.Value. Calling its
// methods out of order is a programming error and panics.
type Builder struct {
	stack []*frame
	root  value.Value
	done  bool
}

var _ Visitor = (*Builder)(nil)

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Value returns the completed value.
func (b *Builder) Value() value.Value {
	if !b.done {
		panic("adapter: Builder.Value called before the value is complete")
	}
	return b.root
}

// Done reports whether a complete value has been built.
func (b *Builder) Done() bool { return b.done }

func (b *Builder) emit(v value.Value) {
	if len(b.stack) == 0 {
		if b.done {
			panic("adapter: Builder received a second top-level value")
		}
		b.root, b.done = v, true
		return
	}
	top := b.stack[len(b.stack)-1]
	if !top.isMap {
		top.elems = append(top.elems, v)
		return
	}
	if !top.hasKey {
		panic("adapter: Builder received a map value without a key")
	}
	top.obj.Set(top.key, v)
	top.key, top.hasKey = "", false
}

func (b *Builder) VisitNull()           { b.emit(value.Null()) }
func (b *Builder) VisitBool(v bool)     { b.emit(value.Bool(v)) }
func (b *Builder) VisitInt(i int64)     { b.emit(value.Int(i)) }
func (b *Builder) VisitFloat(f float64) { b.emit(value.Float(f)) }
func (b *Builder) VisitString(s string) { b.emit(value.String(s)) }

func (b *Builder) BeginSeq(n int) {
	b.checkOpen()
	b.stack = append(b.stack, &frame{elems: make([]value.Value, 0, max(n, 0))})
}

func (b *Builder) EndSeq() {
	f := b.pop(false)
	b.emit(value.Array(f.elems...))
}

func (b *Builder) BeginMap(int) {
	b.checkOpen()
	b.stack = append(b.stack, &frame{isMap: true, obj: value.NewObject()})
}

func (b *Builder) VisitKey(k string) {
	if len(b.stack) == 0 || !b.stack[len(b.stack)-1].isMap {
		panic("adapter: Builder.VisitKey called outside a map")
	}
	top := b.stack[len(b.stack)-1]
	if top.hasKey {
		panic("adapter: Builder.VisitKey called twice without a value")
	}
	top.key, top.hasKey = k, true
}

func (b *Builder) EndMap() {
	f := b.pop(true)
	if f.hasKey {
		panic("adapter: Builder.EndMap called with a dangling key")
	}
	b.emit(value.ObjectValue(f.obj))
}

// checkOpen panics if a container begins where no value may go.
func (b *Builder) checkOpen() {
	if len(b.stack) == 0 && b.done {
		panic("adapter: Builder received a second top-level value")
	}
	if n := len(b.stack); n > 0 && b.stack[n-1].isMap && !b.stack[n-1].hasKey {
		panic("adapter: Builder received a map value without a key")
	}
}

func (b *Builder) pop(isMap bool) *frame {
	n := len(b.stack)
	if n == 0 || b.stack[n-1].isMap != isMap {
		if isMap {
			panic("adapter: Builder.EndMap without matching BeginMap")
		}
		panic("adapter: Builder.EndSeq without matching BeginSeq")
	}
	f := b.stack[n-1]
	b.stack = b.stack[:n-1]
	return f
}
