package adapter

import "github.com/KimNorgaard/go-spajson/value"

// Visitor receives a value tree as a stream of events. Containers are
// bracketed by Begin/End calls; inside a map every value is preceded by
// VisitKey. The length hint passed to BeginSeq and BeginMap may be -1 when
// unknown.
type Visitor interface {
	VisitNull()
	VisitBool(b bool)
	VisitInt(i int64)
	VisitFloat(f float64)
	VisitString(s string)
	BeginSeq(n int)
	EndSeq()
	BeginMap(n int)
	VisitKey(k string)
	EndMap()
}

// Walk replays v into vis in document order.
func Walk(v value.Value, vis Visitor) {
	switch v.Kind() {
	case value.KindNull:
		vis.VisitNull()
	case value.KindBool:
		b, _ := v.AsBool()
		vis.VisitBool(b)
	case value.KindInt:
		i, _ := v.AsInt()
		vis.VisitInt(i)
	case value.KindFloat:
		f, _ := v.AsFloat()
		vis.VisitFloat(f)
	case value.KindString:
		s, _ := v.AsString()
		vis.VisitString(s)
	case value.KindArray:
		vis.BeginSeq(v.Len())
		for _, e := range v.Items() {
			Walk(e, vis)
		}
		vis.EndSeq()
	case value.KindObject:
		vis.BeginMap(v.Len())
		for k, e := range v.Object().All() {
			vis.VisitKey(k)
			Walk(e, vis)
		}
		vis.EndMap()
	}
}
