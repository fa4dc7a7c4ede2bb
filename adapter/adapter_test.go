package adapter_test

import (
	"math"
	"testing"

	"github.com/KimNorgaard/go-spajson/adapter"
	spaerrors "github.com/KimNorgaard/go-spajson/errors"
	"github.com/KimNorgaard/go-spajson/value"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func sample() value.Value {
	return value.ObjectValue(value.NewObject(
		value.Entry{Key: "name", Value: value.String("alsa_output")},
		value.Entry{Key: "rate", Value: value.Int(48000)},
		value.Entry{Key: "volume", Value: value.Float(0.75)},
		value.Entry{Key: "nodes", Value: value.Array(
			value.ObjectValue(value.NewObject(
				value.Entry{Key: "media.class", Value: value.String("Audio/Sink")},
			)),
			value.Null(),
		)},
		value.Entry{Key: "enabled", Value: value.Bool(true)},
	))
}

func TestReaderShapes(t *testing.T) {
	r := adapter.NewReader(sample())
	require.Equal(t, adapter.ShapeMap, r.Shape())
	require.Equal(t, "$", r.Path())
	require.Equal(t, 5, r.Len())

	name, ok := r.Field("name")
	require.True(t, ok)
	require.Equal(t, adapter.ShapeScalar, name.Shape())
	s, err := name.ReadString()
	require.NoError(t, err)
	require.Equal(t, "alsa_output", s)

	nodes, ok := r.Field("nodes")
	require.True(t, ok)
	require.Equal(t, adapter.ShapeSeq, nodes.Shape())

	var paths []string
	var shapes []adapter.Shape
	for _, e := range nodes.Elements() {
		paths = append(paths, e.Path())
		shapes = append(shapes, e.Shape())
	}
	require.Equal(t, []string{"$.nodes[0]", "$.nodes[1]"}, paths)
	require.Equal(t, []adapter.Shape{adapter.ShapeMap, adapter.ShapeNull}, shapes)

	first, _ := nodes.Value().Index(0)
	class, ok := adapter.NewReader(first).Field("media.class")
	require.True(t, ok)
	require.Equal(t, `$["media.class"]`, class.Path())

	_, ok = r.Field("missing")
	require.False(t, ok)
}

func TestReaderEntriesOrder(t *testing.T) {
	var keys []string
	for k, e := range adapter.NewReader(sample()).Entries() {
		keys = append(keys, k)
		require.Equal(t, adapter.KeyPath("$", k), e.Path())
	}
	require.Equal(t, []string{"name", "rate", "volume", "nodes", "enabled"}, keys)
}

func TestReaderWidening(t *testing.T) {
	r := adapter.NewReader(value.Int(3))
	f, err := r.ReadFloat()
	require.NoError(t, err)
	require.Equal(t, 3.0, f)

	_, err = adapter.NewReader(value.Float(3)).ReadInt()
	require.ErrorIs(t, err, spaerrors.TypeMismatch)
}

func TestReaderMismatch(t *testing.T) {
	r := adapter.NewReader(sample())
	rate, _ := r.Field("rate")

	_, err := rate.ReadString()
	require.ErrorIs(t, err, spaerrors.TypeMismatch)

	var aerr *spaerrors.AdapterError
	require.ErrorAs(t, err, &aerr)
	require.Equal(t, "$.rate", aerr.Path)
	require.Equal(t, "spajson: type mismatch at $.rate: expected string, found int", err.Error())

	_, err = rate.ReadBool()
	require.ErrorIs(t, err, spaerrors.TypeMismatch)

	err = r.Errorf(spaerrors.MissingField, "missing field %q", "x")
	require.ErrorIs(t, err, spaerrors.MissingField)
}

func TestWalkBuildRoundTrip(t *testing.T) {
	tests := []value.Value{
		sample(),
		value.Null(),
		value.Float(math.Inf(-1)),
		value.Array(),
		value.ObjectValue(nil),
		value.Array(value.Array(value.Array(value.Int(1)))),
	}
	for _, v := range tests {
		t.Run(v.String(), func(t *testing.T) {
			b := adapter.NewBuilder()
			require.False(t, b.Done())
			adapter.Walk(v, b)
			require.True(t, b.Done())
			if diff := cmp.Diff(v, b.Value(), cmp.Comparer(value.Equal)); diff != "" {
				t.Fatalf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBuilderEvents(t *testing.T) {
	b := adapter.NewBuilder()
	b.BeginMap(-1)
	b.VisitKey("a")
	b.BeginSeq(2)
	b.VisitInt(1)
	b.VisitString("x")
	b.EndSeq()
	b.VisitKey("b")
	b.VisitNull()
	b.VisitKey("a")
	b.VisitBool(false)
	b.EndMap()

	got := b.Value()
	require.Equal(t, []string{"b", "a"}, got.Object().Keys(), "repeated keys keep the last write")
	require.Equal(t, `{"b":null "a":false}`, got.String())
}

func TestBuilderMisuse(t *testing.T) {
	tests := []struct {
		name string
		fn   func(b *adapter.Builder)
	}{
		{"value before complete", func(b *adapter.Builder) { b.BeginSeq(0); b.Value() }},
		{"end without begin", func(b *adapter.Builder) { b.EndSeq() }},
		{"mismatched end", func(b *adapter.Builder) { b.BeginSeq(0); b.EndMap() }},
		{"key outside map", func(b *adapter.Builder) { b.VisitKey("k") }},
		{"key inside seq", func(b *adapter.Builder) { b.BeginSeq(0); b.VisitKey("k") }},
		{"value without key", func(b *adapter.Builder) { b.BeginMap(0); b.VisitInt(1) }},
		{"container without key", func(b *adapter.Builder) { b.BeginMap(0); b.BeginSeq(0) }},
		{"double key", func(b *adapter.Builder) { b.BeginMap(0); b.VisitKey("a"); b.VisitKey("b") }},
		{"dangling key", func(b *adapter.Builder) { b.BeginMap(0); b.VisitKey("a"); b.EndMap() }},
		{"second top-level value", func(b *adapter.Builder) { b.VisitNull(); b.VisitNull() }},
		{"second top-level container", func(b *adapter.Builder) { b.VisitNull(); b.BeginMap(0) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Panics(t, func() { tt.fn(adapter.NewBuilder()) })
		})
	}
}

func TestPaths(t *testing.T) {
	require.Equal(t, "$.a_1", adapter.KeyPath("$", "a_1"))
	require.Equal(t, `$["1a"]`, adapter.KeyPath("$", "1a"))
	require.Equal(t, `$[""]`, adapter.KeyPath("$", ""))
	require.Equal(t, "$.x[3]", adapter.IndexPath("$.x", 3))
}
