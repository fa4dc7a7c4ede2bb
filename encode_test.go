package spajson_test

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/KimNorgaard/go-spajson"
	spaerrors "github.com/KimNorgaard/go-spajson/errors"
	"github.com/KimNorgaard/go-spajson/value"
	"github.com/stretchr/testify/require"
)

func TestMarshal(t *testing.T) {
	cfg := daemonConfig{
		Properties: map[string]any{
			"log.level":          2,
			"core.daemon":        true,
			"default.clock.rate": uint32(48000),
		},
		Modules: []module{
			{Name: "libpipewire-module-rt", Args: &moduleArgs{NiceLevel: -11}, Flags: []string{"ifexists", "nofail"}},
			{Name: "libpipewire-module-protocol-native"},
		},
	}

	b, err := spajson.Marshal(cfg, spajson.TopLevelBraces(false), spajson.QuoteValues(spajson.QuoteWhenNeeded))
	require.NoError(t, err)
	expected := `context.properties = {
  core.daemon = true
  default.clock.rate = 48000
  log.level = 2
}
context.modules = [
  {
    name = libpipewire-module-rt
    args = {
      nice.level = -11
    }
    flags = [
      ifexists
      nofail
    ]
  }
  {
    name = libpipewire-module-protocol-native
  }
]`
	require.Equal(t, expected, string(b))

	var back daemonConfig
	require.NoError(t, spajson.Unmarshal(b, &back))
	require.Equal(t, cfg.Modules, back.Modules)
}

func TestMarshalScalars(t *testing.T) {
	var nilMap map[string]int
	var nilPtr *module
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"nil", nil, "null"},
		{"string", "a b", `"a b"`},
		{"int", int16(-3), "-3"},
		{"uint", uint64(math.MaxInt64), "9223372036854775807"},
		{"float", 2.0, "2.0"},
		{"float32", float32(0.1), "0.1"},
		{"bool", false, "false"},
		{"nil map", nilMap, "null"},
		{"nil pointer", nilPtr, "null"},
		{"nil slice", []int(nil), "null"},
		{"empty slice", []int{}, "[]"},
		{"array", [2]bool{true, false}, "[true false]"},
		{"sorted map", map[string]int{"b": 2, "a": 1, "c": 3}, "{a = 1 b = 2 c = 3}"},
		{"value", value.Array(value.Int(1)), "[1]"},
		{"object", value.NewObject(value.Entry{Key: "z", Value: value.Null()}), "{z = null}"},
		{"nil object", (*value.Object)(nil), "null"},
		{"text marshaler", level(1), `"low"`},
		{"custom marshaler", quantum{256, 48000}, "[256 48000]"},
		{"custom marshaler pointer", &quantum{1, 2}, "[1 2]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := spajson.Marshal(tt.input, spajson.Indent(0))
			require.NoError(t, err)
			require.Equal(t, tt.expected, string(b))
		})
	}
}

func TestMarshal_OmitEmpty(t *testing.T) {
	type omitStruct struct {
		String     string         `spa:"string,omitempty"`
		Int        int            `spa:"int,omitempty"`
		Float      float64        `spa:"float,omitempty"`
		Bool       bool           `spa:"bool,omitempty"`
		Slice      []string       `spa:"slice,omitempty"`
		Map        map[string]int `spa:"map,omitempty"`
		Pointer    *int           `spa:"pointer,omitempty"`
		Kept       int            `spa:"kept"`
		Skipped    string         `spa:"-"`
		unexported string
	}

	b, err := spajson.Marshal(omitStruct{Skipped: "x", unexported: "y"}, spajson.Indent(0))
	require.NoError(t, err)
	require.Equal(t, "{kept = 0}", string(b))

	p := 5
	b, err = spajson.Marshal(omitStruct{
		String: "s", Int: 1, Float: 0.5, Bool: true,
		Slice: []string{"a"}, Map: map[string]int{"k": 1}, Pointer: &p,
	}, spajson.Indent(0))
	require.NoError(t, err)
	require.Equal(t,
		`{string = "s" int = 1 float = 0.5 bool = true slice = ["a"] map = {k = 1} pointer = 5 kept = 0}`,
		string(b))
}

type failingMarshaler struct{ text string }

func (f failingMarshaler) MarshalSPAJSON() ([]byte, error) {
	if f.text == "" {
		return nil, errors.New("boom")
	}
	return []byte(f.text), nil
}

func TestMarshal_Errors(t *testing.T) {
	_, err := spajson.Marshal(map[string]any{"big": uint64(math.MaxUint64)})
	require.ErrorIs(t, err, spaerrors.TypeMismatch)
	var aerr *spaerrors.AdapterError
	require.ErrorAs(t, err, &aerr)
	require.Equal(t, "$.big", aerr.Path)

	_, err = spajson.Marshal(map[int]string{1: "a"})
	require.ErrorIs(t, err, spaerrors.TypeMismatch)

	_, err = spajson.Marshal([]any{func() {}})
	require.ErrorIs(t, err, spaerrors.TypeMismatch)

	_, err = spajson.Marshal(failingMarshaler{})
	var merr *spajson.MarshalerError
	require.ErrorAs(t, err, &merr)
	require.EqualError(t, errors.Unwrap(err), "boom")

	_, err = spajson.Marshal(failingMarshaler{text: "{ unterminated"})
	require.ErrorAs(t, err, &merr)
	require.ErrorIs(t, err, spaerrors.UnexpectedEndOfInput)

	_, err = spajson.Marshal(1, spajson.Separator('|'))
	require.Error(t, err)
}

func TestMarshal_CycleDetection(t *testing.T) {
	type node struct {
		Next *node `spa:"next"`
	}
	n := &node{}
	n.Next = n
	_, err := spajson.Marshal(n, spajson.MaxDepth(50))
	require.ErrorIs(t, err, spaerrors.NestingTooDeep)
}

func TestEncoder(t *testing.T) {
	var buf bytes.Buffer
	enc := spajson.NewEncoder(&buf, spajson.Indent(0), spajson.Separator(':'))
	require.NoError(t, enc.Encode(map[string]string{"k": "v"}))
	require.Equal(t, `{k: "v"}`, buf.String())
}

func TestToValue(t *testing.T) {
	v, err := spajson.ToValue(struct {
		A int     `spa:"a"`
		B []any   `spa:"b"`
		C float64 `spa:"c"`
	}{A: 1, B: []any{"x", nil}, C: 1})
	require.NoError(t, err)
	requireSameTree(t, mustParse(t, `{ a = 1, b = [ "x", null ], c = 1.0 }`), v)
}
