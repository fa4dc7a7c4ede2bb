package spajson_test

import (
	"math"
	"strings"
	"testing"

	"github.com/KimNorgaard/go-spajson"
	spaerrors "github.com/KimNorgaard/go-spajson/errors"
	"github.com/KimNorgaard/go-spajson/value"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func requireSameTree(t *testing.T, expected, actual value.Value) {
	t.Helper()
	if diff := cmp.Diff(expected, actual, cmp.Comparer(value.Equal)); diff != "" {
		t.Fatalf("tree mismatch (-want +got):\n%s\nwant: %v\ngot:  %v", diff, expected, actual)
	}
}

func mustParse(t *testing.T, input string, opts ...spajson.Option) value.Value {
	t.Helper()
	v, err := spajson.Parse([]byte(input), opts...)
	require.NoError(t, err, "input: %q", input)
	return v
}

const pipewireConf = `# Daemon config file for PipeWire
context.properties = {
    ## Configure properties in the system.
    #library.name.system = support/libspa-support
    link.max-buffers = 16
    core.daemon = true
    core.name   = pipewire-0
    default.clock.rate = 48000
    default.clock.allowed-rates = [ 44100 48000 ]
    vm.overrides = { default.clock.min-quantum = 1024 }
    settings.check-quantum = false
    mem.warn-mlock = false
}

context.spa-libs = {
    audio.convert.* = audioconvert/libspa-audioconvert
    support.*       = support/libspa-support
}

context.modules = [
    { name = libpipewire-module-rt
        args = {
            nice.level   = -11
            rt.prio      = 88
            #rt.time.soft = -1
        }
        flags = [ ifexists nofail ]
    }
    { name = libpipewire-module-protocol-native }
    { name = "libpipewire-module-profiler" }
]
`

func TestParsePipeWireConfig(t *testing.T) {
	v := mustParse(t, pipewireConf)
	require.Equal(t, []string{"context.properties", "context.spa-libs", "context.modules"}, v.Object().Keys())

	props, _ := v.Get("context.properties")
	rate, _ := props.Get("default.clock.rate")
	requireSameTree(t, value.Int(48000), rate)
	daemon, _ := props.Get("core.daemon")
	requireSameTree(t, value.Bool(true), daemon)
	require.False(t, props.Object().Has("library.name.system"), "commented out keys are ignored")

	mods, _ := v.Get("context.modules")
	require.Equal(t, 3, mods.Len())
	rt, _ := mods.Index(0)
	args, _ := rt.Get("args")
	nice, _ := args.Get("nice.level")
	requireSameTree(t, value.Int(-11), nice)
	flags, _ := rt.Get("flags")
	requireSameTree(t, value.Array(value.String("ifexists"), value.String("nofail")), flags)
}

func TestRoundTrip(t *testing.T) {
	inputs := []string{
		pipewireConf,
		`{ "a b" = "c \"d\"", "" = "", e = [ 1, -2, 3.5, 1e300, -0.0, true, null, "null", "42" ] }`,
		`[ {}, [], { x = [] }, "multi\nline", "tab\there", "\u0001", "😀", "a//b", "#x" ]`,
		`"just a string"`,
		`1.0`,
		`-9223372036854775808`,
		`18446744073709551616`,
		`{ true = false, null = 1, 3 = three }`,
	}
	printers := map[string][]spajson.Option{
		"default":      nil,
		"compact":      {spajson.Indent(0)},
		"colon":        {spajson.Separator(':'), spajson.Indent(4)},
		"bare":         {spajson.TopLevelBraces(false)},
		"bare compact": {spajson.TopLevelBraces(false), spajson.Indent(0)},
		"commas":       {spajson.Commas()},
		"quote all":    {spajson.QuoteKeys(spajson.QuoteAlways)},
		"quote none":   {spajson.QuoteValues(spajson.QuoteWhenNeeded)},
	}

	for _, input := range inputs {
		v := mustParse(t, input)
		for name, opts := range printers {
			t.Run(name, func(t *testing.T) {
				text := spajson.ToString(v, opts...)
				back, err := spajson.Parse([]byte(text))
				require.NoError(t, err, "printed text:\n%s", text)
				requireSameTree(t, v, back)

				// Printing is idempotent.
				require.Equal(t, text, spajson.ToString(back, opts...))
			})
		}
	}
}

func TestPermissiveSeparators(t *testing.T) {
	a := mustParse(t, "{a=1 b:2, c = 3}")
	b := mustParse(t, "{a=1,b=2,c=3}")
	requireSameTree(t, a, b)
}

func TestDuplicateKeysLastWins(t *testing.T) {
	v := mustParse(t, "{a=1 b=2 a=3}")
	require.Equal(t, "{\n  b = 2\n  a = 3\n}", spajson.ToString(v))
}

func TestCommentsIgnored(t *testing.T) {
	a := mustParse(t, "{ /* x */ a = 1 // y\n # z\n }")
	b := mustParse(t, "{a=1}")
	requireSameTree(t, a, b)
}

func TestDepthGuard(t *testing.T) {
	deep := strings.Repeat("[", 10) + strings.Repeat("]", 10)
	_, err := spajson.Parse([]byte(deep), spajson.MaxDepth(10))
	require.NoError(t, err)
	_, err = spajson.Parse([]byte(deep), spajson.MaxDepth(9))
	require.ErrorIs(t, err, spaerrors.NestingTooDeep)

	_, err = spajson.Parse([]byte("1"), spajson.MaxDepth(0))
	require.Error(t, err)
}

func TestUnterminatedStringPosition(t *testing.T) {
	_, err := spajson.Parse([]byte(`{"key": "value}`))
	require.ErrorIs(t, err, spaerrors.UnterminatedString)
	require.EqualError(t, err, "spajson: unterminated string at line 1, column 9: string is not closed with a quote")
}

func TestNumberCanonicalization(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1.0", "1.0"},
		{"1", "1"},
		{"1e2", "100.0"},
		{"+5", "5"},
		{"007", "7"},
		{"0.1", "0.1"},
		{"-0.0", "-0.0"},
		{"2.5E-3", "0.0025"},
		{"1e21", "1e+21"},
		{"9223372036854775808", "9.223372036854776e+18"},
		{"1000000", "1000000"},
		{"1000000.0", "1e+06"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			require.Equal(t, tt.expected, spajson.ToString(mustParse(t, tt.input)))
		})
	}
}

func TestNonFiniteFloats(t *testing.T) {
	v := value.Array(value.Float(math.NaN()), value.Float(math.Inf(1)), value.Float(math.Inf(-1)))
	text := spajson.ToString(v, spajson.Indent(0))
	require.Equal(t, "[nan inf -inf]", text)

	// They read back as strings.
	back := mustParse(t, text)
	requireSameTree(t, value.Array(value.String("nan"), value.String("inf"), value.String("-inf")), back)
}

func TestPrinterOptions(t *testing.T) {
	v := value.ObjectValue(value.NewObject(
		value.Entry{Key: "node.name", Value: value.String("alsa")},
		value.Entry{Key: "with space", Value: value.Array(value.Int(1), value.Int(2))},
		value.Entry{Key: "empty", Value: value.ObjectValue(nil)},
		value.Entry{Key: "word", Value: value.String("true")},
	))

	tests := []struct {
		name     string
		opts     []spajson.Option
		expected string
	}{
		{
			name: "default",
			expected: `{
  node.name = "alsa"
  "with space" = [
    1
    2
  ]
  empty = {}
  word = "true"
}`,
		},
		{
			name:     "compact",
			opts:     []spajson.Option{spajson.Indent(0)},
			expected: `{node.name = "alsa" "with space" = [1 2] empty = {} word = "true"}`,
		},
		{
			name:     "compact with commas and colon",
			opts:     []spajson.Option{spajson.Indent(0), spajson.Commas(), spajson.Separator(':')},
			expected: `{node.name: "alsa", "with space": [1, 2], empty: {}, word: "true"}`,
		},
		{
			name: "bare top level, bare values",
			opts: []spajson.Option{
				spajson.TopLevelBraces(false),
				spajson.QuoteValues(spajson.QuoteWhenNeeded),
				spajson.Indent(4),
			},
			expected: `node.name = alsa
"with space" = [
    1
    2
]
empty = {}
word = "true"`,
		},
		{
			name:     "quote keys",
			opts:     []spajson.Option{spajson.Indent(0), spajson.QuoteKeys(spajson.QuoteAlways)},
			expected: `{"node.name" = "alsa" "with space" = [1 2] "empty" = {} "word" = "true"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := spajson.NewPrinter(tt.opts...)
			require.NoError(t, err)
			require.Equal(t, tt.expected, p.Print(v))
		})
	}
}

// The classic PipeWire layout: two space indentation,
// `key = value` members and unquoted strings.
func TestSerializerLayout(t *testing.T) {
	type Test struct {
		Int int      `spa:"int"`
		Seq []string `spa:"seq"`
		Str string   `spa:"str"`
	}
	b, err := spajson.Marshal(Test{Int: 1, Seq: []string{"a", "b"}, Str: "string"},
		spajson.QuoteValues(spajson.QuoteWhenNeeded))
	require.NoError(t, err)
	require.Equal(t, "{\n  int = 1\n  seq = [\n    a\n    b\n  ]\n  str = string\n}", string(b))
}

func TestInvalidOptions(t *testing.T) {
	invalid := []spajson.Option{
		spajson.Indent(-1),
		spajson.Separator(';'),
		spajson.QuoteKeys(spajson.Quoting(7)),
		spajson.QuoteValues(spajson.Quoting(-1)),
		spajson.MaxDepth(-3),
	}
	for _, opt := range invalid {
		_, err := spajson.NewPrinter(opt)
		require.Error(t, err)
		require.Panics(t, func() { spajson.ToString(value.Null(), opt) })
	}
}

func TestEmptyDocument(t *testing.T) {
	for _, input := range []string{"", "   ", "// only a comment\n", "/* */"} {
		_, err := spajson.Parse([]byte(input))
		require.ErrorIs(t, err, spaerrors.UnexpectedEndOfInput, "input %q", input)
	}
}

func TestEmptyBareObject(t *testing.T) {
	// An empty object has no bare form.
	text := spajson.ToString(value.ObjectValue(nil), spajson.TopLevelBraces(false))
	require.Equal(t, "{}", text)
}

func TestColors(t *testing.T) {
	c := &spajson.Colors{
		Default: func(s string, _ ...any) string { return s },
		Map: map[spajson.Colorable]func(string, ...any) string{
			{Kind: value.KindObject, Attr: spajson.KeyColor}: func(s string, _ ...any) string { return "<" + s + ">" },
			{Kind: value.KindInt, Attr: spajson.ValueColor}:  func(s string, _ ...any) string { return "#" + s },
		},
	}
	v := mustParse(t, "{a = 1 b = x}")
	require.Equal(t, `{<a> = #1 <b> = "x"}`, spajson.ToString(v, spajson.Indent(0), spajson.WithColors(c)))

	// The default scheme keeps the text intact apart from escape sequences.
	colored := spajson.ToString(v, spajson.WithColors(nil))
	require.Contains(t, colored, "a")
}
