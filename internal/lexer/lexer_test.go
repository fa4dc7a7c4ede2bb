package lexer_test

import (
	"testing"

	spaerrors "github.com/KimNorgaard/go-spajson/errors"
	"github.com/KimNorgaard/go-spajson/internal/lexer"
	"github.com/KimNorgaard/go-spajson/token"
	"github.com/stretchr/testify/require"
)

func TestNext(t *testing.T) {
	input := `# WirePlumber style
context.properties = {
  /* block */ log.level: 2 // trailing
  "quoted key" = "a \"b\"\n"
  list = [ 1, -2.5e3 true ]
  path = /usr/share/a
}
`
	expectedTokens := []struct {
		expectedType    token.Type
		expectedLiteral string
		expectedLine    int
		expectedColumn  int
	}{
		{token.BAREWORD, "context.properties", 2, 1},
		{token.EQUALS, "=", 2, 20},
		{token.LBRACE, "{", 2, 22},
		{token.BAREWORD, "log.level", 3, 15},
		{token.COLON, ":", 3, 24},
		{token.BAREWORD, "2", 3, 26},
		{token.STRING, "quoted key", 4, 3},
		{token.EQUALS, "=", 4, 16},
		{token.STRING, "a \"b\"\n", 4, 18},
		{token.BAREWORD, "list", 5, 3},
		{token.EQUALS, "=", 5, 8},
		{token.LBRACK, "[", 5, 10},
		{token.BAREWORD, "1", 5, 12},
		{token.COMMA, ",", 5, 13},
		{token.BAREWORD, "-2.5e3", 5, 15},
		{token.BAREWORD, "true", 5, 22},
		{token.RBRACK, "]", 5, 27},
		{token.BAREWORD, "path", 6, 3},
		{token.EQUALS, "=", 6, 8},
		{token.BAREWORD, "/usr/share/a", 6, 10},
		{token.RBRACE, "}", 7, 1},
		{token.EOF, "", 8, 1},
	}

	l := lexer.New([]byte(input))
	for i, tt := range expectedTokens {
		tok, err := l.Next()
		require.NoError(t, err, "tests[%d]", i)
		require.Equal(t, tt.expectedType, tok.Type, "tests[%d] - tokentype wrong", i)
		require.Equal(t, tt.expectedLiteral, tok.Literal, "tests[%d] - literal wrong", i)
		require.Equal(t, tt.expectedLine, tok.Pos.Line, "tests[%d] - line wrong", i)
		require.Equal(t, tt.expectedColumn, tok.Pos.Column, "tests[%d] - column wrong", i)
	}
}

func TestKeepComments(t *testing.T) {
	input := "a // one\n/* two */ # three\nb"
	l := lexer.New([]byte(input), lexer.KeepComments())

	var got []token.Token
	for tok, err := range l.All() {
		require.NoError(t, err)
		got = append(got, tok)
	}

	require.Len(t, got, 6)
	require.Equal(t, token.BAREWORD, got[0].Type)
	require.Equal(t, token.COMMENT, got[1].Type)
	require.Equal(t, "// one", got[1].Literal)
	require.Equal(t, "/* two */", got[2].Literal)
	require.Equal(t, "# three", got[3].Literal)
	require.Equal(t, "b", got[4].Literal)
	require.Equal(t, token.EOF, got[5].Type)
}

func TestBarewords(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"a#b", []string{"a#b"}},
		{"a/b", []string{"a/b"}},
		{"a//b", []string{"a"}},
		{"a/*c*/b", []string{"a", "b"}},
		{"ünïcödé 名前", []string{"ünïcödé", "名前"}},
		{"x=y", []string{"x", "=", "y"}},
		{"\xEF\xBB\xBFbom", []string{"bom"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var got []string
			for tok, err := range lexer.New([]byte(tt.input)).All() {
				require.NoError(t, err)
				if tok.Type == token.EOF {
					break
				}
				got = append(got, tok.Literal)
			}
			require.Equal(t, tt.expected, got)
		})
	}
}

func TestStringEscapes(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`"plain"`, "plain"},
		{`"tab\there"`, "tab\there"},
		{`"\\ \/ \b \f \r"`, "\\ / \b \f \r"},
		{`"é"`, "é"},
		{`"😀"`, "😀"},
		{"\"multi\nline\"", "multi\nline"},
		{`""`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tok, err := lexer.New([]byte(tt.input)).Next()
			require.NoError(t, err)
			require.Equal(t, token.STRING, tok.Type)
			require.Equal(t, tt.expected, tok.Literal)
		})
	}
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		kind   spaerrors.Kind
		line   int
		column int
	}{
		{"unterminated string", `{"key": "value}`, spaerrors.UnterminatedString, 1, 9},
		{"unterminated after escape", `  "abc\`, spaerrors.UnterminatedString, 1, 3},
		{"unterminated comment", "a\n  /* never", spaerrors.UnterminatedComment, 2, 3},
		{"bad escape", `"a\qb"`, spaerrors.InvalidEscape, 1, 3},
		{"bad unicode escape", `"\u12G4"`, spaerrors.InvalidEscape, 1, 2},
		{"lone low surrogate", `"\uDC00"`, spaerrors.InvalidEscape, 1, 2},
		{"unpaired high surrogate", `"\uD800x"`, spaerrors.InvalidEscape, 1, 2},
		{"invalid utf-8 in bareword", "ab\xffcd", spaerrors.InvalidUTF8, 1, 3},
		{"invalid utf-8 in string", "\"a\xff\"", spaerrors.InvalidUTF8, 1, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := lexer.New([]byte(tt.input))
			var err error
			for _, err = range l.All() {
				if err != nil {
					break
				}
			}
			require.Error(t, err)
			require.ErrorIs(t, err, tt.kind)

			var lexErr *spaerrors.LexError
			require.ErrorAs(t, err, &lexErr)
			require.Equal(t, tt.line, lexErr.Pos.Line, "line")
			require.Equal(t, tt.column, lexErr.Pos.Column, "column")

			// The error is sticky.
			_, again := l.Next()
			require.Equal(t, err, again)
		})
	}
}

func TestIsBareword(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"abc", true},
		{"node.name", true},
		{"/usr/lib", true},
		{"a#b", true},
		{"", false},
		{"#a", false},
		{"a b", false},
		{"a=b", false},
		{"a:b", false},
		{"a,b", false},
		{`a"b`, false},
		{"a//b", false},
		{"a/*b", false},
		{"tab\t", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			require.Equal(t, tt.expected, lexer.IsBareword(tt.input))
		})
	}
}
