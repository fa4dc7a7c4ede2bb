package spajson

import (
	"fmt"
	"log/slog"

	"github.com/KimNorgaard/go-spajson/internal/parser"
)

// Option configures parsing, printing, encoding or decoding. Options that do
// not apply to an operation are ignored by it.
type Option func(*options) error

// Quoting selects when the printer wraps a string in double quotes.
type Quoting int

const (
	// QuoteWhenNeeded leaves a string bare when it reads back as the same
	// bareword.
	QuoteWhenNeeded Quoting = iota
	// QuoteAlways quotes every string.
	QuoteAlways
)

func (q Quoting) String() string {
	switch q {
	case QuoteWhenNeeded:
		return "when-needed"
	case QuoteAlways:
		return "always"
	}
	return fmt.Sprintf("Quoting(%d)", int(q))
}

const (
	defaultIndent = 2

	// DefaultMaxDepth is the container nesting limit used unless MaxDepth
	// says otherwise.
	DefaultMaxDepth = parser.DefaultMaxDepth
)

type options struct {
	indent         int
	maxDepth       int
	topLevelBraces bool
	quoteKeys      Quoting
	quoteValues    Quoting
	separator      rune
	commas         bool
	colors         *Colors
	logger         *slog.Logger
	strict         bool
}

func newOptions(opts []Option) (*options, error) {
	o := &options{
		indent:         defaultIndent,
		maxDepth:       DefaultMaxDepth,
		topLevelBraces: true,
		quoteKeys:      QuoteWhenNeeded,
		quoteValues:    QuoteAlways,
		separator:      '=',
	}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// Indent sets the number of spaces per nesting level. Zero prints on a
// single line.
func Indent(n int) Option {
	return func(o *options) error {
		if n < 0 {
			return fmt.Errorf("spajson: indent must be a non-negative integer")
		}
		o.indent = n
		return nil
	}
}

// MaxDepth sets the maximum nesting depth accepted by the parser and the
// decoder. This helps prevent stack exhaustion on hostile input.
//
// The depth n must be a positive integer.
func MaxDepth(n int) Option {
	return func(o *options) error {
		if n <= 0 {
			return fmt.Errorf("spajson: max depth must be a positive integer")
		}
		o.maxDepth = n
		return nil
	}
}

// TopLevelBraces controls whether a top-level object is wrapped in braces.
// WirePlumber configuration files are usually written without them.
func TopLevelBraces(enabled bool) Option {
	return func(o *options) error {
		o.topLevelBraces = enabled
		return nil
	}
}

// QuoteKeys sets the quoting policy for object keys.
func QuoteKeys(q Quoting) Option {
	return func(o *options) error {
		if err := validQuoting(q); err != nil {
			return err
		}
		o.quoteKeys = q
		return nil
	}
}

// QuoteValues sets the quoting policy for string values.
func QuoteValues(q Quoting) Option {
	return func(o *options) error {
		if err := validQuoting(q); err != nil {
			return err
		}
		o.quoteValues = q
		return nil
	}
}

func validQuoting(q Quoting) error {
	if q != QuoteWhenNeeded && q != QuoteAlways {
		return fmt.Errorf("spajson: unknown quoting policy %d", int(q))
	}
	return nil
}

// Separator sets the key/value separator, '=' or ':'.
func Separator(sep rune) Option {
	return func(o *options) error {
		if sep != '=' && sep != ':' {
			return fmt.Errorf("spajson: separator must be '=' or ':', got %q", sep)
		}
		o.separator = sep
		return nil
	}
}

// Commas makes the printer put a comma between members and elements. A
// trailing comma is never written.
func Commas() Option {
	return func(o *options) error {
		o.commas = true
		return nil
	}
}

// WithColors makes the printer colorize its output. A nil c selects
// NewColors().
func WithColors(c *Colors) Option {
	return func(o *options) error {
		if c == nil {
			c = NewColors()
		}
		o.colors = c
		return nil
	}
}

// WithLogger makes decoding report skipped object keys at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) error {
		o.logger = l
		return nil
	}
}

// DisallowUnknownFields makes decoding into a struct fail with
// UnknownVariant when the object has a key that matches no field.
func DisallowUnknownFields() Option {
	return func(o *options) error {
		o.strict = true
		return nil
	}
}
