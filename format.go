package spajson

import (
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/KimNorgaard/go-spajson/internal/lexer"
	"github.com/KimNorgaard/go-spajson/value"
)

// Printer renders value trees as SPA-JSON text. A Printer is immutable and
// safe for concurrent use.
type Printer struct {
	opts *options
}

// NewPrinter returns a Printer configured by opts. It fails only when an
// option is invalid.
func NewPrinter(opts ...Option) (*Printer, error) {
	o, err := newOptions(opts)
	if err != nil {
		return nil, err
	}
	return &Printer{opts: o}, nil
}

// Print renders v. Printing never fails. NaN and infinite floats print as
// nan, inf and -inf, which read back as strings.
func (p *Printer) Print(v value.Value) string {
	var sb strings.Builder
	f := &formatter{w: &sb, opts: p.opts}
	if p.opts.indent > 0 {
		f.indent = strings.Repeat(" ", p.opts.indent)
	}
	f.writeDocument(v)
	return sb.String()
}

// Fprint writes the rendering of v to w, followed by a newline.
func (p *Printer) Fprint(w io.Writer, v value.Value) error {
	_, err := io.WriteString(w, p.Print(v)+"\n")
	return err
}

// formatter writes one value tree.
type formatter struct {
	w      *strings.Builder
	indent string
	depth  int
	opts   *options
}

func (f *formatter) write(s string) {
	f.w.WriteString(s)
}

func (f *formatter) color(k value.Kind, a ColorAttr, s string) string {
	return f.opts.colors.Color(k, a, s)
}

func (f *formatter) writeIndent() {
	for i := 0; i < f.depth; i++ {
		f.write(f.indent)
	}
}

func (f *formatter) writeDocument(v value.Value) {
	obj := v.Object()
	if f.opts.topLevelBraces || obj.Len() == 0 {
		f.writeValue(v)
		return
	}
	// A bare top-level object keeps its members at depth zero.
	i := 0
	for k, e := range obj.All() {
		if i > 0 {
			f.writeSeparator(value.KindObject)
		}
		f.writeIndent()
		f.writeMember(k, e)
		i++
	}
}

func (f *formatter) writeValue(v value.Value) {
	switch v.Kind() {
	case value.KindNull:
		f.write(f.color(value.KindNull, ValueColor, "null"))
	case value.KindBool:
		b, _ := v.AsBool()
		f.write(f.color(value.KindBool, ValueColor, strconv.FormatBool(b)))
	case value.KindInt:
		i, _ := v.AsInt()
		f.write(f.color(value.KindInt, ValueColor, strconv.FormatInt(i, 10)))
	case value.KindFloat:
		fl, _ := v.AsFloat()
		f.write(f.color(value.KindFloat, ValueColor, value.FormatFloat(fl)))
	case value.KindString:
		s, _ := v.AsString()
		f.write(f.color(value.KindString, ValueColor, formatString(s, f.opts.quoteValues, true)))
	case value.KindArray:
		f.writeArray(v)
	case value.KindObject:
		f.writeObject(v.Object())
	}
}

// writeSeparator ends one member or element and positions the writer for
// the next one.
func (f *formatter) writeSeparator(k value.Kind) {
	if f.opts.commas {
		f.write(f.color(k, PunctColor, ","))
	}
	if f.indent == "" {
		f.write(" ")
		return
	}
	f.write("\n")
}

func (f *formatter) writeMember(k string, v value.Value) {
	f.write(f.color(value.KindObject, KeyColor, formatString(k, f.opts.quoteKeys, false)))
	sep := string(f.opts.separator)
	if f.opts.separator == '=' {
		sep = " = "
	} else {
		sep += " "
	}
	f.write(f.color(value.KindObject, SepColor, sep))
	f.writeValue(v)
}

func (f *formatter) writeObject(obj *value.Object) {
	f.write(f.color(value.KindObject, PunctColor, "{"))
	if obj.Len() > 0 {
		f.open()
		i := 0
		for k, e := range obj.All() {
			if i > 0 {
				f.writeSeparator(value.KindObject)
			}
			f.writeIndent()
			f.writeMember(k, e)
			i++
		}
		f.close()
	}
	f.write(f.color(value.KindObject, PunctColor, "}"))
}

func (f *formatter) writeArray(v value.Value) {
	f.write(f.color(value.KindArray, PunctColor, "["))
	if v.Len() > 0 {
		f.open()
		for i, e := range v.Items() {
			if i > 0 {
				f.writeSeparator(value.KindArray)
			}
			f.writeIndent()
			f.writeValue(e)
		}
		f.close()
	}
	f.write(f.color(value.KindArray, PunctColor, "]"))
}

// open starts the body of a non-empty container.
func (f *formatter) open() {
	f.depth++
	if f.indent != "" {
		f.write("\n")
	}
}

// close ends the body of a non-empty container.
func (f *formatter) close() {
	f.depth--
	if f.indent != "" {
		f.write("\n")
		f.writeIndent()
	}
}

// formatString renders s bare or quoted. A string is left bare only when
// the lexer reads it back as the same single bareword and, for values, the
// bareword classifies back as a string rather than a keyword or number.
func formatString(s string, q Quoting, isValue bool) string {
	if q == QuoteWhenNeeded && lexer.IsBareword(s) {
		if !isValue || value.FromBareword(s).Kind() == value.KindString {
			return s
		}
	}
	return quote(s)
}

const hex = "0123456789abcdef"

// quote escapes s minimally and wraps it in double quotes.
func quote(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	sb.WriteByte('"')
	for i := 0; i < len(s); {
		c := s[i]
		if c >= utf8.RuneSelf {
			_, size := utf8.DecodeRuneInString(s[i:])
			sb.WriteString(s[i : i+size])
			i += size
			continue
		}
		switch c {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		case '\b':
			sb.WriteString(`\b`)
		case '\f':
			sb.WriteString(`\f`)
		default:
			if c < 0x20 {
				sb.WriteString(`\u00`)
				sb.WriteByte(hex[c>>4])
				sb.WriteByte(hex[c&0xF])
			} else {
				sb.WriteByte(c)
			}
		}
		i++
	}
	sb.WriteByte('"')
	return sb.String()
}
