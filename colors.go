package spajson

import (
	"strings"

	"github.com/KimNorgaard/go-spajson/value"
	"github.com/fatih/color"
)

// ColorAttr selects which part of a rendered value is colored.
type ColorAttr int

const (
	ValueColor ColorAttr = iota
	KeyColor
	SepColor
	PunctColor
)

// Colorable identifies a color slot: the kind of value being printed and
// the part of it.
type Colorable struct {
	Kind value.Kind
	Attr ColorAttr
}

// Colors maps color slots to formatting functions. Slots missing from Map
// use Default.
type Colors struct {
	Default func(string, ...any) string
	Map     map[Colorable]func(string, ...any) string
}

// NewColors returns the default terminal color scheme.
func NewColors() *Colors {
	c := &Colors{
		Default: colorDefault,
		Map:     map[Colorable]func(string, ...any) string{},
	}
	c.Map[Colorable{value.KindObject, KeyColor}] = color.RGB(128, 168, 196).SprintfFunc()
	c.Map[Colorable{value.KindObject, SepColor}] = color.RGB(196, 128, 128).SprintfFunc()
	c.Map[Colorable{value.KindObject, PunctColor}] = color.RGB(255, 0, 196).SprintfFunc()
	c.Map[Colorable{value.KindArray, PunctColor}] = color.RGB(255, 0, 196).SprintfFunc()
	c.Map[Colorable{value.KindNull, ValueColor}] = color.RGB(168, 0, 196).SprintfFunc()
	c.Map[Colorable{value.KindBool, ValueColor}] = color.CyanString
	c.Map[Colorable{value.KindInt, ValueColor}] = color.RGB(128, 216, 236).SprintfFunc()
	c.Map[Colorable{value.KindFloat, ValueColor}] = color.RGB(128, 216, 236).SprintfFunc()
	c.Map[Colorable{value.KindString, ValueColor}] = color.RGB(8, 196, 16).SprintfFunc()
	for k, f := range c.Map {
		c.Map[k] = func(v string, _ ...any) string {
			return f(strings.ReplaceAll(v, "%", "%%"))
		}
	}
	return c
}

func colorDefault(v string, _ ...any) string { return v }

// Color renders s in the color of slot (k, a).
func (c *Colors) Color(k value.Kind, a ColorAttr, s string) string {
	if c == nil {
		return s
	}
	return c.Get(k, a)(s)
}

// Get returns the formatting function of slot (k, a).
func (c *Colors) Get(k value.Kind, a ColorAttr) func(string, ...any) string {
	f := c.Map[Colorable{Kind: k, Attr: a}]
	if f == nil {
		return c.Default
	}
	return f
}
