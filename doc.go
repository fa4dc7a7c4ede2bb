/*
Package spajson reads and writes SPA-JSON, the relaxed JSON dialect used by
PipeWire and WirePlumber configuration files.

SPA-JSON accepts everything JSON does and relaxes it: keys and values may be
bare words, '=' or ':' separates a key from its value (or nothing at all),
commas are optional, and line, block and hash comments are ignored. A file may
also omit the braces around its top-level object.

	context.properties = {
	  log.level = 2
	}
	context.modules = [
	  { name = libpipewire-module-rt, args = { nice.level = -11 } }
	]

The package offers two workflows, mirroring encoding/json.

1. Working with the value tree

Parse returns a value.Value: null, bool, int, float, string, array or an
ordered object. Object keys keep their document order, and a repeated key
keeps the last value at the position of its last occurrence. ToString and
Printer render a tree back to text:

	tree, err := spajson.Parse(data)
	if err != nil {
		// handle error
	}
	fmt.Println(spajson.ToString(tree, spajson.Indent(4), spajson.TopLevelBraces(false)))

Printing a parsed tree and parsing the output yields an equal tree, except
for NaN and infinite floats, which print as nan, inf and -inf and read back
as strings.

2. Mapping to Go types

Unmarshal, ParseAs and Marshal map between text and Go values by
reflection, in the manner of encoding/json:

	type Module struct {
		Name  string         `spa:"name,required"`
		Args  map[string]any `spa:"args,omitempty"`
		Flags []string       `spa:"flags,omitempty"`
	}

	mods, err := spajson.ParseAs[[]Module](data)

The mapping is built on package adapter, whose Reader and Visitor types are
the extension point for other mappers.

Errors carry a stable kind from package errors, so callers can test for a
category with errors.Is. Parse errors report a 1-based line and column.
*/
package spajson
