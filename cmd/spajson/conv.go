package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/KimNorgaard/go-spajson"
	"github.com/KimNorgaard/go-spajson/value"
	"github.com/goccy/go-yaml"
	"github.com/scott-cotton/cli"
)

func conv(cfg *ConvConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Conv.Parse(cc, args)
	if err != nil {
		return err
	}
	inputs, err := readInputs(cc, args)
	if err != nil {
		return err
	}
	for _, in := range inputs {
		if err := convInput(cfg, cc.Out, in); err != nil {
			return fmt.Errorf("error converting %s: %w", in.name, err)
		}
	}
	return nil
}

func convInput(cfg *ConvConfig, w io.Writer, in input) error {
	v, err := decodeAs(cfg.InFormat, in.data, cfg.parseOpts()...)
	if err != nil {
		return err
	}
	out, err := encodeAs(cfg.OutFormat, v, cfg.printOpts(w)...)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

// decodeAs reads data in format f. JSON documents are valid SPA-JSON and
// go through the same parser.
func decodeAs(f Format, data []byte, opts ...spajson.Option) (value.Value, error) {
	switch f {
	case SPAFormat, JSONFormat:
		return spajson.Parse(data, opts...)
	case YAMLFormat:
		var doc any
		if err := yaml.UnmarshalWithOptions(data, &doc, yaml.UseOrderedMap()); err != nil {
			return value.Value{}, err
		}
		return fromYAML(doc)
	}
	return value.Value{}, fmt.Errorf("unknown format %q", f)
}

// encodeAs renders v in format f, ending with a newline.
func encodeAs(f Format, v value.Value, opts ...spajson.Option) ([]byte, error) {
	switch f {
	case SPAFormat:
		p, err := spajson.NewPrinter(opts...)
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		err = p.Fprint(&buf, v)
		return buf.Bytes(), err
	case JSONFormat:
		compact, err := v.MarshalJSON()
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		if err := json.Indent(&buf, compact, "", "  "); err != nil {
			return nil, err
		}
		buf.WriteByte('\n')
		return buf.Bytes(), nil
	case YAMLFormat:
		return yaml.Marshal(toYAML(v))
	}
	return nil, fmt.Errorf("unknown format %q", f)
}

// toYAML converts v to data the YAML encoder understands, keeping object
// order with MapSlice.
func toYAML(v value.Value) any {
	switch v.Kind() {
	case value.KindArray:
		out := make([]any, 0, v.Len())
		for _, e := range v.Items() {
			out = append(out, toYAML(e))
		}
		return out
	case value.KindObject:
		out := make(yaml.MapSlice, 0, v.Len())
		for k, e := range v.Object().All() {
			out = append(out, yaml.MapItem{Key: k, Value: toYAML(e)})
		}
		return out
	}
	return v.Interface()
}

func fromYAML(x any) (value.Value, error) {
	switch t := x.(type) {
	case yaml.MapSlice:
		obj := value.NewObject()
		for _, item := range t {
			e, err := fromYAML(item.Value)
			if err != nil {
				return value.Value{}, err
			}
			obj.Set(fmt.Sprint(item.Key), e)
		}
		return value.ObjectValue(obj), nil
	case []any:
		out := make([]value.Value, len(t))
		for i, item := range t {
			e, err := fromYAML(item)
			if err != nil {
				return value.Value{}, err
			}
			out[i] = e
		}
		return value.Array(out...), nil
	}
	return value.FromInterface(x)
}
