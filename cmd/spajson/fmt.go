package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/KimNorgaard/go-spajson"
	"github.com/scott-cotton/cli"
	"github.com/sergi/go-diff/diffmatchpatch"
)

func format(cfg *FmtConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Fmt.Parse(cc, args)
	if err != nil {
		return err
	}
	opts, err := cfg.formatOpts()
	if err != nil {
		return err
	}
	if cfg.Write && len(args) == 0 {
		return fmt.Errorf("%w: -w needs file arguments", cli.ErrUsage)
	}
	inputs, err := readInputs(cc, args)
	if err != nil {
		return err
	}
	for _, in := range inputs {
		if err := formatInput(cfg, opts, cc.Out, in); err != nil {
			return fmt.Errorf("error formatting %s: %w", in.name, err)
		}
	}
	return nil
}

func formatInput(cfg *FmtConfig, opts []spajson.Option, w io.Writer, in input) error {
	v, err := spajson.Parse(in.data, cfg.parseOpts()...)
	if err != nil {
		return err
	}
	out := spajson.ToString(v, opts...) + "\n"
	changed := out != string(in.data)
	cfg.Logger.LogAttrs(context.Background(), slog.LevelDebug, "formatted",
		slog.String("file", in.name), slog.Bool("changed", changed))

	switch {
	case cfg.List:
		if changed {
			_, err = fmt.Fprintln(w, in.name)
		}
	case cfg.Diff:
		if changed {
			_, err = fmt.Fprintf(w, "--- %s\n+++ %s (formatted)\n%s", in.name, in.name, lineDiff(string(in.data), out))
		}
	case cfg.Write:
		if changed && in.name != stdinName {
			err = os.WriteFile(in.name, []byte(out), 0o644)
		}
	default:
		p, perr := spajson.NewPrinter(cfg.printOpts(w, opts...)...)
		if perr != nil {
			return perr
		}
		err = p.Fprint(w, v)
	}
	return err
}

// lineDiff renders a line oriented diff of a and b, prefixing each line
// with '-', '+' or ' '.
func lineDiff(a, b string) string {
	dmp := diffmatchpatch.New()
	ca, cb, lines := dmp.DiffLinesToChars(a, b)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(ca, cb, false), lines)

	var sb strings.Builder
	for _, d := range diffs {
		prefix := " "
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			sb.WriteString(prefix)
			sb.WriteString(line)
			if !strings.HasSuffix(line, "\n") {
				sb.WriteString("\n")
			}
		}
	}
	return sb.String()
}
