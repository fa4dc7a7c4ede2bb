package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/KimNorgaard/go-spajson"
	spaerrors "github.com/KimNorgaard/go-spajson/errors"
	"github.com/KimNorgaard/go-spajson/token"
	"github.com/scott-cotton/cli"
)

func check(cfg *CheckConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Check.Parse(cc, args)
	if err != nil {
		return err
	}
	inputs, err := readInputs(cc, args)
	if err != nil {
		return err
	}
	failed := 0
	for _, in := range inputs {
		if !checkInput(cfg, cc.Out, in) {
			failed++
		}
	}
	if failed > 0 {
		cfg.Logger.Debug("check failed", "files", failed)
		return cli.ExitCodeErr(1)
	}
	return nil
}

// checkInput parses in and reports the first error, if any, on w.
func checkInput(cfg *CheckConfig, w io.Writer, in input) bool {
	_, err := spajson.Parse(in.data, cfg.parseOpts()...)
	if err == nil {
		return true
	}
	if !cfg.Quiet {
		fmt.Fprintln(w, describeError(in.name, err))
	}
	return false
}

// describeError renders err as name:line:column: kind: message when err
// carries a position.
func describeError(name string, err error) string {
	var (
		pos  token.Position
		kind spaerrors.Kind
		msg  string
	)
	var lerr *spaerrors.LexError
	var perr *spaerrors.ParseError
	switch {
	case errors.As(err, &lerr):
		pos, kind, msg = lerr.Pos, lerr.Kind, lerr.Message
	case errors.As(err, &perr):
		pos, kind, msg = perr.Pos, perr.Kind, perr.Message
	default:
		return fmt.Sprintf("%s: %v", name, err)
	}
	return fmt.Sprintf("%s:%d:%d: %s: %s", name, pos.Line, pos.Column, kind, msg)
}
