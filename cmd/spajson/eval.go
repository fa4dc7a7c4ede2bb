package main

import (
	"fmt"
	"io"

	"github.com/KimNorgaard/go-spajson"
	"github.com/KimNorgaard/go-spajson/value"
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/scott-cotton/cli"
)

func eval(cfg *EvalConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Eval.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: eval requires an expression", cli.ErrUsage)
	}
	prg, err := compileExpr(args[0])
	if err != nil {
		return fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	inputs, err := readInputs(cc, args[1:])
	if err != nil {
		return err
	}
	for _, in := range inputs {
		if err := evalInput(cfg, prg, cc.Out, in); err != nil {
			return fmt.Errorf("error evaluating %s: %w", in.name, err)
		}
	}
	return nil
}

// compileExpr compiles src with expr's builtin get disabled so that the
// path lookup from exprEnv is called instead.
func compileExpr(src string) (*vm.Program, error) {
	return expr.Compile(src, expr.DisableBuiltin("get"))
}

func evalInput(cfg *EvalConfig, prg *vm.Program, w io.Writer, in input) error {
	doc, err := spajson.Parse(in.data, cfg.parseOpts()...)
	if err != nil {
		return err
	}
	res, err := expr.Run(prg, exprEnv(doc))
	if err != nil {
		return err
	}
	if s, ok := res.(string); ok && cfg.Raw {
		_, err := fmt.Fprintln(w, s)
		return err
	}
	v, err := value.FromInterface(res)
	if err != nil {
		return fmt.Errorf("cannot print result: %w", err)
	}
	p, err := spajson.NewPrinter(cfg.printOpts(w)...)
	if err != nil {
		return err
	}
	return p.Fprint(w, v)
}

// exprEnv exposes doc to expressions: as doc, through get, and by its
// top-level keys.
func exprEnv(doc value.Value) map[string]any {
	env := map[string]any{}
	if obj := doc.Object(); obj != nil {
		for k, v := range obj.All() {
			env[k] = v.Interface()
		}
	}
	env["doc"] = doc.Interface()
	env["get"] = func(path ...any) any {
		v, ok := lookup(doc, path)
		if !ok {
			return nil
		}
		return v.Interface()
	}
	return env
}

// lookup follows path through v. Strings select object keys and integers
// select array elements.
func lookup(v value.Value, path []any) (value.Value, bool) {
	for _, p := range path {
		var ok bool
		switch k := p.(type) {
		case string:
			v, ok = v.Get(k)
		case int:
			v, ok = v.Index(k)
		case int64:
			v, ok = v.Index(int(k))
		}
		if !ok {
			return value.Value{}, false
		}
	}
	return v, true
}
