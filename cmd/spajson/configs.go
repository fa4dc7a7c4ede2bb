package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/KimNorgaard/go-spajson"
	"github.com/KimNorgaard/go-spajson/internal/logs"
	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"
)

type MainConfig struct {
	Color    bool   `cli:"name=color desc='print with color'"`
	Depth    int    `cli:"name=depth desc='maximum nesting depth'"`
	LogLevel string `cli:"name=log-level desc='log level: debug, info, warn, error'"`
	LogFile  string `cli:"name=log-file desc='also write JSON log records to this file'"`
	Journal  bool   `cli:"name=journal desc='also log to the systemd journal'"`

	Logger   *slog.Logger
	CloseLog func() error

	Main *cli.Command
}

func newMainConfig() *MainConfig {
	return &MainConfig{Depth: spajson.DefaultMaxDepth, LogLevel: "warn", Logger: slog.New(slog.DiscardHandler)}
}

func (cfg *MainConfig) setupLogging(w io.Writer) error {
	level, err := logs.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	logger, closeLog, err := logs.New(logs.Config{
		Writer:  w,
		Level:   level,
		File:    cfg.LogFile,
		Journal: cfg.Journal,
	})
	if err != nil {
		return err
	}
	cfg.Logger, cfg.CloseLog = logger, closeLog
	return nil
}

func (cfg *MainConfig) parseOpts() []spajson.Option {
	return []spajson.Option{spajson.MaxDepth(cfg.Depth), spajson.WithLogger(cfg.Logger)}
}

// printOpts adds colors when asked to, or when w is a terminal and the
// color option was not given at all.
func (cfg *MainConfig) printOpts(w io.Writer, opts ...spajson.Option) []spajson.Option {
	if cfg.Color {
		return append(opts, spajson.WithColors(spajson.NewColors()))
	}
	if cfg.Main != nil {
		for _, opt := range cfg.Main.Opts {
			if opt.Name == "color" && opt.Value != nil {
				return opts
			}
		}
	}
	f, ok := w.(*os.File)
	if !ok {
		return opts
	}
	if isatty.IsTerminal(f.Fd()) {
		return append(opts, spajson.WithColors(spajson.NewColors()))
	}
	return opts
}

type FmtConfig struct {
	*MainConfig

	Write      bool   `cli:"name=w desc='write result to the source file'"`
	Diff       bool   `cli:"name=d desc='print a diff instead of the result'"`
	List       bool   `cli:"name=l desc='list files whose formatting differs'"`
	Indent     int    `cli:"name=i desc='indent width, 0 prints on one line'"`
	Sep        string `cli:"name=sep desc='key separator: = or :'"`
	Bare       bool   `cli:"name=bare desc='omit the braces around a top-level object'"`
	QuoteKeys  bool   `cli:"name=qk desc='quote every key'"`
	BareValues bool   `cli:"name=bv desc='leave string values unquoted where possible'"`
	Commas     bool   `cli:"name=commas desc='separate items with commas'"`

	Fmt *cli.Command
}

func (cfg *FmtConfig) formatOpts() ([]spajson.Option, error) {
	opts := []spajson.Option{
		spajson.Indent(cfg.Indent),
		spajson.TopLevelBraces(!cfg.Bare),
	}
	switch cfg.Sep {
	case "", "=":
	case ":":
		opts = append(opts, spajson.Separator(':'))
	default:
		return nil, fmt.Errorf("%w: invalid separator %q", cli.ErrUsage, cfg.Sep)
	}
	if cfg.QuoteKeys {
		opts = append(opts, spajson.QuoteKeys(spajson.QuoteAlways))
	}
	if cfg.BareValues {
		opts = append(opts, spajson.QuoteValues(spajson.QuoteWhenNeeded))
	}
	if cfg.Commas {
		opts = append(opts, spajson.Commas())
	}
	if _, err := spajson.NewPrinter(opts...); err != nil {
		return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	return opts, nil
}

type CheckConfig struct {
	*MainConfig

	Quiet bool `cli:"name=q desc='only set the exit status'"`

	Check *cli.Command
}

// Format names a document encoding handled by conv.
type Format string

const (
	SPAFormat  Format = "spa"
	JSONFormat Format = "json"
	YAMLFormat Format = "yaml"
)

// ParseFormat accepts a format name or its first letter.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "spa", "s", "spa-json", "conf":
		return SPAFormat, nil
	case "json", "j":
		return JSONFormat, nil
	case "yaml", "y", "yml":
		return YAMLFormat, nil
	}
	return "", fmt.Errorf("unknown format %q", s)
}

type ConvConfig struct {
	*MainConfig

	InFormat, OutFormat Format

	Conv *cli.Command
}

func (cfg *ConvConfig) fmtFunc(fp *Format) cli.FuncOpt {
	return cli.FuncOpt(func(_ *cli.Context, v string) (any, error) {
		f, err := ParseFormat(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
		*fp = f
		return f, nil
	})
}

type EvalConfig struct {
	*MainConfig

	Raw bool `cli:"name=r desc='print string results without quotes'"`

	Eval *cli.Command
}
