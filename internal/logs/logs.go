// Package logs builds the slog logger used by the spajson command.
package logs

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	slogmulti "github.com/samber/slog-multi"
	slogjournal "github.com/systemd/slog-journal"
)

// Config selects where log records go.
type Config struct {
	// Writer receives human readable text records. Nil disables them.
	Writer io.Writer
	// Level is the minimum level of the text and file handlers.
	Level slog.Leveler
	// File, when set, is appended to with one JSON record per line.
	File string
	// Journal also sends records to the systemd journal.
	Journal bool
}

// ParseLevel maps debug, info, warn and error to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return l, nil
}

// New returns a logger fanning records out to every configured handler and
// a function closing the log file, if any.
func New(cfg Config) (*slog.Logger, func() error, error) {
	level := cfg.Level
	if level == nil {
		level = slog.LevelWarn
	}
	closer := func() error { return nil }

	var handlers []slog.Handler
	var terminal slog.Handler
	if cfg.Writer != nil {
		terminal = slog.NewTextHandler(cfg.Writer, &slog.HandlerOptions{Level: level})
		handlers = append(handlers, terminal)
	}

	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("could not open log file: %w", err)
		}
		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level}))
		closer = f.Close
	}

	if cfg.Journal {
		journal, err := slogjournal.NewHandler(&slogjournal.Options{
			ReplaceGroup: toJournalKey,
			ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
				a.Key = toJournalKey(a.Key)
				return a
			},
		})
		switch {
		case err == nil:
			handlers = append(handlers, journal)
		case terminal != nil:
			record := slog.NewRecord(time.Now(), slog.LevelWarn, "new systemd journal handler", 0)
			record.Add("error", err)
			_ = terminal.Handle(context.Background(), record)
		}
	}

	return slog.New(slogmulti.Fanout(handlers...)), closer, nil
}

// toJournalKey turns an attribute key into a valid journal field name.
func toJournalKey(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			return r
		}
		return '_'
	}, strings.ToUpper(s))
}
