package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPrintOpts(t *testing.T) {
	cfg := newMainConfig()
	var buf bytes.Buffer
	require.Empty(t, cfg.printOpts(&buf), "buffers are never colored")

	cfg.Color = true
	require.Len(t, cfg.printOpts(&buf), 1)
}

func TestSetupLogging(t *testing.T) {
	cfg := newMainConfig()
	cfg.LogLevel = "debug"
	cfg.LogFile = filepath.Join(t.TempDir(), "spajson.log")

	var buf bytes.Buffer
	require.NoError(t, cfg.setupLogging(&buf))
	fcfg := &FmtConfig{MainConfig: cfg, Indent: 2}
	opts, err := fcfg.formatOpts()
	require.NoError(t, err)
	require.NoError(t, formatInput(fcfg, opts, &bytes.Buffer{}, input{name: "a.conf", data: []byte("a = 1")}))
	require.NoError(t, cfg.CloseLog())

	require.Contains(t, buf.String(), "msg=formatted file=a.conf changed=true")
	data, err := os.ReadFile(cfg.LogFile)
	require.NoError(t, err)
	require.Contains(t, string(data), `"file":"a.conf"`)

	cfg.LogLevel = "chatty"
	require.Error(t, cfg.setupLogging(&buf))
}
