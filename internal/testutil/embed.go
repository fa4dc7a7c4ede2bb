// Package testutil ships sample PipeWire configuration files for tests.
package testutil

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
)

// TestdataFS holds the embedded test data files.
//
//go:embed testdata
var TestdataFS embed.FS

// ReadTestData reads and returns the content of an embedded test file.
func ReadTestData(name string) ([]byte, error) {
	data, err := fs.ReadFile(TestdataFS, path.Join("testdata", name))
	if err != nil {
		return nil, fmt.Errorf("failed to read test data file '%s': %w", name, err)
	}
	return data, nil
}

// Names lists the embedded sample files whose name matches pattern.
func Names(pattern string) ([]string, error) {
	matches, err := fs.Glob(TestdataFS, path.Join("testdata", pattern))
	if err != nil {
		return nil, err
	}
	for i, m := range matches {
		matches[i] = path.Base(m)
	}
	return matches, nil
}
