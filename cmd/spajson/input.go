package main

import (
	"fmt"
	"io"
	"os"

	"github.com/scott-cotton/cli"
)

const stdinName = "<stdin>"

// input is one document read from a file or standard input.
type input struct {
	name string
	data []byte
}

// readInputs reads every named file, or standard input when there are none.
// The name "-" also stands for standard input.
func readInputs(cc *cli.Context, files []string) ([]input, error) {
	if len(files) == 0 {
		files = []string{"-"}
	}
	res := make([]input, 0, len(files))
	for _, file := range files {
		var (
			data []byte
			err  error
		)
		if file == "-" {
			file = stdinName
			data, err = io.ReadAll(cc.In)
		} else {
			data, err = os.ReadFile(file)
		}
		if err != nil {
			return nil, fmt.Errorf("could not read %q: %w", file, err)
		}
		res = append(res, input{name: file, data: data})
	}
	return res, nil
}
