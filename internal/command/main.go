// Copyright 2021 The indextank Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package command implements the indextank command line interface.
package command

import (
	"bufio"
	"os"

	"github.com/mitchellh/cli"
)

// Version is the version reported by "indextank -version".
var Version = "0.1.0"

// Commands returns the subcommands, all sharing base.
func Commands(base *Command) map[string]cli.CommandFactory {
	return map[string]cli.CommandFactory{
		"add": func() (cli.Command, error) {
			return &AddCommand{Command: base}, nil
		},
		"delete": func() (cli.Command, error) {
			return &DeleteCommand{Command: base}, nil
		},
		"update-variables": func() (cli.Command, error) {
			return &UpdateVariablesCommand{Command: base}, nil
		},
		"update-categories": func() (cli.Command, error) {
			return &UpdateCategoriesCommand{Command: base}, nil
		},
	}
}

// Main runs the CLI with the given arguments and returns the exit code.
func Main(args []string) int {
	return run(args, &cli.BasicUi{
		Reader:      bufio.NewReader(os.Stdin),
		Writer:      os.Stdout,
		ErrorWriter: os.Stderr,
	})
}

func run(args []string, ui cli.Ui) int {
	cliName := args[0]

	c := &cli.CLI{
		Name:       cliName,
		Args:       args[1:],
		Version:    Version,
		Commands:   Commands(&Command{UI: ui}),
		HelpWriter: uiWriter{ui},
	}

	exitCode, err := c.Run()
	if err != nil {
		ui.Error(err.Error())
		return 1
	}

	return exitCode
}

// uiWriter sends the CLI's help output through the UI.
type uiWriter struct {
	ui cli.Ui
}

func (w uiWriter) Write(p []byte) (int, error) {
	w.ui.Output(string(p))
	return len(p), nil
}
