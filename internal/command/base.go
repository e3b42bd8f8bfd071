// Copyright 2021 The indextank Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package command

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/mitchellh/cli"

	"github.com/gogama/indextank"
	"github.com/gogama/indextank/config"
)

// Command holds what every subcommand shares: the UI, where logs go,
// and the flags selecting the document.
type Command struct {
	UI cli.Ui
	// LogOutput receives the client's log lines. Defaults to stderr.
	LogOutput io.Writer

	flagConfig string
	flagURL    string
	flagDocID  string
	flagAPIKey string
}

// FlagSet wraps flag.FlagSet so that flag errors are reported through
// the UI rather than printed.
type FlagSet struct {
	*flag.FlagSet
}

// NewFlagSet returns a FlagSet carrying the common document flags.
func (c *Command) NewFlagSet(name string) *FlagSet {
	f := flag.NewFlagSet(name, flag.ContinueOnError)
	f.SetOutput(io.Discard)
	f.StringVar(&c.flagConfig, "config", "", "Path to a YAML configuration file")
	f.StringVar(&c.flagURL, "url", "", "[INDEXTANK_URL] Document endpoint URL of the index")
	f.StringVar(&c.flagDocID, "docid", "", "Document identifier (at most 1024 bytes)")
	f.StringVar(&c.flagAPIKey, "api-key", "", "[INDEXTANK_API_KEY] API key")
	return &FlagSet{FlagSet: f}
}

// Help renders the flag defaults for inclusion in a command's help.
func (f *FlagSet) Help() string {
	var buf bytes.Buffer
	buf.WriteString("\n\nOptions:\n\n")
	f.SetOutput(&buf)
	f.PrintDefaults()
	f.SetOutput(io.Discard)
	return strings.TrimRight(buf.String(), "\n")
}

// parse parses args and reports any problem through the UI.
func (c *Command) parse(f *FlagSet, args []string) bool {
	if err := f.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return false
	}
	if f.NArg() > 0 {
		c.UI.Error(fmt.Sprintf("unexpected arguments: %s", strings.Join(f.Args(), " ")))
		return false
	}
	if c.flagDocID == "" {
		c.UI.Error("missing required flag: -docid")
		return false
	}
	return true
}

// document loads the configuration, letting flags override it, and
// returns the selected document.
func (c *Command) document() (*indextank.Document, error) {
	overrides := map[string]interface{}{}
	if c.flagURL != "" {
		overrides["url"] = c.flagURL
	}
	if c.flagAPIKey != "" {
		overrides["api_key"] = c.flagAPIKey
	}
	cfg, err := config.Load(c.flagConfig, overrides)
	if err != nil {
		return nil, err
	}

	out := c.LogOutput
	if out == nil {
		out = os.Stderr
	}
	cl, err := cfg.Client(cfg.Logger("indextank", out))
	if err != nil {
		return nil, err
	}
	return cfg.Document(cl, c.flagDocID)
}

// run executes op on the selected document, aborting it on interrupt,
// and reports the outcome.
func (c *Command) run(op func(ctx context.Context, d *indextank.Document) (int, error)) int {
	d, err := c.document()
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	status, err := op(ctx, d)
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	c.UI.Output(fmt.Sprintf("status %d", status))
	return 0
}
