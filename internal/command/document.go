// Copyright 2021 The indextank Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package command

import (
	"context"

	"github.com/gogama/indextank"
)

// AddCommand indexes a document.
type AddCommand struct {
	*Command

	fields     stringMapFlag
	variables  variableFlag
	categories stringMapFlag
}

func (c *AddCommand) Synopsis() string {
	return "Add or replace a document"
}

func (c *AddCommand) Help() string {
	return `Usage: indextank add -docid <id> -field <name=value>... [options]

  Indexes the document, replacing any previous version with the same docid.` + c.Flags().Help()
}

func (c *AddCommand) Flags() *FlagSet {
	c.fields = stringMapFlag{}
	c.variables = variableFlag{}
	c.categories = stringMapFlag{}
	f := c.NewFlagSet("add")
	f.Var(c.fields, "field", "Document field as name=value (repeatable)")
	f.Var(c.variables, "variable", "Scoring variable as index=value (repeatable)")
	f.Var(c.categories, "category", "Category as name=value (repeatable)")
	return f
}

func (c *AddCommand) Run(args []string) int {
	if !c.parse(c.Flags(), args) {
		return 1
	}
	opts := &indextank.AddOptions{}
	if len(c.variables) > 0 {
		opts.Variables = c.variables
	}
	if len(c.categories) > 0 {
		opts.Categories = c.categories
	}
	return c.run(func(ctx context.Context, d *indextank.Document) (int, error) {
		return d.Add(ctx, c.fields, opts)
	})
}

// DeleteCommand removes a document.
type DeleteCommand struct {
	*Command
}

func (c *DeleteCommand) Synopsis() string {
	return "Delete a document"
}

func (c *DeleteCommand) Help() string {
	return `Usage: indextank delete -docid <id> [options]

  Removes the document from the index.` + c.Flags().Help()
}

func (c *DeleteCommand) Flags() *FlagSet {
	return c.NewFlagSet("delete")
}

func (c *DeleteCommand) Run(args []string) int {
	if !c.parse(c.Flags(), args) {
		return 1
	}
	return c.run(func(ctx context.Context, d *indextank.Document) (int, error) {
		return d.Delete(ctx)
	})
}

// UpdateVariablesCommand changes the scoring variables of a document.
type UpdateVariablesCommand struct {
	*Command

	variables variableFlag
}

func (c *UpdateVariablesCommand) Synopsis() string {
	return "Update the scoring variables of a document"
}

func (c *UpdateVariablesCommand) Help() string {
	return `Usage: indextank update-variables -docid <id> -variable <index=value>... [options]

  Replaces the given scoring variables without reindexing the document.` + c.Flags().Help()
}

func (c *UpdateVariablesCommand) Flags() *FlagSet {
	c.variables = variableFlag{}
	f := c.NewFlagSet("update-variables")
	f.Var(c.variables, "variable", "Scoring variable as index=value (repeatable)")
	return f
}

func (c *UpdateVariablesCommand) Run(args []string) int {
	if !c.parse(c.Flags(), args) {
		return 1
	}
	if len(c.variables) == 0 {
		c.UI.Error("at least one -variable is required")
		return 1
	}
	return c.run(func(ctx context.Context, d *indextank.Document) (int, error) {
		return d.UpdateVariables(ctx, c.variables)
	})
}

// UpdateCategoriesCommand changes the categories of a document.
type UpdateCategoriesCommand struct {
	*Command

	categories stringMapFlag
}

func (c *UpdateCategoriesCommand) Synopsis() string {
	return "Update the categories of a document"
}

func (c *UpdateCategoriesCommand) Help() string {
	return `Usage: indextank update-categories -docid <id> -category <name=value>... [options]

  Replaces the given categories without reindexing the document.` + c.Flags().Help()
}

func (c *UpdateCategoriesCommand) Flags() *FlagSet {
	c.categories = stringMapFlag{}
	f := c.NewFlagSet("update-categories")
	f.Var(c.categories, "category", "Category as name=value (repeatable)")
	return f
}

func (c *UpdateCategoriesCommand) Run(args []string) int {
	if !c.parse(c.Flags(), args) {
		return 1
	}
	if len(c.categories) == 0 {
		c.UI.Error("at least one -category is required")
		return 1
	}
	return c.run(func(ctx context.Context, d *indextank.Document) (int, error) {
		return d.UpdateCategories(ctx, c.categories)
	})
}
