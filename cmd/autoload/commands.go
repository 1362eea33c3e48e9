package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/davecgh/go-spew/spew"
	"go.starlark.net/starlark"

	"github.com/stackb/starlark-autoload/pkg/collections"
	"github.com/stackb/starlark-autoload/pkg/progress"
	"github.com/stackb/starlark-autoload/pkg/starlarkeval"
)

var dumper = spew.ConfigState{
	Indent:                  "  ",
	MaxDepth:                2,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// EvalCmd evaluates an expression.
type EvalCmd struct {
	Expr string `arg:"" help:"Starlark expression, for example Admin.User.name."`
}

// Run executes the eval command.
func (c *EvalCmd) Run(g *Globals) error {
	l, err := g.setup()
	if err != nil {
		return err
	}
	value, err := l.Eval(c.Expr)
	if err != nil {
		return fmt.Errorf("%s", starlarkeval.EvalError(err))
	}
	fmt.Fprintln(g.out, starlarkeval.Format(value))
	return nil
}

// LsCmd lists names.
type LsCmd struct {
	Names []string `arg:"" optional:"" help:"Names to load before listing, for example Admin::User."`
}

// Run executes the ls command.
func (c *LsCmd) Run(g *Globals) error {
	l, err := g.setup()
	if err != nil {
		return err
	}
	for _, name := range c.Names {
		if _, err := l.Lookup(name); err != nil {
			return err
		}
	}
	for _, name := range l.Loaded() {
		rec, _ := l.Record(name)
		fmt.Fprintf(g.out, "loaded  %-5v %s %s\n", rec.Kind, rec.Name, rec.Path)
		if g.Debug {
			dumper.Fdump(g.out, rec)
		}
	}
	for _, name := range l.Pending() {
		fmt.Fprintf(g.out, "pending %s\n", name)
	}
	return nil
}

// TreeCmd prints names as a tree.
type TreeCmd struct {
	Names []string `arg:"" optional:"" help:"Names to load before printing."`
}

// Run executes the tree command.
func (c *TreeCmd) Run(g *Globals) error {
	l, err := g.setup()
	if err != nil {
		return err
	}
	for _, name := range c.Names {
		if _, err := l.Lookup(name); err != nil {
			return err
		}
	}

	tree := collections.NewTree("top")
	for _, name := range l.Loaded() {
		rec, _ := l.Record(name)
		tree.Add(strings.Split(name, "::")...).Label = fmt.Sprintf("(%v)", rec.Kind)
	}
	for _, name := range l.Pending() {
		tree.Add(strings.Split(name, "::")...).Label = "(pending)"
	}
	tree.Fprint(g.out)
	return nil
}

// SnapshotCmd prints the loader state.
type SnapshotCmd struct {
	Names []string `arg:"" optional:"" help:"Names to load before the snapshot."`
}

// Run executes the snapshot command.
func (c *SnapshotCmd) Run(g *Globals) error {
	l, err := g.setup()
	if err != nil {
		return err
	}
	for _, name := range c.Names {
		if _, err := l.Lookup(name); err != nil {
			return err
		}
	}
	data, err := l.SnapshotJSON()
	if err != nil {
		return err
	}
	fmt.Fprintln(g.out, string(data))
	return nil
}

// EagerCmd loads every name.
type EagerCmd struct {
	Progress bool `help:"Report progress." default:"true" negatable:""`
}

// Run executes the eager command.
func (c *EagerCmd) Run(g *Globals) error {
	l, err := g.newLoader()
	if err != nil {
		return err
	}

	var loaded int64
	if c.Progress {
		out := progress.NewProgressOutput(g.out)
		l.OnLoad("*", func(name string, _ starlark.Value, _ string) {
			loaded++
			progress.Update(out, "eager", "loading", loaded, loaded+int64(len(l.Pending())), "names")
		})
		defer func() {
			progress.Done(out, "eager", "loaded", loaded, "names")
		}()
	}

	t1 := time.Now()
	if err := l.Setup(); err != nil {
		return err
	}
	if err := l.EagerLoad(); err != nil {
		return err
	}
	g.logger.Info().Msgf("eager loaded %d names in %v", len(l.Loaded()), time.Since(t1))

	if g.Debug {
		for _, name := range l.Loaded() {
			rec, _ := l.Record(name)
			dumper.Fdump(g.out, rec)
		}
	}
	return nil
}
