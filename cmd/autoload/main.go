// autoload loads a tree of Starlark files on demand and inspects the
// result.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/alecthomas/kong"
	"github.com/pkg/profile"
	"github.com/rs/zerolog"

	"github.com/stackb/starlark-autoload/pkg/autoload"
	"github.com/stackb/starlark-autoload/pkg/config"
	"github.com/stackb/starlark-autoload/pkg/procutil"
)

// Globals are the flags shared by every command.
type Globals struct {
	Config   string   `help:"TOML or YAML config file." short:"c" type:"existingfile"`
	Root     []string `help:"Root directory bound in the top namespace (repeatable)." short:"r" type:"existingdir"`
	Ignore   []string `help:"Doublestar pattern of paths to ignore (repeatable)."`
	Collapse []string `help:"Doublestar pattern of directories to collapse (repeatable)."`
	Tag      string   `help:"Tag used in log lines."`
	Verbose  bool     `help:"Log every autoload event." short:"v"`
	Debug    bool     `help:"Dump loader records."`
	Profile  string   `help:"Write a profile of the given kind (cpu, mem, block, mutex, trace)."`

	EagerLoad bool `help:"Load every name during setup."`

	out    io.Writer
	logger zerolog.Logger
}

// CLI is the command line of autoload.
type CLI struct {
	Globals

	Eval     EvalCmd     `cmd:"" help:"Evaluate an expression over the root namespaces."`
	Ls       LsCmd       `cmd:"" help:"List pending and loaded names."`
	Tree     TreeCmd     `cmd:"" help:"Print pending and loaded names as a tree."`
	Snapshot SnapshotCmd `cmd:"" help:"Print the loader state as JSON."`
	Eager    EagerCmd    `cmd:"" help:"Load every name and report progress."`
}

var profiles = map[string]func(*profile.Profile){
	"cpu":   profile.CPUProfile,
	"mem":   profile.MemProfile,
	"block": profile.BlockProfile,
	"mutex": profile.MutexProfile,
	"trace": profile.TraceProfile,
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("autoload"),
		kong.Description("Load a tree of Starlark files on demand."),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true, Summary: true}),
	)

	cli.out = os.Stdout
	cli.logger = newLogger(os.Stderr, cli.Verbose)

	if mode, ok := profiles[cli.Profile]; ok {
		defer profile.Start(mode, profile.ProfilePath("."), profile.Quiet).Stop()
	}

	ctx.FatalIfErrorf(ctx.Run(&cli.Globals))
}

func newLogger(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// options merges the config file, the environment and the flags, in that
// order of precedence from lowest to highest.
func (g *Globals) options() ([]autoload.Option, error) {
	var options []autoload.Option

	path := g.Config
	if path == "" {
		path, _ = procutil.LookupEnv(procutil.AUTOLOAD_CONFIG)
	}
	if path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg.ApplyEnv()
		fromFile, err := cfg.Options()
		if err != nil {
			return nil, err
		}
		options = append(options, fromFile...)
	} else if len(g.Root) == 0 {
		return nil, fmt.Errorf("no roots: pass --root or --config")
	}

	for _, root := range g.Root {
		abs, err := filepath.Abs(root)
		if err != nil {
			return nil, err
		}
		options = append(options, autoload.WithRoot(abs))
	}
	if len(g.Ignore) > 0 {
		options = append(options, autoload.WithIgnore(g.Ignore...))
	}
	if len(g.Collapse) > 0 {
		options = append(options, autoload.WithCollapse(g.Collapse...))
	}
	if g.Tag != "" {
		options = append(options, autoload.WithTag(g.Tag))
	}
	if g.EagerLoad {
		options = append(options, autoload.WithEagerLoad(true))
	}
	options = append(options, autoload.WithLogger(g.logger))
	return options, nil
}

// newLoader builds the loader described by the flags. It is not set up.
func (g *Globals) newLoader() (*autoload.Loader, error) {
	options, err := g.options()
	if err != nil {
		return nil, err
	}
	return autoload.New(options...)
}

// setup builds and sets up the loader.
func (g *Globals) setup() (*autoload.Loader, error) {
	l, err := g.newLoader()
	if err != nil {
		return nil, err
	}
	t1 := time.Now()
	if err := l.Setup(); err != nil {
		return nil, err
	}
	g.logger.Debug().Msgf("setup %d roots in %v", len(l.Roots()), time.Since(t1))
	return l, nil
}
