package starlarkeval

import (
	"fmt"
	"os"
	"sort"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Reporter is implemented by *testing.T.
type Reporter func(format string, args ...interface{})

// LoadFunc resolves the load() statements of an executing file.
type LoadFunc func(thread *starlark.Thread, module string) (starlark.StringDict, error)

// FileOptions is the dialect source files are executed with.
var FileOptions = &syntax.FileOptions{
	Set:             true,
	While:           true,
	TopLevelControl: true,
}

// Interpreter executes source files, each on its own thread, against a
// shared set of predeclared names.
type Interpreter struct {
	// Global state
	predeclared starlark.StringDict
	// reporter receives print() output
	reporter Reporter
}

func NewInterpreter(reporter Reporter, predeclared starlark.StringDict) *Interpreter {
	if predeclared == nil {
		predeclared = starlark.StringDict{}
	}
	return &Interpreter{
		reporter:    reporter,
		predeclared: predeclared,
	}
}

func (i *Interpreter) newThread(name string, load LoadFunc, locals map[string]interface{}) *starlark.Thread {
	thread := &starlark.Thread{
		Name: name,
		Print: func(_ *starlark.Thread, msg string) {
			if i.reporter != nil {
				i.reporter("%s", msg)
			}
		},
		Load: load,
	}
	for k, v := range locals {
		thread.SetLocal(k, v)
	}
	return thread
}

// ExecFile reads and executes filename. The thread's load() statements are
// resolved by load, and locals are attached to the thread. The returned
// globals are frozen. Evaluation errors are returned unmodified.
func (i *Interpreter) ExecFile(filename string, load LoadFunc, locals map[string]interface{}) (starlark.StringDict, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	thread := i.newThread("exec "+filename, load, locals)
	return starlark.ExecFileOptions(FileOptions, thread, filename, data, i.predeclared)
}

// Eval evaluates a single expression in env, which is layered over the
// predeclared names.
func (i *Interpreter) Eval(expr string, env starlark.StringDict, load LoadFunc) (starlark.Value, error) {
	merged := make(starlark.StringDict, len(i.predeclared)+len(env))
	for k, v := range i.predeclared {
		merged[k] = v
	}
	for k, v := range env {
		merged[k] = v
	}
	thread := i.newThread("eval", load, nil)
	return starlark.EvalOptions(FileOptions, thread, "<expr>", expr, merged)
}

// FreeNames returns the sorted identifiers referenced by expr, so that a
// caller can bind only the names that are actually used.
func FreeNames(expr string) ([]string, error) {
	e, err := FileOptions.ParseExpr("<expr>", expr, 0)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var visit func(n syntax.Node) bool
	visit = func(n syntax.Node) bool {
		switch t := n.(type) {
		case *syntax.Ident:
			seen[t.Name] = true
		case *syntax.DotExpr:
			// the selected field is not a name
			syntax.Walk(t.X, visit)
			return false
		}
		return true
	}
	syntax.Walk(e, visit)
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// EvalError extracts the backtrace of a Starlark evaluation error, or
// returns the plain message.
func EvalError(err error) string {
	if evalErr, ok := err.(*starlark.EvalError); ok {
		return evalErr.Backtrace()
	}
	return fmt.Sprint(err)
}
