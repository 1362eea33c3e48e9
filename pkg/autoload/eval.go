package autoload

import (
	"go.starlark.net/starlark"

	"github.com/stackb/starlark-autoload/pkg/binding"
	"github.com/stackb/starlark-autoload/pkg/starlarkeval"
)

// Eval evaluates a Starlark expression in which the names of the root
// namespaces can be used. Only the names the expression mentions are
// loaded.
func (l *Loader) Eval(expr string) (starlark.Value, error) {
	if !l.isSetUp() {
		return nil, binding.ErrNotSetUp
	}
	free, err := starlarkeval.FreeNames(expr)
	if err != nil {
		return nil, err
	}

	env := make(starlark.StringDict)
	for _, name := range free {
		if !l.defines(name) {
			continue
		}
		value, err := l.Lookup(name)
		if err != nil {
			return nil, err
		}
		env[name] = value
	}
	return l.interp.Eval(expr, env, l.load)
}

// defines reports whether name is a top-level name known to the loader.
func (l *Loader) defines(name string) bool {
	for _, ns := range l.searchOrder() {
		if ns.Name() == "" {
			if _, ok := ns.Get(name); ok || ns.Autoload(name) {
				return true
			}
		} else if ns.Name() == name {
			return true
		}
	}
	return false
}
