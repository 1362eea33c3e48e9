package autoload

import (
	"fmt"
	"path/filepath"

	"github.com/stackb/starlark-autoload/pkg/binding"
	"github.com/stackb/starlark-autoload/pkg/namespace"
	"github.com/stackb/starlark-autoload/pkg/scan"
)

// Setup scans the top level of every root and installs an autoload for each
// name found. Nothing is registered if any root fails to scan. Preloads and,
// with WithEagerLoad, every name are loaded once the autoloads are set.
func (l *Loader) Setup() error {
	if err := l.setup(); err != nil {
		return err
	}
	for _, path := range l.preloads {
		if err := l.Preload(path); err != nil {
			return err
		}
	}
	if l.eager {
		return l.EagerLoad()
	}
	return nil
}

func (l *Loader) setup() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state == stateSetUp {
		return binding.ErrAlreadySetUp
	}

	scanner, err := l.newScanner()
	if err != nil {
		return err
	}
	l.scanner = scanner

	var bindings []*binding.Binding
	for _, root := range l.roots {
		found, err := scanner.ScanLevel(root.Dir, root.Namespace)
		if err != nil {
			return err
		}
		bindings = append(bindings, found...)
	}

	hooks, err := l.define(bindings)
	if err != nil {
		l.registry.Drain()
		return err
	}
	l.install(hooks)
	l.state = stateSetUp
	return nil
}

// newScanner builds a scanner for the configured roots, resolving relative
// ignore and collapse patterns against each of them.
func (l *Loader) newScanner() (*scan.Scanner, error) {
	ignore, err := scan.NewPathSet(l.resolvePatterns(l.ignore)...)
	if err != nil {
		return nil, fmt.Errorf("ignore: %w", err)
	}
	collapse, err := scan.NewPathSet(l.resolvePatterns(l.collapse)...)
	if err != nil {
		return nil, fmt.Errorf("collapse: %w", err)
	}
	return &scan.Scanner{
		Inflector: l.inflector,
		Ignore:    ignore,
		Collapse:  collapse,
	}, nil
}

func (l *Loader) resolvePatterns(patterns []string) []string {
	var out []string
	for _, pattern := range patterns {
		if filepath.IsAbs(pattern) {
			out = append(out, pattern)
			continue
		}
		for _, root := range l.roots {
			out = append(out, filepath.Join(root.Dir, pattern))
		}
	}
	return out
}

// define registers bindings and returns the ones that need a hook. A name
// that is already bound in its parent is not registered: a directory whose
// name is bound to a namespace is scanned into it, anything else is skipped.
// On error the bindings registered so far are removed.
func (l *Loader) define(bindings []*binding.Binding) (hooks []*binding.Binding, err error) {
	var registered []*binding.Binding
	defer func() {
		if err != nil {
			l.unregister(registered)
		}
	}()

	for _, b := range bindings {
		existing, ok := b.Parent.Get(b.Const())
		if !ok {
			if err := l.registry.Register(b); err != nil {
				return nil, err
			}
			registered = append(registered, b)
			hooks = append(hooks, b)
			continue
		}

		ns, isNamespace := existing.(*namespace.Namespace)
		if b.Kind != binding.DirAutovivify || !isNamespace {
			l.logf("%s %s is ignored because %s is already defined", b.Kind, b.Path, b.Name)
			continue
		}
		children, err := l.scanner.ScanLevel(b.Path, ns)
		if err != nil {
			return nil, err
		}
		nested, err := l.define(children)
		if err != nil {
			return nil, err
		}
		registered = append(registered, nested...)
		hooks = append(hooks, nested...)
	}
	return hooks, nil
}

func (l *Loader) unregister(bindings []*binding.Binding) {
	for _, b := range bindings {
		l.registry.Consume(b.Name)
	}
}

// install sets the autoload hook of every binding.
func (l *Loader) install(bindings []*binding.Binding) {
	for _, b := range bindings {
		if err := b.Parent.SetAutoload(b.Const(), l.hook); err != nil {
			// the name was bound after it was registered
			l.logf("autoload for %s not set: %v", b.Name, err)
			l.registry.Consume(b.Name)
			continue
		}
		l.logAutoload(b)
	}
}

func (l *Loader) logAutoload(b *binding.Binding) {
	if b.Kind == binding.DirAutovivify {
		l.logf("autoload set for %s, to be autovivified from %s", b.Name, b.Path)
		return
	}
	l.logf("autoload set for %s, to be loaded from %s", b.Name, b.Path)
}

// Preload loads the file at path the way load() would.
func (l *Loader) Preload(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	l.logf("preloading %s", abs)
	if _, err := l.requirePath(abs, nil); err != nil {
		return fmt.Errorf("preloading %s: %w", abs, err)
	}
	return nil
}
