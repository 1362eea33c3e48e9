package autoload

import (
	"fmt"

	"github.com/stackb/starlark-autoload/pkg/binding"
)

// UnloadAll removes every name the loader bound, most recent first, and
// every autoload it set. Files executed through load() will execute again
// after the next Setup. Calling it again has no effect.
func (l *Loader) UnloadAll() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch l.state {
	case stateUnset:
		return binding.ErrNotSetUp
	case stateUnloaded:
		return nil
	}

	pending := l.registry.UnregisterAllUnder("")
	ledger, _, attempted := l.registry.Drain()
	for i := len(ledger) - 1; i >= 0; i-- {
		rec := ledger[i]
		rec.Parent.Delete(rec.Const())
		l.logf("%s unloaded", rec.Name)
	}
	for _, b := range append(pending, attempted...) {
		b.Parent.RemoveAutoload(b.Const())
		l.logf("autoload for %s removed", b.Name)
	}

	l.modules = make(map[string]*flight)
	l.scanner = nil
	l.state = stateUnloaded
	return nil
}

// Reload unloads everything and sets the loader up again.
func (l *Loader) Reload() error {
	if err := l.UnloadAll(); err != nil {
		return fmt.Errorf("reload: %w", err)
	}
	return l.Setup()
}

// Reregister makes a name whose load failed loadable again.
func (l *Loader) Reregister(name string) error {
	b, ok := l.registry.Reregister(name)
	if !ok {
		if _, loaded := l.registry.Record(name); loaded {
			return fmt.Errorf("%s is already loaded", name)
		}
		return &binding.OrphanReferenceError{Name: name}
	}
	if !b.Parent.Autoload(b.Const()) {
		if err := b.Parent.SetAutoload(b.Const(), l.hook); err != nil {
			l.registry.Consume(name)
			return err
		}
	}
	l.logAutoload(b)
	return nil
}
