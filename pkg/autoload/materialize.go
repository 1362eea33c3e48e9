package autoload

import (
	"fmt"
	"path/filepath"

	"go.starlark.net/starlark"

	"github.com/stackb/starlark-autoload/pkg/binding"
	"github.com/stackb/starlark-autoload/pkg/namespace"
)

// thread locals of the files executed by a loader
const (
	checkerKey = "autoload.checker"
	fileKey    = "autoload.file"
)

// hook is the namespace.Hook installed for every pending binding.
func (l *Loader) hook(ns *namespace.Namespace, name string, token any) (starlark.Value, error) {
	var cc *cycleChecker
	switch t := token.(type) {
	case *execution:
		cc = t.checker()
	case *cycleChecker:
		cc = t
	}
	return l.materialize(ns.Qualify(name), cc)
}

// materialize returns the value of the named binding, loading it if needed.
// Concurrent callers wait for a single load.
func (l *Loader) materialize(name string, cc *cycleChecker) (starlark.Value, error) {
	cc = cc.live()

	l.mu.Lock()
	if f, ok := l.calls[name]; ok {
		l.mu.Unlock()
		if err := cc.wait(f, name); err != nil {
			return nil, err
		}
		return f.value, f.err
	}
	b, ok := l.registry.Consume(name)
	if !ok {
		l.mu.Unlock()
		if rec, ok := l.registry.Record(name); ok {
			return rec.Value, nil
		}
		return nil, &binding.OrphanReferenceError{Name: name, Attempted: l.registry.Attempted(name)}
	}
	f := newFlight(cc)
	l.calls[name] = f
	l.mu.Unlock()

	cc.push(name)
	f.value, f.err = l.realize(b, cc)
	cc.pop()

	l.mu.Lock()
	delete(l.calls, name)
	l.mu.Unlock()
	f.finish()

	if f.err == nil {
		l.runCallbacks(name, f.value, b.Path)
	}
	return f.value, f.err
}

// realize materializes a consumed binding. A binding that fails is kept as
// attempted and its name stays unbound.
func (l *Loader) realize(b *binding.Binding, cc *cycleChecker) (starlark.Value, error) {
	var value starlark.Value
	var err error
	switch b.Kind {
	case binding.FileLoad:
		value, err = l.loadFile(b, cc)
	case binding.DirAutovivify:
		value, err = l.autovivify(b)
	default:
		err = fmt.Errorf("%s: unknown binding kind %v", b.Name, b.Kind)
	}
	if err != nil {
		l.registry.Attempt(b)
		return nil, err
	}
	return value, nil
}

func (l *Loader) loadFile(b *binding.Binding, cc *cycleChecker) (starlark.Value, error) {
	globals, err := l.exec(b.Path, cc)
	if err != nil {
		return nil, err
	}

	value, ok := globals[b.Const()]
	if !ok {
		return nil, &binding.ExpectedSymbolMissingError{Name: b.Name, Path: b.Path}
	}
	value = namespace.Unwrap(value)

	var hooks []*binding.Binding
	if b.Dir != "" {
		ns, ok := value.(*namespace.Namespace)
		if !ok {
			return nil, &binding.ExpectedSymbolMissingError{
				Name:   b.Name,
				Path:   b.Path,
				Reason: fmt.Sprintf("%s is a %s, want a namespace for directory %s", b.Const(), value.Type(), b.Dir),
			}
		}
		if !ns.SetName(b.Name) {
			return nil, &binding.ExpectedSymbolMissingError{
				Name:   b.Name,
				Path:   b.Path,
				Reason: fmt.Sprintf("%s is already defined as %s", b.Const(), ns.Name()),
			}
		}
		if hooks, err = l.scanInto(b.Dir, ns); err != nil {
			return nil, err
		}
	}

	if err := l.registry.Realize(binding.NewRecord(b, value, globals)); err != nil {
		l.unregister(hooks)
		return nil, err
	}
	l.logf("constant %s loaded from file %s", b.Name, b.Path)
	l.install(hooks)
	b.Parent.Set(b.Const(), value)
	return value, nil
}

// exec executes the file at path as part of the load chain cc.
func (l *Loader) exec(path string, cc *cycleChecker) (starlark.StringDict, error) {
	x := &execution{cc: cc}
	defer x.done.Store(true)
	return l.interp.ExecFile(path, l.load, map[string]interface{}{
		checkerKey: x,
		fileKey:    path,
	})
}

func (l *Loader) autovivify(b *binding.Binding) (starlark.Value, error) {
	ns := namespace.New(b.Name)
	hooks, err := l.scanInto(b.Path, ns)
	if err != nil {
		return nil, err
	}
	if err := l.registry.Realize(binding.NewRecord(b, ns, nil)); err != nil {
		l.unregister(hooks)
		return nil, err
	}
	l.logf("namespace %s autovivified from directory %s", b.Name, b.Path)
	l.install(hooks)
	b.Parent.Set(b.Const(), ns)
	return ns, nil
}

// scanInto registers the entries of dir as children of ns. The hooks are
// installed by the caller, before ns becomes reachable.
func (l *Loader) scanInto(dir string, ns *namespace.Namespace) ([]*binding.Binding, error) {
	children, err := l.scanner.ScanLevel(dir, ns)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", filepath.Clean(dir), err)
	}
	return l.define(children)
}
