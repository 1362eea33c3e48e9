package autoload

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.starlark.net/starlark"

	"github.com/stackb/starlark-autoload/pkg/binding"
	"github.com/stackb/starlark-autoload/pkg/inflect"
	"github.com/stackb/starlark-autoload/pkg/namespace"
)

// load implements load() for the files executed by the loader. A module
// ending in ".star" is a path, relative to the loading file or else to a
// root; anything else is a name such as "Admin::User". Paths that belong to
// a root load the name they define. Other files are executed once per setup.
func (l *Loader) load(thread *starlark.Thread, module string) (starlark.StringDict, error) {
	x, _ := thread.Local(checkerKey).(*execution)
	cc := x.checker()
	from, _ := thread.Local(fileKey).(string)

	var exports starlark.StringDict
	var err error
	if strings.HasSuffix(module, ".star") {
		var path string
		if path, err = l.resolvePath(from, module); err == nil {
			exports, err = l.requirePath(path, cc)
		}
	} else {
		exports, err = l.requireName(module, cc)
	}
	if err != nil {
		return nil, err
	}

	viewed := make(starlark.StringDict, len(exports))
	for k, v := range exports {
		viewed[k] = namespace.NewView(v, x)
	}
	return viewed, nil
}

func (l *Loader) resolvePath(from, module string) (string, error) {
	if filepath.IsAbs(module) {
		return filepath.Clean(module), nil
	}
	var candidates []string
	if from != "" {
		candidates = append(candidates, filepath.Join(filepath.Dir(from), module))
	}
	for _, root := range l.Roots() {
		candidates = append(candidates, filepath.Join(root.Dir, module))
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("cannot load %s: file not found", module)
}

// Require loads the file at path. It returns the globals of the file; for a
// file that belongs to a root this is the same as referencing the name it
// defines.
func (l *Loader) Require(path string) (starlark.StringDict, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if !l.isSetUp() {
		return nil, binding.ErrNotSetUp
	}
	return l.requirePath(abs, nil)
}

func (l *Loader) requirePath(path string, cc *cycleChecker) (starlark.StringDict, error) {
	if name, ok := l.nameForPath(path); ok {
		return l.requireName(name, cc)
	}
	return l.execUnmanaged(path, cc)
}

// requireName resolves name and returns what a load of its file exports:
// the globals of the file along with the name itself.
func (l *Loader) requireName(name string, cc *cycleChecker) (starlark.StringDict, error) {
	cc = cc.live()
	value, err := l.lookup(name, cc)
	if err != nil {
		return nil, err
	}
	_, child := namespace.Split(name)

	exports := starlark.StringDict{}
	if rec, ok := l.registry.Record(name); ok {
		for k, v := range rec.Globals {
			exports[k] = v
		}
	}
	exports[child] = value
	return exports, nil
}

// Lookup resolves a name such as "Admin::User", loading every segment of it
// that is not loaded yet.
func (l *Loader) Lookup(name string) (starlark.Value, error) {
	return l.lookup(name, nil)
}

func (l *Loader) lookup(name string, cc *cycleChecker) (starlark.Value, error) {
	if !l.isSetUp() {
		return nil, binding.ErrNotSetUp
	}

	var firstErr error
	for _, ns := range l.searchOrder() {
		path := name
		if prefix := ns.Name(); prefix != "" {
			if name == prefix {
				return ns, nil
			}
			if !strings.HasPrefix(name, prefix+namespace.Separator) {
				continue
			}
			path = strings.TrimPrefix(name, prefix+namespace.Separator)
		}
		value, err := namespace.Lookup(ns, path, cc.live())
		if err == nil {
			return namespace.Unwrap(value), nil
		}
		if _, ok := err.(*namespace.NotFoundError); !ok {
			return nil, err
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	if firstErr == nil {
		firstErr = &namespace.NotFoundError{Name: name}
	}
	return nil, firstErr
}

// searchOrder returns the distinct root namespaces, the top namespace
// first.
func (l *Loader) searchOrder() []*namespace.Namespace {
	order := []*namespace.Namespace{l.top}
	seen := map[*namespace.Namespace]bool{l.top: true}
	for _, root := range l.Roots() {
		if !seen[root.Namespace] {
			seen[root.Namespace] = true
			order = append(order, root.Namespace)
		}
	}
	return order
}

// nameForPath returns the name that the file at path defines, if the file
// belongs to a root and is not ignored.
func (l *Loader) nameForPath(path string) (string, bool) {
	if name, ok := l.registry.ByPath(path); ok {
		return name, true
	}
	l.mu.Lock()
	scanner := l.scanner
	l.mu.Unlock()
	if scanner == nil {
		return "", false
	}

	for _, root := range l.Roots() {
		rel, err := filepath.Rel(root.Dir, path)
		if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
			continue
		}
		segments := strings.Split(rel, string(filepath.Separator))
		name := root.Namespace.Name()
		current := root.Dir
		ok := true
		for i, segment := range segments {
			current = filepath.Join(current, segment)
			if strings.HasPrefix(segment, ".") || scanner.Ignore.Match(current) {
				ok = false
				break
			}
			last := i == len(segments)-1
			if !last && scanner.Collapse.Match(current) {
				continue
			}
			child, err := inflect.NameFor(scanner.Inflector, current)
			if err != nil {
				ok = false
				break
			}
			name = namespace.Qualify(name, child)
		}
		if ok {
			return name, true
		}
	}
	return "", false
}

// execUnmanaged executes a file that does not belong to a root, once.
func (l *Loader) execUnmanaged(path string, cc *cycleChecker) (starlark.StringDict, error) {
	cc = cc.live()

	l.mu.Lock()
	if f, ok := l.modules[path]; ok {
		l.mu.Unlock()
		if err := cc.wait(f, path); err != nil {
			return nil, err
		}
		return f.globals, f.err
	}
	f := newFlight(cc)
	l.modules[path] = f
	l.mu.Unlock()

	cc.push(path)
	f.globals, f.err = l.exec(path, cc)
	cc.pop()
	f.finish()
	return f.globals, f.err
}
