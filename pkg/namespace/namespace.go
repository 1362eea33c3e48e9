// Package namespace provides the Starlark value that holds autoloaded
// symbols, together with the hook capability the autoloader needs: a name
// may be bound either to a value or to a Hook that is invoked the first time
// the name is looked up.
package namespace

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.starlark.net/starlark"
)

// Separator joins the segments of a fully-qualified name.
const Separator = "::"

// Hook is called when a name that has no value but has an autoload is looked
// up. The token is whatever the caller passed to AttrWith (nil for plain
// Attr calls); hooks use it to tie nested lookups to the same logical load.
type Hook func(ns *Namespace, name string, token any) (starlark.Value, error)

// Namespace is a named, mutable container of symbols. Starlark code can read
// it but not assign to it; only the host mutates it.
type Namespace struct {
	mu        sync.RWMutex
	name      string
	members   starlark.StringDict
	autoloads map[string]Hook
}

var _ starlark.HasAttrs = (*Namespace)(nil)

// New creates an empty namespace. An empty name denotes a top-level
// namespace whose children have unqualified names.
func New(name string) *Namespace {
	return &Namespace{
		name:      name,
		members:   make(starlark.StringDict),
		autoloads: make(map[string]Hook),
	}
}

// Name returns the fully-qualified name of the namespace.
func (ns *Namespace) Name() string {
	ns.mu.RLock()
	defer ns.mu.RUnlock()
	return ns.name
}

// SetName names a namespace that was created without one (for example by
// the namespace() builtin). It reports false if the namespace already has a
// different name.
func (ns *Namespace) SetName(name string) bool {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	if ns.name != "" && ns.name != name {
		return false
	}
	ns.name = name
	return true
}

// Qualify returns the fully-qualified name of child within ns.
func (ns *Namespace) Qualify(child string) string {
	return Qualify(ns.Name(), child)
}

// Qualify joins parent and child with the separator; an empty parent yields
// child unchanged.
func Qualify(parent, child string) string {
	if parent == "" {
		return child
	}
	return parent + Separator + child
}

// Split returns the parent portion and the last segment of a
// fully-qualified name.
func Split(name string) (parent, child string) {
	if i := strings.LastIndex(name, Separator); i >= 0 {
		return name[:i], name[i+len(Separator):]
	}
	return "", name
}

// String implements starlark.Value.
func (ns *Namespace) String() string {
	if name := ns.Name(); name != "" {
		return "<namespace " + name + ">"
	}
	return "<namespace>"
}

// Type implements starlark.Value.
func (ns *Namespace) Type() string { return "namespace" }

// Freeze implements starlark.Value. It is a no-op: members come from
// executed modules, which are already frozen, and the namespace stays open
// so its loader can keep binding names into it.
func (ns *Namespace) Freeze() {}

// Truth implements starlark.Value.
func (ns *Namespace) Truth() starlark.Bool { return starlark.True }

// Hash implements starlark.Value.
func (ns *Namespace) Hash() (uint32, error) {
	return 0, fmt.Errorf("unhashable type: namespace")
}

// Attr implements starlark.HasAttrs.
func (ns *Namespace) Attr(name string) (starlark.Value, error) {
	return ns.AttrWith(name, nil)
}

// AttrWith looks name up, running its autoload hook with token if the name
// is not yet bound. It returns (nil, nil) for unknown names.
func (ns *Namespace) AttrWith(name string, token any) (starlark.Value, error) {
	ns.mu.RLock()
	value, ok := ns.members[name]
	hook := ns.autoloads[name]
	ns.mu.RUnlock()

	if ok {
		return value, nil
	}
	if hook != nil {
		return hook(ns, name, token)
	}
	return nil, nil
}

// AttrNames implements starlark.HasAttrs. Both bound names and names with a
// pending autoload are listed.
func (ns *Namespace) AttrNames() []string {
	ns.mu.RLock()
	defer ns.mu.RUnlock()
	names := make([]string, 0, len(ns.members)+len(ns.autoloads))
	for name := range ns.members {
		names = append(names, name)
	}
	for name := range ns.autoloads {
		if _, ok := ns.members[name]; !ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Get returns the bound value of name without triggering any autoload.
func (ns *Namespace) Get(name string) (starlark.Value, bool) {
	ns.mu.RLock()
	defer ns.mu.RUnlock()
	value, ok := ns.members[name]
	return value, ok
}

// Set binds name to value, replacing any autoload for it.
func (ns *Namespace) Set(name string, value starlark.Value) {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	ns.members[name] = value
	delete(ns.autoloads, name)
}

// Delete unbinds name. It reports whether a value was bound.
func (ns *Namespace) Delete(name string) bool {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	_, ok := ns.members[name]
	delete(ns.members, name)
	return ok
}

// SetAutoload installs a hook for name. It fails if name is already bound
// to a value.
func (ns *Namespace) SetAutoload(name string, hook Hook) error {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	if _, ok := ns.members[name]; ok {
		return fmt.Errorf("%s is already defined", Qualify(ns.name, name))
	}
	ns.autoloads[name] = hook
	return nil
}

// RemoveAutoload removes the hook for name, reporting whether there was one.
func (ns *Namespace) RemoveAutoload(name string) bool {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	_, ok := ns.autoloads[name]
	delete(ns.autoloads, name)
	return ok
}

// Autoload reports whether name has a pending hook.
func (ns *Namespace) Autoload(name string) bool {
	ns.mu.RLock()
	defer ns.mu.RUnlock()
	_, ok := ns.autoloads[name]
	return ok
}

// Members returns a copy of the bound values.
func (ns *Namespace) Members() starlark.StringDict {
	ns.mu.RLock()
	defer ns.mu.RUnlock()
	members := make(starlark.StringDict, len(ns.members))
	for k, v := range ns.members {
		members[k] = v
	}
	return members
}
