package binding

import (
	"sort"
	"strings"
	"sync"

	"github.com/dghubble/trie"

	"github.com/stackb/starlark-autoload/pkg/namespace"
)

var namePathTrieConfig = &trie.PathTrieConfig{
	Segmenter: nameSegmenter,
}

// Registry tracks pending bindings and the records of realized ones. A name
// has at most one pending binding or one record, never both.
type Registry struct {
	mu sync.Mutex
	// pending bindings, keyed by fully-qualified name
	pending *trie.PathTrie
	// attempted bindings were consumed by a load that failed
	attempted map[string]*Binding
	// realized records by name, and in creation order
	realized map[string]*Record
	ledger   []*Record
	// paths maps source paths to the name they define
	paths map[string]string
}

// NewRegistry constructs a new empty Registry.
func NewRegistry() *Registry {
	r := &Registry{}
	r.reset()
	return r
}

func (r *Registry) reset() {
	r.pending = trie.NewPathTrieWithConfig(namePathTrieConfig)
	r.attempted = make(map[string]*Binding)
	r.realized = make(map[string]*Record)
	r.ledger = nil
	r.paths = make(map[string]string)
}

// Register adds a pending binding. Registering a binding identical to the
// one already pending, attempted or realized under the same name is a no-op;
// any other claim on the name is a *ConflictError.
func (r *Registry) Register(b *Binding) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing := r.get(b.Name); existing != nil {
		if existing.Same(b) {
			return nil
		}
		return conflict(b.Name, existing.Path, b.Path)
	}
	if existing, ok := r.attempted[b.Name]; ok {
		if existing.Same(b) {
			return nil
		}
		return conflict(b.Name, existing.Path, b.Path)
	}
	if rec, ok := r.realized[b.Name]; ok {
		if rec.Kind == b.Kind && rec.Path == b.Path && rec.Parent == b.Parent {
			return nil
		}
		return conflict(b.Name, rec.Path, b.Path)
	}

	r.pending.Put(b.Name, b)
	r.index(b.Name, b.Path, b.Dir)
	return nil
}

func (r *Registry) index(name string, paths ...string) {
	for _, path := range paths {
		if path != "" {
			r.paths[path] = name
		}
	}
}

func conflict(name string, paths ...string) *ConflictError {
	paths = append([]string(nil), paths...)
	sort.Strings(paths)
	return &ConflictError{Name: name, Paths: paths}
}

func (r *Registry) get(name string) *Binding {
	if value := r.pending.Get(name); value != nil {
		return value.(*Binding)
	}
	return nil
}

// Resolve returns the pending binding for name.
func (r *Registry) Resolve(name string) (*Binding, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b := r.get(name)
	return b, b != nil
}

// Consume removes and returns the pending binding for name.
func (r *Registry) Consume(name string) (*Binding, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b := r.get(name)
	if b == nil {
		return nil, false
	}
	r.pending.Delete(name)
	return b, true
}

// Attempt records that a consumed binding failed to materialize. The name
// stays claimed until Reregister or Drain.
func (r *Registry) Attempt(b *Binding) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attempted[b.Name] = b
}

// Attempted reports whether name belongs to a failed binding.
func (r *Registry) Attempted(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.attempted[name]
	return ok
}

// Reregister moves a failed binding back to pending.
func (r *Registry) Reregister(name string) (*Binding, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.attempted[name]
	if !ok {
		return nil, false
	}
	delete(r.attempted, name)
	r.pending.Put(name, b)
	return b, true
}

// Realize stores the record of a materialized binding.
func (r *Registry) Realize(rec *Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.realized[rec.Name]; ok {
		return conflict(rec.Name, existing.Path, rec.Path)
	}
	if b := r.get(rec.Name); b != nil {
		return conflict(rec.Name, b.Path, rec.Path)
	}
	r.realized[rec.Name] = rec
	r.ledger = append(r.ledger, rec)
	r.index(rec.Name, rec.Path, rec.Dir)
	return nil
}

// Record returns the record of a realized name.
func (r *Registry) Record(name string) (*Record, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.realized[name]
	return rec, ok
}

// ByPath returns the name that the file or directory at path defines.
func (r *Registry) ByPath(path string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	name, ok := r.paths[path]
	return name, ok
}

// UnregisterAllUnder removes every pending binding nested below the named
// namespace (all of them when name is empty) and returns them sorted.
func (r *Registry) UnregisterAllUnder(name string) []*Binding {
	r.mu.Lock()
	defer r.mu.Unlock()

	var prefix string
	if name != "" {
		prefix = name + namespace.Separator
	}
	var removed []*Binding
	r.pending.Walk(func(key string, value interface{}) error {
		if strings.HasPrefix(key, prefix) {
			removed = append(removed, value.(*Binding))
		}
		return nil
	})
	for _, b := range removed {
		r.pending.Delete(b.Name)
	}
	sortBindings(removed)
	return removed
}

// Pending returns the pending bindings sorted by name.
func (r *Registry) Pending() []*Binding {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pendingLocked()
}

func (r *Registry) pendingLocked() (bindings []*Binding) {
	r.pending.Walk(func(key string, value interface{}) error {
		bindings = append(bindings, value.(*Binding))
		return nil
	})
	sortBindings(bindings)
	return
}

// Attempts returns the failed bindings sorted by name.
func (r *Registry) Attempts() []*Binding {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.attemptsLocked()
}

func (r *Registry) attemptsLocked() []*Binding {
	bindings := make([]*Binding, 0, len(r.attempted))
	for _, b := range r.attempted {
		bindings = append(bindings, b)
	}
	sortBindings(bindings)
	return bindings
}

// Ledger returns the records in creation order.
func (r *Registry) Ledger() []*Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*Record(nil), r.ledger...)
}

// Empty reports whether the registry holds nothing at all.
func (r *Registry) Empty() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.ledger) == 0 && len(r.attempted) == 0 && len(r.pendingLocked()) == 0
}

// Drain empties the registry, returning what it held: the ledger in
// creation order and the pending and attempted bindings sorted by name.
func (r *Registry) Drain() (ledger []*Record, pending, attempted []*Binding) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ledger = r.ledger
	pending = r.pendingLocked()
	attempted = r.attemptsLocked()
	r.reset()
	return
}

func sortBindings(bindings []*Binding) {
	sort.Slice(bindings, func(i, j int) bool {
		return bindings[i].Name < bindings[j].Name
	})
}

// nameSegmenter segments fully-qualified names on "::". For example,
// "A::B::C" -> ("A", 1), ("::B", 4), ("::C", -1) in successive calls. It
// does not allocate any heap memory.
func nameSegmenter(path string, start int) (segment string, next int) {
	if len(path) == 0 || start < 0 || start > len(path)-1 {
		return "", -1
	}
	end := strings.Index(path[start+1:], namespace.Separator)
	if end == -1 {
		return path[start:], -1
	}
	return path[start : start+end+1], start + end + 1
}
