// Package autoload binds the files and directories of one or more root
// directories to names in Starlark namespaces, and materializes each name
// the first time it is referenced.
package autoload

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"

	"github.com/stackb/starlark-autoload/pkg/binding"
	"github.com/stackb/starlark-autoload/pkg/inflect"
	"github.com/stackb/starlark-autoload/pkg/logger"
	"github.com/stackb/starlark-autoload/pkg/namespace"
	"github.com/stackb/starlark-autoload/pkg/scan"
	"github.com/stackb/starlark-autoload/pkg/starlarkeval"
)

// state is the lifecycle position of a Loader.
type state int

const (
	stateUnset state = iota
	stateSetUp
	stateUnloaded
)

func (s state) String() string {
	switch s {
	case stateUnset:
		return "unset"
	case stateSetUp:
		return "set up"
	case stateUnloaded:
		return "unloaded"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Root is a directory whose entries are bound in a namespace.
type Root struct {
	Dir       string
	Namespace *namespace.Namespace
}

// Callback is called after a name has been materialized. Path is the source
// file or directory.
type Callback func(name string, value starlark.Value, path string)

// Loader manages the autoloads of a set of root directories.
type Loader struct {
	mu    sync.Mutex
	state state

	tag string
	log logger.Func

	top       *namespace.Namespace
	roots     []Root
	ignore    []string
	collapse  []string
	inflector inflect.Inflector
	eager     bool
	preloads  []string
	onLoad    map[string][]Callback

	predeclared starlark.StringDict
	interp      *starlarkeval.Interpreter
	scanner     *scan.Scanner
	registry    *binding.Registry

	// calls are the materializations in progress, by name
	calls map[string]*flight
	// modules caches the unmanaged files executed through load()
	modules map[string]*flight

	// err is the first error reported by an option
	err error
}

// New constructs a Loader. Options are applied in order; the first option
// error is returned.
func New(options ...Option) (*Loader, error) {
	l := &Loader{
		tag:         newTag(),
		log:         logger.Default(),
		top:         namespace.New(""),
		inflector:   inflect.NewDefault(),
		onLoad:      make(map[string][]Callback),
		predeclared: make(starlark.StringDict),
		registry:    binding.NewRegistry(),
		calls:       make(map[string]*flight),
		modules:     make(map[string]*flight),
	}
	for _, opt := range options {
		l = opt(l)
	}
	if l.err != nil {
		return nil, l.err
	}

	predeclared := starlark.StringDict{
		"namespace": namespace.Builtin,
		"struct":    starlark.NewBuiltin("struct", starlarkstruct.Make),
	}
	for k, v := range l.predeclared {
		predeclared[k] = v
	}
	l.interp = starlarkeval.NewInterpreter(func(format string, args ...interface{}) {
		l.logf("print: "+format, args...)
	}, predeclared)

	return l, nil
}

// newTag returns six random hex digits.
func newTag() string {
	var b [3]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "000000"
	}
	return hex.EncodeToString(b[:])
}

func (l *Loader) logf(format string, args ...any) {
	l.log.Tagged("autoload@"+l.tag).Printf(format, args...)
}

// Tag returns the tag that identifies the loader in log lines.
func (l *Loader) Tag() string {
	return l.tag
}

// Top returns the namespace that roots are bound in by default. Its members
// have unqualified names.
func (l *Loader) Top() *namespace.Namespace {
	return l.top
}

// Roots returns the root directories in the order they were pushed.
func (l *Loader) Roots() []Root {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Root(nil), l.roots...)
}

// PushDir adds a root directory whose entries are bound in ns, or in the top
// namespace when ns is nil. Roots can only be added before Setup.
func (l *Loader) PushDir(dir string, ns *namespace.Namespace) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state == stateSetUp {
		return binding.ErrAlreadySetUp
	}
	return l.pushDir(dir, ns)
}

func (l *Loader) pushDir(dir string, ns *namespace.Namespace) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("root %s: %w", dir, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("root %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("root %s: not a directory", dir)
	}
	if ns == nil {
		ns = l.top
	}
	for _, root := range l.roots {
		if root.Dir == abs {
			if root.Namespace != ns {
				return fmt.Errorf("root %s is already bound to %s", abs, root.Namespace)
			}
			return nil
		}
	}
	l.roots = append(l.roots, Root{Dir: abs, Namespace: ns})
	return nil
}

// OnLoad registers fn to be called after name is materialized. The name "*"
// matches every name.
func (l *Loader) OnLoad(name string, fn Callback) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onLoad[name] = append(l.onLoad[name], fn)
}

func (l *Loader) runCallbacks(name string, value starlark.Value, path string) {
	l.mu.Lock()
	callbacks := append(append([]Callback(nil), l.onLoad[name]...), l.onLoad["*"]...)
	l.mu.Unlock()
	for _, fn := range callbacks {
		fn(name, value, path)
	}
}

func (l *Loader) isSetUp() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state == stateSetUp
}

// Pending returns the names that are registered but not yet loaded.
func (l *Loader) Pending() []string {
	return names(l.registry.Pending())
}

// Loaded returns the names that have been materialized, in load order.
func (l *Loader) Loaded() []string {
	ledger := l.registry.Ledger()
	loaded := make([]string, len(ledger))
	for i, rec := range ledger {
		loaded[i] = rec.Name
	}
	return loaded
}

// Record returns the record of a loaded name.
func (l *Loader) Record(name string) (*binding.Record, bool) {
	return l.registry.Record(name)
}

func names(bindings []*binding.Binding) []string {
	out := make([]string, len(bindings))
	for i, b := range bindings {
		out[i] = b.Name
	}
	sort.Strings(out)
	return out
}
