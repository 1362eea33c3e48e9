package binding

import (
	"fmt"

	"go.starlark.net/starlark"

	"github.com/stackb/starlark-autoload/pkg/namespace"
)

// Kind says how a binding is materialized.
type Kind int

const (
	// FileLoad bindings execute a source file that defines the symbol.
	FileLoad Kind = iota
	// DirAutovivify bindings create an empty namespace for a directory.
	DirAutovivify
)

func (k Kind) String() string {
	switch k {
	case FileLoad:
		return "file"
	case DirAutovivify:
		return "dir"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Binding associates a fully-qualified name with the source it will be
// materialized from.
type Binding struct {
	// Name is the fully-qualified symbol name.
	Name string
	// Parent is the namespace the symbol will be bound in.
	Parent *namespace.Namespace
	// Kind is the materialization strategy.
	Kind Kind
	// Path is the source file for FileLoad and the directory for
	// DirAutovivify.
	Path string
	// Dir is set on a FileLoad binding whose file defines the namespace of
	// a sibling directory; the directory is scanned after the file loads.
	Dir string
}

// NewBinding constructs a binding for child within parent.
func NewBinding(parent *namespace.Namespace, child string, kind Kind, path string) *Binding {
	return &Binding{
		Name:   parent.Qualify(child),
		Parent: parent,
		Kind:   kind,
		Path:   path,
	}
}

// Const returns the last segment of the name, the member of Parent that the
// binding defines.
func (b *Binding) Const() string {
	_, child := namespace.Split(b.Name)
	return child
}

// Same reports whether b and other describe the same source.
func (b *Binding) Same(other *Binding) bool {
	return b.Name == other.Name && b.Kind == other.Kind && b.Path == other.Path && b.Dir == other.Dir && b.Parent == other.Parent
}

// String implements fmt.Stringer
func (b *Binding) String() string {
	return fmt.Sprintf("(%s<%v> %s)", b.Name, b.Kind, b.Path)
}

// Record is created when a binding has been materialized. It is what the
// unloader uses to undo the binding.
type Record struct {
	// Name is the fully-qualified symbol name.
	Name string
	// Parent is the namespace the value was bound in.
	Parent *namespace.Namespace
	// Kind is the kind of the binding that produced the record.
	Kind Kind
	// Path is the source file or directory.
	Path string
	// Dir is the namespace directory of an explicit namespace file.
	Dir string
	// Value is the bound value.
	Value starlark.Value
	// Globals are the globals of the executed file (FileLoad only).
	Globals starlark.StringDict
}

// NewRecord constructs a record for the given binding and value.
func NewRecord(b *Binding, value starlark.Value, globals starlark.StringDict) *Record {
	return &Record{
		Name:    b.Name,
		Parent:  b.Parent,
		Kind:    b.Kind,
		Path:    b.Path,
		Dir:     b.Dir,
		Value:   value,
		Globals: globals,
	}
}

// Const returns the last segment of the name.
func (r *Record) Const() string {
	_, child := namespace.Split(r.Name)
	return child
}

// String implements fmt.Stringer
func (r *Record) String() string {
	return fmt.Sprintf("(%s<%v> %s = %s)", r.Name, r.Kind, r.Path, r.Value)
}
