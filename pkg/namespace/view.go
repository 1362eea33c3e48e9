package namespace

import (
	"go.starlark.net/starlark"
)

// View is a Namespace seen through a token. Attribute lookups made through
// a View pass the token to autoload hooks, and namespaces reached through it
// are wrapped in Views carrying the same token.
type View struct {
	ns    *Namespace
	token any
}

var _ starlark.HasAttrs = (*View)(nil)

// NewView wraps v when it is a namespace; other values are returned as is.
func NewView(v starlark.Value, token any) starlark.Value {
	switch t := v.(type) {
	case *Namespace:
		return &View{ns: t, token: token}
	case *View:
		return &View{ns: t.ns, token: token}
	}
	return v
}

// Unwrap returns the namespace behind a View, or v itself.
func Unwrap(v starlark.Value) starlark.Value {
	if view, ok := v.(*View); ok {
		return view.ns
	}
	return v
}

// Namespace returns the wrapped namespace.
func (v *View) Namespace() *Namespace { return v.ns }

func (v *View) String() string        { return v.ns.String() }
func (v *View) Type() string          { return v.ns.Type() }
func (v *View) Freeze()               {}
func (v *View) Truth() starlark.Bool  { return starlark.True }
func (v *View) Hash() (uint32, error) { return v.ns.Hash() }
func (v *View) AttrNames() []string   { return v.ns.AttrNames() }

// Attr implements starlark.HasAttrs.
func (v *View) Attr(name string) (starlark.Value, error) {
	value, err := v.ns.AttrWith(name, v.token)
	if err != nil || value == nil {
		return value, err
	}
	return NewView(value, v.token), nil
}
