package namespace

import (
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"
	"go.starlark.net/starlark"
)

// maxSuggestions caps the "did you mean" list of a NotFoundError.
const maxSuggestions = 3

// NotFoundError is returned by Lookup when a segment of the path is unknown.
type NotFoundError struct {
	// Name is the fully-qualified name that could not be found.
	Name string
	// Suggestions are similarly spelled names known to the parent.
	Suggestions []string
}

func (e *NotFoundError) Error() string {
	if len(e.Suggestions) == 0 {
		return fmt.Sprintf("uninitialized constant %s", e.Name)
	}
	return fmt.Sprintf("uninitialized constant %s (did you mean %s?)", e.Name, strings.Join(e.Suggestions, ", "))
}

// Lookup resolves a "::"-separated path starting at root, triggering
// autoloads along the way. Lookups run with the given token (see AttrWith).
func Lookup(root starlark.HasAttrs, path string, token any) (starlark.Value, error) {
	if path == "" {
		return nil, fmt.Errorf("empty constant path")
	}
	var current starlark.Value = root
	var resolved string
	for _, segment := range strings.Split(path, Separator) {
		attrs, ok := current.(starlark.HasAttrs)
		if !ok {
			return nil, fmt.Errorf("%s is a %s, not a namespace", resolved, current.Type())
		}
		var value starlark.Value
		var err error
		if ns, ok := attrs.(*Namespace); ok {
			value, err = ns.AttrWith(segment, token)
		} else {
			value, err = attrs.Attr(segment)
		}
		name := Qualify(resolved, segment)
		if err != nil {
			return nil, err
		}
		if value == nil {
			return nil, &NotFoundError{Name: name, Suggestions: suggest(segment, attrs.AttrNames())}
		}
		current, resolved = value, name
	}
	return current, nil
}

func suggest(name string, candidates []string) []string {
	var out []string
	for _, match := range fuzzy.Find(name, candidates) {
		out = append(out, match.Str)
		if len(out) == maxSuggestions {
			break
		}
	}
	return out
}

// Builtin is the namespace() function made available to source files.
// namespace(**members) returns a new unnamed namespace; the loader names it
// when it is bound.
var Builtin = starlark.NewBuiltin("namespace", func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if len(args) > 0 {
		return nil, fmt.Errorf("%s: unexpected positional arguments", b.Name())
	}
	ns := New("")
	for _, kv := range kwargs {
		ns.Set(string(kv[0].(starlark.String)), kv[1])
	}
	return ns, nil
})
