// Package inflect maps filesystem path segments to the symbol names that
// the autoloader expects those files and directories to define.
package inflect

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/iancoleman/strcase"
	"go.starlark.net/syntax"
)

// Ext is the extension of source files that define symbols.
const Ext = ".star"

// ErrInvalidName is matched by every *InvalidNameError.
var ErrInvalidName = errors.New("invalid name")

// Inflector computes the expected symbol name for a path segment. Basename
// has the extension already stripped; abspath is the full path of the file
// or directory, for inflectors that need it.
type Inflector interface {
	Camelize(basename, abspath string) string
}

// InvalidNameError is returned when a path segment does not map to a valid
// Starlark identifier.
type InvalidNameError struct {
	// Path is the file or directory that produced the name.
	Path string
	// Name is the candidate name (may be empty).
	Name string
}

func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("wrong constant name %q inferred from %s", e.Name, e.Path)
}

func (e *InvalidNameError) Is(target error) bool {
	return target == ErrInvalidName
}

// Default camel-cases underscore-delimited segments ("user_profile" ->
// "UserProfile") after consulting its override table.
type Default struct {
	mu        sync.RWMutex
	overrides map[string]string
}

// NewDefault constructs a new Default inflector.
func NewDefault() *Default {
	return &Default{overrides: make(map[string]string)}
}

// Inflect adds basename -> name overrides, for example
// {"html_parser": "HTMLParser"}.
func (d *Default) Inflect(overrides map[string]string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for k, v := range overrides {
		d.overrides[k] = v
	}
}

// Camelize implements Inflector.
func (d *Default) Camelize(basename, _ string) string {
	d.mu.RLock()
	name, ok := d.overrides[basename]
	d.mu.RUnlock()
	if ok {
		return name
	}
	if !isSegment(basename) {
		// keep the raw text so the validation error shows what was wrong
		return basename
	}
	return strcase.ToCamel(basename)
}

// NameFor strips the source extension from segment (the base name of
// abspath), inflects it and validates the result.
func NameFor(inflector Inflector, abspath string) (string, error) {
	segment := filepath.Base(abspath)
	basename := strings.TrimSuffix(segment, Ext)
	name := inflector.Camelize(basename, abspath)
	if !IsValid(name) {
		return "", &InvalidNameError{Path: abspath, Name: name}
	}
	return name, nil
}

// IsValid reports whether name is a plain Starlark identifier.
func IsValid(name string) bool {
	if name == "" {
		return false
	}
	expr, err := (&syntax.FileOptions{}).ParseExpr("<name>", name, 0)
	if err != nil {
		return false
	}
	ident, ok := expr.(*syntax.Ident)
	return ok && ident.Name == name
}

func isSegment(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
		default:
			return false
		}
	}
	return true
}
