package autoload

import (
	"go.starlark.net/starlark"

	"github.com/stackb/starlark-autoload/pkg/inflect"
	"github.com/stackb/starlark-autoload/pkg/logger"
	"github.com/stackb/starlark-autoload/pkg/namespace"
)

// Option configures a Loader.
type Option func(*Loader) *Loader

func withError(l *Loader, err error) *Loader {
	if l.err == nil {
		l.err = err
	}
	return l
}

// WithRoot adds a root directory bound in the top namespace.
func WithRoot(dir string) Option {
	return func(l *Loader) *Loader {
		if err := l.pushDir(dir, nil); err != nil {
			return withError(l, err)
		}
		return l
	}
}

// WithNamespaceRoot adds a root directory bound in ns.
func WithNamespaceRoot(dir string, ns *namespace.Namespace) Option {
	return func(l *Loader) *Loader {
		if err := l.pushDir(dir, ns); err != nil {
			return withError(l, err)
		}
		return l
	}
}

// WithIgnore adds doublestar patterns for paths that are never scanned.
// Relative patterns are matched against every root.
func WithIgnore(patterns ...string) Option {
	return func(l *Loader) *Loader {
		l.ignore = append(l.ignore, patterns...)
		return l
	}
}

// WithCollapse adds doublestar patterns for directories that do not
// introduce a namespace. Relative patterns are matched against every root.
func WithCollapse(patterns ...string) Option {
	return func(l *Loader) *Loader {
		l.collapse = append(l.collapse, patterns...)
		return l
	}
}

// WithInflector replaces the inflector that derives names from paths.
func WithInflector(inflector inflect.Inflector) Option {
	return func(l *Loader) *Loader {
		l.inflector = inflector
		return l
	}
}

// WithInflection adds overrides to the default inflector, for example
// {"html_parser": "HTMLParser"}.
func WithInflection(overrides map[string]string) Option {
	return func(l *Loader) *Loader {
		d, ok := l.inflector.(*inflect.Default)
		if !ok {
			d = inflect.NewDefault()
			l.inflector = d
		}
		d.Inflect(overrides)
		return l
	}
}

// WithEagerLoad makes Setup load every name.
func WithEagerLoad(eager bool) Option {
	return func(l *Loader) *Loader {
		l.eager = eager
		return l
	}
}

// WithPreload names files that are loaded as soon as Setup completes.
func WithPreload(paths ...string) Option {
	return func(l *Loader) *Loader {
		l.preloads = append(l.preloads, paths...)
		return l
	}
}

// WithTag sets the tag used in log lines.
func WithTag(tag string) Option {
	return func(l *Loader) *Loader {
		l.tag = tag
		return l
	}
}

// WithLogger sets the log sink; see logger.Wrap for the accepted types.
func WithLogger(v any) Option {
	return func(l *Loader) *Loader {
		fn, err := logger.Wrap(v)
		if err != nil {
			return withError(l, err)
		}
		l.log = fn
		return l
	}
}

// WithPredeclared adds names that every source file can see.
func WithPredeclared(predeclared starlark.StringDict) Option {
	return func(l *Loader) *Loader {
		for k, v := range predeclared {
			l.predeclared[k] = v
		}
		return l
	}
}
