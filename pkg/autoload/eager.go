package autoload

import (
	"fmt"

	"github.com/stackb/starlark-autoload/pkg/binding"
)

// EagerLoad loads every pending name, including the names found in the
// directories it autovivifies, in name order. It stops at the first error.
func (l *Loader) EagerLoad() error {
	if !l.isSetUp() {
		return binding.ErrNotSetUp
	}
	for {
		pending := l.registry.Pending()
		if len(pending) == 0 {
			return nil
		}
		for _, b := range pending {
			if _, err := l.materialize(b.Name, nil); err != nil {
				return fmt.Errorf("eager loading %s: %w", b.Name, err)
			}
		}
	}
}
