package scan

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
)

// PathSet is a set of absolute path patterns. Patterns use doublestar
// syntax; relative patterns are made absolute against the working directory
// when added.
type PathSet struct {
	mu       sync.RWMutex
	patterns []string
}

// NewPathSet constructs a PathSet with the given patterns.
func NewPathSet(patterns ...string) (*PathSet, error) {
	s := &PathSet{}
	if err := s.Add(patterns...); err != nil {
		return nil, err
	}
	return s, nil
}

// Add adds patterns to the set.
func (s *PathSet) Add(patterns ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, pattern := range patterns {
		abs, err := filepath.Abs(pattern)
		if err != nil {
			return fmt.Errorf("pattern %q: %w", pattern, err)
		}
		if !doublestar.ValidatePathPattern(abs) {
			return fmt.Errorf("invalid pattern %q", pattern)
		}
		s.patterns = append(s.patterns, abs)
	}
	return nil
}

// Match reports whether the absolute path matches a pattern of the set.
func (s *PathSet) Match(path string) bool {
	if s == nil {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, pattern := range s.patterns {
		if ok, _ := doublestar.PathMatch(pattern, path); ok {
			return true
		}
	}
	return false
}
