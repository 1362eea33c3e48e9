// Package scan reads one directory level at a time and produces the
// bindings for the files and subdirectories found there.
package scan

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/stackb/starlark-autoload/pkg/binding"
	"github.com/stackb/starlark-autoload/pkg/inflect"
	"github.com/stackb/starlark-autoload/pkg/namespace"
)

// Scanner produces bindings for a single directory level.
type Scanner struct {
	// Inflector derives names from path segments.
	Inflector inflect.Inflector
	// Ignore lists paths that are never scanned.
	Ignore *PathSet
	// Collapse lists directories whose entries belong to the parent
	// namespace instead of introducing one of their own.
	Collapse *PathSet
}

// New constructs a Scanner with the default inflector and empty sets.
func New() *Scanner {
	return &Scanner{
		Inflector: inflect.NewDefault(),
		Ignore:    &PathSet{},
		Collapse:  &PathSet{},
	}
}

// entry is a candidate found while reading a level.
type entry struct {
	name string
	path string
}

// ScanLevel returns the bindings for the entries directly inside dir (and
// inside collapsed directories below it), to be bound in parent. It does not
// descend into namespace directories. Bindings are sorted by name.
func (s *Scanner) ScanLevel(dir string, parent *namespace.Namespace) ([]*binding.Binding, error) {
	files := make(map[string]string)
	dirs := make(map[string]string)
	if err := s.collect(dir, files, dirs); err != nil {
		return nil, err
	}

	bindings := make([]*binding.Binding, 0, len(files)+len(dirs))
	for name, path := range files {
		b := binding.NewBinding(parent, name, binding.FileLoad, path)
		if sub, ok := dirs[name]; ok {
			// the file defines the namespace of its sibling directory
			b.Dir = sub
		}
		bindings = append(bindings, b)
	}
	for name, path := range dirs {
		if _, ok := files[name]; ok {
			continue
		}
		bindings = append(bindings, binding.NewBinding(parent, name, binding.DirAutovivify, path))
	}
	sort.Slice(bindings, func(i, j int) bool {
		return bindings[i].Name < bindings[j].Name
	})
	return bindings, nil
}

func (s *Scanner) collect(dir string, files, dirs map[string]string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("scanning %s: %w", dir, err)
	}
	for _, de := range entries {
		basename := de.Name()
		if strings.HasPrefix(basename, ".") {
			continue
		}
		path := filepath.Join(dir, basename)
		if s.Ignore.Match(path) {
			continue
		}

		isDir, err := s.isDir(path, de)
		if err != nil {
			return err
		}

		if !isDir {
			if filepath.Ext(basename) != inflect.Ext {
				continue
			}
			if err := s.add(files, path); err != nil {
				return err
			}
			continue
		}

		if s.Collapse.Match(path) {
			if err := s.collect(path, files, dirs); err != nil {
				return err
			}
			continue
		}
		ok, err := s.hasSourceFiles(path)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if err := s.add(dirs, path); err != nil {
			return err
		}
	}
	return nil
}

// isDir follows symlinks.
func (s *Scanner) isDir(path string, de fs.DirEntry) (bool, error) {
	if de.Type()&fs.ModeSymlink == 0 {
		return de.IsDir(), nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return false, fmt.Errorf("scanning %s: %w", path, err)
	}
	return info.IsDir(), nil
}

func (s *Scanner) add(seen map[string]string, path string) error {
	name, err := inflect.NameFor(s.Inflector, path)
	if err != nil {
		return err
	}
	if other, ok := seen[name]; ok {
		paths := []string{other, path}
		sort.Strings(paths)
		return &binding.ConflictError{Name: name, Paths: paths}
	}
	seen[name] = path
	return nil
}

// hasSourceFiles reports whether a source file that is not ignored exists
// anywhere below dir. Every level below dir is read the way ScanLevel reads
// it, so a bad name or a collision at any depth is returned now, although
// no binding is produced for the levels below.
func (s *Scanner) hasSourceFiles(dir string) (bool, error) {
	files := make(map[string]string)
	dirs := make(map[string]string)
	if err := s.collect(dir, files, dirs); err != nil {
		return false, err
	}
	return len(files) > 0 || len(dirs) > 0, nil
}
