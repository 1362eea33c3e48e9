package binding

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConflict is matched by *ConflictError.
	ErrConflict = errors.New("conflict")
	// ErrOrphanReference is matched by *OrphanReferenceError.
	ErrOrphanReference = errors.New("orphan reference")
	// ErrExpectedSymbolMissing is matched by *ExpectedSymbolMissingError.
	ErrExpectedSymbolMissing = errors.New("expected symbol missing")
	// ErrAlreadySetUp is returned by Setup on a loader that is set up.
	ErrAlreadySetUp = errors.New("loader is already set up")
	// ErrNotSetUp is returned by operations that need a prior Setup.
	ErrNotSetUp = errors.New("loader has not been set up")
)

// ConflictError is returned when two sources want the same name.
type ConflictError struct {
	// Name is the contested fully-qualified name.
	Name string
	// Paths are the competing sources, sorted.
	Paths []string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflicting sources for %s: %s", e.Name, strings.Join(e.Paths, ", "))
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// OrphanReferenceError is returned when a hook fires for a name that has no
// pending binding.
type OrphanReferenceError struct {
	// Name is the fully-qualified name.
	Name string
	// Attempted is set when the binding was consumed by a failed load.
	Attempted bool
}

func (e *OrphanReferenceError) Error() string {
	if e.Attempted {
		return fmt.Sprintf("no pending binding for %s: a previous load failed (re-register it to retry)", e.Name)
	}
	return fmt.Sprintf("no pending binding for %s", e.Name)
}

func (e *OrphanReferenceError) Is(target error) bool {
	return target == ErrOrphanReference
}

// ExpectedSymbolMissingError is returned when a file ran without defining the
// symbol it was expected to define.
type ExpectedSymbolMissingError struct {
	// Name is the fully-qualified name.
	Name string
	// Path is the file that was executed.
	Path string
	// Reason optionally explains why the definition was rejected.
	Reason string
}

func (e *ExpectedSymbolMissingError) Error() string {
	msg := fmt.Sprintf("expected file %s to define constant %s, but didn't", e.Path, e.Name)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *ExpectedSymbolMissingError) Is(target error) bool {
	return target == ErrExpectedSymbolMissing
}
