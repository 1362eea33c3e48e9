package autoload

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"go.starlark.net/starlark"
)

// CycleError is returned when a load would wait, directly or through other
// goroutines, for itself to complete.
type CycleError struct {
	// Chain lists the names being loaded, ending with the one that closed
	// the cycle.
	Chain []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("autoload cycle: %s", strings.Join(e.Chain, " -> "))
}

// flight is a load in progress, or the cached result of one.
type flight struct {
	owner   atomic.Pointer[cycleChecker]
	done    chan struct{}
	value   starlark.Value
	globals starlark.StringDict
	err     error
}

func newFlight(cc *cycleChecker) *flight {
	f := &flight{done: make(chan struct{})}
	f.owner.Store(cc)
	return f
}

func (f *flight) finish() {
	f.owner.Store(nil)
	close(f.done)
}

// cycleChecker follows one logical chain of loads. Loads made while a file
// executes join the chain of the load that executes it, and a checker
// that waits for another load records the flight it waits for, so a cycle
// shows up as a path in the wait-for graph that leads back to the checker.
type cycleChecker struct {
	waitsFor atomic.Pointer[flight]

	mu    sync.Mutex
	chain []string
}

// live returns cc, or a new checker for a reference made outside of any
// load.
func (cc *cycleChecker) live() *cycleChecker {
	if cc != nil {
		return cc
	}
	return &cycleChecker{}
}

func (cc *cycleChecker) push(name string) {
	cc.mu.Lock()
	cc.chain = append(cc.chain, name)
	cc.mu.Unlock()
}

func (cc *cycleChecker) pop() {
	cc.mu.Lock()
	cc.chain = cc.chain[:len(cc.chain)-1]
	cc.mu.Unlock()
}

func (cc *cycleChecker) cycle(name string) *CycleError {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	chain := append([]string(nil), cc.chain...)
	for i, n := range chain {
		if n == name {
			chain = chain[i:]
			break
		}
	}
	return &CycleError{Chain: append(chain, name)}
}

// wait blocks until f completes, unless waiting would close a cycle.
func (cc *cycleChecker) wait(f *flight, name string) error {
	for next := f; next != nil; {
		owner := next.owner.Load()
		if owner == nil {
			break
		}
		if owner == cc {
			return cc.cycle(name)
		}
		next = owner.waitsFor.Load()
	}
	cc.waitsFor.Store(f)
	<-f.done
	cc.waitsFor.Store(nil)
	return nil
}

// execution is the token of a file while it executes on its thread. Values
// the file receives from load() carry it, so references made through them
// join the chain of the file. Once the file has executed the token is
// spent, and values that outlive the execution start chains of their own.
type execution struct {
	cc   *cycleChecker
	done atomic.Bool
}

// checker returns the chain of a running execution, or nil.
func (x *execution) checker() *cycleChecker {
	if x == nil || x.done.Load() {
		return nil
	}
	return x.cc
}
