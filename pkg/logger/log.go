package logger

import (
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog"
)

type Log interface {
	// Standard logging methods
	Print(v ...any)
	Printf(format string, v ...any)
	Println(v ...any)

	// Fatal logging methods (log and then call os.Exit(1))
	Fatal(v ...any)
	Fatalf(format string, v ...any)
	Fatalln(v ...any)

	// Panic logging methods (log and then call panic())
	Panic(v ...any)
	Panicf(format string, v ...any)
	Panicln(v ...any)
}

// Func is a sink that receives one complete log line per call.
type Func func(line string)

// debugLogger is a leveled logger with a single-argument debug call.
type debugLogger interface {
	Debug(msg string)
}

// slogLogger matches *slog.Logger.
type slogLogger interface {
	Debug(msg string, args ...any)
}

var (
	defaultMu  sync.RWMutex
	defaultLog Func
)

// Wrap adapts v into a Func. Accepted values are nil, a Func or
// func(string), a zerolog.Logger (or pointer to one), anything with a
// Debug(string) method, a print-style Log such as *log.Logger, or an
// io.Writer.
func Wrap(v any) (Func, error) {
	switch l := v.(type) {
	case nil:
		return nil, nil
	case Func:
		return l, nil
	case func(string):
		return Func(l), nil
	case zerolog.Logger:
		return func(line string) { l.Debug().Msg(line) }, nil
	case *zerolog.Logger:
		return func(line string) { l.Debug().Msg(line) }, nil
	case debugLogger:
		return l.Debug, nil
	case slogLogger:
		return func(line string) { l.Debug(line) }, nil
	case Log:
		return func(line string) { l.Println(line) }, nil
	case io.Writer:
		return func(line string) { fmt.Fprintln(l, line) }, nil
	}
	return nil, fmt.Errorf("unsupported logger type %T: want func(string), a Debug(string) method, a print-style logger or an io.Writer", v)
}

// SetDefault sets the process-wide logger that new loaders pick up when they
// are not given one explicitly. Passing nil clears it.
func SetDefault(v any) error {
	fn, err := Wrap(v)
	if err != nil {
		return err
	}
	defaultMu.Lock()
	defaultLog = fn
	defaultMu.Unlock()
	return nil
}

// Default returns the process-wide logger, or nil.
func Default() Func {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLog
}

// Tagged returns a Func that prefixes every line with "<tag>: ".  A nil Func
// stays nil.
func (f Func) Tagged(tag string) Func {
	if f == nil {
		return nil
	}
	return func(line string) {
		f(tag + ": " + line)
	}
}

// Printf formats and emits a line; it is a no-op on a nil Func.
func (f Func) Printf(format string, v ...any) {
	if f == nil {
		return
	}
	f(fmt.Sprintf(format, v...))
}
