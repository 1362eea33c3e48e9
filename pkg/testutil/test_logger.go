package testutil

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
	"testing"
)

// TestLogger implements logger.Log by forwarding to t.Log. Every line is
// also captured so tests can assert on what was logged.
type TestLogger struct {
	t     *testing.T
	mu    sync.Mutex
	lines []string
}

// NewTestLogger creates a new TestLogger that writes to the provided testing.T
func NewTestLogger(t *testing.T) *TestLogger {
	return &TestLogger{t: t}
}

func (l *TestLogger) capture(line string) {
	l.mu.Lock()
	l.lines = append(l.lines, strings.TrimSuffix(line, "\n"))
	l.mu.Unlock()
	l.t.Log(line)
}

// Lines returns the captured lines.
func (l *TestLogger) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.lines...)
}

// Reset forgets the captured lines.
func (l *TestLogger) Reset() {
	l.mu.Lock()
	l.lines = nil
	l.mu.Unlock()
}

// Logged reports whether any captured line matches the regular expression.
func (l *TestLogger) Logged(expr string) bool {
	re := regexp.MustCompile(expr)
	for _, line := range l.Lines() {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

// AssertLogged fails the test unless a captured line matches expr.
func (l *TestLogger) AssertLogged(expr string) {
	l.t.Helper()
	if !l.Logged(expr) {
		l.t.Errorf("no line matching %q in:\n%s", expr, strings.Join(l.Lines(), "\n"))
	}
}

// Printf formats the log message and writes it to the test log
func (l *TestLogger) Printf(format string, v ...any) {
	l.capture(fmt.Sprintf(format, v...))
}

// Print writes the log message to the test log
func (l *TestLogger) Print(v ...any) {
	l.capture(fmt.Sprint(v...))
}

// Println writes the log message to the test log
func (l *TestLogger) Println(v ...any) {
	l.capture(fmt.Sprintln(v...))
}

// Fatal logs the message and fails the test
func (l *TestLogger) Fatal(v ...any) {
	l.t.Fatal(v...)
}

// Fatalf logs the formatted message and fails the test
func (l *TestLogger) Fatalf(format string, v ...any) {
	l.t.Fatalf(format, v...)
}

// Fatalln logs the message and fails the test
func (l *TestLogger) Fatalln(v ...any) {
	l.t.Fatal(v...)
}

// Panic logs the message and fails the test
func (l *TestLogger) Panic(v ...any) {
	l.t.Fatal(v...)
}

// Panicf logs the formatted message and fails the test
func (l *TestLogger) Panicf(format string, v ...any) {
	l.t.Fatalf(format, v...)
}

// Panicln logs the message and fails the test
func (l *TestLogger) Panicln(v ...any) {
	l.t.Fatal(v...)
}
