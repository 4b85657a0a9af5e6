package core

import (
	"fmt"
	"io"
	"sync"
)

// ConsoleLogger writes level-tagged lines to an io.Writer, dropping anything
// below minLevel. Safe for concurrent use by tile workers.
type ConsoleLogger struct {
	mu       sync.Mutex
	w        io.Writer
	minLevel LogLevel
}

// NewConsoleLogger creates a Logger that writes to w, filtering out messages
// below minLevel.
func NewConsoleLogger(minLevel LogLevel, w io.Writer) *ConsoleLogger {
	return &ConsoleLogger{w: w, minLevel: minLevel}
}

// Printf logs at LogInfo, matching the teacher's single-method Logger shape.
func (l *ConsoleLogger) Printf(format string, args ...interface{}) {
	l.Logf(LogInfo, format, args...)
}

// Logf logs at the given level, dropping the message if below minLevel.
func (l *ConsoleLogger) Logf(level LogLevel, format string, args ...interface{}) {
	if level < l.minLevel {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.w, "[%s] %s\n", level, fmt.Sprintf(format, args...))
}

// NopLogger discards everything; useful for tests that don't care about log
// output but still need to satisfy the Logger parameter.
type NopLogger struct{}

func (NopLogger) Printf(format string, args ...interface{})           {}
func (NopLogger) Logf(level LogLevel, format string, args ...interface{}) {}
