// Package logging is the leveled diagnostic logger used for soft compiler
// errors. A single process-wide minimum severity gates every Logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/pterm/pterm"
)

// Level is a message severity.
type Level int32

// Enumeration of the log levels, lowest severity first. LevelSilent
// suppresses all output.
const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
	LevelSilent
)

// String returns the level name.
func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	case LevelSilent:
		return "silent"
	default:
		return fmt.Sprintf("Level(%d)", int32(l))
	}
}

// ParseLevel converts a level name to a Level. Unknown names map to
// LevelInfo.
func ParseLevel(name string) Level {
	switch name {
	case "silent":
		return LevelSilent
	case "error":
		return LevelError
	case "warn", "warning":
		return LevelWarn
	default:
		return LevelInfo
	}
}

var minLevel atomic.Int32

// SetLevel sets the global minimum severity. Messages below it are dropped
// by every Logger.
func SetLevel(l Level) {
	minLevel.Store(int32(l))
}

// CurrentLevel returns the global minimum severity.
func CurrentLevel() Level {
	return Level(minLevel.Load())
}

// Enabled reports whether messages of level l pass the global gate.
func Enabled(l Level) bool {
	return l != LevelSilent && l >= CurrentLevel()
}

// Logger writes leveled messages through pterm prefix printers. It is safe
// for concurrent use.
type Logger struct {
	w      io.Writer
	m      sync.Mutex
	errors atomic.Int64
	warns  atomic.Int64
}

// New creates a Logger writing to w.
func New(w io.Writer) *Logger {
	return &Logger{w: w}
}

var (
	defaultOnce   sync.Once
	defaultLogger *Logger
)

// Default returns the shared Logger writing to stderr.
func Default() *Logger {
	defaultOnce.Do(func() {
		defaultLogger = New(os.Stderr)
	})
	return defaultLogger
}

// Discard returns a Logger that counts messages but writes nowhere.
func Discard() *Logger {
	return New(io.Discard)
}

// Infof logs an informational message.
func (l *Logger) Infof(format string, args ...interface{}) {
	l.log(LevelInfo, format, args...)
}

// Warnf logs a warning.
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.warns.Add(1)
	l.log(LevelWarn, format, args...)
}

// Errorf logs a soft error. Compilation continues.
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.errors.Add(1)
	l.log(LevelError, format, args...)
}

// ErrorCount returns the number of errors logged so far, including the ones
// dropped by the level gate.
func (l *Logger) ErrorCount() int {
	return int(l.errors.Load())
}

// WarningCount returns the number of warnings logged so far.
func (l *Logger) WarningCount() int {
	return int(l.warns.Load())
}

func (l *Logger) log(level Level, format string, args ...interface{}) {
	if !Enabled(level) {
		return
	}

	var line string
	switch level {
	case LevelError:
		line = pterm.Error.Sprintf(format, args...)
	case LevelWarn:
		line = pterm.Warning.Sprintf(format, args...)
	default:
		line = pterm.Info.Sprintf(format, args...)
	}

	l.m.Lock()
	fmt.Fprintln(l.w, line)
	l.m.Unlock()
}
