// Package logger provides leveled logging to stderr for the CLI tools.
// The level is selected with the --log-level flag; messages below the
// configured level are dropped.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Level is a logging verbosity level.
type Level int

// Levels in increasing order of severity.
const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarning
	LevelError
)

var (
	mu     sync.RWMutex
	level  Level     = LevelInfo
	output io.Writer = os.Stderr
)

// ParseLevel converts a --log-level flag value to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warning":
		return LevelWarning, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q (debug, info, warning, error)", s)
}

// SetLevel sets the minimum level that will be printed.
func SetLevel(l Level) {
	mu.Lock()
	defer mu.Unlock()
	level = l
}

// SetOutput sets the output writer. Defaults to os.Stderr. Useful for tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// Debugf prints a debug message.
func Debugf(format string, args ...any) {
	logf(LevelDebug, "DEBUG", format, args...)
}

// Infof prints an informational message.
func Infof(format string, args ...any) {
	logf(LevelInfo, "INFO", format, args...)
}

// Warningf prints a warning message.
func Warningf(format string, args ...any) {
	logf(LevelWarning, "WARNING", format, args...)
}

// Errorf prints an error message.
func Errorf(format string, args ...any) {
	logf(LevelError, "ERROR", format, args...)
}

func logf(l Level, tag, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if l < level {
		return
	}
	fmt.Fprintf(output, "["+tag+"] "+format+"\n", args...)
}
