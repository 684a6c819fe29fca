// Package logger provides verbose diagnostics for catmatch.
// Output is written to stderr only when --verbose is set, so reports on
// stdout stay clean for piping.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
	now               = time.Now
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the writer for verbose logs. Defaults to os.Stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

func emit(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, format, args...)
	}
}

// Debug prints a detail message.
func Debug(format string, args ...any) {
	emit("[DEBUG] "+format+"\n", args...)
}

// Info prints an informational message.
func Info(format string, args ...any) {
	emit("[INFO] "+format+"\n", args...)
}

// Warn prints a recoverable problem.
func Warn(format string, args ...any) {
	emit("[WARN] "+format+"\n", args...)
}

// Section prints a pipeline stage header.
func Section(name string) {
	emit("\n=== %s ===\n", name)
}

// Timed starts timing a stage and returns a func that logs the elapsed time.
//
//	defer logger.Timed("Embedding")()
func Timed(stage string) func() {
	start := now()
	return func() {
		emit("[TIME] %s took %s\n", stage, now().Sub(start).Round(time.Millisecond))
	}
}
