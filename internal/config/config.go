package config

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Verbose enables debug output when true
var Verbose bool

var (
	outMu  sync.Mutex
	output io.Writer = os.Stdout
)

// SetOutput points debug and warning lines at w and returns the previous
// writer. Once it returns, no line is still being written to the old one.
func SetOutput(w io.Writer) io.Writer {
	outMu.Lock()
	defer outMu.Unlock()
	prev := output
	output = w
	return prev
}

// Debugf prints debug messages when Verbose is true
func Debugf(format string, args ...any) {
	if Verbose {
		logf("[DEBUG] "+format, args...)
	}
}

// Warnf prints a warning regardless of Verbose
func Warnf(format string, args ...any) {
	logf("[WARN] "+format, args...)
}

func logf(format string, args ...any) {
	outMu.Lock()
	defer outMu.Unlock()
	fmt.Fprintf(output, format+"\n", args...)
}
