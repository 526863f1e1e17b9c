package logging

import (
	"fmt"
	"io"
	"os"
)

// User-facing output with status glyph prefixes, written directly to
// stdout/stderr. Separate from the structured diagnostic logging so
// --json affects only the latter.

func emit(w io.Writer, glyph, format string, args ...interface{}) {
	fmt.Fprintf(w, glyph+" "+format+"\n", args...)
}

// UserInfo prints a progress message to stdout.
func UserInfo(format string, args ...interface{}) {
	emit(os.Stdout, "ℹ", format, args...)
}

// UserSuccess prints a success message to stdout.
func UserSuccess(format string, args ...interface{}) {
	emit(os.Stdout, "✓", format, args...)
}

// UserWarning prints a warning message to stderr.
func UserWarning(format string, args ...interface{}) {
	emit(os.Stderr, "⚠", format, args...)
}

// UserError prints an error message to stderr.
func UserError(format string, args ...interface{}) {
	emit(os.Stderr, "✗", format, args...)
}
