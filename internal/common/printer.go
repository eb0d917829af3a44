package common

import (
	"fmt"
	"io"
	"os"
	"runtime"
)

// ANSI color codes
const (
	Reset  = "\033[0m"
	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Bold   = "\033[1m"
)

// Printer writes the user-visible confirmation stream: one line per
// accepted key during upload and one summary line per operation.
// It is separate from the structured logger so scripts can consume stdout.
type Printer struct {
	writer   io.Writer
	useColor bool
}

// NewPrinter creates a printer for stdout with color auto-detection
func NewPrinter() *Printer {
	return NewPrinterWithWriter(os.Stdout)
}

// NewPrinterWithWriter creates a printer for the given writer
func NewPrinterWithWriter(w io.Writer) *Printer {
	return &Printer{writer: w, useColor: shouldUseColor(w)}
}

// SetColor overrides color auto-detection
func (p *Printer) SetColor(enabled bool) {
	p.useColor = enabled
}

// Accepted prints the per-key confirmation line for an accepted entry
func (p *Printer) Accepted(key string) {
	_, _ = fmt.Fprintln(p.writer, p.colorize(Green+Bold, "✓ "+key))
}

// Skipped prints a notice for a line that was not of the form key=value
func (p *Printer) Skipped(reason string) {
	_, _ = fmt.Fprintln(p.writer, p.colorize(Yellow, reason))
}

// Success prints the operation summary line for a successful run
func (p *Printer) Success(format string, args ...any) {
	_, _ = fmt.Fprintf(p.writer, format+"\n", args...)
}

// Failure prints the operation summary line for a failed run
func (p *Printer) Failure(format string, args ...any) {
	_, _ = fmt.Fprintln(p.writer, p.colorize(Red, fmt.Sprintf(format, args...)))
}

func (p *Printer) colorize(color, s string) string {
	if !p.useColor {
		return s
	}
	return color + s + Reset
}

// shouldUseColor determines if colors should be used based on the output
func shouldUseColor(w io.Writer) bool {
	// Don't use colors on Windows by default
	if runtime.GOOS == "windows" {
		return false
	}

	// Check if writing to a terminal
	if f, ok := w.(*os.File); ok {
		return isTerminal(f)
	}

	return false
}

// isTerminal checks if the file is a terminal
func isTerminal(f *os.File) bool {
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) != 0
}
