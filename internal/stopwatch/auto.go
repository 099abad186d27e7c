package stopwatch

import (
	"fmt"
	"io"
	"os"
)

// AutoStopwatch wraps a Stopwatch and flushes the rendered measurement
// exactly once when Close is called, typically via defer:
//
//	defer stopwatch.NewAuto("load models").Close()
type AutoStopwatch struct {
	*Stopwatch
	out    io.Writer
	closed bool
}

// NewAuto creates an auto-printing stopwatch writing to stdout.
func NewAuto(label string) *AutoStopwatch {
	return NewAutoFormatted(label, Simple)
}

// NewAutoFormatted creates an auto-printing stopwatch with the given
// formatter, writing to stdout.
func NewAutoFormatted(label string, formatter Formatter) *AutoStopwatch {
	return &AutoStopwatch{
		Stopwatch: NewFormatted(label, formatter),
		out:       os.Stdout,
	}
}

// SetOutput redirects the destination of the Close-time write.
func (a *AutoStopwatch) SetOutput(w io.Writer) {
	a.out = w
}

// Close writes the rendered measurement plus a trailing newline.
// Subsequent calls are no-ops.
func (a *AutoStopwatch) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true
	_, err := fmt.Fprintln(a.out, a.Render())
	return err
}
