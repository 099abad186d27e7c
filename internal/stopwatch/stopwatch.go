// Package stopwatch provides a minimal stopwatch for benchmarking:
// it records a start timestamp, formats elapsed time with
// unit-appropriate precision, and can repeat an operation until a
// target duration is reached to estimate per-call cost.
package stopwatch

import (
	"strconv"
	"time"
)

// DefaultLabel is the display name used when none is given.
const DefaultLabel = "Timer"

// MaxTries caps the number of invocations TimeIt will perform.
const MaxTries = 100

// DefaultTarget is the total duration TimeIt aims for.
const DefaultTarget = time.Second

// now is the clock used by the package. Tests substitute a fake.
var now = time.Now

// Formatter renders a label and a pre-formatted time string into the
// final display string.
type Formatter func(label, time string) string

// Stopwatch measures elapsed time since its creation.
//
// A Stopwatch is not safe for concurrent use; sharing one across
// goroutines is the caller's problem.
type Stopwatch struct {
	label     string
	formatter Formatter
	start     time.Time
}

// New creates a stopwatch with the default label and the Simple formatter.
func New() *Stopwatch {
	return NewFormatted(DefaultLabel, Simple)
}

// NewNamed creates a stopwatch with the given label and the Simple formatter.
func NewNamed(label string) *Stopwatch {
	return NewFormatted(label, Simple)
}

// NewFormatted creates a stopwatch with the given label and formatter.
// A nil formatter falls back to Simple.
func NewFormatted(label string, formatter Formatter) *Stopwatch {
	if label == "" {
		label = DefaultLabel
	}
	if formatter == nil {
		formatter = Simple
	}
	return &Stopwatch{
		label:     label,
		formatter: formatter,
		start:     now(),
	}
}

// Label returns the display name set at construction.
func (s *Stopwatch) Label() string {
	return s.label
}

// Elapsed returns the time since the stopwatch was created.
func (s *Stopwatch) Elapsed() time.Duration {
	return now().Sub(s.start)
}

// Render formats the elapsed time and passes it through the formatter.
func (s *Stopwatch) Render() string {
	return s.formatter(s.label, FormatDuration(s.Elapsed()))
}

// String returns the same text as Render, so a Stopwatch can be handed
// directly to fmt and friends.
func (s *Stopwatch) String() string {
	return s.Render()
}

// TimeIt invokes op repeatedly until the accumulated elapsed time
// reaches target or MaxTries invocations have run, whichever comes
// first. op always runs at least once, even for a non-positive target.
// The result is the formatted average per-invocation duration plus the
// invocation count, e.g. "12.3 ms for 45 tries".
//
// Timing runs from a fresh local start point; the stopwatch's own
// baseline is untouched, so a later Render still reflects time since
// construction. Panics from op propagate unmodified.
func (s *Stopwatch) TimeIt(op func(), target time.Duration) string {
	start := now()
	var total time.Duration

	n := 0
	for {
		op()
		n++
		total = now().Sub(start)
		if n >= MaxTries || total >= target {
			break
		}
	}

	avg := total / time.Duration(n)
	return FormatDuration(avg) + " for " + strconv.Itoa(n) + " tries"
}
