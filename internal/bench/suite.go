// Package bench runs named operations through the calibration loop and
// collects per-run cost and memory statistics.
package bench

import (
	"fmt"
	"io"
	"runtime"
	"sync"
	"time"

	"github.com/MeKo-Tech/tempo/internal/stopwatch"
)

// Result holds the outcome of benchmarking one operation.
type Result struct {
	Name         string        `json:"name" yaml:"name"`
	Iterations   int           `json:"iterations" yaml:"iterations"`
	Total        time.Duration `json:"total_ns" yaml:"total_ns"`
	Avg          time.Duration `json:"avg_ns" yaml:"avg_ns"`
	MemoryBefore MemoryStats   `json:"-" yaml:"-"`
	MemoryAfter  MemoryStats   `json:"-" yaml:"-"`
	Error        error         `json:"-" yaml:"-"`
}

// String returns a formatted string representation of the result.
func (r Result) String() string {
	if r.Error != nil {
		return fmt.Sprintf("%s: ERROR - %v", r.Name, r.Error)
	}

	memDiff := int64(r.MemoryAfter.AllocBytes) - int64(r.MemoryBefore.AllocBytes) //nolint:gosec // G115: Safe conversion for memory display
	return fmt.Sprintf("%s: %s for %d tries, total: %s, mem: %+d KB",
		r.Name,
		stopwatch.FormatDuration(r.Avg),
		r.Iterations,
		stopwatch.FormatDuration(r.Total),
		memDiff/1024)
}

// Benchmark is a named operation to measure.
type Benchmark struct {
	Name string
	Func func() error
}

// Suite manages multiple benchmarks.
type Suite struct {
	benchmarks []Benchmark
	results    []Result
	mu         sync.Mutex
}

// NewSuite creates an empty benchmark suite.
func NewSuite() *Suite {
	return &Suite{
		benchmarks: make([]Benchmark, 0),
		results:    make([]Result, 0),
	}
}

// Add adds a benchmark to the suite.
func (s *Suite) Add(name string, fn func() error) {
	s.benchmarks = append(s.benchmarks, Benchmark{
		Name: name,
		Func: fn,
	})
}

// Run benchmarks a single named operation: the operation runs at least
// once and is repeated until the accumulated time reaches target or
// maxTries invocations, whichever comes first. A non-positive maxTries
// falls back to the stopwatch cap.
func (s *Suite) Run(name string, target time.Duration, maxTries int) Result {
	for _, b := range s.benchmarks {
		if b.Name == name {
			return runBenchmark(b, target, maxTries)
		}
	}

	return Result{
		Name:  name,
		Error: fmt.Errorf("benchmark '%s' not found", name),
	}
}

// RunAll runs every benchmark in the suite and stores the results.
func (s *Suite) RunAll(target time.Duration, maxTries int) []Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.results = make([]Result, 0, len(s.benchmarks))
	for _, b := range s.benchmarks {
		s.results = append(s.results, runBenchmark(b, target, maxTries))
	}

	return s.results
}

// Results returns the results of the last RunAll.
func (s *Suite) Results() []Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.results
}

// WriteResults writes formatted results to w.
func (s *Suite) WriteResults(w io.Writer) {
	results := s.Results()
	_, _ = fmt.Fprintln(w, "Benchmark Results:")
	_, _ = fmt.Fprintln(w, "==================")
	for _, r := range results {
		_, _ = fmt.Fprintln(w, r.String())
	}
}

// runBenchmark executes one benchmark through the calibration loop.
func runBenchmark(b Benchmark, target time.Duration, maxTries int) Result {
	if maxTries <= 0 {
		maxTries = stopwatch.MaxTries
	}

	// Force garbage collection before measuring.
	runtime.GC()
	memBefore := ReadMemoryStats()

	sw := stopwatch.NewNamed(b.Name)
	var err error

	n := 0
	for {
		if e := b.Func(); e != nil {
			err = e
			n++
			break
		}
		n++
		if n >= maxTries || sw.Elapsed() >= target {
			break
		}
	}

	total := sw.Elapsed()
	memAfter := ReadMemoryStats()

	return Result{
		Name:         b.Name,
		Iterations:   n,
		Total:        total,
		Avg:          total / time.Duration(n),
		MemoryBefore: memBefore,
		MemoryAfter:  memAfter,
		Error:        err,
	}
}
