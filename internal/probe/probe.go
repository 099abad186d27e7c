// Package probe repeatedly times configured commands and keeps a
// rolling window of measurements for the serve mode.
package probe

import (
	"context"
	"log/slog"
	"os/exec"
	"sync"
	"time"

	"github.com/MeKo-Tech/tempo/internal/config"
	"github.com/MeKo-Tech/tempo/internal/stopwatch"
)

// Measurement is one timed probe run.
type Measurement struct {
	Probe    string        `json:"probe"`
	Duration time.Duration `json:"duration_ns"`
	Rendered string        `json:"rendered"`
	Error    string        `json:"error,omitempty"`
	At       time.Time     `json:"at"`
}

// Runner schedules the configured probes and fans measurements out to
// subscribers.
type Runner struct {
	probes      []config.ProbeConfig
	historySize int

	mu          sync.Mutex
	history     map[string][]Measurement
	subscribers map[chan Measurement]struct{}

	// hooks invoked for every finished measurement (metrics, logs)
	observers []func(Measurement)
}

// NewRunner creates a runner for the given probes. historySize bounds
// the number of measurements retained per probe.
func NewRunner(probes []config.ProbeConfig, historySize int) *Runner {
	if historySize < 1 {
		historySize = 1
	}
	return &Runner{
		probes:      probes,
		historySize: historySize,
		history:     make(map[string][]Measurement),
		subscribers: make(map[chan Measurement]struct{}),
	}
}

// Probes returns the configured probes.
func (r *Runner) Probes() []config.ProbeConfig {
	return r.probes
}

// Observe registers a hook called for every finished measurement.
// Must be called before Run.
func (r *Runner) Observe(fn func(Measurement)) {
	r.observers = append(r.observers, fn)
}

// Run schedules all probes and blocks until ctx is cancelled. Each
// probe runs once immediately and then on its interval.
func (r *Runner) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for _, p := range r.probes {
		wg.Add(1)
		go func(p config.ProbeConfig) {
			defer wg.Done()
			r.runProbe(ctx, p)
		}(p)
	}
	wg.Wait()
}

// runProbe times one probe on its interval until ctx is cancelled.
func (r *Runner) runProbe(ctx context.Context, p config.ProbeConfig) {
	ticker := time.NewTicker(p.Interval())
	defer ticker.Stop()

	r.runOnce(ctx, p)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.runOnce(ctx, p)
		}
	}
}

// runOnce executes the probe command once and records the measurement.
func (r *Runner) runOnce(ctx context.Context, p config.ProbeConfig) {
	sw := stopwatch.NewNamed(p.Name)
	err := exec.CommandContext(ctx, p.Command, p.Args...).Run() //nolint:gosec // G204: probe commands come from operator config

	m := Measurement{
		Probe:    p.Name,
		Duration: sw.Elapsed(),
		Rendered: sw.Render(),
		At:       time.Now().UTC(),
	}
	if err != nil {
		m.Error = err.Error()
		slog.Warn("Probe run failed", "probe", p.Name, "error", err)
	} else {
		slog.Debug("Probe run finished", "probe", p.Name, "duration", m.Duration)
	}

	r.record(m)
}

// record stores the measurement and notifies subscribers and observers.
func (r *Runner) record(m Measurement) {
	r.mu.Lock()
	h := append(r.history[m.Probe], m)
	if len(h) > r.historySize {
		h = h[len(h)-r.historySize:]
	}
	r.history[m.Probe] = h

	subs := make([]chan Measurement, 0, len(r.subscribers))
	for ch := range r.subscribers {
		subs = append(subs, ch)
	}
	r.mu.Unlock()

	for _, fn := range r.observers {
		fn(m)
	}

	for _, ch := range subs {
		// Drop the measurement for slow subscribers instead of
		// blocking the probe loop.
		select {
		case ch <- m:
		default:
		}
	}
}

// History returns the retained measurements per probe.
func (r *Runner) History() map[string][]Measurement {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[string][]Measurement, len(r.history))
	for name, h := range r.history {
		out[name] = append([]Measurement(nil), h...)
	}
	return out
}

// Subscribe returns a channel receiving every new measurement and a
// cancel function that must be called when done.
func (r *Runner) Subscribe() (<-chan Measurement, func()) {
	ch := make(chan Measurement, 16)

	r.mu.Lock()
	r.subscribers[ch] = struct{}{}
	r.mu.Unlock()

	cancel := func() {
		r.mu.Lock()
		delete(r.subscribers, ch)
		r.mu.Unlock()
	}
	return ch, cancel
}
