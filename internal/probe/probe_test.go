package probe

import (
	"context"
	"testing"
	"time"

	"github.com/MeKo-Tech/tempo/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProbe(name string) config.ProbeConfig {
	return config.ProbeConfig{
		Name:            name,
		Command:         "true",
		IntervalSeconds: 0.02,
	}
}

func TestRunnerRecordsHistory(t *testing.T) {
	r := NewRunner([]config.ProbeConfig{testProbe("ok")}, 100)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	r.Run(ctx)

	history := r.History()
	require.Contains(t, history, "ok")
	assert.NotEmpty(t, history["ok"])

	m := history["ok"][0]
	assert.Equal(t, "ok", m.Probe)
	assert.Empty(t, m.Error)
	assert.Positive(t, m.Duration)
	assert.Contains(t, m.Rendered, "ok: ")
	assert.False(t, m.At.IsZero())
}

func TestRunnerRecordsFailures(t *testing.T) {
	failing := config.ProbeConfig{
		Name:            "bad",
		Command:         "false",
		IntervalSeconds: 10,
	}
	r := NewRunner([]config.ProbeConfig{failing}, 10)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	r.Run(ctx)

	history := r.History()
	require.NotEmpty(t, history["bad"])
	assert.NotEmpty(t, history["bad"][0].Error)
}

func TestRunnerBoundsHistory(t *testing.T) {
	r := NewRunner(nil, 2)

	for i := 0; i < 5; i++ {
		r.record(Measurement{Probe: "p", Duration: time.Duration(i)})
	}

	history := r.History()
	require.Len(t, history["p"], 2)
	assert.Equal(t, time.Duration(3), history["p"][0].Duration)
	assert.Equal(t, time.Duration(4), history["p"][1].Duration)
}

func TestRunnerSubscribe(t *testing.T) {
	r := NewRunner(nil, 10)

	ch, cancel := r.Subscribe()
	defer cancel()

	r.record(Measurement{Probe: "p", Duration: time.Millisecond})

	select {
	case m := <-ch:
		assert.Equal(t, "p", m.Probe)
	case <-time.After(time.Second):
		t.Fatal("expected a measurement on the subscription channel")
	}

	// After cancelling, further measurements are not delivered.
	cancel()
	r.record(Measurement{Probe: "p"})
	select {
	case _, ok := <-ch:
		if ok {
			t.Fatal("did not expect a measurement after cancel")
		}
	default:
	}
}

func TestRunnerObservers(t *testing.T) {
	r := NewRunner(nil, 10)

	var seen []Measurement
	r.Observe(func(m Measurement) { seen = append(seen, m) })

	r.record(Measurement{Probe: "p"})
	require.Len(t, seen, 1)
	assert.Equal(t, "p", seen[0].Probe)
}
