package stopwatch

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		name string
		d    time.Duration
		want string
	}{
		{"zero", 0, "0 ns"},
		{"nanoseconds", 500 * time.Nanosecond, "500 ns"},
		{"largest nanoseconds", 999 * time.Nanosecond, "999 ns"},
		{"exactly one microsecond", time.Microsecond, "1 us"},
		{"microseconds rounded to 5 digits", 123456 * time.Nanosecond, "123.46 us"},
		{"largest microseconds", 999 * time.Microsecond, "999 us"},
		{"exactly one millisecond", time.Millisecond, "1 ms"},
		{"milliseconds", 250 * time.Millisecond, "250 ms"},
		{"just below one second", 999999999 * time.Nanosecond, "1000 ms"},
		{"exactly one second", time.Second, "1 s"},
		{"two and a half seconds", 2500 * time.Millisecond, "2.5 s"},
		{"seconds rounded to 5 digits", 1234567891 * time.Nanosecond, "1.2346 s"},
		{"minutes stay in seconds", 90 * time.Second, "90 s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDuration(tt.d))
		})
	}
}

func TestSimpleFormatter(t *testing.T) {
	assert.Equal(t, "X: 2.5 s", Simple("X", "2.5 s"))
	assert.Equal(t, "Timer: 10 ms", Simple("Timer", "10 ms"))
}

func TestBigFormatter(t *testing.T) {
	out := Big("X", "2.5 s")

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, strings.Repeat("-", 41), lines[0])
	assert.Equal(t, "| X | Time = 2.5 s", lines[1])
	assert.Equal(t, lines[0], lines[2])
}
