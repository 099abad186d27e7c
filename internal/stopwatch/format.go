package stopwatch

import (
	"fmt"
	"strings"
	"time"
)

const bigBorder = "-----------------------------------------"

// Simple is the default formatter: "<label>: <time>".
func Simple(label, time string) string {
	return label + ": " + time
}

// Big renders a three-line banner with dashed borders.
func Big(label, time string) string {
	var b strings.Builder
	b.WriteString(bigBorder)
	b.WriteString("\n| ")
	b.WriteString(label)
	b.WriteString(" | Time = ")
	b.WriteString(time)
	b.WriteString("\n")
	b.WriteString(bigBorder)
	return b.String()
}

// FormatDuration scales d into the largest unit among ns, us, ms and s
// that keeps the magnitude at or above one, and prints it with five
// significant digits. Thresholds are strict: exactly one microsecond
// formats as "1 us", not "1000 ns".
func FormatDuration(d time.Duration) string {
	secs := d.Seconds()
	switch {
	case secs < 1e-6:
		return formatValue(secs*1e9, "ns")
	case secs < 1e-3:
		return formatValue(secs*1e6, "us")
	case secs < 1:
		return formatValue(secs*1e3, "ms")
	default:
		return formatValue(secs, "s")
	}
}

func formatValue(x float64, unit string) string {
	return fmt.Sprintf("%.5g %s", x, unit)
}
