package stats

import (
	"fmt"
	"time"
)

// FormatRTT renders a duration in milliseconds with three decimals.
func FormatRTT(d time.Duration) string {
	return fmt.Sprintf("%.3f", float64(d)/float64(time.Millisecond))
}

// String renders "min/avg/max = a/b/c ms (n samples)".
func (s Summary) String() string {
	if s.Empty() {
		return "no samples"
	}
	noun := "samples"
	if s.Count == 1 {
		noun = "sample"
	}
	return fmt.Sprintf("min/avg/max = %s/%s/%s ms (%d %s)",
		FormatRTT(s.Min), FormatRTT(s.Avg), FormatRTT(s.Max), s.Count, noun)
}

// FormatDuration rounds a duration for report lines: whole seconds above a
// minute, milliseconds below.
func FormatDuration(d time.Duration) string {
	if d >= time.Minute {
		return d.Round(time.Second).String()
	}
	return d.Round(time.Millisecond).String()
}

// Percent returns part as a percentage of whole, 0 when whole is zero.
func Percent(part, whole time.Duration) float64 {
	if whole <= 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}
