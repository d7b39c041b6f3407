// Package age formats how far a timestamp is from now.
package age

import (
	"fmt"
	"time"
)

// Short formats a duration using short units (s/m/h/d). Negative
// durations format as their absolute value.
func Short(duration time.Duration) string {
	if duration < 0 {
		duration = -duration
	}

	duration = duration.Truncate(time.Second)
	seconds := int64(duration.Seconds())
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}

	minutes := seconds / 60
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}

	hours := minutes / 60
	if hours < 24 {
		return fmt.Sprintf("%dh", hours)
	}

	days := hours / 24
	return fmt.Sprintf("%dd", days)
}

// Relative returns "en 3d" for future times and "hace 2h" for past ones.
// A zero then formats as "-".
func Relative(then time.Time, now time.Time) string {
	if then.IsZero() {
		return "-"
	}
	d := then.Sub(now)
	if d >= 0 {
		return "en " + Short(d)
	}
	return "hace " + Short(d)
}
