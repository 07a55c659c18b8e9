package durafmt

import (
	"fmt"
	"math"
	"time"
)

// Format formats the given duration into M:SS form. Minutes are not wrapped
// into hours. Negative durations are formatted as zero.
func Format(d time.Duration) string {
	if d < 0 {
		d = 0
	}

	var mins, secs int
	mins, d = divide(d, time.Minute)
	secs, _ = divide(d, time.Second)

	return fmt.Sprintf("%d:%02d", mins, secs)
}

// FormatSeconds formats a position in seconds. Unknown values, such as NaN or
// infinities, are formatted as zero.
func FormatSeconds(secs float64) string {
	if math.IsNaN(secs) || math.IsInf(secs, 0) {
		return Format(0)
	}
	return Format(time.Duration(secs * float64(time.Second)))
}

func divide(d, div time.Duration) (n int, newd time.Duration) {
	n = int(d / div)
	return n, d - time.Duration(n)*div
}
