package durafmt

import (
	"math"
	"testing"
	"time"
)

func TestFormat(t *testing.T) {
	var tests = []struct {
		d      time.Duration
		expect string
	}{
		{0, "0:00"},
		{999 * time.Millisecond, "0:00"},
		{5 * time.Second, "0:05"},
		{time.Minute + 7*time.Second, "1:07"},
		{61*time.Minute + 59*time.Second, "61:59"},
		{-3 * time.Second, "0:00"},
		{3*time.Minute + 59999*time.Millisecond, "3:59"},
	}

	for _, test := range tests {
		if got := Format(test.d); got != test.expect {
			t.Errorf("Format(%v) = %q, expected %q", test.d, got, test.expect)
		}
	}
}

func TestFormatSeconds(t *testing.T) {
	var tests = []struct {
		secs   float64
		expect string
	}{
		{0, "0:00"},
		{59.9, "0:59"},
		{125, "2:05"},
		{math.NaN(), "0:00"},
		{math.Inf(1), "0:00"},
	}

	for _, test := range tests {
		if got := FormatSeconds(test.secs); got != test.expect {
			t.Errorf("FormatSeconds(%v) = %q, expected %q", test.secs, got, test.expect)
		}
	}
}
