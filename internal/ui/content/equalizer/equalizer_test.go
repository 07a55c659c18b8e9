package equalizer

import "testing"

func TestFrequencyLabel(t *testing.T) {
	var tests = []struct {
		hz    float64
		label string
	}{
		{60, "60 Hz"},
		{310, "310 Hz"},
		{1000, "1 kHz"},
		{3000, "3 kHz"},
		{12000, "12 kHz"},
		{1500, "1.5 kHz"},
	}

	for _, test := range tests {
		if label := FrequencyLabel(test.hz); label != test.label {
			t.Errorf("FrequencyLabel(%v) = %q, expected %q", test.hz, label, test.label)
		}
	}
}
