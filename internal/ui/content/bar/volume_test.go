package bar

import "testing"

func TestVolumeIcon(t *testing.T) {
	var tests = []struct {
		percent float64
		muted   bool
		expect  string
	}{
		{0, false, "audio-volume-muted-symbolic"},
		{50, true, "audio-volume-muted-symbolic"},
		{10, false, "audio-volume-low-symbolic"},
		{30, false, "audio-volume-medium-symbolic"},
		{79, false, "audio-volume-medium-symbolic"},
		{80, false, "audio-volume-high-symbolic"},
		{100, false, "audio-volume-high-symbolic"},
	}

	for _, test := range tests {
		if icon := volumeIcon(test.percent, test.muted); icon != test.expect {
			t.Errorf("volumeIcon(%v, %v) = %q, expected %q", test.percent, test.muted, icon, test.expect)
		}
	}
}

func TestClampPercent(t *testing.T) {
	var tests = []struct{ in, expect float64 }{
		{-5, 0},
		{0, 0},
		{42, 42},
		{100, 100},
		{150, 100},
	}

	for _, test := range tests {
		if v := clampPercent(test.in); v != test.expect {
			t.Errorf("clampPercent(%v) = %v, expected %v", test.in, v, test.expect)
		}
	}
}
