package visualizer

import (
	"math"
	"testing"
	"time"

	"github.com/go-test/deep"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestBucketRange(t *testing.T) {
	for _, bins := range []int{4, 16, 128, 1024} {
		for bars := 1; bars <= 80; bars++ {
			prevEnd := 0

			for i := 0; i < bars; i++ {
				start, end := BucketRange(i, bars, bins)

				if start > end {
					t.Fatalf("bins %d bars %d: bar %d starts at %d after its end %d",
						bins, bars, i, start, end)
				}
				if end > bins {
					t.Fatalf("bins %d bars %d: bar %d ends at %d past the data", bins, bars, i, end)
				}
				if start != prevEnd {
					t.Fatalf("bins %d bars %d: bar %d starts at %d, previous ended at %d",
						bins, bars, i, start, prevEnd)
				}

				prevEnd = end
			}
		}
	}
}

func TestBucketRangeValues(t *testing.T) {
	var tests = []struct {
		i, bars, bins int
		start, end    int
	}{
		{0, 32, 128, 0, 0},
		{31, 32, 128, 97, 102},
		{0, 1, 128, 0, 102},
		{1, 2, 128, 36, 102},
	}

	for _, test := range tests {
		start, end := BucketRange(test.i, test.bars, test.bins)
		if start != test.start || end != test.end {
			t.Errorf("BucketRange(%d, %d, %d) = [%d, %d), expected [%d, %d)",
				test.i, test.bars, test.bins, start, end, test.start, test.end)
		}
	}
}

func filled(n int, v byte) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = v
	}
	return b
}

func TestMapperEmptyBucket(t *testing.T) {
	m := NewMapper(32)
	m.Update(filled(128, 200))

	if s := m.Bars()[0].Smoothed; s != 0 {
		t.Errorf("empty bucket produced %v", s)
	}
	if s := m.Bars()[31].Smoothed; s == 0 {
		t.Error("full bucket produced nothing")
	}
}

func TestMapperNearestBin(t *testing.T) {
	m := NewMapper(32)
	m.NearestBin = true
	m.Update(filled(128, 200))

	// 200 * (1 - 0.7), boost is 1 for the first bar.
	if s := m.Bars()[0].Smoothed; !almostEqual(s, 60) {
		t.Errorf("bar 0 = %v, expected 60", s)
	}
}

func TestMapperSmoothingAndPeaks(t *testing.T) {
	m := NewMapper(1)

	steps := []struct {
		freq     []byte
		smoothed float64
		peak     float64
	}{
		{filled(128, 100), 30, 30},
		{filled(128, 100), 51, 51},
		{filled(128, 0), 35.7, 49},
		{filled(128, 0), 24.99, 47},
	}

	for i, step := range steps {
		m.Update(step.freq)

		bar := m.Bars()[0]
		if !almostEqual(bar.Smoothed, step.smoothed) || !almostEqual(bar.Peak, step.peak) {
			t.Errorf("step %d: got %+v, expected smoothed %v peak %v",
				i, bar, step.smoothed, step.peak)
		}
	}
}

func TestMapperPeakFloor(t *testing.T) {
	m := NewMapper(1)
	m.bars[0] = BarState{Smoothed: 0, Peak: 1}

	m.Update(filled(128, 0))

	if p := m.Bars()[0].Peak; p != 0 {
		t.Errorf("peak decayed to %v, expected 0", p)
	}
}

func TestMapperBoostClamp(t *testing.T) {
	m := NewMapper(2)
	m.Update(filled(128, 255))

	// 255 * 1.4 is clamped to 255 before smoothing.
	if s := m.Bars()[1].Smoothed; !almostEqual(s, 255*0.3) {
		t.Errorf("bar 1 = %v, expected %v", s, 255*0.3)
	}
}

func TestMapperResize(t *testing.T) {
	m := NewMapper(4)
	m.Update(filled(128, 255))

	m.Resize(4)
	if m.Bars()[3].Smoothed == 0 {
		t.Fatal("resizing to the same count reset the state")
	}

	m.Resize(6)
	if ineqs := deep.Equal(m.Bars(), make([]BarState, 6)); ineqs != nil {
		t.Errorf("state not reset: %q", ineqs)
	}
}

func TestSegments(t *testing.T) {
	var tests = []struct {
		level  float64
		max    int
		expect int
	}{
		{0, 20, 0},
		{127.5, 20, 10},
		{255, 20, 20},
		{12, 20, 0},
		{255, 0, 0},
	}

	for _, test := range tests {
		if got := Segments(test.level, test.max); got != test.expect {
			t.Errorf("Segments(%v, %d) = %d, expected %d", test.level, test.max, got, test.expect)
		}
	}
}

func TestLayoutFit(t *testing.T) {
	geom := DefaultLayout.Fit(600, 400)

	if geom.Bars != 33 || geom.MaxSegments != 35 {
		t.Fatalf("bars = %d, segments = %d", geom.Bars, geom.MaxSegments)
	}

	var tests = []struct {
		bar, segment int
		expect       Rect
	}{
		{0, 0, Rect{X: 3, Y: 334, W: 12, H: 6}},
		{1, 2, Rect{X: 21, Y: 318, W: 12, H: 6}},
	}

	for _, test := range tests {
		if ineqs := deep.Equal(geom.Segment(test.bar, test.segment), test.expect); ineqs != nil {
			t.Errorf("segment (%d, %d): %q", test.bar, test.segment, ineqs)
		}
	}
}

func TestPalette(t *testing.T) {
	cyan, err := ParseHex("#06b6d4")
	if err != nil {
		t.Fatal(err)
	}
	if ineqs := deep.Equal(cyan, RGBA(0x06, 0xb6, 0xd4, 1)); ineqs != nil {
		t.Errorf("parsed color: %q", ineqs)
	}

	if _, err := ParseHex("#xyz"); err == nil {
		t.Error("no error for an invalid color")
	}

	var tests = []struct {
		segment, max, bar int
		expect            int
	}{
		{0, 20, 0, 0},
		{10, 20, 1, 4},
		{19, 20, 2, 7},
		{5, 20, 3, 1},
	}

	for _, test := range tests {
		got := DefaultPalette.SegmentColor(test.segment, test.max, test.bar)
		if got != DefaultPalette[test.expect] {
			t.Errorf("SegmentColor(%d, %d, %d) = %v, expected palette[%d]",
				test.segment, test.max, test.bar, got, test.expect)
		}
	}
}

func countColor(segments []Segment, c Color) int {
	var n int
	for _, s := range segments {
		if s.Color == c {
			n++
		}
	}
	return n
}

func TestBuildFramePeak(t *testing.T) {
	geom := Geometry{Layout: DefaultLayout, Bars: 1, MaxSegments: 20, BaseY: 200}

	t.Run("above", func(t *testing.T) {
		frame := buildFrame(geom, []BarState{{Smoothed: 0, Peak: 128}}, DefaultPalette)

		if n := countColor(frame.Segments, PeakColor); n != 1 {
			t.Errorf("%d peak markers", n)
		}
		if n := countColor(frame.Segments, UnlitColor); n != 19 {
			t.Errorf("%d unlit segments", n)
		}
	})

	t.Run("level", func(t *testing.T) {
		frame := buildFrame(geom, []BarState{{Smoothed: 128, Peak: 128}}, DefaultPalette)

		var glowing int
		for _, s := range frame.Segments {
			if s.Glow > 0 {
				glowing++
			}
		}

		if glowing != 10 {
			t.Errorf("%d lit segments, expected 10", glowing)
		}
		// The peak slot is left empty when the marker isn't drawn.
		if n := countColor(frame.Segments, UnlitColor); n != 9 {
			t.Errorf("%d unlit segments", n)
		}
	})
}

func TestIdleLevel(t *testing.T) {
	for i := 0; i < 100; i++ {
		for _, tm := range []float64{0, 0.5, 1.7, 1000.25} {
			if lvl := IdleLevel(tm, i); lvl < 1 || lvl > 5 {
				t.Fatalf("IdleLevel(%v, %d) = %d", tm, i, lvl)
			}
		}
	}
}

type fakeSource struct {
	playing bool
	freq    []byte
}

func (s *fakeSource) FrequencySnapshot() []byte { return s.freq }
func (s *fakeSource) IsPlaying() bool           { return s.playing }

type fakeRenderer struct {
	frames []Frame
}

func (r *fakeRenderer) Render(f Frame) { r.frames = append(r.frames, f) }

type fakeTicker struct {
	callbacks []func() bool
}

func (t *fakeTicker) Tick(_ time.Duration, f func() bool) {
	t.callbacks = append(t.callbacks, f)
}

func newTestVisualizer() (*Visualizer, *fakeRenderer, *fakeTicker) {
	r := &fakeRenderer{}
	tk := &fakeTicker{}

	v := New(r, tk, Options{})
	v.now = func() time.Time { return time.Unix(100, 0) }
	v.Resize(600, 400)

	return v, r, tk
}

func TestStartStopIdempotent(t *testing.T) {
	v, r, tk := newTestVisualizer()

	v.Start()
	v.Start()

	if len(tk.callbacks) != 1 {
		t.Fatalf("%d tick callbacks after starting twice", len(tk.callbacks))
	}

	if !tk.callbacks[0]() {
		t.Fatal("running callback asked to stop")
	}

	v.Stop()
	v.Stop()

	if tk.callbacks[0]() {
		t.Fatal("callback kept going after Stop")
	}

	v.Start()

	if len(tk.callbacks) != 2 {
		t.Fatalf("%d tick callbacks after restarting", len(tk.callbacks))
	}

	// The old chain must stay dead after a restart.
	if tk.callbacks[0]() {
		t.Error("old callback revived by restart")
	}
	if !tk.callbacks[1]() {
		t.Error("new callback asked to stop")
	}

	if len(r.frames) != 2 {
		t.Errorf("%d frames rendered, expected 2", len(r.frames))
	}
}

func TestIdleWhenNotPlaying(t *testing.T) {
	v, r, _ := newTestVisualizer()

	// No source.
	v.Step()

	src := &fakeSource{playing: false, freq: filled(128, 255)}
	v.Attach(src)
	v.Step()

	// Playing, but no data.
	src.playing = true
	src.freq = nil
	v.Step()

	for i, frame := range r.frames {
		if !frame.Idle {
			t.Errorf("frame %d is not idle", i)
		}
	}

	for _, bar := range v.Bars() {
		if bar.Smoothed != 0 {
			t.Fatal("idle frames changed the bar state")
		}
	}
}

func TestPlayingFrame(t *testing.T) {
	v, r, _ := newTestVisualizer()

	v.Attach(&fakeSource{playing: true, freq: filled(128, 255)})
	v.Step()

	frame := r.frames[0]
	if frame.Idle {
		t.Fatal("frame is idle while playing")
	}

	if len(v.Bars()) != v.Geometry().Bars {
		t.Fatalf("%d bars in state, %d in geometry", len(v.Bars()), v.Geometry().Bars)
	}

	if v.Bars()[v.Geometry().Bars-1].Smoothed == 0 {
		t.Error("last bar has no level")
	}
}

func TestResizeResetsState(t *testing.T) {
	v, _, _ := newTestVisualizer()

	v.Attach(&fakeSource{playing: true, freq: filled(128, 255)})
	v.Step()

	v.Resize(300, 400)

	if n := len(v.Bars()); n != 16 {
		t.Fatalf("%d bars after resize", n)
	}
	for _, bar := range v.Bars() {
		if bar != (BarState{}) {
			t.Fatal("bar state not reset after resize")
		}
	}
}
