package visualizer

import "math"

// Glow radii for lit segments.
const (
	GlowHigh = 8
	GlowLow  = 3
	GlowPeak = 6
)

// Segment is a single LED segment to be drawn.
type Segment struct {
	Rect
	Color Color
	// Glow is the blur radius of the segment's glow, or 0 for none.
	Glow float64
}

// Frame is everything drawn in a single frame, in drawing order.
type Frame struct {
	Width    float64
	Height   float64
	Idle     bool
	Segments []Segment
}

// buildFrame draws the bars from the mapper's state.
func buildFrame(geom Geometry, bars []BarState, palette Palette) Frame {
	segments := make([]Segment, 0, len(bars)*geom.MaxSegments)

	for i, bar := range bars {
		lit := Segments(bar.Smoothed, geom.MaxSegments)
		peak := Segments(bar.Peak, geom.MaxSegments)

		for s := 0; s < lit; s++ {
			glow := float64(GlowLow)
			if float64(s) > float64(lit)*0.7 {
				glow = GlowHigh
			}

			segments = append(segments, Segment{
				Rect:  geom.Segment(i, s),
				Color: palette.SegmentColor(s, geom.MaxSegments, i),
				Glow:  glow,
			})
		}

		if peak > lit && peak > 0 {
			segments = append(segments, Segment{
				Rect:  geom.Segment(i, peak),
				Color: PeakColor,
				Glow:  GlowPeak,
			})
		}

		for s := lit; s < geom.MaxSegments; s++ {
			// The peak marker's slot is never drawn dim.
			if s == peak {
				continue
			}

			segments = append(segments, Segment{
				Rect:  geom.Segment(i, s),
				Color: UnlitColor,
			})
		}
	}

	return Frame{
		Width:    geom.Width,
		Height:   geom.Height,
		Segments: segments,
	}
}

// IdleLevel returns the number of lit segments of bar i in the idle animation
// at t seconds.
func IdleLevel(t float64, i int) int {
	wave := math.Sin(t*1.5+float64(i)*0.2)*0.5 + 0.5
	return int(math.Floor(wave*4)) + 1
}

// buildIdleFrame draws a slow sine wave that doesn't depend on any audio.
func buildIdleFrame(geom Geometry, t float64) Frame {
	segments := make([]Segment, 0, geom.Bars*geom.MaxSegments)

	for i := 0; i < geom.Bars; i++ {
		lit := IdleLevel(t, i)

		for s := 0; s < lit; s++ {
			segments = append(segments, Segment{
				Rect:  geom.Segment(i, s),
				Color: IdleColor,
			})
		}

		for s := lit; s < geom.MaxSegments; s++ {
			segments = append(segments, Segment{
				Rect:  geom.Segment(i, s),
				Color: IdleUnlitColor,
			})
		}
	}

	return Frame{
		Width:    geom.Width,
		Height:   geom.Height,
		Idle:     true,
		Segments: segments,
	}
}
