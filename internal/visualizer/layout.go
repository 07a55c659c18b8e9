package visualizer

import "math"

// Layout is the fixed geometry of a single bar.
type Layout struct {
	BarWidth      float64
	BarGap        float64
	SegmentHeight float64
	SegmentGap    float64
}

// DefaultLayout is 12px bars 6px apart made of 6px segments.
var DefaultLayout = Layout{
	BarWidth:      12,
	BarGap:        6,
	SegmentHeight: 6,
	SegmentGap:    2,
}

// DefaultBars and DefaultMaxSegments are used until the first Resize.
const (
	DefaultBars        = 32
	DefaultMaxSegments = 20
)

func (l Layout) barPitch() float64     { return l.BarWidth + l.BarGap }
func (l Layout) segmentPitch() float64 { return l.SegmentHeight + l.SegmentGap }

func (l Layout) valid() bool {
	return l.barPitch() > 0 && l.segmentPitch() > 0 && l.BarWidth > 0 && l.SegmentHeight > 0
}

// Geometry is a layout fitted into a canvas.
type Geometry struct {
	Layout
	Width  float64
	Height float64

	Bars        int
	MaxSegments int
	// StartX centers the bars horizontally.
	StartX float64
	// BaseY is the bottom edge of the lowest segment.
	BaseY float64
}

// Fit fits the layout into a canvas of the given size.
func (l Layout) Fit(width, height float64) Geometry {
	if !l.valid() {
		l = DefaultLayout
	}

	bars := int(math.Floor(width / l.barPitch()))
	if bars < 0 {
		bars = 0
	}

	segments := int(math.Floor(height * 0.7 / l.segmentPitch()))
	if segments < 0 {
		segments = 0
	}

	return Geometry{
		Layout:      l,
		Width:       width,
		Height:      height,
		Bars:        bars,
		MaxSegments: segments,
		StartX:      (width - float64(bars)*l.barPitch()) / 2,
		BaseY:       height * 0.85,
	}
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	X, Y, W, H float64
}

// Segment returns the rectangle of a segment, counting segments from the
// bottom.
func (g Geometry) Segment(bar, segment int) Rect {
	y := g.BaseY - float64(segment)*g.segmentPitch()

	return Rect{
		X: g.StartX + float64(bar)*g.barPitch(),
		Y: y - g.SegmentHeight,
		W: g.BarWidth,
		H: g.SegmentHeight,
	}
}
