// Package canvas draws visualizer frames onto a GTK drawing area.
package canvas

import (
	"math"
	"time"

	"github.com/diamondburned/glass/internal/ui/css"
	"github.com/diamondburned/glass/internal/visualizer"
	"github.com/gotk3/gotk3/cairo"
	"github.com/gotk3/gotk3/glib"
	"github.com/gotk3/gotk3/gtk"
)

// CornerRadius is the corner radius of every segment.
const CornerRadius = 2

// glowPasses is how many translucent outlines approximate a segment's glow.
const glowPasses = 3

var canvasCSS = css.PrepareClass("visualizer-canvas", `
	.visualizer-canvas {
		background-color: #050508;
	}
`)

// Canvas is a drawing area that implements visualizer.Renderer.
type Canvas struct {
	gtk.DrawingArea
	frame visualizer.Frame

	width    int
	height   int
	onResize func(w, h float64)
}

var _ visualizer.Renderer = (*Canvas)(nil)

// NewCanvas creates a canvas. onResize is called from the draw handler
// whenever the allocated size changes.
func NewCanvas(onResize func(w, h float64)) *Canvas {
	da, _ := gtk.DrawingAreaNew()
	da.SetHExpand(true)
	da.SetVExpand(true)
	da.SetSizeRequest(200, 150)
	canvasCSS(da)

	c := &Canvas{
		DrawingArea: *da,
		onResize:    onResize,
	}

	da.Connect("draw", func(_ *gtk.DrawingArea, cr *cairo.Context) bool {
		c.draw(cr)
		return false
	})

	return c
}

// Render stores the frame and schedules a redraw.
func (c *Canvas) Render(frame visualizer.Frame) {
	c.frame = frame
	c.QueueDraw()
}

func (c *Canvas) draw(cr *cairo.Context) {
	w := c.GetAllocatedWidth()
	h := c.GetAllocatedHeight()

	if w != c.width || h != c.height {
		c.width = w
		c.height = h
		if c.onResize != nil {
			c.onResize(float64(w), float64(h))
		}
	}

	cr.SetSourceRGB(0.02, 0.02, 0.03)
	cr.Paint()

	for _, seg := range c.frame.Segments {
		if seg.Glow > 0 {
			drawGlow(cr, seg)
		}

		setColor(cr, seg.Color, 1)
		roundedRect(cr, seg.Rect, CornerRadius)
		cr.Fill()
	}
}

// drawGlow fakes a blurred shadow with a few widening outlines, since cairo
// has no blur.
func drawGlow(cr *cairo.Context, seg visualizer.Segment) {
	for i := glowPasses; i > 0; i-- {
		spread := seg.Glow * float64(i) / glowPasses / 2

		rect := visualizer.Rect{
			X: seg.X - spread,
			Y: seg.Y - spread,
			W: seg.W + spread*2,
			H: seg.H + spread*2,
		}

		setColor(cr, seg.Color, 0.12/float64(i))
		roundedRect(cr, rect, CornerRadius+spread)
		cr.Fill()
	}
}

func setColor(cr *cairo.Context, c visualizer.Color, alpha float64) {
	cr.SetSourceRGBA(c.R, c.G, c.B, c.A*alpha)
}

func roundedRect(cr *cairo.Context, r visualizer.Rect, radius float64) {
	radius = math.Min(radius, math.Min(r.W, r.H)/2)

	const deg = math.Pi / 180

	cr.NewPath()
	cr.Arc(r.X+r.W-radius, r.Y+radius, radius, -90*deg, 0)
	cr.Arc(r.X+r.W-radius, r.Y+r.H-radius, radius, 0, 90*deg)
	cr.Arc(r.X+radius, r.Y+r.H-radius, radius, 90*deg, 180*deg)
	cr.Arc(r.X+radius, r.Y+radius, radius, 180*deg, 270*deg)
	cr.ClosePath()
}

// Ticker is a visualizer.Ticker running on the GLib main loop.
type Ticker struct{}

var _ visualizer.Ticker = Ticker{}

// Tick calls f on the main loop every interval until it returns false.
func (Ticker) Tick(interval time.Duration, f func() bool) {
	ms := uint(interval / time.Millisecond)
	if ms == 0 {
		ms = 1
	}

	glib.TimeoutAdd(ms, f)
}
