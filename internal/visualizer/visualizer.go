// Package visualizer turns analyser snapshots into frames of LED-style bars.
// It knows nothing about the drawing surface: frames are handed to a Renderer,
// and the frame clock is provided by a Ticker.
package visualizer

import "time"

// FrequencySource provides the analyser data.
type FrequencySource interface {
	FrequencySnapshot() []byte
	IsPlaying() bool
}

// Renderer draws frames.
type Renderer interface {
	Render(Frame)
}

// Ticker calls f every interval until f returns false.
type Ticker interface {
	Tick(interval time.Duration, f func() bool)
}

// FrameInterval is the time between two frames.
const FrameInterval = time.Second / 60

// Visualizer drives the bars. All methods must be called from the same
// goroutine that the Ticker calls back on.
type Visualizer struct {
	source   FrequencySource
	renderer Renderer
	ticker   Ticker
	palette  Palette
	layout   Layout
	now      func() time.Time

	geom   Geometry
	mapper *Mapper

	running bool
	gen     uint64
}

// Options configures a Visualizer.
type Options struct {
	Layout     Layout
	Palette    Palette
	NearestBin bool
}

// New creates a stopped visualizer.
func New(r Renderer, t Ticker, opts Options) *Visualizer {
	if !opts.Layout.valid() {
		opts.Layout = DefaultLayout
	}
	if len(opts.Palette) == 0 {
		opts.Palette = DefaultPalette
	}

	v := &Visualizer{
		renderer: r,
		ticker:   t,
		palette:  opts.Palette,
		layout:   opts.Layout,
		now:      time.Now,
		mapper:   NewMapper(DefaultBars),
	}

	v.mapper.NearestBin = opts.NearestBin
	v.geom = Geometry{
		Layout:      opts.Layout,
		Bars:        DefaultBars,
		MaxSegments: DefaultMaxSegments,
	}

	return v
}

// Attach sets the source of frequency data. A nil source makes the visualizer
// show the idle animation.
func (v *Visualizer) Attach(src FrequencySource) {
	v.source = src
}

// Resize fits the bars into a new canvas size. The bar state is reset if the
// number of bars changes.
func (v *Visualizer) Resize(width, height float64) {
	v.geom = v.layout.Fit(width, height)
	v.mapper.Resize(v.geom.Bars)
}

// Geometry returns the current geometry.
func (v *Visualizer) Geometry() Geometry { return v.geom }

// Bars returns the current bar state.
func (v *Visualizer) Bars() []BarState { return v.mapper.Bars() }

// IsRunning returns true if frames are being produced.
func (v *Visualizer) IsRunning() bool { return v.running }

// Start starts producing frames. It does nothing if already started.
func (v *Visualizer) Start() {
	if v.running {
		return
	}

	v.running = true
	v.gen++
	gen := v.gen

	v.ticker.Tick(FrameInterval, func() bool {
		// A Stop followed by a Start bumps the generation, which stops the old
		// callback chain.
		if !v.running || v.gen != gen {
			return false
		}

		v.Step()
		return true
	})
}

// Stop stops producing frames. It does nothing if already stopped.
func (v *Visualizer) Stop() {
	if !v.running {
		return
	}

	v.running = false
	v.gen++
}

// Step produces and renders a single frame.
func (v *Visualizer) Step() {
	frame := v.nextFrame()

	if v.renderer != nil {
		v.renderer.Render(frame)
	}
}

func (v *Visualizer) nextFrame() Frame {
	if v.source != nil && v.source.IsPlaying() {
		if freq := v.source.FrequencySnapshot(); len(freq) > 0 {
			v.mapper.Update(freq)
			return buildFrame(v.geom, v.mapper.Bars(), v.palette)
		}
	}

	t := float64(v.now().UnixNano()) / float64(time.Second)
	return buildIdleFrame(v.geom, t)
}
