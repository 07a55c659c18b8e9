package graph

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/dsp/window"
)

// AnalyserOptions configures an Analyser. The zero value is not valid; use
// DefaultAnalyserOptions as a base.
type AnalyserOptions struct {
	// FFTSize is the number of time domain samples used per transform. It must
	// be a power of two.
	FFTSize int
	// Smoothing is the time constant blending the current magnitudes with the
	// previous ones, in [0, 1).
	Smoothing float64
	// MinDecibels and MaxDecibels are mapped to byte values 0 and 255.
	MinDecibels float64
	MaxDecibels float64
}

// DefaultAnalyserOptions is a 256-sample analyser with 128 bins.
var DefaultAnalyserOptions = AnalyserOptions{
	FFTSize:     256,
	Smoothing:   0.8,
	MinDecibels: -100,
	MaxDecibels: -30,
}

// Analyser is a passthrough node that keeps the latest FFTSize samples and
// produces byte frequency and waveform snapshots from them.
type Analyser struct {
	opts AnalyserOptions

	ring []float64 // time domain, ring buffer
	head int       // next write position in ring

	fft      *fourier.FFT
	windowed []float64
	coeffs   []complex128
	smoothed []float64
}

// NewAnalyser creates a new analyser. Invalid options are replaced by their
// defaults.
func NewAnalyser(opts AnalyserOptions) *Analyser {
	if opts.FFTSize < 2 || opts.FFTSize&(opts.FFTSize-1) != 0 {
		opts.FFTSize = DefaultAnalyserOptions.FFTSize
	}
	if opts.Smoothing < 0 || opts.Smoothing >= 1 {
		opts.Smoothing = DefaultAnalyserOptions.Smoothing
	}
	if opts.MinDecibels >= opts.MaxDecibels {
		opts.MinDecibels = DefaultAnalyserOptions.MinDecibels
		opts.MaxDecibels = DefaultAnalyserOptions.MaxDecibels
	}

	return &Analyser{
		opts:     opts,
		ring:     make([]float64, opts.FFTSize),
		fft:      fourier.NewFFT(opts.FFTSize),
		windowed: make([]float64, opts.FFTSize),
		coeffs:   make([]complex128, opts.FFTSize/2+1),
		smoothed: make([]float64, opts.FFTSize/2),
	}
}

// FFTSize returns the transform size.
func (a *Analyser) FFTSize() int { return a.opts.FFTSize }

// FrequencyBinCount returns the number of frequency bins, which is half the
// FFT size.
func (a *Analyser) FrequencyBinCount() int { return a.opts.FFTSize / 2 }

// Process records the block into the time domain buffer. The block is not
// modified.
func (a *Analyser) Process(block []float64) {
	// Only the tail of a long block is ever visible.
	if len(block) > len(a.ring) {
		block = block[len(block)-len(a.ring):]
	}

	for _, x := range block {
		a.ring[a.head] = x
		a.head = (a.head + 1) % len(a.ring)
	}
}

// Reset clears the time domain buffer and the smoothing history.
func (a *Analyser) Reset() {
	for i := range a.ring {
		a.ring[i] = 0
	}
	for i := range a.smoothed {
		a.smoothed[i] = 0
	}
	a.head = 0
}

// timeDomain copies the ring buffer into dst in chronological order.
func (a *Analyser) timeDomain(dst []float64) {
	n := copy(dst, a.ring[a.head:])
	copy(dst[n:], a.ring[:a.head])
}

// ByteFrequencyData computes the smoothed magnitude spectrum of the latest
// samples and writes it into dst as bytes, min decibels being 0 and max
// decibels being 255. At most FrequencyBinCount values are written; the number
// written is returned. Every call advances the smoothing.
func (a *Analyser) ByteFrequencyData(dst []byte) int {
	a.timeDomain(a.windowed)
	window.Blackman(a.windowed)
	a.fft.Coefficients(a.coeffs, a.windowed)

	var (
		size  = float64(a.opts.FFTSize)
		tau   = a.opts.Smoothing
		scale = 255 / (a.opts.MaxDecibels - a.opts.MinDecibels)
	)

	for k := range a.smoothed {
		c := a.coeffs[k]
		mag := math.Hypot(real(c), imag(c)) / size
		a.smoothed[k] = tau*a.smoothed[k] + (1-tau)*mag
	}

	n := len(dst)
	if n > len(a.smoothed) {
		n = len(a.smoothed)
	}

	for k := 0; k < n; k++ {
		// log10(0) is -Inf, which floors into 0 below.
		db := 20 * math.Log10(a.smoothed[k])
		v := math.Floor(scale * (db - a.opts.MinDecibels))

		switch {
		case math.IsNaN(v) || v < 0:
			dst[k] = 0
		case v > 255:
			dst[k] = 255
		default:
			dst[k] = byte(v)
		}
	}

	return n
}

// ByteTimeDomainData writes the latest samples into dst as bytes, 128 being
// silence. At most FFTSize values are written; the number written is returned.
func (a *Analyser) ByteTimeDomainData(dst []byte) int {
	samples := make([]float64, len(a.ring))
	a.timeDomain(samples)

	n := len(dst)
	if n > len(samples) {
		n = len(samples)
	}

	for i := 0; i < n; i++ {
		v := math.Floor(128 * (1 + samples[i]))
		switch {
		case v < 0:
			dst[i] = 0
		case v > 255:
			dst[i] = 255
		default:
			dst[i] = byte(v)
		}
	}

	return n
}
