package graph

import (
	"github.com/cwbudde/algo-dsp/dsp/filter/biquad"
	"github.com/cwbudde/algo-dsp/dsp/filter/design"
)

// Biquad is a second-order peaking filter: a center frequency, a Q and a gain
// in decibels, the same parameters a Web Audio "peaking" BiquadFilter takes.
type Biquad struct {
	frequency  float64
	q          float64
	gain       float64
	sampleRate float64

	// section is nil when the filter is a passthrough.
	section *biquad.Section
}

// NewPeaking creates a new peaking filter at 0dB gain.
func NewPeaking(sampleRate, frequency, q float64) *Biquad {
	bq := &Biquad{
		frequency:  frequency,
		q:          q,
		sampleRate: sampleRate,
	}
	bq.rebuild()
	return bq
}

// Frequency returns the center frequency in Hz.
func (bq *Biquad) Frequency() float64 { return bq.frequency }

// Gain returns the gain in decibels.
func (bq *Biquad) Gain() float64 { return bq.gain }

// SetGain sets the gain in decibels and rebuilds the section.
func (bq *Biquad) SetGain(db float64) {
	if bq.gain == db {
		return
	}
	bq.gain = db
	bq.rebuild()
}

// Reset clears the filter history.
func (bq *Biquad) Reset() {
	bq.rebuild()
}

// passthrough returns true if the center frequency is outside (0, Nyquist),
// where the filter cannot do anything.
func (bq *Biquad) passthrough() bool {
	return bq.frequency <= 0 || bq.frequency >= bq.sampleRate/2
}

func (bq *Biquad) rebuild() {
	if bq.passthrough() {
		bq.section = nil
		return
	}

	coeffs := design.Peak(bq.frequency, bq.gain, bq.q, bq.sampleRate)
	bq.section = biquad.NewSection(coeffs)
}

// Process filters the block in place.
func (bq *Biquad) Process(block []float64) {
	if bq.section == nil {
		return
	}

	for i, x := range block {
		block[i] = bq.section.ProcessSample(x)
	}
}
