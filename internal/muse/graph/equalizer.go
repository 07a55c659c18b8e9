package graph

// BandFrequencies are the fixed center frequencies of the equalizer bands, in
// Hz, ordered from the lowest band.
var BandFrequencies = [BandCount]float64{60, 310, 1000, 3000, 12000}

const (
	// BandCount is the number of equalizer bands.
	BandCount = 5
	// BandQ is the Q of every band.
	BandQ = 1

	MinBandGain = -12
	MaxBandGain = +12
)

// Band describes one equalizer band.
type Band struct {
	Frequency float64
	Gain      float64
}

// ClampGain clamps the decibel value into the band gain range.
func ClampGain(db float64) float64 {
	switch {
	case db < MinBandGain:
		return MinBandGain
	case db > MaxBandGain:
		return MaxBandGain
	default:
		return db
	}
}

// ValidBand returns true if the index points to an equalizer band.
func ValidBand(index int) bool {
	return index >= 0 && index < BandCount
}

// Equalizer is a chain of peaking filters in series, one per band.
type Equalizer struct {
	filters [BandCount]*Biquad
}

// NewEqualizer creates a flat equalizer for the given sample rate.
func NewEqualizer(sampleRate float64) *Equalizer {
	var eq Equalizer
	for i, freq := range BandFrequencies {
		eq.filters[i] = NewPeaking(sampleRate, freq, BandQ)
	}
	return &eq
}

// SetGain sets the gain of the band at the given index. The gain is clamped. It
// returns false and does nothing if the index is out of range.
func (eq *Equalizer) SetGain(index int, db float64) bool {
	if !ValidBand(index) {
		return false
	}
	eq.filters[index].SetGain(ClampGain(db))
	return true
}

// Gain returns the band gain, or 0 if the index is out of range.
func (eq *Equalizer) Gain(index int) float64 {
	if !ValidBand(index) {
		return 0
	}
	return eq.filters[index].Gain()
}

// Bands returns a copy of all bands.
func (eq *Equalizer) Bands() []Band {
	bands := make([]Band, BandCount)
	for i, f := range eq.filters {
		bands[i] = Band{Frequency: f.Frequency(), Gain: f.Gain()}
	}
	return bands
}

// Filter returns the filter node of the given band. It panics if the index is
// out of range.
func (eq *Equalizer) Filter(index int) *Biquad {
	return eq.filters[index]
}

// Reset clears the history of every band.
func (eq *Equalizer) Reset() {
	for _, f := range eq.filters {
		f.Reset()
	}
}
