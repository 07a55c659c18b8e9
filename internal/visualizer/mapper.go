package visualizer

import "math"

const (
	// Smoothing is the weight of the previous frame's value.
	Smoothing = 0.7
	// PeakDecay is how much a peak falls each frame, in byte units.
	PeakDecay = 2
)

// BucketRange returns the range of frequency bins [start, end) that bar i of
// bars covers out of bins bins. Ranges grow with the bar index by an exponent
// of 1.5 over the lower 80% of the bins, so low frequencies get more bars.
func BucketRange(i, bars, bins int) (start, end int) {
	if bars <= 0 {
		return 0, 0
	}

	scale := float64(bins) * 0.8

	start = int(math.Floor(math.Pow(float64(i)/float64(bars), 1.5) * scale))
	end = int(math.Floor(math.Pow(float64(i+1)/float64(bars), 1.5) * scale))

	if end > bins {
		end = bins
	}
	if start > end {
		start = end
	}

	return start, end
}

// Boost returns the gain applied to bar i, rising linearly towards the high
// end.
func Boost(i, bars int) float64 {
	if bars <= 0 {
		return 1
	}
	return 1 + float64(i)/float64(bars)*0.8
}

// BarState is the smoothed level and the held peak of a bar, both in [0, 255].
type BarState struct {
	Smoothed float64
	Peak     float64
}

// Mapper maps frequency snapshots to smoothed bar levels with peak hold. The
// zero value has no bars.
type Mapper struct {
	// NearestBin makes a bar whose bucket is empty take the value of its
	// start bin instead of zero.
	NearestBin bool

	bars []BarState
}

// NewMapper creates a mapper with the given number of bars.
func NewMapper(bars int) *Mapper {
	m := &Mapper{}
	m.Resize(bars)
	return m
}

// Resize sets the number of bars. The state is reset to zero if the count
// changes.
func (m *Mapper) Resize(bars int) {
	if bars < 0 {
		bars = 0
	}
	if bars == len(m.bars) {
		return
	}
	m.bars = make([]BarState, bars)
}

// Len returns the number of bars.
func (m *Mapper) Len() int { return len(m.bars) }

// Bars returns the state of every bar. The slice must not be modified.
func (m *Mapper) Bars() []BarState { return m.bars }

// Reset zeroes the state.
func (m *Mapper) Reset() {
	for i := range m.bars {
		m.bars[i] = BarState{}
	}
}

// Update advances the state by one frame of frequency data.
func (m *Mapper) Update(freq []byte) {
	count := len(m.bars)

	for i := range m.bars {
		value := m.bucketValue(freq, i, count)

		boosted := value * Boost(i, count)
		if boosted > 255 {
			boosted = 255
		}

		bar := &m.bars[i]
		bar.Smoothed = bar.Smoothed*Smoothing + boosted*(1-Smoothing)

		if bar.Smoothed > bar.Peak {
			bar.Peak = bar.Smoothed
		} else {
			bar.Peak = math.Max(0, bar.Peak-PeakDecay)
		}
	}
}

func (m *Mapper) bucketValue(freq []byte, i, count int) float64 {
	start, end := BucketRange(i, count, len(freq))

	if start == end {
		if m.NearestBin && start < len(freq) {
			return float64(freq[start])
		}
		return 0
	}

	var sum int
	for _, v := range freq[start:end] {
		sum += int(v)
	}

	return float64(sum) / float64(end-start)
}

// Segments quantizes a level in [0, 255] into a segment count.
func Segments(level float64, maxSegments int) int {
	return int(math.Floor(level / 255 * float64(maxSegments)))
}
