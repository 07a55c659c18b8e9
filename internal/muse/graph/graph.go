// Package graph implements the audio node graph that the player analyses its
// output with. The topology is fixed:
//
//    source -> band0 -> band1 -> band2 -> band3 -> band4 -> analyser -> gain -> output
//
// A Graph is safe to use from multiple goroutines.
package graph

import "sync"

// Node is a processing node. Process transforms the block in place.
type Node interface {
	Process(block []float64)
}

// Output is the sink at the end of the graph.
type Output interface {
	Write(block []float64)
}

type discard struct{}

func (discard) Write([]float64) {}

// Discard is an Output that drops everything.
var Discard Output = discard{}

// Gain is a linear gain node.
type Gain struct {
	value float64
}

// NewGain creates a gain node at unity gain.
func NewGain() *Gain { return &Gain{value: 1} }

// Value returns the linear gain.
func (g *Gain) Value() float64 { return g.value }

// SetValue sets the linear gain.
func (g *Gain) SetValue(v float64) { g.value = v }

// Process multiplies the block by the gain.
func (g *Gain) Process(block []float64) {
	if g.value == 1 {
		return
	}
	for i := range block {
		block[i] *= g.value
	}
}

// Graph wires the equalizer, the analyser and the gain stage together. It is
// built once and never rewired; changing the source only changes what blocks
// are fed into Process.
type Graph struct {
	mu sync.Mutex

	sampleRate float64
	equalizer  *Equalizer
	analyser   *Analyser
	gain       *Gain
	output     Output

	chain []Node
}

// NewGraph builds the graph. If out is nil, the output is discarded.
func NewGraph(sampleRate float64, opts AnalyserOptions, out Output) *Graph {
	if out == nil {
		out = Discard
	}

	g := &Graph{
		sampleRate: sampleRate,
		equalizer:  NewEqualizer(sampleRate),
		analyser:   NewAnalyser(opts),
		gain:       NewGain(),
		output:     out,
	}

	g.chain = make([]Node, 0, BandCount+2)
	for i := 0; i < BandCount; i++ {
		g.chain = append(g.chain, g.equalizer.Filter(i))
	}
	g.chain = append(g.chain, g.analyser, g.gain)

	return g
}

// SampleRate returns the sample rate that the filters were designed for.
func (g *Graph) SampleRate() float64 { return g.sampleRate }

// Process runs a block from the source through the graph and into the output.
// The block is modified.
func (g *Graph) Process(block []float64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, node := range g.chain {
		node.Process(block)
	}

	g.output.Write(block)
}

// Reset clears all filter and analyser history, which is needed when the
// source is swapped or seeked.
func (g *Graph) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.equalizer.Reset()
	g.analyser.Reset()
}

// SetBandGain sets the gain of an equalizer band, clamped to the valid range.
// An out of range index is a no-op and returns false.
func (g *Graph) SetBandGain(index int, db float64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.equalizer.SetGain(index, db)
}

// BandGain returns the gain of an equalizer band, or 0 if out of range.
func (g *Graph) BandGain(index int) float64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.equalizer.Gain(index)
}

// Bands returns all equalizer bands.
func (g *Graph) Bands() []Band {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.equalizer.Bands()
}

// SetGain sets the linear gain stage value.
func (g *Graph) SetGain(v float64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.gain.SetValue(v)
}

// Gain returns the linear gain stage value.
func (g *Graph) Gain() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.gain.Value()
}

// FrequencyBinCount returns the analyser's bin count.
func (g *Graph) FrequencyBinCount() int {
	return g.analyser.FrequencyBinCount()
}

// FrequencySnapshot returns a new slice of FrequencyBinCount bytes.
func (g *Graph) FrequencySnapshot() []byte {
	g.mu.Lock()
	defer g.mu.Unlock()

	b := make([]byte, g.analyser.FrequencyBinCount())
	g.analyser.ByteFrequencyData(b)
	return b
}

// WaveformSnapshot returns a new slice of FFTSize bytes.
func (g *Graph) WaveformSnapshot() []byte {
	g.mu.Lock()
	defer g.mu.Unlock()

	b := make([]byte, g.analyser.FFTSize())
	g.analyser.ByteTimeDomainData(b)
	return b
}
