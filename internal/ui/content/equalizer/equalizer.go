// Package equalizer contains the equalizer panel: one vertical slider per
// band.
package equalizer

import (
	"fmt"
	"strconv"

	"github.com/diamondburned/glass/internal/muse/graph"
	"github.com/diamondburned/glass/internal/ui/css"
	"github.com/gotk3/gotk3/gtk"
)

type ParentController interface {
	SetBandGain(index int, db float64)
}

var panelCSS = css.PrepareClass("equalizer", `
	.equalizer {
		padding: 8px 16px;
		background-color: #0a0a12;
		border-top: 1px solid alpha(#22d3ee, 0.15);
	}
`)

var bandCSS = css.PrepareClass("equalizer-band", `
	scale highlight {
		background: #22d3ee;
	}
`)

var bandLabelCSS = css.PrepareClass("equalizer-band-label", `
	label {
		font-size: 0.8em;
		opacity: 0.65;
	}
`)

// Panel is a revealer holding the band sliders.
type Panel struct {
	gtk.Revealer
	Bands [graph.BandCount]*gtk.Scale
	Reset *gtk.Button
}

func NewPanel(parent ParentController) *Panel {
	p := &Panel{}

	box, _ := gtk.BoxNew(gtk.ORIENTATION_HORIZONTAL, 12)
	box.SetHAlign(gtk.ALIGN_CENTER)
	box.Show()

	for i, freq := range graph.BandFrequencies {
		i := i

		scale, _ := gtk.ScaleNewWithRange(gtk.ORIENTATION_VERTICAL, graph.MinBandGain, graph.MaxBandGain, 1)
		scale.SetInverted(true)
		scale.SetDrawValue(true)
		scale.SetValuePos(gtk.POS_BOTTOM)
		scale.SetDigits(0)
		scale.SetSizeRequest(-1, 120)
		scale.AddMark(0, gtk.POS_RIGHT, "")
		scale.SetValue(0)
		scale.Connect("value-changed", func() {
			parent.SetBandGain(i, scale.GetValue())
		})
		scale.Show()
		bandCSS(scale)

		label, _ := gtk.LabelNew(FrequencyLabel(freq))
		label.Show()
		bandLabelCSS(label)

		band, _ := gtk.BoxNew(gtk.ORIENTATION_VERTICAL, 2)
		band.PackStart(scale, true, true, 0)
		band.PackStart(label, false, false, 0)
		band.Show()

		box.PackStart(band, false, false, 0)
		p.Bands[i] = scale
	}

	reset, _ := gtk.ButtonNewWithLabel("Flat")
	reset.SetRelief(gtk.RELIEF_NONE)
	reset.SetVAlign(gtk.ALIGN_CENTER)
	reset.SetTooltipText("Reset all bands to 0 dB")
	reset.Connect("clicked", p.Flatten)
	reset.Show()
	box.PackStart(reset, false, false, 0)
	p.Reset = reset

	rev, _ := gtk.RevealerNew()
	rev.SetTransitionType(gtk.REVEALER_TRANSITION_TYPE_SLIDE_UP)
	rev.SetRevealChild(false)
	rev.Add(box)
	panelCSS(box)

	p.Revealer = *rev
	return p
}

// Flatten sets every band to 0 dB.
func (p *Panel) Flatten() {
	for _, band := range p.Bands {
		band.SetValue(0)
	}
}

// FrequencyLabel formats a band's center frequency, e.g. "310 Hz" or
// "12 kHz".
func FrequencyLabel(hz float64) string {
	if hz >= 1000 {
		return fmt.Sprintf("%s kHz", strconv.FormatFloat(hz/1000, 'f', -1, 64))
	}
	return fmt.Sprintf("%s Hz", strconv.FormatFloat(hz, 'f', -1, 64))
}
