package bar

import (
	"fmt"
	"math"

	"github.com/diamondburned/glass/internal/ui/content/bar/controls"
	"github.com/diamondburned/glass/internal/ui/css"
	"github.com/gotk3/gotk3/gdk"
	"github.com/gotk3/gotk3/gtk"
)

// volumeStep is how much one scroll tick changes the volume, in percent.
const volumeStep = 5

var volumeSliderCSS = css.PrepareClass("volume-slider", `
	scale {
		margin: 0;
		padding-left: 2px;
	}
`)

var volumeLabelCSS = css.PrepareClass("volume-label", `
	label {
		font-size: 0.8em;
		opacity: 0.65;
		min-width: 3em;
	}
`)

var muteButtonCSS = css.PrepareClass("mute-button", `
	button {
		margin:  0;
		color:   @theme_fg_color;
		opacity: 0.5;
		box-shadow: none;
		background: none;
	}

	button:hover {
		opacity: 1;
	}
`)

// Volume is the mute toggle, the volume slider and a percentage label. The
// slider works in percent while the parent is given fractions in [0, 1].
type Volume struct {
	gtk.Box

	Icon    *gtk.Image
	Mute    *gtk.ToggleButton
	Slider  *gtk.Scale
	Percent *gtk.Label

	percent float64
	muted   bool
}

// NewVolume creates the volume controls. The initial volume is in [0, 1] and
// is not sent to the parent.
func NewVolume(parent ParentController, initial float64) *Volume {
	icon, _ := gtk.ImageNew()
	icon.Show()

	mute, _ := gtk.ToggleButtonNew()
	mute.SetRelief(gtk.RELIEF_NONE)
	mute.SetImage(icon)
	mute.SetTooltipText("Mute")
	mute.Show()
	muteButtonCSS(mute)

	slider, _ := gtk.ScaleNewWithRange(gtk.ORIENTATION_HORIZONTAL, 0, 100, 1)
	slider.SetSizeRequest(100, -1)
	slider.SetDrawValue(false)
	slider.Show()
	controls.CleanScaleCSS(slider)
	volumeSliderCSS(slider)

	label, _ := gtk.LabelNew("")
	label.SetSingleLineMode(true)
	label.SetXAlign(1)
	label.Show()
	volumeLabelCSS(label)

	box, _ := gtk.BoxNew(gtk.ORIENTATION_HORIZONTAL, 0)
	box.PackStart(mute, false, false, 0)
	box.PackStart(slider, true, true, 0)
	box.PackStart(label, false, false, 4)
	box.SetVAlign(gtk.ALIGN_CENTER)
	box.SetHAlign(gtk.ALIGN_END)
	box.SetHExpand(true)

	v := &Volume{
		Box:     *box,
		Icon:    icon,
		Mute:    mute,
		Slider:  slider,
		Percent: label,
		percent: clampPercent(math.Round(initial * 100)),
	}

	// Set the value before connecting, so the initial volume isn't echoed
	// back to the session.
	slider.SetValue(v.percent)
	v.update()

	mute.Connect("toggled", func() {
		v.muted = mute.GetActive()
		v.update()
		slider.SetSensitive(!v.muted)
		parent.SetMute(v.muted)
	})

	slider.Connect("value-changed", func() {
		v.percent = clampPercent(slider.GetValue())
		v.update()
		parent.SetVolume(v.percent / 100)
	})

	// Scrolling over the mute button nudges the volume.
	mute.AddEvents(int(gdk.SCROLL_MASK))
	mute.Connect("scroll-event", func(_ *gtk.ToggleButton, ev *gdk.Event) bool {
		scroll := gdk.EventScrollNewFromEvent(ev)

		switch scroll.Direction() {
		case gdk.SCROLL_UP:
			v.nudge(volumeStep)
		case gdk.SCROLL_DOWN:
			v.nudge(-volumeStep)
		default:
			return false
		}

		return true
	})

	return v
}

// SetVolume moves the slider to the given fraction in [0, 1]. The slider then
// notifies the parent as if the user dragged it.
func (v *Volume) SetVolume(frac float64) {
	v.Slider.SetValue(clampPercent(frac * 100))
}

// Fraction returns the volume in [0, 1].
func (v *Volume) Fraction() float64 {
	return v.percent / 100
}

// IsMuted returns true if the volume is muted.
func (v *Volume) IsMuted() bool {
	return v.muted
}

func (v *Volume) nudge(delta float64) {
	if !v.muted {
		v.Slider.SetValue(clampPercent(v.percent + delta))
	}
}

func (v *Volume) update() {
	v.Icon.SetFromIconName(volumeIcon(v.percent, v.muted), gtk.ICON_SIZE_BUTTON)
	v.Percent.SetText(fmt.Sprintf("%.0f%%", v.percent))
}

// volumeIcon picks the symbolic icon for a volume in percent.
func volumeIcon(percent float64, muted bool) string {
	switch {
	case percent < 1 || muted:
		return "audio-volume-muted-symbolic"
	case percent < 30:
		return "audio-volume-low-symbolic"
	case percent < 80:
		return "audio-volume-medium-symbolic"
	default:
		return "audio-volume-high-symbolic"
	}
}

func clampPercent(perc float64) float64 {
	return math.Max(0, math.Min(100, perc))
}
