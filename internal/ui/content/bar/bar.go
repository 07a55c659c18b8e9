// Package bar contains the control bar.
package bar

import (
	"github.com/diamondburned/glass/internal/ui/content/bar/controls"
	"github.com/diamondburned/glass/internal/ui/css"
	"github.com/gotk3/gotk3/gtk"
)

type ParentController interface {
	controls.ParentController
	SetVolume(v float64)
	SetMute(muted bool)
}

var barCSS = css.PrepareClass("control-bar", `
	.control-bar {
		padding: 0 12px 8px 12px;
		background-color: #0a0a12;
	}
`)

type Container struct {
	gtk.Grid

	Controls *controls.Container
	Volume   *Volume
}

func NewContainer(parent ParentController, volume float64) *Container {
	c := Container{}

	c.Controls = controls.NewContainer(parent)
	c.Controls.SetHExpand(true)
	c.Controls.SetHAlign(gtk.ALIGN_FILL)

	c.Volume = NewVolume(parent, volume)
	c.Volume.Show()

	spacer, _ := gtk.BoxNew(gtk.ORIENTATION_HORIZONTAL, 0)
	spacer.Show()

	grid, _ := gtk.GridNew()
	grid.SetColumnHomogeneous(true)
	grid.SetColumnSpacing(5)
	grid.SetHExpand(true)
	barCSS(grid)

	grid.Attach(spacer, 0, 0, 2, 1)     // 1st column; 2 columns
	grid.Attach(c.Controls, 2, 0, 4, 1) // 2nd-3rd;    4 columns
	grid.Attach(c.Volume, 6, 0, 2, 1)   // 4th column; 2 columns

	c.Grid = *grid
	return &c
}

// SetPaused sets the paused state.
func (c *Container) SetPaused(paused bool) {
	c.Controls.Buttons.Play.SetPlaying(!paused)
}
