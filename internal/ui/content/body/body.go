// Package body contains the playlist and the visualizer, side by side.
package body

import (
	"time"

	"github.com/diamondburned/glass/internal/ui/content/body/canvas"
	"github.com/diamondburned/glass/internal/ui/content/body/tracks"
	"github.com/diamondburned/handy"
	"github.com/gotk3/gotk3/gtk"
)

type ParentController interface {
	tracks.ParentController
	// ResizeVisualizer is called when the canvas is resized.
	ResizeVisualizer(w, h float64)
}

type Container struct {
	handy.Leaflet

	Tracks *tracks.TrackList
	Canvas *canvas.Canvas

	separator *gtk.Separator
}

func NewContainer(parent ParentController) *Container {
	c := &Container{}

	c.Tracks = tracks.NewTrackList(parent)
	c.Tracks.SetHExpand(false)
	c.Tracks.Show()

	c.separator, _ = gtk.SeparatorNew(gtk.ORIENTATION_VERTICAL)
	c.separator.Show()

	sideBox, _ := gtk.BoxNew(gtk.ORIENTATION_HORIZONTAL, 0)
	sideBox.PackStart(c.Tracks, false, false, 0)
	sideBox.PackStart(c.separator, false, false, 0)
	sideBox.SetHExpand(false)
	sideBox.Show()

	c.Canvas = canvas.NewCanvas(parent.ResizeVisualizer)
	c.Canvas.Show()

	c.Leaflet = *handy.LeafletNew()
	c.Leaflet.Add(sideBox)
	c.Leaflet.Add(c.Canvas)
	c.Leaflet.Show()

	leafletOnFold(&c.Leaflet, func(folded bool) {
		c.separator.SetVisible(!folded && c.Tracks.GetVisible())
	})

	return c
}

// SetTracksVisible shows or hides the playlist.
func (c *Container) SetTracksVisible(visible bool) {
	c.Tracks.SetVisible(visible)
	c.separator.SetVisible(visible)
}

// leafletOnFold binds a callback to a leaflet that would be called when the
// leaflet's folded state changes.
func leafletOnFold(leaflet *handy.Leaflet, foldedFn func(folded bool)) {
	var lastFold = leaflet.GetFolded()
	foldedFn(lastFold)

	// Give each callback a 500ms wait for animations to complete.
	const dt = 500 * time.Millisecond
	var last = time.Now()

	leaflet.ConnectAfter("size-allocate", func() {
		// Ignore if this event is too recent.
		if now := time.Now(); now.Add(-dt).Before(last) {
			return
		} else {
			last = now
		}

		if folded := leaflet.GetFolded(); folded != lastFold {
			lastFold = folded
			foldedFn(folded)
		}
	})
}
