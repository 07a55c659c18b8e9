package content

import (
	"github.com/diamondburned/glass/internal/ui/content/bar"
	"github.com/diamondburned/glass/internal/ui/content/body"
	"github.com/diamondburned/glass/internal/ui/content/equalizer"
	"github.com/gotk3/gotk3/gtk"
)

type ParentController interface {
	body.ParentController
	bar.ParentController
	equalizer.ParentController
}

type Container struct {
	ContentBox *gtk.Box

	Body      *body.Container
	Equalizer *equalizer.Panel
	Bar       *bar.Container
}

func NewContainer(parent ParentController, volume float64) Container {
	body := body.NewContainer(parent)
	body.SetHExpand(true)
	body.SetVExpand(true)

	eq := equalizer.NewPanel(parent)
	eq.Show()

	separator, _ := gtk.SeparatorNew(gtk.ORIENTATION_HORIZONTAL)
	separator.Show()

	bar := bar.NewContainer(parent, volume)
	bar.Show()

	box, _ := gtk.BoxNew(gtk.ORIENTATION_VERTICAL, 0)
	box.SetHExpand(true)
	box.PackStart(body, true, true, 0)
	box.PackStart(eq, false, false, 0)
	box.PackStart(separator, false, false, 0)
	box.PackStart(bar, false, false, 0)
	box.Show()

	return Container{
		ContentBox: box,
		Body:       body,
		Equalizer:  eq,
		Bar:        bar,
	}
}
