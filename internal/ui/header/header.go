// Package header contains the window's title bar.
package header

import (
	"html"

	"github.com/diamondburned/glass/internal/ui/css"
	"github.com/gotk3/gotk3/gtk"
	"github.com/gotk3/gotk3/pango"
)

type ParentController interface {
	gtk.IWindow
	AddFiles(paths []string)
	SetEqualizerVisible(visible bool)
	SetTracksVisible(visible bool)

	Iconify()
	ToggleMaximize()
	Close()
}

var headerCSS = css.PrepareClass("glass-header", `
	headerbar.glass-header {
		background: #0a0a12;
		border-bottom: 1px solid alpha(#22d3ee, 0.15);
	}
`)

var windowButtonCSS = css.PrepareClass("window-button", `
	button {
		opacity: 0.6;
		box-shadow: none;
		background: none;
	}
	button:hover {
		opacity: 1;
	}
`)

var subtitleCSS = css.PrepareClass("subtitle", `
	label {
		font-size: 0.85em;
		opacity: 0.65;
	}
`)

type Container struct {
	gtk.HeaderBar

	AddFiles  *gtk.Button
	Tracks    *gtk.ToggleButton
	Equalizer *gtk.ToggleButton

	Title    *gtk.Label
	Subtitle *gtk.Label
	Spinner  *gtk.Spinner

	Minimize *gtk.Button
	Maximize *gtk.Button
	Close    *gtk.Button
}

func newIconButton(icon, tooltip string) *gtk.Button {
	btn, _ := gtk.ButtonNewFromIconName(icon, gtk.ICON_SIZE_BUTTON)
	btn.SetRelief(gtk.RELIEF_NONE)
	btn.SetTooltipText(tooltip)
	btn.SetVAlign(gtk.ALIGN_CENTER)
	btn.Show()
	return btn
}

func newIconToggle(icon, tooltip string, active bool) *gtk.ToggleButton {
	img, _ := gtk.ImageNewFromIconName(icon, gtk.ICON_SIZE_BUTTON)
	img.Show()

	btn, _ := gtk.ToggleButtonNew()
	btn.SetImage(img)
	btn.SetRelief(gtk.RELIEF_NONE)
	btn.SetTooltipText(tooltip)
	btn.SetVAlign(gtk.ALIGN_CENTER)
	btn.SetActive(active)
	btn.Show()
	return btn
}

func NewContainer(parent ParentController) *Container {
	c := &Container{}

	c.AddFiles = newIconButton("list-add-symbolic", "Add Files")
	c.AddFiles.Connect("clicked", func() {
		if paths := openFileDialog(parent); len(paths) > 0 {
			parent.AddFiles(paths)
		}
	})

	c.Tracks = newIconToggle("view-list-symbolic", "Playlist", true)
	c.Tracks.Connect("toggled", func() {
		parent.SetTracksVisible(c.Tracks.GetActive())
	})

	c.Equalizer = newIconToggle("multimedia-equalizer-symbolic", "Equalizer", false)
	c.Equalizer.Connect("toggled", func() {
		parent.SetEqualizerVisible(c.Equalizer.GetActive())
	})

	c.Title, _ = gtk.LabelNew("")
	c.Title.SetEllipsize(pango.ELLIPSIZE_END)
	c.Title.SetSingleLineMode(true)
	c.Title.Show()

	c.Subtitle, _ = gtk.LabelNew("")
	c.Subtitle.SetEllipsize(pango.ELLIPSIZE_END)
	c.Subtitle.SetSingleLineMode(true)
	subtitleCSS(c.Subtitle)

	titleBox, _ := gtk.BoxNew(gtk.ORIENTATION_VERTICAL, 0)
	titleBox.SetVAlign(gtk.ALIGN_CENTER)
	titleBox.PackStart(c.Title, false, false, 0)
	titleBox.PackStart(c.Subtitle, false, false, 0)
	titleBox.Show()

	c.Spinner, _ = gtk.SpinnerNew()
	c.Spinner.SetTooltipText("Loading")

	centerBox, _ := gtk.BoxNew(gtk.ORIENTATION_HORIZONTAL, 6)
	centerBox.PackStart(c.Spinner, false, false, 0)
	centerBox.PackStart(titleBox, true, true, 0)
	centerBox.Show()

	c.Minimize = newIconButton("window-minimize-symbolic", "Minimize")
	c.Minimize.Connect("clicked", parent.Iconify)
	windowButtonCSS(c.Minimize)

	c.Maximize = newIconButton("window-maximize-symbolic", "Maximize")
	c.Maximize.Connect("clicked", parent.ToggleMaximize)
	windowButtonCSS(c.Maximize)

	c.Close = newIconButton("window-close-symbolic", "Close")
	c.Close.Connect("clicked", parent.Close)
	windowButtonCSS(c.Close)

	hb, _ := gtk.HeaderBarNew()
	hb.SetShowCloseButton(false)
	hb.SetCustomTitle(centerBox)
	hb.PackStart(c.AddFiles)
	hb.PackStart(c.Tracks)
	hb.PackStart(c.Equalizer)
	hb.PackEnd(c.Close)
	hb.PackEnd(c.Maximize)
	hb.PackEnd(c.Minimize)
	headerCSS(hb)

	c.HeaderBar = *hb
	c.SetNowPlaying("", "")

	return c
}

// SetNowPlaying sets the title. An empty title shows the application name.
func (c *Container) SetNowPlaying(title, subtitle string) {
	if title == "" {
		title = "Glass"
		subtitle = ""
	}

	c.Title.SetMarkup("<b>" + html.EscapeString(title) + "</b>")
	c.Subtitle.SetText(subtitle)
	c.Subtitle.SetVisible(subtitle != "")
}

// SetLoading shows or hides the loading spinner.
func (c *Container) SetLoading(loading bool) {
	if loading {
		c.Spinner.Start()
		c.Spinner.Show()
	} else {
		c.Spinner.Stop()
		c.Spinner.Hide()
	}
}

// SetMaximized updates the maximize button's icon.
func (c *Container) SetMaximized(maximized bool) {
	icon := "window-maximize-symbolic"
	tooltip := "Maximize"
	if maximized {
		icon = "window-restore-symbolic"
		tooltip = "Restore"
	}

	img, _ := gtk.ImageNewFromIconName(icon, gtk.ICON_SIZE_BUTTON)
	img.Show()

	c.Maximize.SetImage(img)
	c.Maximize.SetTooltipText(tooltip)
}
