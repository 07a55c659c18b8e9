package controls

import (
	"github.com/diamondburned/glass/internal/ui/css"
	"github.com/gotk3/gotk3/gtk"
)

func newIconImage(symbolicName string) *gtk.Image {
	image, _ := gtk.ImageNewFromIconName(symbolicName, gtk.ICON_SIZE_BUTTON)
	image.Show()
	return image
}

var playbackButtonCSS = css.PrepareClass("playback-button", `
	button {
		margin: 2px 8px;
		margin-top: 10px;

		color:   @theme_fg_color;
		opacity: 0.5;

		box-shadow: none;
		background: none;
	}

	button:hover {
		opacity: 1;
	}
`)

var playPauseCSS = css.PrepareClass("playpause", `
	button {
		opacity: 0.75;
		border: 1px solid alpha(#22d3ee, 0.45);
	}
	button:hover {
		border: 1px solid alpha(#22d3ee, 0.85);
	}
`)

type Buttons struct {
	gtk.Box
	Prev *gtk.Button
	Play *PlayPause
	Next *gtk.Button
}

func newPlaybackButton(icon, tooltip string, clicked func()) *gtk.Button {
	btn, _ := gtk.ButtonNew()
	btn.SetRelief(gtk.RELIEF_NONE)
	btn.SetImage(newIconImage(icon))
	btn.SetTooltipText(tooltip)
	btn.SetVAlign(gtk.ALIGN_CENTER)
	btn.Connect("clicked", clicked)
	btn.Show()
	playbackButtonCSS(btn)
	return btn
}

func NewButtons(parent ParentController) *Buttons {
	prev := newPlaybackButton("media-skip-backward-symbolic", "Previous", parent.Previous)
	next := newPlaybackButton("media-skip-forward-symbolic", "Next", parent.Next)

	play := NewPlayPause(parent)
	play.SetVAlign(gtk.ALIGN_CENTER)
	play.Show()
	playbackButtonCSS(play)
	playPauseCSS(play)

	box, _ := gtk.BoxNew(gtk.ORIENTATION_HORIZONTAL, 0)
	box.PackStart(prev, false, false, 0)
	box.PackStart(play, false, false, 0)
	box.PackStart(next, false, false, 0)

	return &Buttons{
		Box:  *box,
		Prev: prev,
		Play: play,
		Next: next,
	}
}

type PlayPause struct {
	gtk.Button
	playing bool

	playIcon  *gtk.Image
	pauseIcon *gtk.Image
}

func NewPlayPause(parent ParentController) *PlayPause {
	pp := &PlayPause{
		playIcon:  newIconImage("media-playback-start-symbolic"),
		pauseIcon: newIconImage("media-playback-pause-symbolic"),
	}

	btn, _ := gtk.ButtonNew()
	btn.SetRelief(gtk.RELIEF_NONE)
	btn.Connect("clicked", func() { parent.SetPlay(!pp.playing) })

	pp.Button = *btn
	pp.SetPlaying(false)

	return pp
}

func (pp *PlayPause) IsPlaying() bool {
	return pp.playing
}

// SetPlaying only updates the icon. Clicking the button is what asks the
// player to change state.
func (pp *PlayPause) SetPlaying(playing bool) {
	pp.playing = playing

	if pp.playing {
		pp.SetImage(pp.pauseIcon)
		pp.SetTooltipText("Pause")
	} else {
		pp.SetImage(pp.playIcon)
		pp.SetTooltipText("Play")
	}
}
