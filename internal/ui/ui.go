package ui

import (
	"path/filepath"

	"github.com/diamondburned/glass/internal/muse"
	"github.com/diamondburned/glass/internal/muse/playlist"
	"github.com/diamondburned/glass/internal/state"
	"github.com/diamondburned/glass/internal/ui/content"
	"github.com/diamondburned/glass/internal/ui/content/body/canvas"
	"github.com/diamondburned/glass/internal/ui/css"
	"github.com/diamondburned/glass/internal/ui/header"
	"github.com/diamondburned/glass/internal/visualizer"
	"github.com/gotk3/gotk3/gtk"
	"github.com/pkg/errors"
)

func init() {
	css.LoadGlobal("main", `
		window.glass {
			background-color: #050508;
			color: #e0e0e8;
		}
	`)
}

var windowCSS = css.PrepareClass("glass", "")

type MainWindow struct {
	gtk.ApplicationWindow
	content.Container

	Header  *header.Container
	InfoBar *gtk.InfoBar

	errorLabel *gtk.Label

	session *muse.Session
	state   *state.State
	vis     *visualizer.Visualizer

}

var (
	_ muse.EventHandler = (*MainWindow)(nil)
	_ state.View        = (*MainWindow)(nil)
)

// NewMainWindow creates the main window. UseState must be called before the
// window is shown.
func NewMainWindow(a *gtk.Application, session *muse.Session) (*MainWindow, error) {
	w, err := gtk.ApplicationWindowNew(a)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create window")
	}
	w.SetTitle("Glass")
	w.SetDefaultSize(900, 560)
	windowCSS(w)

	mw := &MainWindow{
		ApplicationWindow: *w,
		session:           session,
	}

	mw.Header = header.NewContainer(mw)
	mw.Header.Show()
	w.SetTitlebar(mw.Header)

	mw.errorLabel, _ = gtk.LabelNew("")
	mw.errorLabel.SetLineWrap(true)
	mw.errorLabel.SetXAlign(0)
	mw.errorLabel.Show()

	mw.InfoBar, _ = gtk.InfoBarNew()
	mw.InfoBar.SetMessageType(gtk.MESSAGE_ERROR)
	mw.InfoBar.SetShowCloseButton(true)
	mw.InfoBar.Connect("response", func() { mw.InfoBar.Hide() })

	area, _ := mw.InfoBar.GetContentArea()
	area.Add(mw.errorLabel)

	mw.Container = content.NewContainer(mw, session.Volume())

	box, _ := gtk.BoxNew(gtk.ORIENTATION_VERTICAL, 0)
	box.PackStart(mw.InfoBar, false, false, 0)
	box.PackStart(mw.ContentBox, true, true, 0)
	box.Show()
	w.Add(box)

	w.Connect("destroy", func() {
		if mw.vis != nil {
			mw.vis.Stop()
		}
	})

	return mw, nil
}

// UseState makes the window control the given state. The state's view should
// be this window, or wrap it.
func (w *MainWindow) UseState(s *state.State) {
	w.state = s

	s.Playlist.Subscribe(playlist.ObserverFuncs{
		PlaylistChange: w.Body.Tracks.SetTracks,
	})

	w.Body.Tracks.SetTracks(s.Playlist.Tracks())
}

// UseVisualizer attaches the visualizer to the session and starts it.
func (w *MainWindow) UseVisualizer(vis *visualizer.Visualizer) {
	if w.vis != nil {
		w.vis.Stop()
	}

	w.vis = vis
	w.vis.Attach(w.session)
	w.vis.Start()
}

// Canvas returns the visualizer's drawing area.
func (w *MainWindow) Canvas() *canvas.Canvas {
	return w.Body.Canvas
}

// State returns the controller set with UseState.
func (w *MainWindow) State() *state.State { return w.state }

// Session returns the playback session.
func (w *MainWindow) Session() *muse.Session { return w.session }

func (w *MainWindow) OnPauseUpdate(paused bool) {
	w.Bar.SetPaused(paused)
}

func (w *MainWindow) OnPositionChange(pos, total float64) {
	w.Bar.Controls.Seek.UpdatePosition(pos, total)
}

func (w *MainWindow) OnTrackEnd() {
	w.state.OnTrackEnd()
}

func (w *MainWindow) OnError(err error) {
	w.state.OnError(err)
}

// SetNowPlaying shows the track in the header and the playlist. The zero
// track clears it.
func (w *MainWindow) SetNowPlaying(track playlist.Track) {
	w.Body.Tracks.SetPlaying(track.ID)
	w.Bar.Controls.Seek.Reset()

	if track.IsZero() {
		w.SetTitle("Glass")
		w.Header.SetNowPlaying("", "")
		return
	}

	w.InfoBar.Hide()
	w.SetTitle(track.Title + " - Glass")
	w.Header.SetNowPlaying(track.Title, filepath.Base(track.Filepath))
}

func (w *MainWindow) SetLoading(loading bool) {
	w.Header.SetLoading(loading)
}

// ShowError shows a single error message, replacing the previous one.
func (w *MainWindow) ShowError(message string) {
	w.errorLabel.SetText(message)
	w.InfoBar.Show()
}

func (w *MainWindow) ToggleMaximize() {
	maximized := !w.IsMaximized()
	if maximized {
		w.Maximize()
	} else {
		w.Unmaximize()
	}
	w.Header.SetMaximized(maximized)
}

func (w *MainWindow) SetEqualizerVisible(visible bool) {
	w.Equalizer.SetRevealChild(visible)
}

func (w *MainWindow) SetTracksVisible(visible bool) {
	w.Body.SetTracksVisible(visible)
}

func (w *MainWindow) ResizeVisualizer(width, height float64) {
	if w.vis != nil {
		w.vis.Resize(width, height)
	}
}

func (w *MainWindow) AddFiles(paths []string)           { w.state.AddFiles(paths) }
func (w *MainWindow) SelectTrack(id string)             { w.state.SelectTrack(id) }
func (w *MainWindow) RemoveTrack(id string)             { w.state.RemoveTrack(id) }
func (w *MainWindow) Previous()                         { w.state.Previous() }
func (w *MainWindow) Next()                             { w.state.Next() }
func (w *MainWindow) SetPlay(playing bool)              { w.state.SetPlay(playing) }
func (w *MainWindow) SeekPercent(percent float64)       { w.state.SeekPercent(percent) }
func (w *MainWindow) SetVolume(v float64)               { w.state.SetVolume(v) }
func (w *MainWindow) SetMute(muted bool)                { w.state.SetMute(muted) }
func (w *MainWindow) SetBandGain(index int, db float64) { w.state.SetBandGain(index, db) }

func (w *MainWindow) SearchTracks(query string) []playlist.Track {
	return w.state.Playlist.Search(query)
}
