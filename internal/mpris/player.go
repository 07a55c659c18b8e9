package mpris

import (
	"log"
	"math"
	"net/url"
	"strings"
	"time"

	"github.com/diamondburned/glass/internal/muse"
	"github.com/diamondburned/glass/internal/muse/playlist"
	"github.com/diamondburned/glass/internal/state"
	"github.com/diamondburned/glass/internal/ui"
	"github.com/diamondburned/glass/internal/ui/content/body/tracks"
	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/prop"
	"github.com/gotk3/gotk3/glib"
	"github.com/pkg/errors"
)

type microsecond = int64

func secondsToMicroseconds(secs float64) microsecond {
	const us = float64(time.Second / time.Microsecond)
	return microsecond(math.Round(secs * us))
}

func microsecondsToSeconds(usec microsecond) float64 {
	const us = float64(time.Second / time.Microsecond)
	return float64(usec) / us
}

const noTrackID = dbus.ObjectPath("/org/mpris/MediaPlayer2/TrackList/NoTrack")

// trackID turns a track ID into an object path. Object path elements may only
// contain [A-Za-z0-9_].
func trackID(id string) dbus.ObjectPath {
	if id == "" {
		return noTrackID
	}

	elem := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, id)

	return dbus.ObjectPath(tracksPath + "/" + elem)
}

var noTrackMetadata = map[string]interface{}{
	"mpris:trackid": noTrackID,
}

func trackMetadata(track playlist.Track) map[string]interface{} {
	u := url.URL{Scheme: "file", Path: track.Filepath}

	return map[string]interface{}{
		"mpris:trackid": trackID(track.ID),
		"mpris:length":  track.Duration.Microseconds(),
		"xesam:title":   track.Title,
		"xesam:url":     u.String(),
	}
}

type player struct {
	*ui.MainWindow
	propQ chan propChange
	stop  chan struct{}

	// state, only touched in the main thread
	trackID dbus.ObjectPath
	lastPos int64 // seconds
}

var (
	_ muse.EventHandler = (*player)(nil)
	_ state.View        = (*player)(nil)
)

type propChange struct {
	n string
	v interface{}
}

func newPlayer(w *ui.MainWindow) *player {
	return &player{
		MainWindow: w,
		propQ:      make(chan propChange, 10),
		stop:       make(chan struct{}),
		trackID:    noTrackID,
		lastPos:    -1,
	}
}

// start starts the worker that sets the properties.
func (p *player) start(props *prop.Properties) {
	go func() {
		for {
			select {
			case <-p.stop:
				return
			case send := <-p.propQ:
				if err := props.Set(playerID, send.n, dbus.MakeVariant(send.v)); err != nil {
					log.Println("MPRIS set prop failed:", err)
				}
			}
		}
	}()
}

// Destroy stops background workers.
func (p *player) Destroy() {
	close(p.stop)
}

// sendProp queues the prop to be sent through DBus. It pops off the first item
// of the queue if it's full.
func (p *player) sendProp(n string, v interface{}) {
	prop := propChange{n, v}

	for {
		select {
		case <-p.stop:
			return
		case p.propQ <- prop:
			return
		default:
			log.Println("Warning: prop send buffer overflow.")

			// Try and pop the earliest prop out.
			select {
			case <-p.propQ:
			default:
			}
		}
	}
}

func (p *player) changeVolume(c *prop.Change) *dbus.Error {
	v, ok := c.Value.(float64)
	if !ok {
		return dbus.MakeFailedError(errors.New("volume is not a double"))
	}

	glib.IdleAdd(func() {
		// The slider calls back into the session.
		p.Bar.Volume.SetVolume(v)
	})

	return nil
}

// Muse event handler and view methods. Each one updates the window first.

func (p *player) OnPauseUpdate(paused bool) {
	p.MainWindow.OnPauseUpdate(paused)

	switch {
	case p.trackID == noTrackID:
		p.sendProp("PlaybackStatus", "Stopped")
	case paused:
		p.sendProp("PlaybackStatus", "Paused")
	default:
		p.sendProp("PlaybackStatus", "Playing")
	}
}

func (p *player) OnPositionChange(pos, total float64) {
	p.MainWindow.OnPositionChange(pos, total)

	// Position is not emitted, so there's no point in sending it more than
	// once a second.
	if secs := int64(pos); secs != p.lastPos {
		p.lastPos = secs
		p.sendProp("Position", secondsToMicroseconds(pos))
	}
}

func (p *player) SetNowPlaying(track playlist.Track) {
	p.MainWindow.SetNowPlaying(track)

	p.trackID = trackID(track.ID)
	p.lastPos = -1

	if track.IsZero() {
		p.sendProp("Metadata", noTrackMetadata)
		p.sendProp("PlaybackStatus", "Stopped")
		return
	}

	p.sendProp("Metadata", trackMetadata(track))
}

// DBus methods. These are called from the DBus goroutine.

func (p *player) Next() *dbus.Error {
	glib.IdleAdd(func() { p.State().Next() })
	return nil
}

func (p *player) Previous() *dbus.Error {
	glib.IdleAdd(func() { p.State().Previous() })
	return nil
}

func (p *player) Pause() *dbus.Error {
	glib.IdleAdd(func() { p.State().Pause() })
	return nil
}

func (p *player) Play() *dbus.Error {
	glib.IdleAdd(func() { p.State().Play() })
	return nil
}

func (p *player) Stop() *dbus.Error {
	glib.IdleAdd(func() {
		p.State().Pause()
		p.State().Seek(0)
	})
	return nil
}

func (p *player) PlayPause() *dbus.Error {
	glib.IdleAdd(func() { p.State().TogglePlay() })
	return nil
}

func (p *player) Seek(us microsecond) *dbus.Error {
	glib.IdleAdd(func() {
		pos, _ := p.Session().Position()
		p.State().Seek(pos + microsecondsToSeconds(us))
	})
	return nil
}

func (p *player) SetPosition(id dbus.ObjectPath, us microsecond) *dbus.Error {
	glib.IdleAdd(func() {
		// Seek if our trackID is not stale.
		if p.trackID == id {
			p.State().Seek(microsecondsToSeconds(us))
		}
	})
	return nil
}

func (p *player) OpenUri(uri string) *dbus.Error {
	paths := tracks.ParseURIList(uri)
	if len(paths) == 0 {
		return dbus.MakeFailedError(errors.New("only local files can be opened"))
	}

	glib.IdleAdd(func() { p.State().AddFiles(paths) })
	return nil
}
