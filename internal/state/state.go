// Package state ties the playlist to the playback session. It holds no GTK
// state, so the window only forwards user input here and draws what it is
// told to.
package state

import (
	"context"
	"log"

	"github.com/diamondburned/glass/internal/muse"
	"github.com/diamondburned/glass/internal/muse/playlist"
	"github.com/pkg/errors"
)

// RestartThreshold is how far into a track, in seconds, Previous restarts the
// track instead of going to the previous one.
const RestartThreshold = 3

// Player is the playback side. It is implemented by *muse.Session.
type Player interface {
	LoadSource(ctx context.Context, path string) (playlist.Track, error)
	Play() error
	Pause() error
	IsPlaying() bool
	Position() (pos, total float64)
	Seek(pos float64) error
	SeekPercent(percent float64) error
	SetVolume(v float64) error
	SetMute(muted bool) error
	SetBandGain(index int, db float64) error
}

var _ Player = (*muse.Session)(nil)

// View is what the window shows. Methods are called on the main thread.
type View interface {
	SetNowPlaying(track playlist.Track)
	SetLoading(loading bool)
	ShowError(message string)
}

// State is the player's controller. All methods must be called on the main
// thread.
type State struct {
	Playlist *playlist.Playlist

	player Player
	view   View
	// async runs f in the background; idle runs f on the main thread.
	async func(f func())
	idle  func(f func())

	cancel context.CancelFunc
	// loadID is bumped on every load so that late results are dropped.
	loadID  uint64
	loading bool
}

// New creates a controller around an existing playlist. idle must run the
// function on the main thread, e.g. with glib.IdleAdd.
func New(pl *playlist.Playlist, player Player, view View, idle func(func())) *State {
	s := &State{
		Playlist: pl,
		player:   player,
		view:     view,
		async:    func(f func()) { go f() },
		idle:     idle,
	}

	pl.Subscribe(playlist.ObserverFuncs{
		TrackSelect: s.loadAndPlay,
	})

	return s
}

// AddFiles adds the files to the playlist. Playlist files are expanded into
// the tracks they list. If the playlist was empty, the first added track is
// selected and starts playing.
func (s *State) AddFiles(paths []string) []playlist.Track {
	expanded, errs := playlist.ExpandPaths(paths)
	for _, err := range errs {
		log.Println("Failed to add files:", err)
	}
	if len(errs) > 0 {
		s.view.ShowError("Some playlist files could not be read.")
	}

	if len(expanded) == 0 {
		return nil
	}

	wasEmpty := s.Playlist.Len() == 0
	added := s.Playlist.AddPaths(expanded...)

	if wasEmpty {
		s.Playlist.Select(added[0].ID)
	}

	return added
}

// SelectTrack selects the track with the given ID and plays it.
func (s *State) SelectTrack(id string) {
	s.Playlist.Select(id)
}

// RemoveTrack removes a track. Removing the playing track stops playback.
func (s *State) RemoveTrack(id string) {
	current, ok := s.Playlist.Current()

	if !s.Playlist.Remove(id) {
		return
	}

	if ok && current.ID == id {
		s.stopLoading()
		if err := s.player.Pause(); err != nil {
			log.Println("Pause failed:", err)
		}
		s.view.SetNowPlaying(playlist.Track{})
	}
}

// Play resumes playback, or starts playing the first track if nothing is
// selected yet.
func (s *State) Play() {
	if _, ok := s.Playlist.Current(); !ok {
		if tracks := s.Playlist.Tracks(); len(tracks) > 0 {
			s.Playlist.Select(tracks[0].ID)
		}
		return
	}

	s.play()
}

func (s *State) play() {
	if err := s.player.Play(); err != nil {
		s.showError(err)
	}
}

// Pause pauses playback.
func (s *State) Pause() {
	if err := s.player.Pause(); err != nil {
		log.Println("Pause failed:", err)
	}
}

// SetPlay plays or pauses.
func (s *State) SetPlay(playing bool) {
	if playing {
		s.Play()
	} else {
		s.Pause()
	}
}

// TogglePlay pauses if playing and plays otherwise.
func (s *State) TogglePlay() {
	s.SetPlay(!s.player.IsPlaying())
}

// Next plays the next track, wrapping around.
func (s *State) Next() {
	s.Playlist.Next()
}

// Previous restarts the current track if it has been playing for more than a
// few seconds, and goes to the previous track otherwise.
func (s *State) Previous() {
	if pos, _ := s.player.Position(); pos > RestartThreshold {
		s.Seek(0)
		return
	}

	s.Playlist.Previous()
}

// Seek seeks to the position in seconds.
func (s *State) Seek(pos float64) {
	if err := s.player.Seek(pos); err != nil {
		log.Println("Seek failed:", err)
	}
}

// SeekPercent seeks to a percentage of the track.
func (s *State) SeekPercent(percent float64) {
	if err := s.player.SeekPercent(percent); err != nil {
		log.Println("Seek failed:", err)
	}
}

// SetVolume sets the volume in [0, 1].
func (s *State) SetVolume(v float64) {
	if err := s.player.SetVolume(v); err != nil {
		log.Println("SetVolume failed:", err)
	}
}

// SetMute mutes or unmutes.
func (s *State) SetMute(muted bool) {
	if err := s.player.SetMute(muted); err != nil {
		log.Println("SetMute failed:", err)
	}
}

// SetBandGain sets an equalizer band's gain in decibels.
func (s *State) SetBandGain(index int, db float64) {
	if err := s.player.SetBandGain(index, db); err != nil {
		log.Println("SetBandGain failed:", err)
	}
}

// OnTrackEnd advances to the next track. It must be called when the playing
// track reaches its end naturally.
func (s *State) OnTrackEnd() {
	s.Playlist.Next()
}

// OnError shows a playback error. Errors never advance the playlist.
func (s *State) OnError(err error) {
	s.showError(err)
}

func (s *State) showError(err error) {
	log.Println("Playback error:", err)

	if loadErr, ok := muse.IsLoadError(err); ok {
		s.view.ShowError(loadErr.Message())
		return
	}

	s.view.ShowError("Failed to play the file.")
}

func (s *State) stopLoading() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}

	s.loadID++
	s.setLoading(false)
}

func (s *State) setLoading(loading bool) {
	if s.loading != loading {
		s.loading = loading
		s.view.SetLoading(loading)
	}
}

// loadAndPlay loads the selected track in the background and plays it once
// it's ready. Selecting another track in the meantime discards the result.
func (s *State) loadAndPlay(track playlist.Track) {
	s.stopLoading()

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	id := s.loadID
	s.setLoading(true)

	s.async(func() {
		loaded, err := s.player.LoadSource(ctx, track.Filepath)

		s.idle(func() {
			// Superseded by a newer selection.
			if id != s.loadID {
				return
			}

			cancel()
			s.cancel = nil
			s.setLoading(false)

			if err != nil {
				if errors.Is(err, muse.ErrStaleLoad) || errors.Is(err, context.Canceled) {
					return
				}
				s.showError(err)
				return
			}

			s.Playlist.SetDuration(track.ID, loaded.Duration)

			if current, ok := s.Playlist.Track(track.ID); ok {
				track = current
			}

			s.view.SetNowPlaying(track)
			s.play()
		})
	})
}
