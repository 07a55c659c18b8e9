// Package playlist contains the in-memory play queue.
package playlist

import (
	"sort"
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Observer is notified of playlist changes. Methods are called synchronously
// from whichever goroutine mutated the playlist, which is the main thread in
// practice.
type Observer interface {
	// OnTrackSelect is called when the cursor is moved onto a track, including
	// when the same track is selected again.
	OnTrackSelect(Track)
	// OnPlaylistChange is called with a copy of the tracks after they're
	// added, removed or updated.
	OnPlaylistChange([]Track)
}

// ObserverFuncs implements Observer with optional functions.
type ObserverFuncs struct {
	TrackSelect    func(Track)
	PlaylistChange func([]Track)
}

var _ Observer = ObserverFuncs{}

func (o ObserverFuncs) OnTrackSelect(t Track) {
	if o.TrackSelect != nil {
		o.TrackSelect(t)
	}
}

func (o ObserverFuncs) OnPlaylistChange(ts []Track) {
	if o.PlaylistChange != nil {
		o.PlaylistChange(ts)
	}
}

// Playlist is an ordered list of tracks with a cursor. The cursor is either
// -1, meaning no selection, or a valid index. A Playlist is not thread-safe.
type Playlist struct {
	tracks []*Track
	cursor int

	observers []observerEntry
	observeID int
}

type observerEntry struct {
	id  int
	obs Observer
}

// New creates an empty playlist with no selection.
func New() *Playlist {
	return &Playlist{cursor: -1}
}

// Subscribe adds an observer. The returned function removes it.
func (pl *Playlist) Subscribe(obs Observer) (unsubscribe func()) {
	pl.observeID++
	id := pl.observeID

	pl.observers = append(pl.observers, observerEntry{id, obs})

	return func() {
		for i, entry := range pl.observers {
			if entry.id == id {
				pl.observers = append(pl.observers[:i], pl.observers[i+1:]...)
				return
			}
		}
	}
}

func (pl *Playlist) notifySelect(t *Track) {
	for _, entry := range pl.observers {
		entry.obs.OnTrackSelect(*t)
	}
}

func (pl *Playlist) notifyChange() {
	if len(pl.observers) == 0 {
		return
	}

	tracks := pl.Tracks()
	for _, entry := range pl.observers {
		entry.obs.OnPlaylistChange(tracks)
	}
}

// Len returns the number of tracks.
func (pl *Playlist) Len() int {
	return len(pl.tracks)
}

// Cursor returns the current index, or -1 if nothing is selected.
func (pl *Playlist) Cursor() int {
	return pl.cursor
}

// Tracks returns a copy of all tracks.
func (pl *Playlist) Tracks() []Track {
	tracks := make([]Track, len(pl.tracks))
	for i, t := range pl.tracks {
		tracks[i] = *t
	}
	return tracks
}

// Track returns the track with the given ID.
func (pl *Playlist) Track(id string) (Track, bool) {
	if ix := pl.index(id); ix != -1 {
		return *pl.tracks[ix], true
	}
	return Track{}, false
}

func (pl *Playlist) index(id string) int {
	for i, t := range pl.tracks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// Add appends a track for the given path and returns it.
func (pl *Playlist) Add(path string) Track {
	track := NewTrack(path)
	pl.tracks = append(pl.tracks, &track)
	pl.notifyChange()
	return track
}

// AddPaths appends a track for each path and notifies observers once.
func (pl *Playlist) AddPaths(paths ...string) []Track {
	if len(paths) == 0 {
		return nil
	}

	added := make([]Track, len(paths))

	for i, path := range paths {
		track := NewTrack(path)
		pl.tracks = append(pl.tracks, &track)
		added[i] = track
	}

	pl.notifyChange()
	return added
}

// Remove removes the track with the given ID. If the removed track is the
// selected one, the selection is cleared; if it is before the selected one, the
// cursor moves back by one so it keeps pointing at the same track. False is
// returned if no such track exists.
func (pl *Playlist) Remove(id string) bool {
	ix := pl.index(id)
	if ix == -1 {
		return false
	}

	// https://github.com/golang/go/wiki/SliceTricks
	copy(pl.tracks[ix:], pl.tracks[ix+1:])   // shift backwards
	pl.tracks[len(pl.tracks)-1] = nil        // nil last
	pl.tracks = pl.tracks[:len(pl.tracks)-1] // omit last

	switch {
	case ix < pl.cursor:
		pl.cursor--
	case ix == pl.cursor:
		pl.cursor = -1
	}

	pl.notifyChange()
	return true
}

// Clear removes all tracks and the selection.
func (pl *Playlist) Clear() {
	pl.tracks = nil
	pl.cursor = -1
	pl.notifyChange()
}

// Select moves the cursor onto the track with the given ID and notifies
// observers. It returns false if there is no such track.
func (pl *Playlist) Select(id string) bool {
	ix := pl.index(id)
	if ix == -1 {
		return false
	}

	pl.cursor = ix
	pl.notifySelect(pl.tracks[ix])
	return true
}

// Current returns the selected track.
func (pl *Playlist) Current() (Track, bool) {
	if pl.cursor < 0 || pl.cursor >= len(pl.tracks) {
		return Track{}, false
	}
	return *pl.tracks[pl.cursor], true
}

// Next moves the cursor forward, wrapping around to the first track. False is
// returned if the playlist is empty.
func (pl *Playlist) Next() (Track, bool) {
	return pl.move(true)
}

// Previous moves the cursor backwards, wrapping around to the last track. With
// no selection, it selects the last track. False is returned if the playlist is
// empty.
func (pl *Playlist) Previous() (Track, bool) {
	return pl.move(false)
}

func (pl *Playlist) move(forward bool) (Track, bool) {
	if len(pl.tracks) == 0 {
		return Track{}, false
	}

	pl.cursor, _ = spinIndex(forward, pl.cursor, len(pl.tracks))

	track := pl.tracks[pl.cursor]
	pl.notifySelect(track)

	return *track, true
}

// spinIndex spins the index. It returns the newly spun index and whether it was
// spun back.
func spinIndex(fwd bool, i, max int) (int, bool) {
	if fwd {
		i++

		if i >= max {
			return 0, true
		}
	} else {
		i--

		if i < 0 {
			return max - 1, true
		}
	}

	return i, false
}

// SetDuration sets the duration of a track if it doesn't have one yet. It
// returns true if the track was updated.
func (pl *Playlist) SetDuration(id string, d time.Duration) bool {
	ix := pl.index(id)
	if ix == -1 || d <= 0 || pl.tracks[ix].Duration > 0 {
		return false
	}

	pl.tracks[ix].Duration = d
	pl.notifyChange()
	return true
}

// Search returns the tracks whose titles fuzzily match the query, best match
// first. An empty query returns all tracks in order.
func (pl *Playlist) Search(query string) []Track {
	if query == "" {
		return pl.Tracks()
	}

	titles := make([]string, len(pl.tracks))
	for i, t := range pl.tracks {
		titles[i] = t.Title
	}

	ranks := fuzzy.RankFindFold(query, titles)
	sort.Stable(ranks)

	found := make([]Track, len(ranks))
	for i, rank := range ranks {
		found[i] = *pl.tracks[rank.OriginalIndex]
	}

	return found
}
