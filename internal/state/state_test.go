package state

import (
	"context"
	"testing"

	"github.com/diamondburned/glass/internal/muse"
	"github.com/diamondburned/glass/internal/muse/playlist"
	"github.com/go-test/deep"
	"github.com/pkg/errors"
)

type fakePlayer struct {
	loads   []string
	fail    map[string]error
	playing bool
	pos     float64
	seeks   []float64
	plays   int
}

func (p *fakePlayer) LoadSource(ctx context.Context, path string) (playlist.Track, error) {
	p.loads = append(p.loads, path)
	if err := p.fail[path]; err != nil {
		return playlist.Track{}, err
	}
	track := playlist.NewTrack(path)
	track.Duration = 90e9
	return track, nil
}

func (p *fakePlayer) Play() error {
	p.plays++
	p.playing = true
	return nil
}

func (p *fakePlayer) Pause() error {
	p.playing = false
	return nil
}

func (p *fakePlayer) IsPlaying() bool                { return p.playing }
func (p *fakePlayer) Position() (float64, float64)   { return p.pos, 90 }
func (p *fakePlayer) SeekPercent(float64) error      { return nil }
func (p *fakePlayer) SetVolume(float64) error        { return nil }
func (p *fakePlayer) SetMute(bool) error             { return nil }
func (p *fakePlayer) SetBandGain(int, float64) error { return nil }
func (p *fakePlayer) Seek(pos float64) error {
	p.seeks = append(p.seeks, pos)
	p.pos = pos
	return nil
}

type fakeView struct {
	nowPlaying []string
	errors     []string
	loading    []bool
}

func (v *fakeView) SetNowPlaying(t playlist.Track) { v.nowPlaying = append(v.nowPlaying, t.Title) }
func (v *fakeView) SetLoading(loading bool)        { v.loading = append(v.loading, loading) }
func (v *fakeView) ShowError(msg string)           { v.errors = append(v.errors, msg) }

func newTestState() (*State, *fakePlayer, *fakeView) {
	player := &fakePlayer{fail: map[string]error{}}
	view := &fakeView{}

	s := New(playlist.New(), player, view, func(f func()) { f() })
	s.async = func(f func()) { f() }

	return s, player, view
}

func TestAddFilesSelectsFirst(t *testing.T) {
	s, player, view := newTestState()

	s.AddFiles([]string{"/m/a.mp3", "/m/b.mp3"})

	if s.Playlist.Cursor() != 0 {
		t.Fatalf("cursor = %d after adding into an empty playlist", s.Playlist.Cursor())
	}
	if ineqs := deep.Equal(player.loads, []string{"/m/a.mp3"}); ineqs != nil {
		t.Errorf("loads = %q", player.loads)
	}
	if !player.playing {
		t.Error("first track is not playing")
	}
	if ineqs := deep.Equal(view.nowPlaying, []string{"a"}); ineqs != nil {
		t.Errorf("now playing = %q", view.nowPlaying)
	}
	if ineqs := deep.Equal(view.loading, []bool{true, false}); ineqs != nil {
		t.Errorf("loading = %v", view.loading)
	}

	// Adding more doesn't change the selection.
	s.AddFiles([]string{"/m/c.mp3"})

	if s.Playlist.Cursor() != 0 || len(player.loads) != 1 {
		t.Error("adding to a non-empty playlist changed the selection")
	}

	tracks := s.Playlist.Tracks()
	if tracks[0].Duration != 90e9 {
		t.Errorf("duration not recorded: %v", tracks[0].Duration)
	}
}

func TestPrevious(t *testing.T) {
	s, player, _ := newTestState()
	s.AddFiles([]string{"/m/a.mp3", "/m/b.mp3", "/m/c.mp3"})

	s.Next()
	if s.Playlist.Cursor() != 1 {
		t.Fatalf("cursor = %d after next", s.Playlist.Cursor())
	}

	// More than 3 seconds in: restart.
	player.pos = 12
	s.Previous()

	if s.Playlist.Cursor() != 1 {
		t.Errorf("previous changed the track while restarting")
	}
	if ineqs := deep.Equal(player.seeks, []float64{0}); ineqs != nil {
		t.Errorf("seeks = %v", player.seeks)
	}

	// At the start: go back.
	s.Previous()

	if s.Playlist.Cursor() != 0 {
		t.Errorf("cursor = %d, expected the previous track", s.Playlist.Cursor())
	}
}

func TestTrackEndAdvances(t *testing.T) {
	s, player, _ := newTestState()
	s.AddFiles([]string{"/m/a.mp3", "/m/b.mp3"})

	s.OnTrackEnd()
	s.OnTrackEnd()

	expect := []string{"/m/a.mp3", "/m/b.mp3", "/m/a.mp3"}
	if ineqs := deep.Equal(player.loads, expect); ineqs != nil {
		t.Errorf("loads = %q", player.loads)
	}
}

func TestLoadErrorShownOnce(t *testing.T) {
	s, player, view := newTestState()

	player.fail["/m/bad.xyz"] = &muse.LoadError{Kind: muse.UnsupportedFormat, Path: "/m/bad.xyz"}

	s.AddFiles([]string{"/m/bad.xyz", "/m/good.mp3"})

	if len(view.errors) != 1 {
		t.Fatalf("errors = %q", view.errors)
	}
	if view.errors[0] != (&muse.LoadError{Kind: muse.UnsupportedFormat}).Message() {
		t.Errorf("error message = %q", view.errors[0])
	}

	// Errors never advance on their own.
	if s.Playlist.Cursor() != 0 {
		t.Errorf("cursor moved to %d after a load error", s.Playlist.Cursor())
	}
	if player.plays != 0 {
		t.Error("played after a failed load")
	}
}

func TestStaleLoadDiscarded(t *testing.T) {
	s, player, view := newTestState()

	var pending []func()
	s.async = func(f func()) { pending = append(pending, f) }

	s.AddFiles([]string{"/m/a.mp3", "/m/b.mp3"})
	s.Next()

	if len(pending) != 2 {
		t.Fatalf("%d loads pending", len(pending))
	}

	// The first load completes last.
	pending[1]()
	pending[0]()

	if ineqs := deep.Equal(view.nowPlaying, []string{"b"}); ineqs != nil {
		t.Errorf("now playing = %q", view.nowPlaying)
	}
	if player.plays != 1 {
		t.Errorf("played %d times", player.plays)
	}
}

func TestStaleErrorIgnored(t *testing.T) {
	s, player, view := newTestState()

	player.fail["/m/a.mp3"] = errors.Wrap(muse.ErrStaleLoad, "load")

	s.AddFiles([]string{"/m/a.mp3"})

	if len(view.errors) != 0 {
		t.Errorf("stale load shown as error: %q", view.errors)
	}
}

func TestPlaySelectsFirst(t *testing.T) {
	s, player, _ := newTestState()

	// Nothing to play.
	s.Play()
	if len(player.loads) != 0 {
		t.Fatal("loaded from an empty playlist")
	}

	s.Playlist.AddPaths("/m/a.mp3", "/m/b.mp3")
	s.Play()

	if s.Playlist.Cursor() != 0 || len(player.loads) != 1 {
		t.Errorf("Play did not select the first track")
	}

	s.TogglePlay()
	if player.playing {
		t.Error("still playing after toggling")
	}
}

func TestRemovePlaying(t *testing.T) {
	s, player, view := newTestState()
	s.AddFiles([]string{"/m/a.mp3", "/m/b.mp3"})

	current, _ := s.Playlist.Current()
	s.RemoveTrack(current.ID)

	if player.playing {
		t.Error("still playing after removing the playing track")
	}
	if last := view.nowPlaying[len(view.nowPlaying)-1]; last != "" {
		t.Errorf("now playing = %q after removal", last)
	}
}
