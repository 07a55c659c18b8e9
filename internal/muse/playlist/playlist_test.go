package playlist

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/go-test/deep"
)

type playlistTest struct {
	name   string
	apply  func(t *testing.T, pl *Playlist)
	expect []string // paths
	cursor int
}

func testRunPlaylistTests(t *testing.T, tests []playlistTest) {
	t.Helper()

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			pl := New()
			test.apply(t, pl)

			assertPaths(t, pl.Tracks(), test.expect)

			if pl.Cursor() != test.cursor {
				t.Errorf("cursor = %d, expected %d", pl.Cursor(), test.cursor)
			}
		})
	}
}

func assertPaths(t *testing.T, tracks []Track, expected []string) {
	t.Helper()

	got := trackPaths(tracks)
	if ineqs := deep.Equal(got, expected); ineqs != nil {
		t.Errorf("got:      %s", fmtPaths(got))
		t.Errorf("expected: %s", fmtPaths(expected))
	}
}

func trackPaths(tracks []Track) []string {
	var paths = make([]string, len(tracks))
	for i, track := range tracks {
		paths[i] = track.Filepath
	}
	return paths
}

func fmtPaths(paths []string) string {
	var builder strings.Builder
	for _, path := range paths {
		fmt.Fprintf(&builder, "%q ", path)
	}
	return builder.String()
}

// idAt returns the ID of the track at the index.
func idAt(pl *Playlist, ix int) string {
	return pl.tracks[ix].ID
}

func TestAdd(t *testing.T) {
	testRunPlaylistTests(t, []playlistTest{
		{
			name: "empty",
			apply: func(t *testing.T, pl *Playlist) {
				if tr := pl.Add("/a/0.mp3"); tr.Title != "0" {
					t.Errorf("title = %q", tr.Title)
				}
			},
			expect: []string{"/a/0.mp3"},
			cursor: -1,
		},
		{
			name: "variadic",
			apply: func(t *testing.T, pl *Playlist) {
				pl.Add("/a/0.mp3")
				pl.AddPaths("/a/1.mp3", "/a/2.flac")
			},
			expect: []string{"/a/0.mp3", "/a/1.mp3", "/a/2.flac"},
			cursor: -1,
		},
		{
			name: "keeps selection",
			apply: func(t *testing.T, pl *Playlist) {
				pl.AddPaths("0", "1")
				pl.Select(idAt(pl, 1))
				pl.Add("2")
			},
			expect: []string{"0", "1", "2"},
			cursor: 1,
		},
	})
}

func TestAddUniqueIDs(t *testing.T) {
	pl := New()
	pl.AddPaths("same.mp3", "same.mp3", "same.mp3")

	seen := map[string]bool{}
	for _, track := range pl.Tracks() {
		if seen[track.ID] {
			t.Fatalf("duplicate ID %q", track.ID)
		}
		seen[track.ID] = true
	}
}

func TestRemove(t *testing.T) {
	testRunPlaylistTests(t, []playlistTest{
		{
			name: "only",
			apply: func(t *testing.T, pl *Playlist) {
				pl.Add("0")
				pl.Remove(idAt(pl, 0))
			},
			expect: []string{},
			cursor: -1,
		},
		{
			name: "selected",
			apply: func(t *testing.T, pl *Playlist) {
				pl.AddPaths("0", "1", "2")
				pl.Select(idAt(pl, 1))
				pl.Remove(idAt(pl, 1))

				if _, ok := pl.Current(); ok {
					t.Error("Current returned a track after removing the selection")
				}
			},
			expect: []string{"0", "2"},
			cursor: -1,
		},
		{
			name: "before cursor",
			apply: func(t *testing.T, pl *Playlist) {
				pl.AddPaths("0", "1", "2", "3")
				pl.Select(idAt(pl, 2))
				pl.Remove(idAt(pl, 0))

				if cur, _ := pl.Current(); cur.Filepath != "2" {
					t.Errorf("current = %q, expected 2", cur.Filepath)
				}
			},
			expect: []string{"1", "2", "3"},
			cursor: 1,
		},
		{
			name: "after cursor",
			apply: func(t *testing.T, pl *Playlist) {
				pl.AddPaths("0", "1", "2", "3")
				pl.Select(idAt(pl, 1))
				pl.Remove(idAt(pl, 3))
			},
			expect: []string{"0", "1", "2"},
			cursor: 1,
		},
		{
			name: "unknown",
			apply: func(t *testing.T, pl *Playlist) {
				pl.AddPaths("0", "1")
				pl.Select(idAt(pl, 0))

				if pl.Remove("nope") {
					t.Error("removed an unknown track")
				}
			},
			expect: []string{"0", "1"},
			cursor: 0,
		},
	})
}

func TestNextPrevious(t *testing.T) {
	testRunPlaylistTests(t, []playlistTest{
		{
			name: "next from none",
			apply: func(t *testing.T, pl *Playlist) {
				pl.AddPaths("0", "1", "2")
				pl.Next()
			},
			expect: []string{"0", "1", "2"},
			cursor: 0,
		},
		{
			name: "previous from none",
			apply: func(t *testing.T, pl *Playlist) {
				pl.AddPaths("0", "1", "2")
				pl.Previous()
			},
			expect: []string{"0", "1", "2"},
			cursor: 2,
		},
		{
			name: "next from last wraps",
			apply: func(t *testing.T, pl *Playlist) {
				pl.AddPaths("0", "1", "2")
				pl.Select(idAt(pl, 2))
				pl.Next()
			},
			expect: []string{"0", "1", "2"},
			cursor: 0,
		},
		{
			name: "previous from first wraps",
			apply: func(t *testing.T, pl *Playlist) {
				pl.AddPaths("0", "1", "2")
				pl.Select(idAt(pl, 0))
				pl.Previous()
			},
			expect: []string{"0", "1", "2"},
			cursor: 2,
		},
		{
			name: "empty",
			apply: func(t *testing.T, pl *Playlist) {
				if _, ok := pl.Next(); ok {
					t.Error("Next on empty playlist returned ok")
				}
				if _, ok := pl.Previous(); ok {
					t.Error("Previous on empty playlist returned ok")
				}
			},
			expect: []string{},
			cursor: -1,
		},
	})
}

func TestCursorAlwaysInRange(t *testing.T) {
	for length := 1; length <= 5; length++ {
		pl := New()
		for i := 0; i < length; i++ {
			pl.Add(fmt.Sprint(i))
		}

		for step := 0; step < length*3; step++ {
			forward := step%3 != 0

			if forward {
				pl.Next()
			} else {
				pl.Previous()
			}

			if c := pl.Cursor(); c < 0 || c >= length {
				t.Fatalf("length %d step %d: cursor %d out of range", length, step, c)
			}
		}
	}
}

func TestSelectNotifies(t *testing.T) {
	pl := New()
	pl.Add("only")

	var selected []string
	pl.Subscribe(ObserverFuncs{
		TrackSelect: func(t Track) { selected = append(selected, t.Filepath) },
	})

	pl.Select(idAt(pl, 0))
	pl.Next()
	pl.Previous()

	expect := []string{"only", "only", "only"}
	if ineqs := deep.Equal(selected, expect); ineqs != nil {
		t.Errorf("selected = %q, expected %q", selected, expect)
	}

	if pl.Select("missing") {
		t.Error("selected a missing track")
	}
	if len(selected) != 3 {
		t.Error("selecting a missing track notified")
	}
}

func TestUnsubscribe(t *testing.T) {
	pl := New()

	var changes int
	unsub := pl.Subscribe(ObserverFuncs{
		PlaylistChange: func([]Track) { changes++ },
	})

	pl.Add("0")
	unsub()
	pl.Add("1")

	if changes != 1 {
		t.Errorf("changes = %d, expected 1", changes)
	}
}

func TestEndToEnd(t *testing.T) {
	pl := New()

	var selected []Track
	pl.Subscribe(ObserverFuncs{
		TrackSelect: func(t Track) { selected = append(selected, t) },
	})

	pl.AddPaths("/music/a.mp3", "/music/b.ogg", "/music/c.flac")

	if pl.Len() != 3 || pl.Cursor() != -1 {
		t.Fatalf("len = %d, cursor = %d", pl.Len(), pl.Cursor())
	}

	first := pl.Tracks()[0]
	pl.Select(first.ID)

	if pl.Cursor() != 0 {
		t.Fatalf("cursor = %d after selecting first", pl.Cursor())
	}
	if ineqs := deep.Equal(selected, []Track{first}); ineqs != nil {
		t.Fatalf("select callback: %v", ineqs)
	}

	pl.Next()
	pl.Next()

	if pl.Cursor() != 2 {
		t.Fatalf("cursor = %d after two nexts", pl.Cursor())
	}

	pl.Next()

	if pl.Cursor() != 0 {
		t.Fatalf("cursor = %d, expected to wrap to 0", pl.Cursor())
	}
}

func TestSetDuration(t *testing.T) {
	pl := New()
	track := pl.Add("a.mp3")

	if pl.SetDuration(track.ID, 0) {
		t.Error("set a zero duration")
	}
	if !pl.SetDuration(track.ID, 3*time.Minute) {
		t.Fatal("failed to set the duration")
	}
	if pl.SetDuration(track.ID, time.Minute) {
		t.Error("duration was set twice")
	}

	got, _ := pl.Track(track.ID)
	if got.Duration != 3*time.Minute {
		t.Errorf("duration = %v", got.Duration)
	}
}

func TestSearch(t *testing.T) {
	pl := New()
	pl.AddPaths("/m/Aqours - Mijuku Dreamer.flac", "/m/Daisuki dattara daijoubu.mp3", "/m/Other.ogg")

	found := pl.Search("dream")
	assertPaths(t, found, []string{"/m/Aqours - Mijuku Dreamer.flac"})

	if all := pl.Search(""); len(all) != 3 {
		t.Errorf("empty search returned %d tracks", len(all))
	}
}

func TestTitleFromPath(t *testing.T) {
	tests := map[string]string{
		"/home/u/Music/song.mp3":      "song",
		`C:\Users\u\Music\song.flac`:  "song",
		"/home/u/a.b.c.ogg":           "a.b.c",
		"noext":                       "noext",
		"/home/u/.hidden":             "",
		"/a/.mp3":                     "",
		"/a/song.":                    "song.",
		"/a/dir/":                     "",
		"relative/dir/track.name.m4a": "track.name",
	}

	for path, expect := range tests {
		if got := TitleFromPath(path); got != expect {
			t.Errorf("TitleFromPath(%q) = %q, expected %q", path, got, expect)
		}
	}
}
