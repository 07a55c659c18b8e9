package mpris

import (
	"testing"
	"time"

	"github.com/diamondburned/glass/internal/muse/playlist"
	"github.com/go-test/deep"
	"github.com/godbus/dbus/v5"
)

func TestTrackID(t *testing.T) {
	var tests = []struct {
		id   string
		path dbus.ObjectPath
	}{
		{"", noTrackID},
		{"abc123", tracksPath + "/abc123"},
		{"6ba7b810-9dad-11d1-80b4-00c04fd430c8", tracksPath + "/6ba7b810_9dad_11d1_80b4_00c04fd430c8"},
	}

	for _, test := range tests {
		path := trackID(test.id)
		if path != test.path {
			t.Errorf("trackID(%q) = %q, expected %q", test.id, path, test.path)
		}
		if !path.IsValid() {
			t.Errorf("trackID(%q) = %q is not a valid object path", test.id, path)
		}
	}
}

func TestMicroseconds(t *testing.T) {
	if us := secondsToMicroseconds(1.5); us != 1500000 {
		t.Fatalf("secondsToMicroseconds(1.5) = %d", us)
	}
	if secs := microsecondsToSeconds(2500000); secs != 2.5 {
		t.Fatalf("microsecondsToSeconds(2500000) = %v", secs)
	}
}

func TestTrackMetadata(t *testing.T) {
	var tests = []struct {
		name string
		path string
		url  string
	}{
		{"plain", "/music/song.flac", "file:///music/song.flac"},
		{"escaped", "/music/my song #1.flac", "file:///music/my%20song%20%231.flac"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			track := playlist.Track{
				ID:       "id",
				Filepath: test.path,
				Title:    "song",
				Duration: 3 * time.Second,
			}

			expect := map[string]interface{}{
				"mpris:trackid": dbus.ObjectPath(tracksPath + "/id"),
				"mpris:length":  int64(3000000),
				"xesam:title":   "song",
				"xesam:url":     test.url,
			}

			if diff := deep.Equal(trackMetadata(track), expect); diff != nil {
				t.Fatal("unexpected metadata:", diff)
			}
		})
	}
}
