package muse

import (
	"io/ioutil"
	"testing"
	"time"

	"github.com/go-test/deep"
)

func TestMpvReader(t *testing.T) {
	r := newMpvReader(ioutil.Discard, lineMatchers)

	type match struct {
		Event   mpvLineEvent
		Matches []string
	}

	got := make(chan match, 4)
	r.Start(func(event mpvLineEvent, matches []string) {
		got <- match{event, matches}
	})

	lines := "Playing: /tmp/a.mp3\n" +
		"[ffmpeg/demuxer] Failed to recognize file format.\n" +
		"Failed to open /tmp/a.mp3.\n"

	if _, err := r.Write([]byte(lines)); err != nil {
		t.Fatal("Failed to write:", err)
	}

	expect := []match{
		{unrecognizedLine, []string{"Failed to recognize file format"}},
		{openFailedLine, []string{"Failed to open /tmp/a.mp3.", "/tmp/a.mp3"}},
	}

	for _, want := range expect {
		select {
		case m := <-got:
			if diff := deep.Equal(m, want); diff != nil {
				t.Error("Unexpected match:", diff)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("Timed out waiting for line match")
		}
	}

	if last := r.LastLine(); last != "Failed to open /tmp/a.mp3." {
		t.Errorf("Unexpected last line %q", last)
	}

	r.Close()
}
