package header

import (
	"testing"

	"github.com/go-test/deep"
)

func TestFilePatterns(t *testing.T) {
	patterns := FilePatterns([]string{".mp3", ".FLAC", ".m3u"})
	expect := []string{"*.mp3", "*.MP3", "*.flac", "*.FLAC", "*.m3u", "*.M3U"}

	if diff := deep.Equal(patterns, expect); diff != nil {
		t.Fatal("unexpected patterns:", diff)
	}
}
