package playlist

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Track is a reference to a local audio file in a playlist. Tracks are handed
// out as copies; the playlist owns the originals.
type Track struct {
	ID       string
	Filepath string
	Title    string
	// Duration is zero until the track has been loaded once.
	Duration time.Duration
}

// NewTrack creates a track with a fresh ID for the given path.
func NewTrack(filepath string) Track {
	return Track{
		ID:       uuid.NewString(),
		Filepath: filepath,
		Title:    TitleFromPath(filepath),
	}
}

// IsZero returns true if the track is the zero value.
func (t Track) IsZero() bool {
	return t.ID == ""
}

// extension matches the last extension of a file name. A name that is only an
// extension, such as ".mp3", matches whole.
var extension = regexp.MustCompile(`\.[^/.]+$`)

// TitleFromPath derives a display title from the file name without its
// extension. Backslashes are treated as separators as well, so Windows paths
// work on any platform.
func TitleFromPath(filepath string) string {
	parts := strings.Split(strings.ReplaceAll(filepath, `\`, "/"), "/")
	return extension.ReplaceAllString(parts[len(parts)-1], "")
}
