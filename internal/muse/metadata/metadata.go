// Package metadata identifies audio containers and wraps the ffmpeg tools.
package metadata

import (
	"os"

	"github.com/dhowden/tag"
)

// Sniff identifies the container of a file from its header. An empty string
// is returned if the container is not one that carries tags, such as WAV.
func Sniff(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	_, fileType, err := tag.Identify(f)
	if err != nil {
		return ""
	}

	return string(fileType)
}
