// Package audpl reads Audacious playlist files into track paths.
package audpl

import (
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/diamondburned/audpl"
	"github.com/diamondburned/glass/internal/muse/playlist"
)

func init() {
	playlist.RegisterReader(".audpl", Read)
}

// Read reads the local paths from an audpl file.
func Read(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	f.SetDeadline(time.Now().Add(15 * time.Second))

	p, err := audpl.Parse(f)
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(p.Tracks))

	for _, track := range p.Tracks {
		if !strings.HasPrefix(track.URI, "file://") {
			log.Println("[audpl]: rogue path not in local fs:", track.URI)
			continue
		}

		path := strings.TrimPrefix(track.URI, "file://")
		if unescaped, err := url.PathUnescape(path); err == nil {
			path = unescaped
		}

		paths = append(paths, path)
	}

	return paths, nil
}
