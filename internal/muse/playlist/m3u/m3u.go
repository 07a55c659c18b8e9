// Package m3u reads M3U playlist files into track paths.
package m3u

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/diamondburned/glass/internal/muse/playlist"
	"github.com/ushis/m3u"
)

func init() {
	playlist.RegisterReader(".m3u", Read)
	playlist.RegisterReader(".m3u8", Read)
}

// Read reads the local paths from an M3U file. Relative paths are resolved
// against the playlist's directory and file URIs are decoded. Remote entries
// are skipped.
func Read(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	p, err := m3u.Parse(f)
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(path)
	paths := make([]string, 0, len(p))

	for _, track := range p {
		if local, ok := localPath(dir, track.Path); ok {
			paths = append(paths, local)
		}
	}

	return paths, nil
}

func localPath(dir, entry string) (string, bool) {
	entry = strings.TrimSpace(entry)
	if entry == "" {
		return "", false
	}

	if strings.Contains(entry, "://") {
		u, err := url.Parse(entry)
		if err != nil || u.Scheme != "file" {
			return "", false
		}
		return u.Path, true
	}

	if !filepath.IsAbs(entry) {
		entry = filepath.Join(dir, entry)
	}

	return filepath.Clean(entry), true
}
