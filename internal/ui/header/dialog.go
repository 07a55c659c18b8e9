package header

import (
	"log"
	"os"
	"strings"

	"github.com/diamondburned/glass/internal/muse"
	"github.com/diamondburned/glass/internal/muse/playlist"
	"github.com/gotk3/gotk3/glib"
	"github.com/gotk3/gotk3/gtk"
)

// FilePatterns returns the glob patterns of the given extensions in both lower
// and upper case, e.g. "*.mp3" and "*.MP3".
func FilePatterns(exts []string) []string {
	patterns := make([]string, 0, len(exts)*2)
	for _, ext := range exts {
		lower := "*" + strings.ToLower(ext)
		upper := "*" + strings.ToUpper(ext)

		patterns = append(patterns, lower)
		if upper != lower {
			patterns = append(patterns, upper)
		}
	}
	return patterns
}

func newFilter(name string, exts ...[]string) *gtk.FileFilter {
	ff, _ := gtk.FileFilterNew()
	ff.SetName(name)
	for _, list := range exts {
		for _, pattern := range FilePatterns(list) {
			ff.AddPattern(pattern)
		}
	}
	return ff
}

// openFileDialog asks for audio or playlist files and blocks until the dialog
// is closed. Nil is returned if the dialog is cancelled.
func openFileDialog(parent gtk.IWindow) []string {
	dialog, err := gtk.FileChooserNativeDialogNew(
		"Add Files", parent,
		gtk.FILE_CHOOSER_ACTION_OPEN, "Add", "Cancel",
	)
	if err != nil {
		log.Println("Failed to create file chooser:", err)
		return nil
	}
	defer dialog.Destroy()

	p, err := os.Getwd()
	if err != nil {
		p = glib.GetUserDataDir()
	}

	listExts := playlist.SupportedListExtensions()

	dialog.AddFilter(newFilter("Audio and playlists", muse.SupportedExtensions, listExts))
	dialog.AddFilter(newFilter("Audio", muse.SupportedExtensions))
	dialog.AddFilter(newFilter("Playlists", listExts))
	dialog.SetCurrentFolder(p)
	dialog.SetSelectMultiple(true)

	if gtk.ResponseType(dialog.Run()) != gtk.RESPONSE_ACCEPT {
		return nil
	}

	paths, err := dialog.GetFilenames()
	if err != nil {
		log.Println("Failed to get chosen files:", err)
		return nil
	}

	return paths
}
