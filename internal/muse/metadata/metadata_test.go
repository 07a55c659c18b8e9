package metadata

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
)

func TestSniffFLAC(t *testing.T) {
	dir, err := ioutil.TempDir("", "glass-metadata")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "header.flac")
	// fLaC marker followed by padding.
	data := append([]byte("fLaC"), make([]byte, 64)...)
	if err := ioutil.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	if ft := Sniff(path); ft != "FLAC" {
		t.Errorf("sniffed %q, expected FLAC", ft)
	}
}

func TestSniffMissing(t *testing.T) {
	if ft := Sniff("/nonexistent/file.mp3"); ft != "" {
		t.Errorf("sniffed %q for a missing file", ft)
	}
}
