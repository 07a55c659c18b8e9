package playlist

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// ListReader reads a playlist file and returns the local file paths listed in
// it, in order.
type ListReader func(path string) ([]string, error)

var listReaders = map[string]ListReader{}

// ErrUnknownList is returned when no reader is registered for the file type.
var ErrUnknownList = errors.New("unknown playlist format")

// RegisterReader registers a list reader for a file extension, including the
// leading dot.
func RegisterReader(fileExt string, r ListReader) {
	listReaders[strings.ToLower(fileExt)] = r
}

// SupportedListExtensions returns the registered extensions, sorted.
func SupportedListExtensions() []string {
	var exts = make([]string, 0, len(listReaders))
	for ext := range listReaders {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// IsListFile returns true if the path has a registered list extension.
func IsListFile(path string) bool {
	_, ok := listReaders[strings.ToLower(filepath.Ext(path))]
	return ok
}

// ReadList reads the paths from a playlist file.
func ReadList(path string) ([]string, error) {
	fn, ok := listReaders[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return nil, ErrUnknownList
	}

	paths, err := fn(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read playlist %q", filepath.Base(path))
	}

	return paths, nil
}

// ExpandPaths replaces playlist files in paths with the tracks they list.
// Unreadable playlist files are skipped and reported through the returned
// errors.
func ExpandPaths(paths []string) ([]string, []error) {
	var expanded = make([]string, 0, len(paths))
	var errs []error

	for _, path := range paths {
		if !IsListFile(path) {
			expanded = append(expanded, path)
			continue
		}

		listed, err := ReadList(path)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		expanded = append(expanded, listed...)
	}

	return expanded, errs
}
