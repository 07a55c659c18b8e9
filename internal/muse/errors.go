package muse

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ErrStaleLoad is returned by a load that was superseded by a newer one before
// it completed.
var ErrStaleLoad = errors.New("load superseded by a newer load")

// LoadErrorKind classifies why a track could not be loaded or started.
type LoadErrorKind uint8

const (
	LoadTimeout LoadErrorKind = iota
	DecodeError
	UnsupportedFormat
	NetworkError
	PlaybackStartError
)

func (k LoadErrorKind) String() string {
	switch k {
	case LoadTimeout:
		return "LoadTimeout"
	case DecodeError:
		return "DecodeError"
	case UnsupportedFormat:
		return "UnsupportedFormat"
	case NetworkError:
		return "NetworkError"
	case PlaybackStartError:
		return "PlaybackStartError"
	default:
		return fmt.Sprintf("LoadErrorKind(%d)", k)
	}
}

// LoadError is returned when a track fails to load or start.
type LoadError struct {
	Kind LoadErrorKind
	Path string
	Err  error
}

func newLoadError(kind LoadErrorKind, path string, err error) *LoadError {
	return &LoadError{Kind: kind, Path: path, Err: err}
}

func (err *LoadError) Error() string {
	if err.Err == nil {
		return fmt.Sprintf("%s: %q", err.Kind, err.Path)
	}
	return fmt.Sprintf("%s: %q: %v", err.Kind, err.Path, err.Err)
}

func (err *LoadError) Unwrap() error { return err.Err }

// Message returns the text shown to the user.
func (err *LoadError) Message() string {
	switch err.Kind {
	case LoadTimeout:
		return "Loading the file took too long."
	case DecodeError:
		return "Failed to decode the file. It may be corrupted."
	case UnsupportedFormat:
		return "This file format is not supported."
	case NetworkError:
		return "Failed to read the file."
	case PlaybackStartError:
		return "Failed to start playback."
	default:
		return "Failed to play the file."
	}
}

// IsLoadError returns the LoadError inside err if there is one.
func IsLoadError(err error) (*LoadError, bool) {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		return loadErr, true
	}
	return nil, false
}

type batchErrors []error

func makeBatchErrors(errs ...error) error {
	var nonNils = errs[:0]
	for _, err := range errs {
		if err != nil {
			nonNils = append(nonNils, err)
		}
	}

	if len(nonNils) == 0 {
		return nil
	}

	return batchErrors(nonNils)
}

func (b batchErrors) Error() string {
	var errors = make([]string, len(b))
	for i, err := range b {
		errors[i] = err.Error()
	}

	// English moment.
	return strings.Join(errors, ", and ")
}
