// Package ffprobe probes audio files with the ffprobe executable.
package ffprobe

import (
	"context"
	"encoding/json"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Probe runs ffprobe on the given path. The error is an *exec.ExitError if
// ffprobe could not make sense of the file.
func Probe(ctx context.Context, ffprobe, path string) (*ProbeResult, error) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx,
		ffprobe,
		"-loglevel", "error",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		"-select_streams", "a",
		path,
	)

	var stderr strings.Builder
	cmd.Stderr = &stderr

	o, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, errors.Wrap(err, msg)
		}
		return nil, err
	}

	var result ProbeResult

	if err := json.Unmarshal(o, &result); err != nil {
		return nil, errors.Wrap(err, "failed to parse ffprobe JSON")
	}

	return &result, nil
}

type ProbeResult struct {
	Format  Format   `json:"format"`
	Streams []Stream `json:"streams"`
}

// HasAudio returns true if the file has at least one audio stream.
func (r *ProbeResult) HasAudio() bool {
	for _, stream := range r.Streams {
		if stream.CodecType == "audio" {
			return true
		}
	}
	return false
}

// Duration returns the container duration, or 0 if it's unknown.
func (r *ProbeResult) Duration() time.Duration {
	f, err := strconv.ParseFloat(r.Format.Duration, 64)
	if err != nil || f <= 0 {
		return 0
	}
	return time.Duration(f * float64(time.Second))
}

type Format struct {
	Filename       string `json:"filename"`
	NbStreams      int    `json:"nb_streams"`
	FormatName     string `json:"format_name"`
	FormatLongName string `json:"format_long_name"`
	Duration       string `json:"duration"`
	BitRate        string `json:"bit_rate"`
	ProbeScore     int    `json:"probe_score"`
	Tags           Tags   `json:"tags"`
}

type Stream struct {
	Index      int    `json:"index"`
	CodecName  string `json:"codec_name"`
	CodecType  string `json:"codec_type"`
	SampleRate string `json:"sample_rate"`
	Channels   int    `json:"channels"`
}

type Tags map[string]string

func (tags *Tags) UnmarshalJSON(v []byte) error {
	var rawTags = map[string]string{}

	if err := json.Unmarshal(v, &rawTags); err != nil {
		return err
	}

	var lowered = make(map[string]string, len(rawTags))
	for k, v := range rawTags {
		lowered[strings.ToLower(k)] = v
	}

	*tags = lowered
	return nil
}
