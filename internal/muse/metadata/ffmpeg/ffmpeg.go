// Package ffmpeg decodes audio files into raw PCM with the ffmpeg executable.
package ffmpeg

import (
	"context"
	"io"
	"os"
	"os/exec"
	"strconv"

	"github.com/pkg/errors"
)

var globalCtx, globalStop = context.WithCancel(context.Background())

// StopAll kills all running decoders.
func StopAll() {
	globalStop()
}

// Decoder is a running ffmpeg process writing mono little-endian 32-bit float
// samples. Close must be called to reap the process.
type Decoder struct {
	io.Reader
	cmd    *exec.Cmd
	cancel context.CancelFunc
}

// DecodePCM starts decoding the file at the given path from the given offset in
// seconds, downmixed to mono at the given sample rate.
func DecodePCM(ctx context.Context, ffmpeg, path string, start float64, rate int) (*Decoder, error) {
	ctx, cancel := context.WithCancel(ctx)

	go func() {
		select {
		case <-globalCtx.Done():
			cancel()
		case <-ctx.Done():
		}
	}()

	args := []string{"-hide_banner", "-threads", "1", "-loglevel", "error", "-nostdin"}
	if start > 0 {
		args = append(args, "-ss", strconv.FormatFloat(start, 'f', 3, 64))
	}
	args = append(args,
		"-i", path,
		"-vn",
		"-ac", "1",
		"-ar", strconv.Itoa(rate),
		"-f", "f32le", "-",
	)

	cmd := exec.CommandContext(ctx, ffmpeg, args...)
	cmd.Stderr = os.Stderr

	o, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, errors.Wrap(err, "failed to make stdout pipe")
	}

	if err := cmd.Start(); err != nil {
		cancel()
		return nil, errors.Wrap(err, "failed to start ffmpeg")
	}

	return &Decoder{Reader: o, cmd: cmd, cancel: cancel}, nil
}

// Close kills the decoder if it's still running and waits for it to exit.
func (d *Decoder) Close() error {
	d.cancel()
	d.cmd.Wait()
	return nil
}
