package muse

import (
	"bufio"
	"context"
	"encoding/binary"
	"io"
	"log"
	"math"
	"time"

	"github.com/diamondburned/glass/internal/muse/graph"
	"github.com/diamondburned/glass/internal/muse/metadata/ffmpeg"
)

// tap decodes the playing file alongside mpv and feeds it into the analysis
// graph in real time. It only runs while playback is running.
type tap struct {
	ffmpeg string
	rate   int
	block  int // samples per frame
	frame  time.Duration
	graph  *graph.Graph

	cancel context.CancelFunc
	done   chan struct{}
}

func newTap(ffmpegPath string, rate, fps int, g *graph.Graph) *tap {
	return &tap{
		ffmpeg: ffmpegPath,
		rate:   rate,
		block:  rate / fps,
		frame:  time.Second / time.Duration(fps),
		graph:  g,
	}
}

// start (re)starts decoding path from the given position in seconds.
func (t *tap) start(path string, at float64) {
	t.stop()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	t.cancel = cancel
	t.done = done

	t.graph.Reset()

	go func() {
		defer close(done)

		if err := t.run(ctx, path, at); err != nil {
			log.Printf("[tap] stopped decoding %q: %v", path, err)
		}
	}()
}

// stop stops decoding and waits for the decoder to exit.
func (t *tap) stop() {
	if t.cancel == nil {
		return
	}

	t.cancel()
	<-t.done

	t.cancel = nil
	t.done = nil
}

func (t *tap) run(ctx context.Context, path string, at float64) error {
	dec, err := ffmpeg.DecodePCM(ctx, t.ffmpeg, path, at, t.rate)
	if err != nil {
		return err
	}
	defer dec.Close()

	r := bufio.NewReaderSize(dec, t.block*4*4)

	raw := make([]byte, t.block*4)
	samples := make([]float64, t.block)

	ticker := time.NewTicker(t.frame)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		n, err := io.ReadFull(r, raw)
		if n/4 > 0 {
			decodeFloat32LE(samples[:n/4], raw[:n/4*4])
			t.graph.Process(samples[:n/4])
		}

		if err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF || ctx.Err() != nil {
				return nil
			}
			return err
		}
	}
}

func decodeFloat32LE(dst []float64, src []byte) {
	for i := range dst {
		bits := binary.LittleEndian.Uint32(src[i*4:])
		dst[i] = float64(math.Float32frombits(bits))
	}
}
