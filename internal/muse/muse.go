// Package muse drives audio playback. Audible output is produced by an mpv
// child process; the same file is decoded in-process and run through the
// analysis graph so the equalizer and the analyser can be observed.
package muse

import (
	"context"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/DexterLB/mpvipc"
	"github.com/diamondburned/glass/internal/muse/graph"
	"github.com/diamondburned/glass/internal/muse/metadata"
	"github.com/diamondburned/glass/internal/muse/metadata/ffprobe"
	"github.com/diamondburned/glass/internal/muse/playlist"
	"github.com/pkg/errors"

	_ "github.com/diamondburned/glass/internal/muse/playlist/audpl"
	_ "github.com/diamondburned/glass/internal/muse/playlist/m3u"
)

// SupportedExtensions lists the audio file extensions that can be loaded.
var SupportedExtensions = []string{".mp3", ".wav", ".ogg", ".flac", ".m4a", ".aac", ".wma"}

// IsSupported returns true if the path has a supported audio extension.
func IsSupported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, supported := range SupportedExtensions {
		if ext == supported {
			return true
		}
	}
	return false
}

// EventHandler methods are all called in the main thread.
type EventHandler interface {
	OnPauseUpdate(paused bool)
	OnPositionChange(pos, total float64)
	// OnTrackEnd is called when the track played to its end.
	OnTrackEnd()
	// OnError is called once for each playback error that happened outside of
	// a call, such as the file becoming unreadable mid-playback.
	OnError(err error)
}

// Options configures a Session.
type Options struct {
	MPV     string
	FFmpeg  string
	FFprobe string
	// LoadTimeout bounds LoadSource.
	LoadTimeout time.Duration
	// Volume is the initial volume in [0, 1].
	Volume     float64
	SampleRate int
	// FrameRate is how many blocks per second the analysis graph receives.
	FrameRate int
	Analyser  graph.AnalyserOptions
}

// DefaultOptions returns the default session options.
func DefaultOptions() Options {
	return Options{
		MPV:         "mpv",
		FFmpeg:      "ffmpeg",
		FFprobe:     "ffprobe",
		LoadTimeout: 10 * time.Second,
		Volume:      0.8,
		SampleRate:  44100,
		FrameRate:   60,
		Analyser:    graph.DefaultAnalyserOptions,
	}
}

type pendingLoad struct {
	gen   uint64
	path  string
	ready chan error
}

// Session is a single playback session with at most one loaded source.
type Session struct {
	PlayState *PlayState

	mpv        Backend
	conn       *mpvipc.Connection
	cmd        *exec.Cmd
	mpvRead    *mpvReader
	socketPath string

	opts     Options
	binCount int
	handler  EventHandler
	idle     func(func())
	probe    func(ctx context.Context, path string) (*ffprobe.ProbeResult, error)

	posQueued    uint32
	unrecognized uint32

	mu      sync.Mutex
	gen     uint64
	pending *pendingLoad
	track   playlist.Track
	loaded  bool

	graph  *graph.Graph
	tap    *tap
	bands  [graph.BandCount]float64
	volume float64
	muted  bool
}

// NewSession starts mpv and creates a session around it. Events are delivered
// through idle, which must run the function on the main thread.
func NewSession(opts Options, idle func(func())) (*Session, error) {
	opts = sanitizeOptions(opts)

	reader := newMpvReader(os.Stderr, lineMatchers)

	conn, cmd, sockPath, err := startMpv(opts.MPV, opts.Volume, reader)
	if err != nil {
		reader.Close()
		return nil, err
	}

	s := newSession(conn, opts, idle)
	s.conn = conn
	s.cmd = cmd
	s.mpvRead = reader
	s.socketPath = sockPath

	reader.Start(s.onLine)

	return s, nil
}

func newSession(mpv Backend, opts Options, idle func(func())) *Session {
	opts = sanitizeOptions(opts)

	if idle == nil {
		idle = func(f func()) { f() }
	}

	s := &Session{
		PlayState: newPlayState(),
		mpv:       mpv,
		opts:      opts,
		binCount:  graph.NewAnalyser(opts.Analyser).FrequencyBinCount(),
		handler:   nopHandler{},
		idle:      idle,
		volume:    opts.Volume,
	}

	s.probe = func(ctx context.Context, path string) (*ffprobe.ProbeResult, error) {
		return ffprobe.Probe(ctx, s.opts.FFprobe, path)
	}

	return s
}

func sanitizeOptions(opts Options) Options {
	def := DefaultOptions()

	if opts.MPV == "" {
		opts.MPV = def.MPV
	}
	if opts.FFmpeg == "" {
		opts.FFmpeg = def.FFmpeg
	}
	if opts.FFprobe == "" {
		opts.FFprobe = def.FFprobe
	}
	if opts.LoadTimeout <= 0 {
		opts.LoadTimeout = def.LoadTimeout
	}
	if opts.SampleRate <= 0 {
		opts.SampleRate = def.SampleRate
	}
	if opts.FrameRate <= 0 {
		opts.FrameRate = def.FrameRate
	}
	opts.Volume = clampVolume(opts.Volume)

	return opts
}

// SetHandler sets the event handler. It must be called before Start.
func (s *Session) SetHandler(h EventHandler) {
	if h == nil {
		h = nopHandler{}
	}
	s.handler = h
}

func (s *Session) post(f func()) { s.idle(f) }

type nopHandler struct{}

func (nopHandler) OnPauseUpdate(bool)                {}
func (nopHandler) OnPositionChange(float64, float64) {}
func (nopHandler) OnTrackEnd()                       {}
func (nopHandler) OnError(error)                     {}

// classify checks that the file exists and contains decodable audio before it
// is handed to mpv.
func (s *Session) classify(ctx context.Context, path string) (*ffprobe.ProbeResult, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return nil, newLoadError(NetworkError, path, err)
	}
	if stat.IsDir() {
		return nil, newLoadError(NetworkError, path, errors.New("is a directory"))
	}

	if !IsSupported(path) {
		return nil, newLoadError(UnsupportedFormat, path,
			errors.Errorf("unknown extension %q", filepath.Ext(path)))
	}

	result, err := s.probe(ctx, path)
	if err != nil {
		if ctx.Err() != nil {
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return nil, newLoadError(LoadTimeout, path, ctx.Err())
			}
			return nil, ctx.Err()
		}
		if container := metadata.Sniff(path); container != "" {
			err = errors.Wrapf(err, "failed to probe %s container", container)
		} else {
			err = errors.Wrap(err, "failed to probe")
		}
		return nil, newLoadError(DecodeError, path, err)
	}

	if !result.HasAudio() {
		return nil, newLoadError(UnsupportedFormat, path, errors.New("no audio stream"))
	}

	return result, nil
}

// LoadSource replaces the current source with the file at path and blocks
// until it is ready to play. The source is loaded paused. The returned error is
// either a *LoadError, ErrStaleLoad if another load was started in the
// meantime, or the context's error.
func (s *Session) LoadSource(ctx context.Context, path string) (playlist.Track, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.LoadTimeout)
	defer cancel()

	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.abandonPending()
	s.mu.Unlock()

	result, err := s.classify(ctx, path)
	if err != nil {
		return playlist.Track{}, err
	}

	load := &pendingLoad{
		gen:   gen,
		path:  path,
		ready: make(chan error, 1),
	}

	s.mu.Lock()

	if s.gen != gen {
		s.mu.Unlock()
		return playlist.Track{}, ErrStaleLoad
	}

	s.stopTap()
	s.loaded = false
	s.track = playlist.Track{}
	s.pending = load
	s.PlayState.reset()
	atomic.StoreUint32(&s.unrecognized, 0)

	err = makeBatchErrors(
		s.mpv.Set("pause", true),
		callErr(s.mpv.Call("loadfile", path, "replace")),
	)
	s.setPaused(true)

	s.mu.Unlock()

	if err != nil {
		s.clearPending(load)
		return playlist.Track{}, newLoadError(DecodeError, path, errors.Wrap(err, "failed to load file"))
	}

	select {
	case err = <-load.ready:
	case <-ctx.Done():
		s.clearPending(load)

		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			// Don't let mpv keep loading a file nobody waits for anymore.
			if _, err := s.mpv.Call("stop"); err != nil {
				log.Println("failed to stop mpv after load timeout:", err)
			}
			return playlist.Track{}, newLoadError(LoadTimeout, path, ctx.Err())
		}

		return playlist.Track{}, ctx.Err()
	}

	if err != nil {
		return playlist.Track{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gen != gen {
		return playlist.Track{}, ErrStaleLoad
	}

	track := playlist.NewTrack(path)
	track.Duration = result.Duration()

	if track.Duration > 0 {
		if _, total := s.PlayState.PlayTime(); total == 0 {
			s.PlayState.updateTotal(track.Duration.Seconds())
		}
	}

	s.track = track
	s.loaded = true

	if s.graph != nil {
		s.graph.Reset()
	}

	return track, nil
}

func callErr(_ interface{}, err error) error { return err }

// abandonPending fails the pending load as stale. s.mu must be held.
func (s *Session) abandonPending() {
	if s.pending == nil {
		return
	}

	select {
	case s.pending.ready <- ErrStaleLoad:
	default:
	}

	s.pending = nil
}

func (s *Session) clearPending(load *pendingLoad) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending == load {
		s.pending = nil
	}
}

// fileLoaded resolves the pending load. A file-loaded event for a file other
// than the pending one belongs to a superseded loadfile and is ignored.
func (s *Session) fileLoaded() {
	s.mu.Lock()
	load := s.pending
	s.mu.Unlock()

	if load == nil {
		return
	}

	v, err := s.mpv.Get("path")
	if err != nil {
		log.Println("failed to get the loaded path from mpv:", err)
	} else if path, ok := v.(string); ok && path != load.path {
		log.Printf("Ignoring file-loaded for %q while loading %q\n", path, load.path)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending != load {
		return
	}

	load.ready <- nil
	s.pending = nil
}

func (s *Session) endFile(reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending != nil {
		// Ending the previous file while the new one is loading.
		if reason != "error" {
			return
		}

		kind := DecodeError
		if atomic.LoadUint32(&s.unrecognized) == 1 {
			kind = UnsupportedFormat
		}

		s.pending.ready <- newLoadError(kind, s.pending.path, s.mpvError())
		s.pending = nil
		return
	}

	if !s.loaded {
		return
	}

	switch reason {
	case "eof":
		s.stopTap()
		s.loaded = false
		s.setPaused(true)
		s.post(func() { s.handler.OnTrackEnd() })

	case "error":
		s.stopTap()
		s.loaded = false
		err := newLoadError(DecodeError, s.track.Filepath, errors.New("playback failed"))
		s.post(func() { s.handler.OnError(err) })
	}
}

// Play starts or resumes playback. It does nothing if no source is loaded.
func (s *Session) Play() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return nil
	}

	s.ensureGraph()

	if err := s.mpv.Set("pause", false); err != nil {
		return newLoadError(PlaybackStartError, s.track.Filepath, err)
	}

	s.setPaused(false)

	pos, _ := s.PlayState.PlayTime()
	s.tap.start(s.track.Filepath, pos)

	return nil
}

// setPaused updates the pause state and notifies the handler if it changed.
func (s *Session) setPaused(paused bool) {
	if s.PlayState.updatePaused(paused) {
		s.post(func() { s.handler.OnPauseUpdate(paused) })
	}
}

// ensureGraph builds the analysis graph once. s.mu must be held.
func (s *Session) ensureGraph() {
	if s.graph != nil {
		return
	}

	s.graph = graph.NewGraph(float64(s.opts.SampleRate), s.opts.Analyser, graph.Discard)
	for i, db := range s.bands {
		s.graph.SetBandGain(i, db)
	}
	s.graph.SetGain(s.gainValue())

	s.tap = newTap(s.opts.FFmpeg, s.opts.SampleRate, s.opts.FrameRate, s.graph)
}

// stopTap stops feeding the graph. s.mu must be held.
func (s *Session) stopTap() {
	if s.tap != nil {
		s.tap.stop()
	}
}

// Pause pauses playback.
func (s *Session) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopTap()

	if !s.loaded {
		return nil
	}

	if err := s.mpv.Set("pause", true); err != nil {
		return errors.Wrap(err, "failed to pause")
	}

	s.setPaused(true)
	return nil
}

// TogglePlay pauses if playing and plays otherwise.
func (s *Session) TogglePlay() error {
	if s.IsPlaying() {
		return s.Pause()
	}
	return s.Play()
}

// IsPlaying returns true if a source is loaded and not paused.
func (s *Session) IsPlaying() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loaded && !s.PlayState.Paused()
}

// Seek seeks to the position in seconds, clamped to the track's duration. It
// does nothing if the duration is not known.
func (s *Session) Seek(pos float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return nil
	}

	_, total := s.PlayState.PlayTime()
	if total <= 0 {
		return nil
	}

	switch {
	case pos < 0:
		pos = 0
	case pos > total:
		pos = total
	}

	if err := s.mpv.Set("time-pos", pos); err != nil {
		return errors.Wrap(err, "failed to seek")
	}

	s.PlayState.updatePos(pos)

	if s.tap != nil && !s.PlayState.Paused() {
		s.tap.start(s.track.Filepath, pos)
	}

	return nil
}

// SeekPercent seeks to a percentage of the track in [0, 100].
func (s *Session) SeekPercent(percent float64) error {
	switch {
	case percent < 0:
		percent = 0
	case percent > 100:
		percent = 100
	}

	_, total := s.PlayState.PlayTime()
	return s.Seek(total * percent / 100)
}

// Position returns the playback position and the duration in seconds.
func (s *Session) Position() (pos, total float64) {
	return s.PlayState.PlayTime()
}

// CurrentTrack returns the loaded track.
func (s *Session) CurrentTrack() (playlist.Track, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.track, s.loaded
}

func clampVolume(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

// gainValue returns the gain node's value. s.mu must be held.
func (s *Session) gainValue() float64 {
	if s.muted {
		return 0
	}
	return s.volume
}

// SetVolume sets the volume in [0, 1]. Values outside are clamped.
func (s *Session) SetVolume(v float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.volume = clampVolume(v)

	if s.graph != nil {
		s.graph.SetGain(s.gainValue())
	}

	return s.mpv.Set("volume", s.volume*100)
}

// Volume returns the volume in [0, 1].
func (s *Session) Volume() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.volume
}

// SetMute mutes or unmutes the output without changing the volume.
func (s *Session) SetMute(muted bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.muted = muted

	if s.graph != nil {
		s.graph.SetGain(s.gainValue())
	}

	return s.mpv.Set("mute", muted)
}

// SetBandGain sets the gain of an equalizer band in decibels, clamped to
// [-12, 12]. An out-of-range index is ignored.
func (s *Session) SetBandGain(index int, db float64) error {
	if !graph.ValidBand(index) {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.bands[index] = graph.ClampGain(db)

	if s.graph != nil {
		s.graph.SetBandGain(index, s.bands[index])
	}

	return s.mpv.Set("af", audioFilter(s.bands))
}

// BandGain returns the gain of a band, or 0 if the index is out of range.
func (s *Session) BandGain(index int) float64 {
	if !graph.ValidBand(index) {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.bands[index]
}

// Bands returns the equalizer bands.
func (s *Session) Bands() []graph.Band {
	s.mu.Lock()
	defer s.mu.Unlock()

	bands := make([]graph.Band, graph.BandCount)
	for i := range bands {
		bands[i] = graph.Band{
			Frequency: graph.BandFrequencies[i],
			Gain:      s.bands[i],
		}
	}
	return bands
}

// FrequencyBinCount returns the length of a frequency snapshot.
func (s *Session) FrequencyBinCount() int { return s.binCount }

// FrequencySnapshot returns the analyser's byte frequency data. It is all
// zeros until audio has been played.
func (s *Session) FrequencySnapshot() []byte {
	s.mu.Lock()
	g := s.graph
	s.mu.Unlock()

	if g == nil {
		return make([]byte, s.binCount)
	}
	return g.FrequencySnapshot()
}

// WaveformSnapshot returns the analyser's byte time domain data, where 128 is
// silence.
func (s *Session) WaveformSnapshot() []byte {
	s.mu.Lock()
	g := s.graph
	s.mu.Unlock()

	if g == nil {
		wave := make([]byte, s.binCount*2)
		for i := range wave {
			wave[i] = 128
		}
		return wave
	}
	return g.WaveformSnapshot()
}

// audioFilter mirrors the equalizer bands into mpv's af property. Flat bands
// are left out.
func audioFilter(bands [graph.BandCount]float64) string {
	var filters []string

	for i, db := range bands {
		if db == 0 {
			continue
		}

		filters = append(filters, "lavfi=[equalizer=f="+formatFloat(graph.BandFrequencies[i])+
			":t=q:w="+formatFloat(graph.BandQ)+":g="+formatFloat(db)+"]")
	}

	return strings.Join(filters, ",")
}

// mpvError describes why mpv failed to open a file, using the last line it
// printed when there is one.
func (s *Session) mpvError() error {
	if s.mpvRead != nil {
		if line := strings.TrimSpace(s.mpvRead.LastLine()); line != "" {
			return errors.Errorf("mpv failed to open the file: %s", line)
		}
	}
	return errors.New("mpv failed to open the file")
}
