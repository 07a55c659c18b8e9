package muse

import (
	"context"
	"log"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"runtime"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/DexterLB/mpvipc"
	"github.com/pkg/errors"
)

// Backend is the playback connection. It is implemented by *mpvipc.Connection.
type Backend interface {
	Call(args ...interface{}) (interface{}, error)
	Get(property string) (interface{}, error)
	Set(property string, value interface{}) error
}

var _ Backend = (*mpvipc.Connection)(nil)

type mpvEvent uint

const (
	allEvent mpvEvent = iota
	pauseEvent
	timePositionEvent
	durationEvent
)

var events = []string{
	"file-loaded",
	"end-file",
}

var propertyMap = map[mpvEvent]string{
	pauseEvent:        "pause",
	timePositionEvent: "time-pos",
	durationEvent:     "duration",
}

type mpvLineEvent uint8

const (
	unrecognizedLine mpvLineEvent = iota
	openFailedLine
)

var lineMatchers = []lineMatcher{
	{unrecognizedLine, regexp.MustCompile(`Failed to recognize file format`)},
	{openFailedLine, regexp.MustCompile(`Failed to open (.+)\.`)},
}

var tmpdir = filepath.Join(os.TempDir(), "glass")

func startMpv(mpvPath string, volume float64, stderr *mpvReader) (*mpvipc.Connection, *exec.Cmd, string, error) {
	sockPath := filepath.Join(tmpdir, "mpv", strconv.Itoa(os.Getpid())+".sock")

	if err := os.MkdirAll(filepath.Dir(sockPath), os.ModePerm); err != nil {
		return nil, nil, "", errors.Wrap(err, "failed to make socket directory")
	}

	if err := os.RemoveAll(sockPath); err != nil {
		return nil, nil, "", errors.Wrap(err, "failed to clean up socket")
	}

	args := []string{
		"--idle",
		"--quiet",
		"--pause",
		"--no-input-terminal",
		"--no-config",
		"--loop-file=no",
		"--keep-open=no",
		"--input-ipc-server=" + sockPath,
		"--volume=" + strconv.FormatFloat(volume*100, 'f', 0, 64),
		"--volume-max=100",
		"--no-video",
	}

	cmd := exec.Command(mpvPath, args...)
	cmd.Env = os.Environ()
	cmd.Stderr = stderr

	conn := mpvipc.NewConnection(sockPath)

	if err := cmd.Start(); err != nil {
		return nil, nil, "", errors.Wrap(err, "failed to start mpv")
	}

	// Give us a 5-second period timeout.
	ctx, cancel := context.WithTimeout(context.TODO(), 5*time.Second)
	defer cancel()

	// Spin until we can connect.
	var err error
RetryOpen:
	for {
		err = conn.Open()
		if err == nil {
			break RetryOpen
		}
		select {
		case <-ctx.Done():
			break RetryOpen
		default:
			runtime.Gosched()
			continue RetryOpen
		}
	}

	if err != nil {
		cmd.Process.Kill()
		cmd.Wait()
		return nil, nil, "", errors.Wrap(err, "failed to open connection")
	}

	for _, event := range events {
		_, err := conn.Call("enable_event", event)
		if err != nil {
			return nil, nil, "", errors.Wrapf(err, "failed to enable event %q", event)
		}
	}

	for id, property := range propertyMap {
		_, err := conn.Call("observe_property", id, property)
		if err != nil {
			return nil, nil, "", errors.Wrapf(err, "failed to observe property %q", property)
		}
	}

	return conn, cmd, sockPath, nil
}

// event is the part of an mpv event that the session acts on.
type event struct {
	Name   string
	ID     uint64
	Data   interface{}
	Reason string
	Error  string
}

func convertEvent(ev *mpvipc.Event) event {
	return event{
		Name:   ev.Name,
		ID:     uint64(ev.ID),
		Data:   ev.Data,
		Reason: ev.Reason,
		Error:  ev.Error,
	}
}

// Start starts listening to mpv events in a background goroutine. As such, it
// is non-blocking. It does nothing for sessions without an mpv process.
func (s *Session) Start() {
	if s.conn == nil {
		return
	}

	// Events that need the session lock are handled off the connection's
	// goroutine, so a command waiting for its reply under the lock can't
	// block event delivery.
	queue := make(chan event, 32)

	go func() {
		for ev := range queue {
			s.dispatch(ev)
		}
	}()

	go func() {
		s.conn.ListenForEvents(func(ev *mpvipc.Event) {
			if mpvEvent(ev.ID) != allEvent {
				s.dispatch(convertEvent(ev))
				return
			}
			queue <- convertEvent(ev)
		})
	}()
}

func (s *Session) onLine(name mpvLineEvent, matches []string) {
	switch name {
	case unrecognizedLine:
		atomic.StoreUint32(&s.unrecognized, 1)
	case openFailedLine:
		log.Printf("mpv could not open %q", matches[1])
	}
}

func (s *Session) dispatch(ev event) {
	if ev.Error != "" && ev.Error != "success" {
		log.Println("Error in event:", ev.Error)
	}

	if ev.Data == nil && mpvEvent(ev.ID) != allEvent {
		return
	}

	switch mpvEvent(ev.ID) {
	case allEvent:
		// Handled below.

	case pauseEvent:
		b, ok := ev.Data.(bool)
		if !ok {
			return
		}
		s.setPaused(b)
		return

	case timePositionEvent:
		f, ok := ev.Data.(float64)
		if !ok {
			return
		}
		s.PlayState.updatePos(f)
		s.postPosition()
		return

	case durationEvent:
		f, ok := ev.Data.(float64)
		if !ok {
			return
		}
		s.PlayState.updateTotal(f)
		s.postPosition()
		return

	default:
		return
	}

	switch ev.Name {
	case "file-loaded":
		s.fileLoaded()
	case "end-file":
		s.endFile(ev.Reason)
	}
}

// postPosition posts a position update unless one is already queued.
func (s *Session) postPosition() {
	if !atomic.CompareAndSwapUint32(&s.posQueued, 0, 1) {
		return
	}

	s.post(func() {
		atomic.StoreUint32(&s.posQueued, 0)
		s.handler.OnPositionChange(s.PlayState.PlayTime())
	})
}

// Stop stops the mpv session. A stopped session cannot be reused.
func (s *Session) Stop() {
	s.mu.Lock()
	s.stopTap()
	s.mu.Unlock()

	if s.conn == nil {
		return
	}

	s.conn.Close()

	if err := s.cmd.Process.Signal(os.Interrupt); err != nil {
		log.Println("Attempted to send SIGINT failed, error occured:", err)
		log.Println("Killing anyway.")

		if err = s.cmd.Process.Kill(); err != nil {
			log.Println("Failed to kill mpv:", err)
		}
	} else {
		// Wait for mpv to finish up.
		s.cmd.Wait()
	}

	s.mpvRead.Close()

	if err := os.Remove(s.socketPath); err != nil && !os.IsNotExist(err) {
		log.Println("Failed to clean up socket:", err)
	}
}

// PlayState wraps the current playback state.
type PlayState struct {
	pos    uint64
	total  uint64
	paused uint32
}

func newPlayState() *PlayState {
	return &PlayState{paused: 1}
}

func (ps *PlayState) updatePos(pos float64) {
	atomic.StoreUint64(&ps.pos, math.Float64bits(pos))
}

func (ps *PlayState) updateTotal(total float64) {
	atomic.StoreUint64(&ps.total, math.Float64bits(total))
}

// updatePaused returns true if the state changed.
func (ps *PlayState) updatePaused(paused bool) bool {
	var v uint32
	if paused {
		v = 1
	}
	return atomic.SwapUint32(&ps.paused, v) != v
}

func (ps *PlayState) reset() {
	ps.updatePos(0)
	ps.updateTotal(0)
}

// Paused reads the pause state atomically.
func (ps *PlayState) Paused() bool {
	return atomic.LoadUint32(&ps.paused) == 1
}

// PlayTime reads the playback timestamps atomically.
func (ps *PlayState) PlayTime() (pos, total float64) {
	pos = math.Float64frombits(atomic.LoadUint64(&ps.pos))
	total = math.Float64frombits(atomic.LoadUint64(&ps.total))
	return
}

func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
