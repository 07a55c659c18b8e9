package muse

import (
	"bufio"
	"io"
	"log"
	"regexp"
	"sync"
)

// lineMatcher calls back when an mpv log line matches.
type lineMatcher struct {
	event mpvLineEvent
	regex *regexp.Regexp
}

// mpvReader is the mpv process' stderr. Every line is logged, matched against
// the line matchers and remembered as the last line.
type mpvReader struct {
	pw *io.PipeWriter
	pr *io.PipeReader

	logger   *log.Logger
	matchers []lineMatcher

	mu   sync.Mutex
	last string
}

func newMpvReader(output io.Writer, matchers []lineMatcher) *mpvReader {
	pr, pw := io.Pipe()

	return &mpvReader{
		pw:       pw,
		pr:       pr,
		logger:   log.New(output, "[mpv] ", log.LstdFlags),
		matchers: matchers,
	}
}

// Start starts scanning in the background. The callback is called from the
// scanning goroutine.
func (r *mpvReader) Start(callback func(event mpvLineEvent, matches []string)) {
	go func() {
		scanner := bufio.NewScanner(r.pr)
		for scanner.Scan() {
			line := scanner.Text()
			r.logger.Println(line)

			r.mu.Lock()
			r.last = line
			r.mu.Unlock()

			for _, m := range r.matchers {
				if ms := m.regex.FindStringSubmatch(line); ms != nil {
					callback(m.event, ms)
				}
			}
		}
	}()
}

// LastLine returns the last line mpv printed.
func (r *mpvReader) LastLine() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.last
}

func (r *mpvReader) Write(b []byte) (int, error) {
	return r.pw.Write(b)
}

// Close stops the scanner.
func (r *mpvReader) Close() error {
	r.pw.Close()
	return r.pr.Close()
}
