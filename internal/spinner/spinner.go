// Package spinner renders a one-character busy indicator on a terminal
// while a long operation runs.
package spinner

import (
	"context"
	"io"
	"os"
	"sync"
	"time"

	"golang.org/x/term"
)

// DefaultInterval is the delay between two frames.
const DefaultInterval = 100 * time.Millisecond

// frames is the rotation drawn in place, one glyph at a time.
var frames = [...]string{"-", "/", "|", `\`}

// Spinner draws frames to an output. It carries no data about the
// operation it decorates.
type Spinner struct {
	out      io.Writer
	interval time.Duration
	enabled  bool
}

// Option configures a Spinner.
type Option func(*Spinner)

// WithInterval sets the delay between frames.
func WithInterval(d time.Duration) Option {
	return func(s *Spinner) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithEnabled forces the spinner on or off, overriding terminal detection.
func WithEnabled(enabled bool) Option {
	return func(s *Spinner) {
		s.enabled = enabled
	}
}

// New creates a Spinner writing to out. It is enabled only when out is a
// terminal, unless WithEnabled says otherwise.
func New(out io.Writer, opts ...Option) *Spinner {
	s := &Spinner{
		out:      out,
		interval: DefaultInterval,
		enabled:  IsTerminal(out),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IsTerminal reports whether w is a file attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd())) //nolint:gosec // Fd fits in int on every supported platform
}

// Handle controls one running spinner.
type Handle struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// Start begins drawing in a new goroutine and returns its handle.
// A disabled spinner returns a handle whose Stop does nothing.
func (s *Spinner) Start() *Handle {
	ctx, cancel := context.WithCancel(context.Background())
	h := &Handle{cancel: cancel, done: make(chan struct{})}

	if !s.enabled {
		close(h.done)
		return h
	}

	go s.run(ctx, h.done)
	return h
}

// run draws frames until ctx is cancelled, then erases the last glyph.
func (s *Spinner) run(ctx context.Context, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	i := 0
	_, _ = io.WriteString(s.out, frames[i]) //nolint:errcheck // cosmetic output
	for {
		select {
		case <-ctx.Done():
			_, _ = io.WriteString(s.out, "\b \b") //nolint:errcheck
			return
		case <-ticker.C:
			i = (i + 1) % len(frames)
			_, _ = io.WriteString(s.out, "\b"+frames[i]) //nolint:errcheck
		}
	}
}

// Stop cancels the spinner and waits until its goroutine has exited and
// the last glyph is erased. It is safe to call more than once.
func (h *Handle) Stop() {
	h.once.Do(h.cancel)
	<-h.done
}
