package formatter

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
)

// Spinner draws a single animated status line on out while a plan is being
// built. It writes only to out, never to stdout, so piped plan output stays
// clean.
type Spinner struct {
	out    io.Writer
	frames spinner.Spinner

	mu      sync.Mutex
	message string

	once   sync.Once
	cancel context.CancelFunc
	done   chan struct{}
}

func NewSpinner(out io.Writer, message string) *Spinner {
	return &Spinner{out: out, frames: spinner.MiniDot, message: message}
}

// Start begins the animation. It is a no-op after the first call.
func (s *Spinner) Start() {
	s.once.Do(func() {
		ctx, cancel := context.WithCancel(context.Background())
		s.mu.Lock()
		s.cancel = cancel
		s.done = make(chan struct{})
		s.mu.Unlock()
		go s.run(ctx)
	})
}

// SetMessage swaps the text shown next to the frame.
func (s *Spinner) SetMessage(message string) {
	s.mu.Lock()
	s.message = message
	s.mu.Unlock()
}

// Stop ends the animation and clears the line. It is safe to call more than
// once or without Start.
func (s *Spinner) Stop() {
	s.once.Do(func() {}) // a later Start must not launch
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel = nil
	s.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (s *Spinner) run(ctx context.Context) {
	defer close(s.done)
	tick := time.NewTicker(s.frames.FPS)
	defer tick.Stop()

	for frame := 0; ; frame++ {
		select {
		case <-ctx.Done():
			fmt.Fprint(s.out, "\r\033[K")
			return
		case <-tick.C:
			s.mu.Lock()
			msg := s.message
			s.mu.Unlock()
			glyph := s.frames.Frames[frame%len(s.frames.Frames)]
			fmt.Fprintf(s.out, "\r  %s %s", StyleWorkout.Render(glyph), Dim(msg))
		}
	}
}

// StartSpinner starts a spinner on out and returns its stop function.
func StartSpinner(out io.Writer, message string) func() {
	s := NewSpinner(out, message)
	s.Start()
	return s.Stop
}
