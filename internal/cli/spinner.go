package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerTick = 80 * time.Millisecond

// Spinner animates a status line on w while a pipeline stage runs. Once a
// stage takes longer than a second the elapsed time is shown after the message.
type Spinner struct {
	w       io.Writer
	message string
	parent  context.Context

	mu      sync.Mutex
	width   int // visible width of the last frame, for clearing
	stop    chan struct{}
	stopped chan struct{}
	once    sync.Once
	running bool
}

func newSpinner(ctx context.Context, w io.Writer, message string) *Spinner {
	return &Spinner{
		w:       w,
		message: message,
		parent:  ctx,
		stop:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

// Start draws frames until Stop is called or the context is done.
func (s *Spinner) Start() {
	s.mu.Lock()
	s.running = true
	s.mu.Unlock()

	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(spinnerTick)
		defer ticker.Stop()

		start := time.Now()
		for i := 0; ; i++ {
			select {
			case <-s.parent.Done():
				s.clear()
				return
			case <-s.stop:
				return
			case <-ticker.C:
				s.draw(spinnerFrames[i%len(spinnerFrames)], time.Since(start))
			}
		}
	}()
}

func (s *Spinner) draw(frame string, elapsed time.Duration) {
	text := s.message
	if elapsed >= time.Second {
		text += fmt.Sprintf(" %.0fs", elapsed.Seconds())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(text))
	s.width = len([]rune(text)) + 2
}

func (s *Spinner) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width > 0 {
		fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width))
		s.width = 0
	}
}

// Stop halts the animation and erases the line. Repeated calls are no-ops.
func (s *Spinner) Stop() {
	s.once.Do(func() {
		close(s.stop)
		s.mu.Lock()
		running := s.running
		s.mu.Unlock()
		if running {
			<-s.stopped
		}
		s.clear()
	})
}

// StopWithError stops the spinner and reports the failed stage.
func (s *Spinner) StopWithError(message string) {
	s.Stop()
	printError("%s", message)
}

// Cancelled reports whether the stage was interrupted.
func (s *Spinner) Cancelled() bool {
	return s.parent.Err() != nil
}
