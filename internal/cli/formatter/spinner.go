package formatter

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
)

// Spinner draws a one-line activity indicator on w while a holiday sync or
// an outbound post is in flight. Callers only start it on a terminal.
type Spinner struct {
	w       io.Writer
	message string
	frames  spinner.Spinner
	quit    chan struct{}
	once    sync.Once
	wg      sync.WaitGroup
}

func NewSpinner(w io.Writer, message string) *Spinner {
	return &Spinner{
		w:       w,
		message: message,
		frames:  spinner.MiniDot,
		quit:    make(chan struct{}),
	}
}

func (s *Spinner) Start() {
	s.wg.Add(1)
	go s.loop()
}

func (s *Spinner) loop() {
	defer s.wg.Done()
	tick := time.NewTicker(s.frames.FPS)
	defer tick.Stop()

	for i := 0; ; i++ {
		frame := s.frames.Frames[i%len(s.frames.Frames)]
		fmt.Fprintf(s.w, "\r  %s %s", StylePurple.Render(frame), Dim(s.message))
		select {
		case <-s.quit:
			fmt.Fprint(s.w, "\r\033[K")
			return
		case <-tick.C:
		}
	}
}

// Stop clears the spinner line and waits for the drawing goroutine.
// Repeated calls are no-ops.
func (s *Spinner) Stop() {
	s.once.Do(func() {
		close(s.quit)
		s.wg.Wait()
	})
}

// StartSpinner starts a spinner and returns its Stop.
func StartSpinner(w io.Writer, message string) func() {
	s := NewSpinner(w, message)
	s.Start()
	return s.Stop
}
