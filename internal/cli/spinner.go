package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 80 * time.Millisecond

// Spinner animates a status line on w while a long search runs. Once the
// search passes a second the line also shows the elapsed time. The line
// disappears when the parent context ends or Stop is called.
type Spinner struct {
	w      io.Writer
	label  string
	parent context.Context

	quit     chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once
	started  time.Time

	mu          sync.Mutex
	width       int // visible width of the line on screen, 0 when clear
	interrupted bool
}

// newSpinner creates a spinner that writes to w.
func newSpinner(ctx context.Context, w io.Writer, label string) *Spinner {
	return &Spinner{w: w, label: label, parent: ctx, quit: make(chan struct{})}
}

// Start launches the animation goroutine.
func (s *Spinner) Start() {
	s.started = time.Now()
	s.wg.Add(1)
	go s.run()
}

func (s *Spinner) run() {
	defer s.wg.Done()
	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()

	for tick := 0; ; tick++ {
		select {
		case <-s.parent.Done():
			s.erase()
			return
		case <-s.quit:
			return
		case <-ticker.C:
			s.draw(s.line(tick, time.Since(s.started)))
		}
	}
}

// line renders one animation frame.
func (s *Spinner) line(tick int, elapsed time.Duration) string {
	text := s.label
	if elapsed >= time.Second {
		text += " " + elapsed.Truncate(time.Second).String()
	}
	return styleIconSpinner.Render(spinnerFrames[tick%len(spinnerFrames)]) + " " + StyleDim.Render(text)
}

func (s *Spinner) draw(line string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w := lipgloss.Width(line)
	pad := ""
	if s.width > w {
		pad = strings.Repeat(" ", s.width-w)
	}
	fmt.Fprint(s.w, "\r"+line+pad)
	s.width = w
}

func (s *Spinner) erase() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width == 0 {
		return
	}
	fmt.Fprint(s.w, "\r"+strings.Repeat(" ", s.width)+"\r")
	s.width = 0
}

// Stop ends the animation and clears the line. It is safe to call more
// than once.
func (s *Spinner) Stop() {
	s.stopOnce.Do(func() {
		s.mu.Lock()
		s.interrupted = s.parent.Err() != nil
		s.mu.Unlock()
		close(s.quit)
	})
	s.wg.Wait()
	s.erase()
}

// Cancelled reports whether the parent context ended before Stop.
func (s *Spinner) Cancelled() bool {
	select {
	case <-s.quit:
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.interrupted
	default:
		return s.parent.Err() != nil
	}
}
