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

const spinnerInterval = 80 * time.Millisecond

// spinner animates a status line on w while a command works. The label can
// be changed between stages with set. It stops on stop or when ctx ends.
type spinner struct {
	w       io.Writer
	parent  context.Context
	ctx     context.Context
	cancel  context.CancelFunc
	exited  chan struct{}
	started bool
	once    sync.Once

	mu    sync.Mutex
	label string
	width int // widest line drawn, for clearing
}

func newSpinner(parent context.Context, w io.Writer, label string) *spinner {
	ctx, cancel := context.WithCancel(parent)
	return &spinner{
		w:      w,
		parent: parent,
		ctx:    ctx,
		cancel: cancel,
		exited: make(chan struct{}),
		label:  label,
	}
}

// start launches the animation goroutine and returns s for chaining.
func (s *spinner) start() *spinner {
	s.started = true
	go s.run()
	return s
}

func (s *spinner) run() {
	defer close(s.exited)
	tick := time.NewTicker(spinnerInterval)
	defer tick.Stop()

	for i := 0; ; i++ {
		select {
		case <-s.ctx.Done():
			s.clear()
			return
		case <-tick.C:
			s.draw(spinnerFrames[i%len(spinnerFrames)])
		}
	}
}

func (s *spinner) draw(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	line := frame + " " + s.label
	if n := len([]rune(line)); n > s.width {
		s.width = n
	}
	fmt.Fprintf(s.w, "\r%s %s", styleSpin.Render(frame), StyleDim.Render(s.label))
}

func (s *spinner) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width > 0 {
		fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width+2))
	}
}

// set replaces the label shown on the next frame.
func (s *spinner) set(label string) {
	s.mu.Lock()
	s.label = label
	s.mu.Unlock()
}

// stop halts the animation and clears the line. Safe to call repeatedly.
func (s *spinner) stop() {
	s.once.Do(func() {
		s.cancel()
		if s.started {
			<-s.exited
		}
	})
}

// fail stops the spinner and reports msg as a failure.
func (s *spinner) fail(out console, msg string) {
	s.stop()
	out.fail("%s", msg)
}

// interrupted reports whether the command's context ended.
func (s *spinner) interrupted() bool {
	return s.parent.Err() != nil
}
