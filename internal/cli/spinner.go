package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

var spinnerFrames = []rune("⠋⠙⠹⠸⠼⠴⠦⠧⠇⠏")

// Spinner draws an animated status line on stderr while a query runs.
type Spinner struct {
	ctx     context.Context
	w       io.Writer
	message string
	quit    chan struct{}
	wg      sync.WaitGroup
	once    sync.Once
}

func newSpinner(ctx context.Context, w io.Writer, message string) *Spinner {
	return &Spinner{ctx: ctx, w: w, message: message, quit: make(chan struct{})}
}

// Start draws frames until Stop is called or the context is done.
func (s *Spinner) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		tick := time.NewTicker(80 * time.Millisecond)
		defer tick.Stop()
		for frame := 0; ; frame++ {
			select {
			case <-s.ctx.Done():
				return
			case <-s.quit:
				return
			case <-tick.C:
				icon := string(spinnerFrames[frame%len(spinnerFrames)])
				fmt.Fprintf(s.w, "\r%s %s", styleIconSpinner.Render(icon), StyleDim.Render(s.message))
			}
		}
	}()
}

// Stop waits for the animation to end and blanks the line. Later calls are
// no-ops.
func (s *Spinner) Stop() {
	s.once.Do(func() {
		close(s.quit)
		s.wg.Wait()
		fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", len(s.message)+4))
	})
}
