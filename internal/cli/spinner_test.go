package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer guards a buffer written by the spinner goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinnerStop(t *testing.T) {
	var out syncBuffer
	s := newSpinner(context.Background(), &out, "Identifying...")
	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.Stop()
	s.Stop()

	got := out.String()
	if !strings.Contains(got, "Identifying...") {
		t.Errorf("spinner never drew its message: %q", got)
	}
	if !strings.HasSuffix(got, "\r") {
		t.Errorf("spinner should end on a blanked line: %q", got)
	}
}

func TestSpinnerStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var out syncBuffer
	s := newSpinner(ctx, &out, "Identifying...")
	s.Start()
	cancel()

	stopped := make(chan struct{})
	go func() {
		s.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return after the context was cancelled")
	}
}
