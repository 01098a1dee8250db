package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestSpinnerStop(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner(context.Background(), &buf, "Working...")
	s.Start()
	s.Stop()
	s.Stop()
	if s.Cancelled() {
		t.Error("Cancelled() = true after a normal Stop")
	}
}

func TestSpinnerCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var buf bytes.Buffer
	s := newSpinner(ctx, &buf, "Working...")
	s.Start()
	cancel()
	if !s.Cancelled() {
		t.Error("Cancelled() = false after the parent context ended")
	}
	s.Stop()
	if !s.Cancelled() {
		t.Error("Cancelled() = false after Stop of an interrupted spinner")
	}
}

func TestSpinnerLine(t *testing.T) {
	s := newSpinner(context.Background(), nil, "Enumerating bits...")
	tests := []struct {
		elapsed time.Duration
		want    string
	}{
		{300 * time.Millisecond, "Enumerating bits..."},
		{2500 * time.Millisecond, "Enumerating bits... 2s"},
		{61 * time.Second, "Enumerating bits... 1m1s"},
	}
	for _, tt := range tests {
		got := s.line(0, tt.elapsed)
		if !strings.Contains(got, tt.want) {
			t.Errorf("line(%v) = %q, want it to contain %q", tt.elapsed, got, tt.want)
		}
		if tt.elapsed < time.Second && strings.Contains(got, "ms") {
			t.Errorf("line(%v) = %q shows elapsed time too early", tt.elapsed, got)
		}
	}
}

func TestSpinnerEraseClearsDrawnLine(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner(context.Background(), &buf, "x")
	s.erase()
	if buf.Len() != 0 {
		t.Errorf("erase on a clean line wrote %q", buf.String())
	}

	s.draw("long line")
	s.draw("short")
	if !strings.HasSuffix(buf.String(), "\rshort    ") {
		t.Errorf("shorter frame not padded: %q", buf.String())
	}
	buf.Reset()
	s.erase()
	if got := buf.String(); got != "\r     \r" {
		t.Errorf("erase wrote %q", got)
	}
}
