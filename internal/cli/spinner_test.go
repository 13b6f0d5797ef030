package cli

import (
	"context"
	"io"
	"testing"
	"time"
)

func testSpinner(msg string) *spinner {
	s := newSpinnerWithContext(context.Background(), msg)
	s.out = io.Discard
	return s
}

func TestSpinnerStartStop(t *testing.T) {
	s := testSpinner("Computing layouts...")
	s.Start()
	time.Sleep(100 * time.Millisecond)
	s.Stop()

	if s.cancelled() {
		t.Error("explicit Stop should not count as a context cancellation")
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := testSpinner("Computing layouts...")
	s.Start()

	// Repeated stops must not panic or deadlock.
	s.Stop()
	s.Stop()
	s.Stop()
}

func TestSpinnerContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := newSpinnerWithContext(ctx, "Computing layouts...")
	s.out = io.Discard
	s.Start()

	cancel()
	time.Sleep(100 * time.Millisecond)

	if !s.cancelled() {
		t.Error("spinner should report cancellation after its context ends")
	}
	s.Stop()
}
