package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPeriodic_RunsUntilStopped(t *testing.T) {
	var runs atomic.Int32
	p := NewPeriodic("test", 5*time.Millisecond, func(ctx context.Context) error {
		runs.Add(1)
		return errors.New("failures do not stop the loop")
	}, discardLogger())

	p.Start(context.Background())
	p.Start(context.Background()) // second start is a no-op

	deadline := time.Now().Add(2 * time.Second)
	for runs.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if runs.Load() < 3 {
		t.Fatalf("job ran %d times, want at least 3", runs.Load())
	}

	p.Stop()
	after := runs.Load()
	time.Sleep(30 * time.Millisecond)
	if runs.Load() != after {
		t.Errorf("job kept running after Stop: %d -> %d", after, runs.Load())
	}

	p.Stop() // stopping twice is safe
}

func TestPeriodic_StopsWithParentContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var runs atomic.Int32
	p := NewPeriodic("test", 5*time.Millisecond, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	}, discardLogger())

	p.Start(ctx)
	cancel()

	done := make(chan struct{})
	go func() {
		p.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return after parent context was cancelled")
	}
}

func TestPeriodic_DisabledInterval(t *testing.T) {
	var runs atomic.Int32
	p := NewPeriodic("disabled", 0, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	}, discardLogger())

	p.Start(context.Background())
	time.Sleep(10 * time.Millisecond)
	p.Stop()

	if runs.Load() != 0 {
		t.Errorf("disabled worker ran %d times", runs.Load())
	}
}
