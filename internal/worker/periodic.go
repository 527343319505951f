// Package worker runs background maintenance jobs on a fixed interval.
package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Job is one run of a periodic task.
type Job func(ctx context.Context) error

// Periodic calls a Job every interval until stopped. Errors are logged and
// do not stop the loop.
type Periodic struct {
	name     string
	interval time.Duration
	job      Job
	logger   *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewPeriodic creates a stopped worker
func NewPeriodic(name string, interval time.Duration, job Job, logger *slog.Logger) *Periodic {
	return &Periodic{
		name:     name,
		interval: interval,
		job:      job,
		logger:   logger.With("worker", name),
	}
}

// Start launches the loop. Calling Start on a running worker does nothing.
// A non-positive interval disables the worker.
func (p *Periodic) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cancel != nil {
		return
	}
	if p.interval <= 0 {
		p.logger.Info("worker disabled")
		return
	}

	ctx, p.cancel = context.WithCancel(ctx)
	p.done = make(chan struct{})
	go p.run(ctx, p.done)

	p.logger.Info("worker started", "interval", p.interval.String())
}

// Stop cancels the loop and waits for an in-flight run to return.
func (p *Periodic) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel, p.done = nil, nil
	p.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done

	p.logger.Info("worker stopped")
}

func (p *Periodic) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := p.job(ctx); err != nil && ctx.Err() == nil {
				p.logger.Error("worker run failed", "error", err)
			}
		}
	}
}
