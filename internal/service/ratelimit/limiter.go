// Package ratelimit counts attempts per key in fixed windows.
package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"marketplace/internal/domain"
)

// Window is the attempt state of one key.
type Window struct {
	Count   int
	ResetAt time.Time
}

// WindowStore holds windows by key. Update must run fn atomically with
// respect to other updates of the same key, so the in-memory store can be
// swapped for a shared one without changing the counting rules.
type WindowStore interface {
	// Update passes the stored window (ok=false when the key is unseen) to
	// fn and stores what fn returns.
	Update(ctx context.Context, key string, fn func(w Window, ok bool) Window) error

	// Sweep drops windows that expired at or before now and reports how
	// many were removed.
	Sweep(ctx context.Context, now time.Time) (int, error)
}

// Limiter allows max attempts per key per window.
type Limiter struct {
	store  WindowStore
	max    int
	window time.Duration
	now    func() time.Time
	logger *slog.Logger
}

// Option customizes a Limiter
type Option func(*Limiter)

// WithClock replaces time.Now, for tests
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) { l.now = now }
}

// WithStore replaces the in-memory window store
func WithStore(store WindowStore) Option {
	return func(l *Limiter) { l.store = store }
}

// NewLimiter creates a limiter backed by a MemoryStore unless WithStore is given
func NewLimiter(max int, window time.Duration, logger *slog.Logger, opts ...Option) *Limiter {
	l := &Limiter{
		store:  NewMemoryStore(),
		max:    max,
		window: window,
		now:    time.Now,
		logger: logger,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Attempt records one attempt for key. Once the key has used max attempts
// in its window, Attempt returns *domain.RateLimitedError and leaves the
// window unchanged. Expired windows restart on access.
func (l *Limiter) Attempt(ctx context.Context, key string) error {
	now := l.now()

	var (
		denied  bool
		resetAt time.Time
	)
	err := l.store.Update(ctx, key, func(w Window, ok bool) Window {
		denied = false

		switch {
		case !ok || !now.Before(w.ResetAt):
			w = Window{Count: 1, ResetAt: now.Add(l.window)}
		case w.Count < l.max:
			w.Count++
		default:
			denied = true
		}

		resetAt = w.ResetAt
		return w
	})
	if err != nil {
		return fmt.Errorf("rate limit store: %w", err)
	}

	if denied {
		limited := &domain.RateLimitedError{RetryAfter: resetAt.Sub(now)}
		limited.Message = fmt.Sprintf("too many attempts, please try again in %d minute(s)", limited.RetryAfterMinutes())

		l.logger.Warn("rate limit exceeded",
			"key", key,
			"retry_after_minutes", limited.RetryAfterMinutes(),
		)
		return limited
	}

	return nil
}

// Sweep removes expired windows. Expiry is also enforced on access, so
// sweeping only reclaims memory.
func (l *Limiter) Sweep(ctx context.Context) error {
	removed, err := l.store.Sweep(ctx, l.now())
	if err != nil {
		return fmt.Errorf("sweep rate limit windows: %w", err)
	}
	if removed > 0 {
		l.logger.Debug("rate limit windows swept", "removed", removed)
	}
	return nil
}
