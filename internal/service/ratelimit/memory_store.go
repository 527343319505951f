package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is a process-local WindowStore. It is not shared between
// server instances.
type MemoryStore struct {
	mu      sync.Mutex
	windows map[string]Window
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{windows: make(map[string]Window)}
}

func (s *MemoryStore) Update(_ context.Context, key string, fn func(w Window, ok bool) Window) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.windows[key]
	s.windows[key] = fn(w, ok)
	return nil
}

func (s *MemoryStore) Sweep(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, w := range s.windows {
		if !now.Before(w.ResetAt) {
			delete(s.windows, key)
			removed++
		}
	}
	return removed, nil
}

// Len returns the number of tracked keys
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.windows)
}
