package ratelimit

import (
	"context"
	"sync"
	"time"
)

// entry tracks request count and window end for a single key.
type entry struct {
	count     int
	windowEnd time.Time
}

// MemoryStore is the in-process counter store. Limits reset on restart; a
// window past its end self-corrects on next access, so the background sweep
// only bounds memory, it is not a correctness requirement.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*entry
	stopCh  chan struct{}
	once    sync.Once
}

// NewMemoryStore creates a store and starts a sweep goroutine with the given
// interval. A non-positive interval disables sweeping (useful in tests).
func NewMemoryStore(sweepInterval time.Duration) *MemoryStore {
	s := &MemoryStore{
		entries: make(map[string]*entry),
		stopCh:  make(chan struct{}),
	}
	if sweepInterval > 0 {
		go s.sweep(sweepInterval)
	}
	return s
}

// Incr increments the counter for key, resetting it first if the prior
// window has elapsed. Never returns an error.
func (s *MemoryStore) Incr(_ context.Context, key string, window time.Duration) (int, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	e, exists := s.entries[key]
	if !exists || now.After(e.windowEnd) {
		e = &entry{count: 1, windowEnd: now.Add(window)}
		s.entries[key] = e
		return e.count, e.windowEnd, nil
	}

	e.count++
	return e.count, e.windowEnd, nil
}

// Stop terminates the sweep goroutine.
func (s *MemoryStore) Stop() {
	s.once.Do(func() { close(s.stopCh) })
}

func (s *MemoryStore) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.mu.Lock()
			now := time.Now()
			for key, e := range s.entries {
				if now.After(e.windowEnd) {
					delete(s.entries, key)
				}
			}
			s.mu.Unlock()
		case <-s.stopCh:
			return
		}
	}
}
