// Package ratelimit implements a fixed-window request limiter behind an
// injectable counter store, so a single instance can count in memory while a
// multi-instance deployment shares counters through Redis without widening
// the effective limit.
package ratelimit

import (
	"context"
	"time"
)

// Decision is the outcome of one limit check. ResetAt lets callers compute
// backoff; there are no blocking or waiting semantics.
type Decision struct {
	Allowed   bool
	Remaining int
	Limit     int
	ResetAt   time.Time
}

// Store increments and returns the counter for a key within its current
// window. The increment-and-read must be atomic per key: two concurrent
// callers must never both observe a count under the limit when together
// they exceed it.
type Store interface {
	Incr(ctx context.Context, key string, window time.Duration) (count int, windowEnd time.Time, err error)
}

// Limiter enforces a max-requests-per-window policy over a Store.
type Limiter struct {
	store  Store
	max    int
	window time.Duration
}

func New(store Store, max int, window time.Duration) *Limiter {
	return &Limiter{store: store, max: max, window: window}
}

// Check counts the call itself, then evaluates the limit: the limiting
// request consumes a slot even when it is rejected.
func (l *Limiter) Check(ctx context.Context, identity string) (Decision, error) {
	count, windowEnd, err := l.store.Incr(ctx, identity, l.window)
	if err != nil {
		return Decision{}, err
	}

	remaining := l.max - count
	if remaining < 0 {
		remaining = 0
	}

	return Decision{
		Allowed:   count <= l.max,
		Remaining: remaining,
		Limit:     l.max,
		ResetAt:   windowEnd,
	}, nil
}
