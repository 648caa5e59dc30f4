package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"
)

func newTestLimiter(max int, window time.Duration) *Limiter {
	return New(NewMemoryStore(0), max, window)
}

func TestLimiter_AllowsUpToMax(t *testing.T) {
	l := newTestLimiter(10, 5*time.Minute)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		d, err := l.Check(ctx, "caller-a")
		if err != nil {
			t.Fatalf("check %d: %v", i+1, err)
		}
		if !d.Allowed {
			t.Fatalf("request %d should be allowed", i+1)
		}
		if want := 10 - (i + 1); d.Remaining != want {
			t.Errorf("request %d: remaining = %d, want %d", i+1, d.Remaining, want)
		}
	}

	d, err := l.Check(ctx, "caller-a")
	if err != nil {
		t.Fatal(err)
	}
	if d.Allowed {
		t.Fatal("11th request should be rejected")
	}
	if d.Remaining != 0 {
		t.Errorf("remaining = %d, want 0", d.Remaining)
	}
	if !d.ResetAt.After(time.Now()) {
		t.Error("resetAt should be strictly in the future")
	}
}

func TestLimiter_DifferentKeysIndependent(t *testing.T) {
	l := newTestLimiter(2, time.Minute)
	ctx := context.Background()

	l.Check(ctx, "caller-a")
	l.Check(ctx, "caller-a")

	if d, _ := l.Check(ctx, "caller-a"); d.Allowed {
		t.Fatal("caller-a should be blocked")
	}
	if d, _ := l.Check(ctx, "caller-b"); !d.Allowed {
		t.Fatal("caller-b should be allowed (independent key)")
	}
}

func TestLimiter_WindowResets(t *testing.T) {
	l := newTestLimiter(2, 50*time.Millisecond)
	ctx := context.Background()

	l.Check(ctx, "caller")
	l.Check(ctx, "caller")

	if d, _ := l.Check(ctx, "caller"); d.Allowed {
		t.Fatal("should be blocked within window")
	}

	time.Sleep(60 * time.Millisecond)

	if d, _ := l.Check(ctx, "caller"); !d.Allowed {
		t.Fatal("should be allowed after window reset")
	}
}

func TestLimiter_ResetAtStable(t *testing.T) {
	l := newTestLimiter(5, time.Minute)
	ctx := context.Background()

	first, _ := l.Check(ctx, "caller")
	second, _ := l.Check(ctx, "caller")

	if !first.ResetAt.Equal(second.ResetAt) {
		t.Error("resetAt should not move within a window")
	}
}

func TestLimiter_ConcurrentChecksNeverOverAdmit(t *testing.T) {
	l := newTestLimiter(10, time.Minute)
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d, err := l.Check(ctx, "shared")
			if err != nil {
				t.Error(err)
				return
			}
			if d.Allowed {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if allowed != 10 {
		t.Errorf("allowed = %d, want exactly 10", allowed)
	}
}

func TestMemoryStore_SweepRemovesExpired(t *testing.T) {
	s := NewMemoryStore(10 * time.Millisecond)
	defer s.Stop()
	ctx := context.Background()

	s.Incr(ctx, "old", 5*time.Millisecond)

	time.Sleep(30 * time.Millisecond)

	s.mu.Lock()
	_, exists := s.entries["old"]
	s.mu.Unlock()
	if exists {
		t.Error("expired entry should have been swept")
	}
}
