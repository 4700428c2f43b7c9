package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestMemoryLimiterFixedWindow(t *testing.T) {
	now := time.Unix(1700000000, 0)
	limiter := NewMemoryLimiter(MemoryLimiterConfig{Now: func() time.Time { return now }})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		decision, err := limiter.Allow(ctx, "caller", 3, time.Second)
		if err != nil {
			t.Fatalf("allow %d: %v", i, err)
		}
		if !decision.Allowed {
			t.Fatalf("request %d within the window should be admitted", i+1)
		}
	}

	decision, err := limiter.Allow(ctx, "caller", 3, time.Second)
	if err != nil {
		t.Fatalf("allow: %v", err)
	}
	if decision.Allowed {
		t.Fatalf("4th request within the window should be rejected")
	}
	if decision.Remaining != 0 {
		t.Fatalf("expected remaining 0, got %d", decision.Remaining)
	}
	if decision.ResetAt.Before(now) {
		t.Fatalf("reset time should not be in the past")
	}

	// Advance past the window: a new request passes and resets the count.
	now = now.Add(1100 * time.Millisecond)
	decision, err = limiter.Allow(ctx, "caller", 3, time.Second)
	if err != nil {
		t.Fatalf("allow after window: %v", err)
	}
	if !decision.Allowed {
		t.Fatalf("request after the window elapsed should be admitted")
	}
	if decision.Remaining != 2 {
		t.Fatalf("count should have reset to 1, remaining 2, got %d", decision.Remaining)
	}
}

func TestMemoryLimiterIsolatesKeys(t *testing.T) {
	limiter := NewMemoryLimiter(MemoryLimiterConfig{})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if decision, _ := limiter.Allow(ctx, "a", 1, time.Minute); decision.Allowed != (i == 0) {
			t.Fatalf("key a request %d: unexpected decision %v", i+1, decision.Allowed)
		}
	}
	if decision, _ := limiter.Allow(ctx, "b", 1, time.Minute); !decision.Allowed {
		t.Fatalf("key b should not share key a's window")
	}
}

func TestMemoryLimiterZeroLimitAlwaysPasses(t *testing.T) {
	limiter := NewMemoryLimiter(MemoryLimiterConfig{})
	decision, err := limiter.Allow(context.Background(), "caller", 0, time.Second)
	if err != nil || !decision.Allowed {
		t.Fatalf("disabled limiter should admit, got %v %v", decision, err)
	}
}

func TestMemoryLimiterConcurrentAdmissions(t *testing.T) {
	const workers = 16
	limiter := NewMemoryLimiter(MemoryLimiterConfig{})
	ctx := context.Background()

	var wg sync.WaitGroup
	admitted := make(chan bool, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			decision, err := limiter.Allow(ctx, "shared", workers-1, time.Minute)
			if err != nil {
				t.Errorf("allow: %v", err)
				return
			}
			admitted <- decision.Allowed
		}()
	}
	wg.Wait()
	close(admitted)

	allowed := 0
	for ok := range admitted {
		if ok {
			allowed++
		}
	}
	if allowed != workers-1 {
		t.Fatalf("expected exactly %d admissions, got %d", workers-1, allowed)
	}
}

func TestMemoryLimiterSweepsExpiredAtCapacity(t *testing.T) {
	now := time.Unix(1700000000, 0)
	limiter := NewMemoryLimiter(MemoryLimiterConfig{Now: func() time.Time { return now }, MaxKeys: 2})
	ctx := context.Background()

	if _, err := limiter.Allow(ctx, "a", 1, time.Second); err != nil {
		t.Fatalf("allow a: %v", err)
	}
	if _, err := limiter.Allow(ctx, "b", 1, time.Second); err != nil {
		t.Fatalf("allow b: %v", err)
	}
	if _, err := limiter.Allow(ctx, "c", 1, time.Second); err == nil {
		t.Fatalf("expected capacity error while entries are live")
	}

	now = now.Add(2 * time.Second)
	if _, err := limiter.Allow(ctx, "c", 1, time.Second); err != nil {
		t.Fatalf("expired entries should be swept to make room: %v", err)
	}
}
