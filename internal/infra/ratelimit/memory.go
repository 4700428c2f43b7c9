package ratelimit

import (
	"context"
	"errors"
	"sync"
	"time"

	"obotcall/internal/domain"
)

// memoryLimiter is the default single-instance backend: a mutex-guarded map
// of caller key to fixed-window entry. Expired entries are dropped lazily on
// access, with a full sweep when the table reaches MaxKeys; there is no
// background eviction goroutine.
type memoryLimiter struct {
	mu      sync.Mutex
	now     func() time.Time
	entries map[string]*windowEntry
	maxKeys int
}

type windowEntry struct {
	count   int
	resetAt time.Time
}

type MemoryLimiterConfig struct {
	Now     func() time.Time
	MaxKeys int
}

func NewMemoryLimiter(cfg MemoryLimiterConfig) domain.RateLimiter {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.MaxKeys <= 0 {
		cfg.MaxKeys = 10000
	}
	return &memoryLimiter{
		now:     cfg.Now,
		entries: make(map[string]*windowEntry),
		maxKeys: cfg.MaxKeys,
	}
}

func (m *memoryLimiter) Allow(_ context.Context, key string, limit int, window time.Duration) (domain.RateLimitDecision, error) {
	if limit <= 0 {
		return domain.RateLimitDecision{Allowed: true, Limit: limit, Remaining: limit}, nil
	}
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[key]
	if ok && !now.Before(entry.resetAt) {
		delete(m.entries, key)
		entry = nil
		ok = false
	}
	if !ok {
		if len(m.entries) >= m.maxKeys {
			m.sweep(now)
		}
		if len(m.entries) >= m.maxKeys {
			return domain.RateLimitDecision{}, errors.New("rate limiter capacity exceeded")
		}
		entry = &windowEntry{resetAt: now.Add(window)}
		m.entries[key] = entry
	}

	entry.count++
	remaining := limit - entry.count
	if remaining < 0 {
		remaining = 0
	}
	return domain.RateLimitDecision{
		Allowed:   entry.count <= limit,
		Limit:     limit,
		Remaining: remaining,
		ResetAt:   entry.resetAt,
	}, nil
}

func (m *memoryLimiter) sweep(now time.Time) {
	for key, entry := range m.entries {
		if !now.Before(entry.resetAt) {
			delete(m.entries, key)
		}
	}
}
