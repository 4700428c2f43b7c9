package domain

import (
	"context"
	"time"
)

type RateLimitDecision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RateLimiter is a fixed-window counter keyed by caller identity. The
// read-increment-compare sequence is atomic per key in every implementation,
// so concurrent requests sharing a key cannot both be admitted past the limit.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (RateLimitDecision, error)
}
