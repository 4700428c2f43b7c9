package http

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"obotcall/internal/domain"

	"github.com/gin-gonic/gin"
)

const anonymousKey = "anonymous"

// limitOverride replaces the shared budget for one mount. The scope keeps the
// mount's windows separate from every other mount's, so its counters are its
// own. Zero fields fall back to the server-wide defaults.
type limitOverride struct {
	Scope    string
	Requests int
	Window   time.Duration
}

// rateLimitMiddleware admits requests under a fixed-window budget, resolved
// once at mount time: the shared env-configured budget unless the mount
// passes an override. It runs after the auth middleware on protected routes
// and alone on public ones, so the caller key falls through
// identity > client address > anonymous.
func (s *Server) rateLimitMiddleware(overrides ...limitOverride) gin.HandlerFunc {
	requests := s.rateLimitRequests
	window := s.rateLimitWindow
	scope := ""
	if len(overrides) > 0 {
		if overrides[0].Requests > 0 {
			requests = overrides[0].Requests
		}
		if overrides[0].Window > 0 {
			window = overrides[0].Window
		}
		scope = overrides[0].Scope
	}
	return func(c *gin.Context) {
		if s.rateLimiter == nil || requests <= 0 {
			c.Next()
			return
		}
		key := callerKey(c)
		if scope != "" {
			key = scope + ":" + key
		}
		decision, err := s.rateLimiter.Allow(c.Request.Context(), key, requests, window)
		if err != nil {
			if s.rateLimitFailClosed {
				writeErrorCode(c, http.StatusTooManyRequests, codeRateLimited, "rate limiter unavailable")
				return
			}
			c.Next()
			return
		}
		writeRateLimitHeaders(c, decision)
		if !decision.Allowed {
			retryAfter := retryAfterSeconds(decision.ResetAt, s.now())
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			writeGuardError(c, &domain.RateLimitedError{RetryAfterSeconds: retryAfter})
			return
		}
		c.Next()
	}
}

func callerKey(c *gin.Context) string {
	if actx, ok := authContextFrom(c); ok {
		return "tenant:" + actx.Tenant.ID + ":user:" + actx.User.ID
	}
	if ip := c.ClientIP(); ip != "" {
		return "ip:" + ip
	}
	return anonymousKey
}

func retryAfterSeconds(resetAt, now time.Time) int {
	if resetAt.IsZero() || !resetAt.After(now) {
		return 0
	}
	return int(math.Ceil(resetAt.Sub(now).Seconds()))
}

func writeRateLimitHeaders(c *gin.Context, decision domain.RateLimitDecision) {
	if decision.Limit > 0 {
		c.Header("RateLimit-Limit", strconv.Itoa(decision.Limit))
	}
	if decision.Remaining >= 0 {
		c.Header("RateLimit-Remaining", strconv.Itoa(decision.Remaining))
	}
	if !decision.ResetAt.IsZero() {
		c.Header("RateLimit-Reset", strconv.FormatInt(decision.ResetAt.Unix(), 10))
	}
}
