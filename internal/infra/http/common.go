package http

import (
	"errors"
	"net/http"

	"obotcall/internal/domain"

	"github.com/gin-gonic/gin"
)

// Error categories exposed in response bodies.
const (
	codeUnauthenticated      = "unauthenticated"
	codeForbidden            = "forbidden"
	codeSubscriptionInactive = "subscription_inactive"
	codeFeatureUnavailable   = "feature_unavailable"
	codeUsageLimitReached    = "usage_limit_reached"
	codeSeatLimitReached     = "seat_limit_reached"
	codeRateLimited          = "rate_limited"
	codeInvalidArgument      = "invalid_argument"
	codeNotFound             = "not_found"
	codeInternal             = "internal"
)

func writeErrorCode(c *gin.Context, status int, category, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": category, "message": message})
}

// writeGuardError maps the guard error taxonomy to HTTP: 401 unauthenticated,
// 403 forbidden/feature, 402 subscription, 429 quota/seat/rate.
func writeGuardError(c *gin.Context, err error) {
	var subscription *domain.SubscriptionInactiveError
	if errors.As(err, &subscription) {
		c.AbortWithStatusJSON(http.StatusPaymentRequired, gin.H{
			"error":   codeSubscriptionInactive,
			"message": "subscription is not active",
			"status":  subscription.Status,
		})
		return
	}
	var feature *domain.FeatureUnavailableError
	if errors.As(err, &feature) {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error":         codeFeatureUnavailable,
			"message":       "feature not available on current plan",
			"required_plan": feature.RequiredPlan,
			"current_plan":  feature.CurrentPlan,
		})
		return
	}
	var usage *domain.UsageLimitError
	if errors.As(err, &usage) {
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"error":         codeUsageLimitReached,
			"message":       "usage limit reached for " + string(usage.Resource),
			"current_usage": usage.Current,
			"limit":         usage.Limit,
			"plan":          usage.Plan,
		})
		return
	}
	var seats *domain.SeatLimitError
	if errors.As(err, &seats) {
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"error":         codeSeatLimitReached,
			"message":       "seat limit reached",
			"current_users": seats.Current,
			"max_users":     seats.Max,
			"plan":          seats.Plan,
		})
		return
	}
	var limited *domain.RateLimitedError
	if errors.As(err, &limited) {
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"error":      codeRateLimited,
			"message":    "rate limit exceeded",
			"retryAfter": limited.RetryAfterSeconds,
		})
		return
	}
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		writeErrorCode(c, http.StatusUnauthorized, codeUnauthenticated, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		writeErrorCode(c, http.StatusForbidden, codeForbidden, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeErrorCode(c, http.StatusNotFound, codeNotFound, "not found")
	default:
		writeErrorCode(c, http.StatusInternalServerError, codeInternal, "internal error")
	}
}
