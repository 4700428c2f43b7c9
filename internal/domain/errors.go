package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrInternal        = errors.New("internal error")
)

// SubscriptionInactiveError is a commercial block, not a security decision:
// the caller should renew, not re-authenticate.
type SubscriptionInactiveError struct {
	Status string
}

func (e *SubscriptionInactiveError) Error() string {
	return fmt.Sprintf("subscription inactive: %s", e.Status)
}

type FeatureUnavailableError struct {
	Feature      string
	RequiredPlan PlanID
	CurrentPlan  PlanID
}

func (e *FeatureUnavailableError) Error() string {
	return fmt.Sprintf("feature %q not available on plan %q", e.Feature, e.CurrentPlan)
}

type UsageLimitError struct {
	Resource ResourceKind
	Current  int64
	Limit    int64
	Plan     PlanID
}

func (e *UsageLimitError) Error() string {
	return fmt.Sprintf("usage limit reached for %s: %d/%d on plan %q", e.Resource, e.Current, e.Limit, e.Plan)
}

type SeatLimitError struct {
	Current int
	Max     int
	Plan    PlanID
}

func (e *SeatLimitError) Error() string {
	return fmt.Sprintf("seat limit reached: %d/%d on plan %q", e.Current, e.Max, e.Plan)
}

type RateLimitedError struct {
	RetryAfterSeconds int
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limited, retry after %ds", e.RetryAfterSeconds)
}
