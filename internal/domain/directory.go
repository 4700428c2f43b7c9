package domain

import "time"

// Subscription lifecycle states, as reported by the billing provider.
const (
	SubscriptionActive   = "active"
	SubscriptionTrialing = "trialing"
	SubscriptionPastDue  = "past_due"
	SubscriptionCanceled = "canceled"
)

// User is a directory-owned record, read-only to the gateway. Role is the
// role from the resolved tenant binding, filled in during resolution.
type User struct {
	ID     string
	Email  string
	Role   string
	Active bool
}

type Tenant struct {
	ID                 string
	Slug               string
	SubscriptionPlan   PlanID
	SubscriptionStatus string
	Active             bool
	CurrentUsersCount  int
}

// Subscription is the 0-or-1 billing record per tenant. Absence means
// plan-less access; presence in a non-active, non-trialing state blocks the
// tenant regardless of plan.
type Subscription struct {
	Status             string
	CurrentPeriodStart time.Time
	CurrentPeriodEnd   time.Time
}

func (s Subscription) Usable() bool {
	return s.Status == SubscriptionActive || s.Status == SubscriptionTrialing
}

// UserTenantRole binds a user to a tenant. At most one active binding per
// user is honored; the repository returns them in creation order and the
// resolver takes the first.
type UserTenantRole struct {
	UserID    string
	TenantID  string
	Role      string
	IsActive  bool
	CreatedAt time.Time
}

// AuthContext is the resolved {user, tenant} pair attached to a request after
// identity and tenant resolution. Request-local, never shared across requests.
type AuthContext struct {
	User   User
	Tenant Tenant
}
