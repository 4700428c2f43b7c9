package usecase

import (
	"context"
	"errors"
	"fmt"

	"obotcall/internal/domain"
)

// ContextResolver turns a verified subject id into a tenant-scoped
// AuthContext: user lookup, active tenant binding, tenant resolution, then
// the subscription check. Every step fails closed with its own category and
// short-circuits the rest of the chain.
type ContextResolver struct {
	Users         UserDirectory
	Tenants       TenantDirectory
	Subscriptions SubscriptionDirectory
}

func (r *ContextResolver) Resolve(ctx context.Context, subject string) (domain.AuthContext, error) {
	user, err := r.Users.GetByID(ctx, subject)
	if err != nil {
		return domain.AuthContext{}, fmt.Errorf("user not found: %w", domain.ErrUnauthenticated)
	}
	if !user.Active {
		return domain.AuthContext{}, fmt.Errorf("user disabled: %w", domain.ErrUnauthenticated)
	}

	binding, err := r.Users.ActiveBinding(ctx, user.ID)
	if err != nil {
		return domain.AuthContext{}, fmt.Errorf("no active tenant: %w", domain.ErrForbidden)
	}
	user.Role = binding.Role

	// Tenant deactivation is the authoritative kill switch: it must reject
	// before the subscription state is even considered.
	tenant, err := r.Tenants.GetActiveByID(ctx, binding.TenantID)
	if err != nil {
		return domain.AuthContext{}, fmt.Errorf("tenant not found or disabled: %w", domain.ErrUnauthenticated)
	}

	if err := r.checkSubscription(ctx, tenant.ID); err != nil {
		return domain.AuthContext{}, err
	}

	return domain.AuthContext{User: *user, Tenant: *tenant}, nil
}

// checkSubscription passes when no subscription record exists (plan-less
// access) and otherwise requires an active or trialing status. A store error
// is treated as the guard's own failure, never passed through.
func (r *ContextResolver) checkSubscription(ctx context.Context, tenantID string) error {
	sub, err := r.Subscriptions.GetByTenant(ctx, tenantID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return &domain.SubscriptionInactiveError{Status: "unknown"}
	}
	if !sub.Usable() {
		return &domain.SubscriptionInactiveError{Status: sub.Status}
	}
	return nil
}
