package usecase

import (
	"context"
	"fmt"

	"obotcall/internal/domain"
)

// Entitlements gates operations on the tenant's plan: feature membership,
// per-resource quotas, and seat count.
type Entitlements struct {
	Catalog *domain.PlanCatalog
	Usage   UsageSource
}

func (e *Entitlements) RequireFeature(actx domain.AuthContext, feature string) error {
	failure := &domain.FeatureUnavailableError{
		Feature:     feature,
		CurrentPlan: actx.Tenant.SubscriptionPlan,
	}
	if required, found := e.Catalog.MinimumPlanFor(feature); found {
		failure.RequiredPlan = required
	}
	plan, ok := e.Catalog.Get(actx.Tenant.SubscriptionPlan)
	if !ok {
		// An unrecognized plan grants nothing.
		return failure
	}
	if !plan.Features.Has(feature) {
		return failure
	}
	return nil
}

// CheckUsage blocks the next creation once the current count reaches the
// plan's limit. A failing counter source is an internal error, not a quota
// breach.
func (e *Entitlements) CheckUsage(ctx context.Context, actx domain.AuthContext, kind domain.ResourceKind) error {
	plan, ok := e.Catalog.Get(actx.Tenant.SubscriptionPlan)
	if !ok {
		return fmt.Errorf("unknown plan %q: %w", actx.Tenant.SubscriptionPlan, domain.ErrInternal)
	}
	limit := plan.Limit(kind)
	if limit == domain.Unlimited {
		return nil
	}
	current, err := e.Usage.CountForTenant(ctx, actx.Tenant.ID, kind)
	if err != nil {
		return fmt.Errorf("usage counter for %s: %w", kind, domain.ErrInternal)
	}
	if current >= limit {
		return &domain.UsageLimitError{
			Resource: kind,
			Current:  current,
			Limit:    limit,
			Plan:     plan.ID,
		}
	}
	return nil
}

func (e *Entitlements) CheckSeats(actx domain.AuthContext) error {
	plan, ok := e.Catalog.Get(actx.Tenant.SubscriptionPlan)
	if !ok {
		return fmt.Errorf("unknown plan %q: %w", actx.Tenant.SubscriptionPlan, domain.ErrInternal)
	}
	if plan.MaxUsers == domain.Unlimited {
		return nil
	}
	if actx.Tenant.CurrentUsersCount >= plan.MaxUsers {
		return &domain.SeatLimitError{
			Current: actx.Tenant.CurrentUsersCount,
			Max:     plan.MaxUsers,
			Plan:    plan.ID,
		}
	}
	return nil
}
