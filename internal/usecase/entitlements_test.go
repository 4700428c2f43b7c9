package usecase

import (
	"context"
	"errors"
	"testing"

	"obotcall/internal/domain"
)

type stubUsage struct {
	counts map[domain.ResourceKind]int64
	err    error
}

func (u *stubUsage) CountForTenant(_ context.Context, _ string, kind domain.ResourceKind) (int64, error) {
	if u.err != nil {
		return 0, u.err
	}
	return u.counts[kind], nil
}

func tenantContext(plan domain.PlanID, users int) domain.AuthContext {
	return domain.AuthContext{
		User:   domain.User{ID: "user-1", Role: "manager", Active: true},
		Tenant: domain.Tenant{ID: "tenant-1", SubscriptionPlan: plan, Active: true, CurrentUsersCount: users},
	}
}

func TestRequireFeatureFullSetPassesAnything(t *testing.T) {
	e := &Entitlements{Catalog: domain.DefaultCatalog()}
	if err := e.RequireFeature(tenantContext(domain.PlanEnterprise, 1), "anything"); err != nil {
		t.Fatalf("enterprise should pass any feature, got %v", err)
	}
}

func TestRequireFeatureReportsUpsellPlans(t *testing.T) {
	e := &Entitlements{Catalog: domain.DefaultCatalog()}
	err := e.RequireFeature(tenantContext(domain.PlanStarter, 1), domain.FeatureStockManagement)
	var unavailable *domain.FeatureUnavailableError
	if !errors.As(err, &unavailable) {
		t.Fatalf("expected FeatureUnavailableError, got %v", err)
	}
	if unavailable.RequiredPlan != domain.PlanPro {
		t.Fatalf("expected required plan pro, got %q", unavailable.RequiredPlan)
	}
	if unavailable.CurrentPlan != domain.PlanStarter {
		t.Fatalf("expected current plan starter, got %q", unavailable.CurrentPlan)
	}
}

func TestRequireFeatureUnknownPlanGrantsNothing(t *testing.T) {
	e := &Entitlements{Catalog: domain.DefaultCatalog()}
	err := e.RequireFeature(tenantContext("legacy", 1), domain.FeatureClients)
	var unavailable *domain.FeatureUnavailableError
	if !errors.As(err, &unavailable) {
		t.Fatalf("expected FeatureUnavailableError, got %v", err)
	}
}

func TestCheckUsageUnlimitedSkipsCounter(t *testing.T) {
	usage := &stubUsage{err: errors.New("counter must not be read")}
	e := &Entitlements{Catalog: domain.DefaultCatalog(), Usage: usage}
	if err := e.CheckUsage(context.Background(), tenantContext(domain.PlanEnterprise, 1), domain.ResourceInterventions); err != nil {
		t.Fatalf("unlimited limit should pass without reading the counter, got %v", err)
	}
}

func TestCheckUsageAtLimitBlocks(t *testing.T) {
	catalog := domain.NewPlanCatalog(domain.Plan{
		ID:       domain.PlanStarter,
		Features: domain.AllFeatures(),
		Limits:   map[domain.ResourceKind]int64{domain.ResourceClients: 5},
		MaxUsers: domain.Unlimited,
	})
	usage := &stubUsage{counts: map[domain.ResourceKind]int64{domain.ResourceClients: 5}}
	e := &Entitlements{Catalog: catalog, Usage: usage}

	err := e.CheckUsage(context.Background(), tenantContext(domain.PlanStarter, 1), domain.ResourceClients)
	var limit *domain.UsageLimitError
	if !errors.As(err, &limit) {
		t.Fatalf("expected UsageLimitError at the limit, got %v", err)
	}
	if limit.Current != 5 || limit.Limit != 5 || limit.Plan != domain.PlanStarter {
		t.Fatalf("unexpected payload: %+v", limit)
	}

	usage.counts[domain.ResourceClients] = 4
	if err := e.CheckUsage(context.Background(), tenantContext(domain.PlanStarter, 1), domain.ResourceClients); err != nil {
		t.Fatalf("below the limit should pass, got %v", err)
	}
}

func TestCheckUsageCounterFailureIsInternal(t *testing.T) {
	e := &Entitlements{
		Catalog: domain.DefaultCatalog(),
		Usage:   &stubUsage{err: errors.New("counter unreachable")},
	}
	err := e.CheckUsage(context.Background(), tenantContext(domain.PlanFree, 1), domain.ResourceInterventions)
	if !errors.Is(err, domain.ErrInternal) {
		t.Fatalf("expected internal error, got %v", err)
	}
	var limit *domain.UsageLimitError
	if errors.As(err, &limit) {
		t.Fatalf("a counter failure must not be reported as a quota breach")
	}
}

func TestCheckSeatsAtLimitBlocks(t *testing.T) {
	e := &Entitlements{Catalog: domain.DefaultCatalog()}

	err := e.CheckSeats(tenantContext(domain.PlanStarter, 3))
	var seats *domain.SeatLimitError
	if !errors.As(err, &seats) {
		t.Fatalf("expected SeatLimitError, got %v", err)
	}
	if seats.Current != 3 || seats.Max != 3 {
		t.Fatalf("unexpected payload: %+v", seats)
	}

	if err := e.CheckSeats(tenantContext(domain.PlanStarter, 2)); err != nil {
		t.Fatalf("below the seat limit should pass, got %v", err)
	}
	if err := e.CheckSeats(tenantContext(domain.PlanEnterprise, 100000)); err != nil {
		t.Fatalf("unlimited seats should pass, got %v", err)
	}
}
