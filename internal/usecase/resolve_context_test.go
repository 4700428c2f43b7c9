package usecase

import (
	"context"
	"errors"
	"testing"

	"obotcall/internal/domain"
)

type stubDirectory struct {
	users    map[string]domain.User
	bindings map[string]domain.UserTenantRole
	tenants  map[string]domain.Tenant
	subs     map[string]domain.Subscription

	userErr    error
	bindingErr error
	tenantErr  error
	subErr     error

	subCalls int
}

func (d *stubDirectory) GetByID(_ context.Context, id string) (*domain.User, error) {
	if d.userErr != nil {
		return nil, d.userErr
	}
	user, ok := d.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &user, nil
}

func (d *stubDirectory) ActiveBinding(_ context.Context, userID string) (*domain.UserTenantRole, error) {
	if d.bindingErr != nil {
		return nil, d.bindingErr
	}
	binding, ok := d.bindings[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &binding, nil
}

func (d *stubDirectory) GetActiveByID(_ context.Context, tenantID string) (*domain.Tenant, error) {
	if d.tenantErr != nil {
		return nil, d.tenantErr
	}
	tenant, ok := d.tenants[tenantID]
	if !ok || !tenant.Active {
		return nil, domain.ErrNotFound
	}
	return &tenant, nil
}

func (d *stubDirectory) GetByTenant(_ context.Context, tenantID string) (*domain.Subscription, error) {
	d.subCalls++
	if d.subErr != nil {
		return nil, d.subErr
	}
	sub, ok := d.subs[tenantID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &sub, nil
}

func newResolver(dir *stubDirectory) *ContextResolver {
	return &ContextResolver{Users: dir, Tenants: dir, Subscriptions: dir}
}

func validDirectory() *stubDirectory {
	return &stubDirectory{
		users: map[string]domain.User{
			"user-1": {ID: "user-1", Email: "tech@acme.test", Active: true},
		},
		bindings: map[string]domain.UserTenantRole{
			"user-1": {UserID: "user-1", TenantID: "tenant-1", Role: "technician", IsActive: true},
		},
		tenants: map[string]domain.Tenant{
			"tenant-1": {ID: "tenant-1", Slug: "acme", SubscriptionPlan: domain.PlanStarter, Active: true},
		},
		subs: map[string]domain.Subscription{},
	}
}

func TestResolveHappyPathWithoutSubscription(t *testing.T) {
	dir := validDirectory()
	actx, err := newResolver(dir).Resolve(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if actx.User.ID != "user-1" || actx.Tenant.ID != "tenant-1" {
		t.Fatalf("unexpected context: %+v", actx)
	}
	if actx.User.Role != "technician" {
		t.Fatalf("expected role from binding, got %q", actx.User.Role)
	}
}

func TestResolveUnknownUserIsUnauthenticated(t *testing.T) {
	dir := validDirectory()
	_, err := newResolver(dir).Resolve(context.Background(), "ghost")
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated, got %v", err)
	}
}

func TestResolveInactiveUserIsUnauthenticated(t *testing.T) {
	dir := validDirectory()
	dir.users["user-1"] = domain.User{ID: "user-1", Active: false}
	_, err := newResolver(dir).Resolve(context.Background(), "user-1")
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated, got %v", err)
	}
}

func TestResolveNoActiveBindingIsForbidden(t *testing.T) {
	dir := validDirectory()
	delete(dir.bindings, "user-1")
	_, err := newResolver(dir).Resolve(context.Background(), "user-1")
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestResolveDisabledTenantRejectsBeforeSubscription(t *testing.T) {
	dir := validDirectory()
	tenant := dir.tenants["tenant-1"]
	tenant.Active = false
	dir.tenants["tenant-1"] = tenant
	dir.subs["tenant-1"] = domain.Subscription{Status: domain.SubscriptionPastDue}

	_, err := newResolver(dir).Resolve(context.Background(), "user-1")
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated, got %v", err)
	}
	if dir.subCalls != 0 {
		t.Fatalf("subscription store must not be consulted for a disabled tenant")
	}
}

func TestResolveDirectoryErrorFailsClosed(t *testing.T) {
	dir := validDirectory()
	dir.userErr = errors.New("store unreachable")
	_, err := newResolver(dir).Resolve(context.Background(), "user-1")
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated on store error, got %v", err)
	}
}

func TestResolvePastDueSubscriptionBlocks(t *testing.T) {
	dir := validDirectory()
	dir.subs["tenant-1"] = domain.Subscription{Status: domain.SubscriptionPastDue}

	_, err := newResolver(dir).Resolve(context.Background(), "user-1")
	var inactive *domain.SubscriptionInactiveError
	if !errors.As(err, &inactive) {
		t.Fatalf("expected SubscriptionInactiveError, got %v", err)
	}
	if inactive.Status != domain.SubscriptionPastDue {
		t.Fatalf("expected past_due status in payload, got %q", inactive.Status)
	}
}

func TestResolveTrialingSubscriptionPasses(t *testing.T) {
	dir := validDirectory()
	dir.subs["tenant-1"] = domain.Subscription{Status: domain.SubscriptionTrialing}

	if _, err := newResolver(dir).Resolve(context.Background(), "user-1"); err != nil {
		t.Fatalf("trialing should pass, got %v", err)
	}
}

func TestResolveSubscriptionStoreErrorFailsClosed(t *testing.T) {
	dir := validDirectory()
	dir.subErr = errors.New("store unreachable")

	_, err := newResolver(dir).Resolve(context.Background(), "user-1")
	var inactive *domain.SubscriptionInactiveError
	if !errors.As(err, &inactive) {
		t.Fatalf("expected SubscriptionInactiveError on store error, got %v", err)
	}
}
