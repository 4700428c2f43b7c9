package usecase

import (
	"context"

	"obotcall/internal/domain"
)

// Directory store read interfaces. Each returns at most one record or
// domain.ErrNotFound.

type UserDirectory interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	ActiveBinding(ctx context.Context, userID string) (*domain.UserTenantRole, error)
}

type TenantDirectory interface {
	GetActiveByID(ctx context.Context, tenantID string) (*domain.Tenant, error)
}

type SubscriptionDirectory interface {
	GetByTenant(ctx context.Context, tenantID string) (*domain.Subscription, error)
}

// UsageSource reports current counts per tenant per resource kind.
// Incrementing the counts on create/delete is the record handlers' business,
// not the gateway's.
type UsageSource interface {
	CountForTenant(ctx context.Context, tenantID string, kind domain.ResourceKind) (int64, error)
}
