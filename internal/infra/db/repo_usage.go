package db

import (
	"context"
	"fmt"

	"obotcall/internal/domain"

	"gorm.io/gorm"
)

// UsageRepository is the usage counter source for the quota gate. Counts are
// live row counts per tenant, not cached tallies.
type UsageRepository struct {
	db *gorm.DB
}

func NewUsageRepository(db *gorm.DB) *UsageRepository {
	return &UsageRepository{db: db}
}

func (r *UsageRepository) CountForTenant(ctx context.Context, tenantID string, kind domain.ResourceKind) (int64, error) {
	if r.db == nil {
		return 0, errDBUnavailable
	}
	model, err := modelForKind(kind)
	if err != nil {
		return 0, err
	}
	var count int64
	err = r.db.WithContext(ctx).
		Model(model).
		Where("tenant_id = ?", tenantID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func modelForKind(kind domain.ResourceKind) (any, error) {
	switch kind {
	case domain.ResourceInterventions:
		return &InterventionModel{}, nil
	case domain.ResourceClients:
		return &ClientModel{}, nil
	case domain.ResourceQuotes:
		return &QuoteModel{}, nil
	case domain.ResourceInvoices:
		return &InvoiceModel{}, nil
	default:
		return nil, fmt.Errorf("unknown resource kind %q", kind)
	}
}
