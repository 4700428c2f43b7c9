package db

import (
	"context"
	"errors"

	"obotcall/internal/domain"

	"gorm.io/gorm"
)

type TenantRepository struct {
	db *gorm.DB
}

func NewTenantRepository(db *gorm.DB) *TenantRepository {
	return &TenantRepository{db: db}
}

// GetActiveByID resolves a tenant only while its active flag holds. A
// deactivated tenant is indistinguishable from a missing one; deactivation is
// the authoritative kill switch.
func (r *TenantRepository) GetActiveByID(ctx context.Context, tenantID string) (*domain.Tenant, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	var model TenantModel
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_active = ?", tenantID, true).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &domain.Tenant{
		ID:                 model.ID,
		Slug:               model.Slug,
		SubscriptionPlan:   domain.PlanID(model.SubscriptionPlan),
		SubscriptionStatus: model.SubscriptionStatus,
		Active:             model.IsActive,
		CurrentUsersCount:  model.CurrentUsersCount,
	}, nil
}
