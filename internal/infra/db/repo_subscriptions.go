package db

import (
	"context"
	"errors"

	"obotcall/internal/domain"

	"gorm.io/gorm"
)

type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) GetByTenant(ctx context.Context, tenantID string) (*domain.Subscription, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	var model SubscriptionModel
	err := r.db.WithContext(ctx).First(&model, "tenant_id = ?", tenantID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &domain.Subscription{
		Status:             model.Status,
		CurrentPeriodStart: model.CurrentPeriodStart,
		CurrentPeriodEnd:   model.CurrentPeriodEnd,
	}, nil
}
