package db

import (
	"context"
	"errors"

	"obotcall/internal/domain"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	var model UserModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &domain.User{
		ID:     model.ID,
		Email:  model.Email,
		Active: model.IsActive,
	}, nil
}

// ActiveBinding returns the oldest active tenant binding for a user. Multiple
// active bindings are a data anomaly; ordering by creation time keeps the
// pick deterministic without resolving the anomaly here.
func (r *UserRepository) ActiveBinding(ctx context.Context, userID string) (*domain.UserTenantRole, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	var model UserTenantRoleModel
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("created_at ASC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &domain.UserTenantRole{
		UserID:    model.UserID,
		TenantID:  model.TenantID,
		Role:      model.Role,
		IsActive:  model.IsActive,
		CreatedAt: model.CreatedAt,
	}, nil
}
