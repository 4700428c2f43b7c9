package db

import (
	"context"
	"fmt"
	"time"

	"obotcall/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ResourceRepository backs the thin CRUD routes mounted behind the gates.
type ResourceRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewResourceRepository(db *gorm.DB) *ResourceRepository {
	return &ResourceRepository{db: db, now: time.Now}
}

type ResourceRecord struct {
	ID        string
	TenantID  string
	Name      string
	CreatedAt time.Time
}

func (r *ResourceRepository) Create(ctx context.Context, kind domain.ResourceKind, tenantID, name string) (ResourceRecord, error) {
	if r.db == nil {
		return ResourceRecord{}, errDBUnavailable
	}
	record := ResourceRecord{
		ID:        uuid.NewString(),
		TenantID:  tenantID,
		Name:      name,
		CreatedAt: r.now().UTC(),
	}
	model, err := modelFromRecord(kind, record)
	if err != nil {
		return ResourceRecord{}, err
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return ResourceRecord{}, err
	}
	return record, nil
}

func (r *ResourceRepository) List(ctx context.Context, kind domain.ResourceKind, tenantID string) ([]ResourceRecord, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	model, err := modelForKind(kind)
	if err != nil {
		return nil, err
	}
	rows := []struct {
		ID        string
		TenantID  string
		Name      string
		CreatedAt time.Time
	}{}
	err = r.db.WithContext(ctx).
		Model(model).
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	records := make([]ResourceRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, ResourceRecord{
			ID:        row.ID,
			TenantID:  row.TenantID,
			Name:      row.Name,
			CreatedAt: row.CreatedAt,
		})
	}
	return records, nil
}

func modelFromRecord(kind domain.ResourceKind, record ResourceRecord) (any, error) {
	switch kind {
	case domain.ResourceInterventions:
		return &InterventionModel{ID: record.ID, TenantID: record.TenantID, Name: record.Name, CreatedAt: record.CreatedAt}, nil
	case domain.ResourceClients:
		return &ClientModel{ID: record.ID, TenantID: record.TenantID, Name: record.Name, CreatedAt: record.CreatedAt}, nil
	case domain.ResourceQuotes:
		return &QuoteModel{ID: record.ID, TenantID: record.TenantID, Name: record.Name, CreatedAt: record.CreatedAt}, nil
	case domain.ResourceInvoices:
		return &InvoiceModel{ID: record.ID, TenantID: record.TenantID, Name: record.Name, CreatedAt: record.CreatedAt}, nil
	default:
		return nil, fmt.Errorf("unknown resource kind %q", kind)
	}
}
