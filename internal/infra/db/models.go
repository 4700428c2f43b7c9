package db

import "time"

// Directory-owned tables. The gateway reads them and never writes; writes
// happen through the directory sync jobs outside this service.

type UserModel struct {
	ID        string    `gorm:"primaryKey"`
	Email     string    `gorm:"uniqueIndex;not null"`
	IsActive  bool      `gorm:"not null;default:true"`
	CreatedAt time.Time `gorm:"not null"`
}

func (UserModel) TableName() string { return "users" }

type TenantModel struct {
	ID                 string    `gorm:"type:uuid;primaryKey"`
	Slug               string    `gorm:"uniqueIndex;not null"`
	SubscriptionPlan   string    `gorm:"not null;default:'free'"`
	SubscriptionStatus string    `gorm:"not null;default:'active'"`
	IsActive           bool      `gorm:"not null;default:true"`
	CurrentUsersCount  int       `gorm:"not null;default:0"`
	CreatedAt          time.Time `gorm:"not null"`
}

func (TenantModel) TableName() string { return "tenants" }

type UserTenantRoleModel struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	UserID    string    `gorm:"index;not null"`
	TenantID  string    `gorm:"type:uuid;index;not null"`
	Role      string    `gorm:"not null"`
	IsActive  bool      `gorm:"not null;default:true"`
	CreatedAt time.Time `gorm:"not null"`
}

func (UserTenantRoleModel) TableName() string { return "user_tenant_roles" }

type SubscriptionModel struct {
	ID                 string    `gorm:"type:uuid;primaryKey"`
	TenantID           string    `gorm:"type:uuid;uniqueIndex;not null"`
	Status             string    `gorm:"not null"`
	CurrentPeriodStart time.Time `gorm:"not null"`
	CurrentPeriodEnd   time.Time `gorm:"not null"`
	CreatedAt          time.Time `gorm:"not null"`
}

func (SubscriptionModel) TableName() string { return "subscriptions" }

// Counted business resources. The gateway only counts rows per tenant for
// quota decisions; the thin CRUD handlers create and list them.

type InterventionModel struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	TenantID  string    `gorm:"type:uuid;index;not null"`
	Name      string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
}

func (InterventionModel) TableName() string { return "interventions" }

type ClientModel struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	TenantID  string    `gorm:"type:uuid;index;not null"`
	Name      string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
}

func (ClientModel) TableName() string { return "clients" }

type QuoteModel struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	TenantID  string    `gorm:"type:uuid;index;not null"`
	Name      string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
}

func (QuoteModel) TableName() string { return "quotes" }

type InvoiceModel struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	TenantID  string    `gorm:"type:uuid;index;not null"`
	Name      string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
}

func (InvoiceModel) TableName() string { return "invoices" }
