package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/abdelmaha121/sas/pkg/types"
)

// Service is a bookable offering published by a provider within a tenant.
type Service struct {
	ID                    uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TenantID              uuid.UUID            `gorm:"column:tenant_id;type:uuid;not null;index"`
	ProviderID            uuid.UUID            `gorm:"column:provider_id;type:uuid;not null;index"`
	Name                  string               `gorm:"column:name;not null"`
	Description           *string              `gorm:"column:description"`
	BasePrice             decimal.Decimal      `gorm:"column:base_price;type:numeric(10,2);not null"`
	Currency              string               `gorm:"column:currency;not null;default:'OMR'"`
	DurationMinutes       int                  `gorm:"column:duration_minutes;not null;default:60"`
	AllowUrgent           bool                 `gorm:"column:allow_urgent;not null;default:false"`
	UrgentFee             decimal.Decimal      `gorm:"column:urgent_fee;type:numeric(10,2);not null;default:0"`
	MinAdvanceHours       int                  `gorm:"column:min_advance_hours;not null;default:0"`
	PaymentMethods        types.PaymentMethods `gorm:"column:payment_methods;type:jsonb;serializer:json"`
	CancellationType      *string              `gorm:"column:cancellation_type"`
	CancellationValue     *decimal.Decimal     `gorm:"column:cancellation_value;type:numeric(10,2)"`
	FreeCancellationHours int                  `gorm:"column:free_cancellation_hours;not null;default:0"`
	IsActive              bool                 `gorm:"column:is_active;not null"`
	Provider              *ServiceProvider     `gorm:"foreignKey:ProviderID"`
	Addons                []ServiceAddon       `gorm:"foreignKey:ServiceID;constraint:OnDelete:CASCADE"`
	CreatedAt             time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt             time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
