package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/abdelmaha121/sas/pkg/enums"
	"github.com/abdelmaha121/sas/pkg/types"
)

// Booking is one scheduled engagement between a customer and a provider.
// Monetary fields and the cancellation policy are snapshotted at creation and
// never recomputed from the service afterwards.
type Booking struct {
	ID                    uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TenantID              uuid.UUID           `gorm:"column:tenant_id;type:uuid;not null;index"`
	CustomerID            uuid.UUID           `gorm:"column:customer_id;type:uuid;not null;index"`
	ProviderID            uuid.UUID           `gorm:"column:provider_id;type:uuid;not null;index"`
	ServiceID             uuid.UUID           `gorm:"column:service_id;type:uuid;not null;index"`
	BookingType           enums.BookingType   `gorm:"column:booking_type;type:booking_type;not null;default:'one_time'"`
	AllowUrgent           bool                `gorm:"column:allow_urgent;not null;default:false"`
	MinAdvanceHours       int                 `gorm:"column:min_advance_hours;not null;default:0"`
	Status                enums.BookingStatus `gorm:"column:status;type:booking_status;not null;default:'pending'"`
	ScheduledAt           time.Time           `gorm:"column:scheduled_at;not null"`
	TotalAmount           decimal.Decimal     `gorm:"column:total_amount;type:numeric(10,2);not null"`
	UrgentFee             decimal.Decimal     `gorm:"column:urgent_fee;type:numeric(10,2);not null;default:0"`
	CommissionAmount      decimal.Decimal     `gorm:"column:commission_amount;type:numeric(10,2);not null;default:0"`
	Currency              string              `gorm:"column:currency;not null;default:'OMR'"`
	PaymentStatus         enums.PaymentStatus `gorm:"column:payment_status;type:payment_status;not null;default:'pending'"`
	PaymentType           enums.PaymentType   `gorm:"column:payment_type;type:payment_type;not null"`
	Notes                 *string             `gorm:"column:notes"`
	CancellationType      *string             `gorm:"column:cancellation_type"`
	CancellationValue     *decimal.Decimal    `gorm:"column:cancellation_value;type:numeric(10,2)"`
	FreeCancellationHours int                 `gorm:"column:free_cancellation_hours;not null;default:0"`
	Recurrence            *types.Recurrence   `gorm:"column:recurrence;type:jsonb;serializer:json"`
	Addons                []BookingAddon      `gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE"`
	Service               *Service            `gorm:"foreignKey:ServiceID"`
	Provider              *ServiceProvider    `gorm:"foreignKey:ProviderID"`
	CreatedAt             time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt             time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// CancellationPolicy reassembles the snapshot stored on the row.
func (b Booking) CancellationPolicy() types.CancellationPolicy {
	return types.CancellationPolicy{
		Type:                  b.CancellationType,
		Value:                 b.CancellationValue,
		FreeCancellationHours: b.FreeCancellationHours,
	}
}
