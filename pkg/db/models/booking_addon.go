package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BookingAddon links a booking to a selected add-on at the price charged when
// the booking was created. Immutable after insert.
type BookingAddon struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BookingID uuid.UUID       `gorm:"column:booking_id;type:uuid;not null;index"`
	AddonID   uuid.UUID       `gorm:"column:addon_id;type:uuid;not null"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
}
