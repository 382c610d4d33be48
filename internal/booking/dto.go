package booking

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/abdelmaha121/sas/pkg/enums"
	"github.com/abdelmaha121/sas/pkg/types"
)

// BasketItem is one requested engagement inside a checkout call.
type BasketItem struct {
	ServiceID     uuid.UUID
	ProviderID    uuid.UUID
	ScheduledAt   time.Time
	Notes         string
	AddonIDs      []uuid.UUID
	IsUrgent      bool
	RecurringType enums.RecurringType
}

// CheckoutInput is the full basket handed to the orchestrator.
type CheckoutInput struct {
	Items        []BasketItem
	GeneralNotes string
	PaymentType  enums.PaymentType
	Client       types.ClientInfo
}

// CreatedBooking summarizes one booking written during checkout.
type CreatedBooking struct {
	BookingID   uuid.UUID       `json:"booking_id"`
	ServiceID   uuid.UUID       `json:"service_id"`
	ServiceName string          `json:"service_name"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// CheckoutResult is returned after the basket transaction commits.
type CheckoutResult struct {
	Bookings      []CreatedBooking `json:"bookings"`
	TotalBookings int              `json:"total_bookings"`
	GrandTotal    decimal.Decimal  `json:"grand_total"`
}

// StatusTransitionInput requests one state-machine step on a booking.
type StatusTransitionInput struct {
	BookingID uuid.UUID
	Status    enums.BookingStatus
	Client    types.ClientInfo
}

// ListFilter narrows booking list queries.
type ListFilter struct {
	Status     enums.BookingStatus
	CustomerID uuid.UUID
	ProviderID uuid.UUID
}
