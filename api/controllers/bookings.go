package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/abdelmaha121/sas/api/middleware"
	"github.com/abdelmaha121/sas/api/responses"
	"github.com/abdelmaha121/sas/api/validators"
	bookingsvc "github.com/abdelmaha121/sas/internal/booking"
	"github.com/abdelmaha121/sas/pkg/db/models"
	"github.com/abdelmaha121/sas/pkg/enums"
	pkgerrors "github.com/abdelmaha121/sas/pkg/errors"
	"github.com/abdelmaha121/sas/pkg/logger"
	"github.com/abdelmaha121/sas/pkg/pagination"
	"github.com/abdelmaha121/sas/pkg/types"
)

type basketItemRequest struct {
	ServiceID     uuid.UUID   `json:"service_id" validate:"required"`
	ProviderID    uuid.UUID   `json:"provider_id" validate:"required"`
	ScheduledAt   time.Time   `json:"scheduled_at" validate:"required"`
	Notes         string      `json:"notes" validate:"omitempty,max=2000"`
	AddonIDs      []uuid.UUID `json:"addon_ids" validate:"omitempty,max=20"`
	IsUrgent      bool        `json:"is_urgent"`
	RecurringType string      `json:"recurring_type" validate:"omitempty,max=32"`
}

type basketCheckoutRequest struct {
	Items        []basketItemRequest `json:"items" validate:"required,min=1,max=20,dive"`
	GeneralNotes string              `json:"general_notes" validate:"omitempty,max=2000"`
	PaymentType  string              `json:"payment_type" validate:"required,max=32"`
}

// BasketCheckout creates every booking in the submitted basket atomically.
func BasketCheckout(svc bookingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "booking service unavailable"))
			return
		}

		var payload basketCheckoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		paymentType, err := enums.ParsePaymentType(payload.PaymentType)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment type"))
			return
		}

		items := make([]bookingsvc.BasketItem, 0, len(payload.Items))
		for _, item := range payload.Items {
			recurring := enums.RecurringType("")
			if item.RecurringType != "" {
				recurring, err = enums.ParseRecurringType(item.RecurringType)
				if err != nil {
					responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid recurring type"))
					return
				}
			}
			items = append(items, bookingsvc.BasketItem{
				ServiceID:     item.ServiceID,
				ProviderID:    item.ProviderID,
				ScheduledAt:   item.ScheduledAt,
				Notes:         item.Notes,
				AddonIDs:      item.AddonIDs,
				IsUrgent:      item.IsUrgent,
				RecurringType: recurring,
			})
		}

		actor := middleware.IdentityFromContext(r.Context())
		result, err := svc.Checkout(r.Context(), actor, bookingsvc.CheckoutInput{
			Items:        items,
			GeneralNotes: payload.GeneralNotes,
			PaymentType:  paymentType,
			Client:       types.ExtractClientInfo(r),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

type statusUpdateRequest struct {
	Status string `json:"status" validate:"required,max=32"`
}

// BookingStatusUpdate moves one booking through its state machine.
func BookingStatusUpdate(svc bookingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "booking service unavailable"))
			return
		}

		bookingID, err := parseBookingID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload statusUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParseBookingStatus(payload.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid booking status"))
			return
		}

		actor := middleware.IdentityFromContext(r.Context())
		updated, err := svc.TransitionStatus(r.Context(), actor, bookingsvc.StatusTransitionInput{
			BookingID: bookingID,
			Status:    status,
			Client:    types.ExtractClientInfo(r),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newBookingResponse(updated))
	}
}

// BookingDetail returns one booking visible to the caller.
func BookingDetail(svc bookingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "booking service unavailable"))
			return
		}

		bookingID, err := parseBookingID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actor := middleware.IdentityFromContext(r.Context())
		booking, err := svc.GetByID(r.Context(), actor, bookingID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newBookingResponse(booking))
	}
}

type bookingListResponse struct {
	Bookings   []bookingResponse `json:"bookings"`
	NextCursor string            `json:"next_cursor,omitempty"`
}

// BookingsList returns a role-scoped page of bookings.
func BookingsList(svc bookingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "booking service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		cursor := strings.TrimSpace(r.URL.Query().Get("cursor"))

		filter := bookingsvc.ListFilter{}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := enums.ParseBookingStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid booking status"))
				return
			}
			filter.Status = status
		}
		if filter.CustomerID, err = validators.ParseQueryUUID(r, "customer_id"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if filter.ProviderID, err = validators.ParseQueryUUID(r, "provider_id"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actor := middleware.IdentityFromContext(r.Context())
		bookings, nextCursor, err := svc.List(r.Context(), actor, filter, pagination.Params{Limit: limit, Cursor: cursor})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list := bookingListResponse{
			Bookings:   make([]bookingResponse, 0, len(bookings)),
			NextCursor: nextCursor,
		}
		for i := range bookings {
			list.Bookings = append(list.Bookings, newBookingResponse(&bookings[i]))
		}
		responses.WriteSuccess(w, list)
	}
}

func parseBookingID(r *http.Request) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "bookingId"))
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "booking id is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid booking id")
	}
	return id, nil
}

type bookingResponse struct {
	ID               uuid.UUID             `json:"id"`
	ServiceID        uuid.UUID             `json:"service_id"`
	ServiceName      string                `json:"service_name,omitempty"`
	ProviderID       uuid.UUID             `json:"provider_id"`
	CustomerID       uuid.UUID             `json:"customer_id"`
	BookingType      enums.BookingType     `json:"booking_type"`
	Status           enums.BookingStatus   `json:"status"`
	ScheduledAt      time.Time             `json:"scheduled_at"`
	TotalAmount      string                `json:"total_amount"`
	CommissionAmount string                `json:"commission_amount"`
	Currency         string                `json:"currency"`
	PaymentType      enums.PaymentType     `json:"payment_type"`
	PaymentStatus    enums.PaymentStatus   `json:"payment_status"`
	Notes            string                `json:"notes,omitempty"`
	Addons           []bookingAddonDetail  `json:"addons,omitempty"`
	CreatedAt        time.Time             `json:"created_at"`
}

type bookingAddonDetail struct {
	AddonID uuid.UUID `json:"addon_id"`
	Price   string    `json:"price"`
}

func newBookingResponse(b *models.Booking) bookingResponse {
	if b == nil {
		return bookingResponse{}
	}
	resp := bookingResponse{
		ID:               b.ID,
		ServiceID:        b.ServiceID,
		ProviderID:       b.ProviderID,
		CustomerID:       b.CustomerID,
		BookingType:      b.BookingType,
		Status:           b.Status,
		ScheduledAt:      b.ScheduledAt,
		TotalAmount:      b.TotalAmount.StringFixed(2),
		CommissionAmount: b.CommissionAmount.StringFixed(2),
		Currency:         b.Currency,
		PaymentType:      b.PaymentType,
		PaymentStatus:    b.PaymentStatus,
		CreatedAt:        b.CreatedAt,
	}
	if b.Service != nil {
		resp.ServiceName = b.Service.Name
	}
	if b.Notes != nil {
		resp.Notes = *b.Notes
	}
	for _, addon := range b.Addons {
		resp.Addons = append(resp.Addons, bookingAddonDetail{
			AddonID: addon.AddonID,
			Price:   addon.Price.StringFixed(2),
		})
	}
	return resp
}
