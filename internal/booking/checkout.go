package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/abdelmaha121/sas/internal/audit"
	"github.com/abdelmaha121/sas/internal/catalog"
	"github.com/abdelmaha121/sas/internal/pricing"
	"github.com/abdelmaha121/sas/pkg/auth"
	"github.com/abdelmaha121/sas/pkg/db/models"
	"github.com/abdelmaha121/sas/pkg/enums"
	pkgerrors "github.com/abdelmaha121/sas/pkg/errors"
	"github.com/abdelmaha121/sas/pkg/types"
)

// Checkout creates one booking per basket item inside a single transaction.
// Any failing item aborts the whole basket.
func (s *service) Checkout(ctx context.Context, actor auth.Identity, input CheckoutInput) (*CheckoutResult, error) {
	if actor.TenantID == uuid.Nil || actor.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "tenant context required")
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "basket contains no items")
	}
	if !input.PaymentType.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid payment type %q", input.PaymentType)
	}
	for i, item := range input.Items {
		if item.ServiceID == uuid.Nil || item.ProviderID == uuid.Nil {
			return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "basket item %d is missing service or provider", i+1)
		}
		if item.ScheduledAt.IsZero() {
			return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "basket item %d is missing a scheduled time", i+1)
		}
		if item.RecurringType != "" && !item.RecurringType.IsValid() {
			return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "basket item %d has invalid recurring type %q", i+1, item.RecurringType)
		}
	}

	started := time.Now()
	result := &CheckoutResult{GrandTotal: decimal.Zero}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		catalogRepo := s.catalog.WithTx(tx)
		staged := make([]stagedSlot, 0, len(input.Items))

		for _, item := range input.Items {
			created, err := s.createBooking(ctx, repo, catalogRepo, actor, input, item, staged)
			if err != nil {
				return err
			}
			staged = append(staged, stagedSlot{
				providerID: created.ProviderID,
				start:      created.ScheduledAt,
				end:        bookingEnd(*created),
			})
			result.Bookings = append(result.Bookings, CreatedBooking{
				BookingID:   created.ID,
				ServiceID:   created.ServiceID,
				ServiceName: serviceName(created),
				TotalAmount: created.TotalAmount,
			})
			result.GrandTotal = result.GrandTotal.Add(created.TotalAmount)
		}
		return nil
	})
	if err != nil {
		s.observeCheckout(actor, "failure", started, err)
		return nil, err
	}

	result.TotalBookings = len(result.Bookings)
	s.observeCheckout(actor, "success", started, nil)
	s.metrics.IncBookingsCreated(input.PaymentType.String(), result.TotalBookings)

	for _, created := range result.Bookings {
		s.audit.Record(ctx, audit.Event{
			TenantID:     actor.TenantID,
			UserID:       actor.UserID,
			Action:       "booking_created",
			ResourceType: "booking",
			ResourceID:   created.BookingID,
			Changes: map[string]any{
				"status":       enums.BookingStatusPending.String(),
				"service_id":   created.ServiceID,
				"total_amount": created.TotalAmount.StringFixed(2),
				"payment_type": input.PaymentType.String(),
			},
			Client: input.Client,
		})
	}
	return result, nil
}

// stagedSlot is a booking written earlier in the same basket. Staged rows are
// still pending, which the availability policy ignores, so intra-basket
// overlap is resolved against this list instead of the database.
type stagedSlot struct {
	providerID uuid.UUID
	start      time.Time
	end        time.Time
}

// createBooking stages one basket item inside the open transaction.
func (s *service) createBooking(ctx context.Context, repo Repository, catalogRepo catalog.Repository, actor auth.Identity, input CheckoutInput, item BasketItem, staged []stagedSlot) (*models.Booking, error) {
	svc, err := catalogRepo.FindServiceForUpdate(ctx, item.ServiceID, item.ProviderID, actor.TenantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "service not found or unavailable")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load service")
	}
	if svc.Provider == nil {
		return nil, pkgerrors.Newf(pkgerrors.CodeNotFound, "provider not found for service: %s", svc.Name)
	}

	if !svc.PaymentMethods.Allows(input.PaymentType) {
		return nil, pkgerrors.Newf(pkgerrors.CodeConflict, "payment type %s not accepted for service: %s", input.PaymentType, svc.Name)
	}

	duration := svc.DurationMinutes
	if duration <= 0 {
		duration = s.cfg.DefaultDurationMinutes
	}
	end := item.ScheduledAt.Add(time.Duration(duration) * time.Minute)
	for _, slot := range staged {
		if slot.providerID == item.ProviderID && intervalsOverlap(item.ScheduledAt, end, slot.start, slot.end) {
			return nil, slotConflictError(svc.Name)
		}
	}
	if err := ensureSlotAvailable(ctx, repo, item.ProviderID, actor.TenantID, svc.Name, item.ScheduledAt, time.Duration(duration)*time.Minute); err != nil {
		return nil, err
	}

	addons, err := catalogRepo.FindAddons(ctx, svc.ID, item.AddonIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load addons")
	}
	if len(addons) != len(uniqueIDs(item.AddonIDs)) {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "one or more addons not found for service: %s", svc.Name)
	}

	quote := pricing.Compute(svc, addons, item.IsUrgent, svc.Provider.CommissionRate)

	currency := svc.Currency
	if currency == "" {
		currency = s.cfg.DefaultCurrency
	}

	booking := &models.Booking{
		ID:                    uuid.New(),
		TenantID:              actor.TenantID,
		CustomerID:            actor.UserID,
		ProviderID:            item.ProviderID,
		ServiceID:             svc.ID,
		BookingType:           classifyBookingType(item),
		AllowUrgent:           svc.AllowUrgent,
		MinAdvanceHours:       svc.MinAdvanceHours,
		Status:                enums.BookingStatusPending,
		ScheduledAt:           item.ScheduledAt,
		TotalAmount:           quote.Total,
		UrgentFee:             quote.UrgentFee,
		CommissionAmount:      quote.Commission,
		Currency:              currency,
		PaymentStatus:         enums.PaymentStatusPending,
		PaymentType:           input.PaymentType,
		Notes:                 combineNotes(item.Notes, input.GeneralNotes),
		CancellationType:      svc.CancellationType,
		CancellationValue:     svc.CancellationValue,
		FreeCancellationHours: svc.FreeCancellationHours,
		Recurrence:            recurrenceFor(item),
	}
	if err := repo.Create(ctx, booking); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create booking")
	}

	links := make([]models.BookingAddon, 0, len(addons))
	for _, addon := range addons {
		links = append(links, models.BookingAddon{
			ID:        uuid.New(),
			BookingID: booking.ID,
			AddonID:   addon.ID,
			Price:     addon.Price.Round(2),
		})
	}
	if err := repo.CreateAddons(ctx, links); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create booking addons")
	}

	booking.Service = svc
	return booking, nil
}

func (s *service) observeCheckout(actor auth.Identity, outcome string, started time.Time, err error) {
	s.metrics.ObserveCheckout(outcome, time.Since(started))
	if errors.Is(err, errSlotTaken) {
		s.metrics.IncSlotConflict(actor.TenantID.String())
	}
}

// classifyBookingType follows the precedence: urgent beats recurring.
func classifyBookingType(item BasketItem) enums.BookingType {
	if item.IsUrgent {
		return enums.BookingTypeEmergency
	}
	if item.RecurringType.IsRecurring() {
		return enums.BookingTypeRecurring
	}
	return enums.BookingTypeOneTime
}

func recurrenceFor(item BasketItem) *types.Recurrence {
	if item.IsUrgent {
		return nil
	}
	return types.NewRecurrence(item.RecurringType)
}

func combineNotes(itemNotes, generalNotes string) *string {
	parts := make([]string, 0, 2)
	if strings.TrimSpace(itemNotes) != "" {
		parts = append(parts, strings.TrimSpace(itemNotes))
	}
	if strings.TrimSpace(generalNotes) != "" {
		parts = append(parts, strings.TrimSpace(generalNotes))
	}
	if len(parts) == 0 {
		return nil
	}
	combined := strings.Join(parts, "\n")
	return &combined
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	unique := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	return unique
}

func serviceName(booking *models.Booking) string {
	if booking.Service != nil {
		return booking.Service.Name
	}
	return ""
}
