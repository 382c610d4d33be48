package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/abdelmaha121/sas/internal/audit"
	"github.com/abdelmaha121/sas/internal/wallet"
	"github.com/abdelmaha121/sas/pkg/auth"
	"github.com/abdelmaha121/sas/pkg/db/models"
	"github.com/abdelmaha121/sas/pkg/enums"
	pkgerrors "github.com/abdelmaha121/sas/pkg/errors"
)

// TransitionStatus applies one state-machine step to a booking. The booking
// row stays locked for the whole transaction; completing a cash-on-delivery
// booking debits the provider's wallet in the same transaction.
func (s *service) TransitionStatus(ctx context.Context, actor auth.Identity, input StatusTransitionInput) (*models.Booking, error) {
	if actor.TenantID == uuid.Nil || actor.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "tenant context required")
	}
	if input.BookingID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "booking id required")
	}
	if input.Status != enums.BookingStatusCompleted && input.Status != enums.BookingStatusCancelled {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "status must be %s or %s", enums.BookingStatusCompleted, enums.BookingStatusCancelled)
	}

	var booking *models.Booking
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		var err error
		booking, err = repo.FindForUpdate(ctx, input.BookingID, actor.TenantID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "booking not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load booking")
		}

		if booking.Status != enums.BookingStatusPending {
			return pkgerrors.Newf(pkgerrors.CodeStateConflict, "booking is %s and cannot transition to %s", booking.Status, input.Status)
		}
		if err := authorizeTransition(actor, booking, input.Status); err != nil {
			return err
		}

		if input.Status == enums.BookingStatusCompleted && s.commissionDue(booking) {
			if booking.Provider == nil {
				return pkgerrors.New(pkgerrors.CodeDependency, "booking provider no longer resolvable")
			}
			_, err := s.wallet.Apply(ctx, tx, wallet.EntryInput{
				TenantID:      booking.TenantID,
				UserID:        booking.Provider.UserID,
				Type:          enums.WalletTransactionTypeDebit,
				Amount:        booking.CommissionAmount,
				ReferenceType: "booking",
				ReferenceID:   booking.ID,
				Description:   fmt.Sprintf("commission for booking %s", booking.ID),
			})
			if err != nil {
				return err
			}
		}

		if err := repo.UpdateStatus(ctx, booking.ID, input.Status); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update booking status")
		}
		booking.Status = input.Status
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncStatusTransition(input.Status.String())
	s.audit.Record(ctx, audit.Event{
		TenantID:     actor.TenantID,
		UserID:       actor.UserID,
		Action:       "booking_status_changed",
		ResourceType: "booking",
		ResourceID:   booking.ID,
		Changes: map[string]any{
			"status":       input.Status.String(),
			"payment_type": booking.PaymentType.String(),
		},
		Client: input.Client,
	})
	return booking, nil
}

// commissionDue reports whether completion must settle commission through the
// provider wallet. Instant payments already settled at capture time.
func (s *service) commissionDue(booking *models.Booking) bool {
	return booking.PaymentType == enums.PaymentTypeCashOnDelivery && booking.CommissionAmount.IsPositive()
}

// authorizeTransition enforces the role matrix: providers and admins may
// complete; customers, providers, and admins may cancel.
func authorizeTransition(actor auth.Identity, booking *models.Booking, target enums.BookingStatus) error {
	if actor.Role.IsAdmin() {
		return nil
	}
	isProviderUser := booking.Provider != nil && booking.Provider.UserID == actor.UserID
	isCustomer := booking.CustomerID == actor.UserID

	switch target {
	case enums.BookingStatusCompleted:
		if isProviderUser {
			return nil
		}
	case enums.BookingStatusCancelled:
		if isProviderUser || isCustomer {
			return nil
		}
	}
	return pkgerrors.Newf(pkgerrors.CodeForbidden, "not allowed to mark this booking %s", target)
}
