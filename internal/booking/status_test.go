package booking

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/abdelmaha121/sas/pkg/auth"
	"github.com/abdelmaha121/sas/pkg/db/models"
	"github.com/abdelmaha121/sas/pkg/enums"
	pkgerrors "github.com/abdelmaha121/sas/pkg/errors"
)

func (f *bookingFixture) newBooking(t *testing.T, provider *models.ServiceProvider, svc *models.Service, customerID uuid.UUID, status enums.BookingStatus, paymentType enums.PaymentType, commission string) *models.Booking {
	t.Helper()

	booking := &models.Booking{
		ID:               uuid.New(),
		TenantID:         f.tenantID,
		CustomerID:       customerID,
		ProviderID:       provider.ID,
		ServiceID:        svc.ID,
		BookingType:      enums.BookingTypeOneTime,
		Status:           status,
		ScheduledAt:      slotAt(10),
		TotalAmount:      decimal.RequireFromString("17.00"),
		CommissionAmount: decimal.RequireFromString(commission),
		Currency:         "OMR",
		PaymentStatus:    enums.PaymentStatusPending,
		PaymentType:      paymentType,
	}
	require.NoError(t, f.db.Omit("Addons", "Service", "Provider").Create(booking).Error)
	return booking
}

func TestTransitionCompletedDebitsProviderWallet(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	provider := f.newProvider(t, "15")
	svc := f.newService(t, provider, "Deep Cleaning", "10.00", nil)
	customerID := uuid.New()
	booking := f.newBooking(t, provider, svc, customerID, enums.BookingStatusPending, enums.PaymentTypeCashOnDelivery, "2.55")

	actor := auth.Identity{UserID: provider.UserID, TenantID: f.tenantID, Role: enums.RoleProvider}
	updated, err := f.svc.TransitionStatus(ctx, actor, StatusTransitionInput{
		BookingID: booking.ID,
		Status:    enums.BookingStatusCompleted,
		Client:    testClient(),
	})
	require.NoError(t, err)
	require.Equal(t, enums.BookingStatusCompleted, updated.Status)

	providerWallet, err := f.wallet.GetByUser(ctx, f.tenantID, provider.UserID)
	require.NoError(t, err)
	require.True(t, providerWallet.Balance.Equal(decimal.RequireFromString("-2.55")),
		"commission debit overdraws the fresh wallet, got %s", providerWallet.Balance)

	entries, err := f.wallet.ListTransactions(ctx, f.tenantID, provider.UserID, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, enums.WalletTransactionTypeDebit, entries[0].Type)
	require.True(t, entries[0].BalanceAfter.Equal(decimal.RequireFromString("-2.55")))
	require.Equal(t, booking.ID, entries[0].ReferenceID)
	require.Equal(t, "booking", entries[0].ReferenceType)

	require.Len(t, f.audit.events, 1)
	require.Equal(t, "booking_status_changed", f.audit.events[0].Action)
}

func TestTransitionCompletedInstantPaymentSkipsWallet(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	provider := f.newProvider(t, "15")
	svc := f.newService(t, provider, "Deep Cleaning", "10.00", nil)
	booking := f.newBooking(t, provider, svc, uuid.New(), enums.BookingStatusPending, enums.PaymentTypeInstant, "2.55")

	actor := auth.Identity{UserID: provider.UserID, TenantID: f.tenantID, Role: enums.RoleProvider}
	_, err := f.svc.TransitionStatus(ctx, actor, StatusTransitionInput{
		BookingID: booking.ID,
		Status:    enums.BookingStatusCompleted,
	})
	require.NoError(t, err)

	entries, err := f.wallet.ListTransactions(ctx, f.tenantID, provider.UserID, 0)
	require.NoError(t, err)
	require.Empty(t, entries, "instant payments settle outside the wallet ledger")
}

func TestTransitionAuthorizationMatrix(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	provider := f.newProvider(t, "15")
	svc := f.newService(t, provider, "Deep Cleaning", "10.00", nil)
	customerID := uuid.New()

	cases := []struct {
		name   string
		actor  auth.Identity
		status enums.BookingStatus
		code   pkgerrors.Code
	}{
		{"customer cannot complete", auth.Identity{UserID: customerID, TenantID: f.tenantID, Role: enums.RoleCustomer}, enums.BookingStatusCompleted, pkgerrors.CodeForbidden},
		{"stranger cannot cancel", auth.Identity{UserID: uuid.New(), TenantID: f.tenantID, Role: enums.RoleCustomer}, enums.BookingStatusCancelled, pkgerrors.CodeForbidden},
		{"customer can cancel", auth.Identity{UserID: customerID, TenantID: f.tenantID, Role: enums.RoleCustomer}, enums.BookingStatusCancelled, ""},
		{"provider can complete", auth.Identity{UserID: provider.UserID, TenantID: f.tenantID, Role: enums.RoleProvider}, enums.BookingStatusCompleted, ""},
		{"admin can complete", auth.Identity{UserID: uuid.New(), TenantID: f.tenantID, Role: enums.RoleAdmin}, enums.BookingStatusCompleted, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			booking := f.newBooking(t, provider, svc, customerID, enums.BookingStatusPending, enums.PaymentTypeInstant, "0.00")
			_, err := f.svc.TransitionStatus(ctx, tc.actor, StatusTransitionInput{
				BookingID: booking.ID,
				Status:    tc.status,
			})
			if tc.code == "" {
				require.NoError(t, err)
			} else {
				requireCode(t, err, tc.code)
			}
		})
	}
}

func TestTransitionRejectsTerminalStates(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	provider := f.newProvider(t, "15")
	svc := f.newService(t, provider, "Deep Cleaning", "10.00", nil)
	booking := f.newBooking(t, provider, svc, uuid.New(), enums.BookingStatusCancelled, enums.PaymentTypeCashOnDelivery, "2.55")

	actor := auth.Identity{UserID: uuid.New(), TenantID: f.tenantID, Role: enums.RoleAdmin}
	_, err := f.svc.TransitionStatus(ctx, actor, StatusTransitionInput{
		BookingID: booking.ID,
		Status:    enums.BookingStatusCompleted,
	})
	requireCode(t, err, pkgerrors.CodeStateConflict)

	// A failed attempt must not disturb the committed amounts.
	var stored models.Booking
	require.NoError(t, f.db.First(&stored, "id = ?", booking.ID).Error)
	require.Equal(t, enums.BookingStatusCancelled, stored.Status)
	require.True(t, stored.TotalAmount.Equal(decimal.RequireFromString("17.00")))
	require.True(t, stored.CommissionAmount.Equal(decimal.RequireFromString("2.55")))

	entries, err := f.wallet.ListTransactions(ctx, f.tenantID, provider.UserID, 0)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestTransitionRejectsUnknownTargets(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	actor := auth.Identity{UserID: uuid.New(), TenantID: f.tenantID, Role: enums.RoleAdmin}

	_, err := f.svc.TransitionStatus(ctx, actor, StatusTransitionInput{
		BookingID: uuid.New(),
		Status:    enums.BookingStatusRefunded,
	})
	requireCode(t, err, pkgerrors.CodeValidation)

	_, err = f.svc.TransitionStatus(ctx, actor, StatusTransitionInput{
		BookingID: uuid.New(),
		Status:    enums.BookingStatusCancelled,
	})
	requireCode(t, err, pkgerrors.CodeNotFound)
}
