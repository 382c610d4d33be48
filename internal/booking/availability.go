package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/abdelmaha121/sas/pkg/db/models"
	"github.com/abdelmaha121/sas/pkg/enums"
	pkgerrors "github.com/abdelmaha121/sas/pkg/errors"
)

// errSlotTaken marks schedule conflicts so metrics can tell them apart from
// other CodeConflict rejections, like an unaccepted payment method.
var errSlotTaken = errors.New("slot taken")

func slotConflictError(serviceName string) error {
	return pkgerrors.Wrap(pkgerrors.CodeConflict, errSlotTaken, fmt.Sprintf("time slot not available for service: %s", serviceName))
}

// blockingStatuses occupy the provider's timeline for conflict checks.
// Pending requests do not block a new booking until the provider accepts
// them; cancelled and refunded bookings free their slot.
var blockingStatuses = []enums.BookingStatus{
	enums.BookingStatusConfirmed,
	enums.BookingStatusInProgress,
	enums.BookingStatusCompleted,
}

// conflictLookback bounds how far back the schedule scan reaches for rows
// that started earlier but may still run into the candidate window. The
// services schema caps duration_minutes at one day, so nothing older can
// still be running.
const conflictLookback = 24 * time.Hour

// fallbackDurationMinutes applies when an existing booking's service row is
// no longer resolvable.
const fallbackDurationMinutes = 60

// ensureSlotAvailable verifies the half-open interval [start, start+duration)
// is free on the provider's timeline. Must run inside the caller's transaction
// so the scanned rows stay locked until the new booking commits.
func ensureSlotAvailable(ctx context.Context, repo Repository, providerID, tenantID uuid.UUID, serviceName string, start time.Time, duration time.Duration) error {
	end := start.Add(duration)
	existing, err := repo.FindBlockingForProvider(ctx, providerID, tenantID, blockingStatuses, start.Add(-conflictLookback), end)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "scan provider schedule")
	}

	for _, candidate := range existing {
		if intervalsOverlap(start, end, candidate.ScheduledAt, bookingEnd(candidate)) {
			return slotConflictError(serviceName)
		}
	}
	return nil
}

func bookingEnd(b models.Booking) time.Time {
	minutes := fallbackDurationMinutes
	if b.Service != nil && b.Service.DurationMinutes > 0 {
		minutes = b.Service.DurationMinutes
	}
	return b.ScheduledAt.Add(time.Duration(minutes) * time.Minute)
}

// intervalsOverlap applies the standard half-open interval test: touching
// endpoints do not conflict.
func intervalsOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}
