package types

import (
	"github.com/abdelmaha121/sas/pkg/enums"
)

// Recurrence is the structured repetition descriptor stored on a booking.
// A nil pointer on the model means the booking does not repeat.
type Recurrence struct {
	Type enums.RecurringType `json:"type"`
}

// NewRecurrence returns a descriptor for repeating cadences and nil otherwise.
func NewRecurrence(cadence enums.RecurringType) *Recurrence {
	if !cadence.IsRecurring() {
		return nil
	}
	return &Recurrence{Type: cadence}
}
