package enums

import "fmt"

// RecurringType describes the repetition cadence requested for a booking.
type RecurringType string

const (
	RecurringTypeNone    RecurringType = "none"
	RecurringTypeDaily   RecurringType = "daily"
	RecurringTypeWeekly  RecurringType = "weekly"
	RecurringTypeMonthly RecurringType = "monthly"
)

var validRecurringTypes = []RecurringType{
	RecurringTypeNone,
	RecurringTypeDaily,
	RecurringTypeWeekly,
	RecurringTypeMonthly,
}

// IsValid reports whether the cadence is recognized.
func (t RecurringType) IsValid() bool {
	for _, candidate := range validRecurringTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// IsRecurring reports whether the cadence actually repeats.
func (t RecurringType) IsRecurring() bool {
	return t.IsValid() && t != RecurringTypeNone
}

// ParseRecurringType converts raw input into a RecurringType. Empty input
// normalizes to RecurringTypeNone.
func ParseRecurringType(value string) (RecurringType, error) {
	if value == "" {
		return RecurringTypeNone, nil
	}
	for _, candidate := range validRecurringTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid recurring type %q", value)
}
