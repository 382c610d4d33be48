package enums

import "fmt"

// BookingType classifies how an engagement was requested.
type BookingType string

const (
	BookingTypeOneTime   BookingType = "one_time"
	BookingTypeEmergency BookingType = "emergency"
	BookingTypeRecurring BookingType = "recurring"
)

var validBookingTypes = []BookingType{
	BookingTypeOneTime,
	BookingTypeEmergency,
	BookingTypeRecurring,
}

// IsValid reports whether the value matches the canonical booking type enum.
func (t BookingType) IsValid() bool {
	for _, candidate := range validBookingTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseBookingType converts raw input into a BookingType.
func ParseBookingType(value string) (BookingType, error) {
	for _, candidate := range validBookingTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid booking type %q", value)
}
