package enums

import "fmt"

// PaymentType distinguishes how a booking is settled.
type PaymentType string

const (
	PaymentTypeInstant        PaymentType = "instant"
	PaymentTypeCashOnDelivery PaymentType = "cash_on_delivery"
)

var validPaymentTypes = []PaymentType{
	PaymentTypeInstant,
	PaymentTypeCashOnDelivery,
}

// String implements fmt.Stringer.
func (t PaymentType) String() string {
	return string(t)
}

// IsValid reports whether the payment type is recognized.
func (t PaymentType) IsValid() bool {
	for _, candidate := range validPaymentTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParsePaymentType converts raw input into a PaymentType.
func ParsePaymentType(value string) (PaymentType, error) {
	for _, candidate := range validPaymentTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment type %q", value)
}
