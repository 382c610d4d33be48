package types

import "github.com/abdelmaha121/sas/pkg/enums"

// PaymentMethods is the list of settlement types a service accepts,
// stored as a JSONB column on the service row.
type PaymentMethods []enums.PaymentType

// DefaultPaymentMethods applies when a service does not restrict settlement.
func DefaultPaymentMethods() PaymentMethods {
	return PaymentMethods{enums.PaymentTypeInstant, enums.PaymentTypeCashOnDelivery}
}

// Allows reports whether the given payment type is accepted. An empty list
// falls back to the platform default of accepting every type.
func (m PaymentMethods) Allows(paymentType enums.PaymentType) bool {
	if len(m) == 0 {
		m = DefaultPaymentMethods()
	}
	for _, candidate := range m {
		if candidate == paymentType {
			return true
		}
	}
	return false
}
