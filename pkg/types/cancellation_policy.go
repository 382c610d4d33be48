package types

import "github.com/shopspring/decimal"

// CancellationPolicy is the policy snapshot copied from a service onto each
// booking at creation time. Later edits to the service never change it.
type CancellationPolicy struct {
	Type                  *string          `json:"type,omitempty"`
	Value                 *decimal.Decimal `json:"value,omitempty"`
	FreeCancellationHours int              `json:"free_cancellation_hours"`
}
