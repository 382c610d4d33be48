package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/abdelmaha121/sas/pkg/db/models"
)

// Quote captures the amounts computed for one booking before it is written.
// All values carry two decimal places.
type Quote struct {
	BaseAmount  decimal.Decimal
	UrgentFee   decimal.Decimal
	AddonsTotal decimal.Decimal
	Total       decimal.Decimal
	Commission  decimal.Decimal
}

// Compute prices a booking from the service snapshot, the selected add-ons,
// and the provider commission rate (percent).
//
// The urgent fee applies only when the booking is urgent and the service
// allows urgent requests. Commission is derived from the final total.
func Compute(service *models.Service, addons []models.ServiceAddon, urgent bool, commissionRate decimal.Decimal) Quote {
	quote := Quote{
		BaseAmount:  service.BasePrice.Round(2),
		UrgentFee:   decimal.Zero,
		AddonsTotal: decimal.Zero,
	}

	if urgent && service.AllowUrgent {
		quote.UrgentFee = service.UrgentFee.Round(2)
	}
	for _, addon := range addons {
		quote.AddonsTotal = quote.AddonsTotal.Add(addon.Price)
	}
	quote.AddonsTotal = quote.AddonsTotal.Round(2)

	quote.Total = quote.BaseAmount.Add(quote.UrgentFee).Add(quote.AddonsTotal).Round(2)
	quote.Commission = Commission(quote.Total, commissionRate)
	return quote
}

// Commission returns round2(total * rate / 100).
func Commission(total, rate decimal.Decimal) decimal.Decimal {
	if rate.IsZero() {
		return decimal.Zero.Round(2)
	}
	return total.Mul(rate).Div(decimal.NewFromInt(100)).Round(2)
}
