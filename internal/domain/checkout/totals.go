package checkout

import (
	"github.com/shopspring/decimal"

	"github.com/xenking/eservices-storefront/internal/domain/cart"
)

// TaxRate is the flat tax applied to every order.
var TaxRate = decimal.RequireFromString("0.08")

// Totals holds order amounts at full precision. Use Rounded for display.
type Totals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// ComputeTotals prices a cart snapshot.
func ComputeTotals(lines []cart.Line) Totals {
	return TotalsFor(cart.Subtotal(lines))
}

// TotalsFor derives tax and total from a subtotal.
func TotalsFor(subtotal decimal.Decimal) Totals {
	tax := subtotal.Mul(TaxRate)
	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal.Add(tax),
	}
}

// Rounded returns the amounts rounded to two decimal places.
func (t Totals) Rounded() Totals {
	return Totals{
		Subtotal: t.Subtotal.Round(2),
		Tax:      t.Tax.Round(2),
		Total:    t.Total.Round(2),
	}
}
