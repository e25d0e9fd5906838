package order

import "github.com/shopspring/decimal"

// Quote is the pricing triple for a checkout: the undiscounted total, the
// discount granted, and the amount actually owed.
type Quote struct {
	Total      decimal.Decimal
	Discount   decimal.Decimal
	GrandTotal decimal.Decimal
}

// Subtotal sums quantity times unit price across the lines. All arithmetic
// is fixed-point; float rounding drift is not possible here.
func Subtotal(lines []Line) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return sum
}

// Price finalizes a quote from a subtotal and a discount. The grand total is
// floored at zero and every component is rounded to 2 decimal places, so
// re-reading a stored order always reproduces the same numbers.
func Price(subtotal, discount decimal.Decimal) Quote {
	grand := subtotal.Sub(discount)
	if grand.IsNegative() {
		grand = decimal.Zero
	}
	return Quote{
		Total:      subtotal.Round(2),
		Discount:   discount.Round(2),
		GrandTotal: grand.Round(2),
	}
}
