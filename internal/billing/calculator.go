// Package billing computes invoice money amounts.
//
// Amounts are float64 and are never rounded during computation; rounding
// happens only when an amount is formatted for display.
package billing

// Line is a quantity and unit price pair.
type Line struct {
	Quantity  float64
	UnitPrice float64
}

// Totals are the invoice-level amounts.
type Totals struct {
	Subtotal  float64
	TaxAmount float64
	Total     float64
}

// Breakdown holds per-line totals, in input order, and the invoice totals.
type Breakdown struct {
	LineTotals []float64
	Totals
}

// LineTotal returns quantity * unitPrice.
func LineTotal(quantity, unitPrice float64) float64 {
	return quantity * unitPrice
}

// Calculate computes line totals, subtotal, tax and grand total.
// taxRate is a percentage (15 means 15%). Inputs are not validated.
func Calculate(taxRate float64, lines ...Line) Breakdown {
	b := Breakdown{LineTotals: make([]float64, len(lines))}
	for i, l := range lines {
		lt := LineTotal(l.Quantity, l.UnitPrice)
		b.LineTotals[i] = lt
		b.Subtotal += lt
	}
	b.TaxAmount = b.Subtotal * taxRate / 100
	b.Total = b.Subtotal + b.TaxAmount
	return b
}
