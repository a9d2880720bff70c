package billing

import (
	"github.com/sangkips/invoice-generator/pkg/apperror"
	"github.com/sangkips/invoice-generator/pkg/money"
	"github.com/shopspring/decimal"
)

// Totals are the invoice-level sums. Every field has exactly two fractional digits.
type Totals struct {
	Subtotal decimal.Decimal
	TaxTotal decimal.Decimal
	Total    decimal.Decimal
}

// Aggregate sums the unrounded taxable and tax components of items. Rounding
// happens once per total, never per item, and Total is the sum of the two
// rounded parts so Total == Subtotal + TaxTotal holds exactly.
func Aggregate(items []LineItem) (Totals, error) {
	if len(items) == 0 {
		return Totals{}, apperror.ErrEmptyInvoice
	}

	taxable := decimal.Zero
	tax := decimal.Zero
	for _, it := range items {
		taxable = taxable.Add(it.breakdown.Taxable)
		tax = tax.Add(it.breakdown.Tax)
	}

	subtotal := money.Round(taxable)
	taxTotal := money.Round(tax)
	return Totals{
		Subtotal: subtotal,
		TaxTotal: taxTotal,
		Total:    subtotal.Add(taxTotal),
	}, nil
}

// Drift is the difference between Total and the sum of the individually
// rounded item amounts. It never exceeds MaxDrift(len(items)) in magnitude.
func (t Totals) Drift(items []LineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.Amount())
	}
	return t.Total.Sub(sum)
}

// MaxDrift is the accepted bound on Drift: one rounding unit per item.
func MaxDrift(n int) decimal.Decimal {
	return decimal.New(int64(n), -money.Places)
}
