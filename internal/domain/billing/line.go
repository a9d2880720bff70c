package billing

import (
	"github.com/sangkips/invoice-generator/pkg/money"
	"github.com/shopspring/decimal"
)

// LineItem is one billable entry. Amount is derived from the other fields and
// cannot be set directly; items are immutable once created.
type LineItem struct {
	description     string
	quantity        decimal.Decimal
	unitRate        decimal.Decimal
	taxPercent      decimal.Decimal
	discountPercent decimal.Decimal
	breakdown       Breakdown
}

// Breakdown holds the per-item values the aggregator sums. Taxable and Tax are
// unrounded; Amount is the only rounded figure.
type Breakdown struct {
	Raw      decimal.Decimal
	Discount decimal.Decimal
	Taxable  decimal.Decimal
	Tax      decimal.Decimal
	Amount   decimal.Decimal
}

// ComputeLine derives the line breakdown. Negative inputs are not rejected and
// simply produce a negative amount.
func ComputeLine(quantity, unitRate, discountPercent, taxPercent decimal.Decimal) Breakdown {
	raw := quantity.Mul(unitRate)
	discount := raw.Mul(discountPercent).Shift(-2)
	taxable := raw.Sub(discount)
	tax := taxable.Mul(taxPercent).Shift(-2)
	return Breakdown{
		Raw:      raw,
		Discount: discount,
		Taxable:  taxable,
		Tax:      tax,
		Amount:   money.Round(taxable.Add(tax)),
	}
}

// NewLineItem builds an immutable line item from already parsed values.
func NewLineItem(description string, quantity, unitRate, taxPercent, discountPercent decimal.Decimal) LineItem {
	return LineItem{
		description:     description,
		quantity:        quantity,
		unitRate:        unitRate,
		taxPercent:      taxPercent,
		discountPercent: discountPercent,
		breakdown:       ComputeLine(quantity, unitRate, discountPercent, taxPercent),
	}
}

func (l LineItem) Description() string              { return l.description }
func (l LineItem) Quantity() decimal.Decimal        { return l.quantity }
func (l LineItem) UnitRate() decimal.Decimal        { return l.unitRate }
func (l LineItem) TaxPercent() decimal.Decimal      { return l.taxPercent }
func (l LineItem) DiscountPercent() decimal.Decimal { return l.discountPercent }
func (l LineItem) Breakdown() Breakdown             { return l.breakdown }

// Amount is the rounded line total after discount and tax.
func (l LineItem) Amount() decimal.Decimal { return l.breakdown.Amount }

// TaxableValue is the unrounded line value after discount.
func (l LineItem) TaxableValue() decimal.Decimal { return l.breakdown.Taxable }

// TaxAmount is the unrounded tax contribution.
func (l LineItem) TaxAmount() decimal.Decimal { return l.breakdown.Tax }
