package billing

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sangkips/invoice-generator/pkg/apperror"
	"github.com/sangkips/invoice-generator/pkg/money"
	"github.com/shopspring/decimal"
)

// ItemInput carries the raw text fields of the item entry form.
type ItemInput struct {
	Description     string
	Quantity        string
	UnitRate        string
	TaxPercent      string
	DiscountPercent string
}

// ParseItem validates the raw fields and builds a line item. Every non-numeric
// field is reported; nothing is built unless all of them parse.
func ParseItem(in ItemInput) (LineItem, error) {
	var fieldErrors []apperror.FieldError

	parse := func(field, value string, optional bool) decimal.Decimal {
		if optional && strings.TrimSpace(value) == "" {
			return decimal.Zero
		}
		d, err := money.Parse(value)
		switch {
		case errors.Is(err, money.ErrOutOfRange):
			fieldErrors = append(fieldErrors, apperror.FieldError{
				Field:   field,
				Message: fmt.Sprintf("%s is out of range", field),
			})
		case err != nil:
			fieldErrors = append(fieldErrors, apperror.FieldError{
				Field:   field,
				Message: fmt.Sprintf("%s must be a decimal number", field),
			})
		}
		return d
	}

	qty := parse("quantity", in.Quantity, false)
	rate := parse("unit_rate", in.UnitRate, false)
	tax := parse("tax_percent", in.TaxPercent, true)
	disc := parse("discount_percent", in.DiscountPercent, true)

	if len(fieldErrors) > 0 {
		return LineItem{}, apperror.NewValidationError(fieldErrors)
	}
	return NewLineItem(strings.TrimSpace(in.Description), qty, rate, tax, disc), nil
}

// DateLayout is how invoice dates are shown and stored.
const DateLayout = "2006-01-02 15:04:05"

var dateLayouts = []string{
	DateLayout,
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseDate reads an operator-entered date. Empty input means now. The result
// is truncated to whole seconds.
func ParseDate(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return now.Truncate(time.Second), nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, now.Location()); err == nil {
			return t.Truncate(time.Second), nil
		}
	}
	return time.Time{}, apperror.NewValidationError([]apperror.FieldError{{
		Field:   "date",
		Message: "date must look like YYYY-MM-DD HH:MM:SS",
	}})
}
