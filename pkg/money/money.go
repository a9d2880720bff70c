package money

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// Places is the number of fractional digits of a final monetary value.
const Places = 2

// Round rounds d to two fractional digits, ties away from zero.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Places)
}

// Bounds on operator input. Exponent notation is accepted only while the
// value stays within them.
const (
	MaxScale         = 12
	MaxIntegerDigits = 15
)

// ErrOutOfRange is returned by Parse for values too large or too precise.
var ErrOutOfRange = errors.New("money: value out of range")

// Parse reads operator input as an exact decimal. Surrounding whitespace is ignored.
func Parse(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("money: empty value")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("money: invalid decimal %q", s)
	}
	exp := d.Exponent()
	if exp < -MaxScale || int64(coefficientDigits(d))+int64(exp) > MaxIntegerDigits {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrOutOfRange, s)
	}
	return d, nil
}

func coefficientDigits(d decimal.Decimal) int {
	return len(new(big.Int).Abs(d.Coefficient()).String())
}

// Format renders d with exactly two fractional digits, e.g. "236.00".
func Format(d decimal.Decimal) string {
	return d.StringFixed(Places)
}

// Exact renders d without dropping trailing fractional zeros, so "100.00"
// parses and prints back as "100.00" and "2" stays "2".
func Exact(d decimal.Decimal) string {
	if exp := d.Exponent(); exp < 0 {
		return d.StringFixed(-exp)
	}
	return d.String()
}

// Text is a decimal persisted and serialized as its exact textual form.
type Text struct {
	decimal.Decimal
}

// NewText wraps d.
func NewText(d decimal.Decimal) Text {
	return Text{Decimal: d}
}

// MustText parses s and panics on malformed input. Intended for literals.
func MustText(s string) Text {
	return Text{Decimal: decimal.RequireFromString(s)}
}

func (t Text) String() string {
	return Exact(t.Decimal)
}

// Value stores the exact text, never a binary float.
func (t Text) Value() (driver.Value, error) {
	return Exact(t.Decimal), nil
}

// Scan reads the text column back without losing its scale.
func (t *Text) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		t.Decimal = decimal.Zero
		return nil
	case string:
		return t.parse(v)
	case []byte:
		return t.parse(string(v))
	default:
		return t.Decimal.Scan(value)
	}
}

func (t *Text) parse(s string) error {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("money: cannot scan %q: %w", s, err)
	}
	t.Decimal = d
	return nil
}

func (t Text) MarshalJSON() ([]byte, error) {
	return json.Marshal(Exact(t.Decimal))
}

func (t *Text) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		// bare JSON numbers are accepted as written
		s = string(data)
	}
	return t.parse(s)
}
