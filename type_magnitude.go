package flexquery

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// newDecimal is a convenient factory for decimal.Decimal
func newDecimal[T float64 | int | int64 | decimal.Decimal](value T) decimal.Decimal {
	switch v := any(value).(type) {
	case decimal.Decimal:
		return v
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int64:
		return decimal.NewFromInt(v)
	default:
		panic("unsupported type")
	}
}

// Magnitude is an unsigned decimal value: a number of shares, a price, an amount, a fee.
//
// The direction of the flow is carried by the transaction kind, never by the
// sign. A Magnitude keeps the number of decimal places it was read with, so
// that "5.00" is written back as "5,00".
//
// The zero value is zero.
type Magnitude struct {
	value decimal.Decimal
}

// Mag returns the magnitude of value.
func Mag[T float64 | int | int64 | decimal.Decimal](value T) Magnitude {
	return Magnitude{value: newDecimal(value).Abs()}
}

// ParseMagnitude reads a decimal number as found in a report and returns its magnitude.
// An empty string is zero.
func ParseMagnitude(raw string) (Magnitude, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Magnitude{}, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return Magnitude{}, fmt.Errorf("invalid number %q: %w", raw, err)
	}
	return Magnitude{value: d.Abs()}, nil
}

func (m Magnitude) Equal(o Magnitude) bool    { return m.value.Equal(o.value) }
func (m Magnitude) Add(o Magnitude) Magnitude { return Magnitude{value: m.value.Add(o.value)} }
func (m Magnitude) IsZero() bool              { return m.value.IsZero() }
func (m Magnitude) Decimal() decimal.Decimal  { return m.value }

// String returns the value with a '.' decimal separator and the decimal places it was read with.
func (m Magnitude) String() string {
	if exp := m.value.Exponent(); exp < 0 {
		return m.value.StringFixed(-exp)
	}
	return m.value.String()
}

// Text returns the value as expected by Parqet: ',' as decimal separator and
// "0" for zero.
func (m Magnitude) Text() string {
	if m.IsZero() {
		return "0"
	}
	return strings.Replace(m.String(), ".", ",", 1)
}

// MarshalJSON writes the magnitude as a string to keep its decimal places.
func (m Magnitude) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}
