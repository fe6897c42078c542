package flexquery

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
)

// DefaultCurrency is used when a record does not state its currency.
const DefaultCurrency = "EUR"

// ValidateCurrency checks that code is a known ISO 4217 currency code.
func ValidateCurrency(code string) error {
	if money.GetCurrency(code) == nil {
		return fmt.Errorf("unknown currency code %q", code)
	}
	return nil
}

// currencyOf returns the upper cased currency code, or def if code is empty.
func currencyOf(code, def string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return def
	}
	return code
}
