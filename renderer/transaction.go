package renderer

import (
	"fmt"

	"github.com/etnz/flexquery"
)

// Transaction renders a transaction to a single line of text.
func Transaction(tx flexquery.Transaction) string {
	on := tx.When().String()
	if on == "" {
		on = "no date"
	}
	switch v := tx.(type) {
	case flexquery.Buy:
		return fmt.Sprintf("%s: bought %s of %s at %s %s", on, v.Shares, v.ISIN, v.Price, v.Currency())
	case flexquery.Sell:
		return fmt.Sprintf("%s: sold %s of %s at %s %s", on, v.Shares, v.ISIN, v.Price, v.Currency())
	case flexquery.Dividend:
		return fmt.Sprintf("%s: dividend of %s %s for %s", on, v.Amount, v.Currency(), v.ISIN)
	case flexquery.Interest:
		return fmt.Sprintf("%s: interest of %s %s", on, v.Amount, v.Currency())
	case flexquery.TransferIn:
		return fmt.Sprintf("%s: transferred in %s %s", on, v.Amount, v.Currency())
	case flexquery.TransferOut:
		return fmt.Sprintf("%s: transferred out %s %s", on, v.Amount, v.Currency())
	default:
		return fmt.Sprintf("%s: %s", on, tx.What())
	}
}
