package renderer

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/etnz/flexquery"
)

// Summary is the view of a conversion.
// Values are already formatted so that templates only lay them out.
type Summary struct {
	// Source is the name of the converted report.
	Source string `json:"source"`
	// Lots is the number of open lots read.
	Lots int `json:"lots"`
	// Lines is the number of statement of funds lines read.
	Lines int `json:"lines"`
	// Skipped is the number of funds lines that did not produce a transaction.
	Skipped int `json:"skipped"`
	// TransferredLots is the number of lots left out for lack of an acquisition date.
	TransferredLots int `json:"transferredLots"`
	// Kinds counts the transactions per type, in display order.
	Kinds []SummaryKind `json:"kinds"`
	// Totals is the value of the transactions per currency and type.
	Totals []SummaryTotal `json:"totals"`
	// Files lists the tables written.
	Files []SummaryFile `json:"files"`
	// Holding is the placeholder holding id to replace in the cash table, if any.
	Holding string `json:"holding,omitempty"`
}

// SummaryKind is the number of transactions of a type.
type SummaryKind struct {
	Kind  flexquery.Kind `json:"kind"`
	Count int            `json:"count"`
}

// SummaryTotal is the value of the transactions of a type in a currency.
type SummaryTotal struct {
	Currency string         `json:"currency"`
	Kind     flexquery.Kind `json:"kind"`
	Value    string         `json:"value"`
}

// SummaryFile is a written table.
type SummaryFile struct {
	Name string `json:"name"`
	Rows int    `json:"rows"`
}

// NewSummary builds the view of a conversion of source, written to w with
// the cash holding id holding.
func NewSummary(source string, s flexquery.Summary, w flexquery.Written, holding string) *Summary {
	out := &Summary{
		Source:          source,
		Lots:            s.Lots,
		Lines:           s.Lines,
		Skipped:         s.Skipped(),
		TransferredLots: s.TransferredLots,
	}
	for _, k := range flexquery.Kinds {
		if n := s.Counts[k]; n > 0 {
			out.Kinds = append(out.Kinds, SummaryKind{Kind: k, Count: n})
		}
	}
	for _, cur := range s.Currencies() {
		for _, k := range flexquery.Kinds {
			if v, ok := s.Totals[cur][k]; ok {
				out.Totals = append(out.Totals, SummaryTotal{Currency: cur, Kind: k, Value: Money(v, cur)})
			}
		}
	}
	if w.Securities != "" {
		out.Files = append(out.Files, SummaryFile{Name: w.Securities, Rows: w.SecurityRows})
	}
	if w.Cash != "" {
		out.Files = append(out.Files, SummaryFile{Name: w.Cash, Rows: w.CashRows})
		if holding == flexquery.DefaultHolding {
			out.Holding = holding
		}
	}
	return out
}

// Money formats an amount in a currency the way the currency is usually
// displayed, e.g. "$1,502.50". Unknown currencies are written as "1502.50 XYZ".
func Money(v decimal.Decimal, currency string) string {
	c := money.GetCurrency(currency)
	if c == nil {
		return v.StringFixed(2) + " " + currency
	}
	units := v.Shift(int32(c.Fraction)).Round(0).IntPart()
	return money.New(units, c.Code).Display()
}
