package renderer

import (
	"strings"

	"github.com/etnz/flexquery/date"
	"github.com/etnz/flexquery/statement"
)

// Statement is the view of the trades and cash transactions of a report.
type Statement struct {
	QueryName string    `json:"queryName,omitempty"`
	Accounts  []Account `json:"accounts"`
}

// Account is the view of a single FlexStatement.
type Account struct {
	ID     string      `json:"id"`
	Period string      `json:"period,omitempty"`
	Trades []TradeLine `json:"trades"`
	Cash   []CashLine  `json:"cash"`
}

// TradeLine is a row of the trades table.
type TradeLine struct {
	Date        string `json:"date"`
	Symbol      string `json:"symbol"`
	ISIN        string `json:"isin"`
	Description string `json:"description"`
	Side        string `json:"side"`
	Quantity    string `json:"quantity"`
	Price       string `json:"price"`
	Amount      string `json:"amount"`
	Commission  string `json:"commission"`
	Taxes       string `json:"taxes"`
	Cost        string `json:"cost"` // cost basis, shown as Total Cost.
	Currency    string `json:"currency"`
}

// CashLine is a row of the cash transactions table.
type CashLine struct {
	Date        string `json:"date"`
	Type        string `json:"type"`
	Symbol      string `json:"symbol"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Currency    string `json:"currency"`
}

// NewStatement builds the view of a report. Values are shown as reported,
// only dates are normalized when they can be read.
func NewStatement(resp *statement.Response) *Statement {
	st := &Statement{QueryName: cell(resp.QueryName)}
	for _, s := range resp.Statements.Statements {
		acc := Account{ID: cell(s.AccountID), Period: period(s.FromDate, s.ToDate)}
		for _, t := range s.Trades {
			acc.Trades = append(acc.Trades, TradeLine{
				Date:        flexDate(t.TradeDate),
				Symbol:      cell(t.Symbol),
				ISIN:        cell(t.ISIN),
				Description: cell(t.Description),
				Side:        cell(t.BuySell),
				Quantity:    cell(t.Quantity),
				Price:       cell(t.TradePrice),
				Amount:      cell(t.TradeMoney),
				Commission:  cell(t.IBCommission),
				Taxes:       cell(t.Taxes),
				Cost:        cell(t.Cost),
				Currency:    cell(t.Currency),
			})
		}
		for _, c := range s.CashTransactions {
			acc.Cash = append(acc.Cash, CashLine{
				Date:        flexDate(c.DateTime),
				Type:        cell(c.Type),
				Symbol:      cell(c.Symbol),
				Description: cell(c.Description),
				Amount:      cell(c.Amount),
				Currency:    cell(c.Currency),
			})
		}
		st.Accounts = append(st.Accounts, acc)
	}
	return st
}

// flexDate returns the ISO form of a Flex date, or the raw value if it cannot be read.
func flexDate(raw string) string {
	day, err := date.ParseFlex(raw)
	if err != nil {
		return cell(raw)
	}
	return day.String()
}

func period(from, to string) string {
	if from == "" && to == "" {
		return ""
	}
	f, ferr := date.ParseFlex(from)
	t, terr := date.ParseFlex(to)
	if ferr != nil || terr != nil {
		return cell(strings.Trim(from+"-"+to, "-"))
	}
	return date.NewRange(f, t).String()
}
