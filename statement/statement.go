// Package statement reads and writes Interactive Brokers Flex Query XML reports.
//
// Only the sections used to build an import are modelled (open positions,
// statement of funds, trades and cash transactions). Every other attribute or
// section is kept verbatim so that a report can be written back after
// filtering.
//
// Numeric attributes are kept as the raw strings found in the report: an
// absent attribute and "0" are not the same thing for the importers.
package statement

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrNoStatement is returned when a report does not contain any FlexStatement.
var ErrNoStatement = errors.New("no FlexStatement found in report")

// LevelLot is the levelOfDetail of open positions reported lot by lot.
const LevelLot = "LOT"

// Response is the root element of a Flex Query report.
type Response struct {
	XMLName    xml.Name       `xml:"FlexQueryResponse"`
	QueryName  string         `xml:"queryName,attr,omitempty"`
	Type       string         `xml:"type,attr,omitempty"`
	Extra      []xml.Attr     `xml:",any,attr"`
	Statements FlexStatements `xml:"FlexStatements"`
}

// FlexStatements holds one statement per account.
type FlexStatements struct {
	Count      string          `xml:"count,attr,omitempty"`
	Extra      []xml.Attr      `xml:",any,attr"`
	Statements []FlexStatement `xml:"FlexStatement"`
}

// FlexStatement contains all the data for a given account and period.
type FlexStatement struct {
	AccountID        string                 `xml:"accountId,attr,omitempty"`
	FromDate         string                 `xml:"fromDate,attr,omitempty"`
	ToDate           string                 `xml:"toDate,attr,omitempty"`
	Period           string                 `xml:"period,attr,omitempty"`
	WhenGenerated    string                 `xml:"whenGenerated,attr,omitempty"`
	Extra            []xml.Attr             `xml:",any,attr"`
	OpenPositions    []OpenPosition         `xml:"OpenPositions>OpenPosition"`
	Funds            []StatementOfFundsLine `xml:"StmtFunds>StatementOfFundsLine"`
	Trades           []Trade                `xml:"Trades>Trade"`
	CashTransactions []CashTransaction      `xml:"CashTransactions>CashTransaction"`
	Others           []Raw                  `xml:",any"`
}

// Raw is a section that is not modelled, kept as is.
type Raw struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
	Inner   []byte     `xml:",innerxml"`
}

// OpenPosition is a position held at the end of the statement period.
//
// With levelOfDetail="LOT" there is one record per acquisition lot.
type OpenPosition struct {
	AccountID                string     `xml:"accountId,attr,omitempty"`
	Currency                 string     `xml:"currency,attr,omitempty"`
	AssetCategory            string     `xml:"assetCategory,attr,omitempty"`
	Symbol                   string     `xml:"symbol,attr,omitempty"`
	Description              string     `xml:"description,attr,omitempty"`
	ISIN                     string     `xml:"isin,attr,omitempty"`
	Position                 string     `xml:"position,attr,omitempty"`
	CostBasisPrice           string     `xml:"costBasisPrice,attr,omitempty"`
	OpenDateTime             string     `xml:"openDateTime,attr,omitempty"`
	OriginatingTransactionID string     `xml:"originatingTransactionID,attr,omitempty"`
	LevelOfDetail            string     `xml:"levelOfDetail,attr,omitempty"`
	Extra                    []xml.Attr `xml:",any,attr"`
}

// StatementOfFundsLine is a single line of the statement of funds.
type StatementOfFundsLine struct {
	AccountID       string     `xml:"accountId,attr,omitempty"`
	Currency        string     `xml:"currency,attr,omitempty"`
	AssetCategory   string     `xml:"assetCategory,attr,omitempty"`
	Symbol          string     `xml:"symbol,attr,omitempty"`
	Description     string     `xml:"description,attr,omitempty"`
	ISIN            string     `xml:"isin,attr,omitempty"`
	Date            string     `xml:"date,attr,omitempty"`
	ActivityCode    string     `xml:"activityCode,attr,omitempty"`
	TransactionID   string     `xml:"transactionID,attr,omitempty"`
	TradeQuantity   string     `xml:"tradeQuantity,attr,omitempty"`
	TradePrice      string     `xml:"tradePrice,attr,omitempty"`
	TradeCommission string     `xml:"tradeCommission,attr,omitempty"`
	TradeTax        string     `xml:"tradeTax,attr,omitempty"`
	Debit           string     `xml:"debit,attr,omitempty"`
	Credit          string     `xml:"credit,attr,omitempty"`
	Extra           []xml.Attr `xml:",any,attr"`
}

// Trade is an execution reported in the Trades section.
type Trade struct {
	AccountID     string     `xml:"accountId,attr,omitempty"`
	Currency      string     `xml:"currency,attr,omitempty"`
	AssetCategory string     `xml:"assetCategory,attr,omitempty"`
	Symbol        string     `xml:"symbol,attr,omitempty"`
	Description   string     `xml:"description,attr,omitempty"`
	ISIN          string     `xml:"isin,attr,omitempty"`
	TradeDate     string     `xml:"tradeDate,attr,omitempty"`
	Quantity      string     `xml:"quantity,attr,omitempty"`
	TradePrice    string     `xml:"tradePrice,attr,omitempty"`
	TradeMoney    string     `xml:"tradeMoney,attr,omitempty"`
	BuySell       string     `xml:"buySell,attr,omitempty"`
	IBCommission  string     `xml:"ibCommission,attr,omitempty"`
	Taxes         string     `xml:"taxes,attr,omitempty"`
	Cost          string     `xml:"cost,attr,omitempty"`
	Extra         []xml.Attr `xml:",any,attr"`
}

// CashTransaction is a dividend, interest, fee, deposit or withdrawal.
type CashTransaction struct {
	AccountID     string     `xml:"accountId,attr,omitempty"`
	Currency      string     `xml:"currency,attr,omitempty"`
	AssetCategory string     `xml:"assetCategory,attr,omitempty"`
	Symbol        string     `xml:"symbol,attr,omitempty"`
	Description   string     `xml:"description,attr,omitempty"`
	ISIN          string     `xml:"isin,attr,omitempty"`
	DateTime      string     `xml:"dateTime,attr,omitempty"`
	Amount        string     `xml:"amount,attr,omitempty"`
	Type          string     `xml:"type,attr,omitempty"`
	Extra         []xml.Attr `xml:",any,attr"`
}

// TypeDepositsWithdrawals is the CashTransaction type of deposits and withdrawals.
const TypeDepositsWithdrawals = "Deposits/Withdrawals"

// Decode reads a Flex Query report.
func Decode(r io.Reader) (*Response, error) {
	var resp Response
	if err := xml.NewDecoder(r).Decode(&resp); err != nil {
		return nil, fmt.Errorf("cannot decode flex query report: %w", err)
	}
	if len(resp.Statements.Statements) == 0 {
		return nil, ErrNoStatement
	}
	return &resp, nil
}

// ReadFile reads a Flex Query report from a file.
func ReadFile(name string) (*Response, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	resp, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return resp, nil
}

// Encode writes the report as XML.
func Encode(w io.Writer, resp *Response) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	if err := enc.Encode(resp); err != nil {
		return fmt.Errorf("cannot encode flex query report: %w", err)
	}
	return enc.Close()
}

// WriteFile writes the report into a file, replacing it if it exists.
func WriteFile(name string, resp *Response) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := Encode(f, resp); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// LotPositions returns the open positions reported lot by lot, for all accounts.
func (r *Response) LotPositions() []OpenPosition {
	var lots []OpenPosition
	for _, s := range r.Statements.Statements {
		for _, p := range s.OpenPositions {
			if p.LevelOfDetail == LevelLot {
				lots = append(lots, p)
			}
		}
	}
	return lots
}

// FundsLines returns the statement of funds lines of all accounts, in report order.
func (r *Response) FundsLines() []StatementOfFundsLine {
	var lines []StatementOfFundsLine
	for _, s := range r.Statements.Statements {
		lines = append(lines, s.Funds...)
	}
	return lines
}

// AllTrades returns the trades of all accounts, in report order.
func (r *Response) AllTrades() []Trade {
	var trades []Trade
	for _, s := range r.Statements.Statements {
		trades = append(trades, s.Trades...)
	}
	return trades
}

// AllCashTransactions returns the cash transactions of all accounts, in report order.
func (r *Response) AllCashTransactions() []CashTransaction {
	var txs []CashTransaction
	for _, s := range r.Statements.Statements {
		txs = append(txs, s.CashTransactions...)
	}
	return txs
}
