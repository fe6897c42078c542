package flexquery

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// DefaultHolding is the placeholder written in the holding column of the cash
// table. Parqet needs the id of the cash holding there, it must be replaced
// before import.
const DefaultHolding = "HOLDING_ID"

// Separator is the field separator of Parqet CSV files.
const Separator = ';'

// SecurityHeader is the header of the security table.
var SecurityHeader = []string{"date", "price", "shares", "amount", "tax", "fee", "type", "assetType", "identifier", "currency"}

// CashHeader is the header of the cash table.
var CashHeader = []string{"date", "amount", "tax", "fee", "type", "holding"}

// SecurityRow is a row of the security table, every field is already formatted.
type SecurityRow struct {
	Date, Price, Shares, Amount, Tax, Fee, Type, AssetType, Identifier, Currency string
}

// Record returns the fields in SecurityHeader order.
func (r SecurityRow) Record() []string {
	return []string{r.Date, r.Price, r.Shares, r.Amount, r.Tax, r.Fee, r.Type, r.AssetType, r.Identifier, r.Currency}
}

// CashRow is a row of the cash table, every field is already formatted.
type CashRow struct {
	Date, Amount, Tax, Fee, Type, Holding string
}

// Record returns the fields in CashHeader order.
func (r CashRow) Record() []string {
	return []string{r.Date, r.Amount, r.Tax, r.Fee, r.Type, r.Holding}
}

// securityKinds and cashKinds partition the kinds between the two tables.
var (
	securityKinds = map[Kind]bool{KindBuy: true, KindSell: true, KindDividend: true}
	cashKinds     = map[Kind]bool{KindTransferIn: true, KindTransferOut: true, KindInterest: true}
)

// Format splits txs into the rows of the security and the cash tables.
//
// Buy and Sell rows never have an amount and Dividend rows never have shares
// or a price. Cash rows are written against holding, DefaultHolding if empty.
// Transactions of any other kind are dropped.
func Format(txs []Transaction, holding string) (sec []SecurityRow, cash []CashRow) {
	if holding == "" {
		holding = DefaultHolding
	}
	for _, tx := range txs {
		switch {
		case securityKinds[tx.What()]:
			sec = append(sec, securityRow(tx))
		case cashKinds[tx.What()]:
			cash = append(cash, cashRow(tx, holding))
		}
	}
	return sec, cash
}

func securityRow(tx Transaction) SecurityRow {
	row := SecurityRow{
		Date:       tx.When().String(),
		Tax:        tx.Taxes().Text(),
		Fee:        tx.Fees().Text(),
		Type:       string(tx.What()),
		AssetType:  string(tx.Asset()),
		Identifier: tx.Identifier(),
		Currency:   tx.Currency(),
	}
	if shares, price, ok := SharesOf(tx); ok {
		row.Shares, row.Price = shares.Text(), price.Text()
	} else if amount, ok := AmountOf(tx); ok {
		row.Amount = amount.Text()
	}
	return row
}

func cashRow(tx Transaction, holding string) CashRow {
	amount, _ := AmountOf(tx)
	return CashRow{
		Date:    tx.When().String(),
		Amount:  amount.Text(),
		Tax:     tx.Taxes().Text(),
		Fee:     tx.Fees().Text(),
		Type:    string(tx.What()),
		Holding: holding,
	}
}

// recorder is implemented by SecurityRow and CashRow.
type recorder interface{ Record() []string }

// writeTable writes header and rows as a Parqet CSV table.
func writeTable[R recorder](w io.Writer, header []string, rows []R) error {
	cw := csv.NewWriter(w)
	cw.Comma = Separator
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write(r.Record()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSecurities writes the security table.
func WriteSecurities(w io.Writer, rows []SecurityRow) error {
	return writeTable(w, SecurityHeader, rows)
}

// WriteCash writes the cash table.
func WriteCash(w io.Writer, rows []CashRow) error {
	return writeTable(w, CashHeader, rows)
}

// CashFileName returns the name of the cash table written next to output.
// "out/ib.csv" gives "out/ib_cash.csv".
func CashFileName(output string) string {
	dir, base := filepath.Split(output)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, stem+"_cash.csv")
}

// Written lists the files written by WriteParqet, an empty name means the
// table had no rows and was not written.
type Written struct {
	Securities, Cash string
	SecurityRows     int
	CashRows         int
}

// WriteParqet formats txs and writes the security table into output and the
// cash table into CashFileName(output). A table without rows is not written.
func WriteParqet(output string, txs []Transaction, holding string, log *zap.Logger) (Written, error) {
	if log == nil {
		log = zap.NewNop()
	}
	sec, cash := Format(txs, holding)
	w := Written{SecurityRows: len(sec), CashRows: len(cash)}

	if len(sec) == 0 {
		log.Warn("no security transaction to write", zap.String("file", output))
	} else {
		if err := writeFile(output, func(f io.Writer) error { return WriteSecurities(f, sec) }); err != nil {
			return w, err
		}
		w.Securities = output
		log.Info("security transactions written", zap.String("file", output), zap.Int("rows", len(sec)))
	}

	cashFile := CashFileName(output)
	if len(cash) == 0 {
		log.Warn("no cash transaction to write", zap.String("file", cashFile))
	} else {
		if err := writeFile(cashFile, func(f io.Writer) error { return WriteCash(f, cash) }); err != nil {
			return w, err
		}
		w.Cash = cashFile
		log.Info("cash transactions written", zap.String("file", cashFile), zap.Int("rows", len(cash)))
	}
	return w, nil
}

func writeFile(name string, write func(io.Writer) error) error {
	if dir := filepath.Dir(name); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("cannot create directory for %q: %w", name, err)
		}
	}
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("cannot create %q: %w", name, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("cannot write %q: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("cannot write %q: %w", name, err)
	}
	return nil
}
