package flexquery

import (
	"go.uber.org/zap"

	"github.com/etnz/flexquery/statement"
)

// FundsExtractor builds transactions from the statement of funds.
type FundsExtractor struct {
	opts resolved
}

// NewFundsExtractor returns a FundsExtractor using opts.
func NewFundsExtractor(opts ExtractorOptions) *FundsExtractor {
	return &FundsExtractor{opts: opts.resolve()}
}

// Extract returns at most one transaction per line, in report order.
//
// Lines whose transaction ID is covered by seen are skipped: they were already
// imported from an open lot. Lines that cannot be mapped are skipped and
// logged, they never fail the extraction.
func (e *FundsExtractor) Extract(lines []statement.StatementOfFundsLine, seen Covered) []Transaction {
	if seen == nil {
		seen = (*Seen)(nil)
	}
	var txs []Transaction
	for _, l := range lines {
		if tx, ok := e.line(l, seen); ok {
			txs = append(txs, tx)
		}
	}
	return txs
}

// line converts a single line, it reports false if the line is skipped.
func (e *FundsExtractor) line(l statement.StatementOfFundsLine, seen Covered) (Transaction, bool) {
	log := e.opts.log
	fields := lineFields(l)

	if seen.Covers(l.TransactionID) {
		log.Debug("skipping line already imported from an open lot", fields...)
		return nil, false
	}
	if e.opts.excluded.has(l.ActivityCode) {
		log.Debug("skipping excluded activity code", fields...)
		return nil, false
	}
	if l.ActivityCode == CodeWithholdingTax {
		// Withholding tax comes on its own line and is not merged into the dividend.
		log.Debug("skipping withholding tax line", fields...)
		return nil, false
	}
	kind, ok := e.opts.codes.Lookup(l.ActivityCode)
	if !ok {
		log.Debug("skipping unmapped activity code", fields...)
		return nil, false
	}

	day := e.opts.day(l.Date, fields...)
	currency := e.opts.currencyOf(l.Currency, fields...)
	asset, known := e.opts.categories.Lookup(l.AssetCategory)
	if !known && l.AssetCategory != "" {
		log.Debug("unknown asset category, using Cash", append(fields, zap.String("assetCategory", l.AssetCategory))...)
	}

	switch kind {
	case KindBuy, KindSell:
		if kind == KindBuy && seen.Covers(l.TransactionID) {
			return nil, false
		}
		sec := Security{Category: asset, ISIN: l.ISIN}
		shares := e.opts.magnitude(l.TradeQuantity, "tradeQuantity", fields...)
		price := e.opts.magnitude(l.TradePrice, "tradePrice", fields...)
		tax := e.opts.magnitude(l.TradeTax, "tradeTax", fields...)
		fee := e.opts.magnitude(l.TradeCommission, "tradeCommission", fields...)
		if kind == KindBuy {
			return NewBuy(day, sec, shares, price, tax, fee, currency), true
		}
		return NewSell(day, sec, shares, price, tax, fee, currency), true

	case KindDividend:
		sec := Security{Category: asset, ISIN: l.ISIN}
		return NewDividend(day, sec, e.cashAmount(l, fields), currency), true

	case KindInterest:
		return NewInterest(day, e.cashAmount(l, fields), currency), true

	case KindTransferIn, KindTransferOut:
		// Parqet imports deposits and withdrawals against a cash holding that
		// the report does not know about.
		log.Debug("skipping deposit or withdrawal, it needs a cash holding import", fields...)
		return nil, false
	}
	log.Debug("skipping unsupported kind", append(fields, zap.String("kind", string(kind)))...)
	return nil, false
}

// cashAmount returns the first non zero of credit and debit.
func (e *FundsExtractor) cashAmount(l statement.StatementOfFundsLine, fields []zap.Field) Magnitude {
	if credit := e.opts.magnitude(l.Credit, "credit", fields...); !credit.IsZero() {
		return credit
	}
	return e.opts.magnitude(l.Debit, "debit", fields...)
}
