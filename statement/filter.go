package statement

import (
	"github.com/etnz/flexquery/date"
	"go.uber.org/zap"
)

// FilterOptions selects what FilterRange keeps.
type FilterOptions struct {
	Range           date.Range
	ExcludeDeposits bool        // drop Deposits/Withdrawals cash transactions.
	Logger          *zap.Logger // nil logs nothing.
}

// FilterRange returns a copy of the report where trades and cash transactions
// are restricted to the given date range. The original report is not modified.
//
// Records without a date, or with a date that cannot be read, are kept.
func FilterRange(r *Response, opts FilterOptions) (*Response, error) {
	if len(r.Statements.Statements) == 0 {
		return nil, ErrNoStatement
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	log.Debug("filtering transactions", zap.Stringer("from", opts.Range.From), zap.Stringer("to", opts.Range.To))

	out := *r
	out.Statements.Statements = make([]FlexStatement, 0, len(r.Statements.Statements))
	for _, s := range r.Statements.Statements {
		s.Trades = filterTrades(s.Trades, opts, log)
		s.CashTransactions = filterCash(s.CashTransactions, opts, log)
		out.Statements.Statements = append(out.Statements.Statements, s)
	}
	return &out, nil
}

func filterTrades(trades []Trade, opts FilterOptions, log *zap.Logger) []Trade {
	kept := make([]Trade, 0, len(trades))
	for _, t := range trades {
		if t.TradeDate != "" {
			day, err := date.ParseFlex(t.TradeDate)
			if err != nil {
				log.Warn("keeping trade with unreadable date", zap.String("symbol", t.Symbol), zap.Error(err))
			} else if !opts.Range.Contains(day) {
				continue
			}
		}
		kept = append(kept, t)
	}
	return kept
}

func filterCash(txs []CashTransaction, opts FilterOptions, log *zap.Logger) []CashTransaction {
	kept := make([]CashTransaction, 0, len(txs))
	for _, tx := range txs {
		if opts.ExcludeDeposits && tx.Type == TypeDepositsWithdrawals {
			continue
		}
		if tx.DateTime != "" {
			day, err := date.ParseFlex(tx.DateTime)
			if err != nil {
				log.Warn("keeping cash transaction with unreadable date", zap.String("description", tx.Description), zap.Error(err))
			} else if !opts.Range.Contains(day) {
				continue
			}
		}
		kept = append(kept, tx)
	}
	return kept
}
