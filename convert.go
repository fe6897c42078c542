package flexquery

import (
	"maps"
	"slices"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/etnz/flexquery/statement"
)

// Converter turns a Flex report into Parqet transactions.
//
// Open lots are read first, then the statement of funds, skipping the lines
// already accounted for by a lot.
type Converter struct {
	positions *PositionExtractor
	funds     *FundsExtractor
	log       *zap.Logger
}

// NewConverter returns a Converter sharing opts between both extractors.
func NewConverter(opts ExtractorOptions) *Converter {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Converter{
		positions: NewPositionExtractor(opts),
		funds:     NewFundsExtractor(opts),
		log:       log,
	}
}

// Result is the outcome of a conversion.
type Result struct {
	Transactions []Transaction // lots first, then funds lines, in report order.
	Seen         *Seen
	Summary      Summary
}

// Summary describes a conversion.
type Summary struct {
	Lots            int // open lots read.
	Lines           int // statement of funds lines read.
	FromLots        int // transactions built from open lots.
	FromLines       int // transactions built from funds lines.
	TransferredLots int // lots without acquisition date, left out.
	Counts          map[Kind]int
	// Totals is the value of the transactions per currency and kind: shares
	// times price for trades, the amount for everything else.
	Totals map[string]map[Kind]decimal.Decimal
}

// Currencies returns the sorted currency codes of the totals.
func (s Summary) Currencies() []string { return slices.Sorted(maps.Keys(s.Totals)) }

// Skipped returns the number of funds lines that did not produce a transaction.
func (s Summary) Skipped() int { return s.Lines - s.FromLines }

// Convert converts the report. It never fails: records that cannot be read
// are logged and skipped.
func (c *Converter) Convert(resp *statement.Response) Result {
	lots := resp.LotPositions()
	lines := resp.FundsLines()

	pos := c.positions.Extract(lots)
	fromLines := c.funds.Extract(lines, pos.Seen)

	txs := make([]Transaction, 0, len(pos.Transactions)+len(fromLines))
	txs = append(txs, pos.Transactions...)
	txs = append(txs, fromLines...)

	sum := summarize(txs)
	sum.Lots, sum.Lines = len(lots), len(lines)
	sum.FromLots, sum.FromLines = len(pos.Transactions), len(fromLines)
	sum.TransferredLots = pos.TransferredLots

	c.log.Info("report converted",
		zap.Int("lots", sum.Lots),
		zap.Int("lines", sum.Lines),
		zap.Int("transactions", len(txs)),
		zap.Int("transferredLots", sum.TransferredLots),
	)
	return Result{Transactions: txs, Seen: pos.Seen, Summary: sum}
}

func summarize(txs []Transaction) Summary {
	s := Summary{
		Counts: make(map[Kind]int),
		Totals: make(map[string]map[Kind]decimal.Decimal),
	}
	for _, tx := range txs {
		s.Counts[tx.What()]++
		var value decimal.Decimal
		if shares, price, ok := SharesOf(tx); ok {
			value = shares.Decimal().Mul(price.Decimal())
		} else if amount, ok := AmountOf(tx); ok {
			value = amount.Decimal()
		}
		byKind, ok := s.Totals[tx.Currency()]
		if !ok {
			byKind = make(map[Kind]decimal.Decimal)
			s.Totals[tx.Currency()] = byKind
		}
		byKind[tx.What()] = byKind[tx.What()].Add(value)
	}
	return s
}
