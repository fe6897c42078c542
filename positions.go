package flexquery

import (
	"go.uber.org/zap"

	"github.com/etnz/flexquery/statement"
)

// PositionExtractor builds a Buy for every lot still open at the end of the
// statement period.
//
// Lots are the only place where the acquisition of positions bought before the
// period is visible, so they are read before the statement of funds.
type PositionExtractor struct {
	opts resolved
}

// NewPositionExtractor returns a PositionExtractor using opts.
func NewPositionExtractor(opts ExtractorOptions) *PositionExtractor {
	return &PositionExtractor{opts: opts.resolve()}
}

// Positions is the result of a PositionExtractor.
type Positions struct {
	Transactions    []Transaction // one Buy per lot, in report order.
	Seen            *Seen         // originating transaction IDs of the lots.
	TransferredLots int           // lots without acquisition date, not exported.
}

// Extract returns the Buy transactions for lots and the set of transaction IDs
// they account for. Only lots with levelOfDetail LOT are considered.
func (e *PositionExtractor) Extract(lots []statement.OpenPosition) Positions {
	log := e.opts.log
	res := Positions{Seen: NewSeen()}
	for _, p := range lots {
		if p.LevelOfDetail != statement.LevelLot {
			continue
		}
		fields := lotFields(p)
		if p.ISIN == "" {
			log.Debug("skipping lot without isin", fields...)
			continue
		}
		if p.OpenDateTime == "" {
			// There is no activity code for a lot transferred in, so nothing
			// will pick it up later on.
			log.Warn("transferred-in lot not exported, add it manually", fields...)
			res.TransferredLots++
			continue
		}

		buy := NewBuy(
			e.opts.day(p.OpenDateTime, fields...),
			Security{Category: AssetSecurity, ISIN: p.ISIN},
			e.opts.magnitude(p.Position, "position", fields...),
			e.opts.magnitude(p.CostBasisPrice, "costBasisPrice", fields...),
			Magnitude{}, Magnitude{},
			e.opts.currencyOf(p.Currency, fields...),
		)
		res.Transactions = append(res.Transactions, buy)
		res.Seen.Add(p.OriginatingTransactionID)
		log.Debug("lot imported as buy", append(fields, zap.String("originatingTransactionID", p.OriginatingTransactionID))...)
	}
	return res
}
