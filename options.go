package flexquery

import (
	"go.uber.org/zap"

	"github.com/etnz/flexquery/date"
	"github.com/etnz/flexquery/statement"
)

// ExtractorOptions holds the tables and settings shared by the extractors.
//
// The zero value uses the default tables, excludes OFEE lines and does not log.
type ExtractorOptions struct {
	ActivityCodes   *ActivityCodes   // nil means DefaultActivityCodes.
	AssetCategories *AssetCategories // nil means DefaultAssetCategories.
	Excluded        []string         // activity codes never imported, nil means [OFEE].
	DefaultCurrency string           // empty means EUR.
	Logger          *zap.Logger      // nil logs nothing.
}

// DefaultExcluded lists the activity codes excluded by default.
func DefaultExcluded() []string { return []string{CodeOtherFee} }

// resolved holds ExtractorOptions with every default applied.
type resolved struct {
	codes      ActivityCodes
	categories AssetCategories
	excluded   codeSet
	currency   string
	log        *zap.Logger
}

func (o ExtractorOptions) resolve() resolved {
	r := resolved{
		codes:      DefaultActivityCodes(),
		categories: DefaultAssetCategories(),
		currency:   DefaultCurrency,
		log:        o.Logger,
	}
	if o.ActivityCodes != nil {
		r.codes = *o.ActivityCodes
	}
	if o.AssetCategories != nil {
		r.categories = *o.AssetCategories
	}
	excluded := o.Excluded
	if excluded == nil {
		excluded = DefaultExcluded()
	}
	r.excluded = newCodeSet(excluded)
	if o.DefaultCurrency != "" {
		r.currency = currencyOf(o.DefaultCurrency, DefaultCurrency)
	}
	if r.log == nil {
		r.log = zap.NewNop()
	}
	return r
}

// magnitude reads a numeric attribute. Unreadable values are logged and read as zero.
func (r resolved) magnitude(raw, attr string, fields ...zap.Field) Magnitude {
	m, err := ParseMagnitude(raw)
	if err != nil {
		r.log.Warn("unreadable number, using 0", append(fields, zap.String("attribute", attr), zap.Error(err))...)
		return Magnitude{}
	}
	return m
}

// day reads a Flex date. Unreadable dates are logged and left empty.
func (r resolved) day(raw string, fields ...zap.Field) date.Date {
	if raw == "" {
		return date.Date{}
	}
	d, err := date.ParseFlex(raw)
	if err != nil {
		r.log.Warn("unreadable date, leaving it empty", append(fields, zap.Error(err))...)
		return date.Date{}
	}
	return d
}

// currencyOf returns the record currency, the default one if empty.
// Unknown codes are kept and logged.
func (r resolved) currencyOf(code string, fields ...zap.Field) string {
	c := currencyOf(code, r.currency)
	if err := ValidateCurrency(c); err != nil {
		r.log.Warn("keeping unknown currency", append(fields, zap.Error(err))...)
	}
	return c
}

// lotFields identifies an open position in the logs.
func lotFields(p statement.OpenPosition) []zap.Field {
	return []zap.Field{zap.String("symbol", p.Symbol), zap.String("isin", p.ISIN)}
}

// lineFields identifies a statement of funds line in the logs.
func lineFields(l statement.StatementOfFundsLine) []zap.Field {
	return []zap.Field{
		zap.String("activityCode", l.ActivityCode),
		zap.String("transactionID", l.TransactionID),
		zap.String("symbol", l.Symbol),
	}
}
