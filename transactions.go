package flexquery

import (
	"github.com/etnz/flexquery/date"
)

// Transaction defines the common interface of all the records produced from a
// Flex report.
//
// Each kind has its own type holding only the fields that make sense for it:
// a Buy has shares and a price but no amount, a Dividend has an amount but no
// shares.
type Transaction interface {
	What() Kind         // What returns the kind of the transaction (e.g., "Buy", "Dividend").
	When() date.Date    // When returns the day of the transaction, zero if unknown.
	Asset() AssetType   // Asset returns the Parqet asset type.
	Identifier() string // Identifier returns the ISIN of the security, empty for cash.
	Currency() string   // Currency returns the ISO code of the transaction currency.
	Taxes() Magnitude   // Taxes returns the taxes paid with the transaction.
	Fees() Magnitude    // Fees returns the fees paid with the transaction.
}

type baseTx struct {
	Kind         Kind      // Kind of the transaction.
	Date         date.Date // Date is the day the transaction took place, zero if it could not be read.
	CurrencyCode string    // CurrencyCode is the ISO code of the amounts.
	Tax          Magnitude // Tax paid, zero by default.
	Fee          Magnitude // Fee paid, zero by default.
}

func (t baseTx) What() Kind       { return t.Kind }
func (t baseTx) When() date.Date  { return t.Date }
func (t baseTx) Currency() string { return t.CurrencyCode }
func (t baseTx) Taxes() Magnitude { return t.Tax }
func (t baseTx) Fees() Magnitude  { return t.Fee }

// MarshalJSON implements the json.Marshaler interface for baseTx.
func (t baseTx) MarshalJSON() ([]byte, error) {
	var w recordWriter
	w.Field("type", t.Kind)
	w.FieldIf(!t.Date.IsZero(), "date", t.Date)
	w.Field("currency", t.CurrencyCode)
	w.Field("tax", t.Tax)
	w.Field("fee", t.Fee)
	return w.MarshalJSON()
}

// Security identifies the asset of a security transaction.
type Security struct {
	Category AssetType // Category is the Parqet asset type, usually Security.
	ISIN     string
}

// secTx is a component for security based transactions (buy, sell, dividend).
type secTx struct {
	baseTx
	Security
}

func (t secTx) Asset() AssetType   { return t.Category }
func (t secTx) Identifier() string { return t.ISIN }

// MarshalJSON implements the json.Marshaler interface for secTx.
func (t secTx) MarshalJSON() ([]byte, error) {
	var w recordWriter
	w.Embed(t.baseTx)
	w.Field("assetType", t.Category)
	w.Field("identifier", t.ISIN)
	return w.MarshalJSON()
}

// Buy is the acquisition of a number of shares at a given price.
type Buy struct {
	secTx
	Shares Magnitude // Shares is the number of units bought.
	Price  Magnitude // Price is the price of one unit.
}

// NewBuy creates a new Buy transaction.
func NewBuy(day date.Date, sec Security, shares, price, tax, fee Magnitude, currency string) Buy {
	return Buy{
		secTx:  secTx{baseTx: baseTx{Kind: KindBuy, Date: day, CurrencyCode: currency, Tax: tax, Fee: fee}, Security: sec},
		Shares: shares,
		Price:  price,
	}
}

// MarshalJSON implements the json.Marshaler interface for Buy.
func (t Buy) MarshalJSON() ([]byte, error) {
	var w recordWriter
	w.Embed(t.secTx)
	w.Field("shares", t.Shares)
	w.Field("price", t.Price)
	return w.MarshalJSON()
}

// Sell is the disposal of a number of shares at a given price.
type Sell struct {
	secTx
	Shares Magnitude // Shares is the number of units sold, always positive.
	Price  Magnitude // Price is the price of one unit.
}

// NewSell creates a new Sell transaction.
func NewSell(day date.Date, sec Security, shares, price, tax, fee Magnitude, currency string) Sell {
	return Sell{
		secTx:  secTx{baseTx: baseTx{Kind: KindSell, Date: day, CurrencyCode: currency, Tax: tax, Fee: fee}, Security: sec},
		Shares: shares,
		Price:  price,
	}
}

// MarshalJSON implements the json.Marshaler interface for Sell.
func (t Sell) MarshalJSON() ([]byte, error) {
	var w recordWriter
	w.Embed(t.secTx)
	w.Field("shares", t.Shares)
	w.Field("price", t.Price)
	return w.MarshalJSON()
}

// Dividend is a cash distribution paid by a security.
type Dividend struct {
	secTx
	Amount Magnitude // Amount is the total amount received.
}

// NewDividend creates a new Dividend transaction.
func NewDividend(day date.Date, sec Security, amount Magnitude, currency string) Dividend {
	return Dividend{
		secTx:  secTx{baseTx: baseTx{Kind: KindDividend, Date: day, CurrencyCode: currency}, Security: sec},
		Amount: amount,
	}
}

// MarshalJSON implements the json.Marshaler interface for Dividend.
func (t Dividend) MarshalJSON() ([]byte, error) {
	var w recordWriter
	w.Embed(t.secTx)
	w.Field("amount", t.Amount)
	return w.MarshalJSON()
}

// Interest is interest credited or debited on the cash account.
//
// Interest is never attached to a security: its asset type is always Cash
// and it has no identifier.
type Interest struct {
	baseTx
	Amount Magnitude
}

// NewInterest creates a new Interest transaction.
func NewInterest(day date.Date, amount Magnitude, currency string) Interest {
	return Interest{
		baseTx: baseTx{Kind: KindInterest, Date: day, CurrencyCode: currency},
		Amount: amount,
	}
}

func (t Interest) Asset() AssetType   { return AssetCash }
func (t Interest) Identifier() string { return "" }

// MarshalJSON implements the json.Marshaler interface for Interest.
func (t Interest) MarshalJSON() ([]byte, error) {
	var w recordWriter
	w.Embed(t.baseTx)
	w.Field("assetType", AssetCash)
	w.Field("amount", t.Amount)
	return w.MarshalJSON()
}

// cashTx is a component for movements of money in or out of the account.
type cashTx struct {
	baseTx
	Category AssetType
	Amount   Magnitude
}

func (t cashTx) Asset() AssetType   { return t.Category }
func (t cashTx) Identifier() string { return "" }

// MarshalJSON implements the json.Marshaler interface for cashTx.
func (t cashTx) MarshalJSON() ([]byte, error) {
	var w recordWriter
	w.Embed(t.baseTx)
	w.Field("assetType", t.Category)
	w.Field("amount", t.Amount)
	return w.MarshalJSON()
}

// TransferIn is money deposited into the account.
type TransferIn struct{ cashTx }

// NewTransferIn creates a new TransferIn transaction.
func NewTransferIn(day date.Date, asset AssetType, amount Magnitude, currency string) TransferIn {
	return TransferIn{cashTx{baseTx: baseTx{Kind: KindTransferIn, Date: day, CurrencyCode: currency}, Category: asset, Amount: amount}}
}

// TransferOut is money withdrawn from the account.
type TransferOut struct{ cashTx }

// NewTransferOut creates a new TransferOut transaction.
func NewTransferOut(day date.Date, asset AssetType, amount Magnitude, currency string) TransferOut {
	return TransferOut{cashTx{baseTx: baseTx{Kind: KindTransferOut, Date: day, CurrencyCode: currency}, Category: asset, Amount: amount}}
}

// AmountOf returns the amount carried by cash flow transactions.
// It reports false for Buy and Sell.
func AmountOf(tx Transaction) (Magnitude, bool) {
	switch v := tx.(type) {
	case Dividend:
		return v.Amount, true
	case Interest:
		return v.Amount, true
	case TransferIn:
		return v.Amount, true
	case TransferOut:
		return v.Amount, true
	}
	return Magnitude{}, false
}

// SharesOf returns the shares and price of Buy and Sell transactions.
// It reports false for any other kind.
func SharesOf(tx Transaction) (shares, price Magnitude, ok bool) {
	switch v := tx.(type) {
	case Buy:
		return v.Shares, v.Price, true
	case Sell:
		return v.Shares, v.Price, true
	}
	return Magnitude{}, Magnitude{}, false
}
