package flexquery

// Kind identifies the type of a Transaction, spelled as Parqet expects it.
type Kind string

// Transaction kinds.
const (
	KindBuy         Kind = "Buy"
	KindSell        Kind = "Sell"
	KindDividend    Kind = "Dividend"
	KindInterest    Kind = "Interest"
	KindTransferIn  Kind = "TransferIn"
	KindTransferOut Kind = "TransferOut"
)

// Kinds lists all transaction kinds in display order.
var Kinds = []Kind{KindBuy, KindSell, KindDividend, KindInterest, KindTransferIn, KindTransferOut}

// AssetType is the Parqet asset type of a transaction.
type AssetType string

// Asset types.
const (
	AssetSecurity AssetType = "Security"
	AssetCash     AssetType = "Cash"
)
