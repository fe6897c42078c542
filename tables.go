package flexquery

import (
	"maps"
	"slices"
	"strings"
)

// Flex activity codes found in the statement of funds.
const (
	CodeBuy            = "BUY"
	CodeSell           = "SELL"
	CodeDividend       = "DIV"
	CodeCreditInterest = "CINT"
	CodeDebitInterest  = "DINT"
	CodeDeposit        = "DEP"
	CodeWithdrawal     = "WITH"
	CodeWithholdingTax = "FRTAX"
	CodeOtherFee       = "OFEE"
)

// ActivityCodes maps Flex activity codes to transaction kinds.
// It is immutable once built.
type ActivityCodes struct {
	m map[string]Kind
}

// NewActivityCodes returns a mapping table from a copy of m.
func NewActivityCodes(m map[string]Kind) ActivityCodes {
	return ActivityCodes{m: maps.Clone(m)}
}

// DefaultActivityCodes returns the mapping of the activity codes that can be imported.
func DefaultActivityCodes() ActivityCodes {
	return NewActivityCodes(map[string]Kind{
		CodeBuy:            KindBuy,
		CodeSell:           KindSell,
		CodeDividend:       KindDividend,
		CodeCreditInterest: KindInterest,
		CodeDebitInterest:  KindInterest,
		CodeDeposit:        KindTransferIn,
		CodeWithdrawal:     KindTransferOut,
	})
}

// Lookup returns the kind for an activity code.
func (a ActivityCodes) Lookup(code string) (Kind, bool) {
	k, ok := a.m[code]
	return k, ok
}

// Codes returns the sorted list of mapped activity codes.
func (a ActivityCodes) Codes() []string { return slices.Sorted(maps.Keys(a.m)) }

// AssetCategories maps Flex asset categories to Parqet asset types.
// It is immutable once built.
type AssetCategories struct {
	m map[string]AssetType
}

// NewAssetCategories returns a mapping table from a copy of m.
func NewAssetCategories(m map[string]AssetType) AssetCategories {
	return AssetCategories{m: maps.Clone(m)}
}

// DefaultAssetCategories returns the mapping of the Flex asset categories.
func DefaultAssetCategories() AssetCategories {
	return NewAssetCategories(map[string]AssetType{
		"STK":  AssetSecurity, // stocks and ETFs
		"CASH": AssetCash,
		"BOND": AssetSecurity,
		"FUT":  AssetSecurity,
		"OPT":  AssetSecurity,
		"FOP":  AssetSecurity,
		"WAR":  AssetSecurity,
	})
}

// Lookup returns the asset type of a category, unknown categories are Cash.
func (a AssetCategories) Lookup(category string) (AssetType, bool) {
	t, ok := a.m[category]
	if !ok {
		return AssetCash, false
	}
	return t, true
}

// Categories returns the sorted list of mapped asset categories.
func (a AssetCategories) Categories() []string { return slices.Sorted(maps.Keys(a.m)) }

// codeSet is a set of activity codes.
type codeSet map[string]struct{}

func newCodeSet(codes []string) codeSet {
	s := make(codeSet, len(codes))
	for _, c := range codes {
		if c = strings.ToUpper(strings.TrimSpace(c)); c != "" {
			s[c] = struct{}{}
		}
	}
	return s
}

func (s codeSet) has(code string) bool {
	_, ok := s[code]
	return ok
}
