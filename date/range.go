package date

import "fmt"

// Range represents a range of dates.
type Range struct{ From, To Date }

// NewRange returns the range of days between from and to, bounds included.
func NewRange(from, to Date) Range { return Range{From: from, To: to} }

// Contains return true date is included in the range (boundaries included)
func (r Range) Contains(date Date) bool { return (!date.Before(r.From) && !date.After(r.To)) }

// IsValid reports whether both bounds are known and ordered.
func (r Range) IsValid() bool {
	return !r.From.IsZero() && !r.To.IsZero() && !r.From.After(r.To)
}

// Identifier compute a unique identifier for the Range, in the Flex layout, e.g. "20240101-20241231".
func (r Range) Identifier() string {
	return fmt.Sprintf("%s-%s", r.From.FlexString(), r.To.FlexString())
}

// String returns the range in the ISO layout.
func (r Range) String() string { return fmt.Sprintf("%s..%s", r.From, r.To) }
