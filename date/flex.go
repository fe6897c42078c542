package date

import (
	"fmt"
	"strings"
	"time"
)

// Layouts used by Flex Query reports.
const (
	FlexDateFormat     = "20060102"
	FlexDateTimeFormat = "20060102;150405"
)

// ParseError is returned when a Flex date cannot be parsed.
type ParseError struct {
	Input string // the original string, including any time component.
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid flex date %q want format %q: %v", e.Input, FlexDateFormat, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ParseFlex parses a date in the Flex layouts "20240115" or "20240115;093000".
// The time component is dropped before parsing.
func ParseFlex(str string) (Date, error) {
	day, _, _ := strings.Cut(str, ";")
	on, err := time.Parse(FlexDateFormat, strings.TrimSpace(day))
	if err != nil {
		return Date{}, &ParseError{Input: str, Err: err}
	}
	return New(on.Date()), nil
}

// FlexString formats d in the Flex date layout.
func (d Date) FlexString() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(FlexDateFormat)
}
