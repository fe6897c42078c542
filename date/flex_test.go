package date

import (
	"errors"
	"testing"
)

func TestParseFlex(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Date
	}{
		{name: "date only", input: "20240115", want: New(2024, 1, 15)},
		{name: "date and time", input: "20240115;093000", want: New(2024, 1, 15)},
		{name: "end of year", input: "20231231;235959", want: New(2023, 12, 31)},
		{name: "leap day", input: "20240229", want: New(2024, 2, 29)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFlex(tt.input)
			if err != nil {
				t.Fatalf("ParseFlex(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseFlex(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseFlexNormalizedString(t *testing.T) {
	got, err := ParseFlex("20240115;093000")
	if err != nil {
		t.Fatalf("ParseFlex() unexpected error: %v", err)
	}
	if got.String() != "2024-01-15" {
		t.Errorf("ParseFlex().String() = %q, want %q", got.String(), "2024-01-15")
	}
}

func TestParseFlexErrors(t *testing.T) {
	for _, input := range []string{"", "2024-01-15", "20241315", "hello;093000", "20240230"} {
		t.Run(input, func(t *testing.T) {
			got, err := ParseFlex(input)
			if err == nil {
				t.Fatalf("ParseFlex(%q) = %v, want an error", input, got)
			}
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("ParseFlex(%q) error %T is not a *ParseError", input, err)
			}
			if perr.Input != input {
				t.Errorf("ParseError.Input = %q, want %q", perr.Input, input)
			}
			if !got.IsZero() {
				t.Errorf("ParseFlex(%q) = %v, want the zero date", input, got)
			}
		})
	}
}

func TestZeroDateString(t *testing.T) {
	var d Date
	if d.String() != "" {
		t.Errorf("Date{}.String() = %q, want empty", d.String())
	}
	if d.FlexString() != "" {
		t.Errorf("Date{}.FlexString() = %q, want empty", d.FlexString())
	}
}

func TestRange(t *testing.T) {
	r := NewRange(New(2024, 1, 1), New(2024, 3, 31))
	if !r.IsValid() {
		t.Fatalf("%v.IsValid() = false, want true", r)
	}
	if got, want := r.Identifier(), "20240101-20240331"; got != want {
		t.Errorf("Identifier() = %q, want %q", got, want)
	}
	for _, tc := range []struct {
		day  Date
		want bool
	}{
		{New(2023, 12, 31), false},
		{New(2024, 1, 1), true},
		{New(2024, 2, 15), true},
		{New(2024, 3, 31), true},
		{New(2024, 4, 1), false},
	} {
		if got := r.Contains(tc.day); got != tc.want {
			t.Errorf("Contains(%v) = %v, want %v", tc.day, got, tc.want)
		}
	}
	if (Range{From: New(2024, 2, 1), To: New(2024, 1, 1)}).IsValid() {
		t.Error("reversed range should not be valid")
	}
}
