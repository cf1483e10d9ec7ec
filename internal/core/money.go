// Package core provides money parsing and handling utilities.
//
// This file contains functions for parsing monetary amounts from strings,
// the JSON number codec used on the wire and the en-US display format.
package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// CurrencySymbol prefixes every displayed amount.
const CurrencySymbol = "₹"

type Money struct {
	Cents int64
}

var (
	hundred = decimal.NewFromInt(100)
	printer = message.NewPrinter(language.AmericanEnglish)
)

// ParseDecimalToCents converts a decimal string to cents with proper rounding.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and performs
// half-up rounding on the third decimal place. The result is always positive cents.
// Returns an error for invalid formats, negative values, or zero amounts.
//
// Examples:
//
//	ParseDecimalToCents("12.34") -> 1234, nil
//	ParseDecimalToCents("12,34") -> 1234, nil
//	ParseDecimalToCents("12.345") -> 1235, nil (rounds up)
//	ParseDecimalToCents("12.344") -> 1234, nil (rounds down)
func ParseDecimalToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart + fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return 0, ErrInvalidAmount
	}
	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}
	cents := iv*100 + fracCents
	if cents <= 0 {
		return 0, ErrInvalidAmount
	}
	return cents, nil
}

// ParseCeiling parses a budget ceiling. Unlike expense amounts an empty
// string means zero, matching Number("") on the budget editor.
func ParseCeiling(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, nil
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return FromDecimal(d), nil
}

// FromDecimal rounds a unit amount to cents, half away from zero.
func FromDecimal(d decimal.Decimal) Money {
	return Money{Cents: d.Mul(hundred).Round(0).IntPart()}
}

// Decimal returns the amount in currency units.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

func (m Money) Add(o Money) Money { return Money{Cents: m.Cents + o.Cents} }

func (m Money) IsZero() bool { return m.Cents == 0 }

// DivN divides the amount by n, rounding to cents. n <= 0 yields zero.
func (m Money) DivN(n int) Money {
	if n <= 0 {
		return Money{}
	}
	return FromDecimal(m.Decimal().Div(decimal.NewFromInt(int64(n))))
}

// Scale multiplies the amount by a decimal factor, rounding to cents.
func (m Money) Scale(f decimal.Decimal) Money {
	return FromDecimal(m.Decimal().Mul(f))
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Units returns the amount as a float64 for chart data.
// Use cents for calculations to avoid floating-point precision issues.
func (m Money) Units() float64 {
	f, _ := m.Decimal().Float64()
	return f
}

// Raw is the plain number as stored on the wire, e.g. "1500" or "12.5".
func (m Money) Raw() string {
	return m.Decimal().String()
}

// Display groups thousands the way en-US toLocaleString does: "1,234.5".
func (m Money) Display() string {
	cents := m.Cents
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	s := printer.Sprintf("%d", cents/100)
	if rem := cents % 100; rem != 0 {
		s += "." + strings.TrimRight(fmt.Sprintf("%02d", rem), "0")
	}
	return sign + s
}

// FormatINR prefixes the display form with the currency symbol.
func FormatINR(m Money) string {
	return CurrencySymbol + m.Display()
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.Raw()), nil
}

// UnmarshalJSON accepts a JSON number or a string holding one. Empty strings
// and null decode to zero.
func (m *Money) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*m = Money{}
		return nil
	}
	raw := string(b)
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &raw); err != nil {
			return err
		}
		if strings.TrimSpace(raw) == "" {
			*m = Money{}
			return nil
		}
	}
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidAmount, string(b))
	}
	*m = FromDecimal(d)
	return nil
}
