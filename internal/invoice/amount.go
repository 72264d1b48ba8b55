package invoice

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// AmountPlaces is the number of fractional digits kept on every amount
const AmountPlaces = 2

// MaxAmountDigits bounds the significant digits and the exponent of a parsed
// amount. Rounding a value like 1e60000000 would otherwise expand it in full.
const MaxAmountDigits = 28

// ParseAmount converts a locale-formatted number into a decimal.
// Both "." and "," are accepted as decimal separator: when both appear the
// right-most one is the decimal separator and the other groups thousands.
// The result is not rounded.
func ParseAmount(raw string) (decimal.Decimal, error) {
	s := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '\'' {
			return -1
		}
		return r
	}, raw)
	s = strings.TrimPrefix(s, "+")
	if s == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}

	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")
	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		if strings.Count(s, ",") == 1 {
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastDot >= 0 && strings.Count(s, ".") > 1 && !strings.ContainsAny(s, "eE"):
		s = strings.ReplaceAll(s, ".", "")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", raw, err)
	}
	if exp := d.Exponent(); exp > MaxAmountDigits || exp < -MaxAmountDigits || d.NumDigits() > MaxAmountDigits {
		return decimal.Zero, fmt.Errorf("invalid amount %q: out of range", raw)
	}
	return d, nil
}

// IsNumeric reports whether raw can be parsed by ParseAmount
func IsNumeric(raw string) bool {
	_, err := ParseAmount(raw)
	return err == nil
}

// CleanAmount parses raw and rounds it half-up to two decimals.
// Blank or unparseable values degrade to 0.00 instead of failing the row.
func CleanAmount(raw string) decimal.Decimal {
	d, err := ParseAmount(raw)
	if err != nil {
		return decimal.Zero
	}
	return RoundAmount(d)
}

// RoundAmount rounds half away from zero to AmountPlaces decimals
func RoundAmount(d decimal.Decimal) decimal.Decimal {
	return d.Round(AmountPlaces)
}
