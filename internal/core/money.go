// Package core holds the ledger's domain types and amount arithmetic.
//
// Amounts travel as float64 (they are JSON numbers in the persisted layout and
// in backups) but every add, subtract and write goes through decimal
// arithmetic rounded to AmountPlaces, so a remaining balance that is
// decremented and incremented many times does not accumulate float error.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// AmountPlaces is the number of decimals kept for every stored amount.
const AmountPlaces = 3

// Normalize rounds v half away from zero to AmountPlaces decimals.
func Normalize(v float64) float64 {
	return decimal.NewFromFloat(v).Round(AmountPlaces).InexactFloat64()
}

// Add returns a+b rounded to AmountPlaces.
func Add(a, b float64) float64 {
	return decimal.NewFromFloat(a).Add(decimal.NewFromFloat(b)).Round(AmountPlaces).InexactFloat64()
}

// Sub returns a-b rounded to AmountPlaces.
func Sub(a, b float64) float64 {
	return decimal.NewFromFloat(a).Sub(decimal.NewFromFloat(b)).Round(AmountPlaces).InexactFloat64()
}

// Sum adds all values with a single rounding at the end.
func Sum(values ...float64) float64 {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(decimal.NewFromFloat(v))
	}
	return total.Round(AmountPlaces).InexactFloat64()
}

// Percent returns part/whole*100, or 0 when whole is zero.
func Percent(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	w := decimal.NewFromFloat(whole)
	return decimal.NewFromFloat(part).Div(w).Mul(decimal.NewFromInt(100)).InexactFloat64()
}

// ParseAmount parses a user supplied amount.
//
// Both dot (12.34) and comma (12,34) decimal separators are accepted. Signs,
// exponents and empty input are rejected. The result is normalized.
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.ContainsAny(s, "+-eE") {
		return 0, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	return d.Round(AmountPlaces).InexactFloat64(), nil
}

// FormatAmount renders an amount with AmountPlaces decimals and an optional
// currency suffix.
func FormatAmount(v float64, currency string) string {
	out := decimal.NewFromFloat(v).StringFixed(AmountPlaces)
	if currency == "" {
		return out
	}
	return out + " " + currency
}
