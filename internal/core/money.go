// Package core implements the financial aggregation engine: record
// normalization, period bucketing, totals, goal compliance, and trends.
//
// This file contains money parsing and conversion. Amounts are held as
// int64 cents internally; the JSON boundary speaks two-decimal dollar
// floats and converts here, at the edge.
package core

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// CentsFromFloat converts a dollar amount to cents with half-up rounding
// on the third decimal. NaN, infinities, zero, and negative amounts are
// rejected: the engine never aggregates them silently.
func CentsFromFloat(amount float64) (int64, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, ErrInvalidAmount
	}
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}
	if amount > float64(1<<62)/100 {
		return 0, ErrInvalidAmount
	}
	cents := int64(math.Round(amount * 100))
	if cents <= 0 {
		return 0, ErrInvalidAmount
	}
	return cents, nil
}

// ParseAmount converts a decimal string to cents. It accepts both dot
// (12.34) and comma (12,34) separators and performs half-up rounding on
// the third decimal place. Only positive amounts are valid.
func ParseAmount(s string) (int64, error) {
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
	const maxSafe = (1<<63 - 1) / 100
	if iv > maxSafe {
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

// Dollars returns the dollar value as a float64 for the JSON boundary.
// Use cents for all arithmetic.
func (m Money) Dollars() float64 {
	return float64(m.Cents) / 100.0
}

// Add returns the sum of two amounts.
func (m Money) Add(n Money) Money {
	return Money{Cents: m.Cents + n.Cents}
}
