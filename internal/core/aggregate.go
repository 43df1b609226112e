package core

import (
	"fmt"
	"math"
)

// Totals holds per-type sums over a period plus the income scalar used as
// the denominator for goal percentages.
type Totals struct {
	Expenses    Money
	Savings     Money
	Investments Money
	Income      Money
}

// Of returns the total for a record type.
func (t Totals) Of(rt RecordType) Money {
	switch rt {
	case Expense:
		return t.Expenses
	case Saving:
		return t.Savings
	case Investment:
		return t.Investments
	}
	return Money{}
}

// CategoryShare is one slice of a per-type category breakdown.
type CategoryShare struct {
	Category string
	Amount   Money
	Percent  float64 // share of the type total, one decimal
}

// Aggregate sums record amounts grouped by type over the filtered subset.
// It is a pure fold: input order does not affect the result and the input
// is never mutated. Records the filter excludes (including ones carrying
// the invalid-date marker) contribute nothing.
func Aggregate(records []Record, income Money, keep DateFilter) Totals {
	totals := Totals{Income: income}
	for _, r := range records {
		if !keep(r.Date) {
			continue
		}
		switch r.Type {
		case Expense:
			totals.Expenses = totals.Expenses.Add(r.Amount)
		case Saving:
			totals.Savings = totals.Savings.Add(r.Amount)
		case Investment:
			totals.Investments = totals.Investments.Add(r.Amount)
		}
	}
	return totals
}

// CategoryBreakdown sums amounts by category for one type over the
// filtered subset and computes each category's percentage share. Every
// known category of the type participates in accumulation, but zero-valued
// categories are filtered from the output; when the type total is zero the
// result is empty rather than a division by zero.
func CategoryBreakdown(t RecordType, records []Record, keep DateFilter) ([]CategoryShare, error) {
	categories := t.Categories()
	if categories == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRecordType, t)
	}

	sums := make(map[string]int64, len(categories))
	for _, c := range categories {
		sums[c] = 0
	}
	var total int64
	for _, r := range records {
		if r.Type != t || !keep(r.Date) {
			continue
		}
		if _, known := sums[r.Category]; !known {
			continue
		}
		sums[r.Category] += r.Amount.Cents
		total += r.Amount.Cents
	}
	if total == 0 {
		return nil, nil
	}

	shares := make([]CategoryShare, 0, len(categories))
	for _, c := range categories {
		cents := sums[c]
		if cents == 0 {
			continue
		}
		shares = append(shares, CategoryShare{
			Category: c,
			Amount:   Money{Cents: cents},
			Percent:  round1(float64(cents) / float64(total) * 100),
		})
	}
	return shares, nil
}

// round1 rounds half away from zero to one decimal.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
