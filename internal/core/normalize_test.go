package core

import (
	"errors"
	"testing"
)

func TestNormalize(t *testing.T) {
	rec, err := Normalize(Expense, RawRecord{Amount: 500, Category: "housing", ExpenseDate: "2024-06-05"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Type != Expense || rec.Amount.Cents != 50000 || rec.Category != "housing" {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if rec.Date.String() != "2024-06-05" {
		t.Fatalf("date: got %s", rec.Date)
	}
	if rec.ID != "expense-2024-06-05" {
		t.Fatalf("id: got %s", rec.ID)
	}
}

func TestNormalizeDateFieldPerType(t *testing.T) {
	// Savings arrive with income_date, investments with investment_date.
	sav, err := Normalize(Saving, RawRecord{Amount: 100, Category: "retirement", IncomeDate: "2024-06-01"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sav.Date.IsZero() {
		t.Fatalf("saving date should come from income_date")
	}
	inv, err := Normalize(Investment, RawRecord{Amount: 100, Category: "stocks", InvestmentDate: "2024-06-01"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inv.Date.IsZero() {
		t.Fatalf("investment date should come from investment_date")
	}
}

func TestNormalizeRejectsBadAmounts(t *testing.T) {
	for _, amount := range []float64{0, -10} {
		_, err := Normalize(Expense, RawRecord{Amount: amount, Category: "food", ExpenseDate: "2024-06-05"})
		if !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("amount %v: expected ErrInvalidAmount, got %v", amount, err)
		}
	}
}

func TestNormalizeMalformedDateIsMarkedNotFatal(t *testing.T) {
	rec, err := Normalize(Expense, RawRecord{Amount: 10, Category: "food", ExpenseDate: "06/05/2024"})
	if err != nil {
		t.Fatalf("malformed date must not fail normalization: %v", err)
	}
	if !rec.Date.IsZero() {
		t.Fatalf("malformed date should leave the zero marker")
	}
	// The marker keeps the record out of every period.
	if AllTime()(rec.Date) {
		t.Fatalf("invalid dates must be excluded from aggregation")
	}
}

func TestNormalizeAll(t *testing.T) {
	raws := []RawRecord{
		{Amount: 500, Category: "housing", ExpenseDate: "2024-06-05"},
		{Amount: -3, Category: "food", ExpenseDate: "2024-06-06"},
		{Amount: 300, Category: "food", ExpenseDate: "2024-06-10"},
	}
	records, dropped := NormalizeAll(Expense, raws)
	if len(records) != 2 || dropped != 1 {
		t.Fatalf("got %d records, %d dropped", len(records), dropped)
	}
}
