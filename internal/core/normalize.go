package core

import (
	"fmt"
)

// RawRecord is the heterogeneous wire shape records arrive in. Each type
// carries its own date field: expense_date for expenses, income_date for
// savings (a quirk of the upstream API), investment_date for investments.
type RawRecord struct {
	Amount         float64 `json:"amount"`
	Category       string  `json:"category"`
	ExpenseDate    string  `json:"expense_date,omitempty"`
	IncomeDate     string  `json:"income_date,omitempty"`
	InvestmentDate string  `json:"investment_date,omitempty"`
}

// DateField returns the raw date value for the given type.
func (r RawRecord) DateField(t RecordType) string {
	switch t {
	case Expense:
		return r.ExpenseDate
	case Saving:
		return r.IncomeDate
	case Investment:
		return r.InvestmentDate
	}
	return ""
}

// Normalize converts one raw record into the uniform Record shape.
// Invalid amounts are rejected here, before any aggregation can see them.
// A malformed date does not fail normalization: it leaves the zero Date as
// an invalid marker, which every period filter excludes.
func Normalize(t RecordType, raw RawRecord) (Record, error) {
	if !t.Valid() {
		return Record{}, fmt.Errorf("%w: %q", ErrUnknownRecordType, t)
	}
	cents, err := CentsFromFloat(raw.Amount)
	if err != nil {
		return Record{}, fmt.Errorf("normalize %s record: %w", t, err)
	}
	rec := Record{
		Type:     t,
		Amount:   Money{Cents: cents},
		Category: raw.Category,
	}
	if d, err := ParseDate(raw.DateField(t)); err == nil {
		rec.Date = d
	}
	rec.ID = RecordID(t, rec.Date)
	return rec, nil
}

// NormalizeAll normalizes a batch, dropping records with invalid amounts
// and reporting how many were dropped so callers can log the loss.
func NormalizeAll(t RecordType, raws []RawRecord) (records []Record, dropped int) {
	records = make([]Record, 0, len(raws))
	for _, raw := range raws {
		rec, err := Normalize(t, raw)
		if err != nil {
			dropped++
			continue
		}
		records = append(records, rec)
	}
	return records, dropped
}

// RecordID builds the synthetic stable identifier. Type plus day is enough
// for display purposes given the upstream one-record-per-day convention;
// storage assigns its own surrogate ids.
func RecordID(t RecordType, d Date) string {
	if d.IsZero() {
		return string(t) + "-invalid"
	}
	return string(t) + "-" + d.String()
}
