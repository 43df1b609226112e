package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	Expense    RecordType = "expense"
	Saving     RecordType = "saving"
	Investment RecordType = "investment"
)

type (
	// RecordType identifies the kind of financial record. Income is not a
	// RecordType: it is a single monthly scalar, modeled separately.
	RecordType string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Record is one logged transaction in uniform shape, regardless of
	// which type-specific payload it arrived in.
	Record struct {
		ID       string // synthetic, stable: "<type>-<YYYY-MM-DD>"
		Type     RecordType
		Amount   Money
		Category string
		Date     Date
	}
)

var (
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInvalidDate       = errors.New("invalid date")
	ErrEmptyCategory     = errors.New("empty category")
	ErrUnknownCategory   = errors.New("unknown category")
	ErrUnknownRecordType = errors.New("unknown record type")
	ErrNotFound          = errors.New("not found")
)

// Category sets are fixed per type; freeform categories are rejected.
var recordCategories = map[RecordType][]string{
	Expense:    {"housing", "food", "transport", "health", "education", "entertainment", "clothing", "other"},
	Saving:     {"emergency fund", "retirement", "vacation", "maintenance", "other"},
	Investment: {"investment fund", "stocks", "real estate", "crypto", "business", "other"},
}

// RecordTypes lists the supported types in stable order.
func RecordTypes() []RecordType {
	return []RecordType{Expense, Saving, Investment}
}

func (t RecordType) Valid() bool {
	switch t {
	case Expense, Saving, Investment:
		return true
	}
	return false
}

// Categories returns the enumerated category set for the type, nil for an
// unknown type.
func (t RecordType) Categories() []string {
	return recordCategories[t]
}

func (t RecordType) HasCategory(category string) bool {
	for _, c := range recordCategories[t] {
		if c == category {
			return true
		}
	}
	return false
}

// higherIsBetter reports the compliance direction for the type: spending
// under the goal is good, saving or investing at least the goal is good.
func (t RecordType) higherIsBetter() (bool, error) {
	switch t {
	case Expense:
		return false, nil
	case Saving, Investment:
		return true, nil
	}
	return false, fmt.Errorf("%w: %q", ErrUnknownRecordType, t)
}

func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a strict YYYY-MM-DD date. The zero Date is the
// invalid-date marker callers filter on.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// String renders the day-truncated form used in record identifiers.
func (d Date) String() string {
	return d.Format("2006-01-02")
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (r Record) Validate() error {
	if !r.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownRecordType, r.Type)
	}
	if err := r.Date.Validate(); err != nil {
		return err
	}
	if err := r.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(r.Category) == "" {
		return ErrEmptyCategory
	}
	if !r.Type.HasCategory(r.Category) {
		return fmt.Errorf("%w: %q for type %s", ErrUnknownCategory, r.Category, r.Type)
	}
	return nil
}
