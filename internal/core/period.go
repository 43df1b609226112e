package core

import (
	"fmt"
	"time"
)

// Period is a calendar-month bucket in YYYY-MM form. It is the key for
// goal lookup and for bucketing historical aggregates.
type Period string

// Window is a trailing lookback of whole calendar months anchored at the
// current month.
type Window string

const (
	Window1Month  Window = "1m"
	Window6Months Window = "6m"
	Window1Year   Window = "1y"
	Window3Years  Window = "3y"
	Window5Years  Window = "5y"
)

// PeriodOf truncates a time to its calendar month.
func PeriodOf(t time.Time) Period {
	return Period(t.Format("2006-01"))
}

func (p Period) Valid() bool {
	_, err := time.Parse("2006-01", string(p))
	return err == nil
}

// Time returns the first instant of the period's month, UTC.
func (p Period) Time() (time.Time, error) {
	t, err := time.Parse("2006-01", string(p))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid period %q: %w", p, err)
	}
	return t, nil
}

func (w Window) Valid() bool {
	_, err := w.Months()
	return err == nil
}

// Months returns how many trailing calendar months the window spans.
func (w Window) Months() (int, error) {
	switch w {
	case Window1Month:
		return 1, nil
	case Window6Months:
		return 6, nil
	case Window1Year:
		return 12, nil
	case Window3Years:
		return 36, nil
	case Window5Years:
		return 60, nil
	}
	return 0, fmt.Errorf("unknown window %q", w)
}

// Periods enumerates every period of the window ascending, ending at the
// month containing now. Empty months are enumerated too: series built over
// a window must carry zero-valued periods, never drop them.
func (w Window) Periods(now time.Time) ([]Period, error) {
	n, err := w.Months()
	if err != nil {
		return nil, err
	}
	anchor := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	periods := make([]Period, 0, n)
	for i := n - 1; i >= 0; i-- {
		periods = append(periods, PeriodOf(anchor.AddDate(0, -i, 0)))
	}
	return periods, nil
}

// DateFilter reports membership of a record date in a target period set.
type DateFilter func(Date) bool

// AllTime keeps every valid (non-zero) date.
func AllTime() DateFilter {
	return func(d Date) bool {
		return !d.IsZero()
	}
}

// MonthOf keeps dates in the calendar month containing now. The clock is an
// explicit parameter, never read from the system inside the engine.
func MonthOf(now time.Time) DateFilter {
	return func(d Date) bool {
		return !d.IsZero() && d.Month() == now.Month() && d.Year() == now.Year()
	}
}

// InWindow keeps dates whose period falls inside the trailing window.
func InWindow(w Window, now time.Time) (DateFilter, error) {
	periods, err := w.Periods(now)
	if err != nil {
		return nil, err
	}
	member := make(map[Period]struct{}, len(periods))
	for _, p := range periods {
		member[p] = struct{}{}
	}
	return func(d Date) bool {
		if d.IsZero() {
			return false
		}
		_, ok := member[PeriodOf(d.Time)]
		return ok
	}, nil
}
