package core

import (
	"testing"
	"time"
)

func TestPeriodOf(t *testing.T) {
	if got := PeriodOf(time.Date(2024, 6, 15, 13, 45, 0, 0, time.UTC)); got != "2024-06" {
		t.Fatalf("got %s, want 2024-06", got)
	}
}

func TestWindowMonths(t *testing.T) {
	cases := []struct {
		w      Window
		months int
		ok     bool
	}{
		{Window1Month, 1, true},
		{Window6Months, 6, true},
		{Window1Year, 12, true},
		{Window3Years, 36, true},
		{Window5Years, 60, true},
		{Window("2w"), 0, false},
		{Window(""), 0, false},
	}
	for _, tc := range cases {
		got, err := tc.w.Months()
		if tc.ok {
			if err != nil || got != tc.months {
				t.Fatalf("%s: expected %d, got %d (err=%v)", tc.w, tc.months, got, err)
			}
		} else if err == nil {
			t.Fatalf("%s: expected error", tc.w)
		}
	}
}

func TestWindowPeriods(t *testing.T) {
	now := time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC)

	periods, err := Window6Months.Periods(now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []Period{"2024-01", "2024-02", "2024-03", "2024-04", "2024-05", "2024-06"}
	if len(periods) != len(want) {
		t.Fatalf("got %d periods, want %d", len(periods), len(want))
	}
	for i := range want {
		if periods[i] != want[i] {
			t.Fatalf("period %d: got %s, want %s", i, periods[i], want[i])
		}
	}
}

func TestWindowPeriodsCrossYear(t *testing.T) {
	now := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	periods, err := Window6Months.Periods(now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if periods[0] != "2023-09" || periods[len(periods)-1] != "2024-02" {
		t.Fatalf("window should span the year boundary, got %v", periods)
	}
}

func TestMonthOf(t *testing.T) {
	now := time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC)
	keep := MonthOf(now)

	cases := []struct {
		d    Date
		want bool
	}{
		{NewDate(2024, 6, 1), true},
		{NewDate(2024, 6, 30), true},
		{NewDate(2024, 5, 31), false},
		{NewDate(2023, 6, 15), false}, // same month, different year
		{Date{}, false},               // invalid-date marker
	}
	for _, tc := range cases {
		if got := keep(tc.d); got != tc.want {
			t.Fatalf("%v: got %v, want %v", tc.d, got, tc.want)
		}
	}
}

func TestInWindow(t *testing.T) {
	now := time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC)
	keep, err := InWindow(Window1Year, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !keep(NewDate(2023, 7, 1)) {
		t.Fatalf("2023-07 is inside the trailing year")
	}
	if keep(NewDate(2023, 6, 30)) {
		t.Fatalf("2023-06 is outside the trailing year")
	}
	if keep(Date{}) {
		t.Fatalf("invalid dates are never in a window")
	}
	if _, err := InWindow(Window("7q"), now); err == nil {
		t.Fatalf("expected error for unknown window")
	}
}
