package core

import (
	"errors"
	"testing"
)

func TestGoalHistoryFor(t *testing.T) {
	h := GoalHistory{
		{Period: "2024-05", Percent: 40},
		{Period: "2024-06", Percent: 50},
	}
	if got := h.For("2024-06"); got != 50 {
		t.Fatalf("got %v, want 50", got)
	}
	// Absent period defaults to 0, indistinguishable from a 0% goal.
	if got := h.For("2024-07"); got != 0 {
		t.Fatalf("absent period: got %v, want 0", got)
	}
	if got := GoalHistory(nil).For("2024-06"); got != 0 {
		t.Fatalf("empty history: got %v, want 0", got)
	}
}

func TestEvaluateGoalDirectionAsymmetry(t *testing.T) {
	cases := []struct {
		name      string
		t         RecordType
		actual    int64 // cents
		income    int64
		goal      float64
		pct       int
		compliant bool
	}{
		{"expense under budget", Expense, 4000, 10000, 50, 40, true},
		{"expense at budget", Expense, 5000, 10000, 50, 50, true},
		{"expense over budget", Expense, 8000, 10000, 50, 80, false},
		{"saving below target", Saving, 1000, 10000, 20, 10, false},
		{"saving at target", Saving, 2000, 10000, 20, 20, true},
		{"saving above target", Saving, 3000, 10000, 20, 30, true},
		{"investment above target", Investment, 1500, 10000, 10, 15, true},
		{"investment below target", Investment, 500, 10000, 10, 5, false},
	}
	for _, tc := range cases {
		ev, err := EvaluateGoal(tc.t, Money{Cents: tc.actual}, Money{Cents: tc.income}, tc.goal)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
		if ev.ActualPercent != tc.pct {
			t.Fatalf("%s: percent got %d, want %d", tc.name, ev.ActualPercent, tc.pct)
		}
		if ev.Compliant != tc.compliant {
			t.Fatalf("%s: compliant got %v, want %v", tc.name, ev.Compliant, tc.compliant)
		}
	}
}

func TestEvaluateGoalZeroIncome(t *testing.T) {
	// Zero income never divides; the actual percentage is defined as 0.
	for _, rt := range RecordTypes() {
		ev, err := EvaluateGoal(rt, Money{Cents: 12345}, Money{}, 50)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", rt, err)
		}
		if ev.ActualPercent != 0 {
			t.Fatalf("%s: percent got %d, want 0", rt, ev.ActualPercent)
		}
	}
	// With 0% actual, an expense goal holds and a positive saving goal fails.
	ev, _ := EvaluateGoal(Expense, Money{Cents: 100}, Money{}, 50)
	if !ev.Compliant {
		t.Fatalf("0%% <= 50%% must comply")
	}
	ev, _ = EvaluateGoal(Saving, Money{Cents: 100}, Money{}, 20)
	if ev.Compliant {
		t.Fatalf("0%% < 20%% must not comply")
	}
}

func TestEvaluateGoalUnknownType(t *testing.T) {
	_, err := EvaluateGoal(RecordType("loan"), Money{Cents: 1}, Money{Cents: 1}, 10)
	if !errors.Is(err, ErrUnknownRecordType) {
		t.Fatalf("expected ErrUnknownRecordType, got %v", err)
	}
}

func TestEvaluateSeries(t *testing.T) {
	// Saving 150 of 1000 in each of two periods against a 10% goal: 15%
	// both times, compliant both times, 100% rate.
	series := []PeriodActual{
		{Period: "2024-05", Real: Money{Cents: 15000}, Income: Money{Cents: 100000}, GoalPercent: 10},
		{Period: "2024-06", Real: Money{Cents: 15000}, Income: Money{Cents: 100000}, GoalPercent: 10},
	}
	stats, err := EvaluateSeries(Saving, series)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Met != 2 || stats.Missed != 0 || stats.Rate != 100 {
		t.Fatalf("got %+v, want 2 met, rate 100", stats)
	}
}

func TestEvaluateSeriesMixed(t *testing.T) {
	series := []PeriodActual{
		{Period: "2024-04", Real: Money{Cents: 4000}, Income: Money{Cents: 10000}, GoalPercent: 50},  // 40% <= 50
		{Period: "2024-05", Real: Money{Cents: 8000}, Income: Money{Cents: 10000}, GoalPercent: 50},  // 80% > 50
		{Period: "2024-06", Real: Money{}, Income: Money{Cents: 10000}, GoalPercent: 50},             // zero period counts
	}
	stats, err := EvaluateSeries(Expense, series)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Met != 2 || stats.Missed != 1 {
		t.Fatalf("got %+v, want 2 met 1 missed", stats)
	}
	if stats.Rate != 67 { // round(2/3*100)
		t.Fatalf("rate: got %d, want 67", stats.Rate)
	}
}

func TestEvaluateSeriesRateBounds(t *testing.T) {
	all := []PeriodActual{{Period: "2024-06", Real: Money{Cents: 9000}, Income: Money{Cents: 10000}, GoalPercent: 50}}
	stats, _ := EvaluateSeries(Expense, all)
	if stats.Rate != 0 {
		t.Fatalf("all missed: rate %d, want 0", stats.Rate)
	}
	stats, _ = EvaluateSeries(Saving, all)
	if stats.Rate != 100 {
		t.Fatalf("all met: rate %d, want 100", stats.Rate)
	}
	stats, _ = EvaluateSeries(Expense, nil)
	if stats.Rate != 0 || stats.Met != 0 || stats.Missed != 0 {
		t.Fatalf("empty series should be all zeros, got %+v", stats)
	}
}
