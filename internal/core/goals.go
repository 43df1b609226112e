package core

import (
	"fmt"
	"math"
)

// Goal is a percentage-of-income target for one period.
type Goal struct {
	Period  Period
	Percent float64
}

// GoalHistory is a per-period series of goals, as retrieved from a goal
// source for a lookback window.
type GoalHistory []Goal

// For returns the goal percentage for an exact period match. An absent
// period yields 0: upstream collapsed "no goal set" into "goal of 0%",
// and that observable behavior is preserved.
func (h GoalHistory) For(p Period) float64 {
	for _, g := range h {
		if g.Period == p {
			return g.Percent
		}
	}
	return 0
}

// Evaluation is the outcome of comparing an actual total against a goal.
type Evaluation struct {
	ActualPercent int // round(actual/income*100); 0 when income is 0
	GoalPercent   float64
	Compliant     bool
}

// PeriodActual is one period of a goal series: the realized total, the
// income denominator, and the goal percentage in force for that period.
type PeriodActual struct {
	Period      Period
	Real        Money
	Income      Money
	GoalPercent float64
}

// ComplianceStats summarizes goal compliance across a series of periods.
type ComplianceStats struct {
	Met    int
	Missed int
	Rate   int // round(met/total*100); 0 for an empty series
}

// EvaluateGoal classifies a single period. Zero income defines the actual
// percentage as 0 rather than dividing: any positive spend then misses an
// expense goal only if the goal is negative (it cannot be), and a
// saving/investment goal above 0 is missed.
func EvaluateGoal(t RecordType, actual, income Money, goalPercent float64) (Evaluation, error) {
	up, err := t.higherIsBetter()
	if err != nil {
		return Evaluation{}, err
	}
	actualPct := 0
	if income.Cents > 0 {
		actualPct = int(math.Round(float64(actual.Cents) / float64(income.Cents) * 100))
	}
	ev := Evaluation{ActualPercent: actualPct, GoalPercent: goalPercent}
	if up {
		ev.Compliant = float64(actualPct) >= goalPercent
	} else {
		ev.Compliant = float64(actualPct) <= goalPercent
	}
	return ev, nil
}

// EvaluateSeries classifies every period of the series, zero-valued ones
// included, with the same per-type direction rule, and accumulates the
// compliance rate.
func EvaluateSeries(t RecordType, series []PeriodActual) (ComplianceStats, error) {
	if !t.Valid() {
		return ComplianceStats{}, fmt.Errorf("%w: %q", ErrUnknownRecordType, t)
	}
	var stats ComplianceStats
	for _, p := range series {
		ev, err := EvaluateGoal(t, p.Real, p.Income, p.GoalPercent)
		if err != nil {
			return ComplianceStats{}, err
		}
		if ev.Compliant {
			stats.Met++
		} else {
			stats.Missed++
		}
	}
	if total := stats.Met + stats.Missed; total > 0 {
		stats.Rate = int(math.Round(float64(stats.Met) / float64(total) * 100))
	}
	return stats, nil
}
