package core

import "math"

// TrendPoint is one period of a value series ordered by period ascending.
type TrendPoint struct {
	Period Period
	Value  Money
}

// Trend is the change between the two most recent periods of a series.
type Trend struct {
	ChangePercent float64 // abs((latest-previous)/previous*100), one decimal
	Increase      bool    // diff >= 0; zero change counts as non-decrease
}

// ComputeTrend looks only at the last two elements of the series. Fewer
// than two periods yields the neutral {0, true}, a defined default rather
// than an error. A zero previous value also yields a 0% change.
func ComputeTrend(series []TrendPoint) Trend {
	if len(series) < 2 {
		return Trend{ChangePercent: 0, Increase: true}
	}
	previous := series[len(series)-2].Value.Cents
	latest := series[len(series)-1].Value.Cents
	diff := latest - previous
	t := Trend{Increase: diff >= 0}
	if previous != 0 {
		t.ChangePercent = round1(math.Abs(float64(diff) / float64(previous) * 100))
	}
	return t
}
