package core

import "time"

// MonthlySummary is a materialized per-user, per-period rollup of record
// totals and income. The worker keeps these fresh as records change.
type MonthlySummary struct {
	UserID    string
	Period    Period
	Totals    Totals
	UpdatedAt time.Time
}
