package services

import (
	"context"
	"fmt"
	"time"

	"dinamifin/internal/core"
)

// TypeOverview is the per-type slice of a dashboard: the all-time and
// current-month totals, the goal indicator for the current month, and the
// category breakdown over all records.
type TypeOverview struct {
	AllTime    core.Money
	Month      core.Money
	Goal       core.Evaluation
	Categories []core.CategoryShare
}

// Dashboard is the aggregate view for one user at one instant.
type Dashboard struct {
	UserID  string
	Period  core.Period
	Income  core.Money
	Types   map[core.RecordType]TypeOverview
	AllTime core.Totals
	Month   core.Totals
}

// DashboardService folds a user's snapshot into the dashboard view.
type DashboardService struct {
	loader *SnapshotLoader
}

func NewDashboardService(loader *SnapshotLoader) *DashboardService {
	return &DashboardService{loader: loader}
}

// Build assembles the dashboard for a user as of now.
func (s *DashboardService) Build(ctx context.Context, userID string, now time.Time) (*Dashboard, error) {
	snapshot, err := s.loader.Load(ctx, userID, now)
	if err != nil {
		return nil, err
	}

	period := core.PeriodOf(now)
	dashboard := &Dashboard{
		UserID: userID,
		Period: period,
		Income: snapshot.Income,
		Types:  make(map[core.RecordType]TypeOverview, len(core.RecordTypes())),
	}

	var all []core.Record
	for _, t := range core.RecordTypes() {
		all = append(all, snapshot.Records[t]...)
	}
	dashboard.AllTime = core.Aggregate(all, snapshot.Income, core.AllTime())
	dashboard.Month = core.Aggregate(all, snapshot.Income, core.MonthOf(now))

	for _, t := range core.RecordTypes() {
		records := snapshot.Records[t]

		monthTotal := core.Aggregate(records, core.Money{}, core.MonthOf(now)).Of(t)
		goalPercent := snapshot.Goals[t].For(period)

		evaluation, err := core.EvaluateGoal(t, monthTotal, snapshot.Income, goalPercent)
		if err != nil {
			return nil, fmt.Errorf("evaluate %s goal: %w", t, err)
		}

		breakdown, err := core.CategoryBreakdown(t, records, core.AllTime())
		if err != nil {
			return nil, fmt.Errorf("%s category breakdown: %w", t, err)
		}

		dashboard.Types[t] = TypeOverview{
			AllTime:    core.Aggregate(records, core.Money{}, core.AllTime()).Of(t),
			Month:      monthTotal,
			Goal:       evaluation,
			Categories: breakdown,
		}
	}

	return dashboard, nil
}
