package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"dinamifin/internal/core"
)

// History is a monthly total series over a trailing window with the trend
// of its last two points.
type History struct {
	Points []core.TrendPoint
	Trend  core.Trend
}

// GoalPeriod is one month of a goal history: what was actually moved, the
// income and goal it was measured against, and the verdict.
type GoalPeriod struct {
	Period        core.Period
	Real          core.Money
	Income        core.Money
	GoalPercent   float64
	ActualPercent int
	Compliant     bool
}

// GoalReport is the goal compliance view over a trailing window.
type GoalReport struct {
	Periods []GoalPeriod
	Stats   core.ComplianceStats
	Trend   core.Trend
}

// HistoryService builds windowed monthly series from the store.
type HistoryService struct {
	store Store
}

func NewHistoryService(store Store) *HistoryService {
	return &HistoryService{store: store}
}

// Totals returns the monthly total series for one record type over the
// window ending at now. Months without records appear as zero points.
func (s *HistoryService) Totals(ctx context.Context, userID string, t core.RecordType, w core.Window, now time.Time) (*History, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %q", core.ErrUnknownRecordType, t)
	}

	periods, err := w.Periods(now)
	if err != nil {
		return nil, err
	}

	points, err := s.store.MonthlySeries(ctx, userID, t, periods)
	if err != nil {
		return nil, err
	}

	return &History{
		Points: points,
		Trend:  core.ComputeTrend(points),
	}, nil
}

// Income returns the monthly income series over the window ending at now.
func (s *HistoryService) Income(ctx context.Context, userID string, w core.Window, now time.Time) (*History, error) {
	periods, err := w.Periods(now)
	if err != nil {
		return nil, err
	}

	points, err := s.store.IncomeSeries(ctx, userID, periods)
	if err != nil {
		return nil, err
	}

	return &History{
		Points: points,
		Trend:  core.ComputeTrend(points),
	}, nil
}

// Goals returns the goal compliance report for one record type over the
// window ending at now. Months without a goal are measured against 0.
func (s *HistoryService) Goals(ctx context.Context, userID string, t core.RecordType, w core.Window, now time.Time) (*GoalReport, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %q", core.ErrUnknownRecordType, t)
	}

	periods, err := w.Periods(now)
	if err != nil {
		return nil, err
	}

	var (
		totals  []core.TrendPoint
		incomes []core.TrendPoint
		goals   core.GoalHistory
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		totals, err = s.store.MonthlySeries(gctx, userID, t, periods)
		return err
	})
	g.Go(func() error {
		var err error
		incomes, err = s.store.IncomeSeries(gctx, userID, periods)
		return err
	})
	g.Go(func() error {
		var err error
		goals, err = s.store.GoalHistory(gctx, userID, t)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	series := make([]core.PeriodActual, len(periods))
	for i, p := range periods {
		series[i] = core.PeriodActual{
			Period:      p,
			Real:        totals[i].Value,
			Income:      incomes[i].Value,
			GoalPercent: goals.For(p),
		}
	}

	stats, err := core.EvaluateSeries(t, series)
	if err != nil {
		return nil, err
	}

	report := &GoalReport{
		Periods: make([]GoalPeriod, len(series)),
		Stats:   stats,
		Trend:   core.ComputeTrend(totals),
	}
	for i, pa := range series {
		evaluation, err := core.EvaluateGoal(t, pa.Real, pa.Income, pa.GoalPercent)
		if err != nil {
			return nil, err
		}
		report.Periods[i] = GoalPeriod{
			Period:        pa.Period,
			Real:          pa.Real,
			Income:        pa.Income,
			GoalPercent:   pa.GoalPercent,
			ActualPercent: evaluation.ActualPercent,
			Compliant:     evaluation.Compliant,
		}
	}

	return report, nil
}
