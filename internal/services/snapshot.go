package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"dinamifin/internal/core"
)

// Snapshot bundles everything the dashboard needs for one user: all
// records per type, the income for the current month, and the goal
// history per type.
type Snapshot struct {
	Records map[core.RecordType][]core.Record
	Income  core.Money
	Goals   map[core.RecordType]core.GoalHistory
}

// SnapshotLoader fetches the per-type record lists, income, and goal
// histories concurrently.
type SnapshotLoader struct {
	store Store
}

func NewSnapshotLoader(store Store) *SnapshotLoader {
	return &SnapshotLoader{store: store}
}

// Load fetches a user's snapshot as of now. A failed record or income
// fetch fails the load; a failed goal fetch degrades to an empty history,
// since a dashboard without goal indicators is still useful.
func (l *SnapshotLoader) Load(ctx context.Context, userID string, now time.Time) (*Snapshot, error) {
	snapshot := &Snapshot{
		Records: make(map[core.RecordType][]core.Record, len(core.RecordTypes())),
		Goals:   make(map[core.RecordType]core.GoalHistory, len(core.RecordTypes())),
	}

	g, ctx := errgroup.WithContext(ctx)

	records := make([][]core.Record, len(core.RecordTypes()))
	goals := make([]core.GoalHistory, len(core.RecordTypes()))

	for i, t := range core.RecordTypes() {
		g.Go(func() error {
			recs, err := l.store.ListRecords(ctx, userID, t)
			if err != nil {
				return fmt.Errorf("list %s records: %w", t, err)
			}
			records[i] = recs
			return nil
		})

		g.Go(func() error {
			history, err := l.store.GoalHistory(ctx, userID, t)
			if err != nil {
				slog.WarnContext(ctx, "Goal history unavailable, continuing without it",
					"user_id", userID,
					"record_type", t,
					"error", err)
				return nil
			}
			goals[i] = history
			return nil
		})
	}

	g.Go(func() error {
		income, err := l.store.GetIncome(ctx, userID, core.PeriodOf(now))
		if err != nil {
			return fmt.Errorf("get income: %w", err)
		}
		snapshot.Income = income
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, t := range core.RecordTypes() {
		snapshot.Records[t] = records[i]
		snapshot.Goals[t] = goals[i]
	}

	return snapshot, nil
}
