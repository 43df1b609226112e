// Package memory provides an in-process store used for development and
// tests. It implements the same operations as the SQLite repository.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"dinamifin/internal/core"
)

type storedRecord struct {
	id     int64
	record core.Record
}

type incomeKey struct {
	userID string
	period core.Period
}

type goalKey struct {
	userID string
	t      core.RecordType
	period core.Period
}

type Store struct {
	mu        sync.Mutex
	nextID    int64
	records   map[string][]storedRecord // keyed by userID
	incomes   map[incomeKey]core.Money
	goals     map[goalKey]float64
	summaries map[incomeKey]core.MonthlySummary
}

func New() *Store {
	return &Store{
		records:   make(map[string][]storedRecord),
		incomes:   make(map[incomeKey]core.Money),
		goals:     make(map[goalKey]float64),
		summaries: make(map[incomeKey]core.MonthlySummary),
	}
}

func (s *Store) Close() error { return nil }

func (s *Store) CreateRecord(_ context.Context, userID string, rec core.Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	s.records[userID] = append(s.records[userID], storedRecord{id: s.nextID, record: rec})
	return nil
}

func (s *Store) ListRecords(_ context.Context, userID string, t core.RecordType) ([]core.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []core.Record
	for _, sr := range s.records[userID] {
		if sr.record.Type == t {
			out = append(out, sr.record)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date.Time)
	})
	return out, nil
}

// latestMatch returns the index of the newest record matching the
// (user, type, date) natural key, or -1.
func (s *Store) latestMatch(userID string, t core.RecordType, date core.Date) int {
	match := -1
	var maxID int64
	for i, sr := range s.records[userID] {
		if sr.record.Type == t && sr.record.Date.Equal(date.Time) && sr.id > maxID {
			match, maxID = i, sr.id
		}
	}
	return match
}

func (s *Store) UpdateRecord(_ context.Context, userID string, t core.RecordType, date core.Date, amount core.Money, category string) error {
	if err := amount.Validate(); err != nil {
		return err
	}
	if !t.HasCategory(category) {
		return fmt.Errorf("%w: %q for type %s", core.ErrUnknownCategory, category, t)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.latestMatch(userID, t, date)
	if i < 0 {
		return core.ErrNotFound
	}
	s.records[userID][i].record.Amount = amount
	s.records[userID][i].record.Category = category
	return nil
}

func (s *Store) DeleteRecord(_ context.Context, userID string, t core.RecordType, date core.Date) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.latestMatch(userID, t, date)
	if i < 0 {
		return core.ErrNotFound
	}
	s.records[userID] = append(s.records[userID][:i], s.records[userID][i+1:]...)
	return nil
}

func (s *Store) UpsertIncome(_ context.Context, userID string, period core.Period, amount core.Money) error {
	if err := amount.Validate(); err != nil {
		return err
	}
	if !period.Valid() {
		return fmt.Errorf("%w: period %q", core.ErrInvalidDate, period)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.incomes[incomeKey{userID, period}] = amount
	return nil
}

func (s *Store) GetIncome(_ context.Context, userID string, period core.Period) (core.Money, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.incomes[incomeKey{userID, period}], nil
}

func (s *Store) IncomeSeries(_ context.Context, userID string, periods []core.Period) ([]core.TrendPoint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	series := make([]core.TrendPoint, len(periods))
	for i, p := range periods {
		series[i] = core.TrendPoint{Period: p, Value: s.incomes[incomeKey{userID, p}]}
	}
	return series, nil
}

func (s *Store) UpsertGoal(_ context.Context, userID string, t core.RecordType, period core.Period, percent float64) error {
	if !t.Valid() {
		return fmt.Errorf("%w: %q", core.ErrUnknownRecordType, t)
	}
	if !period.Valid() {
		return fmt.Errorf("%w: period %q", core.ErrInvalidDate, period)
	}
	if percent < 0 {
		return fmt.Errorf("%w: negative goal percent %v", core.ErrInvalidAmount, percent)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.goals[goalKey{userID, t, period}] = percent
	return nil
}

func (s *Store) GoalHistory(_ context.Context, userID string, t core.RecordType) (core.GoalHistory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var history core.GoalHistory
	for k, percent := range s.goals {
		if k.userID == userID && k.t == t {
			history = append(history, core.Goal{Period: k.period, Percent: percent})
		}
	}
	sort.Slice(history, func(i, j int) bool { return history[i].Period < history[j].Period })
	return history, nil
}

func (s *Store) MonthlySeries(_ context.Context, userID string, t core.RecordType, periods []core.Period) ([]core.TrendPoint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	byPeriod := make(map[core.Period]int64)
	for _, sr := range s.records[userID] {
		if sr.record.Type == t {
			byPeriod[core.PeriodOf(sr.record.Date.Time)] += sr.record.Amount.Cents
		}
	}

	series := make([]core.TrendPoint, len(periods))
	for i, p := range periods {
		series[i] = core.TrendPoint{Period: p, Value: core.Money{Cents: byPeriod[p]}}
	}
	return series, nil
}

func (s *Store) RefreshMonthlySummary(_ context.Context, userID string, period core.Period) error {
	if !period.Valid() {
		return fmt.Errorf("%w: period %q", core.ErrInvalidDate, period)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var totals core.Totals
	for _, sr := range s.records[userID] {
		if core.PeriodOf(sr.record.Date.Time) != period {
			continue
		}
		switch sr.record.Type {
		case core.Expense:
			totals.Expenses = totals.Expenses.Add(sr.record.Amount)
		case core.Saving:
			totals.Savings = totals.Savings.Add(sr.record.Amount)
		case core.Investment:
			totals.Investments = totals.Investments.Add(sr.record.Amount)
		}
	}
	totals.Income = s.incomes[incomeKey{userID, period}]

	s.summaries[incomeKey{userID, period}] = core.MonthlySummary{
		UserID:    userID,
		Period:    period,
		Totals:    totals,
		UpdatedAt: time.Now(),
	}
	return nil
}

func (s *Store) SummariesForUser(_ context.Context, userID string) ([]core.MonthlySummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []core.MonthlySummary
	for k, summary := range s.summaries {
		if k.userID == userID {
			out = append(out, summary)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Period < out[j].Period })
	return out, nil
}
