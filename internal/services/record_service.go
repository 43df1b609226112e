package services

import (
	"context"
	"fmt"
	"log/slog"

	"dinamifin/internal/core"
)

// incomeChangeType is the routing value used when the monthly income
// scalar changes rather than a record.
const incomeChangeType = "income"

// RecordService orchestrates record writes across the store and AMQP
type RecordService struct {
	store  Store
	events EventPublisher
}

func NewRecordService(store Store, events EventPublisher) *RecordService {
	return &RecordService{
		store:  store,
		events: events,
	}
}

// CreateRecord normalizes a raw type-specific payload into a record, saves
// it, and publishes a change message for the worker.
func (s *RecordService) CreateRecord(ctx context.Context, userID string, t core.RecordType, raw core.RawRecord) (core.Record, error) {
	rec, err := core.Normalize(t, raw)
	if err != nil {
		return core.Record{}, err
	}
	if err := rec.Validate(); err != nil {
		return core.Record{}, err
	}

	if err := s.store.CreateRecord(ctx, userID, rec); err != nil {
		return core.Record{}, fmt.Errorf("save record: %w", err)
	}

	s.publishChange(ctx, userID, string(t), core.PeriodOf(rec.Date.Time))

	return rec, nil
}

// ListRecords returns all records of one type for a user.
func (s *RecordService) ListRecords(ctx context.Context, userID string, t core.RecordType) ([]core.Record, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %q", core.ErrUnknownRecordType, t)
	}
	return s.store.ListRecords(ctx, userID, t)
}

// UpdateRecord rewrites the record addressed by its (user, type, date) key.
func (s *RecordService) UpdateRecord(ctx context.Context, userID string, t core.RecordType, date core.Date, amount core.Money, category string) error {
	if !t.Valid() {
		return fmt.Errorf("%w: %q", core.ErrUnknownRecordType, t)
	}
	if err := date.Validate(); err != nil {
		return err
	}

	if err := s.store.UpdateRecord(ctx, userID, t, date, amount, category); err != nil {
		return err
	}

	s.publishChange(ctx, userID, string(t), core.PeriodOf(date.Time))
	return nil
}

// DeleteRecord removes the record addressed by its (user, type, date) key.
func (s *RecordService) DeleteRecord(ctx context.Context, userID string, t core.RecordType, date core.Date) error {
	if !t.Valid() {
		return fmt.Errorf("%w: %q", core.ErrUnknownRecordType, t)
	}
	if err := date.Validate(); err != nil {
		return err
	}

	if err := s.store.DeleteRecord(ctx, userID, t, date); err != nil {
		return err
	}

	s.publishChange(ctx, userID, string(t), core.PeriodOf(date.Time))
	return nil
}

// SetIncome sets the monthly income for a user and period.
func (s *RecordService) SetIncome(ctx context.Context, userID string, period core.Period, amount core.Money) error {
	if err := s.store.UpsertIncome(ctx, userID, period, amount); err != nil {
		return err
	}

	s.publishChange(ctx, userID, incomeChangeType, period)
	return nil
}

// GetIncome returns the income scalar for a user and period, zero when
// none was recorded.
func (s *RecordService) GetIncome(ctx context.Context, userID string, period core.Period) (core.Money, error) {
	return s.store.GetIncome(ctx, userID, period)
}

// GetGoal returns the goal percentage in force for a user, type, and
// period. An absent goal reads as 0.
func (s *RecordService) GetGoal(ctx context.Context, userID string, t core.RecordType, period core.Period) (float64, error) {
	if !t.Valid() {
		return 0, fmt.Errorf("%w: %q", core.ErrUnknownRecordType, t)
	}
	history, err := s.store.GoalHistory(ctx, userID, t)
	if err != nil {
		return 0, err
	}
	return history.For(period), nil
}

// SetGoal sets the goal percentage for a user, type, and period.
func (s *RecordService) SetGoal(ctx context.Context, userID string, t core.RecordType, period core.Period, percent float64) error {
	return s.store.UpsertGoal(ctx, userID, t, period, percent)
}

// publishChange notifies the worker. A publish failure never fails the
// request: the write already landed in the store.
func (s *RecordService) publishChange(ctx context.Context, userID, recordType string, period core.Period) {
	if s.events == nil {
		slog.DebugContext(ctx, "Event publisher not available, skipping change message")
		return
	}

	if err := s.events.PublishRecordChange(ctx, userID, recordType, string(period)); err != nil {
		slog.ErrorContext(ctx, "Failed to publish record change",
			"user_id", userID,
			"record_type", recordType,
			"period", period,
			"error", err)
	}
}

// Close closes the underlying store.
func (s *RecordService) Close() error {
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}
