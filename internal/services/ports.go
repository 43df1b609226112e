package services

import (
	"context"

	"dinamifin/internal/core"
)

// Store is the persistence surface the services need. Both the SQLite
// repository and the in-memory store satisfy it.
type Store interface {
	CreateRecord(ctx context.Context, userID string, rec core.Record) error
	ListRecords(ctx context.Context, userID string, t core.RecordType) ([]core.Record, error)
	UpdateRecord(ctx context.Context, userID string, t core.RecordType, date core.Date, amount core.Money, category string) error
	DeleteRecord(ctx context.Context, userID string, t core.RecordType, date core.Date) error

	UpsertIncome(ctx context.Context, userID string, period core.Period, amount core.Money) error
	GetIncome(ctx context.Context, userID string, period core.Period) (core.Money, error)
	IncomeSeries(ctx context.Context, userID string, periods []core.Period) ([]core.TrendPoint, error)

	UpsertGoal(ctx context.Context, userID string, t core.RecordType, period core.Period, percent float64) error
	GoalHistory(ctx context.Context, userID string, t core.RecordType) (core.GoalHistory, error)

	MonthlySeries(ctx context.Context, userID string, t core.RecordType, periods []core.Period) ([]core.TrendPoint, error)
	RefreshMonthlySummary(ctx context.Context, userID string, period core.Period) error
	SummariesForUser(ctx context.Context, userID string) ([]core.MonthlySummary, error)

	Close() error
}

// EventPublisher notifies the worker that data for a user and month changed.
type EventPublisher interface {
	PublishRecordChange(ctx context.Context, userID, recordType, period string) error
}
