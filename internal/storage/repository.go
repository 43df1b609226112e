package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"dinamifin/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteRepository persists records, incomes, goals, and materialized
// monthly summaries in a single SQLite database.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// CreateRecord inserts one record. Records are id-keyed rows, so several
// records may share the same (user, type, date) natural key.
func (r *SQLiteRepository) CreateRecord(ctx context.Context, userID string, rec core.Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO records (user_id, record_type, amount_cents, category, record_date)
		 VALUES (?, ?, ?, ?, ?)`,
		userID, string(rec.Type), rec.Amount.Cents, rec.Category, rec.Date.String())
	if err != nil {
		return fmt.Errorf("insert record: %w", err)
	}

	slog.InfoContext(ctx, "Record saved to SQLite",
		"user_id", userID,
		"record_type", rec.Type,
		"amount_cents", rec.Amount.Cents,
		"record_date", rec.Date.String())

	return nil
}

// ListRecords returns all records of one type for a user, oldest first.
func (r *SQLiteRepository) ListRecords(ctx context.Context, userID string, t core.RecordType) ([]core.Record, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT record_type, amount_cents, category, record_date
		 FROM records
		 WHERE user_id = ? AND record_type = ?
		 ORDER BY record_date, id`,
		userID, string(t))
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	var records []core.Record
	for rows.Next() {
		var (
			typ     string
			cents   int64
			cat     string
			rawDate string
		)
		if err := rows.Scan(&typ, &cents, &cat, &rawDate); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}

		date, err := core.ParseDate(rawDate)
		if err != nil {
			return nil, fmt.Errorf("parse stored date %q: %w", rawDate, err)
		}

		rt := core.RecordType(typ)
		records = append(records, core.Record{
			ID:       core.RecordID(rt, date),
			Type:     rt,
			Amount:   core.Money{Cents: cents},
			Category: cat,
			Date:     date,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}

	return records, nil
}

// UpdateRecord rewrites the amount and category of the record addressed by
// its (user, type, date) natural key. When several rows share the key the
// most recently inserted one is updated.
func (r *SQLiteRepository) UpdateRecord(ctx context.Context, userID string, t core.RecordType, date core.Date, amount core.Money, category string) error {
	if err := amount.Validate(); err != nil {
		return err
	}
	if !t.HasCategory(category) {
		return fmt.Errorf("%w: %q for type %s", core.ErrUnknownCategory, category, t)
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE records SET amount_cents = ?, category = ?
		 WHERE id = (
		     SELECT id FROM records
		     WHERE user_id = ? AND record_type = ? AND record_date = ?
		     ORDER BY id DESC LIMIT 1
		 )`,
		amount.Cents, category, userID, string(t), date.String())
	if err != nil {
		return fmt.Errorf("update record: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update record rows affected: %w", err)
	}
	if affected == 0 {
		return core.ErrNotFound
	}

	return nil
}

// DeleteRecord removes the record addressed by its (user, type, date)
// natural key, preferring the most recently inserted row on collision.
func (r *SQLiteRepository) DeleteRecord(ctx context.Context, userID string, t core.RecordType, date core.Date) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM records
		 WHERE id = (
		     SELECT id FROM records
		     WHERE user_id = ? AND record_type = ? AND record_date = ?
		     ORDER BY id DESC LIMIT 1
		 )`,
		userID, string(t), date.String())
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete record rows affected: %w", err)
	}
	if affected == 0 {
		return core.ErrNotFound
	}

	return nil
}

// UpsertIncome sets the single monthly income scalar for a user and period.
func (r *SQLiteRepository) UpsertIncome(ctx context.Context, userID string, period core.Period, amount core.Money) error {
	if err := amount.Validate(); err != nil {
		return err
	}
	if !period.Valid() {
		return fmt.Errorf("%w: period %q", core.ErrInvalidDate, period)
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO monthly_incomes (user_id, period, amount_cents, updated_at)
		 VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (user_id, period)
		 DO UPDATE SET amount_cents = excluded.amount_cents, updated_at = CURRENT_TIMESTAMP`,
		userID, string(period), amount.Cents)
	if err != nil {
		return fmt.Errorf("upsert income: %w", err)
	}

	return nil
}

// GetIncome returns the monthly income for a period, zero when none is set.
func (r *SQLiteRepository) GetIncome(ctx context.Context, userID string, period core.Period) (core.Money, error) {
	var cents int64
	err := r.db.QueryRowContext(ctx,
		`SELECT amount_cents FROM monthly_incomes WHERE user_id = ? AND period = ?`,
		userID, string(period)).Scan(&cents)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Money{}, nil
	}
	if err != nil {
		return core.Money{}, fmt.Errorf("get income: %w", err)
	}

	return core.Money{Cents: cents}, nil
}

// IncomeSeries returns one point per requested period, zero-filled where no
// income is recorded.
func (r *SQLiteRepository) IncomeSeries(ctx context.Context, userID string, periods []core.Period) ([]core.TrendPoint, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT period, amount_cents FROM monthly_incomes WHERE user_id = ?`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("income series: %w", err)
	}
	defer rows.Close()

	byPeriod := make(map[core.Period]int64)
	for rows.Next() {
		var (
			period string
			cents  int64
		)
		if err := rows.Scan(&period, &cents); err != nil {
			return nil, fmt.Errorf("scan income: %w", err)
		}
		byPeriod[core.Period(period)] = cents
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate incomes: %w", err)
	}

	series := make([]core.TrendPoint, len(periods))
	for i, p := range periods {
		series[i] = core.TrendPoint{Period: p, Value: core.Money{Cents: byPeriod[p]}}
	}

	return series, nil
}

// UpsertGoal sets the goal percentage for a user, type, and period.
func (r *SQLiteRepository) UpsertGoal(ctx context.Context, userID string, t core.RecordType, period core.Period, percent float64) error {
	if !t.Valid() {
		return fmt.Errorf("%w: %q", core.ErrUnknownRecordType, t)
	}
	if !period.Valid() {
		return fmt.Errorf("%w: period %q", core.ErrInvalidDate, period)
	}
	if percent < 0 {
		return fmt.Errorf("%w: negative goal percent %v", core.ErrInvalidAmount, percent)
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO goals (user_id, record_type, period, percent, updated_at)
		 VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (user_id, record_type, period)
		 DO UPDATE SET percent = excluded.percent, updated_at = CURRENT_TIMESTAMP`,
		userID, string(t), string(period), percent)
	if err != nil {
		return fmt.Errorf("upsert goal: %w", err)
	}

	return nil
}

// GoalHistory returns all goals of one type for a user, oldest period first.
func (r *SQLiteRepository) GoalHistory(ctx context.Context, userID string, t core.RecordType) (core.GoalHistory, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT period, percent FROM goals
		 WHERE user_id = ? AND record_type = ?
		 ORDER BY period`,
		userID, string(t))
	if err != nil {
		return nil, fmt.Errorf("goal history: %w", err)
	}
	defer rows.Close()

	var history core.GoalHistory
	for rows.Next() {
		var (
			period  string
			percent float64
		)
		if err := rows.Scan(&period, &percent); err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		history = append(history, core.Goal{Period: core.Period(period), Percent: percent})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate goals: %w", err)
	}

	return history, nil
}

// MonthlySeries sums record amounts per month for the requested periods,
// zero-filled where a month has no records.
func (r *SQLiteRepository) MonthlySeries(ctx context.Context, userID string, t core.RecordType, periods []core.Period) ([]core.TrendPoint, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT substr(record_date, 1, 7) AS period, SUM(amount_cents)
		 FROM records
		 WHERE user_id = ? AND record_type = ?
		 GROUP BY period`,
		userID, string(t))
	if err != nil {
		return nil, fmt.Errorf("monthly series: %w", err)
	}
	defer rows.Close()

	byPeriod := make(map[core.Period]int64)
	for rows.Next() {
		var (
			period string
			cents  int64
		)
		if err := rows.Scan(&period, &cents); err != nil {
			return nil, fmt.Errorf("scan monthly total: %w", err)
		}
		byPeriod[core.Period(period)] = cents
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate monthly totals: %w", err)
	}

	series := make([]core.TrendPoint, len(periods))
	for i, p := range periods {
		series[i] = core.TrendPoint{Period: p, Value: core.Money{Cents: byPeriod[p]}}
	}

	return series, nil
}

// RefreshMonthlySummary recomputes the materialized rollup for one user and
// period from the records and incomes tables.
func (r *SQLiteRepository) RefreshMonthlySummary(ctx context.Context, userID string, period core.Period) error {
	if !period.Valid() {
		return fmt.Errorf("%w: period %q", core.ErrInvalidDate, period)
	}

	var expenses, savings, investments int64
	rows, err := r.db.QueryContext(ctx,
		`SELECT record_type, SUM(amount_cents)
		 FROM records
		 WHERE user_id = ? AND substr(record_date, 1, 7) = ?
		 GROUP BY record_type`,
		userID, string(period))
	if err != nil {
		return fmt.Errorf("sum records for summary: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			typ   string
			cents int64
		)
		if err := rows.Scan(&typ, &cents); err != nil {
			return fmt.Errorf("scan summary total: %w", err)
		}
		switch core.RecordType(typ) {
		case core.Expense:
			expenses = cents
		case core.Saving:
			savings = cents
		case core.Investment:
			investments = cents
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate summary totals: %w", err)
	}

	income, err := r.GetIncome(ctx, userID, period)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO monthly_summaries
		     (user_id, period, expenses_cents, savings_cents, investments_cents, income_cents, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (user_id, period)
		 DO UPDATE SET
		     expenses_cents = excluded.expenses_cents,
		     savings_cents = excluded.savings_cents,
		     investments_cents = excluded.investments_cents,
		     income_cents = excluded.income_cents,
		     updated_at = CURRENT_TIMESTAMP`,
		userID, string(period), expenses, savings, investments, income.Cents)
	if err != nil {
		return fmt.Errorf("upsert monthly summary: %w", err)
	}

	slog.InfoContext(ctx, "Monthly summary refreshed",
		"user_id", userID,
		"period", period,
		"expenses_cents", expenses,
		"savings_cents", savings,
		"investments_cents", investments)

	return nil
}

// SummariesForUser returns all materialized summaries for a user, oldest
// period first.
// ActiveUsers returns the user ids with the most recently touched records,
// capped by limit. The worker uses it for periodic summary recovery.
func (r *SQLiteRepository) ActiveUsers(ctx context.Context, limit int) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT user_id
		 FROM records
		 GROUP BY user_id
		 ORDER BY MAX(id) DESC
		 LIMIT ?`,
		limit)
	if err != nil {
		return nil, fmt.Errorf("list active users: %w", err)
	}
	defer rows.Close()

	var users []string
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return nil, fmt.Errorf("scan user id: %w", err)
		}
		users = append(users, userID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate active users: %w", err)
	}

	return users, nil
}

func (r *SQLiteRepository) SummariesForUser(ctx context.Context, userID string) ([]core.MonthlySummary, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT period, expenses_cents, savings_cents, investments_cents, income_cents, updated_at
		 FROM monthly_summaries
		 WHERE user_id = ?
		 ORDER BY period`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("list summaries: %w", err)
	}
	defer rows.Close()

	var summaries []core.MonthlySummary
	for rows.Next() {
		var (
			period                                 string
			expenses, savings, investments, income int64
			updatedAt                              time.Time
		)
		if err := rows.Scan(&period, &expenses, &savings, &investments, &income, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		summaries = append(summaries, core.MonthlySummary{
			UserID: userID,
			Period: core.Period(period),
			Totals: core.Totals{
				Expenses:    core.Money{Cents: expenses},
				Savings:     core.Money{Cents: savings},
				Investments: core.Money{Cents: investments},
				Income:      core.Money{Cents: income},
			},
			UpdatedAt: updatedAt,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate summaries: %w", err)
	}

	return summaries, nil
}
