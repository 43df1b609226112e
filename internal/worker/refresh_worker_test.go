package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"dinamifin/internal/amqp"
	"dinamifin/internal/core"
	"dinamifin/internal/storage/memory"
)

type fakeExporter struct {
	exported map[string]int
	fail     bool
}

func (e *fakeExporter) ExportSummaries(_ context.Context, userID string, summaries []core.MonthlySummary) error {
	if e.fail {
		return errors.New("sheets unavailable")
	}
	if e.exported == nil {
		e.exported = make(map[string]int)
	}
	e.exported[userID] = len(summaries)
	return nil
}

func seed(t *testing.T, store *memory.Store, userID string, rt core.RecordType, cents int64, category, date string) {
	t.Helper()
	d, err := core.ParseDate(date)
	if err != nil {
		t.Fatalf("ParseDate(%q): %v", date, err)
	}
	rec := core.Record{
		ID:       core.RecordID(rt, d),
		Type:     rt,
		Amount:   core.Money{Cents: cents},
		Category: category,
		Date:     d,
	}
	if err := store.CreateRecord(context.Background(), userID, rec); err != nil {
		t.Fatalf("CreateRecord: %v", err)
	}
}

func TestRefreshWorker_HandleChangeMessage(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	exporter := &fakeExporter{}
	w := NewRefreshWorker(store, exporter)

	seed(t, store, "u1", core.Expense, 50000, "housing", "2024-06-05")
	if err := store.UpsertIncome(ctx, "u1", "2024-06", core.Money{Cents: 100000}); err != nil {
		t.Fatalf("UpsertIncome: %v", err)
	}

	msg := amqp.NewRecordChangeMessage("u1", "expense", "2024-06")
	if err := w.HandleChangeMessage(ctx, msg); err != nil {
		t.Fatalf("HandleChangeMessage: %v", err)
	}

	summaries, err := store.SummariesForUser(ctx, "u1")
	if err != nil {
		t.Fatalf("SummariesForUser: %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("got %d summaries, want 1", len(summaries))
	}
	if summaries[0].Totals.Expenses.Cents != 50000 || summaries[0].Totals.Income.Cents != 100000 {
		t.Errorf("summary totals = %+v", summaries[0].Totals)
	}

	if exporter.exported["u1"] != 1 {
		t.Errorf("exporter saw %d summaries for u1, want 1", exporter.exported["u1"])
	}
}

func TestRefreshWorker_MalformedPeriodIsDropped(t *testing.T) {
	w := NewRefreshWorker(memory.New(), nil)

	msg := amqp.NewRecordChangeMessage("u1", "expense", "June 2024")
	if err := w.HandleChangeMessage(context.Background(), msg); err != nil {
		t.Errorf("malformed period should be dropped without error, got %v", err)
	}
}

func TestRefreshWorker_ExportFailureIsNotFatal(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	w := NewRefreshWorker(store, &fakeExporter{fail: true})

	seed(t, store, "u1", core.Saving, 15000, "retirement", "2024-06-10")

	msg := amqp.NewRecordChangeMessage("u1", "saving", "2024-06")
	if err := w.HandleChangeMessage(ctx, msg); err != nil {
		t.Fatalf("export failure should not fail the refresh, got %v", err)
	}

	summaries, _ := store.SummariesForUser(ctx, "u1")
	if len(summaries) != 1 {
		t.Errorf("summary not persisted despite export failure")
	}
}

func TestRefreshWorker_RefreshWindow(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	w := NewRefreshWorker(store, nil)

	seed(t, store, "u1", core.Expense, 10000, "food", "2024-05-10")
	seed(t, store, "u1", core.Expense, 20000, "food", "2024-06-10")

	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	if err := w.RefreshWindow(ctx, "u1", core.Window6Months, now); err != nil {
		t.Fatalf("RefreshWindow: %v", err)
	}

	summaries, err := store.SummariesForUser(ctx, "u1")
	if err != nil {
		t.Fatalf("SummariesForUser: %v", err)
	}
	if len(summaries) != 6 {
		t.Fatalf("got %d summaries, want 6 (one per window month)", len(summaries))
	}
	if summaries[4].Totals.Expenses.Cents != 10000 || summaries[5].Totals.Expenses.Cents != 20000 {
		t.Errorf("summaries = %+v", summaries)
	}
}
