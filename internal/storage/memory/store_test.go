package memory

import (
	"context"
	"errors"
	"testing"

	"dinamifin/internal/core"
)

func mustCreate(t *testing.T, s *Store, userID string, rt core.RecordType, cents int64, category, date string) {
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
	if err := s.CreateRecord(context.Background(), userID, rec); err != nil {
		t.Fatalf("CreateRecord: %v", err)
	}
}

func TestStore_RecordLifecycle(t *testing.T) {
	ctx := context.Background()
	s := New()

	mustCreate(t, s, "u1", core.Expense, 50000, "housing", "2024-06-05")
	mustCreate(t, s, "u1", core.Expense, 30000, "food", "2024-06-10")
	mustCreate(t, s, "u1", core.Saving, 15000, "emergency fund", "2024-06-15")
	mustCreate(t, s, "u2", core.Expense, 999, "other", "2024-06-05")

	records, err := s.ListRecords(ctx, "u1", core.Expense)
	if err != nil {
		t.Fatalf("ListRecords: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("ListRecords returned %d records, want 2", len(records))
	}
	if records[0].Category != "housing" || records[1].Category != "food" {
		t.Errorf("records not in date order: %v", records)
	}

	d, _ := core.ParseDate("2024-06-05")
	if err := s.UpdateRecord(ctx, "u1", core.Expense, d, core.Money{Cents: 60000}, "housing"); err != nil {
		t.Fatalf("UpdateRecord: %v", err)
	}
	records, _ = s.ListRecords(ctx, "u1", core.Expense)
	if records[0].Amount.Cents != 60000 {
		t.Errorf("updated amount = %d, want 60000", records[0].Amount.Cents)
	}

	if err := s.DeleteRecord(ctx, "u1", core.Expense, d); err != nil {
		t.Fatalf("DeleteRecord: %v", err)
	}
	records, _ = s.ListRecords(ctx, "u1", core.Expense)
	if len(records) != 1 {
		t.Fatalf("after delete %d records remain, want 1", len(records))
	}

	if err := s.DeleteRecord(ctx, "u1", core.Expense, d); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("DeleteRecord on missing key = %v, want ErrNotFound", err)
	}
	if err := s.UpdateRecord(ctx, "u1", core.Expense, d, core.Money{Cents: 100}, "food"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("UpdateRecord on missing key = %v, want ErrNotFound", err)
	}
}

func TestStore_NaturalKeyPrefersLatest(t *testing.T) {
	ctx := context.Background()
	s := New()

	// Two records share the same (user, type, date) key
	mustCreate(t, s, "u1", core.Expense, 10000, "food", "2024-06-05")
	mustCreate(t, s, "u1", core.Expense, 20000, "transport", "2024-06-05")

	d, _ := core.ParseDate("2024-06-05")
	if err := s.UpdateRecord(ctx, "u1", core.Expense, d, core.Money{Cents: 25000}, "transport"); err != nil {
		t.Fatalf("UpdateRecord: %v", err)
	}

	records, _ := s.ListRecords(ctx, "u1", core.Expense)
	var food, transport int64
	for _, r := range records {
		switch r.Category {
		case "food":
			food = r.Amount.Cents
		case "transport":
			transport = r.Amount.Cents
		}
	}
	if food != 10000 {
		t.Errorf("older record was touched: food = %d, want 10000", food)
	}
	if transport != 25000 {
		t.Errorf("newest record not updated: transport = %d, want 25000", transport)
	}

	if err := s.DeleteRecord(ctx, "u1", core.Expense, d); err != nil {
		t.Fatalf("DeleteRecord: %v", err)
	}
	records, _ = s.ListRecords(ctx, "u1", core.Expense)
	if len(records) != 1 || records[0].Category != "food" {
		t.Errorf("delete removed the wrong record: %v", records)
	}
}

func TestStore_IncomeAndGoals(t *testing.T) {
	ctx := context.Background()
	s := New()

	if err := s.UpsertIncome(ctx, "u1", "2024-06", core.Money{Cents: 100000}); err != nil {
		t.Fatalf("UpsertIncome: %v", err)
	}
	if err := s.UpsertIncome(ctx, "u1", "2024-06", core.Money{Cents: 120000}); err != nil {
		t.Fatalf("UpsertIncome overwrite: %v", err)
	}

	income, err := s.GetIncome(ctx, "u1", "2024-06")
	if err != nil {
		t.Fatalf("GetIncome: %v", err)
	}
	if income.Cents != 120000 {
		t.Errorf("GetIncome = %d, want 120000 after overwrite", income.Cents)
	}

	income, _ = s.GetIncome(ctx, "u1", "2024-05")
	if income.Cents != 0 {
		t.Errorf("GetIncome for unset period = %d, want 0", income.Cents)
	}

	if err := s.UpsertGoal(ctx, "u1", core.Saving, "2024-05", 15); err != nil {
		t.Fatalf("UpsertGoal: %v", err)
	}
	if err := s.UpsertGoal(ctx, "u1", core.Saving, "2024-06", 20); err != nil {
		t.Fatalf("UpsertGoal: %v", err)
	}

	history, err := s.GoalHistory(ctx, "u1", core.Saving)
	if err != nil {
		t.Fatalf("GoalHistory: %v", err)
	}
	if len(history) != 2 || history[0].Period != "2024-05" || history[1].Percent != 20 {
		t.Errorf("GoalHistory = %v, want two goals in period order", history)
	}

	if err := s.UpsertGoal(ctx, "u1", "loan", "2024-06", 20); !errors.Is(err, core.ErrUnknownRecordType) {
		t.Errorf("UpsertGoal with unknown type = %v, want ErrUnknownRecordType", err)
	}
	if err := s.UpsertGoal(ctx, "u1", core.Saving, "2024-06", -5); !errors.Is(err, core.ErrInvalidAmount) {
		t.Errorf("UpsertGoal with negative percent = %v, want ErrInvalidAmount", err)
	}
}

func TestStore_MonthlySeriesZeroFilled(t *testing.T) {
	ctx := context.Background()
	s := New()

	mustCreate(t, s, "u1", core.Expense, 10000, "food", "2024-04-10")
	mustCreate(t, s, "u1", core.Expense, 5000, "food", "2024-06-01")
	mustCreate(t, s, "u1", core.Expense, 7000, "transport", "2024-06-20")

	periods := []core.Period{"2024-04", "2024-05", "2024-06"}
	series, err := s.MonthlySeries(ctx, "u1", core.Expense, periods)
	if err != nil {
		t.Fatalf("MonthlySeries: %v", err)
	}

	want := []int64{10000, 0, 12000}
	for i, point := range series {
		if point.Period != periods[i] {
			t.Errorf("series[%d].Period = %s, want %s", i, point.Period, periods[i])
		}
		if point.Value.Cents != want[i] {
			t.Errorf("series[%d].Value = %d, want %d", i, point.Value.Cents, want[i])
		}
	}
}

func TestStore_RefreshMonthlySummary(t *testing.T) {
	ctx := context.Background()
	s := New()

	mustCreate(t, s, "u1", core.Expense, 50000, "housing", "2024-06-05")
	mustCreate(t, s, "u1", core.Saving, 15000, "retirement", "2024-06-10")
	mustCreate(t, s, "u1", core.Investment, 20000, "stocks", "2024-06-15")
	mustCreate(t, s, "u1", core.Expense, 1000, "food", "2024-05-01")
	if err := s.UpsertIncome(ctx, "u1", "2024-06", core.Money{Cents: 100000}); err != nil {
		t.Fatalf("UpsertIncome: %v", err)
	}

	if err := s.RefreshMonthlySummary(ctx, "u1", "2024-06"); err != nil {
		t.Fatalf("RefreshMonthlySummary: %v", err)
	}

	summaries, err := s.SummariesForUser(ctx, "u1")
	if err != nil {
		t.Fatalf("SummariesForUser: %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("got %d summaries, want 1", len(summaries))
	}

	got := summaries[0].Totals
	if got.Expenses.Cents != 50000 || got.Savings.Cents != 15000 ||
		got.Investments.Cents != 20000 || got.Income.Cents != 100000 {
		t.Errorf("summary totals = %+v", got)
	}
}
