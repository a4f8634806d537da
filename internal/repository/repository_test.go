package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"finledger/internal/core"
	"finledger/internal/log"
	"finledger/internal/storage"
	"finledger/internal/storage/memory"
)

var testNow = time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

func newTestRepos(t *testing.T) *Repositories {
	t.Helper()
	n := 0
	return New(storage.NewAdapter(memory.New(), log.Discard()),
		WithLogger(log.Discard()),
		WithClock(func() time.Time { return testNow }),
		WithIDGenerator(func() string { n++; return fmt.Sprintf("id-%d", n) }),
	)
}

func TestRevenueAddAssignsDefaults(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos(t)

	rev, err := repos.Revenues.Add(ctx, core.Revenue{Name: "Job", Amount: 1000.12345, Type: core.Salary})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if rev.ID != "id-1" || !rev.CreatedAt.Equal(testNow) {
		t.Fatalf("unexpected defaults: %+v", rev)
	}
	if rev.Amount != 1000.123 || rev.RemainingAmount != 1000.123 {
		t.Fatalf("expected normalized amounts, got %+v", rev)
	}

	stored, ok := repos.Revenues.Get(ctx, "id-1")
	if !ok || stored.ID != rev.ID || stored.RemainingAmount != rev.RemainingAmount || !stored.CreatedAt.Equal(rev.CreatedAt) {
		t.Fatalf("Get = %+v, %v", stored, ok)
	}
}

func TestRevenueDeltasAreNormalized(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos(t)
	rev, _ := repos.Revenues.Add(ctx, core.Revenue{Name: "Job", Amount: 100, Type: core.Salary})

	for i := 0; i < 10; i++ {
		if _, _, err := repos.Revenues.DeductFromRevenue(ctx, rev.ID, 0.1); err != nil {
			t.Fatal(err)
		}
	}
	got, _ := repos.Revenues.Get(ctx, rev.ID)
	if got.RemainingAmount != 99 {
		t.Fatalf("RemainingAmount = %v, want 99", got.RemainingAmount)
	}

	if _, ok, err := repos.Revenues.AddToRevenue(ctx, "missing", 5); ok || err != nil {
		t.Fatalf("delta on missing revenue should be a no-op, got ok=%v err=%v", ok, err)
	}
}

func TestRevenueUpdateKeepsRemaining(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos(t)
	rev, _ := repos.Revenues.Add(ctx, core.Revenue{Name: "Job", Amount: 100, Type: core.Salary})
	_, _, _ = repos.Revenues.DeductFromRevenue(ctx, rev.ID, 40)

	rev.Name = "New job"
	rev.RemainingAmount = 999
	if err := repos.Revenues.Update(ctx, rev); err != nil {
		t.Fatal(err)
	}
	got, _ := repos.Revenues.Get(ctx, rev.ID)
	if got.Name != "New job" || got.RemainingAmount != 60 {
		t.Fatalf("unexpected revenue after update: %+v", got)
	}
}

func TestResetRemaining(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos(t)
	a, _ := repos.Revenues.Add(ctx, core.Revenue{Name: "A", Amount: 100, Type: core.Salary})
	b, _ := repos.Revenues.Add(ctx, core.Revenue{Name: "B", Amount: 50, Type: core.Other})
	_, _, _ = repos.Revenues.DeductFromRevenue(ctx, a.ID, 30)
	_, _, _ = repos.Revenues.DeductFromRevenue(ctx, b.ID, 50)

	n, err := repos.Revenues.ResetRemaining(ctx)
	if err != nil || n != 2 {
		t.Fatalf("ResetRemaining = %d, %v", n, err)
	}
	for _, r := range repos.Revenues.GetAll(ctx) {
		if r.RemainingAmount != r.Amount {
			t.Errorf("%s remaining %v, want %v", r.Name, r.RemainingAmount, r.Amount)
		}
	}
}

func TestUpdateAndDeleteUnknownIDAreNoOps(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos(t)
	_, _ = repos.Expenses.Add(ctx, core.Expense{Name: "x", Amount: 1, Category: "food", RevenueSourceID: "r"})

	if err := repos.Expenses.Update(ctx, core.Expense{ID: "ghost", Name: "y", Amount: 2}); err != nil {
		t.Fatalf("Update unknown: %v", err)
	}
	if _, ok, err := repos.Expenses.Delete(ctx, "ghost"); ok || err != nil {
		t.Fatalf("Delete unknown: ok=%v err=%v", ok, err)
	}
	if err := repos.Revenues.Delete(ctx, "ghost"); err != nil {
		t.Fatalf("Delete unknown revenue: %v", err)
	}
	if got := len(repos.Expenses.GetAll(ctx)); got != 1 {
		t.Fatalf("expected collection untouched, got %d expenses", got)
	}
}

func TestExpensesByRevenue(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos(t)
	for i, rev := range []string{"r1", "r2", "r1", "r1"} {
		_, err := repos.Expenses.Add(ctx, core.Expense{Name: fmt.Sprint(i), Amount: 1, Category: "food", RevenueSourceID: rev})
		if err != nil {
			t.Fatal(err)
		}
	}
	if got := len(repos.Expenses.ListByRevenue(ctx, "r1")); got != 3 {
		t.Fatalf("ListByRevenue = %d", got)
	}
	n, err := repos.Expenses.DeleteByRevenue(ctx, "r1")
	if err != nil || n != 3 {
		t.Fatalf("DeleteByRevenue = %d, %v", n, err)
	}
	if got := len(repos.Expenses.GetAll(ctx)); got != 1 {
		t.Fatalf("remaining expenses = %d", got)
	}
	if n, _ := repos.Expenses.DeleteByRevenue(ctx, "r1"); n != 0 {
		t.Fatalf("second DeleteByRevenue = %d", n)
	}
}

func TestTransactionsByGoal(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos(t)
	_, _ = repos.Transactions.Add(ctx, core.SavingsTransaction{GoalID: "g1", Amount: 10, Type: core.Deposit})
	_, _ = repos.Transactions.Add(ctx, core.SavingsTransaction{GoalID: "g2", Amount: 10, Type: core.Deposit})
	tx, _ := repos.Transactions.Add(ctx, core.SavingsTransaction{GoalID: "g1", Amount: 5, Type: core.Withdrawal})

	if got := len(repos.Transactions.ListByGoal(ctx, "g1")); got != 2 {
		t.Fatalf("ListByGoal = %d", got)
	}
	removed, ok, err := repos.Transactions.Delete(ctx, tx.ID)
	if err != nil || !ok || removed.Amount != 5 {
		t.Fatalf("Delete = %+v, %v, %v", removed, ok, err)
	}
	if n, _ := repos.Transactions.DeleteByGoal(ctx, "g1"); n != 1 {
		t.Fatalf("DeleteByGoal = %d", n)
	}
}

func TestGoalDefaults(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos(t)
	g, err := repos.Goals.Add(ctx, core.Goal{Title: "Car", TargetAmount: 500})
	if err != nil {
		t.Fatal(err)
	}
	if g.Status != core.GoalActive {
		t.Fatalf("Status = %q", g.Status)
	}
	ok, err := repos.Goals.Delete(ctx, g.ID)
	if !ok || err != nil {
		t.Fatalf("Delete = %v, %v", ok, err)
	}
}

func TestSavingsLedgerTotal(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos(t)
	_, _ = repos.Savings.Add(ctx, core.Saving{Amount: 100.1, Description: "manual"})
	_, _ = repos.Savings.Add(ctx, core.Saving{Amount: -20.2, Description: "to goal", Type: core.SavingGoal})

	if got := repos.Savings.Total(ctx); got != 79.9 {
		t.Fatalf("Total = %v, want 79.9", got)
	}
	if got := repos.Savings.GetAll(ctx)[0].Type; got != core.SavingManual {
		t.Fatalf("default type = %q", got)
	}
}

func TestDedupeSalaryKeepsLast(t *testing.T) {
	in := []core.Revenue{
		{ID: "a", Type: core.Salary},
		{ID: "b", Type: core.Freelance},
		{ID: "c", Type: core.Salary},
		{ID: "d", Type: core.Other},
	}
	out := DedupeSalary(in)
	if len(out) != 3 || out[0].ID != "b" || out[1].ID != "c" || out[2].ID != "d" {
		t.Fatalf("DedupeSalary = %+v", out)
	}
}

func TestCategories(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos(t)

	if got := repos.Categories.List(ctx); len(got) != 3 {
		t.Fatalf("default categories = %v", got)
	}
	if err := repos.Categories.Add(ctx, " travel "); err != nil {
		t.Fatal(err)
	}
	if err := repos.Categories.Add(ctx, "travel"); err != nil {
		t.Fatal(err)
	}
	if got := repos.Categories.List(ctx); len(got) != 4 || got[3] != "travel" {
		t.Fatalf("categories = %v", got)
	}
	if err := repos.Categories.Remove(ctx, "rent"); !errors.Is(err, ErrFixedCategory) {
		t.Fatalf("expected ErrFixedCategory, got %v", err)
	}
	if err := repos.Categories.Remove(ctx, "travel"); err != nil {
		t.Fatal(err)
	}
	if got := repos.Categories.List(ctx); len(got) != 3 {
		t.Fatalf("categories after remove = %v", got)
	}
	if got := repos.Categories.RevenueCategories(ctx); len(got) != 5 {
		t.Fatalf("revenue categories = %v", got)
	}
}

func TestSettingsDefaultsAndMarkers(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos(t)

	if got := repos.Settings.GetSettings(ctx); got != core.DefaultSettings() {
		t.Fatalf("settings = %+v", got)
	}
	if got := repos.Settings.GetProfile(ctx); got.EffectiveCadence() != core.CadenceMonthly {
		t.Fatalf("profile = %+v", got)
	}
	if err := repos.Settings.SaveProfile(ctx, core.UserProfile{Cadence: "daily"}); !errors.Is(err, core.ErrInvalidCadence) {
		t.Fatalf("expected ErrInvalidCadence, got %v", err)
	}
	if repos.Settings.Marker(ctx, LastProcessedKey("monthly")) != "" {
		t.Fatal("expected empty marker")
	}
	if err := repos.Settings.SetMarker(ctx, LastProcessedKey("monthly"), "2025-03"); err != nil {
		t.Fatal(err)
	}
	if got := repos.Settings.Marker(ctx, "last_processed_monthly"); got != "2025-03" {
		t.Fatalf("marker = %q", got)
	}
	if _, ok := repos.Settings.LastBackupTime(ctx); ok {
		t.Fatal("expected no backup time")
	}
	if err := repos.Settings.SetLastBackupTime(ctx, testNow); err != nil {
		t.Fatal(err)
	}
	if got, ok := repos.Settings.LastBackupTime(ctx); !ok || !got.Equal(testNow) {
		t.Fatalf("LastBackupTime = %v, %v", got, ok)
	}
	if repos.Settings.IsOnboardingComplete(ctx) {
		t.Fatal("onboarding should default to incomplete")
	}
}
