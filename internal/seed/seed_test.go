package seed

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"expensetracker/internal/core"
	"expensetracker/internal/data/memory"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunSeedsEmptyStore(t *testing.T) {
	ctx := context.Background()
	store := memory.New(nil)

	if err := Run(ctx, store, Options{Demo: true, FakeExpenses: 12, Seed: 7}, quietLogger()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	users, _ := store.ListUsers(ctx)
	if len(users) != 1 || !users[0].Matches(DemoUsername, DemoPassword) {
		t.Errorf("users = %+v, want the demo user", users)
	}

	budgets, _ := store.GetBudgets(ctx)
	if len(budgets) != len(core.Categories()) {
		t.Errorf("budgets = %d entries, want %d", len(budgets), len(core.Categories()))
	}

	expenses, _ := store.ListExpenses(ctx)
	if len(expenses) != 12 {
		t.Errorf("expenses = %d, want 12", len(expenses))
	}
}

func TestRunKeepsExistingData(t *testing.T) {
	ctx := context.Background()
	custom := core.Budgets{{Category: core.Food, Limit: core.Money{Cents: 100}}}
	store := memory.New(custom, core.User{ID: core.NumericID(9), Username: "alice", Password: "pw"})

	if err := Run(ctx, store, Options{Demo: true}, quietLogger()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	users, _ := store.ListUsers(ctx)
	if len(users) != 1 || users[0].Username != "alice" {
		t.Errorf("users = %+v, want only alice", users)
	}
	budgets, _ := store.GetBudgets(ctx)
	if len(budgets) != 1 || budgets[0].Limit.Cents != 100 {
		t.Errorf("budgets = %+v, want the custom budget", budgets)
	}
}

func TestRunWithoutDemo(t *testing.T) {
	ctx := context.Background()
	store := memory.New(nil)

	if err := Run(ctx, store, Options{}, nil); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	users, _ := store.ListUsers(ctx)
	budgets, _ := store.GetBudgets(ctx)
	if len(users) != 0 || len(budgets) != 0 {
		t.Errorf("store should stay empty, got %d users and %d budgets", len(users), len(budgets))
	}
}

func TestFakeExpenses(t *testing.T) {
	now := time.Date(2024, 6, 15, 18, 30, 0, 0, time.UTC)
	oldest := core.NewDate(2024, 3, 17)
	newest := core.NewDate(2024, 6, 15)

	got := FakeExpenses(gofakeit.New(42), 50, now)
	if len(got) != 50 {
		t.Fatalf("len = %d, want 50", len(got))
	}

	for i, e := range got {
		if err := e.Validate(); err != nil {
			t.Errorf("expense %d invalid: %v", i, err)
		}
		if !slices.Contains(core.Categories(), e.Category) {
			t.Errorf("expense %d has unknown category %q", i, e.Category)
		}
		if e.Amount.Cents < 1000 || e.Amount.Cents > 500000 || e.Amount.Cents%100 != 0 {
			t.Errorf("expense %d amount = %d cents", i, e.Amount.Cents)
		}
		if e.Date.Before(oldest.Time) || e.Date.After(newest.Time) {
			t.Errorf("expense %d date %s outside range", i, e.Date)
		}
		if i > 0 && e.Date.Before(got[i-1].Date.Time) {
			t.Errorf("expense %d is older than expense %d", i, i-1)
		}
	}

	again := FakeExpenses(gofakeit.New(42), 50, now)
	for i := range got {
		if got[i] != again[i] {
			t.Fatalf("same seed produced different expense %d: %+v vs %+v", i, got[i], again[i])
		}
	}
}
