// Package seed fills an empty data endpoint store with the demo account,
// default budgets and optionally generated expenses.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"expensetracker/internal/core"
	"expensetracker/internal/storage"
)

// Demo credentials documented on the login page.
const (
	DemoUsername = "demo"
	DemoPassword = "demo123"
)

type Options struct {
	// Demo adds the demo user and default budgets when those are empty.
	Demo bool
	// FakeExpenses is the number of generated expenses to add.
	FakeExpenses int
	// Seed makes generated data reproducible; zero picks a random seed.
	Seed int64
	// Now anchors generated dates; zero means time.Now.
	Now time.Time
}

// titles per category keep generated data plausible on the dashboard.
var titles = map[core.Category][]string{
	core.Food:           {"Groceries", "Lunch", "Dinner out", "Coffee", "Bakery"},
	core.Utilities:      {"Electricity bill", "Water bill", "Internet", "Mobile recharge", "Gas cylinder"},
	core.Entertainment:  {"Movie tickets", "Concert", "Streaming subscription", "Board game"},
	core.Transportation: {"Metro card", "Taxi", "Fuel", "Bus pass", "Parking"},
	core.Shopping:       {"Shoes", "T-shirt", "Headphones", "Backpack"},
	core.Healthcare:     {"Pharmacy", "Doctor visit", "Lab test", "Dental checkup"},
	core.Education:      {"Online course", "Books", "Workshop", "Exam fee"},
}

// Run seeds store. It never overwrites existing users or budgets.
func Run(ctx context.Context, store storage.Store, opts Options, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	if opts.Demo {
		if err := seedDemoUser(ctx, store, logger); err != nil {
			return err
		}
		if err := seedBudgets(ctx, store, logger); err != nil {
			return err
		}
	}

	if opts.FakeExpenses > 0 {
		now := opts.Now
		if now.IsZero() {
			now = time.Now()
		}
		expenses := FakeExpenses(gofakeit.New(opts.Seed), opts.FakeExpenses, now)
		for _, e := range expenses {
			if _, err := store.CreateExpense(ctx, e); err != nil {
				return fmt.Errorf("seed expense %q: %w", e.Title, err)
			}
		}
		logger.InfoContext(ctx, "Seeded fake expenses", "count", len(expenses))
	}
	return nil
}

func seedDemoUser(ctx context.Context, store storage.Store, logger *slog.Logger) error {
	users, err := store.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}
	if len(users) > 0 {
		return nil
	}
	if _, err := store.CreateUser(ctx, core.User{Username: DemoUsername, Password: DemoPassword}); err != nil {
		return fmt.Errorf("create demo user: %w", err)
	}
	logger.InfoContext(ctx, "Seeded demo user", "username", DemoUsername)
	return nil
}

func seedBudgets(ctx context.Context, store storage.Store, logger *slog.Logger) error {
	budgets, err := store.GetBudgets(ctx)
	if err != nil {
		return fmt.Errorf("get budgets: %w", err)
	}
	if len(budgets) > 0 {
		return nil
	}
	if _, err := store.ReplaceBudgets(ctx, core.DefaultBudgets()); err != nil {
		return fmt.Errorf("seed budgets: %w", err)
	}
	logger.InfoContext(ctx, "Seeded default budgets", "categories", len(core.Categories()))
	return nil
}

// FakeExpenses generates n expenses dated within the 90 days before now,
// oldest first. Amounts range from ₹10 to ₹5,000 in whole rupees.
func FakeExpenses(f *gofakeit.Faker, n int, now time.Time) []core.Expense {
	cats := core.Categories()
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	start := end.AddDate(0, 0, -90)

	out := make([]core.Expense, 0, n)
	for i := 0; i < n; i++ {
		cat := cats[f.Number(0, len(cats)-1)]
		opts := titles[cat]
		day := f.DateRange(start, end)
		out = append(out, core.Expense{
			Title:    opts[f.Number(0, len(opts)-1)],
			Amount:   core.Money{Cents: int64(f.Number(10, 5000)) * 100},
			Category: cat,
			Date:     core.NewDate(day.Year(), int(day.Month()), day.Day()),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date.Time) })
	return out
}
