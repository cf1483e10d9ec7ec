// Package data holds the ports through which views reach the remote data
// endpoint, plus the error type every adapter reports failures with.
package data

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"expensetracker/internal/core"

	"golang.org/x/sync/errgroup"
)

// Ports for outbound adapters.
type (
	ExpenseStore interface {
		// ListExpenses returns every expense in backend insertion order.
		ListExpenses(ctx context.Context) ([]core.Expense, error)
		// CreateExpense sends e without an id and returns the stored record.
		CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error)
		// UpdateExpense replaces the record with e.ID.
		UpdateExpense(ctx context.Context, e core.Expense) (core.Expense, error)
		DeleteExpense(ctx context.Context, id core.ID) error
	}

	BudgetStore interface {
		GetBudgets(ctx context.Context) (core.Budgets, error)
		// ReplaceBudgets overwrites the whole mapping.
		ReplaceBudgets(ctx context.Context, b core.Budgets) (core.Budgets, error)
	}

	UserLister interface {
		ListUsers(ctx context.Context) ([]core.User, error)
	}

	// Accessor is everything the views need from the data endpoint.
	Accessor interface {
		ExpenseStore
		BudgetStore
		UserLister
	}
)

// ErrNotFound is matched by errors.Is for missing records.
var ErrNotFound = errors.New("not found")

// RemoteError describes a failed call to the data endpoint. Status is zero
// when no response was received.
type RemoteError struct {
	Resource string
	Op       string
	Status   int
	Err      error
}

func (e *RemoteError) Error() string {
	switch {
	case e.Status != 0 && e.Err != nil:
		return fmt.Sprintf("%s %s: status %d: %v", e.Op, e.Resource, e.Status, e.Err)
	case e.Status != 0:
		return fmt.Sprintf("%s %s: status %d", e.Op, e.Resource, e.Status)
	default:
		return fmt.Sprintf("%s %s: %v", e.Op, e.Resource, e.Err)
	}
}

func (e *RemoteError) Unwrap() error { return e.Err }

func (e *RemoteError) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

// FetchBudgetsAndExpenses loads both collections concurrently. Both calls
// must succeed before either result is used.
func FetchBudgetsAndExpenses(ctx context.Context, b BudgetStore, e ExpenseStore) (core.Budgets, []core.Expense, error) {
	var (
		budgets  core.Budgets
		expenses []core.Expense
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		budgets, err = b.GetBudgets(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		expenses, err = e.ListExpenses(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return budgets, expenses, nil
}
