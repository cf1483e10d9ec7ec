// Package storage holds the durable stores behind the bundled data
// endpoint: SQLite with embedded migrations and Postgres through pgxpool.
package storage

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"expensetracker/internal/core"
	"expensetracker/internal/data"
)

// Store is what the data endpoint serves from.
type Store interface {
	data.Accessor
	GetExpense(ctx context.Context, id core.ID) (core.Expense, error)
	CreateUser(ctx context.Context, u core.User) (core.User, error)
	Close() error
}

func notFound(op string, id core.ID) error {
	return &data.RemoteError{Resource: "expenses/" + id.String(), Op: op, Status: http.StatusNotFound, Err: data.ErrNotFound}
}

// scanID rebuilds an id in the form it was written.
func scanID(value string, numeric bool) core.ID {
	if numeric {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return core.NumericID(n)
		}
	}
	return core.NewID(value)
}

func scanDate(value string) (core.Date, error) {
	d, err := core.ParseDate(value)
	if err != nil {
		return core.Date{}, fmt.Errorf("stored date %q: %w", value, err)
	}
	return d, nil
}
