package memory

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"expensetracker/internal/core"
	"expensetracker/internal/data"
)

// Store keeps users, expenses and budgets in process memory. It serves both
// as a data accessor for the web UI and as a backing store for the bundled
// data endpoint.
type Store struct {
	mu      sync.Mutex
	nextID  int64
	items   []core.Expense
	budgets core.Budgets
	users   []core.User
}

func New(budgets core.Budgets, users ...core.User) *Store {
	return &Store{
		nextID:  1,
		budgets: append(core.Budgets(nil), budgets...),
		users:   append([]core.User(nil), users...),
	}
}

// NewDemo returns a store holding the demo user and default budgets.
func NewDemo() *Store {
	return New(core.DefaultBudgets(), core.User{ID: core.NumericID(1), Username: "demo", Password: "demo123"})
}

func (s *Store) ListExpenses(_ context.Context) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Expense{}, s.items...), nil
}

func (s *Store) GetExpense(_ context.Context, id core.ID) (core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return core.Expense{}, notFound("get", id)
	}
	return s.items[i], nil
}

// CreateExpense assigns the next numeric id, or keeps a caller-supplied id
// that is not in use yet.
func (s *Store) CreateExpense(_ context.Context, e core.Expense) (core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.ID.IsZero() {
		for s.indexOf(core.NumericID(s.nextID)) >= 0 {
			s.nextID++
		}
		e.ID = core.NumericID(s.nextID)
		s.nextID++
	} else if s.indexOf(e.ID) >= 0 {
		return core.Expense{}, fmt.Errorf("create expense: duplicate id %s", e.ID)
	} else if n, err := strconv.ParseInt(e.ID.String(), 10, 64); err == nil && n >= s.nextID {
		s.nextID = n + 1
	}
	s.items = append(s.items, e)
	return e, nil
}

func (s *Store) UpdateExpense(_ context.Context, e core.Expense) (core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(e.ID)
	if i < 0 {
		return core.Expense{}, notFound("update", e.ID)
	}
	s.items[i] = e
	return e, nil
}

func (s *Store) DeleteExpense(_ context.Context, id core.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return notFound("delete", id)
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	return nil
}

func (s *Store) GetBudgets(_ context.Context) (core.Budgets, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append(core.Budgets{}, s.budgets...), nil
}

func (s *Store) ReplaceBudgets(_ context.Context, b core.Budgets) (core.Budgets, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.budgets = append(core.Budgets{}, b...)
	return append(core.Budgets{}, s.budgets...), nil
}

func (s *Store) ListUsers(_ context.Context) ([]core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.User{}, s.users...), nil
}

// CreateUser adds u, assigning an id when it has none.
func (s *Store) CreateUser(_ context.Context, u core.User) (core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID.IsZero() {
		u.ID = core.NumericID(int64(len(s.users) + 1))
	}
	s.users = append(s.users, u)
	return u, nil
}

func (s *Store) Close() error { return nil }

// IDs compare by their text so a numeric 3 and a path segment "3" match.
func (s *Store) indexOf(id core.ID) int {
	for i, e := range s.items {
		if e.ID.String() == id.String() {
			return i
		}
	}
	return -1
}

func notFound(op string, id core.ID) error {
	return &data.RemoteError{Resource: "expenses/" + id.String(), Op: op, Status: http.StatusNotFound, Err: data.ErrNotFound}
}
