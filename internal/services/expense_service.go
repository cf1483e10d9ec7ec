package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"expensetracker/internal/amqp"
	"expensetracker/internal/core"
	"expensetracker/internal/metrics"
	"expensetracker/internal/storage"
)

// Publisher hands change events to the message broker.
type Publisher interface {
	Publish(ctx context.Context, ev *amqp.ChangeEvent) error
}

// ExpenseService writes through to the store and announces every successful
// write. Reads go straight to the store.
type ExpenseService struct {
	storage.Store
	publisher Publisher
	logger    *slog.Logger
}

var _ storage.Store = (*ExpenseService)(nil)

// NewExpenseService wraps store. A nil publisher disables events.
func NewExpenseService(store storage.Store, publisher Publisher, logger *slog.Logger) *ExpenseService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExpenseService{Store: store, publisher: publisher, logger: logger}
}

// CreateExpense saves an expense and publishes expense.created.
func (s *ExpenseService) CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	saved, err := s.Store.CreateExpense(ctx, e)
	if err != nil {
		return core.Expense{}, fmt.Errorf("save expense: %w", err)
	}
	s.publish(ctx, amqp.EventExpenseCreated, "expenses/"+saved.ID.String())
	return saved, nil
}

func (s *ExpenseService) UpdateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	saved, err := s.Store.UpdateExpense(ctx, e)
	if err != nil {
		return core.Expense{}, fmt.Errorf("update expense: %w", err)
	}
	s.publish(ctx, amqp.EventExpenseUpdated, "expenses/"+saved.ID.String())
	return saved, nil
}

func (s *ExpenseService) DeleteExpense(ctx context.Context, id core.ID) error {
	if err := s.Store.DeleteExpense(ctx, id); err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	s.publish(ctx, amqp.EventExpenseDeleted, "expenses/"+id.String())
	return nil
}

func (s *ExpenseService) ReplaceBudgets(ctx context.Context, b core.Budgets) (core.Budgets, error) {
	saved, err := s.Store.ReplaceBudgets(ctx, b)
	if err != nil {
		return nil, fmt.Errorf("replace budgets: %w", err)
	}
	s.publish(ctx, amqp.EventBudgetsReplaced, "budgets")
	return saved, nil
}

// publish never fails the write; the record is already stored.
func (s *ExpenseService) publish(ctx context.Context, eventType, resource string) {
	if s.publisher == nil {
		return
	}
	err := s.publisher.Publish(ctx, amqp.NewChangeEvent(eventType, resource))
	metrics.ObserveEvent(eventType, err)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish change event",
			"type", eventType, "resource", resource, "error", err)
	}
}

// Close closes both the store and the publisher.
func (s *ExpenseService) Close() error {
	var errs []error

	if s.Store != nil {
		if err := s.Store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}
	if c, ok := s.publisher.(io.Closer); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close expense service: %w", errors.Join(errs...))
	}
	return nil
}
