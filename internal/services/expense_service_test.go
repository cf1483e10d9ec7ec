package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"expensetracker/internal/amqp"
	"expensetracker/internal/core"
	"expensetracker/internal/data"
	"expensetracker/internal/data/memory"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []*amqp.ChangeEvent
	err    error
	closed bool
}

func (p *recordingPublisher) Publish(_ context.Context, ev *amqp.ChangeEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func (p *recordingPublisher) Close() error {
	p.closed = true
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, ev := range p.events {
		out[i] = ev.Type + " " + ev.Resource
	}
	return out
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestExpenseService_PublishesAfterWrites(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{}
	svc := NewExpenseService(memory.NewDemo(), pub, quietLogger())

	e, err := svc.CreateExpense(ctx, core.Expense{Title: "Lunch", Amount: core.Money{Cents: 1200},
		Category: core.Food, Date: core.NewDate(2024, 3, 1)})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	e.Title = "Dinner"
	if _, err := svc.UpdateExpense(ctx, e); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := svc.DeleteExpense(ctx, e.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.ReplaceBudgets(ctx, core.DefaultBudgets()); err != nil {
		t.Fatalf("replace: %v", err)
	}

	want := []string{
		"expense.created expenses/1",
		"expense.updated expenses/1",
		"expense.deleted expenses/1",
		"budgets.replaced budgets",
	}
	got := pub.types()
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestExpenseService_FailedWritePublishesNothing(t *testing.T) {
	pub := &recordingPublisher{}
	svc := NewExpenseService(memory.NewDemo(), pub, quietLogger())

	err := svc.DeleteExpense(context.Background(), core.NumericID(42))
	if !errors.Is(err, data.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if len(pub.types()) != 0 {
		t.Errorf("events = %v, want none", pub.types())
	}
}

func TestExpenseService_PublishErrorDoesNotFailWrite(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	store := memory.NewDemo()
	svc := NewExpenseService(store, pub, quietLogger())

	if _, err := svc.CreateExpense(context.Background(), core.Expense{Title: "Taxi", Amount: core.Money{Cents: 900},
		Category: core.Transportation, Date: core.NewDate(2024, 3, 2)}); err != nil {
		t.Fatalf("create should succeed when publishing fails: %v", err)
	}
	list, _ := store.ListExpenses(context.Background())
	if len(list) != 1 {
		t.Errorf("stored %d expenses, want 1", len(list))
	}
}

func TestExpenseService_Close(t *testing.T) {
	t.Run("nil publisher", func(t *testing.T) {
		svc := NewExpenseService(memory.NewDemo(), nil, nil)
		if _, err := svc.CreateExpense(context.Background(), core.Expense{Title: "A", Amount: core.Money{Cents: 1},
			Category: core.Food, Date: core.NewDate(2024, 1, 1)}); err != nil {
			t.Fatalf("create: %v", err)
		}
		if err := svc.Close(); err != nil {
			t.Fatalf("Close should not return error: %v", err)
		}
	})

	t.Run("closes publisher", func(t *testing.T) {
		pub := &recordingPublisher{}
		svc := NewExpenseService(memory.NewDemo(), pub, quietLogger())
		if err := svc.Close(); err != nil {
			t.Fatalf("Close: %v", err)
		}
		if !pub.closed {
			t.Error("publisher should be closed")
		}
	})
}
