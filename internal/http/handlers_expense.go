package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"expensetracker/internal/core"
	"expensetracker/internal/data"
	applog "expensetracker/internal/log"
	"expensetracker/internal/session"
)

type expenseTableView struct {
	Search   string
	Expenses []core.Expense
}

type expenseFormView struct {
	Editing    bool
	Expense    core.Expense
	Amount     string
	Categories []core.Category
}

// handleExpensesPage renders the list page with an empty search.
func (s *Server) handleExpensesPage(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.remoteContext(r)
	defer cancel()

	expenses, err := s.store.ListExpenses(ctx)
	if err != nil {
		applog.LogError(r.Context(), "Failed to list expenses", err, applog.ComponentExpense, applog.OpList, nil)
		s.state.Notify(session.Error, "Error fetching expenses")
	}
	s.render(w, r, pageExpenses, "Expenses", expenseTableView{Expenses: expenses})
}

// handleExpenseTable re-renders the table, filtered by the search box.
func (s *Server) handleExpenseTable(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.remoteContext(r)
	defer cancel()

	search := sanitizeInput(r.URL.Query().Get("search"))
	b := NewHTMXResponse()
	expenses, err := s.store.ListExpenses(ctx)
	if err != nil {
		applog.LogError(r.Context(), "Failed to list expenses", err, applog.ComponentExpense, applog.OpList, nil)
		b.TriggerErrorNotification("Error fetching expenses")
	}
	s.renderPartial(r, b, "expense_table", expenseTableView{
		Search:   search,
		Expenses: core.Search(expenses, search),
	}).Write(w)
}

// handleExpenseForm renders the add form, or the edit form prefilled from
// the current list when the route carries an id.
func (s *Server) handleExpenseForm(w http.ResponseWriter, r *http.Request) {
	view := expenseFormView{Categories: core.Categories()}

	if id := chi.URLParam(r, "id"); id != "" {
		ctx, cancel := s.remoteContext(r)
		defer cancel()

		expenses, err := s.store.ListExpenses(ctx)
		if err != nil {
			applog.LogError(r.Context(), "Failed to list expenses", err, applog.ComponentExpense, applog.OpList, nil)
			NewHTMXResponse().Status(http.StatusBadGateway).NoSwap().
				TriggerErrorNotification("Error fetching expenses").Write(w)
			return
		}
		found := false
		for _, e := range expenses {
			if e.ID.String() == id {
				view.Editing, view.Expense, view.Amount, found = true, e, e.Amount.Raw(), true
				break
			}
		}
		if !found {
			NewHTMXResponse().Status(http.StatusNotFound).NoSwap().
				TriggerErrorNotification("Error fetching expenses").Write(w)
			return
		}
	}

	s.renderPartial(r, NewHTMXResponse(), "expense_form", view).Write(w)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	s.saveExpense(w, r, core.ID{})
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	s.saveExpense(w, r, core.ParseID(chi.URLParam(r, "id")))
}

// saveExpense creates the expense when id is zero and replaces it otherwise,
// then re-fetches the list and returns the refreshed table.
func (s *Server) saveExpense(w http.ResponseWriter, r *http.Request, id core.ID) {
	op, okMsg := applog.OpCreate, "Expense added successfully"
	if !id.IsZero() {
		op, okMsg = applog.OpUpdate, "Expense updated successfully"
	}

	p := NewRequestBodyParser(w, r)
	e, err := ParseExpenseForm(p)
	if err != nil {
		s.logger.WithComponent(applog.ComponentExpense).WarnContext(r.Context(), "Invalid expense form",
			"error", err, applog.FieldOperation, op)
		NewHTMXResponse().Status(formStatus(err)).NoSwap().
			TriggerErrorNotification("Error saving expense").Write(w)
		return
	}
	e.ID = id

	ctx, cancel := s.remoteContext(r)
	defer cancel()

	fields := applog.NewFields().WithExpense(id.String(), e.Title, e.Amount.Cents, e.Category.String())
	if id.IsZero() {
		e, err = s.store.CreateExpense(ctx, e)
	} else {
		e, err = s.store.UpdateExpense(ctx, e)
	}
	if err != nil {
		applog.LogError(r.Context(), "Failed to save expense", err, applog.ComponentExpense, op, fields)
		NewHTMXResponse().Status(remoteStatus(err)).NoSwap().
			TriggerErrorNotification("Error saving expense").Write(w)
		return
	}

	s.logger.WithComponent(applog.ComponentExpense).InfoContext(r.Context(), "Expense saved",
		applog.FieldOperation, op, applog.FieldExpenseID, e.ID.String(), applog.FieldAmount, e.Amount.Cents)

	s.respondWithTable(w, r, p.Get("search"), op, okMsg)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id := core.ParseID(chi.URLParam(r, "id"))

	ctx, cancel := s.remoteContext(r)
	defer cancel()

	if err := s.store.DeleteExpense(ctx, id); err != nil {
		applog.LogError(r.Context(), "Failed to delete expense", err, applog.ComponentExpense, applog.OpDelete,
			applog.NewFields().WithExpense(id.String(), "", 0, ""))
		NewHTMXResponse().Status(remoteStatus(err)).NoSwap().
			TriggerErrorNotification("Error deleting expense").Write(w)
		return
	}

	s.respondWithTable(w, r, r.URL.Query().Get("search"), applog.OpDelete, "Expense deleted successfully")
}

// respondWithTable answers a successful write with a fresh copy of the
// table. If the re-fetch fails the table is left in place and told to
// reload itself through the change event.
func (s *Server) respondWithTable(w http.ResponseWriter, r *http.Request, search, op, okMsg string) {
	ctx, cancel := s.remoteContext(r)
	defer cancel()

	b := NewHTMXResponse().
		TriggerFormReset().
		TriggerSuccessNotification(okMsg)

	expenses, err := s.store.ListExpenses(ctx)
	if err != nil {
		applog.LogError(r.Context(), "Failed to re-fetch expenses", err, applog.ComponentExpense, applog.OpList, nil)
		b.TriggerExpenseChanged(op).NoSwap().Write(w)
		return
	}
	search = sanitizeInput(search)
	s.renderPartial(r, b, "expense_table", expenseTableView{
		Search:   search,
		Expenses: core.Search(expenses, search),
	}).Write(w)
}

// remoteStatus maps a data endpoint failure onto the response status.
func remoteStatus(err error) int {
	if errors.Is(err, data.ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusBadGateway
}
