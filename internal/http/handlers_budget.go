package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"expensetracker/internal/core"
	"expensetracker/internal/data"
	applog "expensetracker/internal/log"
	"expensetracker/internal/session"
)

type budgetPanelView struct {
	Rows  []core.BudgetSpend
	Chart chartData
}

type budgetRowView struct {
	core.BudgetSpend
	Editing bool
	Value   string
}

func newBudgetPanel(budgets core.Budgets, expenses []core.Expense) budgetPanelView {
	return budgetPanelView{
		Rows:  core.SpentPerBudget(budgets, expenses),
		Chart: budgetChart(budgets),
	}
}

func (s *Server) handleBudgetPage(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.remoteContext(r)
	defer cancel()

	budgets, expenses, err := data.FetchBudgetsAndExpenses(ctx, s.store, s.store)
	if err != nil {
		applog.LogError(r.Context(), "Failed to load budget data", err, applog.ComponentBudget, applog.OpRead, nil)
		s.state.Notify(session.Error, "Error fetching data")
	}
	s.render(w, r, pageBudget, "Budget", newBudgetPanel(budgets, expenses))
}

func (s *Server) handleBudgetEdit(w http.ResponseWriter, r *http.Request) {
	s.budgetRow(w, r, true)
}

func (s *Server) handleBudgetRow(w http.ResponseWriter, r *http.Request) {
	s.budgetRow(w, r, false)
}

// budgetRow renders one category either read-only or as the inline editor
// prefilled with the current ceiling.
func (s *Server) budgetRow(w http.ResponseWriter, r *http.Request, editing bool) {
	category := core.Category(chi.URLParam(r, "category"))

	ctx, cancel := s.remoteContext(r)
	defer cancel()

	budgets, expenses, err := data.FetchBudgetsAndExpenses(ctx, s.store, s.store)
	if err != nil {
		applog.LogError(r.Context(), "Failed to load budget data", err, applog.ComponentBudget, applog.OpRead,
			applog.NewFields().WithCategory(category.String()))
		NewHTMXResponse().Status(http.StatusBadGateway).NoSwap().
			TriggerErrorNotification("Error fetching data").Write(w)
		return
	}

	for _, row := range core.SpentPerBudget(budgets, expenses) {
		if row.Category == category {
			s.renderPartial(r, NewHTMXResponse(), "budget_row", budgetRowView{
				BudgetSpend: row,
				Editing:     editing,
				Value:       row.Budget.Raw(),
			}).Write(w)
			return
		}
	}
	NewHTMXResponse().Status(http.StatusNotFound).NoSwap().
		TriggerErrorNotification("Error fetching data").Write(w)
}

// handleUpdateBudget replaces one ceiling in the current map and writes the
// whole map back. Concurrent editors may overwrite each other.
func (s *Server) handleUpdateBudget(w http.ResponseWriter, r *http.Request) {
	category, limit, err := ParseBudgetForm(NewRequestBodyParser(w, r))
	if err != nil {
		s.logger.WithComponent(applog.ComponentBudget).WarnContext(r.Context(), "Invalid budget form",
			"error", err, applog.FieldOperation, applog.OpUpdate)
		NewHTMXResponse().Status(formStatus(err)).NoSwap().
			TriggerErrorNotification("Error updating budget").Write(w)
		return
	}

	ctx, cancel := s.remoteContext(r)
	defer cancel()

	fields := applog.NewFields().WithCategory(category.String())
	budgets, expenses, err := data.FetchBudgetsAndExpenses(ctx, s.store, s.store)
	if err != nil {
		applog.LogError(r.Context(), "Failed to load budget data", err, applog.ComponentBudget, applog.OpRead, fields)
		NewHTMXResponse().Status(remoteStatus(err)).NoSwap().
			TriggerErrorNotification("Error updating budget").Write(w)
		return
	}

	updated := budgets.Set(category, limit)
	if _, err := s.store.ReplaceBudgets(ctx, updated); err != nil {
		applog.LogError(r.Context(), "Failed to replace budgets", err, applog.ComponentBudget, applog.OpUpdate, fields)
		NewHTMXResponse().Status(remoteStatus(err)).NoSwap().
			TriggerErrorNotification("Error updating budget").Write(w)
		return
	}

	s.logger.WithComponent(applog.ComponentBudget).InfoContext(r.Context(), "Budget updated",
		applog.FieldCategory, category.String(), applog.FieldAmount, limit.Cents)

	b := NewHTMXResponse().
		TriggerBudgetChanged(category.String()).
		TriggerSuccessNotification("Budget updated successfully")
	s.renderPartial(r, b, "budget_panel", newBudgetPanel(updated, expenses)).Write(w)
}
