package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"expensetracker/internal/core"
	"expensetracker/internal/data"
	applog "expensetracker/internal/log"
)

type dashboardView struct {
	core.Dashboard
	ChangeLabel  string
	ChangeUp     bool
	TrendOptions []core.Category
	BarChart     chartData
	Doughnut     chartData
	TrendChart   chartData
}

func selectedCategory(r *http.Request) core.Category {
	c := core.Category(strings.TrimSpace(r.URL.Query().Get("category")))
	if c == "" {
		return core.AllCategories
	}
	return c
}

// handleDashboard renders the main dashboard page. A failed fetch is logged
// and the page renders with no data.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.remoteContext(r)
	defer cancel()

	budgets, expenses, err := data.FetchBudgetsAndExpenses(ctx, s.store, s.store)
	if err != nil {
		applog.LogError(r.Context(), "Failed to load dashboard data", err, applog.ComponentDashboard, applog.OpRead, nil)
	}

	selected := selectedCategory(r)
	d := core.Summarize(expenses, budgets, selected)

	view := dashboardView{
		Dashboard:    d,
		ChangeLabel:  d.ChangePct.StringFixed(1),
		ChangeUp:     d.ChangePct.IsPositive(),
		TrendOptions: make([]core.Category, 0, len(budgets)),
		BarChart:     categoryChart("Monthly Expenses (₹)", d.ByCategory),
		Doughnut:     categoryChart("", d.ByCategory),
		TrendChart:   trendChart(selected, d.Trend),
	}
	for _, b := range budgets {
		view.TrendOptions = append(view.TrendOptions, b.Category)
	}

	s.render(w, r, pageDashboard, "Dashboard", view)
}

// handleDashboardTrend returns the trend series for the selected category
// as Chart.js data.
func (s *Server) handleDashboardTrend(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.remoteContext(r)
	defer cancel()

	selected := selectedCategory(r)
	expenses, err := s.store.ListExpenses(ctx)
	if err != nil {
		applog.LogError(r.Context(), "Failed to load trend data", err, applog.ComponentDashboard, applog.OpList,
			applog.NewFields().WithCategory(selected.String()))
		expenses = nil
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(trendChart(selected, core.TrendByDate(expenses, selected))); err != nil {
		s.logger.WithComponent(applog.ComponentDashboard).ErrorContext(r.Context(), "Failed to encode trend response", "error", err)
	}
}
