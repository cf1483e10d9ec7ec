package http

import (
	"encoding/json"
	"html/template"
	"net/http"
	"strings"

	"expensetracker/internal/core"
)

// chartPalette is the fill order of bar and doughnut charts.
var chartPalette = []string{"#FF6384", "#36A2EB", "#FFCE56", "#4BC0C0", "#9966FF", "#FF9F40", "#FF6384"}

// templateFuncs are available to every page and partial.
var templateFuncs = template.FuncMap{
	"inr":        core.FormatINR,
	"display":    func(m core.Money) string { return m.Display() },
	"raw":        func(m core.Money) string { return m.Raw() },
	"usDate":     func(d core.Date) string { return d.USLocale() },
	"isoDate":    func(d core.Date) string { return d.String() },
	"periodOf":   core.PeriodLabel,
	"categories": core.Categories,
	"toJSON":     toJSON,
	"budgetRow": func(b core.BudgetSpend) budgetRowView {
		return budgetRowView{BudgetSpend: b, Value: b.Budget.Raw()}
	},
}

// toJSON renders v for a data-* attribute; html/template escapes it.
func toJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(b)
}

// chartData is the shape app.js hands to Chart.js.
type chartData struct {
	Labels   []string       `json:"labels"`
	Datasets []chartDataset `json:"datasets"`
}

type chartDataset struct {
	Label           string    `json:"label,omitempty"`
	Data            []float64 `json:"data"`
	BackgroundColor []string  `json:"backgroundColor,omitempty"`
	BorderColor     string    `json:"borderColor,omitempty"`
	Fill            bool      `json:"fill"`
}

func categoryChart(label string, rows []core.CategoryAmount) chartData {
	cd := chartData{Labels: []string{}, Datasets: []chartDataset{{Label: label, Data: []float64{}, BackgroundColor: chartPalette}}}
	for _, r := range rows {
		cd.Labels = append(cd.Labels, r.Category.String())
		cd.Datasets[0].Data = append(cd.Datasets[0].Data, r.Amount.Units())
	}
	return cd
}

func budgetChart(b core.Budgets) chartData {
	cd := chartData{Labels: []string{}, Datasets: []chartDataset{{Data: []float64{}, BackgroundColor: chartPalette}}}
	for _, e := range b {
		cd.Labels = append(cd.Labels, e.Category.String())
		cd.Datasets[0].Data = append(cd.Datasets[0].Data, e.Limit.Units())
	}
	return cd
}

func trendChart(category core.Category, points []core.TrendPoint) chartData {
	label := "All Categories"
	if category != core.AllCategories {
		label = category.String()
	}
	cd := chartData{Labels: []string{}, Datasets: []chartDataset{{Label: label, Data: []float64{}, BorderColor: "#36A2EB"}}}
	for _, p := range points {
		cd.Labels = append(cd.Labels, p.Label)
		cd.Datasets[0].Data = append(cd.Datasets[0].Data, p.Amount.Units())
	}
	return cd
}

// sanitizeInput removes control characters except tab, newline and carriage
// return, and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// redirect navigates the browser. htmx requests get HX-Redirect, plain ones
// a 303.
func redirect(w http.ResponseWriter, r *http.Request, url string) {
	if isHTMX(r) {
		NewHTMXResponse().Redirect(url).Write(w)
		return
	}
	http.Redirect(w, r, url, http.StatusSeeOther)
}
