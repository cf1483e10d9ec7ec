package core

import (
	"github.com/shopspring/decimal"
)

// previousMonthFactor derives the comparison figure shown as last month.
// There is no stored history, the value is synthetic.
var previousMonthFactor = decimal.NewFromFloat(0.8)

type (
	BudgetWarning struct {
		Category Category
		Status   BudgetStatus
		Message  string
		Spent    Money
		Budget   Money
		Percent  int
		Known    bool
		Width    int
	}

	Dashboard struct {
		TotalSpent        Money
		TotalBudget       Money
		TransactionCount  int
		UtilizationPct    int
		PreviousMonth     Money
		PreviousSynthetic bool
		// ChangePct is the month-over-month change with one decimal.
		ChangePct decimal.Decimal

		ByCategory      []CategoryAmount
		Warnings        []BudgetWarning
		HighestCategory Category
		HighestAmount   Money
		AverageSpend    Money
		OverBudgetCount int

		SelectedCategory Category
		Trend            []TrendPoint
	}
)

// Summarize computes every dashboard figure from one fetch of expenses and
// budgets.
func Summarize(expenses []Expense, budgets Budgets, selected Category) Dashboard {
	if selected == "" {
		selected = AllCategories
	}
	total := TotalOf(expenses)
	totalBudget := budgets.Total()
	if totalBudget.IsZero() {
		totalBudget = Money{Cents: 100}
	}
	prev := total.Scale(previousMonthFactor)

	d := Dashboard{
		TotalSpent:        total,
		TotalBudget:       totalBudget,
		TransactionCount:  len(expenses),
		UtilizationPct:    percentOf(total.Decimal(), totalBudget.Decimal()),
		PreviousMonth:     prev,
		PreviousSynthetic: true,
		ChangePct:         changePct(total, prev),
		ByCategory:        ByCategory(expenses),
		HighestCategory:   "None",
		AverageSpend:      total.DivN(len(expenses)),
		SelectedCategory:  selected,
		Trend:             TrendByDate(expenses, selected),
	}

	for _, c := range d.ByCategory {
		if !(d.HighestAmount.Cents > c.Amount.Cents) {
			d.HighestCategory, d.HighestAmount = c.Category, c.Amount
		}
	}

	for _, s := range SpentPerBudget(budgets, expenses) {
		status := BudgetStatusOf(s.Spent, s.Budget)
		d.Warnings = append(d.Warnings, BudgetWarning{
			Category: s.Category,
			Status:   status,
			Message:  status.Message(),
			Spent:    s.Spent,
			Budget:   s.Budget,
			Percent:  s.Percent,
			Known:    s.Known,
			Width:    s.Width,
		})
		if s.Over {
			d.OverBudgetCount++
		}
	}
	return d
}

func changePct(total, prev Money) decimal.Decimal {
	if prev.IsZero() {
		return decimal.Zero
	}
	diff := total.Decimal().Sub(prev.Decimal())
	return diff.Div(prev.Decimal()).Mul(decimal.NewFromInt(100)).Round(1)
}
