package core

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

type (
	CategoryAmount struct {
		Category Category
		Amount   Money
	}

	// TrendPoint is one "Jan 2" bucket of a trend series.
	TrendPoint struct {
		Label  string
		Amount Money
		month  int
		day    int
	}

	BudgetStatus string

	// BudgetSpend pairs a ceiling with what was spent against it.
	BudgetSpend struct {
		Category Category
		Budget   Money
		Spent    Money
		Percent  int
		Known    bool
		Over     bool
		Width    int
	}
)

const (
	StatusSafe    BudgetStatus = "safe"
	StatusWarning BudgetStatus = "warning"
	StatusDanger  BudgetStatus = "danger"
)

// Message is the label shown next to a status.
func (s BudgetStatus) Message() string {
	switch s {
	case StatusDanger:
		return "Critical! Budget exceeded"
	case StatusWarning:
		return "Warning! Approaching budget limit"
	default:
		return "Within budget"
	}
}

// TotalOf sums expense amounts.
func TotalOf(expenses []Expense) Money {
	var t Money
	for _, e := range expenses {
		t = t.Add(e.Amount)
	}
	return t
}

// ByCategory sums amounts per category in first-appearance order.
func ByCategory(expenses []Expense) []CategoryAmount {
	out := []CategoryAmount{}
	idx := map[Category]int{}
	for _, e := range expenses {
		i, ok := idx[e.Category]
		if !ok {
			i = len(out)
			idx[e.Category] = i
			out = append(out, CategoryAmount{Category: e.Category})
		}
		out[i].Amount = out[i].Amount.Add(e.Amount)
	}
	return out
}

// PercentOfBudget returns round(spent/budget*100). ok is false when budget
// is zero and no percentage exists.
func PercentOfBudget(spent, budget Money) (int, bool) {
	if budget.Cents == 0 {
		return 0, false
	}
	return percentOf(spent.Decimal(), budget.Decimal()), true
}

// BudgetStatusOf classifies spending against a ceiling. Without a
// percentage any spending at all is critical.
func BudgetStatusOf(spent, budget Money) BudgetStatus {
	pct, ok := PercentOfBudget(spent, budget)
	if !ok {
		if spent.Cents > 0 {
			return StatusDanger
		}
		return StatusSafe
	}
	switch {
	case pct >= 90:
		return StatusDanger
	case pct >= 75:
		return StatusWarning
	default:
		return StatusSafe
	}
}

// SpentPerBudget reports spending for every budget category in budget order.
func SpentPerBudget(budgets Budgets, expenses []Expense) []BudgetSpend {
	spent := map[Category]Money{}
	for _, e := range expenses {
		spent[e.Category] = spent[e.Category].Add(e.Amount)
	}
	out := make([]BudgetSpend, 0, len(budgets))
	for _, b := range budgets {
		s := spent[b.Category]
		pct, ok := PercentOfBudget(s, b.Limit)
		out = append(out, BudgetSpend{
			Category: b.Category,
			Budget:   b.Limit,
			Spent:    s,
			Percent:  pct,
			Known:    ok,
			Over:     s.Cents > b.Limit.Cents,
			Width:    barWidth(s, pct, ok),
		})
	}
	return out
}

// TrendByDate builds a series of "Jan 2" buckets. Every expense opens its
// bucket; only those matching category contribute, with AllCategories or ""
// matching everything. Buckets sort by month then day; the year is not part
// of the label and not part of the ordering.
func TrendByDate(expenses []Expense, category Category) []TrendPoint {
	out := []TrendPoint{}
	idx := map[string]int{}
	all := category == "" || category == AllCategories
	for _, e := range expenses {
		label := e.Date.ShortLabel()
		i, ok := idx[label]
		if !ok {
			i = len(out)
			idx[label] = i
			out = append(out, TrendPoint{Label: label, month: int(e.Date.Month()), day: e.Date.Day()})
		}
		if all || e.Category == category {
			out[i].Amount = out[i].Amount.Add(e.Amount)
		}
	}
	sort.SliceStable(out, func(a, b int) bool {
		if out[a].month != out[b].month {
			return out[a].month < out[b].month
		}
		return out[a].day < out[b].day
	})
	return out
}

// FilterByDateRange keeps expenses dated within [start, end]. When either
// bound is unset, the input is returned as is.
func FilterByDateRange(expenses []Expense, start, end Date) []Expense {
	if start.IsZero() || end.IsZero() {
		return expenses
	}
	out := []Expense{}
	for _, e := range expenses {
		if e.Date.Before(start.Time) || e.Date.After(end.Time) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Search matches text case-insensitively against title and category.
func Search(expenses []Expense, text string) []Expense {
	q := strings.ToLower(strings.TrimSpace(text))
	if q == "" {
		return expenses
	}
	out := []Expense{}
	for _, e := range expenses {
		if strings.Contains(strings.ToLower(e.Title), q) ||
			strings.Contains(strings.ToLower(string(e.Category)), q) {
			out = append(out, e)
		}
	}
	return out
}

func percentOf(part, whole decimal.Decimal) int {
	if whole.IsZero() {
		return 0
	}
	return int(part.Div(whole).Mul(decimal.NewFromInt(100)).Round(0).IntPart())
}

func barWidth(spent Money, pct int, ok bool) int {
	if !ok {
		if spent.Cents > 0 {
			return 100
		}
		return 0
	}
	if pct > 100 {
		return 100
	}
	if pct < 0 {
		return 0
	}
	return pct
}
