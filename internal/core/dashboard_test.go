package core

import "testing"

func TestSummarize(t *testing.T) {
	budgets := Budgets{
		{Food, Money{Cents: 1000000}},
		{Utilities, Money{Cents: 500000}},
		{Entertainment, Money{Cents: 300000}},
	}
	es := []Expense{
		exp("Groceries", 800000, Food, NewDate(2024, 1, 2)),
		exp("Power", 500000, Utilities, NewDate(2024, 1, 3)),
		exp("Water", 10000, Utilities, NewDate(2024, 1, 3)),
	}
	d := Summarize(es, budgets, "")

	if d.TotalSpent.Cents != 1310000 || d.TotalBudget.Cents != 1800000 || d.TransactionCount != 3 {
		t.Fatalf("cards: %+v", d)
	}
	if d.UtilizationPct != 73 {
		t.Errorf("utilization %d", d.UtilizationPct)
	}
	if !d.PreviousSynthetic || d.PreviousMonth.Cents != 1048000 {
		t.Errorf("previous month %+v", d.PreviousMonth)
	}
	if d.ChangePct.String() != "25" {
		t.Errorf("change %s", d.ChangePct)
	}
	if d.HighestCategory != Food || d.HighestAmount.Cents != 800000 {
		t.Errorf("highest %s %d", d.HighestCategory, d.HighestAmount.Cents)
	}
	if d.AverageSpend.Cents != 436667 {
		t.Errorf("average %d", d.AverageSpend.Cents)
	}
	if d.OverBudgetCount != 1 {
		t.Errorf("over budget %d", d.OverBudgetCount)
	}
	if d.SelectedCategory != AllCategories {
		t.Errorf("selected %s", d.SelectedCategory)
	}

	want := []struct {
		status BudgetStatus
		width  int
	}{{StatusWarning, 80}, {StatusDanger, 100}, {StatusSafe, 0}}
	if len(d.Warnings) != len(want) {
		t.Fatalf("warnings %+v", d.Warnings)
	}
	for i, w := range want {
		if d.Warnings[i].Status != w.status || d.Warnings[i].Width != w.width {
			t.Errorf("warning %d: %+v", i, d.Warnings[i])
		}
	}
	if d.Warnings[1].Percent != 102 || d.Warnings[1].Message != "Critical! Budget exceeded" {
		t.Errorf("utilities warning %+v", d.Warnings[1])
	}
}

func TestSummarizeEmpty(t *testing.T) {
	d := Summarize(nil, nil, Food)
	if d.TotalBudget.Cents != 100 {
		t.Fatalf("zero budget guard: %d", d.TotalBudget.Cents)
	}
	if d.UtilizationPct != 0 || d.AverageSpend.Cents != 0 || !d.ChangePct.IsZero() {
		t.Fatalf("unexpected %+v", d)
	}
	if d.HighestCategory != "None" || d.HighestAmount.Cents != 0 {
		t.Fatalf("highest %s", d.HighestCategory)
	}
}

func TestSummarizeHighestTieGoesToLater(t *testing.T) {
	es := []Expense{
		exp("a", 500, Food, NewDate(2024, 1, 1)),
		exp("b", 500, Shopping, NewDate(2024, 1, 1)),
	}
	if d := Summarize(es, nil, ""); d.HighestCategory != Shopping {
		t.Fatalf("got %s", d.HighestCategory)
	}
}

func TestBuildReport(t *testing.T) {
	es := []Expense{
		exp("a", 3000, Food, NewDate(2024, 1, 1)),
		exp("b", 1000, Utilities, NewDate(2024, 1, 10)),
		exp("c", 1000, Food, NewDate(2024, 2, 10)),
	}

	r := BuildReport(es, Date{}, Date{})
	if r.Total.Cents != 5000 || len(r.Rows) != 2 || r.Rows[0].Percent != 80 || r.Rows[1].Percent != 20 {
		t.Fatalf("full report %+v", r)
	}

	r = BuildReport(es, NewDate(2024, 1, 1), NewDate(2024, 1, 31))
	if len(r.Expenses) != 2 || r.Total.Cents != 4000 || r.Rows[0].Percent != 75 {
		t.Fatalf("january %+v", r)
	}

	r = BuildReport(nil, Date{}, Date{})
	if len(r.Rows) != 0 || r.Total.Cents != 0 {
		t.Fatalf("empty %+v", r)
	}
	if PeriodLabel(Date{}) != "All time" || PeriodLabel(NewDate(2024, 1, 5)) != "2024-01-05" {
		t.Fatal("period labels")
	}
}
