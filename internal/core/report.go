package core

// ReportRow is a by-category line of a report.
type ReportRow struct {
	Category Category
	Amount   Money
	Percent  int
}

// Report is the filtered view behind the reports page and every export.
type Report struct {
	Start    Date
	End      Date
	Expenses []Expense
	Rows     []ReportRow
	Total    Money
}

func BuildReport(expenses []Expense, start, end Date) Report {
	filtered := FilterByDateRange(expenses, start, end)
	total := TotalOf(filtered)
	r := Report{Start: start, End: end, Expenses: filtered, Total: total}
	for _, c := range ByCategory(filtered) {
		r.Rows = append(r.Rows, ReportRow{
			Category: c.Category,
			Amount:   c.Amount,
			Percent:  percentOf(c.Amount.Decimal(), total.Decimal()),
		})
	}
	return r
}

// PeriodLabel renders a bound for the exported period line.
func PeriodLabel(d Date) string {
	if d.IsZero() {
		return "All time"
	}
	return d.String()
}
