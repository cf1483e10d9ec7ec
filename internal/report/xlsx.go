package report

import (
	"fmt"
	"io"

	"expensetracker/internal/core"

	"github.com/xuri/excelize/v2"
)

const (
	expensesSheet = "Expenses"
	summarySheet  = "Summary"
)

// WriteXLSX writes the filtered expenses and a per-category summary as two
// worksheets. Amounts are numeric cells.
func WriteXLSX(w io.Writer, r core.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", expensesSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("add summary sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#4F46E5"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	setRow := func(sheet string, row int, values ...any) error {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		return f.SetSheetRow(sheet, cell, &values)
	}

	if err := setRow(expensesSheet, 1, "Title", "Amount", "Category", "Date"); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, e := range r.Expenses {
		amount, _ := e.Amount.Decimal().Float64()
		if err := setRow(expensesSheet, i+2, e.Title, amount, string(e.Category), e.Date.String()); err != nil {
			return fmt.Errorf("write expense row: %w", err)
		}
	}
	f.SetCellStyle(expensesSheet, "A1", "D1", headerStyle)
	f.SetColWidth(expensesSheet, "A", "A", 32)
	f.SetColWidth(expensesSheet, "B", "D", 16)

	if err := setRow(summarySheet, 1, "Category", "Amount", "Percent"); err != nil {
		return fmt.Errorf("write summary header: %w", err)
	}
	for i, row := range r.Rows {
		amount, _ := row.Amount.Decimal().Float64()
		if err := setRow(summarySheet, i+2, string(row.Category), amount, row.Percent); err != nil {
			return fmt.Errorf("write summary row: %w", err)
		}
	}
	total, _ := r.Total.Decimal().Float64()
	if err := setRow(summarySheet, len(r.Rows)+2, "Total", total, 100); err != nil {
		return fmt.Errorf("write total row: %w", err)
	}
	f.SetCellStyle(summarySheet, "A1", "C1", headerStyle)
	f.SetColWidth(summarySheet, "A", "C", 18)

	f.SetActiveSheet(0)
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}
