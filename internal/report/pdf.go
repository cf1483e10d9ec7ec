package report

import (
	"fmt"
	"io"

	"expensetracker/internal/core"

	"github.com/signintech/gopdf"
)

const (
	fontFamily = "report"

	// mm converts layout millimetres to PDF points.
	mm = 72.0 / 25.4
)

// WritePDF lays out the category summary on a single A4 page.
func (x *Exporter) WritePDF(w io.Writer, r core.Report) error {
	fontPath, err := x.FontPath()
	if err != nil {
		return err
	}

	pdf := gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})
	if err := pdf.AddTTFFont(fontFamily, fontPath); err != nil {
		return fmt.Errorf("load font %s: %w", fontPath, err)
	}
	pdf.AddPage()

	line := func(size int, x, y float64, text string) error {
		if err := pdf.SetFont(fontFamily, "", size); err != nil {
			return fmt.Errorf("set font: %w", err)
		}
		pdf.SetXY(x*mm, y*mm)
		if err := pdf.Cell(nil, text); err != nil {
			return fmt.Errorf("write %q: %w", text, err)
		}
		return nil
	}

	if err := line(20, 20, 20, "Expense Report"); err != nil {
		return err
	}
	period := fmt.Sprintf("Report Period: %s to %s", core.PeriodLabel(r.Start), core.PeriodLabel(r.End))
	if err := line(12, 20, 30, period); err != nil {
		return err
	}

	y := 50.0
	if err := line(14, 20, y, "Expenses by Category:"); err != nil {
		return err
	}
	y += 10
	for _, row := range r.Rows {
		y += 10
		if err := line(12, 30, y, fmt.Sprintf("%s: %s", row.Category, core.FormatINR(row.Amount))); err != nil {
			return err
		}
	}
	y += 20
	if err := line(14, 20, y, "Total Expenses: "+core.FormatINR(r.Total)); err != nil {
		return err
	}

	if err := pdf.Write(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}
