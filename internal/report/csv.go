package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"

	"expensetracker/internal/core"
)

var csvHeader = []string{"Title", "Amount", "Category", "Date"}

// WriteCSV writes one row per filtered expense. Amounts carry the currency
// symbol in front of the stored number, dates use the US locale form.
// Rows are separated by CRLF with no line break after the last one.
func WriteCSV(w io.Writer, r core.Report) error {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	cw.UseCRLF = true
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, e := range r.Expenses {
		row := []string{
			e.Title,
			core.CurrencySymbol + e.Amount.Raw(),
			string(e.Category),
			e.Date.USLocale(),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	if _, err := w.Write(bytes.TrimSuffix(buf.Bytes(), []byte("\r\n"))); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}
