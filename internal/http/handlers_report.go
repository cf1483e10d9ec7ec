package http

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"expensetracker/internal/core"
	applog "expensetracker/internal/log"
	"expensetracker/internal/metrics"
	"expensetracker/internal/report"
	"expensetracker/internal/session"
)

type reportView struct {
	core.Report
	Range  DateRange
	Chart  chartData
	HasPDF bool
}

// handleReportsPage renders the filtered report. Fetch failures are only
// logged; the page shows an empty report.
func (s *Server) handleReportsPage(w http.ResponseWriter, r *http.Request) {
	dr, err := ParseDateRange(r.URL.Query())
	if err != nil {
		s.logger.WithComponent(applog.ComponentReport).WarnContext(r.Context(), "Invalid report range",
			"error", err, applog.FieldOperation, applog.OpParse)
		s.state.Notify(session.Error, "Invalid date range")
	}

	ctx, cancel := s.remoteContext(r)
	defer cancel()

	expenses, err := s.store.ListExpenses(ctx)
	if err != nil {
		applog.LogError(r.Context(), "Failed to list expenses", err, applog.ComponentReport, applog.OpList, nil)
	}

	rep := core.BuildReport(expenses, dr.Start, dr.End)
	_, fontErr := s.exporter.FontPath()
	view := reportView{
		Report: rep,
		Range:  dr,
		Chart:  reportChart(rep),
		HasPDF: fontErr == nil,
	}
	s.render(w, r, pageReports, "Reports", view)
}

func reportChart(rep core.Report) chartData {
	rows := make([]core.CategoryAmount, 0, len(rep.Rows))
	for _, row := range rep.Rows {
		rows = append(rows, core.CategoryAmount{Category: row.Category, Amount: row.Amount})
	}
	return categoryChart("Expenses by Category (₹)", rows)
}

// handleReportExport renders the filtered report as a download.
func (s *Server) handleReportExport(w http.ResponseWriter, r *http.Request) {
	format, err := report.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	dr, err := ParseDateRange(r.URL.Query())
	if err != nil {
		http.Error(w, "Invalid date range", http.StatusBadRequest)
		return
	}

	ctx, cancel := s.remoteContext(r)
	defer cancel()

	fields := applog.NewFields().WithFormat(string(format))
	expenses, err := s.store.ListExpenses(ctx)
	if err != nil {
		applog.LogError(r.Context(), "Failed to list expenses", err, applog.ComponentReport, applog.OpExport, fields)
		http.Error(w, "Error fetching expenses", remoteStatus(err))
		return
	}

	var buf bytes.Buffer
	if err := s.exporter.Write(&buf, format, core.BuildReport(expenses, dr.Start, dr.End)); err != nil {
		applog.LogError(r.Context(), "Failed to render report", err, applog.ComponentReport, applog.OpExport, fields)
		status := http.StatusInternalServerError
		if errors.Is(err, report.ErrNoFont) {
			status = http.StatusServiceUnavailable
		}
		http.Error(w, "Error generating report", status)
		return
	}

	metrics.ObserveExport(string(format))
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="`+format.FileName()+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
