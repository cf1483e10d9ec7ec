// Package report renders a core.Report into downloadable files.
package report

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"expensetracker/internal/core"
)

type Format string

const (
	PDF  Format = "pdf"
	CSV  Format = "csv"
	XLSX Format = "xlsx"
)

// ErrNoFont is returned when no TTF font is available for PDF output.
var ErrNoFont = errors.New("no TTF font found for PDF export")

// fontCandidates are tried in order when no font path is configured.
var fontCandidates = []string{
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/TTF/DejaVuSans.ttf",
	"/usr/share/fonts/truetype/noto/NotoSans-Regular.ttf",
	"/usr/share/fonts/noto/NotoSans-Regular.ttf",
	"/Library/Fonts/Arial Unicode.ttf",
	"C:\\Windows\\Fonts\\arial.ttf",
}

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case PDF, CSV, XLSX:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", s)
	}
}

func (f Format) FileName() string { return "expense-report." + string(f) }

func (f Format) ContentType() string {
	switch f {
	case PDF:
		return "application/pdf"
	case CSV:
		return "text/csv; charset=utf-8"
	case XLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/octet-stream"
	}
}

type Exporter struct {
	fontPath string
}

// NewExporter uses fontPath for PDF text, or the first installed candidate
// font when fontPath is empty.
func NewExporter(fontPath string) *Exporter {
	return &Exporter{fontPath: fontPath}
}

// Write renders r in format f.
func (x *Exporter) Write(w io.Writer, f Format, r core.Report) error {
	switch f {
	case PDF:
		return x.WritePDF(w, r)
	case CSV:
		return WriteCSV(w, r)
	case XLSX:
		return WriteXLSX(w, r)
	default:
		return fmt.Errorf("unsupported export format %q", f)
	}
}

// FontPath resolves the font used for PDF output.
func (x *Exporter) FontPath() (string, error) {
	if x.fontPath != "" {
		if _, err := os.Stat(x.fontPath); err != nil {
			return "", fmt.Errorf("%w: %v", ErrNoFont, err)
		}
		return x.fontPath, nil
	}
	for _, p := range fontCandidates {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", ErrNoFont
}
