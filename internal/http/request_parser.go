// Package http serves the expense tracker web UI.
//
// This file implements utilities for parsing and validating HTTP request data:
// the expense form, the budget editor and the report date range.

package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"expensetracker/internal/core"
)

// maxBodyBytes bounds form and JSON bodies.
const maxBodyBytes = 64 << 10

// RequestBodyParser handles different content types for request body parsing.
// It supports both JSON and form-encoded data, commonly used with HTMX.
type RequestBodyParser struct {
	body        []byte
	contentType string
	jsonData    map[string]interface{}
	formData    url.Values
	parsed      bool
	err         error
}

// NewRequestBodyParser creates a parser for the given request.
// It reads the body once and stores it for subsequent parsing. Bodies over
// maxBodyBytes fail Parse with *http.MaxBytesError.
func NewRequestBodyParser(w http.ResponseWriter, r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{
		contentType: r.Header.Get("Content-Type"),
	}

	if r.Body != nil {
		p.body, p.err = io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	}
	return p
}

// Parse attempts to parse the body as JSON or form data.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		return p.err
	}

	if len(p.body) == 0 {
		p.formData = url.Values{}
		return nil
	}

	if p.body[0] == '{' {
		p.jsonData = make(map[string]interface{})
		dec := json.NewDecoder(strings.NewReader(string(p.body)))
		dec.UseNumber()
		if err := dec.Decode(&p.jsonData); err != nil {
			p.err = err
			return err
		}
		return nil
	}

	p.formData, p.err = url.ParseQuery(string(p.body))
	return p.err
}

// Get returns a trimmed, sanitized string value from the parsed data.
func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return sanitizeInput(stringValue(val))
		}
		return ""
	}
	if p.formData != nil {
		return sanitizeInput(p.formData.Get(key))
	}
	return ""
}

// Raw returns the value exactly as submitted, for fields such as passwords
// that must be compared byte for byte.
func (p *RequestBodyParser) Raw(key string) string {
	if p.jsonData != nil {
		return stringValue(p.jsonData[key])
	}
	if p.formData != nil {
		return p.formData.Get(key)
	}
	return ""
}

func stringValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// FormError carries the field that failed so the form can point at it.
type FormError struct {
	Field string
	Err   error
}

func (e *FormError) Error() string { return fmt.Sprintf("%s: %v", e.Field, e.Err) }
func (e *FormError) Unwrap() error { return e.Err }

// ParseExpenseForm builds an expense from the title/amount/category/date
// fields. The id is left zero; callers set it from the route.
func ParseExpenseForm(p *RequestBodyParser) (core.Expense, error) {
	if err := p.Parse(); err != nil {
		return core.Expense{}, &FormError{Field: "body", Err: err}
	}

	cents, err := core.ParseDecimalToCents(p.Get("amount"))
	if err != nil {
		return core.Expense{}, &FormError{Field: "amount", Err: err}
	}

	date, err := core.ParseDate(p.Get("date"))
	if err != nil {
		return core.Expense{}, &FormError{Field: "date", Err: err}
	}

	e := core.Expense{
		Title:    p.Get("title"),
		Amount:   core.Money{Cents: cents},
		Category: core.Category(p.Get("category")),
		Date:     date,
	}
	if err := e.Validate(); err != nil {
		return core.Expense{}, &FormError{Field: fieldOf(err), Err: err}
	}
	return e, nil
}

// formStatus maps a parse failure to its response status.
func formStatus(err error) int {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	var fe *FormError
	if errors.As(err, &fe) && fe.Field == "body" {
		return http.StatusBadRequest
	}
	return http.StatusUnprocessableEntity
}

func fieldOf(err error) string {
	switch {
	case errors.Is(err, core.ErrEmptyTitle):
		return "title"
	case errors.Is(err, core.ErrInvalidAmount):
		return "amount"
	case errors.Is(err, core.ErrEmptyCategory):
		return "category"
	case errors.Is(err, core.ErrInvalidDate):
		return "date"
	}
	return "form"
}

// ParseBudgetForm reads the category being edited and its new ceiling.
func ParseBudgetForm(p *RequestBodyParser) (core.Category, core.Money, error) {
	if err := p.Parse(); err != nil {
		return "", core.Money{}, &FormError{Field: "body", Err: err}
	}
	category := core.Category(p.Get("category"))
	if category == "" {
		return "", core.Money{}, &FormError{Field: "category", Err: core.ErrEmptyCategory}
	}
	limit, err := core.ParseCeiling(p.Get("amount"))
	if err != nil {
		return "", core.Money{}, &FormError{Field: "amount", Err: err}
	}
	return category, limit, nil
}

// DateRange is the inclusive report window. Zero bounds mean open.
type DateRange struct {
	Start core.Date
	End   core.Date
}

// ParseDateRange reads start and end from the query string. Empty values
// are left zero; malformed ones are an error.
func ParseDateRange(query url.Values) (DateRange, error) {
	var dr DateRange
	var errs []error
	if v := strings.TrimSpace(query.Get("start")); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			errs = append(errs, &FormError{Field: "start", Err: err})
		}
		dr.Start = d
	}
	if v := strings.TrimSpace(query.Get("end")); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			errs = append(errs, &FormError{Field: "end", Err: err})
		}
		dr.End = d
	}
	if len(errs) > 0 {
		return DateRange{}, errors.Join(errs...)
	}
	return dr, nil
}
