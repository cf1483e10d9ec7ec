package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"expensetracker/internal/core"
)

func newParser(body, contentType string) *RequestBodyParser {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return NewRequestBodyParser(httptest.NewRecorder(), req)
}

func TestRequestBodyParser(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		contentType string
		key         string
		want        string
		wantRaw     string
	}{
		{"form value", "title=Lunch&amount=12.5", "application/x-www-form-urlencoded", "title", "Lunch", "Lunch"},
		{"form trims and strips control chars", "title=%20Lun%07ch%20", "application/x-www-form-urlencoded", "title", "Lunch", " Lun\ach "},
		{"json string", `{"title":"Taxi"}`, "application/json", "title", "Taxi", "Taxi"},
		{"json string keeps padding raw", `{"password":" demo123 "}`, "application/json", "password", "demo123", " demo123 "},
		{"json number keeps precision", `{"amount":12.50}`, "application/json", "amount", "12.50", "12.50"},
		{"json bool", `{"flag":true}`, "application/json", "flag", "true", "true"},
		{"missing key", "title=Lunch", "", "amount", "", ""},
		{"empty body", "", "", "title", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newParser(tt.body, tt.contentType)
			if err := p.Parse(); err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if got := p.Get(tt.key); got != tt.want {
				t.Errorf("Get(%q) = %q, want %q", tt.key, got, tt.want)
			}
			if got := p.Raw(tt.key); got != tt.wantRaw {
				t.Errorf("Raw(%q) = %q, want %q", tt.key, got, tt.wantRaw)
			}
		})
	}
}

func TestRequestBodyParserInvalidJSON(t *testing.T) {
	p := newParser(`{"title":`, "application/json")
	if err := p.Parse(); err == nil {
		t.Fatal("Parse() should fail on truncated JSON")
	}
	// A second call returns the cached error.
	if err := p.Parse(); err == nil {
		t.Error("second Parse() should return the same error")
	}
}

func TestRequestBodyParserRejectsOversizedBody(t *testing.T) {
	body := "title=" + strings.Repeat("a", maxBodyBytes) + "&amount=5&category=Food&date=2024-03-15"
	p := newParser(body, "application/x-www-form-urlencoded")

	err := p.Parse()
	var tooLarge *http.MaxBytesError
	if !errors.As(err, &tooLarge) {
		t.Fatalf("Parse() error = %v, want *http.MaxBytesError", err)
	}
	if p.Get("amount") != "" {
		t.Error("a truncated body should not yield values")
	}

	_, err = ParseExpenseForm(newParser(body, ""))
	if got := formStatus(err); got != http.StatusRequestEntityTooLarge {
		t.Errorf("formStatus = %d, want 413", got)
	}
}

func TestFormStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"too large", &FormError{Field: "body", Err: &http.MaxBytesError{Limit: maxBodyBytes}}, http.StatusRequestEntityTooLarge},
		{"malformed body", &FormError{Field: "body", Err: errors.New("bad json")}, http.StatusBadRequest},
		{"invalid field", &FormError{Field: "amount", Err: core.ErrInvalidAmount}, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formStatus(tt.err); got != tt.want {
				t.Errorf("formStatus = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestParseExpenseForm(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantField string
		want      core.Expense
	}{
		{
			name: "valid form",
			body: "title=Groceries&amount=1500.50&category=Food&date=2024-03-15",
			want: core.Expense{Title: "Groceries", Amount: core.Money{Cents: 150050}, Category: "Food", Date: core.NewDate(2024, 3, 15)},
		},
		{
			name: "valid json",
			body: `{"title":"Bus","amount":30,"category":"Transportation","date":"2024-03-01"}`,
			want: core.Expense{Title: "Bus", Amount: core.Money{Cents: 3000}, Category: "Transportation", Date: core.NewDate(2024, 3, 1)},
		},
		{
			name: "comma decimal",
			body: "title=Tea&amount=12,34&category=Food&date=2024-03-15",
			want: core.Expense{Title: "Tea", Amount: core.Money{Cents: 1234}, Category: "Food", Date: core.NewDate(2024, 3, 15)},
		},
		{name: "missing amount", body: "title=Tea&category=Food&date=2024-03-15", wantField: "amount"},
		{name: "zero amount", body: "title=Tea&amount=0&category=Food&date=2024-03-15", wantField: "amount"},
		{name: "negative amount", body: "title=Tea&amount=-5&category=Food&date=2024-03-15", wantField: "amount"},
		{name: "non numeric amount", body: "title=Tea&amount=abc&category=Food&date=2024-03-15", wantField: "amount"},
		{name: "bad date", body: "title=Tea&amount=5&category=Food&date=15/03/2024", wantField: "date"},
		{name: "missing title", body: "title=%20&amount=5&category=Food&date=2024-03-15", wantField: "title"},
		{name: "missing category", body: "title=Tea&amount=5&date=2024-03-15", wantField: "category"},
		{name: "broken json", body: `{"title":`, wantField: "body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseExpenseForm(newParser(tt.body, ""))
			if tt.wantField != "" {
				var fe *FormError
				if !errors.As(err, &fe) {
					t.Fatalf("error = %v, want *FormError", err)
				}
				if fe.Field != tt.wantField {
					t.Errorf("Field = %q, want %q", fe.Field, tt.wantField)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Title != tt.want.Title || got.Amount != tt.want.Amount ||
				got.Category != tt.want.Category || !got.Date.Equal(tt.want.Date.Time) {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
			if !got.ID.IsZero() {
				t.Errorf("ID = %q, want zero", got.ID)
			}
		})
	}
}

func TestParseBudgetForm(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantCat   core.Category
		wantCents int64
		wantErr   bool
	}{
		{"valid", "category=Food&amount=6000", "Food", 600000, false},
		{"fractional rounds to cents", "category=Food&amount=10.005", "Food", 1001, false},
		{"empty amount means zero", "category=Food&amount=", "Food", 0, false},
		{"missing category", "amount=100", "", 0, true},
		{"bad amount", "category=Food&amount=lots", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat, limit, err := ParseBudgetForm(newParser(tt.body, ""))
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if cat != tt.wantCat {
				t.Errorf("category = %q, want %q", cat, tt.wantCat)
			}
			if limit.Cents != tt.wantCents {
				t.Errorf("cents = %d, want %d", limit.Cents, tt.wantCents)
			}
		})
	}
}

func TestParseDateRange(t *testing.T) {
	tests := []struct {
		name      string
		query     url.Values
		wantStart string
		wantEnd   string
		wantErr   bool
	}{
		{"empty is open", url.Values{}, "", "", false},
		{"both bounds", url.Values{"start": {"2024-01-01"}, "end": {"2024-01-31"}}, "2024-01-01", "2024-01-31", false},
		{"start only", url.Values{"start": {"2024-02-10"}}, "2024-02-10", "", false},
		{"whitespace is empty", url.Values{"end": {"  "}}, "", "", false},
		{"malformed start", url.Values{"start": {"yesterday"}}, "", "", true},
		{"malformed end", url.Values{"start": {"2024-01-01"}, "end": {"2024-13-01"}}, "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dr, err := ParseDateRange(tt.query)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if got := dr.Start.String(); got != tt.wantStart {
				t.Errorf("Start = %q, want %q", got, tt.wantStart)
			}
			if got := dr.End.String(); got != tt.wantEnd {
				t.Errorf("End = %q, want %q", got, tt.wantEnd)
			}
		})
	}
}
