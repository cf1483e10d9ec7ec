package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	Food           Category = "Food"
	Utilities      Category = "Utilities"
	Entertainment  Category = "Entertainment"
	Transportation Category = "Transportation"
	Shopping       Category = "Shopping"
	Healthcare     Category = "Healthcare"
	Education      Category = "Education"

	// AllCategories selects every category in trend filters.
	AllCategories Category = "All"
)

const dateLayout = "2006-01-02"

type (
	// Category labels an expense and keys a budget ceiling.
	Category string

	Date struct {
		time.Time
	}

	// ID is an opaque record identifier. The data endpoint may use numbers
	// or strings; the form read is the form written back.
	ID struct {
		value   string
		numeric bool
	}

	Expense struct {
		ID       ID
		Title    string
		Amount   Money
		Category Category
		Date     Date
	}

	// User is a credential record as stored by the data endpoint.
	User struct {
		ID       ID     `json:"id"`
		Username string `json:"username"`
		Password string `json:"password"`
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidDate   = errors.New("invalid date")
	ErrEmptyTitle    = errors.New("empty title")
	ErrEmptyCategory = errors.New("empty category")
)

// Categories returns the fixed category set offered by the expense form.
func Categories() []Category {
	return []Category{Food, Utilities, Entertainment, Transportation, Shopping, Healthcare, Education}
}


func (c Category) String() string { return string(c) }

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string. An RFC3339 timestamp is accepted and
// truncated to its calendar date.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if len(s) > len(dateLayout) && s[len(dateLayout)] == 'T' {
		s = s[:len(dateLayout)]
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

// String returns the wire form, empty for the zero date.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

// ShortLabel formats like "Jan 2", the bucket label of trend series.
func (d Date) ShortLabel() string {
	return d.Format("Jan 2")
}

// USLocale formats like "1/2/2006".
func (d Date) USLocale() string {
	if d.IsZero() {
		return ""
	}
	return d.Format("1/2/2006")
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidDate, string(b))
	}
	if strings.TrimSpace(s) == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// NewID returns a string identifier.
func NewID(s string) ID { return ID{value: s} }

// NumericID returns an identifier written as a JSON number.
func NumericID(n int64) ID { return ID{value: fmt.Sprint(n), numeric: true} }

// ParseID reads an id taken from a URL. All-digit ids are numeric, the way
// the data endpoint assigns them.
func ParseID(s string) ID {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil && n >= 0 && strconv.FormatInt(n, 10) == s {
		return NumericID(n)
	}
	return NewID(s)
}

func (id ID) String() string { return id.value }
func (id ID) IsZero() bool   { return id.value == "" }
func (id ID) IsNumeric() bool {
	return id.numeric
}

func (id ID) MarshalJSON() ([]byte, error) {
	if id.IsZero() {
		return []byte("null"), nil
	}
	if id.numeric {
		return []byte(id.value), nil
	}
	return json.Marshal(id.value)
}

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*id = ID{}
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID{value: s}
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return fmt.Errorf("invalid id %s: %w", string(b), err)
		}
		*id = ID{value: n.String(), numeric: true}
	}
	return nil
}

type expenseJSON struct {
	ID       *ID      `json:"id,omitempty"`
	Title    string   `json:"title"`
	Amount   Money    `json:"amount"`
	Category Category `json:"category"`
	Date     Date     `json:"date"`
}

// MarshalJSON writes the wire record; the id is omitted until assigned.
func (e Expense) MarshalJSON() ([]byte, error) {
	out := expenseJSON{Title: e.Title, Amount: e.Amount, Category: e.Category, Date: e.Date}
	if !e.ID.IsZero() {
		id := e.ID
		out.ID = &id
	}
	return json.Marshal(out)
}

func (e *Expense) UnmarshalJSON(b []byte) error {
	var in expenseJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	*e = Expense{Title: in.Title, Amount: in.Amount, Category: in.Category, Date: in.Date}
	if in.ID != nil {
		e.ID = *in.ID
	}
	return nil
}

// Validate checks the required form fields.
func (e Expense) Validate() error {
	if len(strings.TrimSpace(e.Title)) == 0 {
		return ErrEmptyTitle
	}
	if len(e.Title) > 200 {
		return errors.New("title too long (max 200 characters)")
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(string(e.Category)) == "" {
		return ErrEmptyCategory
	}
	if e.Date.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// Matches reports whether the credentials equal this record exactly.
func (u User) Matches(username, password string) bool {
	return u.Username == username && u.Password == password
}
