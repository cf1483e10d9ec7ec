package core

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// BudgetEntry is one category ceiling.
type BudgetEntry struct {
	Category Category
	Limit    Money
}

// Budgets maps categories to spending ceilings. On the wire it is a JSON
// object; entries keep the key order they were read in.
type Budgets []BudgetEntry

// DefaultBudgets is the ceiling set the data endpoint starts with.
func DefaultBudgets() Budgets {
	return Budgets{
		{Food, Money{Cents: 1000000}},
		{Utilities, Money{Cents: 500000}},
		{Entertainment, Money{Cents: 300000}},
		{Transportation, Money{Cents: 400000}},
		{Shopping, Money{Cents: 600000}},
		{Healthcare, Money{Cents: 300000}},
		{Education, Money{Cents: 500000}},
	}
}

// Get returns the ceiling for c and whether it is present.
func (b Budgets) Get(c Category) (Money, bool) {
	for _, e := range b {
		if e.Category == c {
			return e.Limit, true
		}
	}
	return Money{}, false
}

// Set returns a copy of b with c set to limit. Existing categories keep
// their position; new ones are appended.
func (b Budgets) Set(c Category, limit Money) Budgets {
	out := make(Budgets, len(b), len(b)+1)
	copy(out, b)
	for i := range out {
		if out[i].Category == c {
			out[i].Limit = limit
			return out
		}
	}
	return append(out, BudgetEntry{Category: c, Limit: limit})
}

// Total sums every ceiling.
func (b Budgets) Total() Money {
	var t Money
	for _, e := range b {
		t = t.Add(e.Limit)
	}
	return t
}

func (b Budgets) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range b {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(string(e.Category))
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.WriteString(e.Limit.Raw())
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (b *Budgets) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*b = nil
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("budgets: expected object, got %v", tok)
	}
	out := Budgets{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("budgets: unexpected key %v", tok)
		}
		var m Money
		if err := dec.Decode(&m); err != nil {
			return fmt.Errorf("budgets: %s: %w", key, err)
		}
		out = out.Set(Category(key), m)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*b = out
	return nil
}
