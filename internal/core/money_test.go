package core

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{"1.005", 101, true}, // half-up rounding
		{"1.995", 200, true},
		{" 2.50 ", 250, true},
		{"1500", 150000, true},
		{"-1", 0, false},
		{"+1", 0, false},
		{"0", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestParseCeiling(t *testing.T) {
	cases := []struct {
		in    string
		cents int64
		ok    bool
	}{
		{"", 0, true},
		{"0", 0, true},
		{"12000", 1200000, true},
		{"99.999", 10000, true},
		{"abc", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseCeiling(tc.in)
		if tc.ok != (err == nil) {
			t.Fatalf("%q: unexpected error state %v", tc.in, err)
		}
		if tc.ok && got.Cents != tc.cents {
			t.Fatalf("%q: expected %d cents, got %d", tc.in, tc.cents, got.Cents)
		}
	}
}

func TestMoneyDisplay(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{0, "0"},
		{5, "0.05"},
		{1230, "12.3"},
		{150000, "1,500"},
		{123450, "1,234.5"},
		{123456789, "1,234,567.89"},
		{-150000, "-1,500"},
	}
	for _, tc := range cases {
		if got := (Money{Cents: tc.cents}).Display(); got != tc.want {
			t.Errorf("Display(%d) = %q, want %q", tc.cents, got, tc.want)
		}
	}
	if got := FormatINR(Money{Cents: 250000}); got != "₹2,500" {
		t.Errorf("FormatINR = %q", got)
	}
}

func TestMoneyJSON(t *testing.T) {
	t.Run("decode", func(t *testing.T) {
		cases := []struct {
			in    string
			cents int64
		}{
			{`12.5`, 1250},
			{`1500`, 150000},
			{`"15"`, 1500},
			{`""`, 0},
			{`null`, 0},
			{`0.005`, 1},
		}
		for _, tc := range cases {
			var m Money
			if err := json.Unmarshal([]byte(tc.in), &m); err != nil {
				t.Fatalf("%s: %v", tc.in, err)
			}
			if m.Cents != tc.cents {
				t.Errorf("%s: got %d cents, want %d", tc.in, m.Cents, tc.cents)
			}
		}
	})

	t.Run("decode rejects garbage", func(t *testing.T) {
		var m Money
		if err := json.Unmarshal([]byte(`"ten"`), &m); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("encode is a plain number", func(t *testing.T) {
		b, err := json.Marshal(Money{Cents: 1250})
		if err != nil {
			t.Fatal(err)
		}
		if string(b) != "12.5" {
			t.Fatalf("got %s", b)
		}
		b, _ = json.Marshal(Money{Cents: 150000})
		if string(b) != "1500" {
			t.Fatalf("got %s", b)
		}
	})
}

func TestMoneyArithmetic(t *testing.T) {
	if got := (Money{Cents: 1000}).DivN(3); got.Cents != 333 {
		t.Fatalf("DivN: got %d", got.Cents)
	}
	if got := (Money{Cents: 1000}).DivN(0); got.Cents != 0 {
		t.Fatalf("DivN(0): got %d", got.Cents)
	}
	if got := (Money{Cents: 12345}).Scale(decimal.NewFromFloat(0.8)); got.Cents != 9876 {
		t.Fatalf("Scale: got %d", got.Cents)
	}
}
