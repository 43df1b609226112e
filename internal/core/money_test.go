package core

import (
	"math"
	"testing"
)

func TestCentsFromFloat(t *testing.T) {
	cases := []struct {
		in  float64
		out int64
		ok  bool
	}{
		{1, 100, true},
		{12.34, 1234, true},
		{0.01, 1, true},
		{12.345, 1235, true}, // half-up on the third decimal
		{500, 50000, true},
		{0, 0, false},
		{-1, 0, false},
		{math.NaN(), 0, false},
		{math.Inf(1), 0, false},
		{math.Inf(-1), 0, false},
	}
	for _, tc := range cases {
		got, err := CentsFromFloat(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%v: expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else if err == nil {
			t.Fatalf("%v: expected error", tc.in)
		}
	}
}

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"1.005", 101, true},
		{" 2.50 ", 250, true},
		{"0", 0, false},
		{"-1", 0, false},
		{"+1", 0, false},
		{"1.2.3", 0, false},
		{"abc", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q: expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else if err == nil {
			t.Fatalf("%q: expected error", tc.in)
		}
	}
}

func TestDollars(t *testing.T) {
	if got := (Money{Cents: 1234}).Dollars(); got != 12.34 {
		t.Fatalf("got %v, want 12.34", got)
	}
}
