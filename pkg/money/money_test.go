package money

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestFractionRoundsToWholeUnits(t *testing.T) {
	tests := []struct {
		amount   Amount
		fraction string
		want     Amount
	}{
		{amount: 100000, fraction: "0.1", want: 10000},
		{amount: 58005, fraction: "0.1", want: 5801},
		{amount: 58004, fraction: "0.1", want: 5800},
		{amount: 0, fraction: "0.25", want: 0},
		{amount: 12345, fraction: "1", want: 12345},
	}
	for _, tt := range tests {
		got := tt.amount.Fraction(decimal.RequireFromString(tt.fraction))
		if got != tt.want {
			t.Fatalf("%d * %s: expected %d, got %d", tt.amount, tt.fraction, tt.want, got)
		}
	}
}

func TestNonNegativeAndTimes(t *testing.T) {
	if got := Amount(-5).NonNegative(); got != Zero {
		t.Fatalf("expected clamp to zero, got %d", got)
	}
	if got := Amount(29000).Times(2); got != 58000 {
		t.Fatalf("expected 58000, got %d", got)
	}
	if got := Sum(1, 2, 3); got != 6 {
		t.Fatalf("expected 6, got %d", got)
	}
	if Amount(15000).String() != "15000" {
		t.Fatalf("unexpected string form")
	}
}
