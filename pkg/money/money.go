// Package money holds amounts in the smallest currency unit so arithmetic never
// touches floating point.
package money

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// Amount is a count of the smallest currency unit (đồng for VND).
type Amount int64

const Zero Amount = 0

// Times multiplies the amount by a quantity.
func (a Amount) Times(qty int) Amount {
	return a * Amount(qty)
}

// NonNegative clamps negative amounts to zero.
func (a Amount) NonNegative() Amount {
	if a < 0 {
		return Zero
	}
	return a
}

// Decimal exposes the amount for display formatting.
func (a Amount) Decimal() decimal.Decimal {
	return decimal.NewFromInt(int64(a))
}

func (a Amount) String() string {
	return strconv.FormatInt(int64(a), 10)
}

// Fraction returns round(a * fraction), rounding half away from zero to whole units.
func (a Amount) Fraction(fraction decimal.Decimal) Amount {
	return Amount(a.Decimal().Mul(fraction).Round(0).IntPart())
}

// Sum adds amounts together.
func Sum(amounts ...Amount) Amount {
	var total Amount
	for _, amount := range amounts {
		total += amount
	}
	return total
}
