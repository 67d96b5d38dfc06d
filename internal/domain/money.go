package domain

import (
	"github.com/shopspring/decimal"
)

// Cents is the canonical monetary unit at the engine boundary. Balances,
// contributions, expenses and incomes are stored and persisted as integer
// cents; dollars exist only transiently for rate arithmetic.
type Cents int64

var centsPerDollar = decimal.NewFromInt(100)

// Dollars converts to a decimal dollar amount for rate arithmetic.
func (c Cents) Dollars() decimal.Decimal {
	return decimal.NewFromInt(int64(c)).Div(centsPerDollar)
}

// CentsFromDollars converts a decimal dollar amount back to integer cents,
// rounding half-up (decimal.Round is half away from zero, which matches
// half-up for the non-negative amounts that cross this boundary).
func CentsFromDollars(d decimal.Decimal) Cents {
	return Cents(d.Mul(centsPerDollar).Round(0).IntPart())
}

// Min returns the smaller of two cent amounts.
func (c Cents) Min(other Cents) Cents {
	if c < other {
		return c
	}
	return other
}

// IsPositive reports whether the amount is strictly greater than zero.
func (c Cents) IsPositive() bool { return c > 0 }
