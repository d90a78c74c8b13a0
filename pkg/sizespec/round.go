package sizespec

import "github.com/shopspring/decimal"

// RoundHalfUp rounds d to an integer, sending an exact .5 away from zero.
func RoundHalfUp(d decimal.Decimal) decimal.Decimal {
	return d.Round(0)
}

// scale returns round_half_up(value * num / den).
func scale(value, num, den decimal.Decimal) (decimal.Decimal, error) {
	if den.IsZero() {
		return decimal.Zero, ErrDegenerateSource
	}
	return RoundHalfUp(value.Mul(num).Div(den)), nil
}
