package domain

import (
	"github.com/shopspring/decimal"
)

// MaxAmountDigits bounds every amount to the width of a uint256 (and of the NUMERIC(78,0) columns)
const MaxAmountDigits = 78

// ValidateAmount ensures an amount is expressed in whole smallest units, is not negative
// and fits in MaxAmountDigits digits
func ValidateAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return ErrInvalidAmount
	}

	// Width is read off coefficient and exponent so that "1e20000000" is never expanded
	exp := int64(amount.Exponent())
	if exp < -MaxAmountDigits || int64(amount.NumDigits())+exp > MaxAmountDigits {
		return ErrInvalidAmount
	}

	if !amount.IsInteger() {
		return ErrInvalidAmount
	}
	return nil
}

// ParseAmount parses a decimal string of smallest units (e.g. "100000000000000000000")
func ParseAmount(s string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if err := ValidateAmount(amount); err != nil {
		return decimal.Zero, err
	}
	return amount, nil
}

// MulDivFloor returns floor(a * b / c) for non-negative integers.
// c must be positive.
func MulDivFloor(a, b, c decimal.Decimal) decimal.Decimal {
	q, _ := a.Mul(b).QuoRem(c, 0)
	return q
}

// MulDivCeil returns ceil(a * b / c) for non-negative integers.
// c must be positive.
func MulDivCeil(a, b, c decimal.Decimal) decimal.Decimal {
	q, r := a.Mul(b).QuoRem(c, 0)
	if !r.IsZero() {
		q = q.Add(decimal.NewFromInt(1))
	}
	return q
}
