package main

import (
	"fmt"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// maxDisplayFraction caps the digits printed after the decimal point
const maxDisplayFraction = 6

// unitFormat converts between smallest units and the human amounts of one token
type unitFormat struct {
	decimals int32
	raw      bool
	currency *money.Currency
}

func newUnitFormat(code string, decimals int32, raw bool) *unitFormat {
	fraction := int(decimals)
	if fraction > maxDisplayFraction {
		fraction = maxDisplayFraction
	}
	return &unitFormat{
		decimals: decimals,
		raw:      raw,
		currency: money.AddCurrency(code, code, "1 $", ".", ",", fraction),
	}
}

// Format renders an amount of smallest units, truncated to the display fraction
func (u *unitFormat) Format(amount decimal.Decimal) string {
	if u.raw {
		return amount.String() + " " + u.currency.Code
	}

	dropped := u.decimals - int32(u.currency.Fraction)
	scaled, _ := amount.QuoRem(decimal.New(1, dropped), 0)
	if !scaled.BigInt().IsInt64() {
		return amount.Shift(-u.decimals).String() + " " + u.currency.Code
	}
	return u.currency.Formatter().Format(scaled.IntPart())
}

// Parse reads a human amount such as "12.5" into smallest units
func (u *unitFormat) Parse(s string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}
	if !u.raw {
		amount = amount.Shift(u.decimals)
	}
	if amount.IsNegative() || !amount.IsInteger() {
		return decimal.Zero, fmt.Errorf("amount %q is not a whole number of smallest units", s)
	}
	return amount, nil
}
