package domain

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{name: "whole units", input: "100", want: "100"},
		{name: "eighteen decimals token amount", input: "1000000000000000000000", want: "1000000000000000000000"},
		{name: "zero", input: "0", want: "0"},
		{name: "fractional unit", input: "1.5", wantErr: ErrInvalidAmount},
		{name: "negative", input: "-3", wantErr: ErrInvalidAmount},
		{name: "garbage", input: "abc", wantErr: ErrInvalidAmount},
		{name: "uint256 width", input: "1e77", want: "100000000000000000000000000000000000000000000000000000000000000000000000000000"},
		{name: "wider than uint256", input: "1e78", wantErr: ErrInvalidAmount},
		{name: "huge exponent", input: "1e20000000", wantErr: ErrInvalidAmount},
		{name: "huge negative exponent", input: "0e-20000000", wantErr: ErrInvalidAmount},
		{name: "trailing zeros after the point", input: "1000.000", want: "1000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestValidateAmount_Width(t *testing.T) {
	widest := decimal.RequireFromString(strings.Repeat("9", MaxAmountDigits))
	assert.NoError(t, ValidateAmount(widest))
	assert.ErrorIs(t, ValidateAmount(widest.Add(decimal.NewFromInt(1))), ErrInvalidAmount)
	assert.ErrorIs(t, ValidateAmount(decimal.New(1, 1<<30)), ErrInvalidAmount)
}

func TestMulDiv_Rounding(t *testing.T) {
	d := decimal.NewFromInt

	// 10 * 3 / 4 = 7.5
	assert.True(t, MulDivFloor(d(10), d(3), d(4)).Equal(d(7)))
	assert.True(t, MulDivCeil(d(10), d(3), d(4)).Equal(d(8)))

	// exact division rounds neither way
	assert.True(t, MulDivFloor(d(10), d(4), d(5)).Equal(d(8)))
	assert.True(t, MulDivCeil(d(10), d(4), d(5)).Equal(d(8)))

	// large operands stay exact
	big := decimal.RequireFromString("123456789012345678901234567890")
	assert.True(t, MulDivFloor(big, d(3), d(3)).Equal(big))
}

func TestClassOf(t *testing.T) {
	wrapped := fmt.Errorf("pull assets: %w", ErrInsufficientAllowance)

	assert.Equal(t, ClassFunds, ClassOf(wrapped))
	assert.Equal(t, "InsufficientAllowance", CodeOf(wrapped))
	assert.True(t, errors.Is(wrapped, ErrInsufficientAllowance))
	assert.Equal(t, ClassAuthorization, ClassOf(ErrNotStrategy))
	assert.Equal(t, ErrorClass(""), ClassOf(errors.New("boom")))
}
