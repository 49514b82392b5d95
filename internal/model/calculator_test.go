package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompute(t *testing.T) {
	tests := []struct {
		op   string
		a, b float64
		want float64
	}{
		{"+", 2, 3, 5},
		{"-", 2, 3, -1},
		{"*", 4, 2.5, 10},
		{"/", 9, 3, 3},
		{"%", 7, 3, 1},
		{"^", 2, 10, 1024},
	}
	for _, tt := range tests {
		t.Run(tt.op, func(t *testing.T) {
			got, err := Compute(tt.op, tt.a, tt.b)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestComputeErrors(t *testing.T) {
	_, err := Compute("/", 1, 0)
	assert.ErrorIs(t, err, ErrDivisionByZero)
	assert.EqualError(t, err, "division by zero")

	_, err = Compute("%", 1, 0)
	assert.ErrorIs(t, err, ErrDivisionByZero)

	_, err = Compute("?", 1, 2)
	assert.ErrorIs(t, err, ErrUnknownOperation)
}

func TestParseOperand(t *testing.T) {
	v, err := ParseOperand(" 2.5 ")
	require.NoError(t, err)
	assert.Equal(t, 2.5, v)

	_, err = ParseOperand("  ")
	assert.ErrorIs(t, err, ErrMissingOperand)

	_, err = ParseOperand("abc")
	assert.Error(t, err)
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "5", FormatNumber(5))
	assert.Equal(t, "0.25", FormatNumber(0.25))
	assert.Equal(t, "-3", FormatNumber(-3))
}

func TestCalculatorDataComplete(t *testing.T) {
	a, b, r := 1.0, 2.0, 3.0
	assert.False(t, CalculatorData{}.Complete())
	assert.False(t, CalculatorData{A: &a, B: &b, Result: &r}.Complete())
	assert.True(t, CalculatorData{A: &a, B: &b, Operation: "+", Result: &r}.Complete())
}
