package model

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	ErrDivisionByZero   = errors.New("division by zero")
	ErrUnknownOperation = errors.New("unknown operation")
	ErrMissingOperand   = errors.New("missing operand")
)

// Operations lists the supported operators in display order.
var Operations = []string{"+", "-", "*", "/", "%", "^"}

// CalculatorData is the calculator's last operation. Unset values are nil.
type CalculatorData struct {
	A         *float64
	B         *float64
	Operation string
	Result    *float64
	Err       string
}

// Complete reports whether every part of the last operation is set.
func (d CalculatorData) Complete() bool {
	return d.A != nil && d.B != nil && d.Operation != "" && d.Result != nil
}

// Compute applies op to a and b.
func Compute(op string, a, b float64) (float64, error) {
	switch op {
	case "+":
		return a + b, nil
	case "-":
		return a - b, nil
	case "*", "x":
		return a * b, nil
	case "/":
		if b == 0 {
			return 0, ErrDivisionByZero
		}
		return a / b, nil
	case "%":
		if b == 0 {
			return 0, ErrDivisionByZero
		}
		return math.Mod(a, b), nil
	case "^":
		return math.Pow(a, b), nil
	default:
		return 0, fmt.Errorf("%w %q", ErrUnknownOperation, op)
	}
}

// ParseOperand parses a number typed into an operand field. Blank input is
// ErrMissingOperand.
func ParseOperand(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrMissingOperand
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return v, nil
}

// FormatNumber renders a value without trailing zeros.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
