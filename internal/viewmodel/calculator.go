package viewmodel

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/jask/jaskcalc/internal/database/repository"
	"github.com/jask/jaskcalc/internal/logger"
	"github.com/jask/jaskcalc/internal/model"
	"github.com/jask/jaskcalc/internal/script"
)

// CalculationRecorder persists successful calculations.
type CalculationRecorder interface {
	Insert(ctx context.Context, c repository.Calculation) (repository.Calculation, error)
}

// Calculator holds the last operation and exposes it to scripts.
type Calculator struct {
	data     model.CalculatorData
	recorder CalculationRecorder
}

// NewCalculator returns an empty calculator. recorder may be nil.
func NewCalculator(recorder CalculationRecorder) *Calculator {
	return &Calculator{recorder: recorder}
}

func (c *Calculator) Name() string { return script.CalculatorName }

func (c *Calculator) Data() model.CalculatorData { return c.data }

// Compute applies op and stores the operands, operator and outcome. A failed
// computation clears the result and keeps the error text.
func (c *Calculator) Compute(ctx context.Context, op string, a, b float64) (float64, error) {
	c.data.A = &a
	c.data.B = &b
	c.data.Operation = op
	res, err := model.Compute(op, a, b)
	if err != nil {
		c.data.Result = nil
		c.data.Err = err.Error()
		return 0, err
	}
	c.data.Result = &res
	c.data.Err = ""
	if c.recorder != nil {
		calc := repository.Calculation{A: a, B: b, Operation: op, Result: res}
		if _, err := c.recorder.Insert(ctx, calc); err != nil {
			logger.FromContext(ctx).Warn("record calculation failed", zap.Error(err))
		}
	}
	return res, nil
}

// ComputeInput parses the operand fields and computes.
func (c *Calculator) ComputeInput(ctx context.Context, op, a, b string) (float64, error) {
	x, err := model.ParseOperand(a)
	if err != nil {
		c.data.Err = err.Error()
		return 0, err
	}
	y, err := model.ParseOperand(b)
	if err != nil {
		c.data.Err = err.Error()
		return 0, err
	}
	return c.Compute(ctx, op, x, y)
}

// Restore loads a recorded calculation as the last operation without
// recording it again.
func (c *Calculator) Restore(calc repository.Calculation) {
	a, b, res := calc.A, calc.B, calc.Result
	c.data = model.CalculatorData{A: &a, B: &b, Operation: calc.Operation, Result: &res}
}

// Clear forgets the last operation.
func (c *Calculator) Clear() {
	c.data = model.CalculatorData{}
}

// Result returns the last result when there is one.
func (c *Calculator) Result() (float64, bool) {
	if c.data.Result == nil {
		return 0, false
	}
	return *c.data.Result, true
}

func (c *Calculator) Attr(name string) script.Attr {
	switch name {
	case "a":
		return optional(c.data.A)
	case "b":
		return optional(c.data.B)
	case "result":
		return optional(c.data.Result)
	case "operation":
		if c.data.Operation == "" {
			return script.Absent()
		}
		return script.Present(c.data.Operation)
	case "error":
		if c.data.Err == "" {
			return script.Absent()
		}
		return script.Present(c.data.Err)
	}
	return script.Absent()
}

func (c *Calculator) Call(ctx context.Context, action string, args []any) (any, error) {
	switch action {
	case "compute":
		if len(args) != 3 {
			return nil, errors.New("compute takes an operator and two numbers")
		}
		op, ok := args[0].(string)
		if !ok {
			return nil, fmt.Errorf("operator must be a string, got %T", args[0])
		}
		a, aok := args[1].(float64)
		b, bok := args[2].(float64)
		if !aok || !bok {
			return nil, errors.New("operands must be numbers")
		}
		return c.Compute(ctx, op, a, b)
	case "clear":
		c.Clear()
		return nil, nil
	}
	return nil, fmt.Errorf("unknown action %q", action)
}

func optional(v *float64) script.Attr {
	if v == nil {
		return script.Absent()
	}
	return script.Present(*v)
}
