package viewmodel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jask/jaskcalc/internal/database/repository"
	"github.com/jask/jaskcalc/internal/logger"
	"github.com/jask/jaskcalc/internal/model"
	"github.com/jask/jaskcalc/internal/script"
)

func TestCalculatorCompute(t *testing.T) {
	calcs := &fakeCalcs{}
	c := NewCalculator(calcs)
	ctx := logger.NopContext()

	res, err := c.Compute(ctx, "*", 6, 7)
	require.NoError(t, err)
	assert.Equal(t, 42.0, res)
	assert.True(t, c.Data().Complete())
	require.Len(t, calcs.calcs, 1)
	assert.Equal(t, "*", calcs.calcs[0].Operation)

	_, err = c.Compute(ctx, "/", 1, 0)
	assert.ErrorIs(t, err, model.ErrDivisionByZero)
	_, ok := c.Result()
	assert.False(t, ok)
	assert.Equal(t, "division by zero", c.Data().Err)
	assert.Len(t, calcs.calcs, 1)
}

func TestCalculatorComputeInput(t *testing.T) {
	c := NewCalculator(nil)
	ctx := logger.NopContext()

	res, err := c.ComputeInput(ctx, "-", "10", " 4 ")
	require.NoError(t, err)
	assert.Equal(t, 6.0, res)

	_, err = c.ComputeInput(ctx, "+", "", "1")
	assert.ErrorIs(t, err, model.ErrMissingOperand)
}

func TestCalculatorAttr(t *testing.T) {
	c := NewCalculator(nil)
	for _, name := range []string{"a", "b", "operation", "result", "error", "bogus"} {
		assert.Equal(t, script.AttrAbsent, c.Attr(name).Kind, name)
	}

	_, err := c.Compute(logger.NopContext(), "+", 2, 3)
	require.NoError(t, err)

	v, kind := script.As[float64](c.Attr("result"))
	assert.Equal(t, script.AttrPresent, kind)
	assert.Equal(t, 5.0, v)

	op, kind := script.As[string](c.Attr("operation"))
	assert.Equal(t, script.AttrPresent, kind)
	assert.Equal(t, "+", op)
}

func TestCalculatorCall(t *testing.T) {
	c := NewCalculator(nil)
	ctx := logger.NopContext()

	res, err := c.Call(ctx, "compute", []any{"^", 2.0, 3.0})
	require.NoError(t, err)
	assert.Equal(t, 8.0, res)

	_, err = c.Call(ctx, "compute", []any{"+", "x", 1.0})
	assert.Error(t, err)
	_, err = c.Call(ctx, "compute", []any{"+"})
	assert.Error(t, err)
	_, err = c.Call(ctx, "launch", nil)
	assert.Error(t, err)

	_, err = c.Call(ctx, "clear", nil)
	require.NoError(t, err)
	assert.False(t, c.Data().Complete())
}

func TestStore(t *testing.T) {
	s := NewStore(NewCalculator(nil))
	assert.Equal(t, []string{"Calculator"}, s.Names())

	vm, ok := s.Lookup("Calculator")
	require.True(t, ok)
	assert.Equal(t, "Calculator", vm.Name())

	_, err := s.Must("Calculater")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `did you mean "Calculator"`)
}

func TestRestoreDoesNotRecord(t *testing.T) {
	rec := &fakeCalcs{}
	c := NewCalculator(rec)
	c.Restore(repository.Calculation{A: 2, B: 3, Operation: "+", Result: 5})

	res, ok := c.Result()
	require.True(t, ok)
	assert.Equal(t, 5.0, res)
	assert.True(t, c.Data().Complete())
	assert.Empty(t, rec.calcs)
}
