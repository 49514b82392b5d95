package shortcut

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jask/jaskcalc/internal/logger"
)

type testApp struct {
	name    string
	seen    []any
	results []any
}

func newShortcut(id string, b Binding[*testApp]) Shortcut[*testApp] {
	return Shortcut[*testApp]{
		ID:          id,
		Keys:        []string{"ctrl+s"},
		Category:    "scripts",
		Context:     []string{"editor"},
		Description: "save script",
		Binding:     b,
	}
}

func TestInvokeWithoutHooksPassesOnlyApp(t *testing.T) {
	ctx, logs := logger.TestContext()
	app := &testApp{name: "calc"}

	var gotApp *testApp
	var gotArgs []any
	s := newShortcut("save", Binding[*testApp]{
		Target: func(a *testApp, args ...any) (any, error) {
			gotApp = a
			gotArgs = args
			return nil, nil
		},
	})

	require.NoError(t, s.Invoke(ctx, app))
	assert.Same(t, app, gotApp)
	assert.Empty(t, gotArgs)

	entries := logs.FilterMessage("Executing shortcut 'save'").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "save", entries[0].ContextMap()["shortcut"])
}

func TestInvokeWithPreProcessPassesSingleArgument(t *testing.T) {
	app := &testApp{}
	var gotArgs []any
	s := newShortcut("reuse", Binding[*testApp]{
		PreProcess: func(a *testApp) (any, error) { return 42.0, nil },
		Target: func(a *testApp, args ...any) (any, error) {
			gotArgs = args
			return "done", nil
		},
	})

	require.NoError(t, s.Invoke(logger.NopContext(), app))
	require.Len(t, gotArgs, 1)
	assert.Equal(t, 42.0, gotArgs[0])
}

func TestInvokePostProcessReceivesResult(t *testing.T) {
	app := &testApp{}
	s := newShortcut("compute", Binding[*testApp]{
		Target: func(a *testApp, args ...any) (any, error) { return 7, nil },
		PostProcess: func(a *testApp, result any) {
			a.results = append(a.results, result)
		},
	})

	require.NoError(t, s.Invoke(logger.NopContext(), app))
	assert.Equal(t, []any{7}, app.results)
}

func TestInvokeWithoutTargetIsConfigurationError(t *testing.T) {
	ctx, logs := logger.TestContext()
	pre := false
	s := newShortcut("broken", Binding[*testApp]{
		PreProcess: func(a *testApp) (any, error) {
			pre = true
			return nil, nil
		},
	})

	err := s.Invoke(ctx, &testApp{})
	require.ErrorIs(t, err, ErrMissingTarget)
	assert.False(t, pre, "pre-process must not run without a target")
	assert.Equal(t, 1, logs.FilterMessage("Executing shortcut 'broken'").Len())
}

func TestInvokePreProcessErrorSkipsTarget(t *testing.T) {
	boom := errors.New("boom")
	called := false
	s := newShortcut("reuse", Binding[*testApp]{
		PreProcess: func(a *testApp) (any, error) { return nil, boom },
		Target: func(a *testApp, args ...any) (any, error) {
			called = true
			return nil, nil
		},
	})

	err := s.Invoke(context.Background(), &testApp{})
	require.ErrorIs(t, err, boom)
	assert.False(t, called)
}

func TestInvokeTargetErrorSkipsPostProcess(t *testing.T) {
	boom := errors.New("division by zero")
	post := false
	s := newShortcut("compute", Binding[*testApp]{
		Target:      func(a *testApp, args ...any) (any, error) { return nil, boom },
		PostProcess: func(a *testApp, result any) { post = true },
	})

	err := s.Invoke(logger.NopContext(), &testApp{})
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), `"compute"`)
	assert.False(t, post)
}

func TestToMapHasExactlySixFields(t *testing.T) {
	s := newShortcut("save", Binding[*testApp]{
		Target: func(a *testApp, args ...any) (any, error) { return nil, nil },
	})
	s.EnableThreading = true

	m := s.ToMap()
	require.Len(t, m, 6)
	assert.Equal(t, "save", m["id"])
	assert.Equal(t, []string{"ctrl+s"}, m["keys"])
	assert.Equal(t, "scripts", m["category"])
	assert.Equal(t, []string{"editor"}, m["context"])
	assert.Equal(t, "save script", m["description"])
	assert.Equal(t, true, m["enable_threading"])
	assert.NotContains(t, m, "binding")
	assert.NotContains(t, m, "bindings")
}

func TestRecordCopiesSlices(t *testing.T) {
	s := newShortcut("save", Binding[*testApp]{})
	r := s.Record()
	r.Keys[0] = "x"
	assert.Equal(t, "ctrl+s", s.Keys[0])
}

func TestActiveIn(t *testing.T) {
	s := newShortcut("save", Binding[*testApp]{})
	assert.True(t, s.ActiveIn("editor"))
	assert.False(t, s.ActiveIn("console"))

	s.Context = []string{GlobalContext}
	assert.True(t, s.ActiveIn("console"))

	s.Context = nil
	assert.True(t, s.ActiveIn("anything"))
}
