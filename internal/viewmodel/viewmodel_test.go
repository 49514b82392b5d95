package viewmodel

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jask/jaskcalc/internal/database/repository"
	"github.com/jask/jaskcalc/internal/logger"
	"github.com/jask/jaskcalc/internal/model"
	"github.com/jask/jaskcalc/internal/script"
)

type fakeRuns struct {
	runs []repository.Run
	err  error
}

func (f *fakeRuns) Insert(_ context.Context, r repository.Run) (repository.Run, error) {
	if f.err != nil {
		return r, f.err
	}
	f.runs = append(f.runs, r)
	return r, nil
}

type fakeCalcs struct {
	calcs []repository.Calculation
}

func (f *fakeCalcs) Insert(_ context.Context, c repository.Calculation) (repository.Calculation, error) {
	f.calcs = append(f.calcs, c)
	return c, nil
}

type fixture struct {
	dir     string
	scripts *Scripts
	calc    *Calculator
	runs    *fakeRuns
	ctx     context.Context
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	store := model.NewScripts(dir, nil)
	require.NoError(t, store.Seed())

	f := &fixture{dir: dir, runs: &fakeRuns{}, calc: NewCalculator(nil), ctx: logger.NopContext()}
	f.scripts = NewScripts(store, f.runs)
	f.scripts.Bind(nil, NewStore(f.calc, f.scripts), nil)
	require.NoError(t, f.scripts.RefreshScriptList())
	return f
}

func TestConsoleRunCapturesPrint(t *testing.T) {
	f := newFixture(t)
	f.scripts.SetCode("(print (+ 1 1))")
	f.scripts.RunConsoleCode(f.ctx)

	d := f.scripts.Data()
	assert.Contains(t, d.OutputLog, "2\n")
	assert.Equal(t, "2\n", d.ExecResult)
	require.Len(t, f.runs.runs, 1)
	assert.Equal(t, repository.SourceConsole, f.runs.runs[0].Source)
	assert.True(t, f.runs.runs[0].OK)
}

func TestEditorFaultLeavesConsoleUntouched(t *testing.T) {
	f := newFixture(t)
	f.scripts.SetCode(`(print "kept")`)
	f.scripts.RunConsoleCode(f.ctx)
	require.Equal(t, "kept\n", f.scripts.Data().ExecResult)

	require.NoError(t, f.scripts.NewScript("divide"))
	f.scripts.UpdateEditorContent(`(calc "/" 1 0)`)
	assert.NotPanics(t, func() { f.scripts.RunCurrentScript(f.ctx) })

	d := f.scripts.Data()
	assert.Contains(t, d.OutputLog, "Traceback")
	assert.Contains(t, d.OutputLog, "division by zero")
	assert.Equal(t, "kept\n", d.ExecResult)

	tab, ok := f.scripts.CurrentTab()
	require.True(t, ok)
	assert.Equal(t, d.OutputLog, tab.Output)

	last := f.runs.runs[len(f.runs.runs)-1]
	assert.Equal(t, repository.SourceEditor, last.Source)
	assert.Equal(t, "divide.lisp", last.Script)
	assert.False(t, last.OK)
}

func TestConsoleFaultGoesToExecResult(t *testing.T) {
	f := newFixture(t)
	f.scripts.SetCode("(print 1)\n(undefined-thing)")
	f.scripts.RunConsoleCode(f.ctx)

	d := f.scripts.Data()
	assert.Contains(t, d.ExecResult, "1\n")
	assert.Contains(t, d.ExecResult, "Traceback")
	assert.NotContains(t, d.OutputLog, "Traceback")
}

func TestEditorRunResetsOutputLog(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.scripts.NewScript("a"))
	f.scripts.UpdateEditorContent(`(print "one")`)
	f.scripts.RunCurrentScript(f.ctx)
	f.scripts.RunCurrentScript(f.ctx)
	assert.Equal(t, "one\n", f.scripts.Data().OutputLog)

	f.scripts.ClearOutput()
	assert.Empty(t, f.scripts.Data().OutputLog)
	tab, _ := f.scripts.CurrentTab()
	assert.Empty(t, tab.Output)
}

func TestRunRecordingFailureDoesNotFailRun(t *testing.T) {
	f := newFixture(t)
	f.runs.err = errors.New("disk full")
	ctx, logs := logger.TestContext()
	f.scripts.SetCode("(print 3)")
	f.scripts.RunConsoleCode(ctx)
	assert.Equal(t, "3\n", f.scripts.Data().ExecResult)
	assert.Equal(t, 1, logs.FilterMessage("record run failed").Len())
}

func TestDefinitionsPersistBetweenConsoleRuns(t *testing.T) {
	f := newFixture(t)
	f.scripts.SetCode("(define total 10)")
	f.scripts.RunConsoleCode(f.ctx)
	f.scripts.SetCode("(print (* total 2))")
	f.scripts.RunConsoleCode(f.ctx)
	assert.Equal(t, "20\n", f.scripts.Data().ExecResult)
}

func TestLastOperationScript(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.scripts.OpenScript("last-operation"))

	f.scripts.RunCurrentScript(f.ctx)
	assert.Equal(t, "Some values are missing.\n", f.scripts.Data().OutputLog)

	_, err := f.calc.Compute(f.ctx, "+", 2, 3)
	require.NoError(t, err)
	f.scripts.RunCurrentScript(f.ctx)
	assert.Equal(t, "2 + 3 = 5\n", f.scripts.Data().OutputLog)
}

func TestLoadScriptFillsEditorAndConsole(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.scripts.LoadScript("hello.lisp"))
	d := f.scripts.Data()
	assert.Contains(t, d.EditorContent, "Hello from jaskcalc")
	assert.Equal(t, d.EditorContent, d.Code)
	assert.Equal(t, []string{"hello.lisp", "last-operation.lisp"}, d.ScriptList)
}

func TestOpenEditSaveClose(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.scripts.OpenScript("hello"))
	require.NoError(t, f.scripts.OpenScript("hello.lisp"))
	assert.Equal(t, []string{"hello.lisp"}, f.scripts.TabNames())

	f.scripts.UpdateEditorContent("(print 42)")
	tab, _ := f.scripts.CurrentTab()
	assert.True(t, tab.Dirty)

	assert.False(t, f.scripts.RequestClose("hello.lisp"))
	assert.Equal(t, "hello.lisp", f.scripts.ConfirmingClose)

	require.NoError(t, f.scripts.ConfirmClose(true))
	assert.Empty(t, f.scripts.ConfirmingClose)
	assert.Empty(t, f.scripts.Tabs())

	data, err := os.ReadFile(filepath.Join(f.dir, "hello.lisp"))
	require.NoError(t, err)
	assert.Equal(t, "(print 42)", string(data))
}

func TestCloseWithoutSaving(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.scripts.OpenScript("hello"))
	f.scripts.UpdateEditorContent("(print 42)")
	require.False(t, f.scripts.RequestClose("hello.lisp"))

	f.scripts.CancelClose()
	assert.Empty(t, f.scripts.ConfirmingClose)
	assert.Len(t, f.scripts.Tabs(), 1)

	require.False(t, f.scripts.RequestClose("hello.lisp"))
	require.NoError(t, f.scripts.ConfirmClose(false))
	assert.Empty(t, f.scripts.Tabs())
	assert.Empty(t, f.scripts.Data().CurrentTab)

	data, err := os.ReadFile(filepath.Join(f.dir, "hello.lisp"))
	require.NoError(t, err)
	assert.NotEqual(t, "(print 42)", string(data))
}

func TestCleanTabClosesImmediately(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.scripts.OpenScript("hello"))
	require.NoError(t, f.scripts.OpenScript("last-operation"))
	require.NoError(t, f.scripts.SelectTab("hello.lisp"))

	assert.True(t, f.scripts.RequestClose("hello.lisp"))
	assert.Equal(t, "last-operation.lisp", f.scripts.Data().CurrentTab)
	assert.False(t, f.scripts.RequestClose("missing.lisp"))
}

func TestReloadDiscardsEdits(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.scripts.OpenScript("hello"))
	orig := f.scripts.Data().EditorContent
	f.scripts.UpdateEditorContent("junk")

	require.NoError(t, f.scripts.ReloadCurrentScript())
	tab, _ := f.scripts.CurrentTab()
	assert.False(t, tab.Dirty)
	assert.Equal(t, orig, tab.Content)
	assert.Equal(t, orig, f.scripts.Data().EditorContent)
}

func TestNoTabErrors(t *testing.T) {
	f := newFixture(t)
	assert.ErrorIs(t, f.scripts.SaveScript(""), ErrNoTab)
	assert.ErrorIs(t, f.scripts.ReloadCurrentScript(), ErrNoTab)
	assert.ErrorIs(t, f.scripts.SelectTab("x.lisp"), ErrNoTab)
}

func TestCycleTab(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.scripts.OpenScript("hello"))
	require.NoError(t, f.scripts.OpenScript("last-operation"))
	f.scripts.CycleTab(1)
	assert.Equal(t, "hello.lisp", f.scripts.Data().CurrentTab)
	f.scripts.CycleTab(-1)
	assert.Equal(t, "last-operation.lisp", f.scripts.Data().CurrentTab)
}

func TestRestoreSessionSkipsMissing(t *testing.T) {
	f := newFixture(t)
	ctx, logs := logger.TestContext()
	f.scripts.RestoreSession(ctx, []string{"hello.lisp", "gone.lisp", "last-operation.lisp"}, "hello.lisp")
	assert.Equal(t, []string{"hello.lisp", "last-operation.lisp"}, f.scripts.TabNames())
	assert.Equal(t, "hello.lisp", f.scripts.Data().CurrentTab)
	assert.Equal(t, 1, logs.FilterMessage("restore tab failed").Len())
}

func TestScriptsAttrAndCall(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, script.AttrAbsent, f.scripts.Attr("current_tab").Kind)
	assert.Equal(t, script.AttrAbsent, f.scripts.Attr("nope").Kind)

	_, err := f.scripts.Call(f.ctx, "open", []any{"hello"})
	require.NoError(t, err)
	v, kind := script.As[string](f.scripts.Attr("current_tab"))
	assert.Equal(t, script.AttrPresent, kind)
	assert.Equal(t, "hello.lisp", v)

	_, err = f.scripts.Call(f.ctx, "open", []any{1.0})
	assert.Error(t, err)
	_, err = f.scripts.Call(f.ctx, "explode", nil)
	assert.Error(t, err)
}

func TestScriptsFromScript(t *testing.T) {
	f := newFixture(t)
	f.scripts.SetCode(`(define vm (store-get vm-store "Scripts"))
(vm-call vm "open" "hello")
(print (attr vm "current_tab"))`)
	f.scripts.RunConsoleCode(f.ctx)
	assert.Equal(t, "hello.lisp\n", f.scripts.Data().ExecResult)
	assert.Equal(t, []string{"hello.lisp"}, f.scripts.TabNames())
}

func TestRunHeadless(t *testing.T) {
	f := newFixture(t)
	out, err := f.scripts.RunHeadless(f.ctx, "inline", `(print "a" (+ 1 2))`)
	require.NoError(t, err)
	assert.Equal(t, "a 3\n", out)

	out, err = f.scripts.RunHeadless(f.ctx, "broken", "(print 1)\n(nope)")
	require.Error(t, err)
	assert.Contains(t, out, "1\n")
	assert.Contains(t, out, "Traceback")

	require.Len(t, f.runs.runs, 2)
	assert.Equal(t, repository.SourceCLI, f.runs.runs[0].Source)
	assert.False(t, f.runs.runs[1].OK)
}

func TestRunHeadlessSurvivesClearedLog(t *testing.T) {
	f := newFixture(t)
	f.scripts.SetCode(`(print "earlier")`)
	f.scripts.RunConsoleCode(f.ctx)
	require.Equal(t, "earlier\n", f.scripts.Data().OutputLog)

	src := `(vm-call (store-get vm-store "Scripts") "clear-output")
(print "after")`
	out, err := f.scripts.RunHeadless(f.ctx, "clear.lisp", src)
	require.NoError(t, err)
	assert.Equal(t, "after\n", out)
	assert.Equal(t, "after\n", f.scripts.Data().OutputLog)
}
