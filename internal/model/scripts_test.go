package model

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jask/jaskcalc/internal/logger"
	"github.com/jask/jaskcalc/internal/script"
)

func TestSeedWritesBundledScriptsOnce(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "scripts")
	s := NewScripts(dir, nil)
	require.NoError(t, s.Seed())

	names, err := s.ListScripts()
	require.NoError(t, err)
	assert.Equal(t, []string{"hello.lisp", "last-operation.lisp"}, names)

	require.NoError(t, s.SaveScript("hello.lisp", "(print 1)"))
	require.NoError(t, s.Seed())
	text, err := s.LoadScript("hello")
	require.NoError(t, err)
	assert.Equal(t, "(print 1)", text)
}

func TestListScriptsSkipsOtherFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.lisp"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.lisp"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), nil, 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.lisp"), 0o755))

	names, err := NewScripts(dir, nil).ListScripts()
	require.NoError(t, err)
	assert.Equal(t, []string{"a.lisp", "b.lisp"}, names)
}

func TestListScriptsMissingDir(t *testing.T) {
	names, err := NewScripts(filepath.Join(t.TempDir(), "nope"), nil).ListScripts()
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestSaveAndLoadScript(t *testing.T) {
	s := NewScripts(filepath.Join(t.TempDir(), "scripts"), nil)
	require.NoError(t, s.SaveScript("sum", "(print (+ 1 2))"))

	text, err := s.LoadScript("sum.lisp")
	require.NoError(t, err)
	assert.Equal(t, "(print (+ 1 2))", text)

	_, err = s.LoadScript("missing")
	assert.Error(t, err)
}

func TestNormalizeScriptName(t *testing.T) {
	n, err := NormalizeScriptName(" calc ")
	require.NoError(t, err)
	assert.Equal(t, "calc.lisp", n)

	for _, bad := range []string{"", "..", "a/b", `a\b`} {
		_, err := NormalizeScriptName(bad)
		assert.ErrorIs(t, err, ErrInvalidScriptName, bad)
	}
}

func TestRunCode(t *testing.T) {
	var out strings.Builder
	scope := script.NewScope("model-run", nil, nil, nil, func(args ...string) {
		out.WriteString(script.Line(args...))
	})
	s := NewScripts(t.TempDir(), nil)
	require.NoError(t, s.RunCode(logger.NopContext(), "inline", "(print (* 6 7))", scope))
	assert.Equal(t, "42\n", out.String())
}

func TestLastOperationSeedWithoutCalculator(t *testing.T) {
	dir := t.TempDir()
	s := NewScripts(dir, nil)
	require.NoError(t, s.Seed())
	text, err := s.LoadScript("last-operation.lisp")
	require.NoError(t, err)

	var out strings.Builder
	scope := script.NewScope("model-last-op", nil, nil, nil, func(args ...string) {
		out.WriteString(script.Line(args...))
	})
	require.NoError(t, s.RunCode(logger.NopContext(), "last-operation.lisp", text, scope))
	assert.Equal(t, "Calculator view model not found\n", out.String())
}
