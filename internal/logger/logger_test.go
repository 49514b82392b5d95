package logger

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFromContextFallsBackToGlobal(t *testing.T) {
	require.Same(t, zap.L(), FromContext(context.Background()))
}

func TestWithAddsFields(t *testing.T) {
	ctx, logs := TestContext()
	ctx = With(ctx, zap.String("panel", "editor"))

	FromContext(ctx).Info("hello")

	entries := logs.All()
	require.Len(t, entries, 1)
	require.Equal(t, "hello", entries[0].Message)
	require.Equal(t, "editor", entries[0].ContextMap()["panel"])
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "jaskcalc.log")
	l, err := New(path, "debug")
	require.NoError(t, err)

	l.Debug("written")
	_ = l.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "written")
}

func TestNewWithoutPathIsNop(t *testing.T) {
	l, err := New("", "info")
	require.NoError(t, err)
	require.NotNil(t, l)
}
