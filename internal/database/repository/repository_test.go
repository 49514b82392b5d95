package repository_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jask/jaskcalc/internal/database"
	"github.com/jask/jaskcalc/internal/database/repository"
)

func openDB(t *testing.T) *repository.RunRepo {
	t.Helper()
	db, err := database.OpenMigrated(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return repository.NewRunRepo(db)
}

func TestRunRepoInsertAndRecent(t *testing.T) {
	ctx := context.Background()
	db, err := database.OpenMigrated(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer db.Close()
	runs := repository.NewRunRepo(db)

	old := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	first, err := runs.Insert(ctx, repository.Run{Source: repository.SourceEditor, Script: "a.lisp", Code: "(print 1)", OK: true, Output: "1\n", CreatedAt: old})
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)

	second, err := runs.Insert(ctx, repository.Run{Source: repository.SourceConsole, Code: "(boom)", OK: false, Output: "trace"})
	require.NoError(t, err)
	assert.False(t, second.CreatedAt.IsZero())

	list, err := runs.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.False(t, list[0].OK)
	assert.Equal(t, "a.lisp", list[1].Script)
	assert.True(t, list[1].OK)

	list, err = runs.Recent(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	got, err := runs.ByID(ctx, first.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "1\n", got.Output)

	missing, err := runs.ByID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	n, err := runs.Prune(ctx, old.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestRunRepoRejectsUnknownSource(t *testing.T) {
	runs := openDB(t)
	_, err := runs.Insert(context.Background(), repository.Run{Source: "radio", Code: "x"})
	assert.Error(t, err)
}

func TestCalculationRepo(t *testing.T) {
	ctx := context.Background()
	db, err := database.OpenMigrated(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer db.Close()
	calcs := repository.NewCalculationRepo(db)

	last, err := calcs.Last(ctx)
	require.NoError(t, err)
	assert.Nil(t, last)

	_, err = calcs.Insert(ctx, repository.Calculation{A: 2, B: 3, Operation: "+", Result: 5, CreatedAt: time.Now().Add(-time.Minute)})
	require.NoError(t, err)
	_, err = calcs.Insert(ctx, repository.Calculation{A: 9, B: 3, Operation: "/", Result: 3})
	require.NoError(t, err)

	last, err = calcs.Last(ctx)
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, "/", last.Operation)
	assert.Equal(t, 3.0, last.Result)
}
