package prefs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "session.json")
	want := Session{OpenTabs: []string{"hello.lisp", "sum.lisp"}, CurrentTab: "sum.lisp"}
	require.NoError(t, SaveSession(path, want))

	got, err := LoadSession(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadSessionMissing(t *testing.T) {
	got, err := LoadSession(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, err)
	assert.Equal(t, Session{}, got)
}

func TestLoadSessionCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o600))
	_, err := LoadSession(path)
	assert.Error(t, err)
}
