package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timerapp/timerapp-backend/pkg/migrate"
)

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := newRootCommand()
	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"up", "down", "status", "to-version", "create", "validate"} {
		assert.True(t, names[want], "missing %s", want)
	}
}

func TestCreateThenValidate(t *testing.T) {
	dir := t.TempDir()
	out := &bytes.Buffer{}

	root := newRootCommand()
	root.SetOut(out)
	root.SetArgs([]string{"--dir", dir, "create", "add streaks"})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "_add_streaks.sql")

	entries, err := os.ReadDir(filepath.Join(dir, migrate.SQLiteSubdir))
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	out.Reset()
	root = newRootCommand()
	root.SetOut(out)
	root.SetArgs([]string{"--dir", dir, "validate"})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "passed")
}

func TestToVersionRequiresArgument(t *testing.T) {
	root := newRootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"to-version"})
	assert.Error(t, root.Execute())
}

func TestDirForSQLite(t *testing.T) {
	assert.Equal(t, filepath.Join("m", "sqlite"), dirFor("m", migrate.DialectSQLite))
	assert.Equal(t, "m", dirFor("m", migrate.DialectPostgres))
}
