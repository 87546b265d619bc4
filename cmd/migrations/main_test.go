package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/robinjoseph08/golib/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runMigrations(t *testing.T, args ...string) string {
	t.Helper()
	out := &bytes.Buffer{}
	err := newApp(logger.New(), out).Run(append([]string{"migrations"}, args...))
	require.NoError(t, err)
	return out.String()
}

func TestMigrationsCLI(t *testing.T) {
	t.Setenv("CONFIG_FILE", "/nonexistent/config.yaml")
	t.Setenv("DATABASE_FILE_PATH", filepath.Join(t.TempDir(), "catalog.db"))
	t.Setenv("JWT_SECRET", "cli-secret")

	out := runMigrations(t, "status")
	assert.Contains(t, out, "20260301000000")
	assert.Contains(t, out, "pending")
	assert.Contains(t, out, "0 applied, 1 pending")

	out = runMigrations(t, "migrate")
	assert.Contains(t, out, "Migrated to group 1")
	assert.Contains(t, out, "20260301000000")

	out = runMigrations(t, "migrate")
	assert.Contains(t, out, "There are no new migrations to run")

	out = runMigrations(t, "status")
	assert.Contains(t, out, "applied (group 1")
	assert.Contains(t, out, "1 applied, 0 pending")

	out = runMigrations(t, "rollback")
	assert.Contains(t, out, "Rolled back group 1")

	out = runMigrations(t, "rollback")
	assert.Contains(t, out, "There are no groups to roll back")
}

func TestMigrationsCLI_MissingConfig(t *testing.T) {
	t.Setenv("CONFIG_FILE", "/nonexistent/config.yaml")
	t.Setenv("DATABASE_FILE_PATH", "")
	t.Setenv("JWT_SECRET", "")

	err := newApp(logger.New(), &bytes.Buffer{}).Run([]string{"migrations", "status"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required config")
}
