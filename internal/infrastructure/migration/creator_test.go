package migration

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"add users table", "add_users_table"},
		{"Add-Users-Table", "add_users_table"},
		{"ADD_USERS_TABLE", "add_users_table"},
		{"create areas!! of activity", "create_areas_of_activity"},
		{"--leading junk", "leading_junk"},
		{"trailing junk--", "trailing_junk"},
		{"v2 index", "v2_index"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizeName(tt.input), tt.input)
	}
}

func TestCreateMigration(t *testing.T) {
	t.Run("writes a versioned up and down pair", func(t *testing.T) {
		dir := t.TempDir()

		mf, err := CreateMigration(dir, "Add Alert Indexes", "Index alerts by tenant")
		require.NoError(t, err)

		assert.Regexp(t, regexp.MustCompile(`^\d{14}$`), mf.Version)
		assert.Equal(t, "add_alert_indexes", mf.Name)
		assert.Equal(t, filepath.Join(dir, mf.Version+"_add_alert_indexes.up.sql"), mf.UpPath)
		assert.Equal(t, filepath.Join(dir, mf.Version+"_add_alert_indexes.down.sql"), mf.DownPath)

		up, err := os.ReadFile(mf.UpPath)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(up), "-- Migration: add_alert_indexes\n"))
		assert.Contains(t, string(up), "-- Description: Index alerts by tenant")

		down, err := os.ReadFile(mf.DownPath)
		require.NoError(t, err)
		assert.Contains(t, string(down), "-- Description: reverts Index alerts by tenant")
	})

	t.Run("an empty description falls back to the name", func(t *testing.T) {
		dir := t.TempDir()

		mf, err := CreateMigration(dir, "add alert indexes", "")
		require.NoError(t, err)

		up, err := os.ReadFile(mf.UpPath)
		require.NoError(t, err)
		assert.Contains(t, string(up), "-- Description: add alert indexes")
	})

	t.Run("a missing directory is created", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "migrations")

		mf, err := CreateMigration(dir, "seed data", "")
		require.NoError(t, err)

		_, err = os.Stat(mf.UpPath)
		assert.NoError(t, err)
	})
}

func TestListMigrations(t *testing.T) {
	t.Run("lists up migrations by base name", func(t *testing.T) {
		dir := t.TempDir()
		for _, name := range []string{
			"20250301000001_first.up.sql",
			"20250301000001_first.down.sql",
			"20250301000002_second.up.sql",
			"20250301000002_second.down.sql",
			"notes.txt",
		} {
			require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
		}

		names, err := ListMigrations(dir)
		require.NoError(t, err)
		assert.Equal(t, []string{"20250301000001_first", "20250301000002_second"}, names)
	})

	t.Run("a missing directory lists as empty", func(t *testing.T) {
		names, err := ListMigrations(filepath.Join(t.TempDir(), "nope"))
		require.NoError(t, err)
		assert.Empty(t, names)
	})
}
