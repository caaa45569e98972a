package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPath(t *testing.T) {
	t.Run("base path override", func(t *testing.T) {
		t.Setenv("SKILLCASE_BASE_PATH", "/tmp/skillcase-test")
		path, err := DefaultPath()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join("/tmp/skillcase-test", "index.db"), path)
	})

	t.Run("home directory default", func(t *testing.T) {
		t.Setenv("SKILLCASE_BASE_PATH", "")
		path, err := DefaultPath()
		require.NoError(t, err)
		assert.Contains(t, path, ".skillcase")
		assert.Equal(t, "index.db", filepath.Base(path))
	})
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("creates database and parent directory", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "nested", "index.db")

		database, err := Open(ctx, dbPath)
		require.NoError(t, err)
		defer database.Close()

		var journalMode string
		require.NoError(t, database.QueryRowContext(ctx, "PRAGMA journal_mode").Scan(&journalMode))
		assert.Equal(t, "wal", journalMode)
	})

	t.Run("reopens existing database", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "index.db")

		database, err := Open(ctx, dbPath)
		require.NoError(t, err)
		_, err = database.ExecContext(ctx, "CREATE TABLE marker (id INTEGER PRIMARY KEY)")
		require.NoError(t, err)
		require.NoError(t, database.Close())

		database, err = Open(ctx, dbPath)
		require.NoError(t, err)
		defer database.Close()

		var count int
		require.NoError(t, database.GetContext(ctx, &count,
			"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'marker'"))
		assert.Equal(t, 1, count)
	})
}
