package db

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMigrations() []Migration {
	return []Migration{
		{
			Version:     20250101000000,
			Description: "create widgets table",
			Up: func(tx *sql.Tx) error {
				_, err := tx.Exec("CREATE TABLE widgets (id INTEGER PRIMARY KEY, name TEXT)")
				return err
			},
			Down: func(tx *sql.Tx) error {
				_, err := tx.Exec("DROP TABLE widgets")
				return err
			},
		},
		{
			Version:     20250201000000,
			Description: "add widgets index",
			Up: func(tx *sql.Tx) error {
				_, err := tx.Exec("CREATE INDEX idx_widgets_name ON widgets(name)")
				return err
			},
			Down: func(tx *sql.Tx) error {
				_, err := tx.Exec("DROP INDEX idx_widgets_name")
				return err
			},
		},
	}
}

func TestMigrationRunnerRun(t *testing.T) {
	ctx := context.Background()
	database, err := Open(ctx, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer database.Close()

	runner := NewMigrationRunner(database)
	require.NoError(t, runner.Run(ctx, testMigrations()))

	versions, err := runner.GetAppliedVersions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{20250101000000, 20250201000000}, versions)

	// Second run is a no-op
	require.NoError(t, runner.Run(ctx, testMigrations()))
	versions, err = runner.GetAppliedVersions(ctx)
	require.NoError(t, err)
	assert.Len(t, versions, 2)
}

func TestMigrationRunnerRunOutOfOrder(t *testing.T) {
	ctx := context.Background()
	database, err := Open(ctx, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer database.Close()

	migrations := testMigrations()
	migrations[0], migrations[1] = migrations[1], migrations[0]

	runner := NewMigrationRunner(database)
	require.NoError(t, runner.Run(ctx, migrations))

	versions, err := runner.GetAppliedVersions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{20250101000000, 20250201000000}, versions)
}

func TestMigrationRunnerRollback(t *testing.T) {
	ctx := context.Background()
	database, err := Open(ctx, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer database.Close()

	runner := NewMigrationRunner(database)
	migrations := testMigrations()
	require.NoError(t, runner.Run(ctx, migrations))

	require.NoError(t, runner.Rollback(ctx, migrations))

	versions, err := runner.GetAppliedVersions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{20250101000000}, versions)

	// Rolling back with nothing applied is a no-op
	require.NoError(t, runner.Rollback(ctx, migrations))
	require.NoError(t, runner.Rollback(ctx, migrations))

	versions, err = runner.GetAppliedVersions(ctx)
	require.NoError(t, err)
	assert.Empty(t, versions)
}

func TestMigrationRunnerRollbackWithoutDown(t *testing.T) {
	ctx := context.Background()
	database, err := Open(ctx, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer database.Close()

	migrations := []Migration{{
		Version:     20250101000000,
		Description: "irreversible",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec("CREATE TABLE once (id INTEGER PRIMARY KEY)")
			return err
		},
	}}

	runner := NewMigrationRunner(database)
	require.NoError(t, runner.Run(ctx, migrations))

	err = runner.Rollback(ctx, migrations)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no rollback function")
}
