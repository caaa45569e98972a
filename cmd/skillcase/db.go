package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/skillcase/skillcase/pkg/index"
	"github.com/skillcase/skillcase/pkg/presenter"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the index database",
	Long:  `Commands for managing the search index database (migration status, rollback).`,
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Help()
	},
}

var dbStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show index migration status",
	Long:  `Shows which index schema migrations have been applied.`,
	Run: func(cmd *cobra.Command, _ []string) {
		runDBStatus(cmd)
	},
}

var dbRollbackCmd = &cobra.Command{
	Use:   "rollback",
	Short: "Roll back the last index migration",
	Long: `Rolls back the most recently applied index schema migration. The next
index command re-applies it, so this is mainly useful when downgrading
skillcase.`,
	Run: func(cmd *cobra.Command, _ []string) {
		runDBRollback(cmd)
	},
}

func init() {
	dbCmd.PersistentFlags().String("db", "", "Index database path (defaults to ~/.skillcase/index.db)")
	dbCmd.AddCommand(dbStatusCmd)
	dbCmd.AddCommand(dbRollbackCmd)
	rootCmd.AddCommand(dbCmd)
}

func dbPathFromFlags(cmd *cobra.Command) string {
	path, err := cmd.Flags().GetString("db")
	if err != nil {
		return ""
	}
	return path
}

func runDBStatus(cmd *cobra.Command) {
	ctx := cmd.Context()

	idx, err := index.Open(ctx, dbPathFromFlags(cmd))
	if err != nil {
		presenter.Error(err, "Failed to open index")
		os.Exit(1)
	}
	defer idx.Close()

	applied, err := idx.AppliedVersions(ctx)
	if err != nil {
		presenter.Error(err, "Failed to read migration status")
		os.Exit(1)
	}

	appliedSet := make(map[int64]bool, len(applied))
	for _, v := range applied {
		appliedSet[v] = true
	}

	presenter.Section("Index migrations")
	for _, m := range index.Migrations {
		status := "[ ]"
		if appliedSet[m.Version] {
			status = "[x]"
		}
		presenter.Info(fmt.Sprintf("%s %d - %s", status, m.Version, m.Description))
	}
	presenter.Info(fmt.Sprintf("Applied: %d/%d", len(applied), len(index.Migrations)))
}

func runDBRollback(cmd *cobra.Command) {
	ctx := cmd.Context()

	idx, err := index.Open(ctx, dbPathFromFlags(cmd))
	if err != nil {
		presenter.Error(err, "Failed to open index")
		os.Exit(1)
	}
	defer idx.Close()

	applied, err := idx.AppliedVersions(ctx)
	if err != nil {
		presenter.Error(err, "Failed to read migration status")
		os.Exit(1)
	}
	if len(applied) == 0 {
		presenter.Warning("No migrations to roll back")
		return
	}

	last := applied[len(applied)-1]
	var description string
	for _, m := range index.Migrations {
		if m.Version == last {
			description = m.Description
			break
		}
	}

	presenter.Info(fmt.Sprintf("Rolling back migration %d: %s", last, description))
	if err := idx.RollbackMigration(ctx); err != nil {
		presenter.Error(err, "Failed to roll back migration")
		os.Exit(1)
	}
	presenter.Success(fmt.Sprintf("Rolled back migration %d", last))
}
