package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/skillcase/skillcase/pkg/index"
	"github.com/skillcase/skillcase/pkg/presenter"
)

type IndexConfig struct {
	DBPath string
}

func NewIndexConfig() *IndexConfig {
	return &IndexConfig{
		DBPath: "",
	}
}

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Rebuild the corpus search index",
	Long: `Rebuild the SQLite search index from the corpus. The index lives at
~/.skillcase/index.db by default (SKILLCASE_BASE_PATH overrides the
directory).`,
	Run: func(cmd *cobra.Command, _ []string) {
		config := getIndexConfigFromFlags(cmd)
		runIndex(cmd, config)
	},
}

func init() {
	defaults := NewIndexConfig()
	indexCmd.Flags().String("db", defaults.DBPath, "Index database path (defaults to ~/.skillcase/index.db)")
	rootCmd.AddCommand(indexCmd)
}

func getIndexConfigFromFlags(cmd *cobra.Command) *IndexConfig {
	config := NewIndexConfig()
	if dbPath, err := cmd.Flags().GetString("db"); err == nil {
		config.DBPath = dbPath
	}
	return config
}

func runIndex(cmd *cobra.Command, config *IndexConfig) {
	ctx := cmd.Context()

	loader, err := newLoaderFromConfig()
	if err != nil {
		presenter.Error(err, "Failed to configure corpus loader")
		os.Exit(1)
	}

	c, err := loader.Load(ctx)
	if err != nil {
		presenter.Error(err, "Failed to load corpus")
		os.Exit(1)
	}

	idx, err := index.Open(ctx, config.DBPath)
	if err != nil {
		presenter.Error(err, "Failed to open index")
		os.Exit(1)
	}
	defer idx.Close()

	if err := idx.Rebuild(ctx, c); err != nil {
		presenter.Error(err, "Failed to rebuild index")
		os.Exit(1)
	}

	presenter.Success(fmt.Sprintf("Indexed %d documents", c.Len()))
}
