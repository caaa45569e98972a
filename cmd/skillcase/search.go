package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/skillcase/skillcase/pkg/index"
	"github.com/skillcase/skillcase/pkg/presenter"
)

type SearchConfig struct {
	Category string
	Skill    string
	Tag      string
	Format   string
	DBPath   string
}

func NewSearchConfig() *SearchConfig {
	return &SearchConfig{
		Format: "table",
	}
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the corpus index",
	Long: `Search indexed documents by slug, title, or description. Filters
match exactly (run 'skillcase index' first to build the index):

  skillcase search kafka
  skillcase search "feature flag" --category devops
  skillcase search invoice --skill pdf-merge-split --format json`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		config := getSearchConfigFromFlags(cmd)
		runSearch(cmd, args[0], config)
	},
}

func init() {
	defaults := NewSearchConfig()
	searchCmd.Flags().String("category", defaults.Category, "Filter by category")
	searchCmd.Flags().String("skill", defaults.Skill, "Filter by skill")
	searchCmd.Flags().String("tag", defaults.Tag, "Filter by tag")
	searchCmd.Flags().String("format", defaults.Format, "Output format (table, json)")
	searchCmd.Flags().String("db", defaults.DBPath, "Index database path (defaults to ~/.skillcase/index.db)")
	rootCmd.AddCommand(searchCmd)
}

func getSearchConfigFromFlags(cmd *cobra.Command) *SearchConfig {
	config := NewSearchConfig()
	if category, err := cmd.Flags().GetString("category"); err == nil {
		config.Category = category
	}
	if skill, err := cmd.Flags().GetString("skill"); err == nil {
		config.Skill = skill
	}
	if tag, err := cmd.Flags().GetString("tag"); err == nil {
		config.Tag = tag
	}
	if format, err := cmd.Flags().GetString("format"); err == nil {
		config.Format = format
	}
	if dbPath, err := cmd.Flags().GetString("db"); err == nil {
		config.DBPath = dbPath
	}
	return config
}

func runSearch(cmd *cobra.Command, query string, config *SearchConfig) {
	ctx := cmd.Context()

	idx, err := index.Open(ctx, config.DBPath)
	if err != nil {
		presenter.Error(err, "Failed to open index")
		os.Exit(1)
	}
	defer idx.Close()

	entries, err := idx.Search(ctx, query, index.SearchFilter{
		Category: config.Category,
		Skill:    config.Skill,
		Tag:      config.Tag,
	})
	if err != nil {
		presenter.Error(err, "Search failed")
		os.Exit(1)
	}

	if len(entries) == 0 {
		presenter.Info("No documents matched")
		return
	}

	if config.Format == "json" {
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			presenter.Error(err, "Failed to encode results")
			os.Exit(1)
		}
		fmt.Println(string(data))
		return
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SLUG\tCATEGORY\tTITLE")
	fmt.Fprintln(tw, "----\t--------\t-----")
	for _, entry := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", entry.Slug, entry.Category, entry.Title)
	}
	tw.Flush()
}
