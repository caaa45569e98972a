package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/skillcase/skillcase/pkg/corpus"
	"github.com/skillcase/skillcase/pkg/presenter"
)

type ListConfig struct {
	Category string
	Skill    string
	Tag      string
	Format   string
}

func NewListConfig() *ListConfig {
	return &ListConfig{
		Format: "table",
	}
}

type ListEntry struct {
	Slug        string   `json:"slug"`
	Title       string   `json:"title"`
	Category    string   `json:"category"`
	Skills      []string `json:"skills"`
	Description string   `json:"description"`
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List use-case documents",
	Long: `List use-case documents, optionally filtered by category, skill, or
tag. Skill and tag filters accept glob patterns:

  skillcase list --category devops
  skillcase list --skill 'kafka-*'
  skillcase list --tag onboarding --format json`,
	Run: func(cmd *cobra.Command, _ []string) {
		config := getListConfigFromFlags(cmd)
		runList(cmd, config)
	},
}

func init() {
	defaults := NewListConfig()
	listCmd.Flags().String("category", defaults.Category, "Filter by category")
	listCmd.Flags().String("skill", defaults.Skill, "Filter by skill (glob pattern)")
	listCmd.Flags().String("tag", defaults.Tag, "Filter by tag (glob pattern)")
	listCmd.Flags().String("format", defaults.Format, "Output format (table, json)")
	rootCmd.AddCommand(listCmd)
}

func getListConfigFromFlags(cmd *cobra.Command) *ListConfig {
	config := NewListConfig()
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
	return config
}

func runList(cmd *cobra.Command, config *ListConfig) {
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

	docs, err := c.Select(corpus.Filter{
		Category: config.Category,
		Skill:    config.Skill,
		Tag:      config.Tag,
	})
	if err != nil {
		presenter.Error(err, "Invalid filter")
		os.Exit(1)
	}

	if len(docs) == 0 {
		presenter.Info("No documents matched")
		return
	}

	entries := make([]ListEntry, 0, len(docs))
	for _, doc := range docs {
		fm := doc.FrontMatter
		entries = append(entries, ListEntry{
			Slug:        fm.Slug,
			Title:       fm.Title,
			Category:    fm.Category,
			Skills:      fm.Skills,
			Description: fm.Description,
		})
	}

	if config.Format == "json" {
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			presenter.Error(err, "Failed to encode documents")
			os.Exit(1)
		}
		fmt.Println(string(data))
		return
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SLUG\tCATEGORY\tSKILLS\tTITLE")
	fmt.Fprintln(tw, "----\t--------\t------\t-----")
	for _, entry := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			entry.Slug, entry.Category, strings.Join(entry.Skills, ","), entry.Title)
	}
	tw.Flush()
}
