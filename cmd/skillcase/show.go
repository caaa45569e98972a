package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/skillcase/skillcase/pkg/presenter"
)

type ShowConfig struct {
	Body bool
}

func NewShowConfig() *ShowConfig {
	return &ShowConfig{
		Body: false,
	}
}

var showCmd = &cobra.Command{
	Use:   "show <slug>",
	Short: "Show a use-case document",
	Long: `Show a document's front matter, and with --body its Markdown body.

Examples:
  skillcase show build-mcp-server
  skillcase show build-mcp-server --body`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		config := getShowConfigFromFlags(cmd)
		runShow(cmd, args[0], config)
	},
}

func init() {
	defaults := NewShowConfig()
	showCmd.Flags().Bool("body", defaults.Body, "Print the Markdown body as well")
	rootCmd.AddCommand(showCmd)
}

func getShowConfigFromFlags(cmd *cobra.Command) *ShowConfig {
	config := NewShowConfig()
	if body, err := cmd.Flags().GetBool("body"); err == nil {
		config.Body = body
	}
	return config
}

func runShow(cmd *cobra.Command, slug string, config *ShowConfig) {
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

	doc, err := c.Get(slug)
	if err != nil {
		presenter.Error(err, "Document not found")
		os.Exit(1)
	}

	fm := doc.FrontMatter
	presenter.Section(fm.Title)
	presenter.Info(fmt.Sprintf("Slug:        %s", fm.Slug))
	presenter.Info(fmt.Sprintf("Category:    %s", fm.Category))
	presenter.Info(fmt.Sprintf("Skills:      %s", strings.Join(fm.Skills, ", ")))
	if len(fm.Tags) > 0 {
		presenter.Info(fmt.Sprintf("Tags:        %s", strings.Join(fm.Tags, ", ")))
	}
	presenter.Info(fmt.Sprintf("Path:        %s", doc.Path))
	presenter.Info(fmt.Sprintf("Description: %s", fm.Description))

	if config.Body {
		presenter.Separator()
		fmt.Println(doc.Body)
	}
}
