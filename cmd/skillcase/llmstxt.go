package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/skillcase/skillcase/pkg/llmstxt"
	"github.com/skillcase/skillcase/pkg/presenter"
)

type LlmsTxtConfig struct {
	Output string
}

func NewLlmsTxtConfig() *LlmsTxtConfig {
	return &LlmsTxtConfig{
		Output: "",
	}
}

var llmstxtCmd = &cobra.Command{
	Use:   "llms-txt",
	Short: "Generate an llms.txt index of the corpus",
	Long: `Generate an llms.txt-style plain-text index of the corpus: one line
per document grouped by category, for LLM agents to discover use cases.`,
	Run: func(cmd *cobra.Command, _ []string) {
		config := getLlmsTxtConfigFromFlags(cmd)
		runLlmsTxt(cmd, config)
	},
}

func init() {
	defaults := NewLlmsTxtConfig()
	llmstxtCmd.Flags().StringP("output", "o", defaults.Output, "Write to a file instead of stdout")
	rootCmd.AddCommand(llmstxtCmd)
}

func getLlmsTxtConfigFromFlags(cmd *cobra.Command) *LlmsTxtConfig {
	config := NewLlmsTxtConfig()
	if output, err := cmd.Flags().GetString("output"); err == nil {
		config.Output = output
	}
	return config
}

func runLlmsTxt(cmd *cobra.Command, config *LlmsTxtConfig) {
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

	content := llmstxt.Generate(c)

	if config.Output == "" {
		fmt.Print(content)
		return
	}

	if err := os.WriteFile(config.Output, []byte(content), 0o644); err != nil {
		presenter.Error(err, "Failed to write output file")
		os.Exit(1)
	}
	presenter.Success(fmt.Sprintf("Wrote %s", config.Output))
}
