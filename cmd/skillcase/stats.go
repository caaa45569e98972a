package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/skillcase/skillcase/pkg/presenter"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show corpus statistics",
	Long:  `Show document counts overall and per category, plus validation totals.`,
	Run: func(cmd *cobra.Command, _ []string) {
		runStats(cmd)
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command) {
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

	reg, err := newRegistryFromConfig()
	if err != nil {
		presenter.Error(err, "Failed to load skill registry")
		os.Exit(1)
	}

	result := newValidatorFromConfig(reg).Validate(c)

	presenter.Stats(&presenter.CorpusStats{
		Documents:  c.Len(),
		Skills:     reg.Len(),
		Categories: c.Categories(),
		Errors:     result.Errors(),
		Warnings:   result.Warnings(),
	})
}
