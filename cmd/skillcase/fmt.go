package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/aymanbagabas/go-udiff"
	"github.com/spf13/cobra"

	"github.com/skillcase/skillcase/pkg/document"
	"github.com/skillcase/skillcase/pkg/presenter"
)

type FmtConfig struct {
	Write bool
	Diff  bool
}

func NewFmtConfig() *FmtConfig {
	return &FmtConfig{
		Write: false,
		Diff:  false,
	}
}

var fmtCmd = &cobra.Command{
	Use:   "fmt",
	Short: "Normalize document front matter",
	Long: `Re-serialize every document's front matter into canonical form:
stable key order, two-space indentation, a single blank line before the
body. Without flags, reports the files that would change and exits
non-zero if any would. --diff prints a unified diff; --write rewrites
the files in place.`,
	Run: func(cmd *cobra.Command, _ []string) {
		config := getFmtConfigFromFlags(cmd)
		runFmt(cmd, config)
	},
}

func init() {
	defaults := NewFmtConfig()
	fmtCmd.Flags().BoolP("write", "w", defaults.Write, "Rewrite files in place")
	fmtCmd.Flags().BoolP("diff", "d", defaults.Diff, "Print a unified diff of pending changes")
	rootCmd.AddCommand(fmtCmd)
}

func getFmtConfigFromFlags(cmd *cobra.Command) *FmtConfig {
	config := NewFmtConfig()
	if write, err := cmd.Flags().GetBool("write"); err == nil {
		config.Write = write
	}
	if diff, err := cmd.Flags().GetBool("diff"); err == nil {
		config.Diff = diff
	}
	return config
}

func runFmt(cmd *cobra.Command, config *FmtConfig) {
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

	changed := 0
	for _, doc := range c.Documents() {
		original, err := os.ReadFile(doc.Path)
		if err != nil {
			presenter.Error(err, fmt.Sprintf("Failed to read %s", doc.Path))
			os.Exit(1)
		}

		normalized, err := document.Normalize(original)
		if err != nil {
			presenter.Error(err, fmt.Sprintf("Failed to normalize %s", doc.Path))
			os.Exit(1)
		}

		if bytes.Equal(original, normalized) {
			continue
		}
		changed++

		switch {
		case config.Write:
			if err := os.WriteFile(doc.Path, normalized, 0o644); err != nil {
				presenter.Error(err, fmt.Sprintf("Failed to write %s", doc.Path))
				os.Exit(1)
			}
			presenter.Success(fmt.Sprintf("Formatted %s", doc.Path))
		case config.Diff:
			fmt.Print(udiff.Unified(doc.Path, doc.Path+" (formatted)", string(original), string(normalized)))
		default:
			presenter.Warning(fmt.Sprintf("%s is not normalized", doc.Path))
		}
	}

	if changed == 0 {
		presenter.Success(fmt.Sprintf("%d documents already normalized", c.Len()))
		return
	}

	if !config.Write {
		presenter.Info(fmt.Sprintf("%d of %d documents need formatting", changed, c.Len()))
		os.Exit(1)
	}
}
