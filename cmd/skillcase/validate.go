package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/skillcase/skillcase/pkg/presenter"
	"github.com/skillcase/skillcase/pkg/validate"
)

type ValidateConfig struct {
	Format string
	Strict bool
}

func NewValidateConfig() *ValidateConfig {
	return &ValidateConfig{
		Format: "text",
		Strict: false,
	}
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the corpus against the document schema",
	Long: `Validate every use-case document: required front matter fields,
kebab-case slug uniqueness, category membership, skill references
against the registry, relative links, section order, and front matter
round-trip stability.

Exits non-zero when error-severity findings exist (or any findings
with --strict).`,
	Run: func(cmd *cobra.Command, _ []string) {
		config := getValidateConfigFromFlags(cmd)
		runValidate(cmd, config)
	},
}

func init() {
	defaults := NewValidateConfig()
	validateCmd.Flags().String("format", defaults.Format, "Output format (text, json)")
	validateCmd.Flags().Bool("strict", defaults.Strict, "Treat warnings as failures")
	rootCmd.AddCommand(validateCmd)
}

func getValidateConfigFromFlags(cmd *cobra.Command) *ValidateConfig {
	config := NewValidateConfig()
	if format, err := cmd.Flags().GetString("format"); err == nil {
		config.Format = format
	}
	if strict, err := cmd.Flags().GetBool("strict"); err == nil {
		config.Strict = strict
	}
	return config
}

func runValidate(cmd *cobra.Command, config *ValidateConfig) {
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

	switch config.Format {
	case "json":
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			presenter.Error(err, "Failed to encode findings")
			os.Exit(1)
		}
		fmt.Println(string(data))
	default:
		for _, finding := range result.Findings {
			if finding.Severity == validate.SeverityError {
				presenter.Error(errors.New(finding.Message), fmt.Sprintf("%s [%s]", finding.Path, finding.Rule))
			} else {
				presenter.Warning(finding.String())
			}
		}

		if result.OK() && result.Warnings() == 0 {
			presenter.Success(fmt.Sprintf("%d documents validated, no findings", c.Len()))
		} else {
			presenter.Info(fmt.Sprintf("%d documents validated: %d errors, %d warnings",
				c.Len(), result.Errors(), result.Warnings()))
		}
	}

	if !result.OK() || (config.Strict && result.Warnings() > 0) {
		os.Exit(1)
	}
}
