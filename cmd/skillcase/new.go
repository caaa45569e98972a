package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/skillcase/skillcase/pkg/document"
	"github.com/skillcase/skillcase/pkg/presenter"
	"github.com/skillcase/skillcase/pkg/scaffold"
)

type NewConfig struct {
	Slug        string
	Description string
	Skills      []string
	Category    string
	Tags        []string
	Template    string
	Dir         string
	Force       bool
}

func NewNewConfig() *NewConfig {
	return &NewConfig{
		Template: "usecase",
		Dir:      "./usecases",
	}
}

var newCmd = &cobra.Command{
	Use:   "new <title>",
	Short: "Scaffold a new use-case document",
	Long: `Scaffold a new use-case document from a template. The slug is derived
from the title unless --slug is given.

Examples:
  skillcase new "Automate PDF invoice intake" --category document-automation --skills pdf-merge-split
  skillcase new "Kafka topic onboarding" --slug kafka-topic-onboarding --skills kafka-setup --tags onboarding`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		config := getNewConfigFromFlags(cmd)
		runNew(args[0], config)
	},
}

func init() {
	defaults := NewNewConfig()
	newCmd.Flags().String("slug", defaults.Slug, "Slug override (derived from the title by default)")
	newCmd.Flags().String("description", defaults.Description, "One-paragraph description")
	newCmd.Flags().StringSlice("skills", defaults.Skills, "Skill identifiers the use case exercises")
	newCmd.Flags().String("category", defaults.Category, "Document category")
	newCmd.Flags().StringSlice("tags", defaults.Tags, "Free-form tags")
	newCmd.Flags().String("template", defaults.Template, "Template name")
	newCmd.Flags().String("dir", defaults.Dir, "Directory to write the document into")
	newCmd.Flags().Bool("force", defaults.Force, "Overwrite an existing file")
	rootCmd.AddCommand(newCmd)
}

func getNewConfigFromFlags(cmd *cobra.Command) *NewConfig {
	config := NewNewConfig()
	if slug, err := cmd.Flags().GetString("slug"); err == nil {
		config.Slug = slug
	}
	if description, err := cmd.Flags().GetString("description"); err == nil {
		config.Description = description
	}
	if skills, err := cmd.Flags().GetStringSlice("skills"); err == nil {
		config.Skills = skills
	}
	if category, err := cmd.Flags().GetString("category"); err == nil {
		config.Category = category
	}
	if tags, err := cmd.Flags().GetStringSlice("tags"); err == nil {
		config.Tags = tags
	}
	if template, err := cmd.Flags().GetString("template"); err == nil {
		config.Template = template
	}
	if dir, err := cmd.Flags().GetString("dir"); err == nil {
		config.Dir = dir
	}
	if force, err := cmd.Flags().GetBool("force"); err == nil {
		config.Force = force
	}
	return config
}

func runNew(title string, config *NewConfig) {
	slug := config.Slug
	if slug == "" {
		slug = document.Slugify(title)
	}
	if !document.IsKebabCase(slug) {
		presenter.Error(errors.Errorf("slug '%s' is not kebab-case", slug), "Invalid slug")
		os.Exit(1)
	}

	scaffolder, err := scaffold.New()
	if err != nil {
		presenter.Error(err, "Failed to initialize scaffolder")
		os.Exit(1)
	}

	content, err := scaffolder.Render(config.Template, scaffold.Params{
		Title:       title,
		Slug:        slug,
		Description: config.Description,
		Skills:      config.Skills,
		Category:    config.Category,
		Tags:        config.Tags,
	})
	if err != nil {
		presenter.Error(err, "Failed to render template")
		os.Exit(1)
	}

	if err := os.MkdirAll(config.Dir, 0o755); err != nil {
		presenter.Error(err, "Failed to create target directory")
		os.Exit(1)
	}

	path := filepath.Join(config.Dir, slug+".md")
	if _, err := os.Stat(path); err == nil && !config.Force {
		presenter.Error(errors.Errorf("'%s' already exists (use --force to overwrite)", path), "Refusing to overwrite")
		os.Exit(1)
	}

	if err := os.WriteFile(path, content, 0o644); err != nil {
		presenter.Error(err, "Failed to write document")
		os.Exit(1)
	}

	presenter.Success(fmt.Sprintf("Created %s", path))
}
