// Package scaffold renders new use-case document skeletons from
// text/template files, with repo-local and user-global template
// directories taking precedence over the embedded builtin.
package scaffold

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/pkg/errors"

	"github.com/skillcase/skillcase/pkg/document"
)

// Params drives template rendering for a new document.
type Params struct {
	Title       string
	Slug        string
	Description string
	Skills      []string
	Category    string
	Tags        []string
}

// Scaffolder locates and renders document templates
type Scaffolder struct {
	templateDirs []string
}

// ScaffolderOption is a function that configures a Scaffolder
type ScaffolderOption func(*Scaffolder) error

// WithTemplateDirs sets custom template directories
func WithTemplateDirs(dirs ...string) ScaffolderOption {
	return func(s *Scaffolder) error {
		if len(dirs) == 0 {
			return errors.New("at least one template directory must be specified")
		}
		s.templateDirs = dirs
		return nil
	}
}

// WithDefaultTemplateDirs resets to default template directories
func WithDefaultTemplateDirs() ScaffolderOption {
	return func(s *Scaffolder) error {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return errors.Wrap(err, "failed to get user home directory")
		}
		s.templateDirs = []string{
			"./.skillcase/templates", // Repo-specific (higher precedence)
			filepath.Join(homeDir, ".skillcase", "templates"),
		}
		return nil
	}
}

// New creates a scaffolder with optional configuration
func New(opts ...ScaffolderOption) (*Scaffolder, error) {
	s := &Scaffolder{}

	if len(opts) == 0 {
		if err := WithDefaultTemplateDirs()(s); err != nil {
			return nil, err
		}
		return s, nil
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	if len(s.templateDirs) == 0 {
		if err := WithDefaultTemplateDirs()(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// findTemplate searches the configured directories for a named
// template, falling back to the embedded builtin.
func (s *Scaffolder) findTemplate(name string) (string, error) {
	possibleNames := []string{
		name + ".md",
		name,
	}

	for _, dir := range s.templateDirs {
		for _, candidate := range possibleNames {
			fullPath := filepath.Join(dir, candidate)
			if _, err := os.Stat(fullPath); err == nil {
				content, err := os.ReadFile(fullPath)
				if err != nil {
					return "", errors.Wrapf(err, "failed to read template '%s'", fullPath)
				}
				return string(content), nil
			}
		}
	}

	if content, ok := builtinTemplate(name); ok {
		return content, nil
	}

	return "", errors.Errorf("template '%s' not found in directories: %v", name, s.templateDirs)
}

// Render renders the named template with the given params. Params with
// an empty Slug get one derived from the title.
func (s *Scaffolder) Render(name string, params Params) ([]byte, error) {
	content, err := s.findTemplate(name)
	if err != nil {
		return nil, err
	}

	if params.Slug == "" {
		params.Slug = document.Slugify(params.Title)
	}

	tmpl, err := template.New(name).Funcs(template.FuncMap{
		"slugify": document.Slugify,
		"now":     func() string { return time.Now().Format("2006-01-02") },
		"join":    strings.Join,
	}).Parse(content)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse template '%s'", name)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, params); err != nil {
		return nil, errors.Wrapf(err, "failed to execute template '%s'", name)
	}

	return buf.Bytes(), nil
}

// ListTemplates returns available template names, builtin included,
// with directory precedence (repo over home over builtin).
func (s *Scaffolder) ListTemplates() []string {
	var templates []string
	seen := make(map[string]bool)

	for _, dir := range s.templateDirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}

		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			name := strings.TrimSuffix(entry.Name(), ".md")
			if !seen[name] {
				templates = append(templates, name)
				seen[name] = true
			}
		}
	}

	for _, name := range builtinTemplateNames() {
		if !seen[name] {
			templates = append(templates, name)
			seen[name] = true
		}
	}

	return templates
}
