// Package registry discovers the skills a corpus may reference.
// Skills are packaged as directories containing a SKILL.md file with
// YAML front matter naming and describing the skill.
package registry

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"

	"github.com/skillcase/skillcase/pkg/document"
)

const skillFileName = "SKILL.md"

// Skill represents a discovered skill with its metadata
type Skill struct {
	Name        string // Unique name from front matter
	Description string // Brief description shown in listings
	Homepage    string // Optional product/documentation URL
	Directory   string // Full path to the skill directory
}

type skillMetadata struct {
	Name        string `mapstructure:"name"`
	Description string `mapstructure:"description"`
	Homepage    string `mapstructure:"homepage"`
}

// Registry holds the discovered skill set
type Registry struct {
	skillDirs []string
	skills    map[string]*Skill
}

// Option is a function that configures a Registry
type Option func(*Registry) error

// WithSkillDirs sets custom skill directories
func WithSkillDirs(dirs ...string) Option {
	return func(r *Registry) error {
		r.skillDirs = dirs
		return nil
	}
}

// WithDefaultDirs initializes with default skill directories
func WithDefaultDirs() Option {
	return func(r *Registry) error {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return errors.Wrap(err, "failed to get user home directory")
		}
		r.skillDirs = []string{
			"./skills", // Repo-local (highest precedence)
			filepath.Join(homeDir, ".skillcase", "skills"), // User-global
		}
		return nil
	}
}

// Load creates a registry and discovers skills from the configured directories
func Load(opts ...Option) (*Registry, error) {
	r := &Registry{
		skills: make(map[string]*Skill),
	}

	if len(opts) == 0 {
		if err := WithDefaultDirs()(r); err != nil {
			return nil, err
		}
	} else {
		for _, opt := range opts {
			if err := opt(r); err != nil {
				return nil, err
			}
		}
	}

	for _, dir := range r.skillDirs {
		r.discoverFromDir(dir)
	}

	return r, nil
}

// discoverFromDir discovers skills from a single directory. Earlier
// directories take precedence over later ones.
func (r *Registry) discoverFromDir(dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}

	for _, entry := range entries {
		entryPath := filepath.Join(dir, entry.Name())

		info, err := os.Stat(entryPath)
		if err != nil || !info.IsDir() {
			continue
		}

		skill, err := loadSkill(filepath.Join(entryPath, skillFileName))
		if err != nil {
			continue
		}

		if _, exists := r.skills[skill.Name]; !exists {
			skill.Directory = entryPath
			r.skills[skill.Name] = skill
		}
	}
}

// loadSkill loads a single skill from its SKILL.md file
func loadSkill(path string) (*Skill, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read skill file")
	}

	return parseSkill(content)
}

func parseSkill(content []byte) (*Skill, error) {
	// SKILL.md carries its own front matter keys, so decode the raw
	// metadata map rather than the use-case schema
	metaData, err := document.RawFrontMatter(content)
	if err != nil {
		return nil, err
	}

	var md skillMetadata
	if err := mapstructure.Decode(metaData, &md); err != nil {
		return nil, errors.Wrap(err, "failed to decode skill front matter")
	}

	if md.Name == "" {
		return nil, errors.New("skill name is required in front matter")
	}
	if md.Description == "" {
		return nil, errors.New("skill description is required in front matter")
	}

	return &Skill{
		Name:        md.Name,
		Description: md.Description,
		Homepage:    md.Homepage,
	}, nil
}

// Has reports whether a skill with the given name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.skills[name]
	return ok
}

// Get returns a specific skill by name
func (r *Registry) Get(name string) (*Skill, error) {
	skill, exists := r.skills[name]
	if !exists {
		return nil, errors.Errorf("skill '%s' not found", name)
	}
	return skill, nil
}

// Names returns the sorted names of all registered skills
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.skills))
	for name := range r.skills {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered skills.
func (r *Registry) Len() int {
	return len(r.skills)
}

// Empty reports whether the registry discovered no skills at all, in
// which case skill-reference validation is skipped.
func (r *Registry) Empty() bool {
	return len(r.skills) == 0
}
