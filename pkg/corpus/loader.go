package corpus

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"

	"github.com/skillcase/skillcase/pkg/document"
	"github.com/skillcase/skillcase/pkg/logger"
)

// Loader walks configured corpus roots and parses use-case documents
type Loader struct {
	roots   []string
	include []string
	exclude []string
}

// Option is a function that configures a Loader
type Option func(*Loader) error

// WithRoots sets custom corpus root directories
func WithRoots(dirs ...string) Option {
	return func(l *Loader) error {
		if len(dirs) == 0 {
			return errors.New("at least one corpus root must be specified")
		}
		l.roots = dirs
		return nil
	}
}

// WithDefaultRoots initializes with default corpus directories
func WithDefaultRoots() Option {
	return func(l *Loader) error {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return errors.Wrap(err, "failed to get user home directory")
		}
		l.roots = []string{
			"./usecases", // Repo-local (highest precedence)
			filepath.Join(homeDir, ".skillcase", "usecases"), // User-global
		}
		return nil
	}
}

// WithInclude sets doublestar patterns for files to load (default **/*.md)
func WithInclude(patterns ...string) Option {
	return func(l *Loader) error {
		l.include = patterns
		return nil
	}
}

// WithExclude sets doublestar patterns for files to skip
func WithExclude(patterns ...string) Option {
	return func(l *Loader) error {
		l.exclude = patterns
		return nil
	}
}

// NewLoader creates a new corpus loader
func NewLoader(opts ...Option) (*Loader, error) {
	l := &Loader{
		include: []string{"**/*.md"},
	}

	if len(opts) == 0 {
		if err := WithDefaultRoots()(l); err != nil {
			return nil, err
		}
		return l, nil
	}

	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, err
		}
	}

	if len(l.roots) == 0 {
		if err := WithDefaultRoots()(l); err != nil {
			return nil, err
		}
	}

	return l, nil
}

// Load walks the configured roots and parses every matching document.
// Parse failures are recorded on the corpus as load errors; the walk
// itself only fails on filesystem errors inside an existing root.
func (l *Loader) Load(ctx context.Context) (*Corpus, error) {
	c := newCorpus()

	for _, root := range l.roots {
		if _, err := os.Stat(root); err != nil {
			logger.G(ctx).WithField("root", root).Debug("corpus root does not exist, skipping")
			continue
		}

		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}

			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			rel = filepath.ToSlash(rel)

			if !l.matches(rel) {
				return nil
			}

			content, err := os.ReadFile(path)
			if err != nil {
				return errors.Wrapf(err, "failed to read document '%s'", path)
			}

			doc, err := document.Parse(content)
			if err != nil {
				logger.G(ctx).WithField("path", path).WithError(err).Debug("failed to parse document")
				c.loadErrors = append(c.loadErrors, LoadError{Path: path, Err: err})
				return nil
			}

			doc.Path = path
			c.add(doc)
			return nil
		})
		if err != nil {
			return nil, errors.Wrapf(err, "failed to walk corpus root '%s'", root)
		}
	}

	c.finalize()

	logger.G(ctx).WithFields(map[string]interface{}{
		"documents":   c.Len(),
		"load_errors": len(c.loadErrors),
	}).Debug("corpus loaded")

	return c, nil
}

func (l *Loader) matches(rel string) bool {
	included := false
	for _, pattern := range l.include {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			included = true
			break
		}
	}
	if !included {
		return false
	}

	for _, pattern := range l.exclude {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return false
		}
	}
	return true
}
