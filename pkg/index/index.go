// Package index maintains a SQLite index over the corpus for fast
// search and statistics without re-parsing every document.
package index

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/skillcase/skillcase/pkg/corpus"
	"github.com/skillcase/skillcase/pkg/db"
	"github.com/skillcase/skillcase/pkg/logger"
)

// Migrations defines the index schema, run once at open.
var Migrations = []db.Migration{
	{
		Version:     20250812093000,
		Description: "create documents, document_skills, document_tags",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS documents (
					slug TEXT PRIMARY KEY,
					title TEXT NOT NULL,
					description TEXT NOT NULL,
					category TEXT NOT NULL,
					path TEXT NOT NULL,
					indexed_at DATETIME NOT NULL
				);
				CREATE TABLE IF NOT EXISTS document_skills (
					slug TEXT NOT NULL REFERENCES documents(slug) ON DELETE CASCADE,
					skill TEXT NOT NULL,
					PRIMARY KEY (slug, skill)
				);
				CREATE TABLE IF NOT EXISTS document_tags (
					slug TEXT NOT NULL REFERENCES documents(slug) ON DELETE CASCADE,
					tag TEXT NOT NULL,
					PRIMARY KEY (slug, tag)
				);
			`)
			return err
		},
		Down: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
				DROP TABLE IF EXISTS document_tags;
				DROP TABLE IF EXISTS document_skills;
				DROP TABLE IF EXISTS documents;
			`)
			return err
		},
	},
	{
		Version:     20250902141500,
		Description: "add search indexes on category, skill and tag",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
				CREATE INDEX IF NOT EXISTS idx_documents_category ON documents(category);
				CREATE INDEX IF NOT EXISTS idx_document_skills_skill ON document_skills(skill);
				CREATE INDEX IF NOT EXISTS idx_document_tags_tag ON document_tags(tag);
			`)
			return err
		},
		Down: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
				DROP INDEX IF EXISTS idx_documents_category;
				DROP INDEX IF EXISTS idx_document_skills_skill;
				DROP INDEX IF EXISTS idx_document_tags_tag;
			`)
			return err
		},
	},
}

// Index wraps the SQLite-backed corpus index.
type Index struct {
	db *sqlx.DB
}

// Open opens the index database at path (the default path when empty)
// and applies pending migrations.
func Open(ctx context.Context, path string) (*Index, error) {
	if path == "" {
		var err error
		path, err = db.DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	sqlDB, err := db.Open(ctx, path)
	if err != nil {
		return nil, err
	}

	runner := db.NewMigrationRunner(sqlDB)
	if err := runner.Run(ctx, Migrations); err != nil {
		sqlDB.Close()
		return nil, errors.Wrap(err, "failed to run index migrations")
	}

	return &Index{db: sqlDB}, nil
}

// Close closes the underlying database.
func (i *Index) Close() error {
	return i.db.Close()
}

// AppliedVersions returns the applied schema migration versions in order.
func (i *Index) AppliedVersions(ctx context.Context) ([]int64, error) {
	return db.NewMigrationRunner(i.db).GetAppliedVersions(ctx)
}

// RollbackMigration rolls back the most recently applied schema
// migration. Re-opening the index applies it again.
func (i *Index) RollbackMigration(ctx context.Context) error {
	return db.NewMigrationRunner(i.db).Rollback(ctx, Migrations)
}

// Rebuild replaces the index contents with the given corpus in a
// single transaction.
func (i *Index) Rebuild(ctx context.Context, c *corpus.Corpus) error {
	tx, err := i.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		"DELETE FROM document_tags",
		"DELETE FROM document_skills",
		"DELETE FROM documents",
	} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return errors.Wrapf(err, "failed to clear index: %s", stmt)
		}
	}

	now := time.Now()
	for _, doc := range c.Documents() {
		fm := doc.FrontMatter
		_, err := tx.ExecContext(ctx, `
			INSERT INTO documents (slug, title, description, category, path, indexed_at)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(slug) DO NOTHING
		`, fm.Slug, fm.Title, fm.Description, fm.Category, doc.Path, now)
		if err != nil {
			return errors.Wrapf(err, "failed to index document '%s'", fm.Slug)
		}

		for _, skill := range fm.Skills {
			if _, err := tx.ExecContext(ctx,
				"INSERT OR IGNORE INTO document_skills (slug, skill) VALUES (?, ?)",
				fm.Slug, skill); err != nil {
				return errors.Wrapf(err, "failed to index skill '%s' for '%s'", skill, fm.Slug)
			}
		}
		for _, tag := range fm.Tags {
			if _, err := tx.ExecContext(ctx,
				"INSERT OR IGNORE INTO document_tags (slug, tag) VALUES (?, ?)",
				fm.Slug, tag); err != nil {
				return errors.Wrapf(err, "failed to index tag '%s' for '%s'", tag, fm.Slug)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit index rebuild")
	}

	logger.G(ctx).WithField("documents", c.Len()).Info("index rebuilt")
	return nil
}
