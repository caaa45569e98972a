package index

import (
	"context"
	"strings"

	"github.com/pkg/errors"
)

// Entry is an indexed document row returned by Search.
type Entry struct {
	Slug        string `db:"slug" json:"slug"`
	Title       string `db:"title" json:"title"`
	Description string `db:"description" json:"description"`
	Category    string `db:"category" json:"category"`
	Path        string `db:"path" json:"path"`
}

// SearchFilter narrows a search. Zero-value fields match everything.
type SearchFilter struct {
	Category string
	Skill    string
	Tag      string
}

// Search matches query case-insensitively against slug, title, and
// description, applying the filter. An empty query matches everything.
func (i *Index) Search(ctx context.Context, query string, filter SearchFilter) ([]Entry, error) {
	var (
		clauses []string
		args    []interface{}
	)

	if query != "" {
		like := "%" + strings.ToLower(query) + "%"
		clauses = append(clauses, "(LOWER(d.slug) LIKE ? OR LOWER(d.title) LIKE ? OR LOWER(d.description) LIKE ?)")
		args = append(args, like, like, like)
	}
	if filter.Category != "" {
		clauses = append(clauses, "d.category = ?")
		args = append(args, filter.Category)
	}
	if filter.Skill != "" {
		clauses = append(clauses, "EXISTS (SELECT 1 FROM document_skills s WHERE s.slug = d.slug AND s.skill = ?)")
		args = append(args, filter.Skill)
	}
	if filter.Tag != "" {
		clauses = append(clauses, "EXISTS (SELECT 1 FROM document_tags t WHERE t.slug = d.slug AND t.tag = ?)")
		args = append(args, filter.Tag)
	}

	sql := "SELECT d.slug, d.title, d.description, d.category, d.path FROM documents d"
	if len(clauses) > 0 {
		sql += " WHERE " + strings.Join(clauses, " AND ")
	}
	sql += " ORDER BY d.slug"

	var entries []Entry
	if err := i.db.SelectContext(ctx, &entries, sql, args...); err != nil {
		return nil, errors.Wrap(err, "failed to search index")
	}
	return entries, nil
}

// Stats summarizes the indexed corpus.
type Stats struct {
	Documents  int            `json:"documents"`
	Skills     int            `json:"skills"`
	Categories map[string]int `json:"categories"`
	TopSkills  map[string]int `json:"topSkills"`
}

// Stats returns document counts overall, per category, and per skill.
func (i *Index) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{
		Categories: make(map[string]int),
		TopSkills:  make(map[string]int),
	}

	if err := i.db.GetContext(ctx, &stats.Documents, "SELECT COUNT(*) FROM documents"); err != nil {
		return nil, errors.Wrap(err, "failed to count documents")
	}
	if err := i.db.GetContext(ctx, &stats.Skills, "SELECT COUNT(DISTINCT skill) FROM document_skills"); err != nil {
		return nil, errors.Wrap(err, "failed to count skills")
	}

	rows, err := i.db.QueryxContext(ctx, "SELECT category, COUNT(*) FROM documents GROUP BY category")
	if err != nil {
		return nil, errors.Wrap(err, "failed to count categories")
	}
	defer rows.Close()
	for rows.Next() {
		var category string
		var count int
		if err := rows.Scan(&category, &count); err != nil {
			return nil, errors.Wrap(err, "failed to scan category count")
		}
		stats.Categories[category] = count
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate category counts")
	}

	skillRows, err := i.db.QueryxContext(ctx, "SELECT skill, COUNT(*) FROM document_skills GROUP BY skill ORDER BY COUNT(*) DESC LIMIT 10")
	if err != nil {
		return nil, errors.Wrap(err, "failed to count skill usage")
	}
	defer skillRows.Close()
	for skillRows.Next() {
		var skill string
		var count int
		if err := skillRows.Scan(&skill, &count); err != nil {
			return nil, errors.Wrap(err, "failed to scan skill count")
		}
		stats.TopSkills[skill] = count
	}
	if err := skillRows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate skill counts")
	}

	return stats, nil
}
