package index

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillcase/skillcase/pkg/corpus"
)

func writeDoc(t *testing.T, dir, slug, title, category string, skills, tags []string) {
	t.Helper()

	content := "---\ntitle: " + title + "\nslug: " + slug + "\ndescription: Description of " + slug + ".\nskills:\n"
	for _, skill := range skills {
		content += "  - " + skill + "\n"
	}
	content += "category: " + category + "\n"
	if len(tags) > 0 {
		content += "tags:\n"
		for _, tag := range tags {
			content += "  - " + tag + "\n"
		}
	}
	content += "---\n\nBody.\n"

	require.NoError(t, os.WriteFile(filepath.Join(dir, slug+".md"), []byte(content), 0o644))
}

func loadCorpus(t *testing.T, dir string) *corpus.Corpus {
	t.Helper()
	loader, err := corpus.NewLoader(corpus.WithRoots(dir))
	require.NoError(t, err)
	c, err := loader.Load(context.Background())
	require.NoError(t, err)
	return c
}

func openIndex(t *testing.T) *Index {
	t.Helper()
	ctx := context.Background()
	idx, err := Open(ctx, filepath.Join(t.TempDir(), "index.db"))
	require.NoError(t, err)
	t.Cleanup(func() { idx.Close() })
	return idx
}

func TestRebuildAndSearch(t *testing.T) {
	ctx := context.Background()

	docsDir := t.TempDir()
	writeDoc(t, docsDir, "kafka-onboarding", "Kafka topic onboarding", "data-engineering", []string{"kafka-setup"}, []string{"onboarding"})
	writeDoc(t, docsDir, "flag-rollout", "Progressive feature flag rollout", "devops", []string{"feature-flag-manager"}, []string{"release"})

	idx := openIndex(t)
	require.NoError(t, idx.Rebuild(ctx, loadCorpus(t, docsDir)))

	t.Run("match on title", func(t *testing.T) {
		entries, err := idx.Search(ctx, "kafka", SearchFilter{})
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "kafka-onboarding", entries[0].Slug)
	})

	t.Run("case insensitive", func(t *testing.T) {
		entries, err := idx.Search(ctx, "KAFKA", SearchFilter{})
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("empty query matches all", func(t *testing.T) {
		entries, err := idx.Search(ctx, "", SearchFilter{})
		require.NoError(t, err)
		assert.Len(t, entries, 2)
	})

	t.Run("filter by category", func(t *testing.T) {
		entries, err := idx.Search(ctx, "", SearchFilter{Category: "devops"})
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "flag-rollout", entries[0].Slug)
	})

	t.Run("filter by skill", func(t *testing.T) {
		entries, err := idx.Search(ctx, "", SearchFilter{Skill: "kafka-setup"})
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "kafka-onboarding", entries[0].Slug)
	})

	t.Run("filter by tag", func(t *testing.T) {
		entries, err := idx.Search(ctx, "", SearchFilter{Tag: "release"})
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "flag-rollout", entries[0].Slug)
	})

	t.Run("no match", func(t *testing.T) {
		entries, err := idx.Search(ctx, "nonexistent", SearchFilter{})
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}

func TestRebuildReplacesContents(t *testing.T) {
	ctx := context.Background()

	firstDir := t.TempDir()
	writeDoc(t, firstDir, "old-doc", "Old document", "devops", []string{"s"}, nil)

	secondDir := t.TempDir()
	writeDoc(t, secondDir, "new-doc", "New document", "devops", []string{"s"}, nil)

	idx := openIndex(t)
	require.NoError(t, idx.Rebuild(ctx, loadCorpus(t, firstDir)))
	require.NoError(t, idx.Rebuild(ctx, loadCorpus(t, secondDir)))

	entries, err := idx.Search(ctx, "", SearchFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "new-doc", entries[0].Slug)
}

func TestStats(t *testing.T) {
	ctx := context.Background()

	docsDir := t.TempDir()
	writeDoc(t, docsDir, "a", "Doc A", "devops", []string{"kafka-setup", "feature-flag-manager"}, nil)
	writeDoc(t, docsDir, "b", "Doc B", "devops", []string{"kafka-setup"}, nil)
	writeDoc(t, docsDir, "c", "Doc C", "security", []string{"secret-scanner"}, nil)

	idx := openIndex(t)
	require.NoError(t, idx.Rebuild(ctx, loadCorpus(t, docsDir)))

	stats, err := idx.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Documents)
	assert.Equal(t, 3, stats.Skills)
	assert.Equal(t, map[string]int{"devops": 2, "security": 1}, stats.Categories)
	assert.Equal(t, 2, stats.TopSkills["kafka-setup"])
}

func TestRollbackMigration(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "index.db")

	idx, err := Open(ctx, path)
	require.NoError(t, err)

	applied, err := idx.AppliedVersions(ctx)
	require.NoError(t, err)
	require.Len(t, applied, len(Migrations))

	require.NoError(t, idx.RollbackMigration(ctx))

	applied, err = idx.AppliedVersions(ctx)
	require.NoError(t, err)
	assert.Len(t, applied, len(Migrations)-1)
	require.NoError(t, idx.Close())

	// Re-opening applies the rolled-back migration again
	idx, err = Open(ctx, path)
	require.NoError(t, err)
	defer idx.Close()

	applied, err = idx.AppliedVersions(ctx)
	require.NoError(t, err)
	assert.Len(t, applied, len(Migrations))
}

func TestOpenIsIdempotent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "index.db")

	idx, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, idx.Close())

	// Re-opening runs migrations again; they must be no-ops
	idx, err = Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, idx.Close())
}
