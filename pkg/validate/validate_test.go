package validate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillcase/skillcase/pkg/corpus"
	"github.com/skillcase/skillcase/pkg/registry"
)

const validDoc = `---
title: Build an MCP server
slug: build-mcp-server
description: Stand up an MCP server for internal tools.
skills:
  - mcp-builder
category: integration
tags:
  - mcp
---

## The Problem

Internal tools are not reachable from the agent.

## The Solution

The mcp-builder skill scaffolds a server.

## Step-by-Step Walkthrough

1. Ask the agent to scaffold the server.

## Real-World Example

A platform team exposed five tools in an afternoon.
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func loadCorpus(t *testing.T, dir string) *corpus.Corpus {
	t.Helper()
	loader, err := corpus.NewLoader(corpus.WithRoots(dir))
	require.NoError(t, err)
	c, err := loader.Load(context.Background())
	require.NoError(t, err)
	return c
}

func findingsByRule(result *Result, rule string) []Finding {
	var found []Finding
	for _, f := range result.Findings {
		if f.Rule == rule {
			found = append(found, f)
		}
	}
	return found
}

func TestValidDocumentPasses(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "build-mcp-server.md", validDoc)

	result := New(WithCategories("integration")).Validate(loadCorpus(t, tmpDir))

	assert.True(t, result.OK())
	assert.Zero(t, result.Errors())
	assert.Zero(t, result.Warnings())
	assert.NoError(t, result.Err())
}

func TestEmptyTagListPasses(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "no-tags.md", `---
title: No tags
slug: no-tags
description: Declares tags as an explicitly empty list.
skills:
  - some-skill
category: devops
tags: []
---

Body.
`)

	result := New(WithCategories("devops")).Validate(loadCorpus(t, tmpDir))

	assert.Empty(t, findingsByRule(result, RuleUnstableFrontMatter))
	assert.True(t, result.OK())
}

func TestDuplicateSlugFails(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "one/build-mcp-server.md", validDoc)
	writeFile(t, tmpDir, "two/build-mcp-server.md", validDoc)

	result := New(WithCategories("integration")).Validate(loadCorpus(t, tmpDir))

	assert.False(t, result.OK())
	findings := findingsByRule(result, RuleDuplicateSlug)
	require.Len(t, findings, 2)
	for _, f := range findings {
		assert.Equal(t, SeverityError, f.Severity)
		assert.Contains(t, f.Message, "build-mcp-server")
		assert.Contains(t, f.Message, filepath.Join(tmpDir, "one", "build-mcp-server.md"))
		assert.Contains(t, f.Message, filepath.Join(tmpDir, "two", "build-mcp-server.md"))
	}
}

func TestMissingCategoryFailsNamingField(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "no-category.md", `---
title: No category
slug: no-category
description: Missing the category field.
skills:
  - some-skill
---

Body.
`)

	result := New().Validate(loadCorpus(t, tmpDir))

	assert.False(t, result.OK())
	findings := findingsByRule(result, RuleMissingRequiredField)
	require.Len(t, findings, 1)
	assert.Contains(t, findings[0].Message, "'category'")
}

func TestMissingRequiredFields(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "empty.md", "---\ntitle: Only a title\n---\n\nBody.\n")

	result := New().Validate(loadCorpus(t, tmpDir))

	findings := findingsByRule(result, RuleMissingRequiredField)
	require.Len(t, findings, 4)
	messages := fmt.Sprint(findings)
	for _, name := range []string{"slug", "description", "skills", "category"} {
		assert.Contains(t, messages, fmt.Sprintf("'%s'", name))
	}

	// Absent lists must not additionally trip the round-trip check
	assert.Empty(t, findingsByRule(result, RuleUnstableFrontMatter))
}

func TestInvalidSlug(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "Bad_Slug.md", `---
title: Bad slug
slug: Bad_Slug
description: The slug is not kebab-case.
skills:
  - some-skill
category: devops
---

Body.
`)

	result := New().Validate(loadCorpus(t, tmpDir))
	findings := findingsByRule(result, RuleInvalidSlug)
	require.Len(t, findings, 1)
	assert.Equal(t, SeverityError, findings[0].Severity)
}

func TestSlugFilenameMismatchWarns(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "differently-named.md", validDoc)

	result := New(WithCategories("integration")).Validate(loadCorpus(t, tmpDir))

	assert.True(t, result.OK()) // warnings do not fail validation
	findings := findingsByRule(result, RuleSlugFilenameMismatch)
	require.Len(t, findings, 1)
	assert.Equal(t, SeverityWarning, findings[0].Severity)
}

func TestUnknownSkill(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "build-mcp-server.md", validDoc)

	skillsDir := t.TempDir()
	skillDir := filepath.Join(skillsDir, "pdf-merge-split")
	require.NoError(t, os.MkdirAll(skillDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(skillDir, "SKILL.md"), []byte(`---
name: pdf-merge-split
description: Merge and split PDF files.
---

# pdf-merge-split
`), 0o644))

	reg, err := registry.Load(registry.WithSkillDirs(skillsDir))
	require.NoError(t, err)

	result := New(WithCategories("integration"), WithRegistry(reg)).Validate(loadCorpus(t, tmpDir))

	findings := findingsByRule(result, RuleUnknownSkill)
	require.Len(t, findings, 1)
	assert.Contains(t, findings[0].Message, "'mcp-builder'")
}

func TestSkillCheckSkippedWhenRegistryEmpty(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "build-mcp-server.md", validDoc)

	reg, err := registry.Load(registry.WithSkillDirs(filepath.Join(t.TempDir(), "none")))
	require.NoError(t, err)
	require.True(t, reg.Empty())

	result := New(WithCategories("integration"), WithRegistry(reg)).Validate(loadCorpus(t, tmpDir))
	assert.Empty(t, findingsByRule(result, RuleUnknownSkill))
}

func TestInvalidCategory(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "build-mcp-server.md", validDoc)

	result := New(WithCategories("devops", "security")).Validate(loadCorpus(t, tmpDir))

	findings := findingsByRule(result, RuleInvalidCategory)
	require.Len(t, findings, 1)
	assert.Contains(t, findings[0].Message, "'integration'")
}

func TestCategoryCheckDisabledWithoutSet(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "build-mcp-server.md", validDoc)

	result := New().Validate(loadCorpus(t, tmpDir))
	assert.Empty(t, findingsByRule(result, RuleInvalidCategory))
}

func TestDuplicateTagWarns(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "tagged-twice.md", `---
title: Tagged twice
slug: tagged-twice
description: Declares the same tag twice.
skills:
  - some-skill
category: devops
tags:
  - release
  - release
---

Body.
`)

	result := New().Validate(loadCorpus(t, tmpDir))
	findings := findingsByRule(result, RuleDuplicateTag)
	require.Len(t, findings, 1)
	assert.Equal(t, SeverityWarning, findings[0].Severity)
}

func TestBrokenLink(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "guides/setup.md", `---
title: Setup guide
slug: setup
description: Referenced by another document.
skills:
  - some-skill
category: devops
---

Standalone guide.
`)
	writeFile(t, tmpDir, "linker.md", `---
title: Linker
slug: linker
description: Links to a present and a missing target.
skills:
  - some-skill
category: devops
---

See [the setup guide](guides/setup.md) and [a missing page](guides/missing.md).
`)

	result := New().Validate(loadCorpus(t, tmpDir))
	findings := findingsByRule(result, RuleBrokenLink)
	require.Len(t, findings, 1)
	assert.Contains(t, findings[0].Message, "guides/missing.md")
}

func TestSectionOrderWarning(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "unordered.md", `---
title: Unordered
slug: unordered
description: Sections are present but shuffled.
skills:
  - some-skill
category: devops
---

## The Solution

First, oddly.

## The Problem

Second, oddly.

## Step-by-Step Walkthrough

1. Step.

## Real-World Example

Example.
`)

	result := New().Validate(loadCorpus(t, tmpDir))
	findings := findingsByRule(result, RuleSectionOrder)
	require.NotEmpty(t, findings)
	for _, f := range findings {
		assert.Equal(t, SeverityWarning, f.Severity)
	}
}

func TestParseFailureReported(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "broken.md", "# No front matter\n")

	result := New().Validate(loadCorpus(t, tmpDir))
	findings := findingsByRule(result, RuleParseFailure)
	require.Len(t, findings, 1)
	assert.Equal(t, SeverityError, findings[0].Severity)
	assert.False(t, result.OK())
}

func TestResultErrAggregates(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "one/build-mcp-server.md", validDoc)
	writeFile(t, tmpDir, "two/build-mcp-server.md", validDoc)

	result := New(WithCategories("integration")).Validate(loadCorpus(t, tmpDir))

	err := result.Err()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate-slug")
}
