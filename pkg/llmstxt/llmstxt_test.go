package llmstxt

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillcase/skillcase/pkg/corpus"
)

func writeDoc(t *testing.T, dir, slug, title, category string) {
	t.Helper()
	content := fmt.Sprintf(`---
title: %s
slug: %s
description: Description of %s.
skills:
  - some-skill
category: %s
---

Body.
`, title, slug, slug, category)
	require.NoError(t, os.WriteFile(filepath.Join(dir, slug+".md"), []byte(content), 0o644))
}

func TestGenerate(t *testing.T) {
	tmpDir := t.TempDir()
	writeDoc(t, tmpDir, "flag-rollout", "Progressive feature flag rollout", "devops")
	writeDoc(t, tmpDir, "kafka-onboarding", "Kafka topic onboarding", "data-engineering")
	writeDoc(t, tmpDir, "secret-rotation", "Automated secret rotation", "security")

	loader, err := corpus.NewLoader(corpus.WithRoots(tmpDir))
	require.NoError(t, err)
	c, err := loader.Load(context.Background())
	require.NoError(t, err)

	out := Generate(c)

	assert.True(t, strings.HasPrefix(out, "# Use-case corpus\n"))
	assert.Contains(t, out, "> 3 use-case documents")
	assert.Contains(t, out, "## devops\n")
	assert.Contains(t, out, "- [Kafka topic onboarding](kafka-onboarding): Description of kafka-onboarding.")

	// Categories are emitted in sorted order
	devops := strings.Index(out, "## devops")
	dataEng := strings.Index(out, "## data-engineering")
	security := strings.Index(out, "## security")
	assert.Less(t, dataEng, devops)
	assert.Less(t, devops, security)
}

func TestGenerateEmptyCorpus(t *testing.T) {
	loader, err := corpus.NewLoader(corpus.WithRoots(t.TempDir()))
	require.NoError(t, err)
	c, err := loader.Load(context.Background())
	require.NoError(t, err)

	out := Generate(c)
	assert.Contains(t, out, "> 0 use-case documents")
	assert.NotContains(t, out, "## ")
}
