// Package llmstxt generates an llms.txt-style plain-text index of the
// corpus so LLM agents can discover use-case documents cheaply.
package llmstxt

import (
	"fmt"
	"sort"
	"strings"

	"github.com/skillcase/skillcase/pkg/corpus"
)

// Generate renders the corpus as an llms.txt document: a short header
// followed by one line per document, grouped by category.
func Generate(c *corpus.Corpus) string {
	var sb strings.Builder

	sb.WriteString("# Use-case corpus\n\n")
	sb.WriteString(fmt.Sprintf("> %d use-case documents describing agent skill workflows.\n", c.Len()))

	byCategory := make(map[string][]string)
	for _, doc := range c.Documents() {
		fm := doc.FrontMatter
		line := fmt.Sprintf("- [%s](%s): %s", fm.Title, fm.Slug, fm.Description)
		byCategory[fm.Category] = append(byCategory[fm.Category], line)
	}

	categories := make([]string, 0, len(byCategory))
	for category := range byCategory {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	for _, category := range categories {
		sb.WriteString(fmt.Sprintf("\n## %s\n\n", category))
		for _, line := range byCategory[category] {
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	}

	return sb.String()
}
