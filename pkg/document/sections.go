package document

import "strings"

// ConventionalSections is the loosely-enforced H2 section order for
// use-case documents. Missing or reordered sections produce warnings,
// not errors.
var ConventionalSections = []string{
	"The Problem",
	"The Solution",
	"Step-by-Step Walkthrough",
	"Real-World Example",
}

// scanSections collects H2 headings in body order, skipping fenced
// code blocks so that commented-out markdown in snippets is ignored.
func scanSections(body string) []string {
	var sections []string
	inFence := false

	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		if strings.HasPrefix(trimmed, "## ") {
			sections = append(sections, strings.TrimSpace(strings.TrimPrefix(trimmed, "## ")))
		}
	}

	return sections
}

// SectionOrderIssue describes a deviation from the conventional section order.
type SectionOrderIssue struct {
	Missing    []string
	OutOfOrder []string
}

// CheckSectionOrder compares the document's H2 headings against the
// conventional order. Extra sections are allowed anywhere.
func (d *Document) CheckSectionOrder() *SectionOrderIssue {
	position := make(map[string]int, len(ConventionalSections))
	for i, name := range ConventionalSections {
		position[name] = i
	}

	var issue SectionOrderIssue
	last := -1
	seen := make(map[string]bool)

	for _, section := range d.Sections {
		idx, conventional := position[section]
		if !conventional {
			continue
		}
		seen[section] = true
		if idx < last {
			issue.OutOfOrder = append(issue.OutOfOrder, section)
		} else {
			last = idx
		}
	}

	for _, name := range ConventionalSections {
		if !seen[name] {
			issue.Missing = append(issue.Missing, name)
		}
	}

	if len(issue.Missing) == 0 && len(issue.OutOfOrder) == 0 {
		return nil
	}
	return &issue
}
