// Package validate checks a loaded corpus against the use-case
// document schema: required front matter fields, slug shape and
// uniqueness, category membership, skill references, body links, and
// front matter round-trip stability.
package validate

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/skillcase/skillcase/pkg/corpus"
	"github.com/skillcase/skillcase/pkg/document"
	"github.com/skillcase/skillcase/pkg/registry"
)

// Severity classifies a finding.
type Severity string

const (
	// SeverityError findings fail validation
	SeverityError Severity = "error"
	// SeverityWarning findings are advisory unless strict mode is on
	SeverityWarning Severity = "warning"
)

// Rule identifiers, stable across releases so CI configs can refer to them.
const (
	RuleMissingRequiredField = "missing-required-field"
	RuleInvalidSlug          = "invalid-slug"
	RuleDuplicateSlug        = "duplicate-slug"
	RuleSlugFilenameMismatch = "slug-filename-mismatch"
	RuleUnknownSkill         = "unknown-skill"
	RuleInvalidCategory      = "invalid-category"
	RuleDuplicateTag         = "duplicate-tag"
	RuleBrokenLink           = "broken-link"
	RuleSectionOrder         = "section-order"
	RuleUnstableFrontMatter  = "unstable-front-matter"
	RuleParseFailure         = "parse-failure"
)

// Finding is a single validation issue tied to a document.
type Finding struct {
	Path     string   `json:"path"`
	Rule     string   `json:"rule"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

func (f Finding) String() string {
	return fmt.Sprintf("%s: [%s] %s: %s", f.Path, f.Severity, f.Rule, f.Message)
}

// Result aggregates the findings of a validation run.
type Result struct {
	Findings []Finding `json:"findings"`
}

// Errors returns the number of error-severity findings.
func (r *Result) Errors() int {
	n := 0
	for _, f := range r.Findings {
		if f.Severity == SeverityError {
			n++
		}
	}
	return n
}

// Warnings returns the number of warning-severity findings.
func (r *Result) Warnings() int {
	return len(r.Findings) - r.Errors()
}

// OK reports whether the run produced no error-severity findings.
func (r *Result) OK() bool {
	return r.Errors() == 0
}

// Err collapses error-severity findings into a single error via
// multierror, or nil when validation passed.
func (r *Result) Err() error {
	var merr *multierror.Error
	for _, f := range r.Findings {
		if f.Severity == SeverityError {
			merr = multierror.Append(merr, errors.New(f.String()))
		}
	}
	return merr.ErrorOrNil()
}

func (r *Result) add(path, rule string, severity Severity, format string, args ...interface{}) {
	r.Findings = append(r.Findings, Finding{
		Path:     path,
		Rule:     rule,
		Severity: severity,
		Message:  fmt.Sprintf(format, args...),
	})
}

// Validator validates a corpus against the document schema.
type Validator struct {
	categories map[string]bool
	registry   *registry.Registry
}

// ValidatorOption is a function that configures a Validator
type ValidatorOption func(*Validator)

// WithCategories restricts the allowed category set. An empty set
// disables the category check.
func WithCategories(categories ...string) ValidatorOption {
	return func(v *Validator) {
		v.categories = make(map[string]bool, len(categories))
		for _, c := range categories {
			v.categories[c] = true
		}
	}
}

// WithRegistry enables skill-reference validation against a registry.
// Validation of references is skipped when the registry is empty.
func WithRegistry(r *registry.Registry) ValidatorOption {
	return func(v *Validator) {
		v.registry = r
	}
}

// New creates a Validator
func New(opts ...ValidatorOption) *Validator {
	v := &Validator{}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate runs every rule over the corpus and returns the findings
// sorted by path for stable output.
func (v *Validator) Validate(c *corpus.Corpus) *Result {
	result := &Result{}

	for _, loadErr := range c.LoadErrors() {
		result.add(loadErr.Path, RuleParseFailure, SeverityError, "%v", loadErr.Err)
	}

	for slug, docs := range c.Duplicates() {
		paths := make([]string, 0, len(docs))
		for _, doc := range docs {
			paths = append(paths, doc.Path)
		}
		sort.Strings(paths)
		for _, path := range paths {
			result.add(path, RuleDuplicateSlug, SeverityError,
				"slug '%s' is declared by multiple documents: %s", slug, strings.Join(paths, ", "))
		}
	}

	for _, doc := range c.Documents() {
		v.validateDocument(result, doc)
	}

	sort.SliceStable(result.Findings, func(i, j int) bool {
		return result.Findings[i].Path < result.Findings[j].Path
	})

	return result
}

func (v *Validator) validateDocument(result *Result, doc *document.Document) {
	fm := doc.FrontMatter

	required := []struct {
		name  string
		empty bool
	}{
		{"title", fm.Title == ""},
		{"slug", fm.Slug == ""},
		{"description", fm.Description == ""},
		{"skills", len(fm.Skills) == 0},
		{"category", fm.Category == ""},
	}
	for _, field := range required {
		if field.empty {
			result.add(doc.Path, RuleMissingRequiredField, SeverityError,
				"required front matter field '%s' is missing or empty", field.name)
		}
	}

	if fm.Slug != "" {
		if !document.IsKebabCase(fm.Slug) {
			result.add(doc.Path, RuleInvalidSlug, SeverityError,
				"slug '%s' is not kebab-case", fm.Slug)
		}

		stem := strings.TrimSuffix(filepath.Base(doc.Path), filepath.Ext(doc.Path))
		if doc.Path != "" && stem != fm.Slug {
			result.add(doc.Path, RuleSlugFilenameMismatch, SeverityWarning,
				"slug '%s' does not match filename stem '%s'", fm.Slug, stem)
		}
	}

	if v.registry != nil && !v.registry.Empty() {
		for _, skill := range fm.Skills {
			if !v.registry.Has(skill) {
				result.add(doc.Path, RuleUnknownSkill, SeverityError,
					"skill '%s' is not present in the registry", skill)
			}
		}
	}

	if len(v.categories) > 0 && fm.Category != "" && !v.categories[fm.Category] {
		result.add(doc.Path, RuleInvalidCategory, SeverityError,
			"category '%s' is not in the configured category set", fm.Category)
	}

	seenTags := make(map[string]bool)
	for _, tag := range fm.Tags {
		if seenTags[tag] {
			result.add(doc.Path, RuleDuplicateTag, SeverityWarning,
				"tag '%s' is declared more than once", tag)
		}
		seenTags[tag] = true
	}

	v.validateLinks(result, doc)
	v.validateSections(result, doc)
	v.validateRoundTrip(result, doc)
}

// validateLinks resolves relative body links against the document's directory
func (v *Validator) validateLinks(result *Result, doc *document.Document) {
	if doc.Path == "" {
		return
	}

	dir := filepath.Dir(doc.Path)
	for _, link := range doc.RelativeLinks() {
		target := filepath.Join(dir, filepath.FromSlash(link))
		if _, err := os.Stat(target); err != nil {
			result.add(doc.Path, RuleBrokenLink, SeverityError,
				"relative link '%s' does not resolve", link)
		}
	}
}

func (v *Validator) validateSections(result *Result, doc *document.Document) {
	issue := doc.CheckSectionOrder()
	if issue == nil {
		return
	}

	if len(issue.Missing) > 0 {
		result.add(doc.Path, RuleSectionOrder, SeverityWarning,
			"missing conventional sections: %s", strings.Join(issue.Missing, ", "))
	}
	if len(issue.OutOfOrder) > 0 {
		result.add(doc.Path, RuleSectionOrder, SeverityWarning,
			"sections out of conventional order: %s", strings.Join(issue.OutOfOrder, ", "))
	}
}

// validateRoundTrip checks that re-serializing and re-parsing the front
// matter yields an identical structure
func (v *Validator) validateRoundTrip(result *Result, doc *document.Document) {
	rendered, err := doc.Render()
	if err != nil {
		result.add(doc.Path, RuleUnstableFrontMatter, SeverityError,
			"front matter cannot be re-serialized: %v", err)
		return
	}

	reparsed, err := document.Parse(rendered)
	if err != nil {
		result.add(doc.Path, RuleUnstableFrontMatter, SeverityError,
			"re-serialized document cannot be re-parsed: %v", err)
		return
	}

	if !reflect.DeepEqual(doc.FrontMatter, reparsed.FrontMatter) {
		result.add(doc.Path, RuleUnstableFrontMatter, SeverityError,
			"front matter does not survive a YAML round-trip")
	}
}
