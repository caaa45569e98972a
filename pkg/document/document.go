// Package document implements parsing and serialization of use-case
// documents: Markdown files with a YAML front matter block describing
// the document's title, slug, referenced skills, category, and tags.
package document

import (
	"bytes"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/parser"
	"gopkg.in/yaml.v3"
)

// FrontMatter is the YAML metadata block at the top of a use-case document.
// All fields except Tags are required for a document to validate.
type FrontMatter struct {
	Title       string   `yaml:"title" json:"title" mapstructure:"title" jsonschema:"required,description=Human-readable document title"`
	Slug        string   `yaml:"slug" json:"slug" mapstructure:"slug" jsonschema:"required,pattern=^[a-z0-9]+(-[a-z0-9]+)*$,description=Kebab-case identifier unique across the corpus"`
	Description string   `yaml:"description" json:"description" mapstructure:"description" jsonschema:"required,description=One-paragraph summary of the use case"`
	Skills      []string `yaml:"skills" json:"skills" mapstructure:"skills" jsonschema:"required,minItems=1,description=Skill identifiers this use case exercises"`
	Category    string   `yaml:"category" json:"category" mapstructure:"category" jsonschema:"required,description=Corpus category the document belongs to"`
	Tags        []string `yaml:"tags,omitempty" json:"tags,omitempty" mapstructure:"tags" jsonschema:"description=Free-form labels for discovery"`
}

// Document is a parsed use-case document.
type Document struct {
	FrontMatter FrontMatter
	Body        string   // Markdown body without the front matter block
	Path        string   // Source file path, set by the corpus loader
	Sections    []string // H2 headings in body order
}

// Parse parses a use-case document from its raw Markdown content.
// The front matter block must be present; field-level validation is
// left to the validate package so that a single pass can report every
// problem in a document.
func Parse(content []byte) (*Document, error) {
	metaData, err := RawFrontMatter(content)
	if err != nil {
		return nil, err
	}

	var fm FrontMatter
	if err := mapstructure.Decode(metaData, &fm); err != nil {
		return nil, errors.Wrap(err, "failed to decode front matter")
	}

	// An explicit empty list and an absent key must parse identically,
	// so that Parse(Render(d)) reproduces d's front matter exactly.
	if len(fm.Skills) == 0 {
		fm.Skills = nil
	}
	if len(fm.Tags) == 0 {
		fm.Tags = nil
	}

	body := extractBody(string(content))

	return &Document{
		FrontMatter: fm,
		Body:        body,
		Sections:    scanSections(body),
	}, nil
}

// Marshal serializes the front matter to YAML with a stable key order.
func (fm *FrontMatter) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(fm); err != nil {
		return nil, errors.Wrap(err, "failed to marshal front matter")
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(err, "failed to finalize front matter")
	}
	return buf.Bytes(), nil
}

// Render reassembles the document into its canonical on-disk form:
// front matter delimited by ---, a blank line, then the body.
func (d *Document) Render() ([]byte, error) {
	fm, err := d.FrontMatter.Marshal()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(fm)
	buf.WriteString("---\n\n")
	buf.WriteString(strings.TrimRight(d.Body, "\n"))
	buf.WriteString("\n")
	return buf.Bytes(), nil
}

// Normalize parses content and re-serializes it in canonical form.
// Normalize is idempotent: applying it to its own output is a no-op.
func Normalize(content []byte) ([]byte, error) {
	doc, err := Parse(content)
	if err != nil {
		return nil, err
	}
	return doc.Render()
}

// RawFrontMatter parses content and returns the front matter as an
// untyped map, for callers with their own metadata schema.
func RawFrontMatter(content []byte) (map[string]interface{}, error) {
	md := goldmark.New(
		goldmark.WithExtensions(meta.Meta),
	)

	var buf bytes.Buffer
	pctx := parser.NewContext()

	if err := md.Convert(content, &buf, parser.WithContext(pctx)); err != nil {
		return nil, errors.Wrap(err, "failed to parse markdown")
	}

	metaData := meta.Get(pctx)
	if metaData == nil {
		return nil, errors.New("missing front matter")
	}
	return metaData, nil
}

// extractBody removes the YAML front matter block and returns the body
func extractBody(content string) string {
	if !strings.HasPrefix(content, "---") {
		return content
	}

	lines := strings.Split(content, "\n")
	frontMatterEnd := -1

	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			frontMatterEnd = i
			break
		}
	}

	if frontMatterEnd == -1 {
		return content
	}

	return strings.TrimLeft(strings.Join(lines[frontMatterEnd+1:], "\n"), "\n")
}
