// Package corpus loads use-case documents from configured root
// directories and provides lookup and filtering over the loaded set.
package corpus

import (
	"sort"
	"strings"

	"github.com/gobwas/glob"
	"github.com/pkg/errors"

	"github.com/skillcase/skillcase/pkg/document"
)

// LoadError records a document that could not be parsed. Load errors
// are collected rather than aborting the walk so that one malformed
// file does not hide the rest of the corpus.
type LoadError struct {
	Path string
	Err  error
}

// Corpus is a loaded set of use-case documents.
type Corpus struct {
	documents  []*document.Document
	bySlug     map[string][]*document.Document
	loadErrors []LoadError
}

func newCorpus() *Corpus {
	return &Corpus{
		bySlug: make(map[string][]*document.Document),
	}
}

func (c *Corpus) add(doc *document.Document) {
	c.documents = append(c.documents, doc)
	slug := doc.FrontMatter.Slug
	c.bySlug[slug] = append(c.bySlug[slug], doc)
}

func (c *Corpus) finalize() {
	sort.Slice(c.documents, func(i, j int) bool {
		if c.documents[i].FrontMatter.Slug != c.documents[j].FrontMatter.Slug {
			return c.documents[i].FrontMatter.Slug < c.documents[j].FrontMatter.Slug
		}
		return c.documents[i].Path < c.documents[j].Path
	})
}

// Documents returns all documents sorted by slug.
func (c *Corpus) Documents() []*document.Document {
	return c.documents
}

// Len returns the number of loaded documents.
func (c *Corpus) Len() int {
	return len(c.documents)
}

// Get returns the document with the given slug.
func (c *Corpus) Get(slug string) (*document.Document, error) {
	docs := c.bySlug[slug]
	if len(docs) == 0 {
		return nil, errors.Errorf("document '%s' not found", slug)
	}
	return docs[0], nil
}

// Duplicates returns slugs declared by more than one document, with
// the documents that declare them.
func (c *Corpus) Duplicates() map[string][]*document.Document {
	dupes := make(map[string][]*document.Document)
	for slug, docs := range c.bySlug {
		if len(docs) > 1 {
			dupes[slug] = docs
		}
	}
	return dupes
}

// LoadErrors returns per-file parse failures encountered during Load.
func (c *Corpus) LoadErrors() []LoadError {
	return c.loadErrors
}

// Filter narrows the document set. Zero-value fields match everything;
// Skill and Tag accept glob patterns (e.g. "kafka-*").
type Filter struct {
	Category string
	Skill    string
	Tag      string
}

// Select returns the documents matching the filter, preserving order.
func (c *Corpus) Select(f Filter) ([]*document.Document, error) {
	var skillGlob, tagGlob glob.Glob
	var err error

	if f.Skill != "" {
		skillGlob, err = glob.Compile(f.Skill)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid skill pattern '%s'", f.Skill)
		}
	}
	if f.Tag != "" {
		tagGlob, err = glob.Compile(f.Tag)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid tag pattern '%s'", f.Tag)
		}
	}

	var matched []*document.Document
	for _, doc := range c.documents {
		if f.Category != "" && !strings.EqualFold(doc.FrontMatter.Category, f.Category) {
			continue
		}
		if skillGlob != nil && !matchAny(skillGlob, doc.FrontMatter.Skills) {
			continue
		}
		if tagGlob != nil && !matchAny(tagGlob, doc.FrontMatter.Tags) {
			continue
		}
		matched = append(matched, doc)
	}
	return matched, nil
}

func matchAny(g glob.Glob, values []string) bool {
	for _, v := range values {
		if g.Match(v) {
			return true
		}
	}
	return false
}

// Categories returns document counts per category.
func (c *Corpus) Categories() map[string]int {
	counts := make(map[string]int)
	for _, doc := range c.documents {
		counts[doc.FrontMatter.Category]++
	}
	return counts
}
