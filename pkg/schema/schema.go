// Package schema exports the front matter JSON Schema for editor
// integration and CI consumers.
package schema

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
	"github.com/pkg/errors"

	"github.com/skillcase/skillcase/pkg/document"
)

// FrontMatterSchema reflects the document front matter into a JSON Schema.
func FrontMatterSchema() *jsonschema.Schema {
	reflector := &jsonschema.Reflector{
		ExpandedStruct: true,
		DoNotReference: true,
	}
	return reflector.Reflect(&document.FrontMatter{})
}

// FrontMatterJSON returns the front matter JSON Schema as indented JSON.
func FrontMatterJSON() (string, error) {
	bytes, err := json.MarshalIndent(FrontMatterSchema(), "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal front matter schema")
	}
	return string(bytes), nil
}
