package scaffold

import (
	_ "embed"
	"strings"
)

// Embedded builtin template files
var (
	//go:embed templates/usecase.md
	usecaseTemplate string
)

// builtinTemplate returns the content of a builtin template by name
func builtinTemplate(name string) (string, bool) {
	name = strings.TrimPrefix(name, "./")
	name = strings.TrimSuffix(name, ".md")

	switch name {
	case "usecase", "":
		return usecaseTemplate, true
	default:
		return "", false
	}
}

// builtinTemplateNames lists builtin template names for ListTemplates
func builtinTemplateNames() []string {
	return []string{"usecase"}
}
