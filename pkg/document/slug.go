package document

import (
	"regexp"
	"strings"
)

var kebabCaseRe = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// IsKebabCase reports whether s is a valid kebab-case slug:
// lowercase alphanumeric runs separated by single hyphens.
func IsKebabCase(s string) bool {
	return kebabCaseRe.MatchString(s)
}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a kebab-case slug from an arbitrary title.
func Slugify(title string) string {
	s := strings.ToLower(title)
	s = nonSlugChars.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
