package document

import (
	"regexp"
	"strings"
)

var markdownLinkRe = regexp.MustCompile(`\[[^\]]*\]\(([^)\s]+)\)`)

// RelativeLinks returns the relative link targets in the document body.
// Absolute URLs, anchors, and mailto links are skipped; only targets
// that should resolve against the document's location are returned.
func (d *Document) RelativeLinks() []string {
	var links []string

	for _, match := range markdownLinkRe.FindAllStringSubmatch(d.Body, -1) {
		target := match[1]
		if target == "" {
			continue
		}
		if strings.Contains(target, "://") || strings.HasPrefix(target, "#") || strings.HasPrefix(target, "mailto:") {
			continue
		}
		// Strip fragment before resolving against the filesystem
		if idx := strings.Index(target, "#"); idx != -1 {
			target = target[:idx]
		}
		if target == "" {
			continue
		}
		links = append(links, target)
	}

	return links
}
