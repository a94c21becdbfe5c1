package fetch

import (
	"net/url"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.Und)

// deriveTitle builds a presentable title from a URL for entries that arrive
// without one: the last path segment, extension dropped, separators turned
// into spaces, title-cased.
func deriveTitle(rawURL string) string {
	fallback := "Untitled"

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fallback
	}

	segment := strings.Trim(parsed.Path, "/")
	if idx := strings.LastIndex(segment, "/"); idx >= 0 {
		segment = segment[idx+1:]
	}
	if dot := strings.LastIndex(segment, "."); dot > 0 {
		segment = segment[:dot]
	}

	segment = strings.NewReplacer("-", " ", "_", " ", "+", " ").Replace(segment)
	segment = strings.Join(strings.Fields(segment), " ")
	if segment == "" {
		return fallback
	}
	return titleCaser.String(segment)
}
