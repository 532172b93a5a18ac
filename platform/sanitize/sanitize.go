// Package sanitize normalizes free-text fields before they are stored.
package sanitize

import (
	"html"
	"regexp"
	"strings"
)

var (
	htmlTagRegex    = regexp.MustCompile(`<[^>]*>`)
	inlineSpaceRuns = regexp.MustCompile(`[ \t]+`)
)

// Text strips markup, decodes entities, collapses runs of spaces and tabs and
// trims the result. Line breaks are kept so multi-line notes survive.
func Text(s string) string {
	result := htmlTagRegex.ReplaceAllString(s, "")
	result = html.UnescapeString(result)
	// Encoded tags become real tags after unescaping.
	result = htmlTagRegex.ReplaceAllString(result, "")
	result = inlineSpaceRuns.ReplaceAllString(result, " ")
	return strings.TrimSpace(result)
}

// TextPtr sanitizes an optional field. Nil, and anything that sanitizes to
// the empty string, yields nil.
func TextPtr(s *string) *string {
	if s == nil {
		return nil
	}
	result := Text(*s)
	if result == "" {
		return nil
	}
	return &result
}
