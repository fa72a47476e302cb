package schema

import (
	"regexp"
	"strings"
)

var (
	apostrophes    = strings.NewReplacer("'", "", "’", "")
	slugInvalidRun = regexp.MustCompile(`[^a-z0-9]+`)
	slugDashRun    = regexp.MustCompile(`-+`)
)

// NormalizeSlug turns arbitrary text into a lowercase, hyphenated token that is
// safe for URLs and filenames. It is total and idempotent; empty input yields
// an empty slug, so callers must pick a fallback before relying on the result.
func NormalizeSlug(s string) string {
	s = strings.ToLower(s)
	s = stripApostrophes(s)
	s = slugInvalidRun.ReplaceAllString(s, "-")
	s = slugDashRun.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// deriveSlug picks the first candidate that yields a non-empty slug.
func deriveSlug(candidates ...string) string {
	for _, c := range candidates {
		if slug := NormalizeSlug(c); slug != "" {
			return slug
		}
	}
	return "brand"
}

func stripApostrophes(s string) string { return apostrophes.Replace(s) }
