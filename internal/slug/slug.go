// Package slug generates URL-safe identifiers from category names.
package slug

import (
	"regexp"
	"strings"
)

var (
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9\s-]`)
	repeatedHyphens = regexp.MustCompile(`-{2,}`)
)

// Generate returns a URL-safe slug for s, e.g. "Water & Sanitation"
// becomes "water-sanitation".
func Generate(s string) string {
	out := strings.ToLower(strings.TrimSpace(s))
	out = nonAlphanumeric.ReplaceAllString(out, "")
	out = strings.ReplaceAll(out, " ", "-")
	out = repeatedHyphens.ReplaceAllString(out, "-")
	return strings.Trim(out, "-")
}
