package utils

import (
	"regexp"
	"strings"
)

var (
	slugInvalid  = regexp.MustCompile(`[^a-z0-9]+`)
	slugCollapse = regexp.MustCompile(`-{2,}`)
)

// Slugify turns a listing title into a URL-safe slug.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = slugInvalid.ReplaceAllString(s, "-")
	s = slugCollapse.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
