package listings

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/russross/blackfriday/v2"
)

var descriptionPolicy = bluemonday.UGCPolicy()

// RenderDescription turns the markdown description into sanitized HTML.
func RenderDescription(markdown string) string {
	markdown = strings.TrimSpace(markdown)
	if markdown == "" {
		return ""
	}
	rendered := blackfriday.Run([]byte(markdown))
	return string(descriptionPolicy.SanitizeBytes(rendered))
}
