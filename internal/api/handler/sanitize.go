package handler

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Policies are safe for concurrent use once built.
var (
	// titles are plain text
	titlePolicy = bluemonday.StrictPolicy()
	// content keeps user-generated formatting but no scripts or handlers
	contentPolicy = bluemonday.UGCPolicy()
)

// sanitizeTitle strips markup and returns plain text. The policy escapes
// entities in its output, so they are decoded again before storage.
func sanitizeTitle(s string) string {
	return strings.TrimSpace(html.UnescapeString(titlePolicy.Sanitize(s)))
}

func sanitizeContent(s *string) *string {
	if s == nil {
		return nil
	}
	clean := contentPolicy.Sanitize(*s)
	return &clean
}
