package utils

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictPolicy = bluemonday.StrictPolicy()
	ugcPolicy    = bluemonday.UGCPolicy()
)

// StripTags removes all markup from short text such as titles and categories.
// The result is plain text: StrictPolicy escapes what it keeps, so entities
// are decoded again before returning.
func StripTags(s string) string {
	return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(s)))
}

// CleanRichText keeps safe formatting in long text such as product
// descriptions. The result is HTML and is meant for display only.
func CleanRichText(s string) string {
	return strings.TrimSpace(ugcPolicy.Sanitize(s))
}
