// Package htmlsanitize provides HTML sanitization for user-supplied desktop
// content. Text file bodies and profile bios arrive from arbitrary clients
// and are later served to anonymous visitors through the public projection,
// so both are sanitized with bluemonday before they reach storage.
package htmlsanitize

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	contentPolicy     *bluemonday.Policy
	contentPolicyOnce sync.Once

	bioPolicy     *bluemonday.Policy
	bioPolicyOnce sync.Once
)

// getContentPolicy returns the policy for rich text file bodies.
func getContentPolicy() *bluemonday.Policy {
	contentPolicyOnce.Do(func() {
		p := bluemonday.UGCPolicy()

		// Common inline formatting beyond the UGC baseline.
		p.AllowElements("u", "s", "sub", "sup", "mark")

		contentPolicy = p
	})
	return contentPolicy
}

// getBioPolicy returns the policy for profile bios: inline formatting and
// links only, no block structure.
func getBioPolicy() *bluemonday.Policy {
	bioPolicyOnce.Do(func() {
		p := bluemonday.NewPolicy()
		p.AllowElements("b", "strong", "i", "em", "u", "s", "br")
		p.AllowAttrs("href").OnElements("a")
		p.AllowURLSchemes("http", "https", "mailto")
		p.RequireNoFollowOnLinks(true)
		bioPolicy = p
	})
	return bioPolicy
}

// Content sanitizes the body of a text file item.
func Content(html string) string {
	if html == "" {
		return ""
	}
	return getContentPolicy().Sanitize(html)
}

// Bio sanitizes a profile bio down to inline formatting and safe links.
func Bio(html string) string {
	if html == "" {
		return ""
	}
	return strings.TrimSpace(getBioPolicy().Sanitize(html))
}

// StripTags removes all HTML, leaving plain text. Used for fields that must
// never carry markup, such as display names.
func StripTags(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(bluemonday.StrictPolicy().Sanitize(s))
}
