// File: /utils/sanitize.go
package utils

import (
	"regexp"
	"strings"
)

var (
	scriptTagRegex    = regexp.MustCompile(`(?is)<script\b.*?</script>`)
	jsURIRegex        = regexp.MustCompile(`(?i)javascript:`)
	eventHandlerRegex = regexp.MustCompile(`(?i)on\w+\s*=`)

	htmlEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#039;",
	)
)

// StripDangerous removes script blocks, javascript: URIs and inline event
// handlers, then trims whitespace.
func StripDangerous(s string) string {
	s = scriptTagRegex.ReplaceAllString(s, "")
	s = jsURIRegex.ReplaceAllString(s, "")
	s = eventHandlerRegex.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

// SanitizeText is applied to every free-text field before it is stored.
func SanitizeText(s string) string {
	return EscapeHTML(StripDangerous(s))
}
