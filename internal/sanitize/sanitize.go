// Package sanitize cleans raw prompt text pulled from transcripts before it
// reaches the keyword classifiers.
package sanitize

import (
	"regexp"
	"strings"
)

var xmlTagPattern = regexp.MustCompile(
	`</?(?:local-command-(?:stdout|stderr|caveat)|command-(?:output|name|args|message)|` +
		`system-reminder|task-(?:id|notification)|persisted-output|thinking|tool-use-id|` +
		`tool|skill-name|plugin-id)[^>]*>`,
)

var whitespaceRun = regexp.MustCompile(`[ \t]{2,}`)

// StripTags removes Claude Code XML wrapper tags from text.
func StripTags(text string) string {
	return strings.TrimSpace(xmlTagPattern.ReplaceAllString(text, ""))
}

// CleanPrompt normalizes a user prompt for classification: wrapper tags are
// stripped, interior whitespace runs collapse to one space, and system
// caveat banners are dropped entirely.
func CleanPrompt(text string) string {
	text = StripTags(text)
	if text == "" {
		return ""
	}
	lower := strings.ToLower(text)
	if strings.HasPrefix(lower, "caveat:") {
		return ""
	}
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(text, " "))
}
