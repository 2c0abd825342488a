// Package normalize turns loosely structured feed entries into episode records.
// It holds the field level rules (text, duration, dates, media selection)
// and the assembler applying them to a whole feed.
package normalize

import (
	"html"
	"regexp"
	"strings"
)

var (
	// whitespace classes include unicode spaces, &nbsp; is common in feed descriptions
	tagRe   = regexp.MustCompile(`<[^>]+>`)
	urlRe   = regexp.MustCompile(`https?://[^\s\p{Z}\x{85}]+`)
	spaceRe = regexp.MustCompile(`[\s\p{Z}\x{85}]+`)
)

// CleanText converts html-ish text to a single line of plain text.
// Entities are unescaped exactly once, so double escaped text stays escaped.
// Tags are replaced by spaces with their inner text kept, raw links dropped
// and whitespace collapsed.
func CleanText(text string) string {
	if text == "" {
		return ""
	}

	text = html.UnescapeString(text)
	text = tagRe.ReplaceAllString(text, " ")

	// links are not wanted in search descriptions
	text = urlRe.ReplaceAllString(text, "")
	text = spaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
