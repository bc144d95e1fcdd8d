// Package textutil formats post fields for display.
package textutil

import (
	"html"
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gosimple/slug"
)

const (
	DefaultExcerptLength = 150
	wordsPerMinute       = 200
)

var markdownStripper = strings.NewReplacer(
	"#", "", "*", "", "`", "",
	"[", "", "]", "", "(", "", ")", "",
)

// Excerpt strips the common Markdown punctuation and truncates to length
// runes, appending "..." when something was cut.
func Excerpt(markdown string, length int) string {
	text := strings.TrimSpace(markdownStripper.Replace(markdown))
	runes := []rune(text)
	if len(runes) > length {
		return string(runes[:length]) + "..."
	}
	return text
}

// FormatDate renders t like "March 5, 2024".
func FormatDate(t time.Time) string {
	return t.Format("January 2, 2006")
}

// FormatRelative renders t relative to now, e.g. "3 days ago".
func FormatRelative(t, now time.Time) string {
	return humanize.RelTime(t, now, "ago", "from now")
}

// EscapeHTML makes text safe to embed in HTML element content or attributes.
func EscapeHTML(text string) string {
	return html.EscapeString(text)
}

// ReadTime estimates reading time in whole minutes, never less than one.
func ReadTime(content string) int {
	words := len(strings.Fields(content))
	minutes := int(math.Ceil(float64(words) / wordsPerMinute))
	if minutes < 1 {
		return 1
	}
	return minutes
}

// SplitTags turns "go, web,,go" into ["go", "web"], keeping first-seen order.
func SplitTags(raw string) []string {
	var tags []string
	seen := make(map[string]bool)
	for _, part := range strings.Split(raw, ",") {
		tag := strings.TrimSpace(part)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	return tags
}

// Slug builds a URL-friendly label from a title. It is decorative only;
// posts are addressed by id.
func Slug(title string) string {
	return slug.Make(title)
}
