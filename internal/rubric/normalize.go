package rubric

import (
	"regexp"
	"strings"
)

var lineBreakTag = regexp.MustCompile(`(?i)<br\s*/?>`)

var emphasisMarkers = strings.NewReplacer("*", "", "_", "")

// Normalize strips markdown emphasis markers and inline line-break tags
// from a table cell and trims the result. It is idempotent.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	// Bold markers are doubled italic markers, so removing every '*' and '_'
	// covers both.
	s := emphasisMarkers.Replace(text)
	// Removing a tag can splice a new one together ("<b<br>r>"), so repeat
	// until nothing matches. Each pass shrinks the string.
	for lineBreakTag.MatchString(s) {
		s = lineBreakTag.ReplaceAllString(s, " ")
	}
	return strings.TrimSpace(s)
}
