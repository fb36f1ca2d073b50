package aboutxml

import (
	"regexp"
	"strings"
)

// DefaultMarker is the marker text written when none is configured.
const DefaultMarker = "AI-Translated"

// Legacy marker prefixes. Files carrying either are treated as translated
// even when the configured marker differs.
const (
	legacyAIMarker = "<!-- AI-Translated"
	legacyMarker   = "<!-- Translated"
)

// reLegacyMarker matches a whole legacy marker comment plus the line break
// that AddMarker put after it.
var reLegacyMarker = regexp.MustCompile(`(?s)<!-- (?:AI-)?Translated.*?-->[ \t]*\r?\n?`)

// MarkerComment renders marker text as an XML comment. Text that is already
// a comment is returned unchanged.
func MarkerComment(marker string) string {
	marker = strings.TrimSpace(marker)
	if marker == "" {
		marker = DefaultMarker
	}
	if strings.HasPrefix(marker, "<!--") && strings.HasSuffix(marker, "-->") {
		return marker
	}
	return "<!-- " + marker + " -->"
}

// MatchMarker reports which marker variant text carries, if any.
// The configured marker is checked first, then the two legacy prefixes.
func MatchMarker(text, marker string) (string, bool) {
	if c := MarkerComment(marker); strings.Contains(text, c) {
		return c, true
	}
	for _, p := range []string{legacyAIMarker, legacyMarker} {
		if strings.Contains(text, p) {
			return p, true
		}
	}
	return "", false
}

// IsTranslated reports whether text carries the configured marker or one of
// the legacy markers.
func IsTranslated(text, marker string) bool {
	_, ok := MatchMarker(text, marker)
	return ok
}

// StripMarkers removes every marker comment from text: both legacy patterns
// and the exact configured comment.
func StripMarkers(text, marker string) string {
	text = reLegacyMarker.ReplaceAllLiteralString(text, "")

	comment := MarkerComment(marker)
	var b strings.Builder
	for {
		i := strings.Index(text, comment)
		if i < 0 {
			b.WriteString(text)
			return b.String()
		}
		b.WriteString(text[:i])
		text = trimLineBreak(text[i+len(comment):])
	}
}

// trimLineBreak drops trailing blanks and one line break from the start of s.
func trimLineBreak(s string) string {
	s = strings.TrimLeft(s, " \t")
	if rest, ok := strings.CutPrefix(s, "\r\n"); ok {
		return rest
	}
	return strings.TrimPrefix(s, "\n")
}

// AddMarker strips any previous markers and inserts a single marker comment
// right after the XML declaration, or at the start of the document when
// there is none. The result depends only on text and marker.
func AddMarker(text, marker string) string {
	text = StripMarkers(text, marker)
	comment := MarkerComment(marker)

	end := declarationEnd(text)
	if end < 0 {
		return comment + "\n" + text
	}

	head, rest := text[:end], text[end:]
	if strings.HasPrefix(rest, "\n") || strings.HasPrefix(rest, "\r\n") {
		return head + "\n" + comment + rest
	}
	return head + "\n" + comment + "\n" + rest
}

// declarationEnd returns the offset just past the XML declaration's "?>",
// or -1 if the document does not open with one.
func declarationEnd(text string) int {
	trimmed := strings.TrimLeft(text, " \t\r\n\ufeff")
	if !strings.HasPrefix(trimmed, "<?xml") {
		return -1
	}
	offset := len(text) - len(trimmed)
	idx := strings.Index(trimmed, "?>")
	if idx < 0 {
		return -1
	}
	return offset + idx + len("?>")
}
