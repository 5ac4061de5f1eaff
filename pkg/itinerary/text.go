package itinerary

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/zen-systems/tripgate/pkg/lexical"
)

var (
	bulletPrefix   = regexp.MustCompile(`^[ \t]*(?:[*\-•+]|\d{1,2}[.)])[ \t]+`)
	emphasisMarker = regexp.MustCompile(`\*\*|__`)
	sentencePiece  = regexp.MustCompile(`[^.!?\n]+[.!?]*`)
)

// cleanInline strips emphasis markers, leading bullets and surrounding
// punctuation from a single line.
func cleanInline(s string) string {
	s = bulletPrefix.ReplaceAllString(s, "")
	s = emphasisMarker.ReplaceAllString(s, "")
	s = strings.Trim(s, " \t*_#:-–—")
	return strings.Join(strings.Fields(s), " ")
}

// flatten joins the cleaned non-empty lines of a block with spaces.
func flatten(block string) string {
	var parts []string
	for _, line := range strings.Split(block, "\n") {
		if c := cleanInline(line); c != "" {
			parts = append(parts, c)
		}
	}
	return strings.Join(parts, " ")
}

// sentences splits text into trimmed sentences.
func sentences(text string) []string {
	var out []string
	for _, s := range sentencePiece.FindAllString(flatten(text), -1) {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// prefix returns at most n bytes of s without splitting a rune.
func prefix(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func titleWord(s string) string {
	return lexical.TitleCase(s)
}

func ci(pattern string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)` + pattern)
}
