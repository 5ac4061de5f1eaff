// Package lexical holds the text normalization and word-boundary matching
// helpers shared by every extractor.
package lexical

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Token is a whitespace-delimited word with its byte offsets in the source text.
type Token struct {
	Text  string
	Lower string
	Start int
	End   int
}

var punctFolder = strings.NewReplacer(
	"‘", "'", "’", "'",
	"“", `"`, "”", `"`,
	"–", "-", "—", "-", "−", "-",
	" ", " ",
)

// Canonical returns the NFKC form of text with typographic quotes and dashes
// folded to ASCII. Case is preserved.
func Canonical(text string) string {
	return punctFolder.Replace(norm.NFKC.String(text))
}

// Normalize returns the canonical, lower-cased form of text.
func Normalize(text string) string {
	return strings.ToLower(Canonical(text))
}

// Tokenize splits text on whitespace. Lower is the lower-cased token with
// surrounding punctuation trimmed.
func Tokenize(text string) []Token {
	var tokens []Token
	start := -1
	for i, r := range text {
		if unicode.IsSpace(r) {
			if start >= 0 {
				tokens = append(tokens, newToken(text, start, i))
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		tokens = append(tokens, newToken(text, start, len(text)))
	}
	return tokens
}

func newToken(text string, start, end int) Token {
	raw := text[start:end]
	return Token{
		Text:  raw,
		Lower: strings.ToLower(TrimPunct(raw)),
		Start: start,
		End:   end,
	}
}

// TrimPunct strips leading and trailing punctuation and symbols.
func TrimPunct(s string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSymbol(r)
	})
}

// ContainsPhrase reports whether phrase occurs in text on word boundaries.
// Both arguments are expected to be normalized already.
func ContainsPhrase(text, phrase string) bool {
	return IndexPhrase(text, phrase) >= 0
}

// IndexPhrase returns the byte offset of the first word-bounded occurrence of
// phrase in text, or -1.
func IndexPhrase(text, phrase string) int {
	if phrase == "" {
		return -1
	}
	offset := 0
	for {
		idx := strings.Index(text[offset:], phrase)
		if idx == -1 {
			return -1
		}
		idx += offset
		if IsBoundary(text, idx, idx+len(phrase)) {
			return idx
		}
		offset = idx + 1
	}
}

// IsBoundary reports whether text[start:end] is not glued to word characters
// on either side.
func IsBoundary(text string, start, end int) bool {
	if start > 0 {
		prev, _ := utf8.DecodeLastRuneInString(text[:start])
		if IsWordRune(prev) {
			return false
		}
	}
	if end < len(text) {
		next, _ := utf8.DecodeRuneInString(text[end:])
		if IsWordRune(next) {
			return false
		}
	}
	return true
}

// IsWordRune reports whether r is a letter, digit or underscore.
func IsWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// TitleCase capitalizes the first letter of every word. A Caser keeps state,
// so one is built per call.
func TitleCase(s string) string {
	return cases.Title(language.English).String(strings.ToLower(s))
}

// Words returns the lower-cased, punctuation-trimmed tokens of text, skipping
// tokens that become empty.
func Words(text string) []string {
	tokens := Tokenize(text)
	words := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if t.Lower != "" {
			words = append(words, t.Lower)
		}
	}
	return words
}

// FoldCase lower-cases s rune by rune, keeping any rune whose lower-case form
// has a different encoded width. The result has the same byte length as s, so
// offsets found in it apply to s.
func FoldCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size <= 1 {
			b.WriteByte(s[i])
			i++
			continue
		}
		l := unicode.ToLower(r)
		if utf8.RuneLen(l) != size {
			l = r
		}
		b.WriteRune(l)
		i += size
	}
	return b.String()
}
