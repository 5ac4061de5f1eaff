package extract

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/zen-systems/tripgate/pkg/gazetteer"
	"github.com/zen-systems/tripgate/pkg/lexical"
)

// Span is a recognized location mention. Start and End are byte offsets in
// the text passed to the recognizer.
type Span struct {
	Phrase string
	Start  int
	End    int
}

// LocationRecognizer identifies place-name spans in text. Any backend that
// returns spans in text order satisfies it.
type LocationRecognizer interface {
	LocationSpans(text string) []Span
}

// GazetteerRecognizer recognizes places listed in a gazetteer.
type GazetteerRecognizer struct {
	g *gazetteer.Gazetteer
}

// NewGazetteerRecognizer wraps g. A nil g uses the embedded default table.
func NewGazetteerRecognizer(g *gazetteer.Gazetteer) *GazetteerRecognizer {
	return &GazetteerRecognizer{g: g}
}

// DefaultRecognizer returns a recognizer over the embedded gazetteer.
func DefaultRecognizer() *GazetteerRecognizer {
	return &GazetteerRecognizer{}
}

func (r *GazetteerRecognizer) table() *gazetteer.Gazetteer {
	if r.g != nil {
		return r.g
	}
	return gazetteer.Default()
}

// LocationSpans implements LocationRecognizer.
func (r *GazetteerRecognizer) LocationSpans(text string) []Span {
	matches := r.table().Scan(text)
	spans := make([]Span, 0, len(matches))
	for _, m := range matches {
		spans = append(spans, Span{Phrase: m.Place.Name, Start: m.Start, End: m.End})
	}
	return spans
}

// Lookup reports a gazetteer hit for phrase.
func (r *GazetteerRecognizer) Lookup(phrase string) (string, bool) {
	p, ok := r.table().Lookup(phrase)
	return p.Name, ok
}

// phraseLookup is implemented by recognizers that can check single phrases.
type phraseLookup interface {
	Lookup(phrase string) (string, bool)
}

var nonPlaceWords = func() map[string]bool {
	words := []string{
		"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
		"i", "we", "my", "our", "the", "a", "an", "and", "or", "but", "then", "also",
		"for", "from", "to", "in", "on", "at", "of", "with", "by", "via",
		"days", "day", "nights", "night", "weeks", "week", "months", "month",
		"trip", "travel", "vacation", "holiday", "visit", "stay", "budget",
		"christmas", "easter", "next", "this", "last",
	}
	m := make(map[string]bool, len(words)+len(monthsByName))
	for _, w := range words {
		m[w] = true
	}
	for name := range monthsByName {
		m[name] = true
	}
	return m
}()

// anchorStops end the phrase governed by a from/to anchor.
var anchorStops = map[string]bool{
	"from": true, "to": true, "toward": true, "towards": true,
	"for": true, "with": true, "on": true, "during": true, "by": true,
	"then": true, "we": true, "i": true, "our": true, "my": true,
	"stay": true, "staying": true,
}

func isAnchor(lower string) (start, dest bool) {
	switch lower {
	case "from":
		return true, false
	case "to", "toward", "towards":
		return false, true
	}
	return false, false
}

func endsClause(raw string) bool {
	return strings.ContainsAny(raw[len(raw)-1:], ".!?;:\n")
}

// cascadeLocations resolves locations by anchor-governed phrases, then an
// unordered candidate list, then multi-destination augmentation.
type cascadeLocations struct {
	recognizer LocationRecognizer
}

func (c *cascadeLocations) ResolveLocations(text string) (string, string) {
	tokens := lexical.Tokenize(text)
	spans := c.recognizer.LocationSpans(text)

	legs := anchorLegs(text, tokens, spans)
	var start, dest string
	for _, leg := range legs {
		if leg.start {
			start = leg.places()
		} else {
			dest = leg.places()
		}
	}

	if start == "" && dest == "" {
		candidates := c.candidates(text, tokens, spans)
		switch {
		case len(candidates) >= 2:
			start, dest = candidates[0], candidates[1]
		case len(candidates) == 1:
			dest = candidates[0]
		}
	}

	if route := complexRoute(legs); len(route) >= 2 {
		if first := firstStartLeg(legs); first != "" {
			start = first
		}
		dest = strings.Join(route, ", ")
	}
	if list := destinationList(text, c.recognizer); len(list) >= 2 {
		dest = strings.Join(list, ", ")
	}
	return start, dest
}

// leg is the set of places governed by one from/to anchor.
type leg struct {
	start  bool
	phrase []string
}

func (l leg) places() string {
	return strings.Join(l.phrase, ", ")
}

// anchorLegs collects, for each anchor token, the places inside the phrase
// it governs: recognizer spans when any fall inside, else the leading run of
// capitalized words. Anchors that govern no place are dropped.
func anchorLegs(text string, tokens []lexical.Token, spans []Span) []leg {
	var legs []leg
	for i, tok := range tokens {
		isStart, isDest := isAnchor(tok.Lower)
		if !isStart && !isDest {
			continue
		}
		if endsClause(tok.Text) || i+1 >= len(tokens) {
			continue
		}
		from := tokens[i+1].Start
		to := len(text)
		for j := i + 1; j < len(tokens); j++ {
			if anchorStops[tokens[j].Lower] {
				to = tokens[j].Start
				break
			}
			if endsClause(tokens[j].Text) {
				to = tokens[j].End
				break
			}
		}

		var places []string
		for _, s := range spans {
			if s.Start >= from && s.End <= to {
				places = appendUnique(places, s.Phrase)
			}
		}
		if len(places) == 0 {
			if p := properNounRun(tokens[i+1:], to); p != "" {
				places = append(places, p)
			}
		}
		if len(places) > 0 {
			legs = append(legs, leg{start: isStart, phrase: places})
		}
	}
	return legs
}

// properNounRun returns the capitalized words at the head of tokens that end
// before limit, or "" when the head word is not capitalized or is a month,
// weekday or function word.
func properNounRun(tokens []lexical.Token, limit int) string {
	var words []string
	for _, tok := range tokens {
		if tok.Start >= limit {
			break
		}
		word := lexical.TrimPunct(tok.Text)
		if word == "" || !startsUpper(word) || nonPlaceWords[strings.ToLower(word)] || !isAlphaWord(word) {
			break
		}
		words = append(words, word)
		if endsClause(tok.Text) || strings.HasSuffix(tok.Text, ",") {
			break
		}
	}
	if len(words) == 0 {
		return ""
	}
	return lexical.TitleCase(strings.Join(words, " "))
}

func startsUpper(s string) bool {
	for _, r := range s {
		return unicode.IsUpper(r)
	}
	return false
}

func isAlphaWord(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && r != '-' && r != '\'' {
			return false
		}
	}
	return true
}

func appendUnique(list []string, v string) []string {
	key := strings.ToLower(v)
	for _, existing := range list {
		if strings.ToLower(existing) == key {
			return list
		}
	}
	return append(list, v)
}

var prepositionPlacePattern = regexp.MustCompile(`\b(?:from|to|visit|traveling to|travelling to|heading to|going to|in|at|of|to the|toward the)\s+([A-Z][a-z]+(?:\s[A-Z][a-z]+)*)`)

// candidates merges recognizer spans, capitalized phrases after
// prepositions and 1-3 word gazetteer n-grams, deduplicated in first-seen
// order.
func (c *cascadeLocations) candidates(text string, tokens []lexical.Token, spans []Span) []string {
	var out []string
	for _, s := range spans {
		out = appendUnique(out, s.Phrase)
	}
	for _, m := range prepositionPlacePattern.FindAllStringSubmatch(text, -1) {
		if phrase := trimNonPlaceWords(m[1]); phrase != "" {
			out = appendUnique(out, lexical.TitleCase(phrase))
		}
	}
	if lookup, ok := c.recognizer.(phraseLookup); ok {
		words := make([]string, len(tokens))
		for i, t := range tokens {
			words[i] = lexical.TrimPunct(t.Text)
		}
		for i := range words {
			for n := 1; n <= 3 && i+n <= len(words); n++ {
				if name, ok := lookup.Lookup(strings.Join(words[i:i+n], " ")); ok {
					out = appendUnique(out, name)
				}
			}
		}
	}
	return out
}

// trimNonPlaceWords drops a regex capture made only of months, weekdays
// and function words, and trims such words from its head.
func trimNonPlaceWords(phrase string) string {
	words := strings.Fields(phrase)
	for len(words) > 0 && nonPlaceWords[strings.ToLower(words[0])] {
		words = words[1:]
	}
	if len(words) == 0 {
		return ""
	}
	return strings.Join(words, " ")
}

// complexRoute handles "from A to B, to C from D": with two or more
// destination legs every place after the first origin is a destination.
func complexRoute(legs []leg) []string {
	destLegs := 0
	for _, l := range legs {
		if !l.start {
			destLegs++
		}
	}
	if destLegs < 2 {
		return nil
	}
	var route []string
	seenStart := false
	for _, l := range legs {
		if l.start && !seenStart {
			seenStart = true
			continue
		}
		for _, p := range l.phrase {
			route = appendUnique(route, p)
		}
	}
	return route
}

func firstStartLeg(legs []leg) string {
	for _, l := range legs {
		if l.start {
			return l.places()
		}
	}
	return ""
}

var (
	listTriggerPattern = compile(`\b(?:visit|visiting|traveling\s+to|travelling\s+to|going\s+to|heading\s+to|explore|exploring)\s+`)
	listSplitPattern   = compile(`\s*,\s*(?:and\s+)?|\s+and\s+|\s*&\s*`)
	listEndPattern     = regexp.MustCompile(`[.!?;:\n]`)
)

// destinationList reads comma or "and" separated places after a visit-style
// trigger. Each item is cut at its first stop word and must be longer than
// two characters.
func destinationList(text string, recognizer LocationRecognizer) []string {
	var out []string
	lookup, _ := recognizer.(phraseLookup)
	for _, loc := range listTriggerPattern.FindAllStringIndex(text, -1) {
		segment := text[loc[1]:]
		if end := listEndPattern.FindStringIndex(segment); end != nil {
			segment = segment[:end[0]]
		}
		var items []string
		for _, part := range listSplitPattern.Split(segment, -1) {
			item := leadingPlaceWords(part)
			if len(item) <= 2 {
				continue
			}
			if lookup != nil {
				if name, ok := lookup.Lookup(item); ok {
					items = appendUnique(items, name)
					continue
				}
			}
			if startsUpper(item) {
				items = appendUnique(items, lexical.TitleCase(item))
			}
		}
		if len(items) >= 2 {
			for _, it := range items {
				out = appendUnique(out, it)
			}
		}
	}
	return out
}

// leadingPlaceWords keeps the words of part up to the first stop word or
// non-alphabetic word.
func leadingPlaceWords(part string) string {
	var words []string
	for _, w := range strings.Fields(part) {
		w = lexical.TrimPunct(w)
		lw := strings.ToLower(w)
		if w == "" || nonPlaceWords[lw] || !isAlphaWord(w) {
			if len(words) == 0 && lw == "the" {
				continue
			}
			break
		}
		words = append(words, w)
	}
	return strings.Join(words, " ")
}
