package extract

import (
	"regexp"
)

// countPrefix allows "2adults" but requires a space after word numerals so
// "amen" is not "a men".
const countPrefix = `\b(\d+\s*|(?:an?|one|two|three|four|five|six|seven|eight|nine|ten)\s+)`

var (
	adultCountPattern  = compile(countPrefix + `(?:adults?|people|persons?|men|man|women|woman|ladies|lady|climbers?|travell?ers?|pax)\b`)
	childCountPattern  = compile(countPrefix + `(?:children|child|kids?)\b`)
	infantCountPattern = compile(countPrefix + `(?:infants?|babies|baby)\b`)

	soloPattern    = compile(`\b(?:solo|alone)\b`)
	duoPattern     = compile(`\b(?:duo|honeymoon|couple|pair|my\s+(?:partner|wife|husband|girlfriend|boyfriend)\s+and\s+i)\b`)
	trioPattern    = compile(`\btrio\b`)
	groupPattern   = compile(`\b(?:family|group)\s+of\s+(\d+|one|two|three|four|five|six|seven|eight|nine|ten)\b`)
	pronounPattern = compile(`\b(?:i|me|myself)\b`)
)

func firstCount(re *regexp.Regexp, text string) int {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	return parseTravelerCount(m[1])
}

// cascadeTravelers reads explicit counts first, then lets idioms override
// the adult count. Override order: solo, duo, trio, family/group of N, and
// finally a first-person pronoun when no party size was given at all.
type cascadeTravelers struct{}

func (cascadeTravelers) ResolveTravelers(text string) Travelers {
	t := Travelers{
		Adults:   firstCount(adultCountPattern, text),
		Children: firstCount(childCountPattern, text),
		Infants:  firstCount(infantCountPattern, text),
	}

	switch {
	case soloPattern.MatchString(text):
		t.Adults = 1
	case duoPattern.MatchString(text):
		t.Adults = 2
	case trioPattern.MatchString(text):
		t.Adults = 3
	default:
		if m := groupPattern.FindStringSubmatch(text); m != nil {
			if total := parseTravelerCount(m[1]); total > 2 {
				t.Adults = max(2, total-t.Children-t.Infants)
			}
			break
		}
		if t.Adults == 0 && t.Children == 0 && pronounPattern.MatchString(text) {
			t.Adults = 1
		}
	}
	return t
}
