package extract

import (
	"strings"
	"time"

	"github.com/zen-systems/tripgate/pkg/lexical"
)

// The keyword strategy probes the text once per field and keeps the first
// hit. It has no gazetteer, no fallbacks and no overrides, which makes it
// predictable on short form-like input.

var (
	keywordRoutePattern    = compile(`\bfrom\s+([a-z][a-z ]*?)\s+to\s+([a-z][a-z ]*?)(?:\s+(?:from|on|in|for|with|by|during|and|next|this)\b|[^a-z ]|$)`)
	keywordDatePattern     = compile(`\b([a-z]+)\.?\s+(\d{1,2})(?:st|nd|rd|th)?(?:,?\s+(\d{4}))?\b`)
	keywordDurationPattern = compile(`\b(\d+)\s*days?\b`)
	keywordAdultPattern    = compile(`\b(\d+)\s*adults?\b`)
	keywordChildPattern    = compile(`\b(\d+)\s*(?:kids?|child|children)\b`)
	keywordInfantPattern   = compile(`\b(\d+)\s*infants?\b`)
	keywordBudgetPattern   = compile(`\$\s*(\d+(?:,\d+)*(?:\.\d+)?)`)
)

var (
	keywordTransport     = []string{"flight", "plane", "train", "bus", "car", "ship", "cruise"}
	keywordAccommodation = []string{"hotel", "hostel", "airbnb", "apartment", "resort"}
)

type keywordLocations struct{}

func (keywordLocations) ResolveLocations(text string) (string, string) {
	m := keywordRoutePattern.FindStringSubmatch(lexical.Normalize(text))
	if m == nil {
		return "", ""
	}
	return lexical.TitleCase(strings.TrimSpace(m[1])), lexical.TitleCase(strings.TrimSpace(m[2]))
}

type keywordDates struct{}

// ResolveDates takes the first two "Month D[, YYYY]" mentions as start and
// end. A bare "N days" supplies the duration when no range was found.
func (keywordDates) ResolveDates(text string, now time.Time) Dates {
	var found []calDate
	for _, m := range keywordDatePattern.FindAllStringSubmatch(text, -1) {
		month, ok := lookupMonth(m[1])
		if !ok {
			continue
		}
		found = append(found, calDate{day: atoi(m[2]), month: month, year: atoi(m[3])})
		if len(found) == 2 {
			break
		}
	}
	if len(found) == 2 {
		if d, ok := dateRange(found[0], found[1], now); ok {
			d.Rule = "keyword-dates"
			return d
		}
	}

	var d Dates
	if m := keywordDurationPattern.FindStringSubmatch(text); m != nil {
		d.DurationDays = atoi(m[1])
	}
	if len(found) >= 1 {
		if start, ok := found[0].resolve(now); ok {
			d.Start = start
			d.Rule = "keyword-dates"
			if d.DurationDays > 0 {
				d.End = start.AddDate(0, 0, d.DurationDays-1)
			}
		}
	}
	return d
}

type keywordTravelers struct{}

func (keywordTravelers) ResolveTravelers(text string) Travelers {
	count := func(m []string) int {
		if m == nil {
			return 0
		}
		return atoi(m[1])
	}
	return Travelers{
		Adults:   count(keywordAdultPattern.FindStringSubmatch(text)),
		Children: count(keywordChildPattern.FindStringSubmatch(text)),
		Infants:  count(keywordInfantPattern.FindStringSubmatch(text)),
	}
}

type keywordPreferences struct{}

func (keywordPreferences) ResolvePreferences(text string) Preferences {
	lower := lexical.Normalize(text)
	p := Preferences{Budget: UnknownBudget}

	switch {
	case lexical.ContainsPhrase(lower, "round trip"):
		p.TripType = []string{"Round Trip"}
	case lexical.ContainsPhrase(lower, "one way"):
		p.TripType = []string{"One Way"}
	}
	if m := keywordBudgetPattern.FindStringSubmatch(text); m != nil {
		p.Budget = "$" + strings.ReplaceAll(m[1], ",", "")
	}
	if kw := firstKeyword(lower, keywordTransport); kw != "" {
		p.Transportation = []string{lexical.TitleCase(kw)}
	}
	if kw := firstKeyword(lower, keywordAccommodation); kw != "" {
		p.Accommodation = []string{lexical.TitleCase(kw)}
	}
	return p
}

func firstKeyword(lower string, keywords []string) string {
	for _, kw := range keywords {
		if lexical.ContainsPhrase(lower, kw) {
			return kw
		}
	}
	return ""
}
