package itinerary

import (
	"regexp"
	"strconv"
	"strings"
)

type sectionKind int

const (
	sectionPreamble sectionKind = iota
	sectionDaily
	sectionAttractions
	sectionAccommodations
	sectionDining
	sectionTransportation
	sectionTips
	sectionWeather
	sectionBudget
	sectionEmergency
)

// sectionNames classify heading text. Patterns are anchored at the start
// of the heading so list items that mention a topic are not headings.
var sectionNames = []struct {
	kind    sectionKind
	pattern *regexp.Regexp
}{
	{sectionDaily, ci(`^(?:(?:detailed\s+)?daily\s+(?:itinerary|schedule|plan)|day[-\s]by[-\s]day|(?:detailed\s+)?itinerary\b)`)},
	{sectionAttractions, ci(`^(?:top\s+|must[-\s]visit\s+|key\s+|main\s+)?(?:\d+\s+)?(?:must[-\s]visit\s+)?(?:attractions|sights|sightseeing)\b`)},
	{sectionAccommodations, ci(`^(?:recommended\s+)?(?:accommodations?|where\s+to\s+stay|hotels?|lodging)\b`)},
	{sectionDining, ci(`^(?:dining|restaurants?|where\s+to\s+eat|food\s+(?:and|&)\s+(?:dining|drink))\b`)},
	{sectionTransportation, ci(`^(?:transportation|transport|getting\s+around|local\s+transport(?:ation)?)\b`)},
	{sectionTips, ci(`^(?:(?:practical\s+|travel\s+|local\s+)?tips|travel\s+advice|practical\s+information)\b`)},
	{sectionWeather, ci(`^(?:weather|climate)\b`)},
	{sectionBudget, ci(`^(?:budget|estimated\s+costs?|cost\s+breakdown|costs?)\b`)},
	{sectionEmergency, ci(`^(?:emergency|essential\s+info(?:rmation)?|important\s+contacts|safety\s+(?:and|&)\s+emergency)\b`)},
}

// sectionByNumber follows the numbering of the compiled prompt.
var sectionByNumber = map[int]sectionKind{
	1: sectionDaily,
	2: sectionAttractions,
	3: sectionAccommodations,
	4: sectionDining,
	5: sectionTransportation,
	6: sectionTips,
	7: sectionWeather,
	8: sectionBudget,
	9: sectionEmergency,
}

var (
	markdownHeading  = regexp.MustCompile(`^[ \t]{0,3}(#{1,6})[ \t]*(.+?)[ \t#]*$`)
	boldHeading      = regexp.MustCompile(`^[ \t]*(?:\*\*|__)([^*_]+?)(?:\*\*|__)[ \t]*:?[ \t]*$`)
	numberedHeading  = regexp.MustCompile(`^[ \t]*(\d)\.[ \t]+(.+?)[ \t]*$`)
	headingNumber    = regexp.MustCompile(`^(\d{1,2})[.)][ \t]*`)
	dayMarkerPattern = ci(`(?m)^[ \t]*(?:#{1,6}[ \t]*)?(?:[*\-•][ \t]+)?(?:\*\*|__)?[ \t]*day[ \t]+(\d{1,3})\b(.*)$`)
)

// section is one headed region of the reply. Start is the offset of its
// heading line; Body excludes the heading.
type section struct {
	kind  sectionKind
	level int
	start int
	body  string
}

type headingInfo struct {
	kind  sectionKind
	level int
}

// classifyHeading reports whether line opens a new section after cur.
// Markdown headings may be classified by number alone; bold lines must
// name a section and never interrupt the daily schedule; plain numbered
// lines must carry the number the prompt gave that section. A heading of
// the current kind is read as a list entry, not a new section.
func classifyHeading(line string, cur section) (headingInfo, bool) {
	var (
		name     string
		level    int
		markdown bool
	)
	switch {
	case markdownHeading.MatchString(line):
		m := markdownHeading.FindStringSubmatch(line)
		level, name, markdown = len(m[1]), m[2], true
	case boldHeading.MatchString(line):
		if cur.kind == sectionDaily {
			return headingInfo{}, false
		}
		name, level = boldHeading.FindStringSubmatch(line)[1], 7
	case numberedHeading.MatchString(line):
		m := numberedHeading.FindStringSubmatch(line)
		name, level = m[1]+". "+m[2], 8
	default:
		return headingInfo{}, false
	}

	name = strings.TrimSpace(emphasisMarker.ReplaceAllString(name, ""))
	if dayMarkerPattern.MatchString(name) {
		return headingInfo{}, false
	}
	number := 0
	if m := headingNumber.FindStringSubmatch(name); m != nil {
		number, _ = strconv.Atoi(m[1])
		name = name[len(m[0]):]
	}
	endsWithColon := strings.HasSuffix(name, ":")
	name = strings.Trim(name, " \t:")

	kind, named := classifyName(name)
	switch {
	case named && level == 8:
		if sectionByNumber[number] != kind || (!endsWithColon && len(strings.Fields(name)) > 5) {
			return headingInfo{}, false
		}
	case !named && markdown && (cur.kind == sectionPreamble || level <= cur.level):
		kind, named = sectionByNumber[number]
	}
	if !named || kind == cur.kind {
		return headingInfo{}, false
	}
	return headingInfo{kind: kind, level: level}, true
}

func classifyName(name string) (sectionKind, bool) {
	for _, s := range sectionNames {
		if s.pattern.MatchString(name) {
			return s.kind, true
		}
	}
	return sectionPreamble, false
}

// splitSections cuts the reply at section headings. Text before the first
// heading is the preamble.
func splitSections(text string) []section {
	var (
		out     []section
		current = section{kind: sectionPreamble}
		body    strings.Builder
		offset  int
	)
	for _, line := range strings.SplitAfter(text, "\n") {
		trimmed := strings.TrimRight(line, "\r\n")
		if h, ok := classifyHeading(trimmed, current); ok {
			current.body = body.String()
			out = append(out, current)
			current = section{kind: h.kind, level: h.level, start: offset}
			body.Reset()
		} else {
			body.WriteString(line)
		}
		offset += len(line)
	}
	current.body = body.String()
	return append(out, current)
}

// sectionText concatenates the bodies of every section of kind.
func sectionText(sections []section, kind sectionKind) (string, bool) {
	var b strings.Builder
	found := false
	for _, s := range sections {
		if s.kind == kind {
			found = true
			b.WriteString(s.body)
			b.WriteString("\n")
		}
	}
	return b.String(), found
}

// nextBoundary returns the start of the first non-daily section after pos,
// or end.
func nextBoundary(sections []section, pos, end int) int {
	for _, s := range sections {
		if s.start > pos && s.kind != sectionDaily && s.kind != sectionPreamble {
			return min(s.start, end)
		}
	}
	return end
}
