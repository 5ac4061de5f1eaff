package extract

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

var monthsByName = map[string]time.Month{
	"january": time.January, "jan": time.January,
	"february": time.February, "feb": time.February,
	"march": time.March, "mar": time.March,
	"april": time.April, "apr": time.April,
	"may": time.May,
	"june": time.June, "jun": time.June,
	"july": time.July, "jul": time.July,
	"august": time.August, "aug": time.August,
	"september": time.September, "sep": time.September, "sept": time.September,
	"october": time.October, "oct": time.October,
	"november": time.November, "nov": time.November,
	"december": time.December, "dec": time.December,
}

func lookupMonth(s string) (time.Month, bool) {
	m, ok := monthsByName[strings.ToLower(strings.TrimSuffix(s, "."))]
	return m, ok
}

const (
	ordinalSuffix = `(?:st|nd|rd|th)?`
	durationUnit  = `days?|nights?|weeks?|months?`
	rangeJoiner   = `\s+(?:to|until|till|through|thru|-)\s+`
)

// datePart matches "D Month [Year]" or "Month D[,] [Year]" with groups
// prefixed by p.
func datePart(p string) string {
	return fmt.Sprintf(
		`(?:(?P<%[1]sday>\d{1,2})%[2]s\s+(?:of\s+)?(?P<%[1]smonth>[a-z]+)\.?|(?P<%[1]smonthb>[a-z]+)\.?\s+(?P<%[1]sdayb>\d{1,2})%[2]s\b)(?:,?\s+(?P<%[1]syear>\d{4}))?`,
		p, ordinalSuffix)
}

// endDatePart is datePart with the month optional after the day.
func endDatePart(p string) string {
	return fmt.Sprintf(
		`(?:(?P<%[1]sday>\d{1,2})%[2]s(?:\s+(?:of\s+)?(?P<%[1]smonth>[a-z]+)\.?)?|(?P<%[1]smonthb>[a-z]+)\.?\s+(?P<%[1]sdayb>\d{1,2})%[2]s\b)(?:,?\s+(?P<%[1]syear>\d{4}))?`,
		p, ordinalSuffix)
}

func numericDate(p string) string {
	return fmt.Sprintf(`(?P<%[1]sday>\d{1,2})[/\-.](?P<%[1]smonth>\d{1,2})[/\-.](?P<%[1]syear>\d{4})`, p)
}

func durationPart() string {
	return fmt.Sprintf(`(?P<count>%s)\s*-?\s*(?P<unit>%s)\b`, numeralPattern, durationUnit)
}

func compile(pattern string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)` + pattern)
}

// dateRule is one step of the date cascade. A rule wins when its pattern
// matches and its handler accepts the match.
type dateRule struct {
	name    string
	pattern *regexp.Regexp
	handle  func(g groups, now time.Time) (Dates, bool)
}

// groups maps subexpression names to matched text. Unmatched names are absent.
type groups map[string]string

func namedGroups(re *regexp.Regexp, m []string) groups {
	g := make(groups, len(m))
	for i, name := range re.SubexpNames() {
		if name != "" && i < len(m) && m[i] != "" {
			g[name] = m[i]
		}
	}
	return g
}

// dateRules is evaluated in order; the order decides ambiguous inputs.
var dateRules = []dateRule{
	{
		name:    "ordinal-day-range",
		pattern: compile(`\bfrom\s+(?P<sday>\d{1,2})` + ordinalSuffix + `\s*-\s*(?P<eday>\d{1,2})` + ordinalSuffix + `\s+(?:of\s+)?(?P<smonth>[a-z]+)(?:,?\s+(?P<syear>\d{4}))?`),
		handle: func(g groups, now time.Time) (Dates, bool) {
			start, ok := g.date("s")
			if !ok {
				return Dates{}, false
			}
			end := start
			end.day = atoi(g["eday"])
			if end.day < start.day {
				return Dates{}, false
			}
			return dateRange(start, end, now)
		},
	},
	{
		name:    "date-to-date",
		pattern: compile(`\bfrom\s+` + datePart("s") + rangeJoiner + endDatePart("e")),
		handle: func(g groups, now time.Time) (Dates, bool) {
			start, ok := g.date("s")
			if !ok {
				return Dates{}, false
			}
			end, ok := g.endDate("e", start.month)
			if !ok {
				return Dates{}, false
			}
			return dateRange(start, end, now)
		},
	},
	{
		name:    "numeric-range",
		pattern: compile(`(?:\bfrom\s+)?` + numericDate("s") + rangeJoiner + numericDate("e")),
		handle: func(g groups, now time.Time) (Dates, bool) {
			start, ok := g.numeric("s")
			if !ok {
				return Dates{}, false
			}
			end, ok := g.numeric("e")
			if !ok {
				return Dates{}, false
			}
			return dateRange(start, end, now)
		},
	},
	{
		name:    "date-for-duration",
		pattern: compile(`\bfrom\s+` + datePart("s") + `\s+for\s+` + durationPart()),
		handle:  startWithDuration(false),
	},
	{
		name:    "duration-from-date",
		pattern: compile(`\bfor\s+` + durationPart() + `\s+from\s+` + datePart("s")),
		handle:  startWithDuration(false),
	},
	{
		name:    "duration-on-date",
		pattern: compile(`\bfor\s+` + durationPart() + `\s+(?:on|starting(?:\s+on)?)\s+` + datePart("s")),
		handle:  startWithDuration(false),
	},
	{
		name:    "on-date-for-duration",
		pattern: compile(`\bon\s+` + datePart("s") + `\s+for\s+` + durationPart()),
		handle:  startWithDuration(false),
	},
	{
		name:    "duration-on-numeric-date",
		pattern: compile(`\bfor\s+` + durationPart() + `\s+on\s+` + numericDate("s")),
		handle:  startWithDuration(true),
	},
	{
		name:    "on-numeric-date-for-duration",
		pattern: compile(`\bon\s+` + numericDate("s") + `\s+for\s+` + durationPart()),
		handle:  startWithDuration(true),
	},
}

// DateRuleNames lists the date cascade in evaluation order.
func DateRuleNames() []string {
	names := make([]string, len(dateRules))
	for i, r := range dateRules {
		names[i] = r.name
	}
	return names
}

// calDate is a day/month/year triple as read from text. Zero year means the
// year was not written.
type calDate struct {
	day   int
	month time.Month
	year  int
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func (g groups) date(p string) (calDate, bool) {
	dayText, monthText := g[p+"day"], g[p+"month"]
	if dayText == "" {
		dayText, monthText = g[p+"dayb"], g[p+"monthb"]
	}
	month, ok := lookupMonth(monthText)
	if !ok {
		return calDate{}, false
	}
	return calDate{day: atoi(dayText), month: month, year: atoi(g[p+"year"])}, true
}

// endDate is date with the month inherited when it was omitted or is not a
// month name.
func (g groups) endDate(p string, inherit time.Month) (calDate, bool) {
	if g[p+"dayb"] != "" {
		return g.date(p)
	}
	d := calDate{day: atoi(g[p+"day"]), month: inherit, year: atoi(g[p+"year"])}
	if m, ok := lookupMonth(g[p+"month"]); ok {
		d.month = m
	}
	return d, d.day > 0
}

func (g groups) numeric(p string) (calDate, bool) {
	month := atoi(g[p+"month"])
	if month < 1 || month > 12 {
		return calDate{}, false
	}
	year := atoi(g[p+"year"])
	if year == 0 {
		return calDate{}, false
	}
	return calDate{day: atoi(g[p+"day"]), month: time.Month(month), year: year}, true
}

// makeDate rejects impossible calendar dates instead of normalizing them.
func makeDate(year int, month time.Month, day int) (time.Time, bool) {
	if day < 1 || day > 31 || month < time.January || month > time.December {
		return time.Time{}, false
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || t.Month() != month {
		return time.Time{}, false
	}
	return t, true
}

func today(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// resolve fixes a date with no written year to this year, or next year when
// this year's date has already passed.
func (c calDate) resolve(now time.Time) (time.Time, bool) {
	if c.year != 0 {
		return makeDate(c.year, c.month, c.day)
	}
	t, ok := makeDate(now.Year(), c.month, c.day)
	if ok && !t.Before(today(now)) {
		return t, true
	}
	return makeDate(now.Year()+1, c.month, c.day)
}

// dateRange resolves a start/end pair. A missing year is taken from the
// other date; when neither is written the start is resolved against now.
// An end that lands before the start rolls over into the following year
// unless both years were explicit.
func dateRange(start, end calDate, now time.Time) (Dates, bool) {
	explicitStart, explicitEnd := start.year != 0, end.year != 0
	switch {
	case explicitStart && !explicitEnd:
		end.year = start.year
	case !explicitStart && explicitEnd:
		start.year = end.year
	case !explicitStart && !explicitEnd:
		s, ok := start.resolve(now)
		if !ok {
			return Dates{}, false
		}
		start.year, end.year = s.Year(), s.Year()
	}

	s, ok := makeDate(start.year, start.month, start.day)
	if !ok {
		return Dates{}, false
	}
	e, ok := makeDate(end.year, end.month, end.day)
	if !ok {
		return Dates{}, false
	}
	if e.Before(s) {
		switch {
		case !explicitEnd:
			e = e.AddDate(1, 0, 0)
		case !explicitStart:
			s = s.AddDate(-1, 0, 0)
		default:
			return Dates{}, false
		}
		if e.Before(s) {
			return Dates{}, false
		}
	}
	return Dates{Start: s, End: e, DurationDays: inclusiveDays(s, e)}, true
}

func inclusiveDays(start, end time.Time) int {
	return int(end.Sub(start).Hours()/24) + 1
}

// withDuration projects an inclusive end date from start. An end past year
// 9999 has no YYYY-MM-DD form and is left unset.
func withDuration(start time.Time, days int) Dates {
	days = min(max(days, 1), MaxTripDays)
	d := Dates{Start: start, End: start.AddDate(0, 0, days-1), DurationDays: days}
	if d.End.Year() > 9999 {
		d.End = time.Time{}
	}
	return d
}

func startWithDuration(numeric bool) func(g groups, now time.Time) (Dates, bool) {
	return func(g groups, now time.Time) (Dates, bool) {
		var (
			c  calDate
			ok bool
		)
		if numeric {
			c, ok = g.numeric("s")
		} else {
			c, ok = g.date("s")
		}
		if !ok {
			return Dates{}, false
		}
		start, ok := c.resolve(now)
		if !ok {
			return Dates{}, false
		}
		return withDuration(start, durationDays(g["count"], g["unit"])), true
	}
}

// seasonalStarts maps season phrases to a month and day. Longer phrases come
// first so "mid summer" is not read as "summer".
var seasonalStarts = []struct {
	phrase string
	month  time.Month
	day    int
}{
	{"end of summer", time.August, 25},
	{"early winter", time.November, 15},
	{"late winter", time.January, 15},
	{"mid summer", time.July, 15},
	{"midsummer", time.July, 15},
	{"summer", time.June, 1},
	{"autumn", time.September, 15},
	{"fall", time.September, 15},
	{"monsoon", time.September, 10},
	{"winter", time.December, 1},
	{"spring", time.April, 1},
}

var seasonalPatterns = func() []*regexp.Regexp {
	res := make([]*regexp.Regexp, len(seasonalStarts))
	for i, s := range seasonalStarts {
		res[i] = compile(`\b` + regexp.QuoteMeta(s.phrase) + `\b`)
	}
	return res
}()

var (
	bareDurationPattern = compile(`\b` + durationPart())
	bareWeekPattern     = compile(`\bweeks?\b`)
	bareMonthPattern    = compile(`\bmonths?\b`)
	bareDayPattern      = compile(`\b(?:days?|nights?)\b`)
)

// bareDuration finds a trip length stated without a date.
func bareDuration(text string) int {
	if m := bareDurationPattern.FindStringSubmatch(text); m != nil {
		g := namedGroups(bareDurationPattern, m)
		return durationDays(g["count"], g["unit"])
	}
	switch {
	case bareWeekPattern.MatchString(text):
		return 7
	case bareMonthPattern.MatchString(text):
		return 30
	case bareDayPattern.MatchString(text):
		return 1
	}
	return 0
}

func seasonalStart(text string, now time.Time) (time.Time, string, bool) {
	for i, re := range seasonalPatterns {
		if !re.MatchString(text) {
			continue
		}
		s := seasonalStarts[i]
		start, ok := calDate{day: s.day, month: s.month}.resolve(now)
		if ok {
			return start, s.phrase, true
		}
	}
	return time.Time{}, "", false
}

var (
	isoDatePattern     = compile(`\b(?P<year>\d{4})-(?P<month>\d{1,2})-(?P<day>\d{1,2})\b`)
	numericDatePattern = compile(`\b` + numericDate("") + `\b`)
	textDatePattern    = compile(`\b` + datePart(""))
)

// searchDate returns the earliest recognizable date anywhere in text.
func searchDate(text string, now time.Time) (time.Time, bool) {
	type candidate struct {
		pos int
		at  time.Time
	}
	var found []candidate

	for _, re := range []*regexp.Regexp{isoDatePattern, numericDatePattern} {
		for _, loc := range re.FindAllStringSubmatchIndex(text, -1) {
			g := namedGroups(re, submatches(text, loc))
			c, ok := g.numeric("")
			if !ok {
				continue
			}
			if t, ok := makeDate(c.year, c.month, c.day); ok {
				found = append(found, candidate{pos: loc[0], at: t})
				break
			}
		}
	}
	for _, loc := range textDatePattern.FindAllStringSubmatchIndex(text, -1) {
		g := namedGroups(textDatePattern, submatches(text, loc))
		c, ok := g.date("")
		if !ok {
			continue
		}
		if t, ok := c.resolve(now); ok {
			found = append(found, candidate{pos: loc[0], at: t})
			break
		}
	}
	if len(found) == 0 {
		return time.Time{}, false
	}
	sort.Slice(found, func(i, j int) bool { return found[i].pos < found[j].pos })
	return found[0].at, true
}

func submatches(text string, loc []int) []string {
	out := make([]string, len(loc)/2)
	for i := range out {
		if loc[2*i] >= 0 {
			out[i] = text[loc[2*i]:loc[2*i+1]]
		}
	}
	return out
}

// cascadeDates runs the ordered rule table, then the seasonal and generic
// fallbacks.
type cascadeDates struct{}

func (cascadeDates) ResolveDates(text string, now time.Time) Dates {
	for _, rule := range dateRules {
		for _, m := range rule.pattern.FindAllStringSubmatch(text, -1) {
			if d, ok := rule.handle(namedGroups(rule.pattern, m), now); ok {
				d.Rule = rule.name
				return d
			}
		}
	}

	days := bareDuration(text)
	if start, phrase, ok := seasonalStart(text, now); ok {
		d := Dates{Start: start, Rule: "season:" + phrase}
		if days > 0 {
			d = withDuration(start, days)
			d.Rule = "season:" + phrase
		}
		return d
	}
	if start, ok := searchDate(text, now); ok {
		d := Dates{Start: start, Rule: "date-search"}
		if days > 0 {
			d = withDuration(start, days)
			d.Rule = "date-search"
		}
		return d
	}
	return Dates{DurationDays: days}
}
