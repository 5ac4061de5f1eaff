package itinerary

import (
	"regexp"
	"strconv"
	"strings"
)

// Generic text for days whose reply carried no time-of-day or meal content.
const (
	defaultMorning   = "Explore the neighborhood around your accommodation"
	defaultAfternoon = "Visit a local attraction or museum"
	defaultEvening   = "Stroll through the city center and relax"
	defaultBreakfast = "Breakfast at your accommodation or a nearby cafe"
	defaultLunch     = "Local restaurant with regional specialties"
	defaultDinner    = "Dinner at a recommended local restaurant"
)

// labelPattern matches a line-leading label such as "**Morning:**",
// "- Lunch (12:30) -" or "Accommodation:".
var labelPattern = ci(`(?m)^[ \t]*(?:[*\-•+][ \t]+)?(?:\*\*|__)?[ \t]*` +
	`(morning|afternoon|evening|night|breakfast|lunch|dinner|meals|accommodation|overnight|stay|hotel|date)` +
	`(?:[ \t]*\([^)\n]*\))?[ \t]*(?:\*\*|__)?[ \t]*(?::|[-–](?:[ \t]|$))[ \t]*(?:\*\*|__)?`)

var textDatePattern = ci(`\b(?:\d{1,2}(?:st|nd|rd|th)?[ \t]+(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?(?:,?[ \t]+\d{4})?|` +
	`(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?[ \t]+\d{1,2}(?:st|nd|rd|th)?(?:,?[ \t]+\d{4})?)\b`)

var (
	inlineTimePattern = ci(`\b(?:in[ \t]+the[ \t]+)?(morning|afternoon|evening)\b[ \t]*[,:\-–]?[ \t]+([^.\n]+)`)
	inlineMealWord    = ci(`\b(breakfast|lunch|dinner)\b[ \t\-–:]+`)
	isoDatePattern    = regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`)
	emptyParens       = regexp.MustCompile(`\(\s*[,\-–]?\s*\)`)
	pricedName        = regexp.MustCompile(`^(.+?)\s*\(([^)]*\d[^)]*)\)`)
	venueAt           = regexp.MustCompile(`\bat\s+(?:the\s+)?([A-Z][^,(.;:]*?)\s*(?:\(([^)]*)\))?(?:[,.;:]|$)`)
	activitySplit     = regexp.MustCompile(`[.;]\s+|\s*,\s*`)
	notApplicable     = ci(`^(?:n/?a|none|not\s+applicable|-+)$`)
	visitPattern      = regexp.MustCompile(`\b(?:[Vv]isit|[Ee]xplore|[Tt]our|[Ss]ee)\s+(?:the\s+)?((?:[A-Z][\w'’.-]*)(?:\s+(?:of|de|del|di|la|le|du|the|and|[A-Z][\w'’-]*))*)`)
	trailingConnector = regexp.MustCompile(`(?:\s+(?:of|de|del|di|la|le|du|the|and))+$`)
	transportWord     = ci(`\b(taxi|bus|train|subway|metro|car|rental|bike|walk|ferry|boat|transfer)(?:s|es|ing|ed)?\b`)
)

// genericVenues are visit targets that name a kind of place, not a place.
var genericVenues = map[string]bool{
	"breakfast": true, "lunch": true, "dinner": true, "check-in": true,
	"check-out": true, "hotel": true, "restaurant": true, "the hotel": true,
}

// dayBlock is the raw text of one "Day N" span.
type dayBlock struct {
	number int
	title  string
	body   string
}

// findDays locates day markers inside the daily section, or anywhere
// outside the named sections when the reply has no daily heading. Each
// block ends at the next marker or the next non-daily section.
func findDays(reply string, sections []section) []dayBlock {
	var locs [][]int
	for _, m := range dayMarkerPattern.FindAllStringSubmatchIndex(reply, -1) {
		switch sectionAt(sections, m[0]) {
		case sectionDaily, sectionPreamble:
			locs = append(locs, m)
		}
	}
	blocks := make([]dayBlock, 0, len(locs))
	for i, m := range locs {
		end := len(reply)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		end = nextBoundary(sections, m[0], end)
		n, _ := strconv.Atoi(reply[m[2]:m[3]])
		start := min(m[1], end)
		blocks = append(blocks, dayBlock{
			number: n,
			title:  reply[m[4]:m[5]],
			body:   reply[start:end],
		})
	}
	return blocks
}

func sectionAt(sections []section, pos int) sectionKind {
	kind := sectionPreamble
	for _, s := range sections {
		if s.start > pos {
			break
		}
		kind = s.kind
	}
	return kind
}

// segment maps each canonical label to the text that follows it, up to the
// next label. The first occurrence of a label wins.
func segment(body string) map[string]string {
	seg := make(map[string]string)
	locs := labelPattern.FindAllStringSubmatchIndex(body, -1)
	for i, m := range locs {
		end := len(body)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		label := canonicalLabel(body[m[2]:m[3]])
		if _, ok := seg[label]; ok {
			continue
		}
		seg[label] = body[m[1]:end]
	}
	return seg
}

func canonicalLabel(label string) string {
	switch label = strings.ToLower(label); label {
	case "night":
		return "evening"
	case "overnight", "stay", "hotel":
		return "accommodation"
	}
	return label
}

// parseDay builds the DayPlan for one block.
func parseDay(b dayBlock) DayPlan {
	day := DayPlan{DayNumber: Int(b.number)}
	seg := segment(b.body)

	title := b.title
	if d := isoDatePattern.FindString(title); d != "" {
		day.Date = d
		title = strings.Replace(title, d, "", 1)
	} else if d := textDatePattern.FindString(title); d != "" {
		day.Date = d
		title = strings.Replace(title, d, "", 1)
	}
	day.Title = cleanInline(emptyParens.ReplaceAllString(title, ""))
	if day.Title == "" {
		day.Title = "Day " + strconv.Itoa(b.number)
	}
	if day.Date == "" {
		if d := flatten(seg["date"]); d != "" {
			day.Date = d
		}
	}

	day.Morning = flatten(seg["morning"])
	day.Afternoon = flatten(seg["afternoon"])
	day.Evening = flatten(seg["evening"])
	if day.Morning == "" && day.Afternoon == "" && day.Evening == "" {
		for _, m := range inlineTimePattern.FindAllStringSubmatch(b.body, -1) {
			setOnce(timeSlot(&day, m[1]), cleanInline(m[2]))
		}
	}

	meals := seg["meals"]
	day.Meals.Breakfast = flatten(seg["breakfast"])
	day.Meals.Lunch = flatten(seg["lunch"])
	day.Meals.Dinner = flatten(seg["dinner"])
	if day.Meals == (Meals{}) {
		scan := meals
		if scan == "" {
			scan = b.body
		}
		inlineMeals(&day, scan)
	}
	day.Accommodation = flatten(seg["accommodation"])

	day.Activities = activities(b.body, day)
	applyDefaults(&day)
	return day
}

// inlineMeals reads "breakfast at X, lunch at Y" runs. Each meal's text
// ends at the next meal word or the end of its line.
func inlineMeals(day *DayPlan, text string) {
	locs := inlineMealWord.FindAllStringSubmatchIndex(text, -1)
	for i, m := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		chunk := text[m[1]:end]
		if j := strings.IndexAny(chunk, "#\n"); j >= 0 {
			chunk = chunk[:j]
		}
		setOnce(mealSlot(day, text[m[2]:m[3]]), strings.Trim(cleanInline(chunk), " ,;."))
	}
}

func setOnce(dst *string, v string) {
	if *dst == "" {
		*dst = v
	}
}

func timeSlot(day *DayPlan, label string) *string {
	switch strings.ToLower(label) {
	case "morning":
		return &day.Morning
	case "afternoon":
		return &day.Afternoon
	}
	return &day.Evening
}

func mealSlot(day *DayPlan, label string) *string {
	switch strings.ToLower(label) {
	case "breakfast":
		return &day.Meals.Breakfast
	case "lunch":
		return &day.Meals.Lunch
	}
	return &day.Meals.Dinner
}

// activities lists the day's unlabeled bullets, or failing that the clauses
// of its time-of-day text.
func activities(body string, day DayPlan) []string {
	var out []string
	for _, line := range strings.Split(body, "\n") {
		if !bulletPrefix.MatchString(line) || labelPattern.MatchString(line) {
			continue
		}
		if a := cleanInline(line); a != "" {
			out = append(out, a)
		}
	}
	if len(out) > 0 {
		return out
	}
	for _, text := range []string{day.Morning, day.Afternoon, day.Evening} {
		for _, part := range activitySplit.Split(text, -1) {
			if part = strings.Trim(part, " .;"); len(part) > 3 {
				out = append(out, part)
			}
		}
	}
	return out
}

// applyDefaults fills the time-of-day group and the meal group
// independently when either is entirely empty.
func applyDefaults(day *DayPlan) {
	if day.Morning == "" && day.Afternoon == "" && day.Evening == "" {
		day.Morning, day.Afternoon, day.Evening = defaultMorning, defaultAfternoon, defaultEvening
		day.Defaulted = true
	}
	if day.Meals == (Meals{}) {
		day.Meals = Meals{Breakfast: defaultBreakfast, Lunch: defaultLunch, Dinner: defaultDinner}
		day.Defaulted = true
	}
}

// accommodationFromDay reads "Name (price)" or takes the whole text.
func accommodationFromDay(text string) (Accommodation, bool) {
	if text == "" || notApplicable.MatchString(text) {
		return Accommodation{}, false
	}
	if m := pricedName.FindStringSubmatch(text); m != nil {
		return Accommodation{Name: cleanInline(m[1]), PriceRange: strings.TrimSpace(m[2])}, true
	}
	return Accommodation{Name: prefix(text, 120)}, true
}

// diningFromMeal names the venue of a meal: "at Venue (price)", then
// "Venue: description", then the whole text.
func diningFromMeal(mealType, text string) (Dining, bool) {
	if text == "" || notApplicable.MatchString(text) || isDefaultMeal(text) {
		return Dining{}, false
	}
	d := Dining{MealType: titleWord(mealType)}
	switch {
	case venueAt.MatchString(text):
		m := venueAt.FindStringSubmatch(text)
		d.Name, d.Description = strings.TrimSpace(m[1]), text
		if m[2] != "" && strings.ContainsAny(m[2], "0123456789") {
			d.PriceRange = strings.TrimSpace(m[2])
		}
	case strings.Contains(text, ":"):
		name, desc, _ := strings.Cut(text, ":")
		d.Name, d.Description = strings.TrimSpace(name), strings.TrimSpace(desc)
	default:
		d.Name = prefix(text, 120)
	}
	if d.PriceRange == "" {
		d.PriceRange = priceFrom(text)
	}
	return d, d.Name != ""
}

func isDefaultMeal(text string) bool {
	return text == defaultBreakfast || text == defaultLunch || text == defaultDinner
}

// attractionsFromDay collects the proper-noun targets of visit verbs.
func attractionsFromDay(day DayPlan) []Attraction {
	if day.Defaulted && day.Morning == defaultMorning {
		return nil
	}
	var out []Attraction
	for _, text := range []string{day.Morning, day.Afternoon, day.Evening} {
		for _, m := range visitPattern.FindAllStringSubmatch(text, -1) {
			name := strings.Trim(trailingConnector.ReplaceAllString(m[1], ""), " .-")
			if len(name) < 3 || genericVenues[strings.ToLower(name)] {
				continue
			}
			out = append(out, Attraction{Name: name})
		}
	}
	return out
}

// transportFromDay keys each sentence that mentions a means of transport.
func transportFromDay(day DayPlan) []Transport {
	if day.Defaulted && day.Morning == defaultMorning {
		return nil
	}
	var out []Transport
	for _, s := range sentences(strings.Join([]string{day.Morning, day.Afternoon, day.Evening}, "\n")) {
		if m := transportWord.FindStringSubmatch(s); m != nil {
			out = append(out, Transport{Type: titleWord(m[1]), Details: s})
		}
	}
	return out
}
