package itinerary

import (
	"regexp"
	"strconv"
	"strings"
)

// overviewWindow bounds the leading text searched for overview facts.
const overviewWindow = 500

var (
	destinationPattern = ci(`(?:itinerary\s+for|trip\s+to)\s+(?:\*\*|__)?([^\n*_:,.!(]+)`)
	destinationCut     = ci(`\s+(?:for|from|with|on|in|during)\b.*$`)
	durationPattern    = ci(`\b(\d{1,3})(?:-|[ \t]+to[ \t]+|[ \t]*)days?\b`)
	tripTypePattern    = ci(`(?:type\s+of\s+trip|trip\s+type)(?:\*\*|__)?\s*:\s*(?:\*\*|__)?\s*([^\n.]+)`)
	budgetRangePattern = ci(`\b(?:budget|cost|price)(?:\s+range)?(?:\*\*|__)?\s*:\s*(?:\*\*|__)?\s*([^\n]+)`)
	numberedItem       = regexp.MustCompile(`^[ \t]{0,1}\d{1,2}[.)][ \t]+`)
	topBullet          = regexp.MustCompile(`^[ \t]{0,1}[*\-•+][ \t]+`)
	boldHead           = regexp.MustCompile(`^[ \t]*(?:\*\*|__)([^*_]+?)(?:\*\*|__)[ \t]*[:\-–]?[ \t]*(.*)$`)
	nameSplit          = regexp.MustCompile(`:\s+|\s+[-–—]\s+`)
	visitDuration      = ci(`(?:spend|duration|for)\s*:?\s*(?:about\s+|around\s+|approximately\s+)?(\d+(?:\.\d+)?(?:\s*[-–]\s*\d+(?:\.\d+)?)?\s*(?:hours?|hrs?|minutes?|mins?))\b`)
	cuisinePattern     = ci(`cuisine(?:\s+type)?\s*:\s*([^\n,;.]+)`)
	labeledPrice       = ci(`\b(?:price(?:\s+range)?|cost|rates?|entry(?:\s+fee)?|admission)\s*:\s*([^\n;|]+?)(?:\.(?:\s|$)|[;|\n]|$)`)
	currencyAmount     = regexp.MustCompile(`[$€£¥₹]\s*\d[\d,]*(?:\.\d+)?(?:\s*(?:-|–|to)\s*[$€£¥₹]?\s*\d[\d,]*(?:\.\d+)?)?(?:\s*(?:per|/)\s*(?:night|person|day|meal|adult))?|\d[\d,]*(?:\.\d+)?\s*(?:-|–|to)\s*\d[\d,]*(?:\.\d+)?\s*(?:USD|EUR|GBP|INR|JPY|dollars|euros|pounds|rupees)\b`)
	parenWithDigit     = regexp.MustCompile(`\s*\([^)]*\d[^)]*\)`)
	keyValueLine       = regexp.MustCompile(`(?m)^[ \t]*(?:[*\-•+][ \t]+|\d{1,2}[.)][ \t]+)?(?:\*\*|__)?([^:*_\n]{2,60}?)(?:\*\*|__)?[ \t]*:[ \t]*(?:\*\*|__)?[ \t]*(.+)$`)
	snakeUnsafe        = regexp.MustCompile(`[^a-z0-9]+`)
	mealTypePattern    = ci(`\b(?:breakfast|brunch|lunch|dinner)\b`)
)

var (
	temperaturePattern = ci(`(?:^|[^\d-])(-?\d{1,3})\s*°?\s*[CF]?\s*(?:to|-|–|and)\s*(-?\d{1,3})\s*(°\s*[CF]?|degrees?(?:\s+(?:celsius|fahrenheit|[CF]))?|[CF]\b)`)
	weatherLabel       = ci(`(?m)^[\W_]*(conditions?|precipitation|rainfall|clothing(?:\s+recommendations?)?|what\s+to\s+(?:wear|pack))[\W_]*:\s*(.+)$`)
	clothingWords      = ci(`\b(?:wear|pack|bring|clothing|clothes|layers|jacket|umbrella|sunscreen|shoes)\b`)
	precipitationWords = ci(`\b(?:rain\w*|precipitation|showers?|snow\w*|monsoon|drizzle|storms?)\b`)
	conditionWords     = ci(`\b(?:sunny|cloudy|warm|cold|hot|mild|humid|dry|clear|windy|overcast|pleasant|cool|chilly)\b`)
)

// keyRule maps a free-text label onto a record key.
type keyRule struct {
	pattern *regexp.Regexp
	key     string
}

var budgetKeys = []keyRule{
	{ci(`total`), "total_estimated_cost"},
	{ci(`accommodation|lodging|hotel`), "accommodation_cost"},
	{ci(`food|dining|meals?`), "food_cost"},
	{ci(`transport`), "transportation_cost"},
	{ci(`activit|attraction|sightseeing|entrance`), "activities_cost"},
	{ci(`misc|other|souvenir|shopping`), "miscellaneous_cost"},
}

var essentialKeys = []keyRule{
	{ci(`visa`), "visa_requirements"},
	{ci(`emergency|police|ambulance|fire`), "emergency_contacts"},
	{ci(`hospital|medical|health`), "medical_facilities"},
	{ci(`embass|consulate`), "embassy_info"},
	{ci(`custom|etiquette|culture`), "local_customs"},
	{ci(`safety|security`), "safety_tips"},
	{ci(`language|phrase`), "language"},
	{ci(`currency|exchange|money|atm`), "currency_exchange"},
}

// parseHeuristic reads a reply without a usable JSON block.
func parseHeuristic(reply string) *Itinerary {
	sections := splitSections(reply)
	it := &Itinerary{
		TripOverview: overview(prefix(reply, overviewWindow)),
		Source:       SourceHeuristic,
	}

	for _, b := range findDays(reply, sections) {
		it.Days = append(it.Days, parseDay(b))
	}

	if body, ok := sectionText(sections, sectionAttractions); ok {
		for _, item := range listItems(body) {
			it.Attractions = append(it.Attractions, Attraction{
				Name:          item.name,
				Description:   item.desc,
				PriceRange:    priceFrom(item.text),
				VisitDuration: submatch(visitDuration, item.text),
			})
		}
	}
	if body, ok := sectionText(sections, sectionAccommodations); ok {
		for _, item := range listItems(body) {
			it.Accommodations = append(it.Accommodations, Accommodation{
				Name:        item.name,
				Description: item.desc,
				PriceRange:  priceFrom(item.text),
			})
		}
	}
	if body, ok := sectionText(sections, sectionDining); ok {
		for _, item := range listItems(body) {
			it.Dining = append(it.Dining, Dining{
				Name:        item.name,
				Description: item.desc,
				Cuisine:     strings.TrimSpace(submatch(cuisinePattern, item.text)),
				PriceRange:  priceFrom(item.text),
				MealType:    mealTypeOf(item.text),
			})
		}
	}
	if body, ok := sectionText(sections, sectionTransportation); ok {
		for _, item := range listItems(body) {
			it.Transportation = append(it.Transportation, transportItem(item))
		}
	}
	if body, ok := sectionText(sections, sectionTips); ok {
		for _, item := range listItems(body) {
			it.TravelTips = append(it.TravelTips, item.text)
		}
	}
	if body, ok := sectionText(sections, sectionWeather); ok {
		if w := weather(body); !w.empty() {
			it.Weather = w
		}
	}
	if body, ok := sectionText(sections, sectionBudget); ok {
		it.Budget = keyValues(body, budgetKeys)
	}
	if body, ok := sectionText(sections, sectionEmergency); ok {
		it.EssentialInfo = keyValues(body, essentialKeys)
	}

	it.harvestDays()
	fillOverview(it)
	it.dedupe()
	it.ensureLists()
	it.TripOverview.BudgetSummary = summarize(it, reply)
	return it
}

func submatch(re *regexp.Regexp, s string) string {
	if m := re.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return ""
}

func overview(head string) Overview {
	var o Overview
	if d := submatch(destinationPattern, head); d != "" {
		o.Destination = strings.TrimSpace(destinationCut.ReplaceAllString(d, ""))
	}
	if n := submatch(durationPattern, head); n != "" {
		v, _ := strconv.Atoi(n)
		o.DurationDays = Int(v)
	}
	o.TripType = Text(cleanInline(submatch(tripTypePattern, head)))
	o.BudgetRange = Text(cleanInline(submatch(budgetRangePattern, head)))
	if dates := isoDatePattern.FindAllString(head, 2); len(dates) > 0 {
		o.StartDate = dates[0]
		if len(dates) > 1 {
			o.EndDate = dates[1]
		}
	}
	return o
}

// fillOverview completes the overview from the parsed days and budget.
func fillOverview(it *Itinerary) {
	o := &it.TripOverview
	if o.DurationDays == 0 && len(it.Days) > 0 {
		seen := make(map[Int]bool)
		for _, d := range it.Days {
			seen[d.DayNumber] = true
		}
		o.DurationDays = Int(len(seen))
	}
	if len(it.Days) > 0 {
		if o.StartDate == "" && isoDatePattern.MatchString(it.Days[0].Date) {
			o.StartDate = it.Days[0].Date
		}
		if last := it.Days[len(it.Days)-1].Date; o.EndDate == "" && isoDatePattern.MatchString(last) {
			o.EndDate = last
		}
	}
	if o.BudgetRange == "" {
		o.BudgetRange = it.Budget["total_estimated_cost"]
	}
}

// harvestDays adds the venues and transport named in the days after the
// section lists, so section entries win on dedupe.
func (it *Itinerary) harvestDays() {
	for _, d := range it.Days {
		if a, ok := accommodationFromDay(d.Accommodation); ok {
			it.Accommodations = append(it.Accommodations, a)
		}
		for _, meal := range []struct{ kind, text string }{
			{"breakfast", d.Meals.Breakfast},
			{"lunch", d.Meals.Lunch},
			{"dinner", d.Meals.Dinner},
		} {
			if dn, ok := diningFromMeal(meal.kind, meal.text); ok {
				it.Dining = append(it.Dining, dn)
			}
		}
		it.Attractions = append(it.Attractions, attractionsFromDay(d)...)
		it.Transportation = append(it.Transportation, transportFromDay(d)...)
	}
	seen := make(map[string]bool, len(it.Transportation))
	out := it.Transportation[:0]
	for _, t := range it.Transportation {
		key := nameKey(t.Details)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, t)
	}
	it.Transportation = out
}

// item is one entry of a section list.
type item struct {
	name string
	desc string
	text string
}

// listItems splits a section body into entries. When the body has
// numbered lines only those start entries; otherwise top-level bullets and
// bold heads do. Deeper lines continue the current entry.
func listItems(body string) []item {
	lines := strings.Split(body, "\n")
	numbered := false
	for _, l := range lines {
		if numberedItem.MatchString(l) {
			numbered = true
			break
		}
	}
	starts := func(l string) bool {
		if numbered {
			return numberedItem.MatchString(l)
		}
		return topBullet.MatchString(l) || boldHead.MatchString(l)
	}

	var (
		out     []item
		head    string
		rest    []string
		started bool
	)
	flush := func() {
		if started {
			if it, ok := newItem(head, rest); ok {
				out = append(out, it)
			}
		}
		head, rest, started = "", nil, false
	}
	anyStart := false
	for _, l := range lines {
		if starts(l) {
			anyStart = true
			break
		}
	}
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		if !anyStart || starts(l) {
			flush()
			head, started = l, true
			continue
		}
		if started {
			rest = append(rest, cleanInline(l))
		}
	}
	flush()
	return out
}

func newItem(head string, rest []string) (item, bool) {
	var name, desc string
	if m := boldHead.FindStringSubmatch(bulletPrefix.ReplaceAllString(head, "")); m != nil {
		name, desc = cleanInline(m[1]), cleanInline(m[2])
	} else {
		line := cleanInline(head)
		if loc := nameSplit.FindStringIndex(line); loc != nil && loc[0] > 0 && loc[0] <= 80 {
			name, desc = line[:loc[0]], line[loc[1]:]
		} else {
			name = line
		}
	}
	name = strings.TrimSpace(parenWithDigit.ReplaceAllString(name, ""))
	if name == "" {
		return item{}, false
	}
	extra := strings.Join(rest, " ")
	desc = strings.TrimSpace(strings.Join([]string{desc, extra}, " "))
	text := name
	if desc != "" {
		text = name + ": " + desc
	}
	if price := priceFrom(cleanInline(head)); price != "" && !strings.Contains(text, price) {
		text += " (" + price + ")"
	}
	return item{name: prefix(name, 120), desc: desc, text: text}, true
}

// priceFrom returns a labeled price, else the first currency amount.
func priceFrom(text string) string {
	if p := submatch(labeledPrice, text); p != "" {
		return strings.Trim(cleanInline(p), " .,")
	}
	return strings.TrimSpace(currencyAmount.FindString(text))
}

func mealTypeOf(text string) string {
	if m := mealTypePattern.FindString(text); m != "" {
		return titleWord(strings.ToLower(m))
	}
	return ""
}

func transportItem(entry item) Transport {
	if entry.desc != "" {
		return Transport{Type: entry.name, Details: entry.desc}
	}
	typ := "General"
	if m := transportWord.FindStringSubmatch(entry.name); m != nil {
		typ = titleWord(m[1])
	}
	return Transport{Type: typ, Details: entry.name}
}

func weather(body string) *Weather {
	w := &Weather{}
	for _, m := range temperaturePattern.FindAllStringSubmatch(body, -1) {
		lo, _ := strconv.Atoi(m[1])
		hi, _ := strconv.Atoi(m[2])
		unit := "Celsius"
		if strings.Contains(strings.ToLower(m[3]), "f") {
			unit = "Fahrenheit"
		}
		r := &TemperatureRange{Min: Int(min(lo, hi)), Max: Int(max(lo, hi)), Unit: unit}
		switch {
		case w.TemperatureRange == nil:
			w.TemperatureRange = r
		case unit == "Fahrenheit" && w.TemperatureRange.Unit != unit && w.TemperatureFahrenheit == nil:
			w.TemperatureFahrenheit = r
		}
	}

	for _, m := range weatherLabel.FindAllStringSubmatch(body, -1) {
		value := cleanInline(m[2])
		switch label := strings.ToLower(m[1]); {
		case strings.HasPrefix(label, "condition"):
			setOnce(&w.Conditions, value)
		case strings.HasPrefix(label, "precip"), label == "rainfall":
			setOnce(&w.Precipitation, value)
		default:
			setOnce(&w.ClothingRecommendations, value)
		}
	}
	for _, s := range sentences(body) {
		switch {
		case clothingWords.MatchString(s):
			setOnce(&w.ClothingRecommendations, s)
		case precipitationWords.MatchString(s):
			setOnce(&w.Precipitation, s)
		case conditionWords.MatchString(s):
			setOnce(&w.Conditions, s)
		}
	}
	return w
}

// keyValues reads "Label: value" lines. Labels are mapped through keys or
// snake-cased; the first value for a key wins.
func keyValues(body string, keys []keyRule) map[string]Text {
	out := make(map[string]Text)
	for _, m := range keyValueLine.FindAllStringSubmatch(body, -1) {
		label := strings.TrimSpace(m[1])
		value := cleanInline(m[2])
		if label == "" || value == "" {
			continue
		}
		key := snakeCase(label)
		for _, k := range keys {
			if k.pattern.MatchString(label) {
				key = k.key
				break
			}
		}
		if _, ok := out[key]; !ok && key != "" {
			out[key] = Text(value)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func snakeCase(s string) string {
	return strings.Trim(snakeUnsafe.ReplaceAllString(strings.ToLower(s), "_"), "_")
}
