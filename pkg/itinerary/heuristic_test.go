package itinerary

import (
	"strings"
	"testing"
)

const sampleReply = `# 3-Day Itinerary for Barcelona, Spain

Trip Type: Cultural
Budget: Mid-range ($1500)

## 1. Daily Itinerary

### Day 1: Arrival and Gothic Quarter (2025-06-10)
- **Morning:** Check in at Hotel Arts and explore the Gothic Quarter.
- **Afternoon:** Visit the Picasso Museum.
- **Evening:** Take a taxi to Barceloneta beach.
- **Meals:**
  - Breakfast: Café Zurich
  - Lunch: Lunch at La Boqueria ($15-25)
  - Dinner: Dinner at Can Solé ($40-60)
- **Accommodation:** Hotel Arts ($300 per night)

### Day 2: Gaudí Day
- **Morning:** Tour the Sagrada Familia.
- **Afternoon:** Walk through Park Güell.

### Day 3

## 2. Top Attractions
1. **Sagrada Familia**: Gaudí's basilica. Price: €26. Spend 2 hours.
2. **Park Güell** - Mosaic park (€10)

## 3. Accommodations
- **Hotel Arts** - Beachfront luxury ($300 per night)
- **Casa Camper**: Boutique hotel ($180-220 per night)

## 4. Dining
- **Can Solé**: Seafood. Cuisine: Catalan. Dinner ($40-60)

## 5. Transportation
- Metro: Fast and cheap, T-casual card €11.35
- Taxis are plentiful

## 6. Travel Tips
- Watch for pickpockets on Las Ramblas
- Dinner starts late, around 9pm

## 7. Weather
Expect 20°C to 28°C in June. Mostly sunny and warm. Occasional showers in the afternoon. Pack light clothing and sunscreen.

## 8. Budget
- Accommodation: $900
- Food: $300
- Total: $1,500

## 9. Emergency Information
- Emergency number: 112
- Visa: Schengen rules apply
`

func names[T any](items []T, name func(T) string) string {
	var out []string
	for _, item := range items {
		out = append(out, name(item))
	}
	return strings.Join(out, "|")
}

func TestParseHeuristicSampleReply(t *testing.T) {
	it := Parse(sampleReply)
	if it.Source != SourceHeuristic {
		t.Fatalf("expected heuristic source, got %q", it.Source)
	}

	o := it.TripOverview
	if o.Destination != "Barcelona" || o.DurationDays != 3 || o.TripType != "Cultural" {
		t.Fatalf("unexpected overview: %+v", o)
	}
	if o.BudgetRange != "Mid-range ($1500)" || o.StartDate != "2025-06-10" {
		t.Fatalf("unexpected overview budget/date: %+v", o)
	}

	if len(it.Days) != 3 {
		t.Fatalf("expected 3 days, got %d", len(it.Days))
	}
	day1 := it.Days[0]
	if day1.Title != "Arrival and Gothic Quarter" || day1.Date != "2025-06-10" {
		t.Fatalf("unexpected day 1 heading: %q %q", day1.Title, day1.Date)
	}
	if day1.Afternoon != "Visit the Picasso Museum." || day1.Meals.Breakfast != "Café Zurich" {
		t.Fatalf("unexpected day 1 content: %+v", day1)
	}
	if day1.Accommodation != "Hotel Arts ($300 per night)" || day1.Defaulted {
		t.Fatalf("unexpected day 1 accommodation: %+v", day1)
	}
	if len(day1.Activities) != 3 {
		t.Fatalf("expected activities from the time-of-day text, got %v", day1.Activities)
	}
	if day2 := it.Days[1]; day2.Evening != "" || day2.Meals.Lunch != defaultLunch || !day2.Defaulted {
		t.Fatalf("expected only meal defaults on day 2: %+v", day2)
	}
	if day3 := it.Days[2]; day3.Title != "Day 3" || day3.Morning != defaultMorning || day3.Meals.Dinner != defaultDinner {
		t.Fatalf("expected defaults on day 3: %+v", day3)
	}

	if got := names(it.Attractions, func(a Attraction) string { return a.Name }); got != "Sagrada Familia|Park Güell|Gothic Quarter|Picasso Museum" {
		t.Fatalf("attractions = %q", got)
	}
	if a := it.Attractions[0]; a.PriceRange != "€26" || a.VisitDuration != "2 hours" {
		t.Fatalf("unexpected first attraction: %+v", a)
	}
	if got := names(it.Accommodations, func(a Accommodation) string { return a.Name }); got != "Hotel Arts|Casa Camper" {
		t.Fatalf("accommodations = %q", got)
	}
	if a := it.Accommodations[0]; a.Description != "Beachfront luxury ($300 per night)" || a.PriceRange != "$300 per night" {
		t.Fatalf("unexpected first accommodation: %+v", a)
	}
	if got := names(it.Dining, func(d Dining) string { return d.Name }); got != "Can Solé|Café Zurich|La Boqueria" {
		t.Fatalf("dining = %q", got)
	}
	if d := it.Dining[0]; d.Cuisine != "Catalan" || d.PriceRange != "$40-60" || d.MealType != "Dinner" {
		t.Fatalf("unexpected first dining entry: %+v", d)
	}
	if d := it.Dining[2]; d.MealType != "Lunch" || d.PriceRange != "$15-25" {
		t.Fatalf("unexpected harvested dining entry: %+v", d)
	}
	if got := names(it.Transportation, func(t Transport) string { return t.Type }); got != "Metro|Taxi|Taxi|Walk" {
		t.Fatalf("transportation = %q", got)
	}
	if len(it.TravelTips) != 2 || it.TravelTips[0] != "Watch for pickpockets on Las Ramblas" {
		t.Fatalf("travel tips = %v", it.TravelTips)
	}

	w := it.Weather
	if w == nil || w.TemperatureRange == nil {
		t.Fatalf("expected weather with a temperature range, got %+v", w)
	}
	if *w.TemperatureRange != (TemperatureRange{Min: 20, Max: 28, Unit: "Celsius"}) {
		t.Fatalf("temperature range = %+v", *w.TemperatureRange)
	}
	if w.Conditions != "Mostly sunny and warm." || w.Precipitation != "Occasional showers in the afternoon." {
		t.Fatalf("unexpected weather text: %+v", w)
	}
	if w.ClothingRecommendations != "Pack light clothing and sunscreen." {
		t.Fatalf("clothing = %q", w.ClothingRecommendations)
	}

	if it.Budget["accommodation_cost"] != "$900" || it.Budget["total_estimated_cost"] != "$1,500" {
		t.Fatalf("budget = %v", it.Budget)
	}
	if it.EssentialInfo["emergency_contacts"] != "112" || it.EssentialInfo["visa_requirements"] != "Schengen rules apply" {
		t.Fatalf("essential info = %v", it.EssentialInfo)
	}

	s := o.BudgetSummary
	if s == nil {
		t.Fatalf("expected a budget summary")
	}
	if s.EstimatedTotal != (Total{Min: 582, Max: 652, Currency: "$"}) {
		t.Fatalf("estimated total = %+v", s.EstimatedTotal)
	}
	if len(s.AccommodationCosts) != 2 || s.AccommodationCosts[1] != (CostItem{Name: "Casa Camper", Min: 180, Max: 220}) {
		t.Fatalf("accommodation costs = %+v", s.AccommodationCosts)
	}
}

func TestParseHeuristicPreservesDuplicateDays(t *testing.T) {
	it := Parse("Day 1: Arrival\nMorning: Land early\nDay 1: Arrival, again\nMorning: Land late\nDay 3: Departure\nMorning: Fly home")
	var numbers []int
	for _, d := range it.Days {
		numbers = append(numbers, int(d.DayNumber))
	}
	if len(numbers) != 3 || numbers[0] != 1 || numbers[1] != 1 || numbers[2] != 3 {
		t.Fatalf("day numbers = %v", numbers)
	}
	if it.Days[1].Morning != "Land late" || it.Days[1].Title != "Arrival, again" {
		t.Fatalf("unexpected second day: %+v", it.Days[1])
	}
	if it.TripOverview.DurationDays != 2 {
		t.Fatalf("expected duration from distinct day numbers, got %d", it.TripOverview.DurationDays)
	}
}

func TestParseHeuristicInlineContent(t *testing.T) {
	it := Parse("Day 1: Food tour\nIn the morning, visit the central market. Breakfast at Cafe Uno, lunch at Pasta Bar; dinner at Trattoria Roma")
	if len(it.Days) != 1 {
		t.Fatalf("expected one day, got %d", len(it.Days))
	}
	d := it.Days[0]
	if d.Morning != "visit the central market" {
		t.Fatalf("morning = %q", d.Morning)
	}
	if d.Meals != (Meals{Breakfast: "at Cafe Uno", Lunch: "at Pasta Bar", Dinner: "at Trattoria Roma"}) {
		t.Fatalf("meals = %+v", d.Meals)
	}
	if d.Meals.Breakfast == defaultBreakfast || d.Afternoon != "" {
		t.Fatalf("unexpected defaults: %+v", d)
	}
	if got := names(it.Dining, func(d Dining) string { return d.Name + "/" + d.MealType }); got != "Cafe Uno/Breakfast|Pasta Bar/Lunch|Trattoria Roma/Dinner" {
		t.Fatalf("dining = %q", got)
	}
}

func TestParseHeuristicNothingRecognized(t *testing.T) {
	it := Parse("Sorry, I cannot help with that.")
	if it.Failed() || it.Source != SourceHeuristic {
		t.Fatalf("expected an empty heuristic record, got %+v", it)
	}
	if len(it.Days) != 0 || it.Days == nil || it.Weather != nil || it.TripOverview.BudgetSummary != nil {
		t.Fatalf("expected empty lists and no optional blocks: %+v", it)
	}
}

func TestClassifyHeading(t *testing.T) {
	daily := section{kind: sectionDaily, level: 2}
	tests := []struct {
		name string
		line string
		cur  section
		want sectionKind
		ok   bool
	}{
		{"numbered markdown", "## 2. Top Attractions", section{}, sectionAttractions, true},
		{"markdown by number", "## 7. What to Expect", daily, sectionWeather, true},
		{"deeper markdown by number", "#### 7. Notes", daily, 0, false},
		{"day marker", "### Day 2: Beaches", daily, 0, false},
		{"bold inside daily", "**Where to Stay**", daily, 0, false},
		{"bold heading", "**Where to Stay**", section{kind: sectionAttractions}, sectionAccommodations, true},
		{"numbered with matching number", "3. Accommodation Options:", section{kind: sectionAttractions}, sectionAccommodations, true},
		{"numbered list entry", "1. Hotel Arts", section{kind: sectionAttractions}, 0, false},
		{"same kind continues", "### Hotels", section{kind: sectionAccommodations, level: 2}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, ok := classifyHeading(tt.line, tt.cur)
			if ok != tt.ok || (ok && h.kind != tt.want) {
				t.Fatalf("classifyHeading(%q) = %v, %v; want %v, %v", tt.line, h.kind, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestPriceBounds(t *testing.T) {
	tests := []struct {
		price  string
		lo, hi int
		ok     bool
	}{
		{"$1,200 - $1,500", 1200, 1500, true},
		{"€80 per night", 80, 80, true},
		{"from 80 to 40", 40, 80, true},
		{"€€", 0, 0, false},
		{"$99999999999999999999999", 0, 0, false},
		{"$99999999999999999999999 - $300", 300, 300, true},
	}
	for _, tt := range tests {
		lo, hi, ok := priceBounds(tt.price)
		if lo != tt.lo || hi != tt.hi || ok != tt.ok {
			t.Fatalf("priceBounds(%q) = %d, %d, %v", tt.price, lo, hi, ok)
		}
	}
}

func TestDominantCurrency(t *testing.T) {
	if got := dominantCurrency("€10, €20 and $5"); got != "€" {
		t.Fatalf("dominantCurrency = %q", got)
	}
	if got := dominantCurrency("no prices"); got != "$" {
		t.Fatalf("expected default currency, got %q", got)
	}
}
