// Package prompt renders a validated Details record into the directive sent
// to the itinerary generation service.
package prompt

import (
	"fmt"
	"strings"
	"time"

	"github.com/zen-systems/tripgate/pkg/extract"
)

// Minimum list sizes requested from the generation service.
const (
	AttractionCount    = 9
	AccommodationCount = 7
	RestaurantCount    = 10
)

// Compile validates d and renders the directive. A failed check returns a
// *ValidationError and no prompt.
func Compile(d *extract.Details, now time.Time) (string, error) {
	if err := Validate(d, now); err != nil {
		return "", err
	}
	destination := strings.TrimSpace(d.Destination)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Generate a detailed itinerary for a %s trip to %s for %s",
		strings.Join(d.TripTypeOrDefault(), ", "), destination, travelerPhrase(d.Travelers)))

	if d.StartingLocation != "" {
		sb.WriteString(fmt.Sprintf(", starting from %s and departing on %s", d.StartingLocation, d.StartDate))
	} else {
		sb.WriteString(fmt.Sprintf(", departing on %s", d.StartDate))
	}
	sb.WriteString(".")
	if d.EndDate != "" {
		sb.WriteString(fmt.Sprintf(" The trip ends on %s.", d.EndDate))
	}
	days := tripDays(d)
	if days > 0 {
		sb.WriteString(fmt.Sprintf(" The trip lasts %d days.", days))
	}

	sb.WriteString(fmt.Sprintf(" Please consider a %s budget and provide accommodation, dining, and activity recommendations.", d.Budget))
	if len(d.Transportation) > 0 {
		sb.WriteString(fmt.Sprintf(" Suggested transportation methods include: %s.", strings.Join(d.Transportation, ", ")))
	}
	if len(d.Accommodation) > 0 {
		sb.WriteString(fmt.Sprintf(" Preferred accommodation: %s.", strings.Join(d.Accommodation, ", ")))
	}
	if len(d.SpecialRequirements) > 0 {
		sb.WriteString(fmt.Sprintf(" Special requirements: %s.", strings.Join(d.SpecialRequirements, ", ")))
	}

	sb.WriteString(fmt.Sprintf(" Include a section on the top 5-7 must-visit attractions in %s with brief descriptions and why they're worth visiting.", destination))
	sb.WriteString(fmt.Sprintf(" Provide a section with practical travel tips specific to %s, including local customs, transportation advice, safety information, and any seasonal considerations.", destination))
	if days > 0 {
		sb.WriteString(fmt.Sprintf(" Include a general weather forecast for %s during the trip duration (from %s", destination, d.StartDate))
		if d.EndDate != "" {
			sb.WriteString(fmt.Sprintf(" to %s", d.EndDate))
		}
		sb.WriteString("), including expected temperatures, precipitation, and appropriate clothing recommendations.")
	}
	sb.WriteString(" For each day, suggest 2-3 affordable dining options that are within walking distance or a short trip from the recommended accommodations and attractions for that day. Include the price range, cuisine type, and any specialties or popular dishes.")

	writeSections(&sb, destination, days)
	return sb.String(), nil
}

func writeSections(sb *strings.Builder, destination string, days int) {
	span := "entire trip"
	if days > 0 {
		span = fmt.Sprintf("entire %d day trip", days)
	}
	section := func(heading string, items ...string) {
		sb.WriteString("\n" + heading)
		for _, item := range items {
			sb.WriteString("\n   - " + item)
		}
	}

	section(fmt.Sprintf("1. Daily Itinerary: Provide a detailed day-by-day plan for the %s, including:", span),
		"Activities and attractions for each day with approximate time allocations",
		"Recommended accommodations for each night",
		"Suggested meals and dining options (breakfast, lunch, dinner) with price estimates in local currency and USD",
		"Transportation options between locations with costs")
	section(fmt.Sprintf("2. Top Attractions: List %d must-visit attractions in %s with:", AttractionCount, destination),
		"Brief descriptions of each attraction",
		"Why they're worth visiting",
		"Entrance fees and costs",
		"Transportation options to reach them from city center with costs")
	section(fmt.Sprintf("3. Accommodation Options: Provide %d detailed accommodation recommendations with:", AccommodationCount),
		"Specific price range per night in local currency and USD",
		"Precise neighborhood and location description",
		"Complete list of amenities and unique benefits",
		"Full address and proximity to main attractions",
		"Do NOT refer to the daily itinerary - include all details here")
	section("4. Dining Recommendations:",
		fmt.Sprintf("Include at least %d restaurant options organized by neighborhood/area", RestaurantCount),
		"Specify price range per meal in local currency and USD for each restaurant",
		"Detail signature dishes and cuisine specialties for each recommendation",
		"Provide exact restaurant locations and address",
		"Do NOT refer to the daily itinerary - include all details here")
	section("5. Transportation Information:",
		"Options for getting around (public transport, taxis, rentals)",
		"Costs for each transportation method",
		"Tips for navigating local transportation")
	section(fmt.Sprintf("6. Travel Tips for %s:", destination),
		"Local customs and etiquette",
		"Safety information",
		"Local language and culture",
		"Currency and payment advice",
		"Seasonal considerations")
	section("7. Weather Forecast:",
		fmt.Sprintf("Expected temperatures and conditions in %s during the trip dates", destination),
		"Clothing recommendations based on the weather")
	section("\n8. Budget Breakdown:",
		"Estimated total cost for the entire trip",
		"Breakdown by category (accommodation, food, transportation, activities)",
		"Money-saving tips specific to the destination")
	section("\n9. Emergency Information:",
		"Local emergency numbers",
		"Nearest hospitals or medical facilities",
		"Embassy or consulate information if international")
}

// tripDays is the set duration, else the inclusive span of the dates.
func tripDays(d *extract.Details) int {
	if d.DurationDays > 0 {
		return d.DurationDays
	}
	start, okStart := parseStartDate(d.StartDate)
	end, okEnd := parseStartDate(d.EndDate)
	if !okStart || !okEnd {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}

func travelerPhrase(t extract.Travelers) string {
	var parts []string
	add := func(n int, singular, plural string) {
		switch {
		case n == 1:
			parts = append(parts, "1 "+singular)
		case n > 1:
			parts = append(parts, fmt.Sprintf("%d %s", n, plural))
		}
	}
	add(t.Adults, "adult", "adults")
	add(t.Children, "child", "children")
	add(t.Infants, "infant", "infants")
	return strings.Join(parts, " and ")
}
