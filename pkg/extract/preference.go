package extract

import (
	"strings"

	"github.com/zen-systems/tripgate/pkg/lexical"
)

// keywordClass is a label and the phrases that select it.
type keywordClass struct {
	label    string
	keywords []string
}

var transportClasses = []keywordClass{
	{"flight", []string{"flight", "flights", "fly", "flying", "airplane", "airlines", "airline", "aeroplane", "plane"}},
	{"train", []string{"train", "trains", "railway", "rail"}},
	{"bus", []string{"bus", "coach"}},
	{"car", []string{"car", "auto", "automobile", "vehicle", "road trip", "drive", "driving"}},
	{"boat", []string{"boat", "ship", "cruise", "ferry"}},
	{"bike", []string{"bike", "bicycle", "cycling"}},
	{"subway", []string{"subway", "metro", "underground"}},
	{"tram", []string{"tram", "streetcar", "trolley"}},
}

var accommodationClasses = []keywordClass{
	{"Boutique hotels", []string{"hotel", "hotels", "boutique hotel", "small hotel", "intimate hotel"}},
	{"Resorts", []string{"resort", "resorts", "holiday resort", "self-contained resort", "luxury resort"}},
	{"Hostels", []string{"hostel", "hostels", "dormitory", "shared accommodation"}},
	{"Bed and breakfasts", []string{"bed and breakfast", "b&b", "bnb"}},
	{"Motels", []string{"motel", "motor lodge", "roadside motel"}},
	{"Guesthouses", []string{"guesthouse", "guest house", "private guesthouse", "pension", "homestay"}},
	{"Vacation rentals", []string{"vacation rental", "holiday rental", "short-term rental", "airbnb", "apartment", "villa"}},
	{"Camping", []string{"camping", "campground", "tent", "camp"}},
}

var tripTypeClasses = []keywordClass{
	{"Adventure Travel", []string{"adventure", "surfing", "cycling", "scuba diving", "hiking", "trekking", "camping", "skiing", "ski", "backpacking", "extreme sports", "rafting", "paragliding"}},
	{"Ecotourism", []string{"ecotourism", "wildlife watching", "nature walks", "eco-lodging"}},
	{"Cultural Tourism", []string{"cultural", "museum visits", "museums", "historical site tours", "local festivals"}},
	{"Historical Tourism", []string{"historical", "castle tours", "archaeological site visits", "war memorial tours", "heritage"}},
	{"Luxury Travel", []string{"private island stays", "first-class flights", "fine dining experiences"}},
	{"Wildlife Tourism", []string{"safari", "safari tours", "whale watching", "birdwatching"}},
	{"Sustainable Tourism", []string{"sustainable", "eco-resorts", "community-based tourism", "carbon-neutral travel"}},
	{"Volunteer Tourism", []string{"volunteer", "volunteering", "teaching abroad", "wildlife conservation", "disaster relief work"}},
	{"Medical Tourism", []string{"medical", "cosmetic surgery", "dental care", "alternative medicine retreats"}},
	{"Educational Tourism", []string{"educational", "study abroad programs", "study tour", "language immersion", "historical research"}},
	{"Business Travel", []string{"business trip", "business travel", "corporate meetings", "networking events", "industry trade shows", "conference"}},
	{"Solo Travel", []string{"solo trip", "solo travel", "self-guided tours", "meditation retreats", "budget backpacking"}},
	{"Group Travel", []string{"group trip", "group tour", "guided tours", "cruise trips", "family reunions"}},
	{"Backpacking", []string{"hostel stays", "hitchhiking", "long-term travel"}},
	{"Food Tourism", []string{"food tour", "food tasting tours", "cooking classes", "street food exploration", "street food"}},
	{"Religious Tourism", []string{"pilgrimage", "pilgrimages", "monastery visits", "religious festivals", "temple visits"}},
	{"Digital Nomadism", []string{"digital nomad", "co-working spaces", "long-term stays", "remote work-friendly cafes"}},
	{"Family Travel", []string{"family trip", "family vacation", "family holiday", "theme parks", "honeymoon", "kid-friendly resorts", "multi-generational travel"}},
}

// specialRequirements are matched as plain substrings.
var specialRequirements = []string{"wheelchair access", "vegetarian meals", "vegan", "gluten-free"}

// classify returns the labels of every class with a keyword present in
// lower, in table order.
func classify(lower string, classes []keywordClass) []string {
	var labels []string
	for _, c := range classes {
		for _, kw := range c.keywords {
			if lexical.ContainsPhrase(lower, kw) {
				labels = append(labels, c.label)
				break
			}
		}
	}
	return labels
}

// TransportationModes returns matched transport modes in table order.
func TransportationModes(text string) []string {
	return classify(lexical.Normalize(text), transportClasses)
}

// AccommodationTypes returns matched accommodation types in table order.
func AccommodationTypes(text string) []string {
	return classify(lexical.Normalize(text), accommodationClasses)
}

// TripTypes returns matched trip themes in table order.
func TripTypes(text string) []string {
	return classify(lexical.Normalize(text), tripTypeClasses)
}

// SpecialRequirements returns the requirement phrases present in text.
func SpecialRequirements(text string) []string {
	lower := lexical.Normalize(text)
	var found []string
	for _, req := range specialRequirements {
		if strings.Contains(lower, req) {
			found = append(found, req)
		}
	}
	return found
}

type cascadePreferences struct{}

func (cascadePreferences) ResolvePreferences(text string) Preferences {
	lower := lexical.Normalize(text)
	return Preferences{
		TripType:            classify(lower, tripTypeClasses),
		Transportation:      classify(lower, transportClasses),
		Accommodation:       classify(lower, accommodationClasses),
		SpecialRequirements: SpecialRequirements(text),
		Budget:              Budget(text),
	}
}
