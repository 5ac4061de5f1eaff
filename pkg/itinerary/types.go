// Package itinerary recovers a structured itinerary from a generation
// service's free-text reply.
package itinerary

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Source values.
const (
	SourceStructured = "structured"
	SourceHeuristic  = "heuristic"
)

// FailureMessage is set on the failure form.
const FailureMessage = "Failed to parse itinerary into structured JSON. Manual processing required."

// Itinerary is the re-parser's record. A failed parse carries only Error,
// Trace, Message and RawText.
type Itinerary struct {
	TripOverview   Overview        `json:"trip_overview"`
	Days           []DayPlan       `json:"days"`
	Attractions    []Attraction    `json:"attractions"`
	Accommodations []Accommodation `json:"accommodations"`
	Dining         []Dining        `json:"dining"`
	Transportation []Transport     `json:"transportation"`
	TravelTips     []string        `json:"travel_tips"`
	Weather        *Weather        `json:"weather,omitempty"`
	Budget         map[string]Text `json:"budget,omitempty"`
	EssentialInfo  map[string]Text `json:"essential_info,omitempty"`
	Source         string          `json:"source,omitempty"`
	Error          string          `json:"-"`
	Trace          string          `json:"-"`
	Message        string          `json:"-"`
	RawText        string          `json:"-"`
}

// Failed reports whether the record is the failure form.
func (it *Itinerary) Failed() bool {
	return it.Error != ""
}

type failure struct {
	Error   string `json:"error"`
	Trace   string `json:"trace"`
	Message string `json:"message"`
	RawText string `json:"raw_text"`
}

type itineraryAlias Itinerary

// MarshalJSON emits the failure form for failed parses.
func (it *Itinerary) MarshalJSON() ([]byte, error) {
	if it.Failed() {
		return json.Marshal(failure{Error: it.Error, Trace: it.Trace, Message: it.Message, RawText: it.RawText})
	}
	return json.Marshal((*itineraryAlias)(it))
}

// UnmarshalJSON accepts both forms.
func (it *Itinerary) UnmarshalJSON(data []byte) error {
	var f failure
	if err := json.Unmarshal(data, &f); err == nil && f.Error != "" {
		*it = Itinerary{Error: f.Error, Trace: f.Trace, Message: f.Message, RawText: f.RawText}
		return nil
	}
	return json.Unmarshal(data, (*itineraryAlias)(it))
}

// Overview summarizes the trip.
type Overview struct {
	Destination   string         `json:"destination,omitempty"`
	DurationDays  Int            `json:"duration_days,omitempty"`
	TripType      Text           `json:"trip_type,omitempty"`
	BudgetRange   Text           `json:"budget_range,omitempty"`
	StartDate     string         `json:"start_date,omitempty"`
	EndDate       string         `json:"end_date,omitempty"`
	BudgetSummary *BudgetSummary `json:"budget_summary,omitempty"`
}

// DayPlan is one day of the schedule. Defaulted is set when generic text
// was substituted for missing time-of-day or meal content.
type DayPlan struct {
	DayNumber     Int      `json:"day_number"`
	Date          string   `json:"date,omitempty"`
	Title         string   `json:"title"`
	Morning       string   `json:"morning"`
	Afternoon     string   `json:"afternoon"`
	Evening       string   `json:"evening"`
	Meals         Meals    `json:"meals"`
	Accommodation string   `json:"accommodation"`
	Activities    []string `json:"activities,omitempty"`
	Defaulted     bool     `json:"defaulted,omitempty"`
}

type Meals struct {
	Breakfast string `json:"breakfast"`
	Lunch     string `json:"lunch"`
	Dinner    string `json:"dinner"`
}

type Attraction struct {
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	PriceRange    string `json:"price_range,omitempty"`
	VisitDuration string `json:"visit_duration,omitempty"`
}

type Accommodation struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	PriceRange  string `json:"price_range,omitempty"`
}

type Dining struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Cuisine     string `json:"cuisine,omitempty"`
	PriceRange  string `json:"price_range,omitempty"`
	MealType    string `json:"meal_type,omitempty"`
}

type Transport struct {
	Type    string `json:"type"`
	Details string `json:"details"`
}

// TemperatureRange is a min/max pair in Unit.
type TemperatureRange struct {
	Min  Int    `json:"min"`
	Max  Int    `json:"max"`
	Unit string `json:"unit"`
}

type Weather struct {
	TemperatureRange        *TemperatureRange `json:"temperature_range,omitempty"`
	TemperatureFahrenheit   *TemperatureRange `json:"temperature_fahrenheit,omitempty"`
	Conditions              string            `json:"conditions,omitempty"`
	Precipitation           string            `json:"precipitation,omitempty"`
	ClothingRecommendations string            `json:"clothing_recommendations,omitempty"`
}

type weatherAlias Weather

// UnmarshalJSON also accepts "clothing" for the clothing recommendations.
func (w *Weather) UnmarshalJSON(data []byte) error {
	var aux struct {
		weatherAlias
		Clothing string `json:"clothing"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*w = Weather(aux.weatherAlias)
	if w.ClothingRecommendations == "" {
		w.ClothingRecommendations = aux.Clothing
	}
	return nil
}

func (w *Weather) empty() bool {
	return w == nil || *w == Weather{}
}

// CostItem is one priced entry of the budget summary.
type CostItem struct {
	Name     string `json:"name,omitempty"`
	Type     string `json:"type,omitempty"`
	MealType string `json:"meal_type,omitempty"`
	Min      int    `json:"min"`
	Max      int    `json:"max"`
}

type Total struct {
	Min      int    `json:"min"`
	Max      int    `json:"max"`
	Currency string `json:"currency"`
}

// BudgetSummary aggregates prices found in the reply.
type BudgetSummary struct {
	AccommodationCosts  []CostItem `json:"accommodation_costs"`
	DiningCosts         []CostItem `json:"dining_costs"`
	TransportationCosts []CostItem `json:"transportation_costs"`
	AttractionCosts     []CostItem `json:"attraction_costs"`
	EstimatedTotal      Total      `json:"estimated_total"`
}

// Int decodes from a JSON number or a numeric string. Fractions are
// rounded; anything else decodes to zero.
type Int int

func (n *Int) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = 0
		return nil
	}
	s := strings.Trim(string(data), `"`)
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		*n = 0
		return nil
	}
	*n = Int(math.Round(f))
	return nil
}

// Text decodes from a JSON string, number, boolean or list of strings.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*t = ""
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
	case data[0] == '[':
		var list []Text
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		parts := make([]string, 0, len(list))
		for _, v := range list {
			parts = append(parts, string(v))
		}
		*t = Text(strings.Join(parts, ", "))
	default:
		*t = Text(data)
	}
	return nil
}
