package extract

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the canonical calendar-date form of a Details record.
const DateLayout = "2006-01-02"

// Display defaults for unset fields.
const (
	DefaultTripType       = "Leisure"
	DefaultTransportation = "Any"
	NotSpecified          = "Not specified"
	UnknownBudget         = "Unknown"
)

// Field names of the mapping form. Renderers and the prompt compiler key on
// these, so they do not change.
const (
	FieldStartingLocation    = "Starting Location"
	FieldDestination         = "Destination"
	FieldStartDate           = "Start Date"
	FieldEndDate             = "End Date"
	FieldTripDuration        = "Trip Duration"
	FieldTripType            = "Trip Type"
	FieldTravelers           = "Number of Travelers"
	FieldBudget              = "Budget Range"
	FieldTransportation      = "Transportation Preferences"
	FieldAccommodation       = "Accommodation Preferences"
	FieldSpecialRequirements = "Special Requirements"
)

// Travelers holds traveler counts by age band.
type Travelers struct {
	Adults   int `json:"Adults"`
	Children int `json:"Children"`
	Infants  int `json:"Infants"`
}

// Total returns the number of travelers.
func (t Travelers) Total() int {
	return t.Adults + t.Children + t.Infants
}

// String renders counts as "2 Adults, 1 Child".
func (t Travelers) String() string {
	var parts []string
	add := func(n int, singular, plural string) {
		if n <= 0 {
			return
		}
		if n == 1 {
			parts = append(parts, fmt.Sprintf("1 %s", singular))
			return
		}
		parts = append(parts, fmt.Sprintf("%d %s", n, plural))
	}
	add(t.Adults, "Adult", "Adults")
	add(t.Children, "Child", "Children")
	add(t.Infants, "Infant", "Infants")
	if len(parts) == 0 {
		return NotSpecified
	}
	return strings.Join(parts, ", ")
}

// Details is the structured result of extracting one travel request.
// Empty strings, zero counts and nil slices mean the field was not found.
type Details struct {
	StartingLocation    string
	Destination         string
	StartDate           string
	EndDate             string
	DurationDays        int
	TripType            []string
	Travelers           Travelers
	Budget              string
	Transportation      []string
	Accommodation       []string
	SpecialRequirements []string
}

// Start parses StartDate. ok is false when it is unset or malformed.
func (d *Details) Start() (time.Time, bool) {
	return parseDate(d.StartDate)
}

// End parses EndDate. ok is false when it is unset or malformed.
func (d *Details) End() (time.Time, bool) {
	return parseDate(d.EndDate)
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// TripTypeOrDefault returns the trip types, or the leisure default.
func (d *Details) TripTypeOrDefault() []string {
	return orDefault(d.TripType, DefaultTripType)
}

// TransportationOrDefault returns transport modes, or "Any".
func (d *Details) TransportationOrDefault() []string {
	return orDefault(d.Transportation, DefaultTransportation)
}

// AccommodationOrDefault returns accommodation types, or "Not specified".
func (d *Details) AccommodationOrDefault() []string {
	return orDefault(d.Accommodation, NotSpecified)
}

// SpecialRequirementsText joins requirements into a comma list.
func (d *Details) SpecialRequirementsText() string {
	if len(d.SpecialRequirements) == 0 {
		return NotSpecified
	}
	return strings.Join(d.SpecialRequirements, ", ")
}

// BudgetOrDefault returns the budget, or "Unknown".
func (d *Details) BudgetOrDefault() string {
	if d.Budget == "" {
		return UnknownBudget
	}
	return d.Budget
}

func orDefault(values []string, def string) []string {
	if len(values) == 0 {
		return []string{def}
	}
	return append([]string(nil), values...)
}

// wireDetails is the mapping form. Unset scalars are null.
type wireDetails struct {
	StartingLocation    *string   `json:"Starting Location"`
	Destination         *string   `json:"Destination"`
	StartDate           *string   `json:"Start Date"`
	EndDate             *string   `json:"End Date"`
	TripDuration        *int      `json:"Trip Duration"`
	TripType            []string  `json:"Trip Type"`
	Travelers           Travelers `json:"Number of Travelers"`
	Budget              string    `json:"Budget Range"`
	Transportation      []string  `json:"Transportation Preferences"`
	Accommodation       []string  `json:"Accommodation Preferences"`
	SpecialRequirements string    `json:"Special Requirements"`
}

func stringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (d *Details) wire() wireDetails {
	w := wireDetails{
		StartingLocation:    stringPtr(d.StartingLocation),
		Destination:         stringPtr(d.Destination),
		StartDate:           stringPtr(d.StartDate),
		EndDate:             stringPtr(d.EndDate),
		TripType:            d.TripTypeOrDefault(),
		Travelers:           d.Travelers,
		Budget:              d.BudgetOrDefault(),
		Transportation:      d.TransportationOrDefault(),
		Accommodation:       d.AccommodationOrDefault(),
		SpecialRequirements: d.SpecialRequirementsText(),
	}
	if d.DurationDays > 0 {
		n := d.DurationDays
		w.TripDuration = &n
	}
	return w
}

// MarshalJSON encodes the mapping form with display defaults applied.
func (d *Details) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.wire())
}

// UnmarshalJSON decodes the mapping form. Display defaults decode back to
// unset fields, so a marshaled record decodes to an equal record.
func (d *Details) UnmarshalJSON(data []byte) error {
	var w wireDetails
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	deref := func(p *string) string {
		if p == nil {
			return ""
		}
		return strings.TrimSpace(*p)
	}
	*d = Details{
		StartingLocation:    deref(w.StartingLocation),
		Destination:         deref(w.Destination),
		StartDate:           deref(w.StartDate),
		EndDate:             deref(w.EndDate),
		TripType:            withoutDefault(w.TripType, DefaultTripType),
		Travelers:           w.Travelers,
		Transportation:      withoutDefault(w.Transportation, DefaultTransportation),
		Accommodation:       withoutDefault(w.Accommodation, NotSpecified),
		SpecialRequirements: splitRequirements(w.SpecialRequirements),
	}
	if w.TripDuration != nil {
		d.DurationDays = *w.TripDuration
	}
	if w.Budget != UnknownBudget {
		d.Budget = strings.TrimSpace(w.Budget)
	}
	return nil
}

func withoutDefault(values []string, def string) []string {
	if len(values) == 1 && values[0] == def {
		return nil
	}
	if len(values) == 0 {
		return nil
	}
	return values
}

func splitRequirements(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" || s == NotSpecified {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Map returns the mapping form keyed by the Field* names.
func (d *Details) Map() map[string]any {
	w := d.wire()
	m := map[string]any{
		FieldTripType:            w.TripType,
		FieldTravelers:           map[string]int{"Adults": w.Travelers.Adults, "Children": w.Travelers.Children, "Infants": w.Travelers.Infants},
		FieldBudget:              w.Budget,
		FieldTransportation:      w.Transportation,
		FieldAccommodation:       w.Accommodation,
		FieldSpecialRequirements: w.SpecialRequirements,
		FieldStartingLocation:    nil,
		FieldDestination:         nil,
		FieldStartDate:           nil,
		FieldEndDate:             nil,
		FieldTripDuration:        nil,
	}
	if w.StartingLocation != nil {
		m[FieldStartingLocation] = *w.StartingLocation
	}
	if w.Destination != nil {
		m[FieldDestination] = *w.Destination
	}
	if w.StartDate != nil {
		m[FieldStartDate] = *w.StartDate
	}
	if w.EndDate != nil {
		m[FieldEndDate] = *w.EndDate
	}
	if w.TripDuration != nil {
		m[FieldTripDuration] = *w.TripDuration
	}
	return m
}
