package extract

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
	"time"
)

const roundTripRequest = "I am planning a round trip from New York to Paris from December 15 to December 25, 2024. " +
	"The trip lasts for 10 days. There will be two adults, 1 kid and 1 infant. " +
	"We will travel by flight and stay in hotel. Our budget is $5000"

func fixedClock() time.Time {
	return time.Date(2024, time.June, 1, 9, 30, 0, 0, time.UTC)
}

func newTestExtractor(opts ...Option) *Extractor {
	return New(append([]Option{WithClock(fixedClock)}, opts...)...)
}

func contains(list []string, want string) bool {
	for _, v := range list {
		if v == want {
			return true
		}
	}
	return false
}

func TestExtractRoundTripRequest(t *testing.T) {
	d := newTestExtractor().Extract(roundTripRequest)

	if d.StartingLocation != "New York" {
		t.Fatalf("expected starting location New York, got %q", d.StartingLocation)
	}
	if d.Destination != "Paris" {
		t.Fatalf("expected destination Paris, got %q", d.Destination)
	}
	if d.StartDate != "2024-12-15" || d.EndDate != "2024-12-25" {
		t.Fatalf("expected 2024-12-15..2024-12-25, got %s..%s", d.StartDate, d.EndDate)
	}
	if d.DurationDays != 11 {
		t.Fatalf("expected inclusive duration 11, got %d", d.DurationDays)
	}
	want := Travelers{Adults: 2, Children: 1, Infants: 1}
	if d.Travelers != want {
		t.Fatalf("expected travelers %+v, got %+v", want, d.Travelers)
	}
	if !contains(d.Transportation, "flight") {
		t.Fatalf("expected flight in transportation, got %v", d.Transportation)
	}
	if !contains(d.Accommodation, "Boutique hotels") {
		t.Fatalf("expected hotel accommodation, got %v", d.Accommodation)
	}
	if d.Budget != "$5000" {
		t.Fatalf("expected budget $5000, got %q", d.Budget)
	}
}

func TestExtractIsIdempotent(t *testing.T) {
	e := newTestExtractor()
	first := e.Extract(roundTripRequest)
	second := e.Extract(roundTripRequest)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical records, got %+v and %+v", first, second)
	}
	if first == second {
		t.Fatal("expected a fresh record per call")
	}
}

func TestExtractEmptyInput(t *testing.T) {
	d := newTestExtractor().Extract("")
	if d.Destination != "" || d.StartDate != "" || d.Travelers.Total() != 0 {
		t.Fatalf("expected empty record, got %+v", d)
	}
	if d.BudgetOrDefault() != UnknownBudget {
		t.Fatalf("expected unknown budget, got %q", d.BudgetOrDefault())
	}
}

func TestExtractNeverPanicsOnNoise(t *testing.T) {
	inputs := []string{
		"from to from to",
		"from 99-98th of Smarch",
		"for 0 days on 31/02/2024",
		"$$$ budget: , cost -",
		strings.Repeat("from Paris to ", 200),
		"\x00\xff\xfe travel",
	}
	e := newTestExtractor()
	for _, in := range inputs {
		d := e.Extract(in)
		if start, ok := d.Start(); ok {
			if end, ok := d.End(); ok && end.Before(start) {
				t.Fatalf("end before start for %q: %+v", in, d)
			}
		}
	}
}

func TestKeywordStrategy(t *testing.T) {
	e := newTestExtractor(WithStrategy(KeywordStrategy()))
	if e.Strategy() != StrategyKeyword {
		t.Fatalf("expected keyword strategy, got %q", e.Strategy())
	}
	d := e.Extract(roundTripRequest)

	if d.StartingLocation != "New York" || d.Destination != "Paris" {
		t.Fatalf("expected New York -> Paris, got %q -> %q", d.StartingLocation, d.Destination)
	}
	if d.StartDate != "2024-12-15" || d.EndDate != "2024-12-25" {
		t.Fatalf("expected 2024-12-15..2024-12-25, got %s..%s", d.StartDate, d.EndDate)
	}
	// Word numerals are not read by the keyword strategy.
	want := Travelers{Adults: 0, Children: 1, Infants: 1}
	if d.Travelers != want {
		t.Fatalf("expected travelers %+v, got %+v", want, d.Travelers)
	}
	if !reflect.DeepEqual(d.TripType, []string{"Round Trip"}) {
		t.Fatalf("expected Round Trip, got %v", d.TripType)
	}
	if !reflect.DeepEqual(d.Transportation, []string{"Flight"}) {
		t.Fatalf("expected Flight, got %v", d.Transportation)
	}
	if !reflect.DeepEqual(d.Accommodation, []string{"Hotel"}) {
		t.Fatalf("expected Hotel, got %v", d.Accommodation)
	}
	if d.Budget != "$5000" {
		t.Fatalf("expected $5000, got %q", d.Budget)
	}
}

func TestKeywordStrategyDurationOnly(t *testing.T) {
	e := newTestExtractor(WithStrategy(KeywordStrategy()))
	d := e.Extract("Going from Oslo to Bergen on July 3 for 4 days")
	if d.StartDate != "2024-07-03" || d.EndDate != "2024-07-06" || d.DurationDays != 4 {
		t.Fatalf("unexpected dates %s..%s (%d)", d.StartDate, d.EndDate, d.DurationDays)
	}
	if d.Destination != "Bergen" {
		t.Fatalf("expected Bergen, got %q", d.Destination)
	}
	if d.Budget != "" {
		t.Fatalf("expected unset budget, got %q", d.Budget)
	}
}

func TestStrategyByName(t *testing.T) {
	for _, name := range []string{"", "cascade", " Cascade "} {
		s, err := StrategyByName(name)
		if err != nil || s.Name != StrategyCascade {
			t.Fatalf("StrategyByName(%q) = %q, %v", name, s.Name, err)
		}
	}
	s, err := StrategyByName("keyword")
	if err != nil || s.Name != StrategyKeyword {
		t.Fatalf("expected keyword strategy, got %q, %v", s.Name, err)
	}
	if _, err := StrategyByName("neural"); err == nil {
		t.Fatal("expected error for unknown strategy")
	}
}

func TestDetailsJSONRoundTrip(t *testing.T) {
	d := newTestExtractor().Extract(roundTripRequest)
	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Details
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(*d, back) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", back, *d)
	}
}

func TestDetailsJSONDefaults(t *testing.T) {
	data, err := json.Marshal(&Details{})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if raw[FieldDestination] != nil {
		t.Fatalf("expected null destination, got %v", raw[FieldDestination])
	}
	if raw[FieldBudget] != UnknownBudget {
		t.Fatalf("expected Unknown budget, got %v", raw[FieldBudget])
	}
	if raw[FieldSpecialRequirements] != NotSpecified {
		t.Fatalf("expected Not specified, got %v", raw[FieldSpecialRequirements])
	}
	tt, ok := raw[FieldTripType].([]any)
	if !ok || len(tt) != 1 || tt[0] != DefaultTripType {
		t.Fatalf("expected [Leisure], got %v", raw[FieldTripType])
	}
}

func TestDetailsMap(t *testing.T) {
	d := newTestExtractor().Extract(roundTripRequest)
	m := d.Map()
	if len(m) != 11 {
		t.Fatalf("expected 11 keys, got %d", len(m))
	}
	if m[FieldStartDate] != "2024-12-15" {
		t.Fatalf("unexpected start date %v", m[FieldStartDate])
	}
	if m[FieldTripDuration] != 11 {
		t.Fatalf("unexpected duration %v", m[FieldTripDuration])
	}
	travelers, ok := m[FieldTravelers].(map[string]int)
	if !ok || travelers["Adults"] != 2 || travelers["Children"] != 1 || travelers["Infants"] != 1 {
		t.Fatalf("unexpected travelers %v", m[FieldTravelers])
	}

	empty := (&Details{}).Map()
	if empty[FieldStartingLocation] != nil || empty[FieldTripDuration] != nil {
		t.Fatalf("expected nil for unset fields, got %v", empty)
	}
	if !reflect.DeepEqual(empty[FieldTransportation], []string{DefaultTransportation}) {
		t.Fatalf("expected [Any], got %v", empty[FieldTransportation])
	}
}

func TestTravelersString(t *testing.T) {
	tests := []struct {
		in   Travelers
		want string
	}{
		{Travelers{Adults: 2, Children: 1}, "2 Adults, 1 Child"},
		{Travelers{Adults: 1, Infants: 2}, "1 Adult, 2 Infants"},
		{Travelers{}, NotSpecified},
	}
	for _, tt := range tests {
		if got := tt.in.String(); got != tt.want {
			t.Fatalf("%+v.String() = %q, want %q", tt.in, got, tt.want)
		}
	}
}
