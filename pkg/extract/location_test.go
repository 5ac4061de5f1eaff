package extract

import (
	"strings"
	"testing"

	"github.com/zen-systems/tripgate/pkg/gazetteer"
	"github.com/zen-systems/tripgate/pkg/lexical"
)

func TestResolveLocations(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		start string
		dest  string
	}{
		{"gazetteer route", "Flying from London to Tokyo next month", "London", "Tokyo"},
		{"multi word city", "Flying from New York City to Rome.", "New York City", "Rome"},
		{"unknown proper nouns", "We drive from Springfield to Shelbyville for 3 days", "Springfield", "Shelbyville"},
		{"month after anchor is not a place", "from Berlin to Madrid from March 3 to March 9", "Berlin", "Madrid"},
		{"candidates without anchors", "Dreaming of Lisbon and Madrid this year", "Lisbon", "Madrid"},
		{"single candidate is the destination", "Somewhere warm like Bali please", "", "Bali"},
		{"destination list", "I want to visit Rome, Florence and Venice", "", "Rome, Florence, Venice"},
		{"complex route", "from Delhi to Mumbai, to Goa from Bangalore", "Delhi", "Mumbai, Goa, Bangalore"},
		{"nothing found", "just take me somewhere nice", "", ""},
	}
	loc := &cascadeLocations{recognizer: DefaultRecognizer()}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, dest := loc.ResolveLocations(tt.text)
			if start != tt.start || dest != tt.dest {
				t.Fatalf("ResolveLocations(%q) = (%q, %q), want (%q, %q)", tt.text, start, dest, tt.start, tt.dest)
			}
		})
	}
}

func TestResolveLocationsProperNounRoutes(t *testing.T) {
	pairs := [][2]string{
		{"Lake Placid", "Green Bay"},
		{"Zermatt", "Chamonix"},
		{"Port Douglas", "Alice Springs"},
	}
	loc := &cascadeLocations{recognizer: DefaultRecognizer()}
	for _, p := range pairs {
		start, dest := loc.ResolveLocations("from " + p[0] + " to " + p[1])
		if start != p[0] || dest != p[1] {
			t.Fatalf("from %s to %s: got (%q, %q)", p[0], p[1], start, dest)
		}
	}
}

// fixedRecognizer reports every occurrence of its names, case-insensitively.
type fixedRecognizer []string

func (f fixedRecognizer) LocationSpans(text string) []Span {
	lower := strings.ToLower(text)
	var spans []Span
	for _, name := range f {
		if i := strings.Index(lower, strings.ToLower(name)); i >= 0 {
			spans = append(spans, Span{Phrase: name, Start: i, End: i + len(name)})
		}
	}
	return spans
}

func TestCustomRecognizer(t *testing.T) {
	e := New(WithClock(fixedClock), WithStrategy(CascadeStrategy(fixedRecognizer{"Atlantis", "Lemuria"})))
	d := e.Extract("sailing from atlantis to lemuria with 2 adults")
	if d.StartingLocation != "Atlantis" || d.Destination != "Lemuria" {
		t.Fatalf("expected Atlantis -> Lemuria, got %q -> %q", d.StartingLocation, d.Destination)
	}
	if d.Travelers.Adults != 2 {
		t.Fatalf("expected 2 adults, got %d", d.Travelers.Adults)
	}
}

func TestGazetteerRecognizerCustomTable(t *testing.T) {
	g, err := gazetteer.New([]gazetteer.Place{
		{Name: "Atlantis", Kind: gazetteer.KindCity},
		{Name: "Lemuria", Kind: gazetteer.KindCity},
	})
	if err != nil {
		t.Fatalf("gazetteer.New: %v", err)
	}
	r := NewGazetteerRecognizer(g)
	if name, ok := r.Lookup("LEMURIA"); !ok || name != "Lemuria" {
		t.Fatalf("Lookup = %q, %v", name, ok)
	}
	if _, ok := r.Lookup("Paris"); ok {
		t.Fatalf("custom table must not fall back to the default gazetteer")
	}
	spans := r.LocationSpans("sailing from atlantis to lemuria")
	if len(spans) != 2 || spans[0].Phrase != "Atlantis" || spans[1].Phrase != "Lemuria" {
		t.Fatalf("unexpected spans %+v", spans)
	}
}

func TestFallbackCandidatesAreTitleCased(t *testing.T) {
	loc := &cascadeLocations{recognizer: fixedRecognizer{}}
	for _, text := range []string{
		"Memories of Tristan Da Cunha and of Port Louis",
		"We are heading to Ushuaia, then in Punta Arenas",
	} {
		got := loc.candidates(text, lexical.Tokenize(text), nil)
		if len(got) < 2 {
			t.Fatalf("candidates(%q) = %v", text, got)
		}
		for _, c := range got {
			if c != lexical.TitleCase(c) {
				t.Fatalf("candidate %q from %q is not title-cased", c, text)
			}
		}
	}
}
