package gazetteer

import (
	"strings"
	"testing"
)

func TestDefaultLoadsEmbeddedTables(t *testing.T) {
	g := Default()
	if g.Len() < 300 {
		t.Fatalf("expected a few hundred places, got %d", g.Len())
	}
	if Default() != g {
		t.Fatalf("expected Default to return the same instance")
	}
}

func TestLookupIsCaseInsensitive(t *testing.T) {
	g := Default()
	tests := []struct {
		phrase string
		want   string
		kind   Kind
	}{
		{"paris", "Paris", KindCity},
		{"NEW YORK", "New York", KindCity},
		{"japan", "Japan", KindCountry},
		{"goa,", "Goa", KindDestination},
		{"french  countryside", "French Countryside", KindDestination},
	}
	for _, tt := range tests {
		got, ok := g.Lookup(tt.phrase)
		if !ok {
			t.Fatalf("Lookup(%q) missed", tt.phrase)
		}
		if got.Name != tt.want || got.Kind != tt.kind {
			t.Fatalf("Lookup(%q) = %+v, want %s/%s", tt.phrase, got, tt.want, tt.kind)
		}
	}
	if _, ok := g.Lookup("tomorrow"); ok {
		t.Fatalf("expected no match for a common word")
	}
}

func TestScanPrefersLongestAndRespectsBoundaries(t *testing.T) {
	g := Default()
	text := "Flying from New York City to Parisian cafes, then Rome and Tokyo."
	matches := g.Scan(text)

	var names []string
	for _, m := range matches {
		if text[m.Start:m.End] != m.Text {
			t.Fatalf("bad offsets for %+v", m)
		}
		names = append(names, m.Place.Name)
	}
	got := strings.Join(names, "|")
	if got != "New York City|Rome|Tokyo" {
		t.Fatalf("Scan names = %q", got)
	}
}

func TestNewSkipsDuplicatesAndBlanks(t *testing.T) {
	g, err := New([]Place{
		{Name: "Lisbon", Kind: KindCity},
		{Name: "lisbon", Kind: KindDestination},
		{Name: "  ", Kind: KindCity},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if g.Len() != 1 {
		t.Fatalf("expected 1 place, got %d", g.Len())
	}
	p, _ := g.Lookup("LISBON")
	if p.Kind != KindCity {
		t.Fatalf("expected first entry to win, got %s", p.Kind)
	}
}

func TestEmptyGazetteerScan(t *testing.T) {
	g, err := New(nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if m := g.Scan("from Rome"); m != nil {
		t.Fatalf("expected no matches, got %v", m)
	}
}

func TestReadPlacesSkipsComments(t *testing.T) {
	places, err := ReadPlaces(strings.NewReader("# header\n\nOslo\n  Bergen  \n"), KindCity)
	if err != nil {
		t.Fatalf("ReadPlaces: %v", err)
	}
	if len(places) != 2 || places[1].Name != "Bergen" {
		t.Fatalf("unexpected places: %+v", places)
	}
}
