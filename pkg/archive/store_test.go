package archive

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSavePlan(t *testing.T) {
	s, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	at := time.Date(2025, time.March, 4, 9, 30, 0, 0, time.UTC)
	out, err := s.SavePlan("New York, USA", "Day 1: Arrive", map[string]string{"destination": "New York"}, at)
	if err != nil {
		t.Fatalf("SavePlan: %v", err)
	}
	if filepath.Base(out.TextPath) != "itinerary_new_york_usa_20250304_093000.txt" {
		t.Fatalf("unexpected text path %q", out.TextPath)
	}

	text, err := os.ReadFile(out.TextPath)
	if err != nil || string(text) != "Day 1: Arrive" {
		t.Fatalf("text file = %q, %v", text, err)
	}
	data, err := os.ReadFile(out.JSONPath)
	if err != nil {
		t.Fatalf("read json: %v", err)
	}
	var got map[string]string
	if err := json.Unmarshal(data, &got); err != nil || got["destination"] != "New York" {
		t.Fatalf("json file = %s, %v", data, err)
	}
}

func TestStoreObjectIsContentAddressed(t *testing.T) {
	s, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	a, err := s.StoreObject(map[string]int{"n": 1})
	if err != nil {
		t.Fatalf("StoreObject: %v", err)
	}
	b, err := s.StoreObject(map[string]int{"n": 1})
	if err != nil || a != b {
		t.Fatalf("expected equal hashes, got %q and %q (%v)", a, b, err)
	}
	if _, err := os.Stat(filepath.Join(s.BasePath, "objects", a[:2], a+".json")); err != nil {
		t.Fatalf("object not written: %v", err)
	}
}

func TestSlug(t *testing.T) {
	tests := map[string]string{
		"Paris":           "paris",
		"São Paulo!":      "são_paulo",
		"  ":              "trip",
		"Rio de Janeiro ": "rio_de_janeiro",
	}
	for in, want := range tests {
		if got := slug(in); got != want {
			t.Fatalf("slug(%q) = %q, want %q", in, got, want)
		}
	}
}
