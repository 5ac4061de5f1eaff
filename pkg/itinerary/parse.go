package itinerary

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"runtime/debug"
	"strings"
)

// Parse converts a reply into an Itinerary. It never fails: a fenced JSON
// block is decoded directly when present and valid, otherwise the text is
// read heuristically, and a panic in either path yields the failure form.
func Parse(reply string) *Itinerary {
	return guard(reply, func() *Itinerary {
		if it, ok := parseStructured(reply); ok {
			return it
		}
		return parseHeuristic(reply)
	})
}

func guard(reply string, parse func() *Itinerary) (it *Itinerary) {
	defer func() {
		if r := recover(); r != nil {
			it = &Itinerary{
				Error:   fmt.Sprint(r),
				Trace:   string(debug.Stack()),
				Message: FailureMessage,
				RawText: reply,
			}
		}
	}()
	return parse()
}

var (
	fencedJSONPattern = regexp.MustCompile("(?is)```\\s*json\\s*(.*?)\\s*```")
	trailingComma     = regexp.MustCompile(`,(\s*[}\]])`)
)

// topLevelKeys are the keys that mark a JSON object as an itinerary.
var topLevelKeys = []string{
	"trip_overview", "days", "attractions", "accommodations", "dining",
	"transportation", "travel_tips", "weather", "budget", "essential_info",
}

// parseStructured is the fast path. It accepts the first fenced json block,
// or the first balanced object when the whole reply is bare JSON.
func parseStructured(reply string) (*Itinerary, bool) {
	var candidates []string
	for _, m := range fencedJSONPattern.FindAllStringSubmatch(reply, -1) {
		candidates = append(candidates, m[1])
	}
	if strings.HasPrefix(strings.TrimSpace(reply), "{") {
		if obj, ok := extractJSONObject(reply); ok {
			candidates = append(candidates, obj)
		}
	}
	for _, c := range candidates {
		if it, ok := decodeItinerary(c); ok {
			it.Source = SourceStructured
			it.dedupe()
			it.ensureLists()
			return it, true
		}
	}
	return nil, false
}

func decodeItinerary(raw string) (*Itinerary, bool) {
	for _, data := range [][]byte{[]byte(raw), trailingComma.ReplaceAll([]byte(raw), []byte("$1"))} {
		var keys map[string]json.RawMessage
		if err := json.Unmarshal(data, &keys); err != nil {
			continue
		}
		if !hasAnyKey(keys, topLevelKeys) {
			return nil, false
		}
		var it Itinerary
		if err := json.Unmarshal(data, &it); err != nil || it.Failed() {
			continue
		}
		if it.Weather.empty() {
			it.Weather = nil
		}
		return &it, true
	}
	return nil, false
}

func hasAnyKey(m map[string]json.RawMessage, keys []string) bool {
	for _, k := range keys {
		if _, ok := m[k]; ok {
			return true
		}
	}
	return false
}

// extractJSONObject returns the first balanced {...} in s, skipping braces
// inside string literals.
func extractJSONObject(s string) (string, bool) {
	start, depth := -1, 0
	inString, escaped := false, false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			if depth > 0 {
				inString = true
			}
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth > 0 {
				depth--
				if depth == 0 {
					return s[start : i+1], true
				}
			}
		}
	}
	return "", false
}

func nameKey(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// dedupe drops nameless entries and repeated names, keeping the first.
func (it *Itinerary) dedupe() {
	it.Attractions = dedupeBy(it.Attractions, func(a Attraction) string { return a.Name })
	it.Accommodations = dedupeBy(it.Accommodations, func(a Accommodation) string { return a.Name })
	it.Dining = dedupeBy(it.Dining, func(d Dining) string { return d.Name })
}

func dedupeBy[T any](items []T, name func(T) string) []T {
	seen := make(map[string]bool, len(items))
	out := items[:0]
	for _, item := range items {
		key := nameKey(name(item))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, item)
	}
	return out
}

// ensureLists replaces nil lists so every top-level key encodes as an array.
func (it *Itinerary) ensureLists() {
	if it.Days == nil {
		it.Days = []DayPlan{}
	}
	if it.Attractions == nil {
		it.Attractions = []Attraction{}
	}
	if it.Accommodations == nil {
		it.Accommodations = []Accommodation{}
	}
	if it.Dining == nil {
		it.Dining = []Dining{}
	}
	if it.Transportation == nil {
		it.Transportation = []Transport{}
	}
	if it.TravelTips == nil {
		it.TravelTips = []string{}
	}
}

// Fenced returns v as a fenced json block, the form Parse looks for first.
func Fenced(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return "```json\n" + strings.TrimRight(buf.String(), "\n") + "\n```", nil
}
