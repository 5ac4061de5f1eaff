// Package gazetteer provides a static table of place names and a fast scanner
// that finds them in free text.
package gazetteer

import (
	"bufio"
	"embed"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/coregx/ahocorasick"

	"github.com/zen-systems/tripgate/pkg/lexical"
)

//go:embed data/*.txt
var dataFS embed.FS

// Kind classifies a place entry.
type Kind string

const (
	KindCity        Kind = "city"
	KindCountry     Kind = "country"
	KindDestination Kind = "destination"
)

// Place is a known location name.
type Place struct {
	Name string
	Kind Kind
}

// Match is a place mention found by Scan. Offsets are byte offsets in the
// scanned text.
type Match struct {
	Place Place
	Text  string
	Start int
	End   int
}

// Gazetteer is an immutable place table. It is safe for concurrent use.
type Gazetteer struct {
	places []Place
	index  map[string]int
	ac     *ahocorasick.Automaton
}

var defaultGazetteer = sync.OnceValues(func() (*Gazetteer, error) {
	var places []Place
	for _, src := range []struct {
		file string
		kind Kind
	}{
		{"data/cities.txt", KindCity},
		{"data/countries.txt", KindCountry},
		{"data/destinations.txt", KindDestination},
	} {
		f, err := dataFS.Open(src.file)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", src.file, err)
		}
		loaded, err := ReadPlaces(f, src.kind)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", src.file, err)
		}
		places = append(places, loaded...)
	}
	return New(places)
})

// Default returns the process-wide gazetteer built from the embedded tables.
// It is built once on first use.
func Default() *Gazetteer {
	g, err := defaultGazetteer()
	if err != nil {
		panic(fmt.Sprintf("gazetteer: embedded tables are invalid: %v", err))
	}
	return g
}

// ReadPlaces parses one place name per line. Blank lines and lines starting
// with '#' are skipped.
func ReadPlaces(r io.Reader, kind Kind) ([]Place, error) {
	var places []Place
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		places = append(places, Place{Name: lexical.Canonical(line), Kind: kind})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return places, nil
}

// New builds a gazetteer from places. When a name appears more than once the
// first entry wins.
func New(places []Place) (*Gazetteer, error) {
	g := &Gazetteer{index: make(map[string]int, len(places))}
	var patterns []string
	for _, p := range places {
		key := lookupKey(p.Name)
		if key == "" {
			continue
		}
		if _, exists := g.index[key]; exists {
			continue
		}
		g.index[key] = len(g.places)
		g.places = append(g.places, p)
		patterns = append(patterns, key)
	}
	if len(patterns) == 0 {
		return g, nil
	}

	automaton, err := ahocorasick.NewBuilder().
		AddStrings(patterns).
		SetMatchKind(ahocorasick.LeftmostLongest).
		SetPrefilter(true).
		Build()
	if err != nil {
		return nil, fmt.Errorf("build automaton: %w", err)
	}
	g.ac = automaton
	return g, nil
}

func lookupKey(name string) string {
	return lexical.FoldCase(strings.Join(strings.Fields(lexical.Canonical(name)), " "))
}

// Len returns the number of distinct places.
func (g *Gazetteer) Len() int {
	return len(g.places)
}

// Lookup performs a case-insensitive exact match on phrase.
func (g *Gazetteer) Lookup(phrase string) (Place, bool) {
	idx, ok := g.index[lookupKey(lexical.TrimPunct(phrase))]
	if !ok {
		return Place{}, false
	}
	return g.places[idx], true
}

// Scan returns every word-bounded place mention in text, leftmost first.
// Overlapping mentions resolve to the longest one.
func (g *Gazetteer) Scan(text string) []Match {
	if g.ac == nil || text == "" {
		return nil
	}
	haystack := lexical.FoldCase(text)
	found := g.ac.FindAllOverlapping([]byte(haystack))

	candidates := make([]Match, 0, len(found))
	for _, m := range found {
		if m.Start < 0 || m.End > len(text) || m.Start >= m.End {
			continue
		}
		if !lexical.IsBoundary(haystack, m.Start, m.End) {
			continue
		}
		if m.PatternID < 0 || m.PatternID >= len(g.places) {
			continue
		}
		candidates = append(candidates, Match{
			Place: g.places[m.PatternID],
			Text:  text[m.Start:m.End],
			Start: m.Start,
			End:   m.End,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Start != candidates[j].Start {
			return candidates[i].Start < candidates[j].Start
		}
		return candidates[i].End > candidates[j].End
	})

	matches := candidates[:0]
	lastEnd := -1
	for _, c := range candidates {
		if c.Start < lastEnd {
			continue
		}
		matches = append(matches, c)
		lastEnd = c.End
	}
	return matches
}
