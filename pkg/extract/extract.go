// Package extract turns a free-form travel request into a Details record.
//
// Extraction is a set of independent resolvers (locations, dates, travelers,
// preferences) run over the same normalized text. Each resolver is a cascade
// of pattern matchers: the first matcher that succeeds decides the field and
// nothing is ever reported as an error. A field no matcher recognises stays
// unset.
package extract

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/zen-systems/tripgate/pkg/lexical"
)

// Dates is the temporal resolver's output. Zero times mean absent.
type Dates struct {
	Start        time.Time
	End          time.Time
	DurationDays int
	// Rule names the cascade rule that produced Start, if any.
	Rule string
}

// Preferences is the preference classifiers' output.
type Preferences struct {
	TripType            []string
	Transportation      []string
	Accommodation       []string
	SpecialRequirements []string
	Budget              string
}

// LocationResolver finds the starting location and destination.
type LocationResolver interface {
	ResolveLocations(text string) (start, destination string)
}

// TemporalResolver finds trip dates relative to now.
type TemporalResolver interface {
	ResolveDates(text string, now time.Time) Dates
}

// QuantityResolver counts travelers.
type QuantityResolver interface {
	ResolveTravelers(text string) Travelers
}

// PreferenceResolver classifies transport, lodging, theme and budget.
type PreferenceResolver interface {
	ResolvePreferences(text string) Preferences
}

// Strategy bundles one implementation of each resolver.
type Strategy struct {
	Name        string
	Locations   LocationResolver
	Dates       TemporalResolver
	Travelers   QuantityResolver
	Preferences PreferenceResolver
}

// Strategy names accepted by StrategyByName.
const (
	StrategyCascade = "cascade"
	StrategyKeyword = "keyword"
)

// CascadeStrategy returns the strict strategy: ordered pattern cascades with
// recognizer-backed location detection.
func CascadeStrategy(recognizer LocationRecognizer) Strategy {
	if recognizer == nil {
		recognizer = DefaultRecognizer()
	}
	return Strategy{
		Name:        StrategyCascade,
		Locations:   &cascadeLocations{recognizer: recognizer},
		Dates:       cascadeDates{},
		Travelers:   cascadeTravelers{},
		Preferences: cascadePreferences{},
	}
}

// KeywordStrategy returns the lenient strategy: a handful of direct keyword
// and regex probes with no fallbacks.
func KeywordStrategy() Strategy {
	return Strategy{
		Name:        StrategyKeyword,
		Locations:   keywordLocations{},
		Dates:       keywordDates{},
		Travelers:   keywordTravelers{},
		Preferences: keywordPreferences{},
	}
}

// StrategyByName resolves a configured strategy name. Empty selects cascade.
func StrategyByName(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", StrategyCascade:
		return CascadeStrategy(nil), nil
	case StrategyKeyword:
		return KeywordStrategy(), nil
	default:
		return Strategy{}, fmt.Errorf("unknown extraction strategy %q", name)
	}
}

// Extractor assembles Details records. It holds no per-call state and is
// safe for concurrent use.
type Extractor struct {
	strategy Strategy
	now      func() time.Time
	logger   zerolog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithStrategy selects the resolver set.
func WithStrategy(s Strategy) Option {
	return func(e *Extractor) {
		e.strategy = s
	}
}

// WithClock sets the reference time for relative dates.
func WithClock(now func() time.Time) Option {
	return func(e *Extractor) {
		if now != nil {
			e.now = now
		}
	}
}

// WithLogger sets the logger used for per-field debug events.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Extractor) {
		e.logger = l
	}
}

// New creates an Extractor using the cascade strategy by default.
func New(opts ...Option) *Extractor {
	e := &Extractor{
		now:    time.Now,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.strategy.Locations == nil {
		e.strategy = CascadeStrategy(nil)
	}
	return e
}

// Strategy returns the name of the configured strategy.
func (e *Extractor) Strategy() string {
	return e.strategy.Name
}

// Extract builds a fresh Details record from text.
func (e *Extractor) Extract(text string) *Details {
	canon := lexical.Canonical(text)
	now := e.now()

	d := &Details{}
	d.StartingLocation, d.Destination = e.strategy.Locations.ResolveLocations(canon)

	dates := e.strategy.Dates.ResolveDates(canon, now)
	if !dates.Start.IsZero() {
		d.StartDate = dates.Start.Format(DateLayout)
	}
	if !dates.End.IsZero() {
		d.EndDate = dates.End.Format(DateLayout)
	}
	d.DurationDays = dates.DurationDays

	d.Travelers = e.strategy.Travelers.ResolveTravelers(canon)

	prefs := e.strategy.Preferences.ResolvePreferences(canon)
	d.TripType = prefs.TripType
	d.Transportation = prefs.Transportation
	d.Accommodation = prefs.Accommodation
	d.SpecialRequirements = prefs.SpecialRequirements
	if prefs.Budget != UnknownBudget {
		d.Budget = prefs.Budget
	}

	e.logger.Debug().
		Str("strategy", e.strategy.Name).
		Str("start_location", d.StartingLocation).
		Str("destination", d.Destination).
		Str("start_date", d.StartDate).
		Str("date_rule", dates.Rule).
		Int("duration_days", d.DurationDays).
		Int("travelers", d.Travelers.Total()).
		Str("budget", d.Budget).
		Msg("details extracted")
	return d
}

// Extract runs the default cascade extractor on text.
func Extract(text string) *Details {
	return defaultExtractor.Extract(text)
}

var defaultExtractor = New()
