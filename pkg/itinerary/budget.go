package itinerary

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

const defaultCurrency = "$"

var (
	currencySymbols = []string{"$", "€", "£", "¥", "₹"}
	priceNumber     = regexp.MustCompile(`\d[\d,]*(?:\.\d+)?`)
)

// summarize totals the prices of the itinerary lists. It returns nil when
// no price was found.
func summarize(it *Itinerary, reply string) *BudgetSummary {
	s := &BudgetSummary{
		AccommodationCosts:  []CostItem{},
		DiningCosts:         []CostItem{},
		TransportationCosts: []CostItem{},
		AttractionCosts:     []CostItem{},
	}
	for _, a := range it.Accommodations {
		if lo, hi, ok := priceBounds(a.PriceRange); ok {
			s.AccommodationCosts = append(s.AccommodationCosts, CostItem{Name: a.Name, Min: lo, Max: hi})
		}
	}
	for _, d := range it.Dining {
		if lo, hi, ok := priceBounds(d.PriceRange); ok {
			s.DiningCosts = append(s.DiningCosts, CostItem{Name: d.Name, MealType: d.MealType, Min: lo, Max: hi})
		}
	}
	for _, t := range it.Transportation {
		if lo, hi, ok := priceBounds(currencyAmount.FindString(t.Details)); ok {
			s.TransportationCosts = append(s.TransportationCosts, CostItem{Type: t.Type, Min: lo, Max: hi})
		}
	}
	for _, a := range it.Attractions {
		if lo, hi, ok := priceBounds(a.PriceRange); ok {
			s.AttractionCosts = append(s.AttractionCosts, CostItem{Name: a.Name, Min: lo, Max: hi})
		}
	}

	for _, list := range [][]CostItem{s.AccommodationCosts, s.DiningCosts, s.TransportationCosts, s.AttractionCosts} {
		for _, c := range list {
			s.EstimatedTotal.Min += c.Min
			s.EstimatedTotal.Max += c.Max
		}
	}
	if s.EstimatedTotal.Max == 0 {
		return nil
	}
	s.EstimatedTotal.Currency = dominantCurrency(reply)
	return s
}

// priceBounds reads the first two numbers of a price string as min and max.
// Thousands separators are ignored, and numbers above math.MaxInt32 are
// skipped.
func priceBounds(price string) (int, int, bool) {
	nums := priceNumber.FindAllString(price, 2)
	values := make([]int, 0, 2)
	for _, n := range nums {
		f, err := strconv.ParseFloat(strings.ReplaceAll(n, ",", ""), 64)
		if err != nil {
			return 0, 0, false
		}
		if f > math.MaxInt32 {
			continue
		}
		values = append(values, int(math.Round(f)))
	}
	if len(values) == 0 {
		return 0, 0, false
	}
	lo, hi := values[0], values[0]
	if len(values) > 1 {
		hi = values[1]
	}
	if hi < lo {
		lo, hi = hi, lo
	}
	return lo, hi, hi > 0
}

// dominantCurrency returns the most frequent currency symbol in text.
func dominantCurrency(text string) string {
	best, count := defaultCurrency, 0
	for _, sym := range currencySymbols {
		if n := strings.Count(text, sym); n > count {
			best, count = sym, n
		}
	}
	return best
}
