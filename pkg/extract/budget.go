package extract

import (
	"strings"

	"github.com/zen-systems/tripgate/pkg/lexical"
)

const (
	currencySymbols = `[$€¥₹£]`
	currencyNames   = `usd|dollars?|yen|jpy|euros?|eur|rupees?|inr|pounds?|gbp|cny|yuan|rmb`
	amountPattern   = `\d[\d,]*(?:\.\d+)?(?:\s*(?:-|to)\s*[$€¥₹£]?\s*\d[\d,]*(?:\.\d+)?)?`
)

var currencySymbolByName = map[string]string{
	"usd": "$", "dollar": "$", "dollars": "$",
	"eur": "€", "euro": "€", "euros": "€",
	"jpy": "¥", "yen": "¥",
	"inr": "₹", "rupee": "₹", "rupees": "₹",
	"gbp": "£", "pound": "£", "pounds": "£",
	"cny": "¥", "yuan": "¥", "rmb": "¥",
}

// SpecifyCurrency is appended to an amount written with no currency cue.
const SpecifyCurrency = "(Specify currency)"

var (
	budgetContextPattern = compile(
		`\b(?:budget|cost|expense|spending\s+cap|max\s+limit|cost\s+limit|amount|price)` +
			`(?:\s*[:=]|\s+(?:is|of|around|about|approximately|roughly|up\s+to|under|max|maximum|limit|range|between))*\s*` +
			`(?P<sym>` + currencySymbols + `)?\s*(?P<amount>` + amountPattern + `)(?:\s*(?P<name>` + currencyNames + `)\b)?`)

	amountSeparator = compile(`\s*(?:-|to)\s*` + currencySymbols + `?\s*`)

	directCurrencyPattern = compile(
		`(?P<sym>` + currencySymbols + `)\s*(?P<amount>` + amountPattern + `)` +
			`|\b(?P<amount2>` + amountPattern + `)\s*(?P<name>` + currencyNames + `)\b`)
)

// qualitativeBudgets is checked in order when no amount is found.
var qualitativeBudgets = []struct {
	phrase string
	label  string
}{
	{"friendly budget", "Mid-range Budget"},
	{"mid-range budget", "Mid-range"},
	{"luxury", "Luxury"},
	{"cheap", "Low Budget"},
	{"expensive", "Luxury"},
	{"premium", "Luxury"},
	{"high-range", "Luxury"},
}

// Budget returns the budget as a display string: "$1500", "€800 (euros)",
// "2000 (Specify currency)", a qualitative label, or "Unknown".
func Budget(text string) string {
	if m := budgetContextPattern.FindStringSubmatch(text); m != nil {
		g := namedGroups(budgetContextPattern, m)
		return formatBudget(g["sym"], g["amount"], g["name"])
	}
	if m := directCurrencyPattern.FindStringSubmatch(text); m != nil {
		g := namedGroups(directCurrencyPattern, m)
		amount := g["amount"]
		if amount == "" {
			amount = g["amount2"]
		}
		return formatBudget(g["sym"], amount, g["name"])
	}
	lower := lexical.Normalize(text)
	for _, q := range qualitativeBudgets {
		if lexical.ContainsPhrase(lower, q.phrase) {
			return q.label
		}
	}
	return UnknownBudget
}

func formatBudget(symbol, amount, name string) string {
	amount = strings.TrimRight(strings.ReplaceAll(amount, ",", ""), ".")
	amount = amountSeparator.ReplaceAllString(amount, "-")
	switch {
	case symbol != "":
		return symbol + amount
	case name != "":
		return currencySymbolByName[strings.ToLower(name)] + amount + " (" + name + ")"
	default:
		return amount + " " + SpecifyCurrency
	}
}
