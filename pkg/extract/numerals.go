package extract

import (
	"errors"
	"strconv"
	"strings"
)

// numeralPattern matches a digit run or a small word numeral.
const numeralPattern = `\d+|an?|one|two|three|four|five|six|seven|eight|nine|ten`

var wordNumerals = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
}

// parseCount converts a numeral token to an integer. Anything unrecognised
// counts as 1, and digit runs past the int range saturate.
func parseCount(s string) int {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "a" || s == "an" {
		return 1
	}
	if n, err := strconv.Atoi(s); err == nil || errors.Is(err, strconv.ErrRange) {
		return n
	}
	if n, ok := wordNumerals[s]; ok {
		return n
	}
	return 1
}

// parseTravelerCount is parseCount without the default-to-one leniency: an
// unreadable count is zero.
func parseTravelerCount(s string) int {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "a" || s == "an" {
		return 1
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 0 {
		return n
	}
	return wordNumerals[s]
}

// unitDays returns the number of days in one unit.
func unitDays(unit string) int {
	unit = strings.ToLower(unit)
	switch {
	case strings.HasPrefix(unit, "week"):
		return 7
	case strings.HasPrefix(unit, "month"):
		return 30
	default:
		return 1
	}
}

// MaxTripDays caps a stated trip length.
const MaxTripDays = 3650

// durationDays converts "N unit" to days, clamped to 1..MaxTripDays.
func durationDays(count, unit string) int {
	n, per := parseCount(count), unitDays(unit)
	if n > MaxTripDays/per {
		return MaxTripDays
	}
	if n *= per; n < 1 {
		return 1
	}
	return n
}
