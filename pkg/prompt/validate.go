package prompt

import (
	"errors"
	"strings"
	"time"
	"unicode"

	"github.com/zen-systems/tripgate/pkg/extract"
)

// ErrorMarker prefixes every validation message so callers holding only
// the text can tell a correction request from a prompt.
const ErrorMarker = "Error❗Error❗Error❗"

// Kind identifies a validation failure.
type Kind string

const (
	MissingDestination Kind = "missing_destination"
	MissingStartDate   Kind = "missing_start_date"
	InvalidStartDate   Kind = "invalid_start_date"
	PastStartDate      Kind = "past_start_date"
	InvalidDuration    Kind = "invalid_duration"
	InvalidBudget      Kind = "invalid_budget"
	NoTravelers        Kind = "no_travelers"
)

var messages = map[Kind]string{
	MissingDestination: "Please specify a Destination place.",
	MissingStartDate:   "Please specify a Start Date.",
	InvalidStartDate:   "Invalid Start Date. Please enter a valid date.",
	PastStartDate:      "Start Date should not be in the past.",
	InvalidDuration:    "Enter the correct dates.",
	InvalidBudget:      "Please specify your budget as a range (e.g., 1000-2000).",
	NoTravelers:        "At least one adult or a child should be there for the trip.",
}

// StartDateLayouts are the accepted start date forms.
var StartDateLayouts = []string{"2006-01-02", "02-01-2006"}

// ValidationError is a user-correctable problem with a Details record.
type ValidationError struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

func newValidationError(kind Kind) *ValidationError {
	return &ValidationError{Kind: kind, Message: messages[kind]}
}

func (e *ValidationError) Error() string {
	return ErrorMarker + " " + e.Message
}

// IsValidation reports whether err is or wraps a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsMarked reports whether text is a rendered validation message.
func IsMarked(text string) bool {
	return strings.HasPrefix(strings.TrimSpace(text), ErrorMarker)
}

// Validate checks d in a fixed order and returns the first failure.
func Validate(d *extract.Details, now time.Time) error {
	if strings.TrimSpace(d.Destination) == "" {
		return newValidationError(MissingDestination)
	}
	if strings.TrimSpace(d.StartDate) == "" {
		return newValidationError(MissingStartDate)
	}
	start, ok := parseStartDate(d.StartDate)
	if !ok {
		return newValidationError(InvalidStartDate)
	}
	if start.Before(civilDate(now)) {
		return newValidationError(PastStartDate)
	}
	if d.DurationDays < 0 {
		return newValidationError(InvalidDuration)
	}
	if end, ok := parseStartDate(d.EndDate); ok && end.Before(start) {
		return newValidationError(InvalidDuration)
	}
	if !strings.ContainsFunc(d.Budget, unicode.IsDigit) {
		return newValidationError(InvalidBudget)
	}
	if d.Travelers.Adults <= 0 && d.Travelers.Children <= 0 {
		return newValidationError(NoTravelers)
	}
	return nil
}

func parseStartDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range StartDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// civilDate is the calendar date of t as a UTC midnight.
func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
