package prompt

import (
	"fmt"
	"strings"
	"sync"

	"github.com/zen-systems/tripgate/pkg/itinerary"
)

var schemaBlock = sync.OnceValue(func() string {
	block, err := itinerary.Fenced(itinerary.Example())
	if err != nil {
		panic(err)
	}
	return block
})

var jsonRules = []string{
	`COMMAS: Include commas BETWEEN array elements and object properties, but NOT after the last element in an array or object.
   CORRECT:   [{"name": "Place 1"}, {"name": "Place 2"}]
   INCORRECT: [{"name": "Place 1"} {"name": "Place 2"}]
   INCORRECT: [{"name": "Place 1"}, {"name": "Place 2"},]`,
	`BRACKETS: Every opening bracket or brace must have a matching closing bracket or brace.`,
	`CONSISTENCY: Use consistent indentation.`,
	`QUOTING: All property names and string values must be enclosed in double quotes.
   CORRECT:   {"name": "Place"}
   INCORRECT: {name: "Place"} or {'name': 'Place'}`,
	`COMPLETENESS: Include ALL relevant items in the arrays. Do not truncate the data or use placeholders.`,
	`SCHEMA: Follow the exact schema structure shown above.`,
	`DATA TYPES: Strings in quotes ("Barcelona"), numbers without quotes (25), arrays in [ ], objects in { }.`,
}

// WithStructuredOutput appends the JSON block request that lets
// itinerary.Parse skip its heuristics.
func WithStructuredOutput(prompt string) string {
	var sb strings.Builder
	sb.WriteString(prompt)
	sb.WriteString("\n\nIMPORTANT: Along with the human-readable itinerary, include a structured JSON summary at the end of your response in the following format, as a fenced json code block:\n\n")
	sb.WriteString(schemaBlock())
	sb.WriteString("\n\nCRITICAL JSON SYNTAX REQUIREMENTS:\n")
	for i, rule := range jsonRules {
		sb.WriteString(fmt.Sprintf("\n%d. %s\n", i+1, rule))
	}
	sb.WriteString("\nStructure your response with clear section headers for each day (Day 1, Day 2, etc.), and clearly mark morning, afternoon, and evening activities as well as meals and accommodations.")
	return sb.String()
}
