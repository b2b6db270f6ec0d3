package dtc

import (
	"regexp"
	"strings"
)

// fieldLabelStops are the value-carrying field labels that end a description.
const fieldLabelStops = `Priority\s+\d` +
	`|Malfunction frequency counter\s+\d` +
	`|Date reading:` +
	`|Date[:\s]+\d` +
	`|Odometer(?: reading)?[:\s]*\d` +
	`|Mileage[:\s]*\d`

var (
	// maskPrefixPattern matches the "$FF/FF" mask pair that follows a
	// boundary token and therefore opens every section after the first.
	maskPrefixPattern = regexp.MustCompile(`^[:$]*\s*[A-Fa-f0-9]+\s*[/\\]\s*[A-Fa-f0-9]+\s+`)

	// identifierPattern matches "E10300 ($1A2B/6699)" at the start of a section.
	identifierPattern = regexp.MustCompile(`^([A-Z0-9]+)\s*\(\s*\$?\s*([A-Fa-f0-9]+)\s*[/\\]\s*(\d+)\s*\)`)

	// descriptionPattern captures the "DTC text:" value up to the next DTC
	// token, an ampersand or the end of the section. A field label only ends
	// it when the label carries its value, so "odometer" or "mileage" used as
	// words stay in the text.
	descriptionPattern = regexp.MustCompile(`(?i:DTC text:)\s*([^&\s][^&]*?)` +
		`(?:\s+(?:DTC|(?i:` + fieldLabelStops + `))|&|$)`)
)

// fieldPattern is one entry of an ordered pattern list. The first entry that
// matches a section decides the field value.
type fieldPattern struct {
	re    *regexp.Regexp
	value func(m []string) string
}

func pattern(expr string) fieldPattern {
	return fieldPattern{re: regexp.MustCompile(expr), value: firstGroup}
}

func firstGroup(m []string) string {
	return strings.TrimSpace(m[1])
}

var priorityPatterns = []fieldPattern{
	pattern(`(?i)Priority\s+(\d+)`),
}

var frequencyPatterns = []fieldPattern{
	pattern(`(?i)Malfunction frequency counter\s+(\d+)`),
}

var statusPatterns = []fieldPattern{
	{
		// The text runs to the next whitespace-separated number or the end.
		re: regexp.MustCompile(`(?i)DTC status\s+(\d+)\s+([^0-9\s].*?)(?:\s+\d|$)`),
		value: func(m []string) string {
			return m[1] + " " + strings.TrimSpace(m[2])
		},
	},
}

var timestampPatterns = []fieldPattern{
	pattern(`(?i)Date\s+([0-9]{1,2}:[0-9]{2}:[0-9]{2}\s*-\s*[0-9]{1,2}\.[0-9]{1,2}\.[0-9]{4})`),
	pattern(`(?i)Date\s+([0-9]{1,2}:[0-9]{2}:[0-9]{2}\s*-\s*[0-9]{1,2}/[0-9]{1,2}/[0-9]{2,4})`),
	pattern(`(?i)Date\s+([0-9]{1,2}:[0-9]{2}:[0-9]{2}\s*-\s*[0-9]{4}-[0-9]{1,2}-[0-9]{1,2})`),
	pattern(`(?i)Date reading[:\s]*(\S+)`),
	pattern(`(?i)Date[:\s]*([0-9]{1,2}[/.-][0-9]{1,2}[/.-][0-9]{2,4}\s+[0-9]{1,2}:[0-9]{2})`),
	pattern(`(?i)Date[:\s]*([0-9]{1,2}[/.-][0-9]{1,2}[/.-][0-9]{2,4})`),
	pattern(`(?i)Date[:\s]*([0-9]{4}[/.-][0-9]{1,2}[/.-][0-9]{1,2})`),
}

var odometerPatterns = []fieldPattern{
	pattern(`(?i)Odometer reading[:\s]*(\S+)`),
	pattern(`(?i)Odometer[:\s]*([0-9]+(?:\.[0-9]+)?)`),
	pattern(`(?i)Mileage[:\s]*([0-9]+(?:\.[0-9]+)?)`),
	pattern(`(?i)Odometer[:\s]*([0-9]+\s*(?:km|miles?))`),
}

// firstMatch returns the value of the first pattern in the list that matches s.
func firstMatch(patterns []fieldPattern, s string) string {
	for _, p := range patterns {
		if m := p.re.FindStringSubmatch(s); m != nil {
			return p.value(m)
		}
	}
	return ""
}

// ExtractRecord parses one section produced by Segment. It reports false
// when the section does not open with a code identifier.
func ExtractRecord(section string) (Record, bool) {
	head := strings.TrimSpace(section)
	head = strings.TrimSpace(strings.TrimSuffix(head, Boundary))
	head = maskPrefixPattern.ReplaceAllString(head, "")

	m := identifierPattern.FindStringSubmatch(head)
	if m == nil {
		return Record{}, false
	}
	r := Record{
		SymbolicCode: m[1],
		HexCode:      m[2],
		DecimalCode:  m[3],
	}
	extractFields(section, &r)
	return r, true
}

// extractFields fills the description and the optional fields of r from a
// section. Fields whose patterns do not match stay empty.
func extractFields(section string, r *Record) {
	r.Description = NotAvailable
	if m := descriptionPattern.FindStringSubmatch(section); m != nil {
		if d := strings.TrimSpace(m[1]); d != "" {
			r.Description = d
		}
	}
	r.Priority = firstMatch(priorityPatterns, section)
	r.Frequency = firstMatch(frequencyPatterns, section)
	r.Status = firstMatch(statusPatterns, section)
	r.Timestamp = firstMatch(timestampPatterns, section)
	r.Odometer = firstMatch(odometerPatterns, section)
}
