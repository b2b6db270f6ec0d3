package dtc

import (
	"regexp"
	"strings"
)

// Boundary terminates every record section in the primary report layout.
const Boundary = "DTC_MASK"

// minSectionLen is the shortest trimmed section worth extracting from.
const minSectionLen = 10

var (
	// startMarkerPattern opens the region of the report that lists trouble codes.
	startMarkerPattern = regexp.MustCompile(`(?i)Primary\s+(?:results|events)\s+\(\d+\):`)

	// noisePattern matches the "Information (N):" headings that the report
	// interleaves with record content.
	noisePattern = regexp.MustCompile(`(?i)\+?\s*Information\s+\(\d+\):`)
)

// Segment splits normalized report text into record sections. Everything up
// to and including the start marker is discarded and noise headings are
// removed before splitting. Each section keeps the boundary token that closes
// it; the last section runs to the end of the text. Sections shorter than
// minSectionLen are dropped.
//
// A text without the start marker yields no sections.
func Segment(text string) []string {
	loc := startMarkerPattern.FindStringIndex(text)
	if loc == nil {
		return nil
	}
	body := noisePattern.ReplaceAllString(text[loc[1]:], "")

	var sections []string
	for offset := 0; offset <= len(body); {
		section, next := nextSection(body, offset)
		if len(strings.TrimSpace(section)) >= minSectionLen {
			sections = append(sections, section)
		}
		offset = next
	}
	return sections
}

// nextSection returns the section that starts at offset, including its
// terminating boundary, and the offset of the section after it.
func nextSection(body string, offset int) (string, int) {
	i := strings.Index(body[offset:], Boundary)
	if i < 0 {
		return body[offset:], len(body) + 1
	}
	end := offset + i + len(Boundary)
	return body[offset:end], end
}
