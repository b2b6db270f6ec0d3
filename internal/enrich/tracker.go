package enrich

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"unicode"

	"github.com/dgallion1/dtcscan/internal/dtc"
	"github.com/dgallion1/dtcscan/internal/sheet"
)

// TrackerSheet is the sheet name a tracker export must contain.
const TrackerSheet = "Exporter"

// DefaultURLTemplate builds a ticket link; {ticket} is replaced by the
// trimmed ticket number.
const DefaultURLTemplate = "https://jira.kostal.com/browse/{ticket}"

// Tracker sheet columns (0-based).
const (
	trackerColCreated = 0
	trackerColTicket  = 1
	trackerColSummary = 3
	trackerColStatus  = 4
	trackerColFix     = 6
)

// TrackerRow is one row of the issue-tracker export.
type TrackerRow struct {
	Created sheet.Cell
	Ticket  string
	// Summary is the free-text cell that mentions the hex code.
	Summary string
	Status  string
	Fix     string
}

// TrackerRowsFromCells maps sheet rows to tracker rows by fixed column
// position. The first row is a header and is skipped.
func TrackerRowsFromCells(rows []sheet.Row) []TrackerRow {
	if len(rows) <= 1 {
		return nil
	}
	out := make([]TrackerRow, 0, len(rows)-1)
	for _, row := range rows[1:] {
		out = append(out, TrackerRow{
			Created: row.At(trackerColCreated),
			Ticket:  cellText(row.At(trackerColTicket)),
			Summary: cellText(row.At(trackerColSummary)),
			Status:  cellText(row.At(trackerColStatus)),
			Fix:     cellText(row.At(trackerColFix)),
		})
	}
	return out
}

// MatchMode selects how a record's hex code is compared to tracker text.
type MatchMode string

const (
	// MatchLoose accepts equality or containment in either direction.
	MatchLoose MatchMode = "loose"
	// MatchBounded accepts equality, or the hex code occurring with no hex
	// digit directly before or after it.
	MatchBounded MatchMode = "bounded"
)

// ParseMatchMode validates a match mode name. Empty means loose.
func ParseMatchMode(s string) (MatchMode, error) {
	switch MatchMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", MatchLoose:
		return MatchLoose, nil
	case MatchBounded:
		return MatchBounded, nil
	}
	return "", fmt.Errorf("unknown tracker match mode %q (want loose or bounded)", s)
}

// TrackerOptions configures MatchTracker.
type TrackerOptions struct {
	URLTemplate string
	Mode        MatchMode
}

func (o TrackerOptions) withDefaults() TrackerOptions {
	if o.URLTemplate == "" {
		o.URLTemplate = DefaultURLTemplate
	}
	if o.Mode == "" {
		o.Mode = MatchLoose
	}
	return o
}

var nonHexPattern = regexp.MustCompile(`[^0-9A-F]+`)

// hexVariants returns the normalized spellings a tracker summary is tested
// under. Empty variants are dropped since "" is contained in every string.
func hexVariants(summary string) []string {
	up := strings.ToUpper(summary)
	candidates := []string{
		up,
		strings.ReplaceAll(up, "$", ""),
		strings.ReplaceAll(up, "0X", ""),
		nonHexPattern.ReplaceAllString(up, ""),
		strings.Map(func(r rune) rune {
			if unicode.IsSpace(r) {
				return -1
			}
			return r
		}, up),
	}
	variants := candidates[:0]
	for _, v := range candidates {
		if v != "" && !slices.Contains(variants, v) {
			variants = append(variants, v)
		}
	}
	return variants
}

func variantMatches(variant, hex string, mode MatchMode) bool {
	if variant == hex {
		return true
	}
	if mode == MatchBounded {
		return containsBounded(variant, hex)
	}
	return strings.Contains(variant, hex) || strings.Contains(hex, variant)
}

// containsBounded reports whether hex occurs in s with no hex digit
// adjacent on either side.
func containsBounded(s, hex string) bool {
	for offset := 0; ; {
		i := strings.Index(s[offset:], hex)
		if i < 0 {
			return false
		}
		start := offset + i
		end := start + len(hex)
		if (start == 0 || !isHexDigit(s[start-1])) && (end == len(s) || !isHexDigit(s[end])) {
			return true
		}
		offset = start + 1
	}
}

// rowMatches reports whether any variant of the row's summary matches hex.
func rowMatches(variants []string, hex string, mode MatchMode) bool {
	for _, v := range variants {
		if variantMatches(v, hex, mode) {
			return true
		}
	}
	return false
}

// TrackerLink substitutes the trimmed ticket number into template. An
// empty ticket yields no link.
func TrackerLink(template, ticket string) string {
	ticket = strings.TrimSpace(ticket)
	if ticket == "" {
		return ""
	}
	return strings.ReplaceAll(template, "{ticket}", ticket)
}

// MatchTracker attaches every matching tracker row to each record, in sheet
// order. The input slice is not modified.
func MatchTracker(records []dtc.Record, rows []TrackerRow, opts TrackerOptions) []dtc.Record {
	opts = opts.withDefaults()

	variants := make([][]string, len(rows))
	for i, row := range rows {
		variants[i] = hexVariants(row.Summary)
	}

	out := make([]dtc.Record, len(records))
	for i, rec := range records {
		out[i] = rec
		hex := NormalizeHex(rec.HexCode)
		if hex == "" {
			continue
		}
		var entries []dtc.TrackerEntry
		for j, row := range rows {
			if !rowMatches(variants[j], hex, opts.Mode) {
				continue
			}
			entries = append(entries, dtc.TrackerEntry{
				CreationDate: FormatDate(row.Created),
				Link:         TrackerLink(opts.URLTemplate, row.Ticket),
				Description:  row.Summary,
				Status:       row.Status,
				Fix:          row.Fix,
			})
		}
		if len(entries) > 0 {
			out[i].Tracker = append(slices.Clone(rec.Tracker), entries...)
		}
	}
	return out
}
