package dtc

import "strconv"

// Path names the extraction strategy that produced a record collection.
type Path string

const (
	PathPrimary  Path = "primary"
	PathFallback Path = "fallback"
	PathNone     Path = "none"
)

// Parse extracts records from normalized report text. The primary layout
// (start marker and DTC_MASK boundaries) is tried first; the P-code scan
// runs only when it yields nothing. An empty result is valid.
func Parse(text string) ([]Record, Path) {
	if records := ExtractPrimary(text); len(records) > 0 {
		return records, PathPrimary
	}
	if records := ExtractFallback(text); len(records) > 0 {
		return records, PathFallback
	}
	return nil, PathNone
}

// ExtractPrimary segments text and extracts one record per section that
// opens with a code identifier. Other sections are skipped.
func ExtractPrimary(text string) []Record {
	var records []Record
	for _, section := range Segment(text) {
		r, ok := ExtractRecord(section)
		if !ok {
			continue
		}
		r.ID = recordID(len(records) + 1)
		records = append(records, r)
	}
	return records
}

func recordID(n int) string {
	return "dtc-" + strconv.Itoa(n)
}
