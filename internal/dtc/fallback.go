package dtc

import "regexp"

// pCodePattern matches the alternate identifier grammar "PABCDEF ($00FF/99)".
var pCodePattern = regexp.MustCompile(`(P[A-Z0-9]{6})\s*\(\$([A-Fa-f0-9]+)\s*/\s*(\d+)\)`)

// ExtractFallback scans the whole normalized text for P-code identifiers.
// Each record section runs from one identifier to the next, or to the end
// of the text for the last one.
func ExtractFallback(text string) []Record {
	spans := pCodePattern.FindAllStringSubmatchIndex(text, -1)
	if len(spans) == 0 {
		return nil
	}
	records := make([]Record, 0, len(spans))
	for i, m := range spans {
		end := len(text)
		if i+1 < len(spans) {
			end = spans[i+1][0]
		}
		r := Record{
			ID:           recordID(len(records) + 1),
			SymbolicCode: text[m[2]:m[3]],
			HexCode:      text[m[4]:m[5]],
			DecimalCode:  text[m[6]:m[7]],
		}
		extractFields(text[m[0]:end], &r)
		records = append(records, r)
	}
	return records
}
