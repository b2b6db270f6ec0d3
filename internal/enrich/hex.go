// Package enrich joins extracted diagnostic records against the reference
// and issue-tracker datasets.
package enrich

import (
	"strings"
	"unicode"

	"github.com/dgallion1/dtcscan/internal/sheet"
)

// NormalizeHex maps the spellings of one hex code ("$1A2B", "0x1A2B",
// "1a2b", "1A 2B") onto a single canonical form.
func NormalizeHex(s string) string {
	s = strings.Map(func(r rune) rune {
		if r == '$' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	return strings.ToUpper(s)
}

func isHexDigit(b byte) bool {
	return ('0' <= b && b <= '9') || ('A' <= b && b <= 'F') || ('a' <= b && b <= 'f')
}

// cellText returns the cell's text, or "" for empty cells.
func cellText(c sheet.Cell) string {
	if c.IsEmpty() {
		return ""
	}
	return c.String()
}
