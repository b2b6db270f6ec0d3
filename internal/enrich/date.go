package enrich

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dgallion1/dtcscan/internal/sheet"
)

// DateLayout is how tracker dates are rendered.
const DateLayout = "02.01.2006"

const (
	// serialThreshold separates serial day numbers from small numbers.
	serialThreshold = 40000
	// serialMax is 9999-12-31 as a serial day number.
	serialMax = 2958465
)

// serialEpoch is day zero of spreadsheet serial dates. Starting at
// 1899-12-30 absorbs the fictitious 1900-02-29.
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// dateLayouts are tried in order for text dates.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2.1.2006",
	"2.1.2006 15:04",
	"2.1.2006 15:04:05",
	"1/2/2006",
	"1/2/2006 15:04",
	"1/2/2006 3:04 PM",
	"2006/1/2",
	"2/Jan/06 3:04 PM",
	"2/Jan/06",
}

// FormatDate renders a tracker creation-date cell. Numbers above 40000 are
// spreadsheet serial dates; text containing '/', '-' or '.' is parsed as a
// calendar date. Anything else is returned as its raw text.
func FormatDate(c sheet.Cell) string {
	switch c.Kind {
	case sheet.Empty:
		return ""
	case sheet.Number:
		if t, ok := fromSerial(c.Num); ok {
			return t.Format(DateLayout)
		}
		return c.String()
	}

	raw := c.Text
	trimmed := strings.TrimSpace(raw)
	if v, err := strconv.ParseFloat(trimmed, 64); err == nil {
		if t, ok := fromSerial(v); ok {
			return t.Format(DateLayout)
		}
		return raw
	}
	if strings.ContainsAny(trimmed, "/-.") {
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, trimmed); err == nil {
				return t.Format(DateLayout)
			}
		}
	}
	return raw
}

func fromSerial(v float64) (time.Time, bool) {
	if v <= serialThreshold || v > serialMax || math.IsNaN(v) {
		return time.Time{}, false
	}
	days := math.Floor(v)
	frac := time.Duration((v - days) * float64(24*time.Hour))
	return serialEpoch.AddDate(0, 0, int(days)).Add(frac), true
}
