package render

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/dgallion1/dtcscan/internal/dtc"
)

var csvHeader = []string{
	"id", "symbolic_code", "hex_code", "decimal_code", "description",
	"priority", "frequency_counter", "status", "timestamp", "odometer",
	"suspension_period", "qualification_time", "qualification_condition",
	"reset_condition", "enable_condition",
	"tracker_links", "tracker_created", "tracker_description",
	"tracker_status", "tracker_fix",
}

// trackerSeparator joins the values of several tracker entries in one cell.
const trackerSeparator = "; "

// CSV writes one row per record. Tracker entries are joined into the
// trailing tracker_* columns.
func CSV(w io.Writer, records []dtc.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range records {
		var ref dtc.ReferenceDetails
		if r.Reference != nil {
			ref = *r.Reference
		}
		row := []string{
			r.ID, r.SymbolicCode, r.HexCode, r.DecimalCode, r.Description,
			r.Priority, r.Frequency, r.Status, r.Timestamp, r.Odometer,
			ref.SuspensionPeriod, ref.QualificationTime, ref.QualificationCondition,
			ref.ResetCondition, ref.EnableCondition,
			joinTracker(r.Tracker, func(e dtc.TrackerEntry) string { return e.Link }),
			joinTracker(r.Tracker, func(e dtc.TrackerEntry) string { return e.CreationDate }),
			joinTracker(r.Tracker, func(e dtc.TrackerEntry) string { return e.Description }),
			joinTracker(r.Tracker, func(e dtc.TrackerEntry) string { return e.Status }),
			joinTracker(r.Tracker, func(e dtc.TrackerEntry) string { return e.Fix }),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func joinTracker(entries []dtc.TrackerEntry, field func(dtc.TrackerEntry) string) string {
	var parts []string
	for _, e := range entries {
		if v := field(e); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, trackerSeparator)
}
