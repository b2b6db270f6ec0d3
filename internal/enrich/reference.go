package enrich

import (
	"github.com/dgallion1/dtcscan/internal/dtc"
	"github.com/dgallion1/dtcscan/internal/sheet"
)

// Reference sheet columns (0-based).
const (
	refColHex                    = 0
	refColDescription            = 7
	refColSuspensionPeriod       = 10
	refColQualificationTime      = 11
	refColQualificationCondition = 15
	refColResetCondition         = 16
	refColEnableCondition        = 17
)

// ReferenceRow is one row of the DTC reference sheet.
type ReferenceRow struct {
	HexCode                string
	Description            string
	SuspensionPeriod       string
	QualificationTime      string
	QualificationCondition string
	ResetCondition         string
	EnableCondition        string
}

// ReferenceRowsFromCells maps sheet rows to reference rows by fixed column
// position. The first row is a header and is skipped.
func ReferenceRowsFromCells(rows []sheet.Row) []ReferenceRow {
	if len(rows) <= 1 {
		return nil
	}
	out := make([]ReferenceRow, 0, len(rows)-1)
	for _, row := range rows[1:] {
		out = append(out, ReferenceRow{
			HexCode:                cellText(row.At(refColHex)),
			Description:            cellText(row.At(refColDescription)),
			SuspensionPeriod:       cellText(row.At(refColSuspensionPeriod)),
			QualificationTime:      cellText(row.At(refColQualificationTime)),
			QualificationCondition: cellText(row.At(refColQualificationCondition)),
			ResetCondition:         cellText(row.At(refColResetCondition)),
			EnableCondition:        cellText(row.At(refColEnableCondition)),
		})
	}
	return out
}

// MatchReference attaches at most one reference row to each record. When
// several rows share a normalized hex code, the first one in sheet order
// wins. A match replaces the description if the row has one. The input
// slice is not modified.
func MatchReference(records []dtc.Record, rows []ReferenceRow) []dtc.Record {
	index := make(map[string]int, len(rows))
	for i, row := range rows {
		key := NormalizeHex(row.HexCode)
		if key == "" {
			continue
		}
		if _, seen := index[key]; !seen {
			index[key] = i
		}
	}

	out := make([]dtc.Record, len(records))
	for i, rec := range records {
		out[i] = rec
		j, ok := index[NormalizeHex(rec.HexCode)]
		if !ok {
			continue
		}
		row := rows[j]
		if row.Description != "" {
			out[i].Description = row.Description
		}
		out[i].Reference = &dtc.ReferenceDetails{
			SuspensionPeriod:       row.SuspensionPeriod,
			QualificationTime:      row.QualificationTime,
			QualificationCondition: row.QualificationCondition,
			ResetCondition:         row.ResetCondition,
			EnableCondition:        row.EnableCondition,
		}
	}
	return out
}
