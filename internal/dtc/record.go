package dtc

import "fmt"

// NotAvailable is the description of a record whose section carries no
// "DTC text:" field.
const NotAvailable = "Not Available"

// Record is one diagnostic trouble code extracted from a report. Optional
// fields are empty when the report does not carry them.
type Record struct {
	ID           string `json:"id"`
	SymbolicCode string `json:"symbolic_code"`
	HexCode      string `json:"hex_code"`
	DecimalCode  string `json:"decimal_code,omitempty"`
	Description  string `json:"description"`

	Priority  string `json:"priority,omitempty"`
	Frequency string `json:"frequency_counter,omitempty"`
	Status    string `json:"status,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
	Odometer  string `json:"odometer,omitempty"`

	// Populated by the enrichment stages only.
	Reference *ReferenceDetails `json:"reference,omitempty"`
	Tracker   []TrackerEntry    `json:"tracker,omitempty"`
}

// ReferenceDetails holds the remediation metadata of a matched reference row.
type ReferenceDetails struct {
	SuspensionPeriod       string `json:"suspension_period,omitempty"`
	QualificationTime      string `json:"qualification_time,omitempty"`
	QualificationCondition string `json:"qualification_condition,omitempty"`
	ResetCondition         string `json:"reset_condition,omitempty"`
	EnableCondition        string `json:"enable_condition,omitempty"`
}

// TrackerEntry is a known issue attached to a record from the tracker export.
type TrackerEntry struct {
	CreationDate string `json:"creation_date,omitempty"`
	Link         string `json:"link,omitempty"`
	Description  string `json:"description,omitempty"`
	Status       string `json:"status,omitempty"`
	Fix          string `json:"fix,omitempty"`
}

// Headline is the one-line display form "CODE (HEX/DEC) description".
func (r Record) Headline() string {
	return fmt.Sprintf("%s (%s/%s) %s", r.SymbolicCode, r.HexCode, r.DecimalCode, r.Description)
}

// Complete reports whether the record carries both a timestamp and an
// odometer reading.
func (r Record) Complete() bool {
	return r.Timestamp != "" && r.Odometer != ""
}
