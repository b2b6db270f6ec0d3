package dtc

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

const sampleReport = "Vehicle report VIN WVW123 Primary results (3): " +
	"DTC_MASK $FF/FF E10300 ($1A2B/6699) DTC text: Sensor fault DTC status 8 Confirmed Priority 5 " +
	"Malfunction frequency counter 3 Date 12:30:45 - 1.2.2023 Odometer: 12345 " +
	"DTC_MASK $FF/FF C102C03 ($102C03/1059843) DTC text: Wiring open + Information (2): DTC status 9 Pending Priority 2 " +
	"DTC_MASK $FF/FF U0100 ($C100/49408) DTC text: Lost communication Date reading: 2023-02-03 Mileage: 777.5"

func TestParse_PrimaryPath(t *testing.T) {
	records, path := Parse(sampleReport)
	if path != PathPrimary {
		t.Fatalf("expected path %q, got %q", PathPrimary, path)
	}
	want := []Record{
		{
			ID: "dtc-1", SymbolicCode: "E10300", HexCode: "1A2B", DecimalCode: "6699",
			Description: "Sensor fault", Priority: "5", Frequency: "3", Status: "8 Confirmed Priority",
			Timestamp: "12:30:45 - 1.2.2023", Odometer: "12345",
		},
		{
			ID: "dtc-2", SymbolicCode: "C102C03", HexCode: "102C03", DecimalCode: "1059843",
			Description: "Wiring open", Priority: "2", Status: "9 Pending Priority",
		},
		{
			ID: "dtc-3", SymbolicCode: "U0100", HexCode: "C100", DecimalCode: "49408",
			Description: "Lost communication", Timestamp: "2023-02-03", Odometer: "777.5",
		},
	}
	if diff := cmp.Diff(want, records); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_PrimaryScenario(t *testing.T) {
	records, path := Parse("Primary results (1): CODE1 ($1A2B/1234) DTC text: Sensor fault Priority 5 DTC_MASK $FF/FF")
	if path != PathPrimary {
		t.Fatalf("expected path %q, got %q", PathPrimary, path)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	r := records[0]
	if r.HexCode != "1A2B" || r.Priority != "5" || r.Description != "Sensor fault" {
		t.Errorf("unexpected record %+v", r)
	}
}

func TestParse_FallbackScenario(t *testing.T) {
	records, path := Parse("Report header PABCDEF ($00FF/99) DTC text: Wiring open")
	if path != PathFallback {
		t.Fatalf("expected path %q, got %q", PathFallback, path)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	r := records[0]
	if r.SymbolicCode != "PABCDEF" || r.HexCode != "00FF" || r.DecimalCode != "99" {
		t.Errorf("unexpected identifier %s/%s/%s", r.SymbolicCode, r.HexCode, r.DecimalCode)
	}
	if r.Description != "Wiring open" {
		t.Errorf("expected description %q, got %q", "Wiring open", r.Description)
	}
	if r.ID != "dtc-1" {
		t.Errorf("expected id %q, got %q", "dtc-1", r.ID)
	}
}

func TestParse_FallbackWhenPrimaryFindsNothing(t *testing.T) {
	text := "Primary events (0): nothing here PABCDEF ($00FF/99) DTC text: Wiring open"
	records, path := Parse(text)
	if path != PathFallback {
		t.Fatalf("expected path %q, got %q", PathFallback, path)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
}

func TestParse_NoRecords(t *testing.T) {
	records, path := Parse("a report without any codes")
	if path != PathNone {
		t.Errorf("expected path %q, got %q", PathNone, path)
	}
	if len(records) != 0 {
		t.Errorf("expected 0 records, got %d", len(records))
	}
}

func TestExtractFallback_Segments(t *testing.T) {
	text := "PABCDEF ($00FF/99) DTC text: Wiring open Priority 1 " +
		"P0A1B2C ($0A1B/2587) DTC text: Short to ground Odometer: 500 km"
	records := ExtractFallback(text)
	want := []Record{
		{ID: "dtc-1", SymbolicCode: "PABCDEF", HexCode: "00FF", DecimalCode: "99", Description: "Wiring open", Priority: "1"},
		{ID: "dtc-2", SymbolicCode: "P0A1B2C", HexCode: "0A1B", DecimalCode: "2587", Description: "Short to ground", Odometer: "500"},
	}
	if diff := cmp.Diff(want, records); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractPrimary_SkipsSectionsWithoutIdentifier(t *testing.T) {
	text := "Primary results (2): garbage text here DTC_MASK $FF/FF U0100 ($C100/49408) DTC text: Lost DTC_MASK trailing junk text"
	records := ExtractPrimary(text)
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].ID != "dtc-1" {
		t.Errorf("expected ids to count extracted records only, got %q", records[0].ID)
	}
}

func TestRecord_Headline(t *testing.T) {
	r := Record{SymbolicCode: "E10300", HexCode: "1A2B", DecimalCode: "6699", Description: "Sensor fault"}
	if got := r.Headline(); got != "E10300 (1A2B/6699) Sensor fault" {
		t.Errorf("unexpected headline %q", got)
	}
}
