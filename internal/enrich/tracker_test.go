package enrich

import (
	"slices"
	"testing"

	"github.com/dgallion1/dtcscan/internal/dtc"
	"github.com/dgallion1/dtcscan/internal/sheet"
)

func TestTrackerRowsFromCells(t *testing.T) {
	rows := TrackerRowsFromCells([]sheet.Row{
		{sheet.TextCell("Created"), sheet.TextCell("Key")},
		{
			sheet.NumberCell(44197), sheet.TextCell(" DTC-7 "), sheet.Cell{},
			sheet.TextCell("Fault 0x1A2B"), sheet.TextCell("Open"), sheet.Cell{}, sheet.TextCell("SW 2.1"),
		},
	})
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	r := rows[0]
	if r.Created.Num != 44197 || r.Ticket != " DTC-7 " || r.Summary != "Fault 0x1A2B" || r.Status != "Open" || r.Fix != "SW 2.1" {
		t.Errorf("unexpected row %+v", r)
	}
}

func TestHexVariants(t *testing.T) {
	got := hexVariants("Fault $1a 2b")
	for _, want := range []string{"FAULT $1A 2B", "FAULT 1A 2B", "FA1A2B", "FAULT$1A2B"} {
		if !slices.Contains(got, want) {
			t.Errorf("expected variant %q in %q", want, got)
		}
	}
	if slices.Contains(got, "") {
		t.Error("expected no empty variant")
	}
	if got := hexVariants("---"); slices.Contains(got, "") {
		t.Errorf("expected empty variants dropped, got %q", got)
	}
}

func TestMatchTracker_CollectsAllInOrder(t *testing.T) {
	records := []dtc.Record{{ID: "dtc-1", HexCode: "1A2B"}, {ID: "dtc-2", HexCode: "00FF"}}
	rows := []TrackerRow{
		{Ticket: "DTC-1", Summary: "0x1A2B overheat", Status: "Open", Created: sheet.NumberCell(44197)},
		{Ticket: "DTC-2", Summary: "unrelated 9999"},
		{Ticket: "DTC-3", Summary: "$1a2b again", Fix: "Patched"},
	}

	got := MatchTracker(records, rows, TrackerOptions{})
	entries := got[0].Tracker
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Link != "https://jira.kostal.com/browse/DTC-1" {
		t.Errorf("expected link for DTC-1, got %q", entries[0].Link)
	}
	if entries[0].CreationDate != "01.01.2021" {
		t.Errorf("expected date %q, got %q", "01.01.2021", entries[0].CreationDate)
	}
	if entries[0].Status != "Open" || entries[0].Description != "0x1A2B overheat" {
		t.Errorf("unexpected entry %+v", entries[0])
	}
	if entries[1].Link != "https://jira.kostal.com/browse/DTC-3" || entries[1].Fix != "Patched" {
		t.Errorf("unexpected entry %+v", entries[1])
	}
	if got[1].Tracker != nil {
		t.Errorf("expected no entries for 00FF, got %+v", got[1].Tracker)
	}
	if records[0].Tracker != nil {
		t.Error("input records were modified")
	}
}

func TestMatchTracker_LooseContainment(t *testing.T) {
	records := []dtc.Record{{ID: "dtc-1", HexCode: "1A"}}
	rows := []TrackerRow{{Ticket: "T-1", Summary: "C1A2"}}
	if got := MatchTracker(records, rows, TrackerOptions{Mode: MatchLoose}); len(got[0].Tracker) != 1 {
		t.Errorf("expected loose mode to match, got %d entries", len(got[0].Tracker))
	}
	// Reverse containment: the record hex contains the summary.
	rows = []TrackerRow{{Ticket: "T-2", Summary: "1"}}
	if got := MatchTracker(records, rows, TrackerOptions{}); len(got[0].Tracker) != 1 {
		t.Errorf("expected reverse containment to match, got %d entries", len(got[0].Tracker))
	}
}

func TestMatchTracker_Bounded(t *testing.T) {
	records := []dtc.Record{{ID: "dtc-1", HexCode: "1A"}}
	tests := []struct {
		summary string
		want    bool
	}{
		{"C1A2", false},
		{"1", false},
		{"1A", true},
		{"code 1A open", true},
		{"0x1A", true},
		{"$1A,", true},
		{"1AB 1A", true},
	}
	for _, tt := range tests {
		rows := []TrackerRow{{Ticket: "T", Summary: tt.summary}}
		got := MatchTracker(records, rows, TrackerOptions{Mode: MatchBounded})
		if matched := len(got[0].Tracker) == 1; matched != tt.want {
			t.Errorf("summary %q: expected matched=%v, got %v", tt.summary, tt.want, matched)
		}
	}
}

func TestMatchTracker_URLTemplateAndMissingTicket(t *testing.T) {
	records := []dtc.Record{{ID: "dtc-1", HexCode: "00FF"}}
	rows := []TrackerRow{{Ticket: "  ABC-9 ", Summary: "00FF"}, {Summary: "00FF"}}
	got := MatchTracker(records, rows, TrackerOptions{URLTemplate: "https://tracker.example/issue/{ticket}"})
	if len(got[0].Tracker) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got[0].Tracker))
	}
	if got[0].Tracker[0].Link != "https://tracker.example/issue/ABC-9" {
		t.Errorf("unexpected link %q", got[0].Tracker[0].Link)
	}
	if got[0].Tracker[1].Link != "" {
		t.Errorf("expected no link without a ticket, got %q", got[0].Tracker[1].Link)
	}
}

func TestParseMatchMode(t *testing.T) {
	for in, want := range map[string]MatchMode{"": MatchLoose, "loose": MatchLoose, " Bounded ": MatchBounded} {
		got, err := ParseMatchMode(in)
		if err != nil {
			t.Fatalf("ParseMatchMode(%q): unexpected error: %v", in, err)
		}
		if got != want {
			t.Errorf("ParseMatchMode(%q): expected %q, got %q", in, want, got)
		}
	}
	if _, err := ParseMatchMode("fuzzy"); err == nil {
		t.Error("expected error for unknown mode")
	}
}
