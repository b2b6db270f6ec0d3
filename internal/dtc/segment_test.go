package dtc

import (
	"strings"
	"testing"
)

func TestSegment_NoStartMarker(t *testing.T) {
	sections := Segment("DTC_MASK $FF/FF E10300 ($1A2B/6699) DTC text: Sensor fault DTC_MASK")
	if len(sections) != 0 {
		t.Fatalf("expected 0 sections without start marker, got %d", len(sections))
	}
}

func TestSegment_SplitsOnBoundaryAndKeepsTerminator(t *testing.T) {
	text := "Header noise Primary results (2): DTC_MASK $FF/FF E10300 ($1A2B/6699) DTC text: Sensor fault " +
		"DTC_MASK $FF/FF U0100 ($C100/49408) DTC text: Lost communication"
	sections := Segment(text)
	if len(sections) != 2 {
		t.Fatalf("expected 2 sections, got %d: %q", len(sections), sections)
	}
	if !strings.HasSuffix(sections[0], Boundary) {
		t.Errorf("expected first section to end with %q, got %q", Boundary, sections[0])
	}
	if strings.Contains(sections[0], "Header noise") {
		t.Errorf("expected text before the start marker to be discarded, got %q", sections[0])
	}
	if strings.HasSuffix(sections[1], Boundary) {
		t.Errorf("expected last section to run to the end of text, got %q", sections[1])
	}
	if !strings.Contains(sections[1], "U0100") {
		t.Errorf("expected second section to hold U0100, got %q", sections[1])
	}
}

func TestSegment_FirstRecordWithoutLeadingBoundary(t *testing.T) {
	text := "Primary events (2): E10300 ($1A2B/6699) DTC text: Sensor fault DTC_MASK $FF/FF U0100 ($C100/49408) DTC text: Lost"
	sections := Segment(text)
	if len(sections) != 2 {
		t.Fatalf("expected 2 sections, got %d: %q", len(sections), sections)
	}
	if !strings.HasPrefix(strings.TrimSpace(sections[0]), "E10300") {
		t.Errorf("expected first section to start with the first record, got %q", sections[0])
	}
}

func TestSegment_RemovesInformationNoise(t *testing.T) {
	text := "Primary results (1): E10300 ($1A2B/6699) DTC text: Sensor + Information (12): fault DTC_MASK"
	sections := Segment(text)
	if len(sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(sections))
	}
	if strings.Contains(sections[0], "Information") {
		t.Errorf("expected noise heading to be removed, got %q", sections[0])
	}
	if strings.Contains(sections[0], "+") {
		t.Errorf("expected leading plus sign to be removed, got %q", sections[0])
	}
}

func TestSegment_NoiseIsNotABoundary(t *testing.T) {
	text := "Primary results (1): E10300 ($1A2B/6699) DTC text: a Information (1): b Information (2): c"
	sections := Segment(text)
	if len(sections) != 1 {
		t.Fatalf("expected noise headings to leave a single section, got %d", len(sections))
	}
}

func TestSegment_NoBoundaryIsOneSection(t *testing.T) {
	text := "Primary results (1): E10300 ($1A2B/6699) DTC text: Sensor fault"
	sections := Segment(text)
	if len(sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(sections))
	}
	if strings.TrimSpace(sections[0]) != "E10300 ($1A2B/6699) DTC text: Sensor fault" {
		t.Errorf("unexpected section %q", sections[0])
	}
}

func TestSegment_DropsShortSections(t *testing.T) {
	text := "Primary results (1): DTC_MASK DTC_MASK E10300 ($1A2B/6699) DTC text: x DTC_MASK  "
	sections := Segment(text)
	for _, s := range sections {
		if len(strings.TrimSpace(s)) < minSectionLen {
			t.Errorf("expected short section to be dropped, got %q", s)
		}
	}
	if len(sections) != 1 {
		t.Fatalf("expected 1 surviving section, got %d: %q", len(sections), sections)
	}
}

func TestSegment_SectionCountBound(t *testing.T) {
	record := "E10300 ($1A2B/6699) DTC text: Sensor fault "
	for n := 0; n <= 6; n++ {
		var b strings.Builder
		b.WriteString("Primary results (9): ")
		for i := 0; i < n; i++ {
			b.WriteString(record)
			b.WriteString("DTC_MASK $FF/FF ")
		}
		b.WriteString(record)
		got := len(Segment(b.String()))
		if got > n+1 {
			t.Errorf("n=%d boundaries: expected at most %d sections, got %d", n, n+1, got)
		}
		if got != n+1 {
			t.Errorf("n=%d boundaries with full records: expected %d sections, got %d", n, n+1, got)
		}
	}
}
