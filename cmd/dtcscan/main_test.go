package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dgallion1/dtcscan/internal/render"
)

const report = "Primary results (1): DTC_MASK $FF/FF E10300 ($1A2B/6699) DTC text: Sensor fault Priority 5 DTC_MASK"

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunAnalyze_Stdout(t *testing.T) {
	t.Setenv("DTCSCAN_CONFIG", "")
	dir := t.TempDir()
	opts := analyzeOptions{
		report:  writeFile(t, dir, "report.txt", report),
		tracker: writeFile(t, dir, "Exporter.csv", "Created,Key,x,Summary\n44197,DTC-9,,1A2B\n"),
	}

	var out bytes.Buffer
	if err := runAnalyze(context.Background(), opts, &out, quietLogger()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var records []map[string]any
	if err := json.Unmarshal(out.Bytes(), &records); err != nil {
		t.Fatalf("invalid json %q: %v", out.String(), err)
	}
	if len(records) != 1 || records[0]["hex_code"] != "1A2B" || records[0]["priority"] != "5" {
		t.Fatalf("unexpected records %v", records)
	}
	if _, ok := records[0]["tracker"]; !ok {
		t.Error("expected tracker entries")
	}
}

func TestRunAnalyze_OutputFile(t *testing.T) {
	t.Setenv("DTCSCAN_CONFIG", "")
	dir := t.TempDir()
	output := filepath.Join(dir, "out.csv")
	opts := analyzeOptions{report: writeFile(t, dir, "report.txt", report), output: output}

	var out bytes.Buffer
	if err := runAnalyze(context.Background(), opts, &out, quietLogger()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("expected nothing on stdout, got %q", out.String())
	}
	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "id,symbolic_code") || !strings.Contains(string(data), "E10300") {
		t.Errorf("unexpected csv %q", data)
	}
}

func TestRunAnalyze_Errors(t *testing.T) {
	t.Setenv("DTCSCAN_CONFIG", "")
	dir := t.TempDir()
	rep := writeFile(t, dir, "report.txt", report)

	tests := []struct {
		name string
		opts analyzeOptions
	}{
		{"missing report", analyzeOptions{report: filepath.Join(dir, "nope.txt")}},
		{"unsupported report", analyzeOptions{report: writeFile(t, dir, "r.rtf", "x")}},
		{"bad match mode", analyzeOptions{report: rep, match: "fuzzy"}},
		{"bad format", analyzeOptions{report: rep, format: "pdf"}},
		{"missing config", analyzeOptions{report: rep, configPath: filepath.Join(dir, "none.yaml")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := runAnalyze(context.Background(), tt.opts, io.Discard, quietLogger()); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestRunAnalyze_TrackerSheetMissingIsNotFatal(t *testing.T) {
	t.Setenv("DTCSCAN_CONFIG", "")
	dir := t.TempDir()
	var logs bytes.Buffer
	opts := analyzeOptions{
		report:  writeFile(t, dir, "report.txt", report),
		tracker: writeFile(t, dir, "jira.csv", "a,b\n"),
	}
	log := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelWarn}))
	if err := runAnalyze(context.Background(), opts, io.Discard, log); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(logs.String(), "continuing without enrichment") {
		t.Errorf("expected warning, got %q", logs.String())
	}
}

func TestRunAnalyze_UnreadableDatasetsAreNotFatal(t *testing.T) {
	t.Setenv("DTCSCAN_CONFIG", "")
	dir := t.TempDir()
	var logs bytes.Buffer
	opts := analyzeOptions{
		report:    writeFile(t, dir, "report.txt", report),
		reference: filepath.Join(dir, "missing.xlsx"),
		tracker:   filepath.Join(dir, "Exporter.xlsx"),
	}
	log := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelWarn}))

	var out bytes.Buffer
	if err := runAnalyze(context.Background(), opts, &out, log); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var records []map[string]any
	if err := json.Unmarshal(out.Bytes(), &records); err != nil {
		t.Fatalf("invalid json %q: %v", out.String(), err)
	}
	if len(records) != 1 || records[0]["hex_code"] != "1A2B" {
		t.Fatalf("unexpected records %v", records)
	}
	if _, ok := records[0]["tracker"]; ok {
		t.Error("expected no tracker entries")
	}
	if got := strings.Count(logs.String(), "continuing without enrichment"); got != 2 {
		t.Errorf("expected 2 warnings, got %d in %q", got, logs.String())
	}
}

func TestOutputFormat(t *testing.T) {
	tests := []struct {
		explicit, output string
		want             render.Format
	}{
		{"", "", render.FormatJSON},
		{"", "out.CSV", render.FormatCSV},
		{"", "out.md", render.FormatMarkdown},
		{"", "out.html", render.FormatHTML},
		{"json", "out.csv", render.FormatJSON},
	}
	for _, tt := range tests {
		got, err := outputFormat(tt.explicit, tt.output)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != tt.want {
			t.Errorf("outputFormat(%q, %q): expected %q, got %q", tt.explicit, tt.output, tt.want, got)
		}
	}
}

func TestVersionCmd(t *testing.T) {
	cmd := versionCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(nil)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "dtcscan "+version) {
		t.Errorf("unexpected output %q", out.String())
	}
}
