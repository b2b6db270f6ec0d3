package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/dtcscan/internal/dtc"
	"github.com/dgallion1/dtcscan/internal/enrich"
	"github.com/dgallion1/dtcscan/internal/parser"
	"github.com/dgallion1/dtcscan/internal/sheet"
)

// Stage names one step of an analysis run.
type Stage string

const (
	StageParsing           Stage = "parsing"
	StageExtracting        Stage = "extracting"
	StageMatchingReference Stage = "matching_reference"
	StageMatchingTracker   Stage = "matching_tracker"
	StageOrdering          Stage = "ordering"
)

// File is an uploaded or on-disk file held in memory.
type File struct {
	Filename string
	Data     []byte
}

// Input is one analysis run: a report plus optional datasets.
type Input struct {
	Report    File
	Reference *File
	Tracker   *File
}

// Options tunes an analysis run.
type Options struct {
	Parser  parser.Options
	Tracker enrich.TrackerOptions
	// TrackerSheet overrides the required tracker sheet name.
	TrackerSheet string
	// OnStage is called before each stage starts.
	OnStage func(Stage)
}

// EnrichError reports a failed enrichment stage. The run continues with
// unenriched records.
type EnrichError struct {
	Stage Stage
	Err   error
}

func (e *EnrichError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *EnrichError) Unwrap() error { return e.Err }

// Result is the outcome of an analysis run.
type Result struct {
	Title            string         `json:"title"`
	Path             dtc.Path       `json:"path"`
	Records          []dtc.Record   `json:"records"`
	ReferenceMatched int            `json:"reference_matched"`
	TrackerMatched   int            `json:"tracker_matched"`
	EnrichErrors     []*EnrichError `json:"-"`
	Duration         time.Duration  `json:"-"`
}

// Partial reports whether an enrichment stage failed.
func (r *Result) Partial() bool {
	return len(r.EnrichErrors) > 0
}

// Analyze loads the report, extracts its records, enriches them from the
// datasets that are present and orders the result. Only report failures
// are returned as errors; dataset failures land in Result.EnrichErrors.
// ctx is checked between stages.
func Analyze(ctx context.Context, in Input, opts Options, log *slog.Logger) (*Result, error) {
	if log == nil {
		log = slog.Default()
	}
	start := time.Now()
	enter := func(s Stage) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if opts.OnStage != nil {
			opts.OnStage(s)
		}
		return nil
	}

	if err := enter(StageParsing); err != nil {
		return nil, err
	}
	doc, err := parser.ParseFile(bytes.NewReader(in.Report.Data), in.Report.Filename, opts.Parser)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", in.Report.Filename, err)
	}

	if err := enter(StageExtracting); err != nil {
		return nil, err
	}
	records, path := dtc.Parse(doc.Text)
	log.Info("extracted records", "count", len(records), "path", path)

	res := &Result{Title: doc.Title, Path: path}

	if in.Reference != nil {
		if err := enter(StageMatchingReference); err != nil {
			return nil, err
		}
		rows, err := loadReference(*in.Reference)
		if err != nil {
			log.Warn("reference enrichment skipped", "file", in.Reference.Filename, "error", err)
			res.EnrichErrors = append(res.EnrichErrors, &EnrichError{Stage: StageMatchingReference, Err: err})
		} else {
			records = enrich.MatchReference(records, rows)
			res.ReferenceMatched = countMatched(records, func(r dtc.Record) bool { return r.Reference != nil })
			log.Info("reference matched", "rows", len(rows), "matched", res.ReferenceMatched)
		}
	}

	if in.Tracker != nil {
		if err := enter(StageMatchingTracker); err != nil {
			return nil, err
		}
		sheetName := opts.TrackerSheet
		if sheetName == "" {
			sheetName = enrich.TrackerSheet
		}
		rows, err := loadTracker(*in.Tracker, sheetName)
		if err != nil {
			log.Warn("tracker enrichment skipped", "file", in.Tracker.Filename, "error", err)
			res.EnrichErrors = append(res.EnrichErrors, &EnrichError{Stage: StageMatchingTracker, Err: err})
		} else {
			records = enrich.MatchTracker(records, rows, opts.Tracker)
			res.TrackerMatched = countMatched(records, func(r dtc.Record) bool { return len(r.Tracker) > 0 })
			log.Info("tracker matched", "rows", len(rows), "matched", res.TrackerMatched)
		}
	}

	if err := enter(StageOrdering); err != nil {
		return nil, err
	}
	res.Records = dtc.Order(records)
	res.Duration = time.Since(start)
	return res, nil
}

func loadReference(f File) ([]enrich.ReferenceRow, error) {
	wb, err := sheet.Open(bytes.NewReader(f.Data), f.Filename)
	if err != nil {
		return nil, err
	}
	defer wb.Close()
	rows, err := sheet.FirstSheet(wb)
	if err != nil {
		return nil, err
	}
	return enrich.ReferenceRowsFromCells(rows), nil
}

func loadTracker(f File, sheetName string) ([]enrich.TrackerRow, error) {
	wb, err := sheet.Open(bytes.NewReader(f.Data), f.Filename)
	if err != nil {
		return nil, err
	}
	defer wb.Close()
	rows, err := wb.Rows(sheetName)
	if err != nil {
		return nil, err
	}
	return enrich.TrackerRowsFromCells(rows), nil
}

func countMatched(records []dtc.Record, matched func(dtc.Record) bool) int {
	n := 0
	for _, r := range records {
		if matched(r) {
			n++
		}
	}
	return n
}
