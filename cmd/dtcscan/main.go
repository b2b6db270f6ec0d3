package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/dgallion1/dtcscan/internal/config"
	"github.com/dgallion1/dtcscan/internal/enrich"
	"github.com/dgallion1/dtcscan/internal/parser"
	"github.com/dgallion1/dtcscan/internal/pipeline"
	"github.com/dgallion1/dtcscan/internal/render"
	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "dtcscan",
		Short: "Extract diagnostic trouble codes from workshop reports",
		Long: `dtcscan reads a vehicle diagnostic report (HTML, text, Markdown, PDF or DOCX),
extracts its trouble code records and optionally enriches them from a DTC
reference workbook and an issue-tracker export.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(analyzeCmd())
	rootCmd.AddCommand(versionCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "dtcscan %s\n", version)
		},
	}
}

type analyzeOptions struct {
	report     string
	reference  string
	tracker    string
	format     string
	output     string
	configPath string
	match      string
	verbose    bool
}

func analyzeCmd() *cobra.Command {
	var opts analyzeOptions
	cmd := &cobra.Command{
		Use:   "analyze REPORT",
		Short: "Extract and enrich the trouble codes of a report",
		Long: `Extract the trouble code records of REPORT and print them.

Datasets may be .xlsx, .xlsm or .csv. The tracker export must contain a sheet
named "Exporter" (a CSV tracker export must be named Exporter.csv).

Example:
  dtcscan analyze report.html
  dtcscan analyze report.html --reference dtc_list.xlsx --tracker jira.xlsx --format csv --output out.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.report = args[0]
			level := slog.LevelWarn
			if opts.verbose {
				level = slog.LevelDebug
			}
			log := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			return runAnalyze(cmd.Context(), opts, cmd.OutOrStdout(), log)
		},
	}

	cmd.Flags().StringVarP(&opts.reference, "reference", "r", "", "DTC reference workbook")
	cmd.Flags().StringVarP(&opts.tracker, "tracker", "t", "", "issue-tracker export")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: json, csv, markdown, html (default from --output extension, else json)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write to file instead of stdout")
	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "YAML config file (default $"+config.FileEnv+")")
	cmd.Flags().StringVar(&opts.match, "match", "", "tracker match mode: loose or bounded (overrides config)")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "log each stage")
	return cmd
}

func runAnalyze(ctx context.Context, opts analyzeOptions, stdout io.Writer, log *slog.Logger) error {
	cfg, err := config.Resolve(opts.configPath)
	if err != nil {
		return err
	}
	if opts.match != "" {
		cfg.TrackerMatch = opts.match
	}
	if err := cfg.ValidateTracker(); err != nil {
		return err
	}
	mode, err := enrich.ParseMatchMode(cfg.TrackerMatch)
	if err != nil {
		return err
	}

	format, err := outputFormat(opts.format, opts.output)
	if err != nil {
		return err
	}

	in, err := readInput(opts, log)
	if err != nil {
		return err
	}

	res, err := pipeline.Analyze(ctx, in, pipeline.Options{
		Parser:       parser.Options{PDFFallbackPdftotext: cfg.PDFFallbackPdftotext},
		Tracker:      enrich.TrackerOptions{URLTemplate: cfg.TrackerURLTemplate, Mode: mode},
		TrackerSheet: cfg.TrackerSheet,
		OnStage: func(s pipeline.Stage) {
			log.Debug("stage", "stage", s)
		},
	}, log)
	if err != nil {
		return err
	}
	for _, e := range res.EnrichErrors {
		log.Warn("continuing without enrichment", "stage", e.Stage, "error", e.Err)
	}

	var buf bytes.Buffer
	if err := render.Write(&buf, format, res.Title, res.Records); err != nil {
		return fmt.Errorf("render %s: %w", format, err)
	}

	if opts.output == "" {
		_, err := stdout.Write(buf.Bytes())
		return err
	}
	if err := atomic.WriteFile(opts.output, &buf); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}
	log.Info("wrote records", "file", opts.output, "records", len(res.Records), "format", format)
	return nil
}

// outputFormat picks the explicit format, else one implied by the output
// file extension, else JSON.
func outputFormat(explicit, output string) (render.Format, error) {
	if explicit != "" {
		return render.ParseFormat(explicit)
	}
	switch strings.ToLower(filepath.Ext(output)) {
	case ".csv":
		return render.FormatCSV, nil
	case ".md", ".markdown":
		return render.FormatMarkdown, nil
	case ".html", ".htm":
		return render.FormatHTML, nil
	}
	return render.FormatJSON, nil
}

// readInput reads the report and the datasets. An unreadable dataset is
// logged and left out so the run continues without that enrichment.
func readInput(opts analyzeOptions, log *slog.Logger) (pipeline.Input, error) {
	report, err := readFile(opts.report)
	if err != nil {
		return pipeline.Input{}, err
	}
	in := pipeline.Input{Report: *report}
	in.Reference = readDataset(opts.reference, "reference", log)
	in.Tracker = readDataset(opts.tracker, "tracker", log)
	return in, nil
}

func readDataset(path, kind string, log *slog.Logger) *pipeline.File {
	if path == "" {
		return nil
	}
	f, err := readFile(path)
	if err != nil {
		log.Warn("continuing without enrichment", "dataset", kind, "error", err)
		return nil
	}
	return f
}

func readFile(path string) (*pipeline.File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return &pipeline.File{Filename: filepath.Base(path), Data: data}, nil
}
