package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// Worker runs analysis jobs.
type Worker struct {
	opts  Options
	stats *AnalysisStats
	log   *slog.Logger
}

func NewWorker(opts Options, stats *AnalysisStats, log *slog.Logger) *Worker {
	return &Worker{opts: opts, stats: stats, log: log}
}

// Process runs the analysis for a job and records its outcome.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename)
	start := time.Now()

	opts := w.opts
	opts.OnStage = func(s Stage) {
		job.SetStatus(JobStatus(s), string(s))
	}

	res, err := Analyze(ctx, job.Input(), opts, log)
	job.releaseInput()
	if w.stats != nil {
		w.stats.Record(time.Since(start), res)
	}

	if err != nil {
		if errors.Is(err, context.Canceled) {
			log.Warn("analysis canceled")
		} else {
			log.Error("analysis failed", "error", err)
		}
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, job.Snapshot().Phase)
		return
	}

	job.SetResult(res)
	for _, e := range res.EnrichErrors {
		job.AddError(e.Error())
	}

	log.Info("analysis complete",
		"records", len(res.Records),
		"path", res.Path,
		"reference_matched", res.ReferenceMatched,
		"tracker_matched", res.TrackerMatched,
		"duration_ms", res.Duration.Milliseconds(),
	)

	if res.Partial() {
		job.SetStatus(StatusPartial, "done")
	} else {
		job.SetStatus(StatusCompleted, "done")
	}
}
