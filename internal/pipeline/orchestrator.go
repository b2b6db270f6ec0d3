package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/dtcscan/internal/config"
	"github.com/dgallion1/dtcscan/internal/enrich"
	"github.com/dgallion1/dtcscan/internal/parser"
)

// Orchestrator runs analysis jobs on a bounded worker pool.
type Orchestrator struct {
	jobs  *JobStore
	queue chan *Job
	stats *AnalysisStats
	log   *slog.Logger
	cfg   config.Config
	opts  Options

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewOrchestrator builds the pipeline from cfg. Call Start to run workers.
func NewOrchestrator(cfg config.Config, log *slog.Logger) (*Orchestrator, error) {
	mode, err := enrich.ParseMatchMode(cfg.TrackerMatch)
	if err != nil {
		return nil, err
	}
	o := &Orchestrator{
		jobs:  NewJobStore(cfg.JobTTL),
		queue: make(chan *Job, cfg.MaxQueueSize),
		stats: NewAnalysisStats(cfg.JobTTL),
		log:   log,
		cfg:   cfg,
		opts: Options{
			Parser:       parser.Options{PDFFallbackPdftotext: cfg.PDFFallbackPdftotext},
			Tracker:      enrich.TrackerOptions{URLTemplate: cfg.TrackerURLTemplate, Mode: mode},
			TrackerSheet: cfg.TrackerSheet,
		},
	}
	return o, nil
}

// Start launches worker goroutines.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for range o.cfg.WorkerCount {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			w := NewWorker(o.opts, o.stats, o.log)
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-o.queue:
					if !ok {
						return
					}
					w.Process(workerCtx, job)
				}
			}
		}()
	}

	// Start job store cleanup.
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				o.jobs.Cleanup()
			}
		}
	}()
}

// Stop gracefully shuts down the pipeline.
func (o *Orchestrator) Stop() {
	if o.cancel != nil {
		o.cancel()
	}
	close(o.queue)
	o.wg.Wait()
}

// Submit queues a new job for processing.
func (o *Orchestrator) Submit(job *Job) error {
	o.jobs.Put(job)
	select {
	case o.queue <- job:
		return nil
	default:
		job.AddError("queue full")
		job.SetStatus(StatusFailed, "queue_full")
		return fmt.Errorf("job queue is full (%d)", o.cfg.MaxQueueSize)
	}
}

// GetJob returns a job by ID.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

// JobCount returns the number of jobs still held in the store.
func (o *Orchestrator) JobCount() int {
	return o.jobs.Len()
}

// Stats returns the rolling run statistics.
func (o *Orchestrator) Stats() *AnalysisStats {
	return o.stats
}
