package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/dgallion1/dtcscan/internal/dtc"
)

// JobStatus represents the state of an analysis job.
type JobStatus string

const (
	StatusQueued            JobStatus = "queued"
	StatusParsing           JobStatus = "parsing"
	StatusExtracting        JobStatus = "extracting"
	StatusMatchingReference JobStatus = "matching_reference"
	StatusMatchingTracker   JobStatus = "matching_tracker"
	StatusOrdering          JobStatus = "ordering"
	StatusCompleted         JobStatus = "completed"
	StatusFailed            JobStatus = "failed"
	StatusPartial           JobStatus = "partial"
)

// Done reports whether the status is terminal.
func (s JobStatus) Done() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusPartial
}

// Job tracks the state of a single report analysis.
type Job struct {
	mu sync.Mutex

	ID      string `json:"job_id"`
	BatchID string `json:"batch_id,omitempty"`

	Status   JobStatus `json:"status"`
	Phase    string    `json:"phase"`
	Filename string    `json:"filename"`
	Title    string    `json:"title"`

	Progress Progress `json:"progress"`

	ContentHash string    `json:"content_hash,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Internal: not serialized.
	input   Input
	records []dtc.Record
	errors  []string
}

// Progress summarizes what a job has produced so far.
type Progress struct {
	Path             dtc.Path `json:"path,omitempty"`
	Records          int      `json:"records"`
	Complete         int      `json:"complete"`
	ReferenceMatched int      `json:"reference_matched"`
	TrackerMatched   int      `json:"tracker_matched"`
	Errors           []string `json:"errors"`
}

// NewJob creates a queued job for in.
func NewJob(in Input) *Job {
	now := time.Now()
	return &Job{
		ID:          NewJobID(),
		Status:      StatusQueued,
		Phase:       "queued",
		Filename:    in.Report.Filename,
		ContentHash: ContentHashHex(in.Report.Data),
		CreatedAt:   now,
		UpdatedAt:   now,
		input:       in,
	}
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Len returns the number of tracked jobs.
func (s *JobStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		if now.Sub(job.updatedAt()) > s.ttl {
			delete(s.jobs, id)
		}
	}
}

func (j *Job) updatedAt() time.Time {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.UpdatedAt
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// SetResult stores the records of a finished run and its counters.
func (j *Job) SetResult(res *Result) {
	complete := 0
	for _, r := range res.Records {
		if r.Complete() {
			complete++
		}
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	j.records = res.Records
	j.Title = res.Title
	j.Progress.Path = res.Path
	j.Progress.Records = len(res.Records)
	j.Progress.Complete = complete
	j.Progress.ReferenceMatched = res.ReferenceMatched
	j.Progress.TrackerMatched = res.TrackerMatched
	j.UpdatedAt = time.Now()
}

// Records returns the job's records, nil until the job has finished.
func (j *Job) Records() []dtc.Record {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.records
}

// Input returns the files the job analyzes.
func (j *Job) Input() Input {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.input
}

// releaseInput drops the uploaded bytes once they are no longer needed.
func (j *Job) releaseInput() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.input = Input{Report: File{Filename: j.input.Report.Filename}}
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID          string    `json:"job_id"`
	BatchID     string    `json:"batch_id,omitempty"`
	Status      JobStatus `json:"status"`
	Phase       string    `json:"phase"`
	Filename    string    `json:"filename"`
	Title       string    `json:"title"`
	ContentHash string    `json:"content_hash,omitempty"`
	Progress    Progress  `json:"progress"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	progress := j.Progress
	progress.Errors = append([]string{}, j.Progress.Errors...)
	return JobSnapshot{
		ID:          j.ID,
		BatchID:     j.BatchID,
		Status:      j.Status,
		Phase:       j.Phase,
		Filename:    j.Filename,
		Title:       j.Title,
		ContentHash: j.ContentHash,
		Progress:    progress,
		CreatedAt:   j.CreatedAt,
		UpdatedAt:   j.UpdatedAt,
	}
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
