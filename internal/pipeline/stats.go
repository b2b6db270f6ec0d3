package pipeline

import (
	"sort"
	"sync"
	"time"

	"github.com/dgallion1/dtcscan/internal/dtc"
)

type sample struct {
	timestamp  time.Time
	durationMs int64
	records    int
	path       dtc.Path
	partial    bool
	failed     bool
}

// StatsSnapshot is a point-in-time aggregate of recent analysis runs.
type StatsSnapshot struct {
	Runs     int `json:"runs"`
	Failed   int `json:"failed"`
	Partial  int `json:"partial"`
	Fallback int `json:"fallback"`
	Empty    int `json:"empty"`
	Records  int `json:"records"`

	MinMs int64   `json:"min_ms"`
	MaxMs int64   `json:"max_ms"`
	AvgMs float64 `json:"avg_ms"`
	P50Ms float64 `json:"p50_ms"`
	P95Ms float64 `json:"p95_ms"`
	P99Ms float64 `json:"p99_ms"`
}

// AnalysisStats tracks recent analysis runs within a rolling window.
type AnalysisStats struct {
	mu      sync.Mutex
	samples []sample
	maxAge  time.Duration
}

func NewAnalysisStats(maxAge time.Duration) *AnalysisStats {
	if maxAge <= 0 {
		maxAge = time.Hour
	}
	return &AnalysisStats{
		samples: make([]sample, 0, 256),
		maxAge:  maxAge,
	}
}

// Record adds a finished run. A nil result counts as a failure.
func (s *AnalysisStats) Record(duration time.Duration, res *Result) {
	sm := sample{durationMs: duration.Milliseconds(), failed: res == nil}
	if sm.durationMs < 0 {
		sm.durationMs = 0
	}
	if res != nil {
		sm.records = len(res.Records)
		sm.path = res.Path
		sm.partial = res.Partial()
	}
	now := time.Now()
	sm.timestamp = now

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(now)
	s.samples = append(s.samples, sm)
}

func (s *AnalysisStats) Snapshot() StatsSnapshot {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(now)
	if len(s.samples) == 0 {
		return StatsSnapshot{}
	}

	snap := StatsSnapshot{Runs: len(s.samples)}
	values := make([]int64, 0, len(s.samples))
	var sum int64
	for _, sm := range s.samples {
		values = append(values, sm.durationMs)
		sum += sm.durationMs
		snap.Records += sm.records
		switch {
		case sm.failed:
			snap.Failed++
		case sm.path == dtc.PathFallback:
			snap.Fallback++
		case sm.path == dtc.PathNone:
			snap.Empty++
		}
		if sm.partial {
			snap.Partial++
		}
	}
	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })

	snap.MinMs = values[0]
	snap.MaxMs = values[len(values)-1]
	snap.AvgMs = float64(sum) / float64(len(values))
	snap.P50Ms = percentile(values, 50)
	snap.P95Ms = percentile(values, 95)
	snap.P99Ms = percentile(values, 99)
	return snap
}

func (s *AnalysisStats) pruneLocked(now time.Time) {
	cutoff := now.Add(-s.maxAge)
	writeIdx := 0
	for _, sm := range s.samples {
		if !sm.timestamp.Before(cutoff) {
			s.samples[writeIdx] = sm
			writeIdx++
		}
	}
	s.samples = s.samples[:writeIdx]
}

func percentile(sortedValues []int64, pct float64) float64 {
	if len(sortedValues) == 0 {
		return 0
	}
	if pct <= 0 {
		return float64(sortedValues[0])
	}
	if pct >= 100 {
		return float64(sortedValues[len(sortedValues)-1])
	}

	index := (float64(len(sortedValues)-1) * pct) / 100.0
	lower := int(index)
	upper := lower + 1
	if upper >= len(sortedValues) {
		return float64(sortedValues[lower])
	}
	weight := index - float64(lower)
	lo := float64(sortedValues[lower])
	hi := float64(sortedValues[upper])
	return lo + ((hi - lo) * weight)
}
