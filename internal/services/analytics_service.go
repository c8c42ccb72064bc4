package services

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"gradepulse/internal/chart"
	"gradepulse/internal/errors"
	"gradepulse/pkg/contracts/domain"
)

// StudentFilter selects students by exact field values. Empty fields match
// everything; set fields must all match. Matching is case-insensitive.
type StudentFilter struct {
	GradeLevel  string
	LetterGrade string
	Performance string
}

// Matches reports whether a record passes every set filter field.
func (f StudentFilter) Matches(r *domain.StudentRecord) bool {
	if f.GradeLevel != "" && !strings.EqualFold(f.GradeLevel, r.GradeLevel) {
		return false
	}
	if f.LetterGrade != "" && !strings.EqualFold(f.LetterGrade, r.LetterGrade) {
		return false
	}
	if f.Performance != "" && !strings.EqualFold(f.Performance, r.Performance) {
		return false
	}
	return true
}

// snapshot is one immutable analysis state. Readers get the snapshot
// pointer under the lock and then read it freely.
type snapshot struct {
	dataset     *domain.Dataset
	summary     *domain.AggregateResult
	charts      []chart.Chart
	runID       string
	refreshedAt time.Time
}

// AnalyticsService owns the current analysis snapshot and refreshes it by
// re-running the pipeline. Reads never block a running refresh: they see
// the previous snapshot until the new one is swapped in.
type AnalyticsService struct {
	logger   *slog.Logger
	pipeline *Pipeline

	mu   sync.RWMutex
	snap *snapshot

	refreshMu sync.Mutex // serializes concurrent Refresh calls
}

// NewAnalyticsService creates the service. No snapshot exists until the
// first Refresh succeeds.
func NewAnalyticsService(pipeline *Pipeline, logger *slog.Logger) *AnalyticsService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalyticsService{logger: logger, pipeline: pipeline}
}

// Refresh runs the pipeline and swaps in the new snapshot. A failed run
// leaves the previous snapshot untouched. Concurrent calls run one at a
// time.
func (s *AnalyticsService) Refresh(ctx context.Context) (*PipelineResult, error) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	result, err := s.pipeline.Run(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "refresh failed", slog.String("error", err.Error()))
		return nil, err
	}

	next := &snapshot{
		dataset:     result.Dataset,
		summary:     result.Summary,
		charts:      chart.BuildCharts(result.Summary, result.Dataset),
		runID:       result.RunID,
		refreshedAt: time.Now(),
	}

	s.mu.Lock()
	s.snap = next
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "analysis snapshot refreshed",
		slog.String("run_id", result.RunID),
		slog.Int("students", result.Summary.TotalStudents))

	return result, nil
}

// current returns the active snapshot or an analysis-unavailable error
// when no run has succeeded yet.
func (s *AnalyticsService) current() (*snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snap == nil {
		return nil, errors.NewAnalysisUnavailableError("no analysis has completed yet")
	}
	return s.snap, nil
}

// Summary returns the aggregate statistics of the current snapshot.
func (s *AnalyticsService) Summary() (*domain.AggregateResult, error) {
	snap, err := s.current()
	if err != nil {
		return nil, err
	}
	return snap.summary, nil
}

// Students returns the transformed records passing the filter, in dataset
// order.
func (s *AnalyticsService) Students(filter StudentFilter) ([]domain.StudentRecord, error) {
	snap, err := s.current()
	if err != nil {
		return nil, err
	}

	matched := make([]domain.StudentRecord, 0, snap.dataset.Len())
	for i := range snap.dataset.Records {
		if filter.Matches(&snap.dataset.Records[i]) {
			matched = append(matched, snap.dataset.Records[i])
		}
	}
	return matched, nil
}

// TopPerformers returns the n students with the highest overall average,
// best first. Ties keep dataset order so the result is stable.
func (s *AnalyticsService) TopPerformers(n int) ([]domain.StudentRecord, error) {
	snap, err := s.current()
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		n = 10
	}

	ranked := make([]domain.StudentRecord, snap.dataset.Len())
	copy(ranked, snap.dataset.Records)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].OverallAverage > ranked[j].OverallAverage
	})

	if n > len(ranked) {
		n = len(ranked)
	}
	return ranked[:n], nil
}

// Charts returns every chart of the current snapshot.
func (s *AnalyticsService) Charts() ([]chart.Chart, error) {
	snap, err := s.current()
	if err != nil {
		return nil, err
	}
	return snap.charts, nil
}

// Chart returns one chart by name.
func (s *AnalyticsService) Chart(name string) (chart.Chart, error) {
	snap, err := s.current()
	if err != nil {
		return chart.Chart{}, err
	}
	for _, c := range snap.charts {
		if c.Name == name {
			return c, nil
		}
	}
	return chart.Chart{}, errors.NewAppError(errors.ErrTypeNotFound, "unknown chart: "+name, nil).
		WithContext("chart", name)
}

// Status describes the current snapshot for health and dashboard headers.
type Status struct {
	Ready       bool      `json:"ready"`
	RunID       string    `json:"run_id,omitempty"`
	RefreshedAt time.Time `json:"refreshed_at,omitempty"`
	Students    int       `json:"students"`
}

// Status reports whether a snapshot exists and when it was produced.
func (s *AnalyticsService) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snap == nil {
		return Status{}
	}
	return Status{
		Ready:       true,
		RunID:       s.snap.runID,
		RefreshedAt: s.snap.refreshedAt,
		Students:    s.snap.summary.TotalStudents,
	}
}
