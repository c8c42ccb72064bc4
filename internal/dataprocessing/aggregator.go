package dataprocessing

import (
	"context"
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"gradepulse/internal/errors"
	"gradepulse/pkg/contracts/domain"
)

// Aggregator computes summary statistics over a transformed dataset. All
// grouped outputs are ordered by key so repeated runs over the same data
// produce identical results.
type Aggregator struct {
	logger *slog.Logger
}

// NewAggregator creates a new aggregator.
func NewAggregator(logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{logger: logger}
}

// Aggregate summarizes a transformed dataset. Aggregation is all or
// nothing: a dataset without derived fields or without records yields an
// AnalysisUnavailableError rather than a partial result.
func (a *Aggregator) Aggregate(ctx context.Context, ds *domain.Dataset) (*domain.AggregateResult, error) {
	if ds == nil || !ds.Transformed {
		return nil, errors.NewAnalysisUnavailableError("dataset has no derived fields")
	}
	if ds.Len() == 0 {
		return nil, errors.NewAnalysisUnavailableError("dataset has no records")
	}
	if !ds.HasSubjects() {
		return nil, errors.NewAnalysisUnavailableError("dataset has no subject columns")
	}

	overall := make([]float64, 0, ds.Len())
	for i := range ds.Records {
		overall = append(overall, ds.Records[i].OverallAverage)
	}

	result := &domain.AggregateResult{
		TotalStudents: ds.Len(),
		AverageGrade:  round1(stat.Mean(overall, nil)),
		HighestGrade:  floats.Max(overall),
		LowestGrade:   floats.Min(overall),
	}

	result.SubjectAverages = a.subjectAverages(ds)
	result.GradeDistribution = a.gradeDistribution(ds)
	result.PerformanceByGradeLevel = groupedAverages(ds, func(r *domain.StudentRecord) string {
		return r.GradeLevel
	})
	result.GenderPerformance = groupedAverages(ds, func(r *domain.StudentRecord) string {
		return r.Gender
	})

	a.logger.InfoContext(ctx, "dataset aggregated",
		slog.Int("students", result.TotalStudents),
		slog.Float64("average_grade", result.AverageGrade))

	return result, nil
}

// subjectAverages returns per-subject means in canonical column order.
func (a *Aggregator) subjectAverages(ds *domain.Dataset) []domain.SubjectAverage {
	averages := make([]domain.SubjectAverage, 0, len(ds.Subjects))
	for _, subject := range ds.Subjects {
		scores := make([]float64, 0, ds.Len())
		for i := range ds.Records {
			if score, ok := ds.Records[i].Score(subject); ok {
				scores = append(scores, score)
			}
		}
		if len(scores) == 0 {
			continue
		}
		averages = append(averages, domain.SubjectAverage{
			Subject: subject,
			Average: round1(stat.Mean(scores, nil)),
		})
	}
	return averages
}

// gradeDistribution counts only letter grades that actually occur, ordered
// A through F.
func (a *Aggregator) gradeDistribution(ds *domain.Dataset) []domain.GradeCount {
	counts := make(map[string]int)
	for i := range ds.Records {
		counts[ds.Records[i].LetterGrade]++
	}
	ordered := []string{domain.GradeA, domain.GradeB, domain.GradeC, domain.GradeD, domain.GradeF}
	distribution := make([]domain.GradeCount, 0, len(counts))
	for _, grade := range ordered {
		if n, ok := counts[grade]; ok {
			distribution = append(distribution, domain.GradeCount{Grade: grade, Count: n})
		}
	}
	return distribution
}

// groupedAverages buckets overall averages by a key function and returns
// the per-group means sorted by key.
func groupedAverages(ds *domain.Dataset, key func(*domain.StudentRecord) string) []domain.GroupAverage {
	groups := make(map[string][]float64)
	for i := range ds.Records {
		k := key(&ds.Records[i])
		if k == "" {
			// Records without the grouping value contribute nothing; a
			// dataset without the column yields no groups at all.
			continue
		}
		groups[k] = append(groups[k], ds.Records[i].OverallAverage)
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	averages := make([]domain.GroupAverage, 0, len(keys))
	for _, k := range keys {
		averages = append(averages, domain.GroupAverage{
			Key:     k,
			Average: round1(stat.Mean(groups[k], nil)),
		})
	}
	return averages
}
