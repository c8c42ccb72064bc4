package dataprocessing

import (
	"context"
	"log/slog"

	"gonum.org/v1/gonum/stat"

	"gradepulse/internal/errors"
	"gradepulse/pkg/contracts/domain"
)

// scoreBand maps a lower-inclusive threshold to a label. Bands are
// evaluated highest threshold first; the final band has threshold 0 and
// therefore always matches.
type scoreBand struct {
	threshold float64
	label     string
}

var letterBands = []scoreBand{
	{90, domain.GradeA},
	{80, domain.GradeB},
	{70, domain.GradeC},
	{60, domain.GradeD},
	{0, domain.GradeF},
}

var performanceBands = []scoreBand{
	{85, domain.PerformanceExcellent},
	{75, domain.PerformanceGood},
	{65, domain.PerformanceAverage},
	{0, domain.PerformanceNeedsImprovement},
}

func bandFor(score float64, bands []scoreBand) string {
	for _, b := range bands {
		if score >= b.threshold {
			return b.label
		}
	}
	return bands[len(bands)-1].label
}

// LetterGradeFor returns the letter grade for an average score.
func LetterGradeFor(average float64) string {
	return bandFor(average, letterBands)
}

// PerformanceFor returns the performance category for an average score.
func PerformanceFor(average float64) string {
	return bandFor(average, performanceBands)
}

// Transformer derives per-student analytics columns: overall average,
// letter grade, performance category, and best/worst subject.
type Transformer struct {
	logger *slog.Logger
}

// NewTransformer creates a new transformer.
func NewTransformer(logger *slog.Logger) *Transformer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Transformer{logger: logger}
}

// Transform returns a new dataset in which every record carries its derived
// fields. Inputs are expected to be cleaned, so every record has a score
// for every subject column. Running Transform on an already transformed
// dataset recomputes the same values. A dataset with no subject columns
// yields an EmptySchemaError.
func (t *Transformer) Transform(ctx context.Context, cleaned *domain.Dataset) (*domain.Dataset, error) {
	if !cleaned.HasSubjects() {
		return nil, errors.NewEmptySchemaError("transform")
	}

	ds := cleaned.Clone()

	for i := range ds.Records {
		record := &ds.Records[i]
		scores := make([]float64, 0, len(ds.Subjects))
		best, worst := "", ""
		var bestScore, worstScore float64
		for _, subject := range ds.Subjects {
			score, ok := record.Score(subject)
			if !ok {
				// A missing score after cleaning means the record never
				// passed through Clean; treat the column as 0 rather than
				// failing the whole run.
				t.logger.WarnContext(ctx, "missing score in transform",
					slog.String("student_id", record.StudentID),
					slog.String("subject", subject))
			}
			scores = append(scores, score)
			// Ties keep the earlier subject in canonical column order.
			if best == "" || score > bestScore {
				best, bestScore = subject, score
			}
			if worst == "" || score < worstScore {
				worst, worstScore = subject, score
			}
		}

		record.OverallAverage = round1(stat.Mean(scores, nil))
		record.LetterGrade = LetterGradeFor(record.OverallAverage)
		record.Performance = PerformanceFor(record.OverallAverage)
		record.BestSubject = best
		record.WorstSubject = worst
	}

	ds.Transformed = true

	t.logger.InfoContext(ctx, "dataset transformed",
		slog.Int("records", ds.Len()),
		slog.Int("subjects", len(ds.Subjects)))

	return ds, nil
}
