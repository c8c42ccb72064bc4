package dataprocessing

import (
	"context"
	"log/slog"
	"math"
	"strings"

	"gonum.org/v1/gonum/stat"

	"gradepulse/internal/errors"
	"gradepulse/pkg/contracts/domain"
)

// round1 rounds to one decimal place. Means are only ever rounded at the
// point they are written into a record or result, never mid-computation.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Cleaner normalizes text fields and imputes missing subject scores with
// the column mean. It never mutates its input dataset.
type Cleaner struct {
	logger *slog.Logger
}

// NewCleaner creates a new cleaner.
func NewCleaner(logger *slog.Logger) *Cleaner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cleaner{logger: logger}
}

// Clean returns a new dataset with trimmed text columns, canonical
// lowercase grade levels, and every missing subject score filled with that
// column's mean (computed once from the raw distribution, then rounded to
// one decimal). A dataset with zero subject columns cannot be analyzed and
// yields a MissingSchemaError.
func (c *Cleaner) Clean(ctx context.Context, raw *domain.Dataset) (*domain.Dataset, error) {
	if !raw.HasSubjects() {
		return nil, errors.NewMissingSchemaError("clean", domain.KnownSubjects)
	}

	ds := raw.Clone()

	for i := range ds.Records {
		record := &ds.Records[i]
		record.Name = strings.TrimSpace(record.Name)
		record.Gender = strings.TrimSpace(record.Gender)
		record.GradeLevel = normalizeGradeLevel(record.GradeLevel)
	}

	// Column means come from the raw distribution in a single pass; fills
	// never feed back into the mean.
	fillValues := make(map[string]float64, len(ds.Subjects))
	var emptyColumns []string
	for _, subject := range ds.Subjects {
		var present []float64
		for i := range ds.Records {
			if score, ok := ds.Records[i].Score(subject); ok {
				present = append(present, score)
			}
		}
		if len(present) == 0 {
			// No record carries this subject; it is excluded from the
			// analysis entirely, like a column absent from the file.
			emptyColumns = append(emptyColumns, subject)
			continue
		}
		fillValues[subject] = round1(stat.Mean(present, nil))
	}

	if len(emptyColumns) > 0 {
		c.logger.WarnContext(ctx, "excluding subject columns with no values",
			slog.Any("subjects", emptyColumns))
		ds.Subjects = withoutSubjects(ds.Subjects, emptyColumns)
		if !ds.HasSubjects() {
			return nil, errors.NewMissingSchemaError("clean", domain.KnownSubjects)
		}
	}

	filled := 0
	for i := range ds.Records {
		record := &ds.Records[i]
		for _, subject := range ds.Subjects {
			if score, ok := record.Score(subject); ok {
				record.Scores[subject] = round1(score)
				continue
			}
			record.Scores[subject] = fillValues[subject]
			filled++
		}
	}

	c.logger.InfoContext(ctx, "dataset cleaned",
		slog.Int("records", ds.Len()),
		slog.Int("filled_scores", filled),
		slog.Int("subjects", len(ds.Subjects)))

	return ds, nil
}

// normalizeGradeLevel collapses any casing of a grade level to its
// canonical lowercase form ("10TH" and "10th" become "10th").
func normalizeGradeLevel(level string) string {
	return strings.ToLower(strings.TrimSpace(level))
}

// withoutSubjects filters excluded subjects out of an ordered subject list.
func withoutSubjects(subjects, excluded []string) []string {
	skip := make(map[string]bool, len(excluded))
	for _, s := range excluded {
		skip[s] = true
	}
	var out []string
	for _, s := range subjects {
		if !skip[s] {
			out = append(out, s)
		}
	}
	return out
}
