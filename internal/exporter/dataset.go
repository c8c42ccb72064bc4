package exporter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"gradepulse/internal/errors"
	"gradepulse/pkg/contracts/domain"
)

// baseColumns are the non-subject columns every dataset export starts with.
var baseColumns = []string{"student_id", "name", "grade_level", "gender"}

// derivedColumns are appended to transformed exports, after the subjects.
var derivedColumns = []string{"overall_average", "letter_grade", "performance", "best_subject", "worst_subject"}

// DatasetExporter persists pipeline stage outputs to disk. Every failure
// it returns is a storage error; callers writing non-essential artifacts
// downgrade those to warnings instead of aborting the run.
type DatasetExporter struct {
	logger *slog.Logger
	csv    *CSVWriter
}

// NewDatasetExporter creates a dataset exporter.
func NewDatasetExporter(logger *slog.Logger) *DatasetExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &DatasetExporter{
		logger: logger,
		csv:    NewCSVWriter(logger),
	}
}

// SaveDataset writes a dataset as CSV. A transformed dataset gets the
// derived columns appended after the subject columns; a cleaned one keeps
// exactly the input shape.
func (e *DatasetExporter) SaveDataset(ctx context.Context, path string, ds *domain.Dataset) error {
	headers := append([]string{}, baseColumns...)
	headers = append(headers, ds.Subjects...)
	if ds.Transformed {
		headers = append(headers, derivedColumns...)
	}

	records := make([][]string, 0, ds.Len())
	for i := range ds.Records {
		records = append(records, datasetRow(&ds.Records[i], ds))
	}

	if err := e.csv.WriteCSV(path, WriteOptions{Headers: headers, Records: records}); err != nil {
		return errors.NewStorageError("failed to save dataset CSV", err).
			WithContext("path", path)
	}

	e.logger.InfoContext(ctx, "dataset saved",
		slog.String("path", path),
		slog.Int("records", ds.Len()),
		slog.Bool("transformed", ds.Transformed))

	return nil
}

func datasetRow(record *domain.StudentRecord, ds *domain.Dataset) []string {
	row := []string{record.StudentID, record.Name, record.GradeLevel, record.Gender}
	for _, subject := range ds.Subjects {
		if score, ok := record.Score(subject); ok {
			row = append(row, formatScore(score))
		} else {
			row = append(row, "")
		}
	}
	if ds.Transformed {
		row = append(row,
			formatScore(record.OverallAverage),
			record.LetterGrade,
			record.Performance,
			record.BestSubject,
			record.WorstSubject,
		)
	}
	return row
}

func formatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', 1, 64)
}

// SaveSummary writes the aggregate result as indented JSON.
func (e *DatasetExporter) SaveSummary(ctx context.Context, path string, result *domain.AggregateResult) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.NewStorageError("failed to create summary directory", err).
			WithContext("path", path)
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return errors.NewStorageError("failed to encode summary", err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return errors.NewStorageError(fmt.Sprintf("failed to write %s", filepath.Base(path)), err).
			WithContext("path", path)
	}

	e.logger.InfoContext(ctx, "summary saved", slog.String("path", path))
	return nil
}
