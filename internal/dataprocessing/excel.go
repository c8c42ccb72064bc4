package dataprocessing

import (
	"context"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	"gradepulse/internal/errors"
	"gradepulse/pkg/contracts/domain"
)

// LoadExcel reads a gradebook workbook (.xlsx) and extracts the student
// rows. The data sheet is located by scanning for a header row carrying the
// student_id column alongside at least one recognized subject.
func (l *Loader) LoadExcel(ctx context.Context, path string) (*domain.Dataset, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.NewParsingError("failed to open workbook", err).
			WithContext("path", path)
	}
	defer f.Close()

	rows, sheetName, found := findGradeSheet(f)
	if !found {
		return nil, errors.NewParsingError("could not find grade data sheet in workbook", nil).
			WithContext("path", path).
			WithContext("sheets", f.GetSheetList())
	}

	l.logger.InfoContext(ctx, "found grade data sheet",
		slog.String("path", path),
		slog.String("sheet", sheetName),
		slog.Int("rows", len(rows)))

	ds, err := l.parseRows(ctx, rows)
	if err != nil {
		return nil, err
	}

	l.logger.InfoContext(ctx, "dataset loaded from workbook",
		slog.String("path", path),
		slog.Int("records", ds.Len()),
		slog.Int("subjects", len(ds.Subjects)))

	return ds, nil
}

// findGradeSheet scans the workbook for a sheet whose first rows look like
// a grade table.
func findGradeSheet(f *excelize.File) ([][]string, string, bool) {
	// Common sheet names first
	for _, name := range []string{"Grades", "grades", "Students", "Sheet1"} {
		if rows, err := f.GetRows(name); err == nil && isGradeHeader(rows) {
			return rows, name, true
		}
	}

	// Fall back to scanning every sheet
	for _, name := range f.GetSheetList() {
		if rows, err := f.GetRows(name); err == nil && isGradeHeader(rows) {
			return rows, name, true
		}
	}

	return nil, "", false
}

// isGradeHeader reports whether the sheet's leading row carries the
// identity column and at least one known subject column.
func isGradeHeader(rows [][]string) bool {
	if len(rows) == 0 {
		return false
	}

	header := strings.ToLower(strings.Join(rows[0], " "))
	if !strings.Contains(header, "student_id") {
		return false
	}

	for _, subject := range domain.KnownSubjects {
		if strings.Contains(header, strings.ToLower(subject)) {
			return true
		}
	}
	return false
}
