package dataprocessing

import (
	"context"
	"encoding/csv"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"gradepulse/internal/errors"
	"gradepulse/internal/validation"
	"gradepulse/pkg/contracts/domain"
)

// Loader reads raw grade datasets from disk. When the input file does not
// exist it can fall back to a synthetic sample generator.
type Loader struct {
	logger    *slog.Logger
	validate  *validator.Validate
	files     *validation.FileValidator
	generator *SampleGenerator
}

// NewLoader creates a loader. generator may be nil to disable the
// synthetic-sample fallback.
func NewLoader(logger *slog.Logger, generator *SampleGenerator) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		logger:    logger,
		validate:  validator.New(),
		files:     validation.NewFileValidator(logger),
		generator: generator,
	}
}

// Load reads the dataset at path. A missing file is handled by the sample
// generator when one is configured; otherwise it is a DataNotFoundError.
// The generated sample is persisted back to path so later runs load the
// same data, but a persistence failure only downgrades to a warning.
func (l *Loader) Load(ctx context.Context, path string) (*domain.Dataset, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if l.generator == nil {
			return nil, errors.NewDataNotFoundError(path)
		}

		l.logger.InfoContext(ctx, "input file not found, generating sample data",
			slog.String("path", path))

		ds := l.generator.Generate()
		if err := saveRawCSV(path, ds); err != nil {
			l.logger.WarnContext(ctx, "could not persist generated sample",
				slog.String("path", path),
				slog.String("error", err.Error()))
		}
		return ds, nil
	}

	if err := l.files.ValidateInputFile(path); err != nil {
		return nil, errors.NewValidationError(err.Error()).WithContext("path", path)
	}

	if strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		return l.LoadExcel(ctx, path)
	}
	return l.LoadCSV(ctx, path)
}

// LoadCSV reads a comma-separated dataset with a header row.
func (l *Loader) LoadCSV(ctx context.Context, path string) (*domain.Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewDataNotFoundError(path)
		}
		return nil, errors.NewParsingError("failed to open input file", err).
			WithContext("path", path)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, errors.NewParsingError("failed to read input file", err).
			WithContext("path", path)
	}

	// Strip UTF-8 BOM if present
	if len(content) >= 3 && content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		content = content[3:]
	}

	reader := csv.NewReader(strings.NewReader(string(content)))
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.NewParsingError("failed to parse CSV", err).
			WithContext("path", path)
	}

	ds, err := l.parseRows(ctx, rows)
	if err != nil {
		return nil, err
	}

	l.logger.InfoContext(ctx, "dataset loaded",
		slog.String("path", path),
		slog.Int("records", ds.Len()),
		slog.Int("subjects", len(ds.Subjects)))

	return ds, nil
}

// parseRows converts a header row plus data rows into a Dataset.
func (l *Loader) parseRows(ctx context.Context, rows [][]string) (*domain.Dataset, error) {
	if len(rows) < 1 {
		return nil, errors.NewParsingError("input has no header row", nil)
	}

	cols := findColumnIndices(rows[0])
	if cols.idCol == -1 {
		return nil, errors.NewParsingError("required column not found: student_id", nil).
			WithContext("header", rows[0])
	}

	ds := &domain.Dataset{Subjects: cols.subjectOrder()}

	for i, row := range rows[1:] {
		record, ok := cols.buildRecord(row)
		if !ok {
			l.logger.WarnContext(ctx, "skipping malformed row",
				slog.Int("row", i+2))
			continue
		}

		if err := l.validate.Struct(&record); err != nil {
			l.logger.WarnContext(ctx, "record failed validation",
				slog.String("student_id", record.StudentID),
				slog.Int("row", i+2),
				slog.String("error", err.Error()))
		}

		ds.Records = append(ds.Records, record)
	}

	return ds, nil
}

// columnIndices holds the positions of recognized columns in the header.
type columnIndices struct {
	idCol         int
	nameCol       int
	gradeLevelCol int
	genderCol     int
	// subjectCols maps canonical subject name to column index, -1 if absent.
	subjectCols map[string]int
}

// findColumnIndices locates the recognized columns in a header row.
// Column names are trimmed, BOM-stripped and matched exactly first, then
// case-insensitively.
func findColumnIndices(header []string) columnIndices {
	cols := columnIndices{
		idCol:         -1,
		nameCol:       -1,
		gradeLevelCol: -1,
		genderCol:     -1,
		subjectCols:   make(map[string]int, len(domain.KnownSubjects)),
	}
	for _, subject := range domain.KnownSubjects {
		cols.subjectCols[subject] = -1
	}

	lowerSubjects := make(map[string]string, len(domain.KnownSubjects))
	for _, subject := range domain.KnownSubjects {
		lowerSubjects[strings.ToLower(subject)] = subject
	}

	for i, col := range header {
		clean := strings.TrimSpace(col)
		clean = strings.TrimPrefix(clean, "\uFEFF")
		lower := strings.ToLower(clean)

		switch lower {
		case "student_id", "studentid", "id":
			cols.idCol = i
		case "name", "student_name":
			cols.nameCol = i
		case "grade_level", "gradelevel", "grade level":
			cols.gradeLevelCol = i
		case "gender":
			cols.genderCol = i
		default:
			if subject, ok := lowerSubjects[lower]; ok {
				cols.subjectCols[subject] = i
			}
		}
	}

	return cols
}

// subjectOrder returns the present subjects in canonical order.
func (c columnIndices) subjectOrder() []string {
	var subjects []string
	for _, subject := range domain.KnownSubjects {
		if c.subjectCols[subject] != -1 {
			subjects = append(subjects, subject)
		}
	}
	return subjects
}

// buildRecord assembles a StudentRecord from one data row. An empty or
// unparseable numeric cell is treated as a missing score.
func (c columnIndices) buildRecord(row []string) (domain.StudentRecord, bool) {
	cell := func(idx int) string {
		if idx == -1 || idx >= len(row) {
			return ""
		}
		return row[idx]
	}

	record := domain.StudentRecord{
		StudentID:  strings.TrimSpace(cell(c.idCol)),
		Name:       cell(c.nameCol),
		GradeLevel: cell(c.gradeLevelCol),
		Gender:     cell(c.genderCol),
		Scores:     make(map[string]float64),
	}

	if record.StudentID == "" {
		return domain.StudentRecord{}, false
	}

	for _, subject := range domain.KnownSubjects {
		idx := c.subjectCols[subject]
		raw := strings.TrimSpace(cell(idx))
		if idx == -1 || raw == "" {
			continue
		}
		score, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue // unparseable cell counts as missing
		}
		record.Scores[subject] = score
	}

	return record, true
}

// saveRawCSV persists a freshly generated dataset in the raw input format.
func saveRawCSV(path string, ds *domain.Dataset) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.NewStorageError("failed to create raw CSV", err).
			WithContext("path", path)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := append([]string{"student_id", "name", "grade_level", "gender"}, ds.Subjects...)
	if err := writer.Write(header); err != nil {
		return errors.NewStorageError("failed to write raw CSV header", err)
	}

	for _, record := range ds.Records {
		row := []string{record.StudentID, record.Name, record.GradeLevel, record.Gender}
		for _, subject := range ds.Subjects {
			if score, ok := record.Scores[subject]; ok {
				row = append(row, strconv.FormatFloat(score, 'f', 1, 64))
			} else {
				row = append(row, "")
			}
		}
		if err := writer.Write(row); err != nil {
			return errors.NewStorageError("failed to write raw CSV row", err)
		}
	}

	return nil
}
