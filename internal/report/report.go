// Package report renders the aggregate analysis as a plain-text report
// suitable for humans and for diffing between runs.
package report

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gradepulse/internal/errors"
	"gradepulse/pkg/contracts/domain"
)

const divider = "============================================================"

// Writer renders the analysis report. A fixed clock can be injected for
// reproducible output in tests.
type Writer struct {
	logger *slog.Logger
	now    func() time.Time
}

// NewWriter creates a report writer using the wall clock.
func NewWriter(logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{logger: logger, now: time.Now}
}

// WithClock overrides the timestamp source.
func (w *Writer) WithClock(now func() time.Time) *Writer {
	w.now = now
	return w
}

// Render produces the report text for an aggregate result.
func (w *Writer) Render(result *domain.AggregateResult) string {
	var b strings.Builder

	b.WriteString(divider + "\n")
	b.WriteString("STUDENT GRADE ANALYSIS REPORT\n")
	fmt.Fprintf(&b, "Generated: %s\n", w.now().Format("2006-01-02 15:04:05"))
	b.WriteString(divider + "\n\n")

	b.WriteString("SUMMARY STATISTICS\n")
	b.WriteString("------------------------------\n")
	fmt.Fprintf(&b, "Total Students:        %d\n", result.TotalStudents)
	fmt.Fprintf(&b, "Average Overall Grade: %.1f\n", result.AverageGrade)
	fmt.Fprintf(&b, "Highest Grade:         %.1f\n", result.HighestGrade)
	fmt.Fprintf(&b, "Lowest Grade:          %.1f\n", result.LowestGrade)
	b.WriteString("\n")

	b.WriteString("SUBJECT PERFORMANCE\n")
	b.WriteString("------------------------------\n")
	for _, sa := range result.SubjectAverages {
		fmt.Fprintf(&b, "%-10s %.1f\n", sa.Subject+":", sa.Average)
	}
	b.WriteString("\n")

	b.WriteString("GRADE DISTRIBUTION\n")
	b.WriteString("------------------------------\n")
	total := result.DistributionTotal()
	for _, gc := range result.GradeDistribution {
		pct := 0.0
		if total > 0 {
			pct = float64(gc.Count) / float64(total) * 100
		}
		fmt.Fprintf(&b, "%s: %3d students (%.1f%%)\n", gc.Grade, gc.Count, pct)
	}
	b.WriteString("\n")

	b.WriteString("PERFORMANCE BY GRADE LEVEL\n")
	b.WriteString("------------------------------\n")
	for _, ga := range result.PerformanceByGradeLevel {
		fmt.Fprintf(&b, "%-10s %.1f\n", ga.Key+":", ga.Average)
	}
	b.WriteString("\n")

	if len(result.GenderPerformance) > 0 {
		b.WriteString("PERFORMANCE BY GENDER\n")
		b.WriteString("------------------------------\n")
		for _, ga := range result.GenderPerformance {
			fmt.Fprintf(&b, "%-10s %.1f\n", ga.Key+":", ga.Average)
		}
		b.WriteString("\n")
	}

	b.WriteString(divider + "\n")

	return b.String()
}

// Save renders the report and writes it to path.
func (w *Writer) Save(ctx context.Context, path string, result *domain.AggregateResult) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.NewStorageError("failed to create report directory", err).
			WithContext("path", path)
	}

	if err := os.WriteFile(path, []byte(w.Render(result)), 0644); err != nil {
		return errors.NewStorageError("failed to write report", err).
			WithContext("path", path)
	}

	w.logger.InfoContext(ctx, "report saved", slog.String("path", path))
	return nil
}
