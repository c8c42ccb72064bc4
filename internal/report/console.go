package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"gradepulse/pkg/contracts/domain"
)

// ConsolePrinter renders the aggregate result as colored tables for
// interactive runs.
type ConsolePrinter struct {
	out io.Writer
}

// NewConsolePrinter creates a printer writing to out.
func NewConsolePrinter(out io.Writer) *ConsolePrinter {
	return &ConsolePrinter{out: out}
}

// Print writes the summary, subject and distribution tables.
func (p *ConsolePrinter) Print(result *domain.AggregateResult) {
	title := color.New(color.FgCyan, color.Bold)
	title.Fprintln(p.out, "\nStudent Grade Analysis")

	summary := tablewriter.NewWriter(p.out)
	summary.SetHeader([]string{"Metric", "Value"})
	summary.Append([]string{"Total Students", fmt.Sprintf("%d", result.TotalStudents)})
	summary.Append([]string{"Average Overall Grade", fmt.Sprintf("%.1f", result.AverageGrade)})
	summary.Append([]string{"Highest Grade", fmt.Sprintf("%.1f", result.HighestGrade)})
	summary.Append([]string{"Lowest Grade", fmt.Sprintf("%.1f", result.LowestGrade)})
	summary.Render()

	title.Fprintln(p.out, "\nSubject Averages")
	subjects := tablewriter.NewWriter(p.out)
	subjects.SetHeader([]string{"Subject", "Average"})
	for _, sa := range result.SubjectAverages {
		subjects.Append([]string{sa.Subject, fmt.Sprintf("%.1f", sa.Average)})
	}
	subjects.Render()

	title.Fprintln(p.out, "\nGrade Distribution")
	total := result.DistributionTotal()
	distribution := tablewriter.NewWriter(p.out)
	distribution.SetHeader([]string{"Grade", "Students", "Share"})
	for _, gc := range result.GradeDistribution {
		share := 0.0
		if total > 0 {
			share = float64(gc.Count) / float64(total) * 100
		}
		distribution.Append([]string{
			colorGrade(gc.Grade),
			fmt.Sprintf("%d", gc.Count),
			fmt.Sprintf("%.1f%%", share),
		})
	}
	distribution.Render()
}

// colorGrade colors passing grades green, borderline yellow, failing red.
func colorGrade(grade string) string {
	switch grade {
	case domain.GradeA, domain.GradeB:
		return color.GreenString(grade)
	case domain.GradeC, domain.GradeD:
		return color.YellowString(grade)
	default:
		return color.RedString(grade)
	}
}
